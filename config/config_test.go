// go-pocketscan
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-pocketscan.
//
// go-pocketscan is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-pocketscan is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-pocketscan; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func lookup(vals map[string]string) func(string) string {
	return func(key string) string { return vals[key] }
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg := load(lookup(nil))

	assert.Equal(t, ReaderMFRC522, cfg.Reader)
	assert.Equal(t, "GPIO12", cfg.UpPin)
	assert.Equal(t, "GPIO13", cfg.DownPin)
	assert.Equal(t, "GPIO14", cfg.SelectPin)
	assert.True(t, cfg.ButtonsActiveLow)
	assert.Equal(t, "/rfid_log.txt", cfg.LogPath)
	assert.Equal(t, 115200, cfg.DiagBaud)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, time.Second, cfg.NoTagDelay)
	assert.Equal(t, 2*time.Second, cfg.SettleDelay)
	assert.Equal(t, 2*time.Second, cfg.SplashDelay)
	assert.False(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	cfg := load(lookup(map[string]string{
		"POCKETSCAN_READER":             " PN532-UART ",
		"POCKETSCAN_READER_UART":        "/dev/ttyUSB0",
		"POCKETSCAN_BUTTONS_ACTIVE_LOW": "off",
		"POCKETSCAN_LOG_ROOT":           "/media/card",
		"POCKETSCAN_LOG_PATH":           "scans.txt",
		"POCKETSCAN_DEBUG":              "yes",
		"POCKETSCAN_POLL_MS":            "50",
		"POCKETSCAN_SETTLE_DELAY_MS":    "500",
	}))

	assert.Equal(t, ReaderPN532UART, cfg.Reader)
	assert.Equal(t, "/dev/ttyUSB0", cfg.ReaderUARTPort)
	assert.False(t, cfg.ButtonsActiveLow)
	assert.Equal(t, "/media/card", cfg.LogRoot)
	assert.Equal(t, "/scans.txt", cfg.LogPath)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay)
}

func TestLoad_Clamps(t *testing.T) {
	t.Parallel()

	cfg := load(lookup(map[string]string{
		"POCKETSCAN_READER":          "acr122",
		"POCKETSCAN_DIAG_BAUD":       "-1",
		"POCKETSCAN_POLL_MS":         "0",
		"POCKETSCAN_DEBOUNCE_MS":     "5",
		"POCKETSCAN_NO_TAG_DELAY_MS": "-100",
		"POCKETSCAN_SCAN_TIMEOUT_MS": "1",
		"POCKETSCAN_DEBUG":           "maybe",
	}))

	assert.Equal(t, ReaderMFRC522, cfg.Reader)
	assert.Equal(t, 115200, cfg.DiagBaud)
	assert.Equal(t, 10*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 50*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, time.Duration(0), cfg.NoTagDelay)
	assert.Equal(t, 50*time.Millisecond, cfg.ScanTimeout)
	assert.False(t, cfg.Debug)
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Parallel()

	cfg := load(lookup(map[string]string{
		"POCKETSCAN_POLL_MS":   "fast",
		"POCKETSCAN_DIAG_BAUD": "9600baud",
	}))

	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 115200, cfg.DiagBaud)
}

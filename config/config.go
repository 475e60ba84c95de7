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

// Package config loads device settings from POCKETSCAN_* environment
// variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Reader backends.
const (
	ReaderMFRC522   = "mfrc522"
	ReaderPN532I2C  = "pn532-i2c"
	ReaderPN532UART = "pn532-uart"
)

// Config holds the hardware wiring and timing of the device.
type Config struct {
	Reader           string
	SPIPort          string
	ReaderResetPin   string
	ReaderIRQPin     string
	ReaderI2CBus     string
	ReaderUARTPort   string
	DisplayI2CBus    string
	UpPin            string
	DownPin          string
	SelectPin        string
	LogRoot          string
	LogPath          string
	DiagPort         string
	DiagBaud         int
	PollInterval     time.Duration
	DebounceWindow   time.Duration
	NoTagDelay       time.Duration
	SettleDelay      time.Duration
	SplashDelay      time.Duration
	ScanTimeout      time.Duration
	ButtonsActiveLow bool
	Debug            bool
}

// Load reads the configuration from the environment, applying defaults and
// clamping out-of-range values.
func Load() Config {
	return load(os.Getenv)
}

func load(getenv func(string) string) Config {
	e := env(getenv)
	cfg := Config{
		Reader:           strings.ToLower(e.or("POCKETSCAN_READER", ReaderMFRC522)),
		SPIPort:          e.or("POCKETSCAN_SPI_PORT", ""),
		ReaderResetPin:   e.or("POCKETSCAN_READER_RST_PIN", "GPIO9"),
		ReaderIRQPin:     e.or("POCKETSCAN_READER_IRQ_PIN", "GPIO24"),
		ReaderI2CBus:     e.or("POCKETSCAN_READER_I2C_BUS", ""),
		ReaderUARTPort:   e.or("POCKETSCAN_READER_UART", "/dev/ttyS0"),
		DisplayI2CBus:    e.or("POCKETSCAN_DISPLAY_I2C_BUS", ""),
		UpPin:            e.or("POCKETSCAN_BUTTON_UP", "GPIO12"),
		DownPin:          e.or("POCKETSCAN_BUTTON_DOWN", "GPIO13"),
		SelectPin:        e.or("POCKETSCAN_BUTTON_SELECT", "GPIO14"),
		ButtonsActiveLow: e.boolean("POCKETSCAN_BUTTONS_ACTIVE_LOW", true),
		LogRoot:          e.or("POCKETSCAN_LOG_ROOT", "/mnt/sd"),
		LogPath:          e.or("POCKETSCAN_LOG_PATH", "/rfid_log.txt"),
		DiagPort:         e.or("POCKETSCAN_DIAG_PORT", ""),
		DiagBaud:         e.integer("POCKETSCAN_DIAG_BAUD", 115200),
		Debug:            e.boolean("POCKETSCAN_DEBUG", false),
		PollInterval:     e.durationMS("POCKETSCAN_POLL_MS", 100),
		DebounceWindow:   e.durationMS("POCKETSCAN_DEBOUNCE_MS", 300),
		NoTagDelay:       e.durationMS("POCKETSCAN_NO_TAG_DELAY_MS", 1000),
		SettleDelay:      e.durationMS("POCKETSCAN_SETTLE_DELAY_MS", 2000),
		SplashDelay:      e.durationMS("POCKETSCAN_SPLASH_MS", 2000),
		ScanTimeout:      e.durationMS("POCKETSCAN_SCAN_TIMEOUT_MS", 500),
	}

	switch cfg.Reader {
	case ReaderMFRC522, ReaderPN532I2C, ReaderPN532UART:
	default:
		cfg.Reader = ReaderMFRC522
	}
	if cfg.DiagBaud <= 0 {
		cfg.DiagBaud = 115200
	}
	if cfg.PollInterval < 10*time.Millisecond {
		cfg.PollInterval = 10 * time.Millisecond
	}
	if cfg.DebounceWindow < 50*time.Millisecond {
		cfg.DebounceWindow = 50 * time.Millisecond
	}
	if cfg.NoTagDelay < 0 {
		cfg.NoTagDelay = 0
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	if cfg.SplashDelay < 0 {
		cfg.SplashDelay = 0
	}
	if cfg.ScanTimeout < 50*time.Millisecond {
		cfg.ScanTimeout = 50 * time.Millisecond
	}
	if !strings.HasPrefix(cfg.LogPath, "/") {
		cfg.LogPath = "/" + cfg.LogPath
	}

	return cfg
}

type env func(string) string

func (e env) or(key, fallback string) string {
	val := strings.TrimSpace(e(key))
	if val == "" {
		return fallback
	}
	return val
}

func (e env) integer(key string, fallback int) int {
	raw := strings.TrimSpace(e(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (e env) boolean(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(e(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func (e env) durationMS(key string, fallback int) time.Duration {
	return time.Duration(e.integer(key, fallback)) * time.Millisecond
}

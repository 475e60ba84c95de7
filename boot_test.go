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

package pocketscan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootSequence_Run(t *testing.T) {
	t.Parallel()

	display := NewMockDisplay()
	clock := NewFakeClock()
	diag := &RecordingDiagnostics{}
	initialised := false

	boot := BootSequence{
		Display: display,
		Store:   NewMockLogStore(),
		InitReader: func(context.Context) error {
			initialised = true
			return nil
		},
		Splash: DefaultSplashHold,
	}
	require.NoError(t, boot.Run(context.Background(), WithClock(clock), WithDiagnostics(diag)))

	frames := display.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, []string{SplashTitle, SplashSubtitle}, frames[0])
	assert.Empty(t, frames[1])
	assert.Equal(t, []time.Duration{2 * time.Second}, clock.Slept())
	assert.True(t, initialised)
	assert.Equal(t, []string{
		"Scan RFID tag",
		"SD Card is ready.",
		"Initializing WiFi Tools...",
	}, diag.Lines())
}

func TestBootSequence_DegradedHardware(t *testing.T) {
	t.Parallel()

	store := NewMockLogStore()
	store.ProbeErr = ErrLogUnavailable
	diag := &RecordingDiagnostics{}

	boot := BootSequence{
		Display: NewMockDisplay(),
		Store:   store,
		InitReader: func(context.Context) error {
			return errors.New("no answer on SPI")
		},
	}
	require.NoError(t, boot.Run(context.Background(), WithClock(NewFakeClock()), WithDiagnostics(diag)))

	assert.Equal(t, []string{
		"RFID reader initialization failed: no answer on SPI",
		"SD Card initialization failed!",
		"Initializing WiFi Tools...",
	}, diag.Lines())
}

func TestBootSequence_DisplayFailureIsFatal(t *testing.T) {
	t.Parallel()

	display := NewMockDisplay()
	display.FlushErr = errors.New("i2c nack")

	boot := BootSequence{Display: display, Store: NewMockLogStore()}
	err := boot.Run(context.Background(), WithClock(NewFakeClock()), WithDiagnostics(DiscardDiagnostics))
	require.ErrorIs(t, err, ErrDisplayInit)
}

func TestBootSequence_CancelledDuringSplash(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	diag := &RecordingDiagnostics{}
	boot := BootSequence{Display: NewMockDisplay(), Splash: time.Second}
	err := boot.Run(ctx, WithClock(NewFakeClock()), WithDiagnostics(diag))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, diag.Lines())
}

func TestBootSequence_NeedsDisplay(t *testing.T) {
	t.Parallel()

	err := BootSequence{}.Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidParameter)
}

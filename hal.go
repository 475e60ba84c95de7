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
	"time"
)

// Display is a character-grid display surface. Lines are addressed from
// zero at the top; a panel must offer at least five lines of about twenty
// characters.
type Display interface {
	// Clear blanks the pending frame and moves the cursor to line 0.
	Clear()

	// SetCursor moves the cursor to the given line.
	SetCursor(line int)

	// DrawText writes text on the cursor line and advances the cursor by one line.
	DrawText(text string)

	// Flush pushes the pending frame to the panel.
	Flush() error
}

// TagReader is the capability the scan workflow needs from an RFID reader.
type TagReader interface {
	// TagPresent reports whether a new tag has entered the field.
	TagPresent(ctx context.Context) (bool, error)

	// ReadSerial returns the identifier of the tag found by the last
	// successful TagPresent call.
	ReadSerial(ctx context.Context) (TagIdentifier, error)
}

// LogStore opens append-only log resources.
type LogStore interface {
	OpenAppend(path string) (LogHandle, error)
}

// LogHandle is an open log resource. Close must be called exactly once.
type LogHandle interface {
	WriteLine(line string) error
	Close() error
}

// Button is a raw digital input. Pressed reports the current level, already
// translated from the pin polarity.
type Button interface {
	Pressed() bool
}

// Clock provides monotonic timestamps and blocking waits.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

// SystemClock is the wall clock. time.Now carries a monotonic reading, so
// comparisons between its values are immune to clock steps.
var SystemClock Clock = systemClock{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// OfflineReader stands in for a reader that could not be brought up.
// Every probe fails with Err, so scans report it instead of a tag.
type OfflineReader struct {
	Err error
}

func (r OfflineReader) TagPresent(context.Context) (bool, error) {
	return false, r.Err
}

func (r OfflineReader) ReadSerial(context.Context) (TagIdentifier, error) {
	return nil, r.Err
}

// Close does nothing.
func (OfflineReader) Close() error {
	return nil
}

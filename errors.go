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
	"errors"
	"fmt"
)

// Error definitions
var (
	// ErrNoTag is returned by readers when no tag is in the field.
	ErrNoTag = errors.New("no tag detected")
	// ErrEmptyUID is returned when a reader reports success with a zero-length UID.
	ErrEmptyUID = errors.New("empty tag identifier")
	// ErrDisplayInit is the only fatal condition: the display could not be brought up.
	ErrDisplayInit = errors.New("display initialization failed")
	// ErrInvalidParameter is returned for invalid options.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrLogUnavailable is returned when the log store cannot be opened.
	ErrLogUnavailable = errors.New("log store unavailable")
)

// ReaderError wraps a failure reported by a tag reader backend.
type ReaderError struct {
	Err     error
	Op      string
	Backend string
}

func (e *ReaderError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ReaderError) Unwrap() error {
	return e.Err
}

// NewReaderError creates a ReaderError for the given backend operation.
func NewReaderError(backend, op string, err error) *ReaderError {
	return &ReaderError{Backend: backend, Op: op, Err: err}
}

// IsNoTag reports whether err means the field was simply empty.
func IsNoTag(err error) bool {
	return errors.Is(err, ErrNoTag)
}

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

package pn532

import (
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-pocketscan/internal/frame"
)

// Transport errors
var (
	ErrTransportTimeout    = errors.New("transport timeout")
	ErrTransportRead       = errors.New("transport read failed")
	ErrTransportWrite      = errors.New("transport write failed")
	ErrTransportNotReady   = errors.New("transport not ready")
	ErrCommunicationFailed = errors.New("communication failed")
	ErrNoACK               = errors.New("no ACK received")
	ErrUnexpectedResponse  = errors.New("unexpected response")
)

// ErrorType classifies transport failures.
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away by retrying.
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors may succeed on retry.
	ErrorTypeTransient
	// ErrorTypeTimeout errors are timeouts.
	ErrorTypeTimeout
)

// TransportError carries the operation and port of a transport failure.
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError; transient and timeout
// errors are marked retryable.
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewTimeoutError creates a timeout TransportError.
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// NewNoACKError creates a TransportError for a missing ACK.
func NewNoACKError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrNoACK, ErrorTypeTransient)
}

// NewFrameCorruptedError creates a TransportError for an unreadable frame.
func NewFrameCorruptedError(op, port string) *TransportError {
	return NewTransportError(op, port, frame.ErrFrameCorrupted, ErrorTypeTransient)
}

// NewFrameError classifies a frame.Parse failure. Corrupted frames are
// transient and get a NACK; a PN532 error frame is permanent.
func NewFrameError(op, port string, err error) *TransportError {
	if errors.Is(err, frame.ErrFrameCorrupted) || errors.Is(err, frame.ErrChecksumMismatch) {
		return NewFrameCorruptedError(op, port)
	}
	return NewTransportError(op, port, err, ErrorTypePermanent)
}

// NewTransportNotReadyError creates a TransportError for a busy PN532.
func NewTransportNotReadyError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportNotReady, ErrorTypeTransient)
}

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}
	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrCommunicationFailed),
		errors.Is(err, ErrNoACK),
		errors.Is(err, frame.ErrFrameCorrupted),
		errors.Is(err, frame.ErrChecksumMismatch):
		return true
	default:
		return false
	}
}

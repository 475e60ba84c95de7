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
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

var debugEnabled atomic.Bool

// SetDebugEnabled turns debug tracing on or off.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// IsDebugEnabled reports whether debug tracing is on.
func IsDebugEnabled() bool {
	return debugEnabled.Load()
}

var debugLogger = log.New(os.Stderr, "[pocketscan] ", log.Ltime|log.Lmicroseconds)

// SetDebugOutput redirects debug tracing. Mostly useful in tests.
func SetDebugOutput(w io.Writer) {
	debugLogger.SetOutput(w)
}

func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		debugLogger.Printf(format, args...)
	}
}

func debugln(args ...any) {
	if debugEnabled.Load() {
		debugLogger.Println(args...)
	}
}

// Diagnostics is the write-only channel for human readable status lines.
// The core never reads it back.
type Diagnostics interface {
	Printf(format string, args ...any)
}

// WriterDiagnostics writes one line per message to an io.Writer, such as
// stdout or a serial console.
type WriterDiagnostics struct {
	w io.Writer
}

// NewWriterDiagnostics returns a Diagnostics that writes to w.
func NewWriterDiagnostics(w io.Writer) *WriterDiagnostics {
	return &WriterDiagnostics{w: w}
}

// Printf writes the formatted message followed by a newline. Write errors
// are dropped: there is nowhere left to report them.
func (d *WriterDiagnostics) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(d.w, format+"\n", args...)
	debugf("diag: "+format, args...)
}

type discardDiagnostics struct{}

func (discardDiagnostics) Printf(string, ...any) {}

// DiscardDiagnostics drops every message.
var DiscardDiagnostics Diagnostics = discardDiagnostics{}

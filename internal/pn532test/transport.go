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

package pn532test

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrUnscripted is returned for a command the transport has no answer for.
var ErrUnscripted = errors.New("no scripted response")

// Call records one SendCommand invocation.
type Call struct {
	Args []byte
	Cmd  byte
}

// MockTransport answers commands from per-command queues. The last answer
// of a queue is repeated once the queue drains.
type MockTransport struct {
	responses map[byte][][]byte
	errs      map[byte]error
	calls     []Call
	Timeout   time.Duration
	CloseErr  error
	closed    bool
	mu        sync.Mutex
}

// NewMockTransport creates a transport that already answers the reader's
// initialisation commands.
func NewMockTransport() *MockTransport {
	m := &MockTransport{
		responses: make(map[byte][][]byte),
		errs:      make(map[byte]error),
	}
	m.Queue(CmdGetFirmwareVersion, FirmwareVersionResponse())
	m.Queue(CmdSAMConfiguration, AckResponse(CmdSAMConfiguration))
	m.Queue(CmdRFConfiguration, AckResponse(CmdRFConfiguration))
	m.Queue(CmdInRelease, ReleaseResponse())
	return m
}

// Queue appends answers for cmd.
func (m *MockTransport) Queue(cmd byte, responses ...[]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[cmd] = append(m.responses[cmd], responses...)
}

// Script replaces the answers for cmd.
func (m *MockTransport) Script(cmd byte, responses ...[]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[cmd] = responses
}

// Fail makes every later cmd return err; nil clears it.
func (m *MockTransport) Fail(cmd byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, cmd)
		return
	}
	m.errs[cmd] = err
}

// SendCommand implements pn532.Transport.
func (m *MockTransport) SendCommand(cmd byte, args []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Cmd: cmd, Args: append([]byte(nil), args...)})
	if err := m.errs[cmd]; err != nil {
		return nil, err
	}
	queue := m.responses[cmd]
	if len(queue) == 0 {
		return nil, fmt.Errorf("%w for command %02X", ErrUnscripted, cmd)
	}
	resp := queue[0]
	if len(queue) > 1 {
		m.responses[cmd] = queue[1:]
	}
	return append([]byte(nil), resp...), nil
}

// SetTimeout implements pn532.Transport.
func (m *MockTransport) SetTimeout(timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timeout = timeout
	return nil
}

// Close implements pn532.Transport.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.CloseErr
}

// Closed reports whether Close was called.
func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Calls returns the commands sent so far.
func (m *MockTransport) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Commands returns just the command codes sent so far.
func (m *MockTransport) Commands() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmds := make([]byte, 0, len(m.calls))
	for _, c := range m.calls {
		cmds = append(cmds, c.Cmd)
	}
	return cmds
}

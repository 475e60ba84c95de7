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
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockDisplay records every flushed frame. It is used by tests and by the
// simulator's headless mode.
type MockDisplay struct {
	FlushErr error
	pending  []string
	frames   [][]string
	cursor   int
	mu       sync.Mutex
}

// NewMockDisplay creates an empty mock display.
func NewMockDisplay() *MockDisplay {
	return &MockDisplay{}
}

// Clear implements Display.
func (m *MockDisplay) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
	m.cursor = 0
}

// SetCursor implements Display.
func (m *MockDisplay) SetCursor(line int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = line
}

// DrawText implements Display.
func (m *MockDisplay) DrawText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.pending) <= m.cursor {
		m.pending = append(m.pending, "")
	}
	m.pending[m.cursor] = text
	m.cursor++
}

// Flush implements Display.
func (m *MockDisplay) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FlushErr != nil {
		return m.FlushErr
	}
	m.frames = append(m.frames, append([]string(nil), m.pending...))
	return nil
}

// Frames returns every flushed frame in order.
func (m *MockDisplay) Frames() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.frames))
	copy(out, m.frames)
	return out
}

// LastFrame returns the most recent flushed frame, or nil.
func (m *MockDisplay) LastFrame() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[len(m.frames)-1]
}

// MockTagReader serves queued reads. With an empty queue it reports no tag.
type MockTagReader struct {
	PresentErr error
	ReadErr    error
	queue      []TagIdentifier
	current    TagIdentifier
	Probes     int
	mu         sync.Mutex
}

// NewMockTagReader creates a reader that will present uids in order.
func NewMockTagReader(uids ...TagIdentifier) *MockTagReader {
	return &MockTagReader{queue: uids}
}

// Present queues another tag.
func (m *MockTagReader) Present(uid TagIdentifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, uid)
}

// TagPresent implements TagReader.
func (m *MockTagReader) TagPresent(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Probes++
	if m.PresentErr != nil {
		return false, m.PresentErr
	}
	if len(m.queue) == 0 {
		m.current = nil
		return false, nil
	}
	m.current, m.queue = m.queue[0], m.queue[1:]
	return true, nil
}

// ReadSerial implements TagReader.
func (m *MockTagReader) ReadSerial(_ context.Context) (TagIdentifier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if m.current == nil {
		return nil, ErrNoTag
	}
	return m.current, nil
}

// MockLogStore keeps appended lines in memory per path.
type MockLogStore struct {
	ProbeErr error
	OpenErr  error
	WriteErr error
	CloseErr error
	files    map[string][]string
	Opens    int
	Closes   int
	mu       sync.Mutex
}

// NewMockLogStore creates an empty store.
func NewMockLogStore() *MockLogStore {
	return &MockLogStore{files: make(map[string][]string)}
}

// OpenAppend implements LogStore.
func (m *MockLogStore) OpenAppend(path string) (LogHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	m.Opens++
	return &mockLogHandle{store: m, path: path}, nil
}

// Probe implements Prober.
func (m *MockLogStore) Probe() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ProbeErr
}

// Lines returns the lines appended to path.
func (m *MockLogStore) Lines(path string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.files[path]...)
}

// OpenHandles returns how many handles are still open.
func (m *MockLogStore) OpenHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Opens - m.Closes
}

type mockLogHandle struct {
	store  *MockLogStore
	path   string
	closed bool
}

func (h *mockLogHandle) WriteLine(line string) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if h.closed {
		return fmt.Errorf("write %s: file already closed", h.path)
	}
	if h.store.WriteErr != nil {
		return h.store.WriteErr
	}
	h.store.files[h.path] = append(h.store.files[h.path], line)
	return nil
}

func (h *mockLogHandle) Close() error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if h.closed {
		return fmt.Errorf("close %s: file already closed", h.path)
	}
	h.closed = true
	h.store.Closes++
	return h.store.CloseErr
}

// MockButton is a button whose level is set by the caller.
type MockButton struct {
	mu   sync.Mutex
	down bool
}

// Set changes the button level.
func (b *MockButton) Set(pressed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = pressed
}

// Pressed implements Button.
func (b *MockButton) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.down
}

// FakeClock is a manually advanced clock. Sleep advances it instantly.
type FakeClock struct {
	now   time.Time
	slept []time.Duration
	mu    sync.Mutex
}

// NewFakeClock creates a clock starting at an arbitrary fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now implements Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleep implements Clock by advancing the clock.
func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

// Slept returns every duration passed to Sleep.
func (c *FakeClock) Slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.slept...)
}

// RecordingDiagnostics collects diagnostic lines.
type RecordingDiagnostics struct {
	lines []string
	mu    sync.Mutex
}

// Printf implements Diagnostics.
func (r *RecordingDiagnostics) Printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// Lines returns the recorded lines.
func (r *RecordingDiagnostics) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Contains reports whether any line contains substr.
func (r *RecordingDiagnostics) Contains(substr string) bool {
	for _, line := range r.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controllerFixture struct {
	display *MockDisplay
	reader  *MockTagReader
	store   *MockLogStore
	diag    *RecordingDiagnostics
	clock   *FakeClock
	up      *MockButton
	down    *MockButton
	sel     *MockButton
	ctrl    *Controller
}

func newControllerFixture(t *testing.T, uids ...TagIdentifier) *controllerFixture {
	t.Helper()
	f := &controllerFixture{
		display: NewMockDisplay(),
		reader:  NewMockTagReader(uids...),
		store:   NewMockLogStore(),
		diag:    &RecordingDiagnostics{},
		clock:   NewFakeClock(),
		up:      &MockButton{},
		down:    &MockButton{},
		sel:     &MockButton{},
	}
	ctrl, err := New(Hardware{
		Display: f.display,
		Reader:  f.reader,
		Store:   f.store,
		Up:      f.up,
		Down:    f.down,
		Select:  f.sel,
	}, WithDiagnostics(f.diag), WithClock(f.clock))
	require.NoError(t, err)
	f.ctrl = ctrl
	return f
}

// press holds b for one iteration, then releases it for long enough that
// the next press is accepted.
func (f *controllerFixture) press(ctx context.Context, b *MockButton) InputEvent {
	b.Set(true)
	event := f.ctrl.Step(ctx)
	b.Set(false)
	f.clock.Advance(100 * time.Millisecond)
	f.ctrl.Step(ctx)
	f.clock.Advance(400 * time.Millisecond)
	return event
}

func TestNewController_Validation(t *testing.T) {
	t.Parallel()
	b := &MockButton{}
	_, err := NewController(nil, DefaultMenu(nil), b, b, b)
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewController(NewMockDisplay(), DefaultMenu(nil), nil, b, b)
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewController(NewMockDisplay(), DefaultMenu(nil), b, b, b, WithDebounce(DebounceConfig{}))
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = New(Hardware{Display: NewMockDisplay()})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestController_StepRendersMenuFirst(t *testing.T) {
	t.Parallel()
	f := newControllerFixture(t)

	event := f.ctrl.Step(context.Background())

	assert.Equal(t, EventNone, event)
	assert.Equal(t, f.ctrl.Menu().Frame(MenuState{}), f.display.LastFrame())
	assert.Equal(t, 0, f.ctrl.State().Selected)
}

func TestController_Navigation(t *testing.T) {
	t.Parallel()
	f := newControllerFixture(t)
	ctx := context.Background()

	assert.Equal(t, EventDown, f.press(ctx, f.down))
	assert.Equal(t, 1, f.ctrl.State().Selected)

	assert.Equal(t, EventUp, f.press(ctx, f.up))
	assert.Equal(t, 0, f.ctrl.State().Selected)

	assert.Equal(t, EventUp, f.press(ctx, f.up))
	assert.Equal(t, 3, f.ctrl.State().Selected)

	// The render of the iteration after a transition shows the new state.
	f.ctrl.Step(ctx)
	assert.Equal(t, "> SD Logs", f.display.LastFrame()[4])
}

func TestController_HeldButtonMovesOnce(t *testing.T) {
	t.Parallel()
	f := newControllerFixture(t)
	ctx := context.Background()

	f.down.Set(true)
	for i := 0; i < 30; i++ {
		f.ctrl.Step(ctx)
		f.clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 1, f.ctrl.State().Selected)
}

func TestController_SelectRunsScan(t *testing.T) {
	t.Parallel()
	f := newControllerFixture(t, TagIdentifier{0x01, 0x02})
	ctx := context.Background()

	f.press(ctx, f.down)
	require.Equal(t, 1, f.ctrl.State().Selected)

	assert.Equal(t, EventSelect, f.press(ctx, f.sel))
	assert.Equal(t, 1, f.ctrl.State().Selected)
	assert.Equal(t, []string{"0102"}, f.store.Lines(DefaultLogPath))
	assert.True(t, f.diag.Contains("Selected menu: 1"))

	// The menu comes back on the next iteration.
	f.ctrl.Step(ctx)
	assert.Equal(t, f.ctrl.Menu().Frame(MenuState{Selected: 1}), f.display.LastFrame())
}

func TestController_SelectOnStubEntry(t *testing.T) {
	t.Parallel()
	f := newControllerFixture(t, TagIdentifier{0x01})
	ctx := context.Background()

	f.press(ctx, f.sel)

	assert.Equal(t, 0, f.ctrl.State().Selected)
	assert.True(t, f.diag.Contains("Selected menu: 0"))
	assert.True(t, f.diag.Contains("WiFi Tools is not implemented"))
	assert.Zero(t, f.reader.Probes)
	assert.Empty(t, f.store.Lines(DefaultLogPath))
}

func TestController_ScanIgnoresCancellation(t *testing.T) {
	t.Parallel()
	display := NewMockDisplay()
	clock := NewFakeClock()
	sel := &MockButton{}
	var sawCancel bool
	tool := ToolFunc(func(ctx context.Context) error {
		sawCancel = ctx.Err() != nil
		return clock.Sleep(ctx, time.Second)
	})
	menu, err := NewMenu(MenuEntry{Label: "Tool", Tool: tool})
	require.NoError(t, err)
	ctrl, err := NewController(display, menu, &MockButton{}, &MockButton{}, sel,
		WithClock(clock), WithDiagnostics(DiscardDiagnostics))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sel.Set(true)
	assert.Equal(t, EventSelect, ctrl.Step(ctx))
	assert.False(t, sawCancel)
	assert.Equal(t, []time.Duration{time.Second}, clock.Slept())
}

func TestController_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	f := newControllerFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.ctrl.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.display.Frames())
}

func TestController_RunWaitsPollInterval(t *testing.T) {
	t.Parallel()
	display := NewMockDisplay()
	clock := NewFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	iterations := 0
	counting := &countingDisplay{Display: display, onFlush: func() {
		iterations++
		if iterations == 3 {
			cancel()
		}
	}}
	b := &MockButton{}
	ctrl, err := NewController(counting, DefaultMenu(nil), b, b, b,
		WithClock(clock), WithDiagnostics(DiscardDiagnostics), WithPollInterval(50*time.Millisecond))
	require.NoError(t, err)

	err = ctrl.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, iterations)
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond}, clock.Slept())
}

type countingDisplay struct {
	Display
	onFlush func()
}

func (d *countingDisplay) Flush() error {
	err := d.Display.Flush()
	d.onFlush()
	return err
}

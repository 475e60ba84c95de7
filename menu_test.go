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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMenu(t *testing.T, n int) *Menu {
	t.Helper()
	entries := make([]MenuEntry, n)
	for i := range entries {
		entries[i] = MenuEntry{Label: string(rune('A' + i))}
	}
	menu, err := NewMenu(entries...)
	require.NoError(t, err)
	return menu
}

func TestNewMenu_RequiresEntries(t *testing.T) {
	t.Parallel()
	_, err := NewMenu()
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDefaultMenu(t *testing.T) {
	t.Parallel()
	scan := ToolFunc(func(context.Context) error { return nil })
	menu := DefaultMenu(scan)

	require.Equal(t, 4, menu.Len())
	assert.Equal(t, LabelWiFiTools, menu.Entry(0).Label)
	assert.Equal(t, LabelRFIDScanner, menu.Entry(1).Label)
	assert.Equal(t, LabelIRBlaster, menu.Entry(2).Label)
	assert.Equal(t, LabelSDLogs, menu.Entry(3).Label)

	for i := 0; i < menu.Len(); i++ {
		assert.Equal(t, i == 1, menu.Entry(i).Implemented(), "entry %d", i)
	}
}

func TestMenu_HandleInput_Wraps(t *testing.T) {
	t.Parallel()
	menu := newTestMenu(t, 4)

	state, dispatch := menu.HandleInput(MenuState{Selected: 3}, EventDown)
	assert.Equal(t, 0, state.Selected)
	assert.False(t, dispatch)

	state, dispatch = menu.HandleInput(MenuState{Selected: 0}, EventUp)
	assert.Equal(t, 3, state.Selected)
	assert.False(t, dispatch)

	state, _ = menu.HandleInput(MenuState{Selected: 1}, EventDown)
	assert.Equal(t, 2, state.Selected)

	state, _ = menu.HandleInput(MenuState{Selected: 2}, EventUp)
	assert.Equal(t, 1, state.Selected)
}

func TestMenu_HandleInput_Select(t *testing.T) {
	t.Parallel()
	menu := newTestMenu(t, 4)

	state, dispatch := menu.HandleInput(MenuState{Selected: 2}, EventSelect)
	assert.Equal(t, 2, state.Selected)
	assert.True(t, dispatch)

	state, dispatch = menu.HandleInput(MenuState{Selected: 2}, EventNone)
	assert.Equal(t, 2, state.Selected)
	assert.False(t, dispatch)

	state, dispatch = menu.HandleInput(MenuState{Selected: 2}, InputEvent(42))
	assert.Equal(t, 2, state.Selected)
	assert.False(t, dispatch)
}

func TestMenu_HandleInput_StaysInRange(t *testing.T) {
	t.Parallel()

	// Deterministic pseudo-random walk over several menu sizes.
	seed := uint32(7)
	next := func() uint32 {
		seed = seed*1664525 + 1013904223
		return seed
	}

	for n := 1; n <= 6; n++ {
		menu := newTestMenu(t, n)
		state := MenuState{}
		for i := 0; i < 500; i++ {
			event := EventUp
			if next()%2 == 0 {
				event = EventDown
			}
			state, _ = menu.HandleInput(state, event)
			require.GreaterOrEqual(t, state.Selected, 0)
			require.Less(t, state.Selected, n)
		}
	}
}

func TestMenu_HandleInput_NormalizesOutOfRangeState(t *testing.T) {
	t.Parallel()
	menu := newTestMenu(t, 4)

	state, _ := menu.HandleInput(MenuState{Selected: 9}, EventNone)
	assert.Equal(t, 1, state.Selected)

	state, _ = menu.HandleInput(MenuState{Selected: -1}, EventDown)
	assert.Equal(t, 0, state.Selected)
}

func TestMenu_Frame(t *testing.T) {
	t.Parallel()
	menu := DefaultMenu(nil)

	frame := menu.Frame(MenuState{Selected: 1})
	assert.Equal(t, []string{
		"== Flipper Menu ==",
		"  WiFi Tools",
		"> RFID Scanner",
		"  IR Blaster",
		"  SD Logs",
	}, frame)
}

func TestMenu_FrameHasExactlyOneMarker(t *testing.T) {
	t.Parallel()
	menu := DefaultMenu(nil)

	for sel := 0; sel < menu.Len(); sel++ {
		frame := menu.Frame(MenuState{Selected: sel})
		marked := 0
		for _, line := range frame[1:] {
			if line[:2] == selectedMarker {
				marked++
			} else {
				assert.Equal(t, blankMarker, line[:2])
			}
		}
		assert.Equal(t, 1, marked, "selection %d", sel)
		assert.Equal(t, selectedMarker+menu.Entry(sel).Label, frame[sel+1])
	}
}

func TestMenu_RenderIsIdempotent(t *testing.T) {
	t.Parallel()
	menu := DefaultMenu(nil)
	display := NewMockDisplay()
	state := MenuState{Selected: 3}

	require.NoError(t, menu.Render(display, state))
	require.NoError(t, menu.Render(display, state))

	frames := display.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, frames[0], frames[1])
	assert.Equal(t, menu.Frame(state), frames[0])
}

func TestMenu_RenderFlushError(t *testing.T) {
	t.Parallel()
	menu := DefaultMenu(nil)
	display := NewMockDisplay()
	display.FlushErr = errors.New("bus error")

	err := menu.Render(display, MenuState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus error")
}

func TestInputEvent_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "up", EventUp.String())
	assert.Equal(t, "down", EventDown.String())
	assert.Equal(t, "select", EventSelect.String())
	assert.Equal(t, "none", EventNone.String())
	assert.Equal(t, "event(9)", InputEvent(9).String())
}

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
)

// MenuTitle is drawn on the first line of the menu screen.
const MenuTitle = "== Flipper Menu =="

const (
	selectedMarker = "> "
	blankMarker    = "  "
)

// InputEvent is a logical button event.
type InputEvent int

const (
	// EventNone means no button fired this iteration.
	EventNone InputEvent = iota
	// EventUp moves the selection up.
	EventUp
	// EventDown moves the selection down.
	EventDown
	// EventSelect runs the selected tool.
	EventSelect
)

func (e InputEvent) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventSelect:
		return "select"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Tool is the workflow behind a menu entry. Run executes to completion.
type Tool interface {
	Run(ctx context.Context) error
}

// ToolFunc adapts a function to Tool.
type ToolFunc func(ctx context.Context) error

// Run calls f(ctx).
func (f ToolFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// MenuEntry is one line of the menu. Entries without a Tool are
// placeholders.
type MenuEntry struct {
	Tool  Tool
	Label string
}

// Implemented reports whether the entry has a backing workflow.
func (e MenuEntry) Implemented() bool {
	return e.Tool != nil
}

// Default menu labels.
const (
	LabelWiFiTools   = "WiFi Tools"
	LabelRFIDScanner = "RFID Scanner"
	LabelIRBlaster   = "IR Blaster"
	LabelSDLogs      = "SD Logs"
)

// MenuState is the current selection. The zero value selects the first entry.
type MenuState struct {
	Selected int
}

// Menu is a fixed, ordered list of entries.
type Menu struct {
	entries []MenuEntry
}

// NewMenu creates a menu. At least one entry is required.
func NewMenu(entries ...MenuEntry) (*Menu, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: menu needs at least one entry", ErrInvalidParameter)
	}
	return &Menu{entries: append([]MenuEntry(nil), entries...)}, nil
}

// DefaultMenu builds the device menu with scan wired to the RFID entry.
func DefaultMenu(scan Tool) *Menu {
	return &Menu{entries: []MenuEntry{
		{Label: LabelWiFiTools},
		{Label: LabelRFIDScanner, Tool: scan},
		{Label: LabelIRBlaster},
		{Label: LabelSDLogs},
	}}
}

// Len returns the number of entries.
func (m *Menu) Len() int {
	return len(m.entries)
}

// Entry returns the entry at index i.
func (m *Menu) Entry(i int) MenuEntry {
	return m.entries[i]
}

// Frame composes the menu screen for state: the title, then one line per
// entry with the selected one marked.
func (m *Menu) Frame(state MenuState) []string {
	lines := make([]string, 0, len(m.entries)+1)
	lines = append(lines, MenuTitle)
	for i, e := range m.entries {
		prefix := blankMarker
		if i == state.Selected {
			prefix = selectedMarker
		}
		lines = append(lines, prefix+e.Label)
	}
	return lines
}

// Render pushes the menu frame for state to d.
func (m *Menu) Render(d Display, state MenuState) error {
	return drawScreen(d, m.Frame(state)...)
}

// HandleInput applies event to state. The second result is true when the
// event asks for the selected entry to be dispatched.
func (m *Menu) HandleInput(state MenuState, event InputEvent) (MenuState, bool) {
	n := len(m.entries)
	state.Selected = wrapIndex(state.Selected, n)
	switch event {
	case EventUp:
		state.Selected = (state.Selected - 1 + n) % n
	case EventDown:
		state.Selected = (state.Selected + 1) % n
	case EventSelect:
		return state, true
	case EventNone:
	}
	return state, false
}

func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

// drawScreen replaces the whole display contents with lines.
func drawScreen(d Display, lines ...string) error {
	d.Clear()
	d.SetCursor(0)
	for _, line := range lines {
		d.DrawText(line)
	}
	if err := d.Flush(); err != nil {
		return fmt.Errorf("failed to flush display: %w", err)
	}
	return nil
}

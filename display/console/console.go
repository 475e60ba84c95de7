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

// Package console renders the device screen in a terminal, framed the way
// the OLED panel would show it.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ZaparooProject/go-pocketscan"
	"github.com/ZaparooProject/go-pocketscan/display"
	"github.com/charmbracelet/lipgloss"
)

// Default grid geometry, matching a 6x8 font on a 128x64 panel.
const (
	DefaultRows = 8
	DefaultCols = 21
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("255")).
				Bold(true)
)

// Display is a terminal-backed pocketscan.Display. Each Flush renders the
// grid and hands it to the writer and the OnFrame hook.
type Display struct {
	*display.Grid
	out io.Writer
	// OnFrame, when set, receives every rendered frame.
	OnFrame func(rendered string, lines []string)
	last    []string
	mu      sync.Mutex
}

// New creates a console display writing to out. A nil out only feeds OnFrame.
func New(out io.Writer, rows, cols int) *Display {
	return &Display{
		Grid: display.NewGrid(rows, cols),
		out:  out,
	}
}

// Flush implements pocketscan.Display.
func (d *Display) Flush() error {
	lines := d.Lines()
	rendered := Render(lines, d.Cols())

	d.mu.Lock()
	d.last = lines
	hook := d.OnFrame
	d.mu.Unlock()

	if d.out != nil {
		if _, err := fmt.Fprintln(d.out, rendered); err != nil {
			return fmt.Errorf("failed to write frame: %w", err)
		}
	}
	if hook != nil {
		hook(rendered, lines)
	}
	return nil
}

// LastFrame returns the lines of the most recent Flush.
func (d *Display) LastFrame() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.last...)
}

// Render draws lines inside a panel border. Menu lines carrying the
// selection marker are shown in reverse video.
func Render(lines []string, cols int) string {
	rows := make([]string, len(lines))
	for i, line := range lines {
		padded := line + strings.Repeat(" ", max(0, cols-len([]rune(line))))
		if strings.HasPrefix(line, "> ") {
			rows[i] = selectedLineStyle.Render(padded)
		} else {
			rows[i] = textStyle.Render(padded)
		}
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

var _ pocketscan.Display = (*Display)(nil)

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

// Package display holds the character grid shared by the display backends.
package display

// Grid is a fixed-size character grid. Backends embed it for the
// Clear/SetCursor/DrawText half of pocketscan.Display and implement Flush.
type Grid struct {
	lines  []string
	cursor int
	cols   int
}

// NewGrid creates a grid of rows lines, each at most cols characters wide.
func NewGrid(rows, cols int) *Grid {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return &Grid{lines: make([]string, rows), cols: cols}
}

// Rows returns the number of lines.
func (g *Grid) Rows() int {
	return len(g.lines)
}

// Cols returns the line width in characters.
func (g *Grid) Cols() int {
	return g.cols
}

// Clear blanks every line and homes the cursor.
func (g *Grid) Clear() {
	for i := range g.lines {
		g.lines[i] = ""
	}
	g.cursor = 0
}

// SetCursor moves the cursor. Out of range lines are clamped.
func (g *Grid) SetCursor(line int) {
	switch {
	case line < 0:
		g.cursor = 0
	case line > len(g.lines):
		g.cursor = len(g.lines)
	default:
		g.cursor = line
	}
}

// DrawText writes text from the cursor line and moves to the next line.
// Text wider than the grid wraps onto the following lines; anything past
// the last line is dropped.
func (g *Grid) DrawText(text string) {
	runes := []rune(text)
	for {
		if g.cursor >= len(g.lines) {
			return
		}
		n := len(runes)
		if n > g.cols {
			n = g.cols
		}
		g.lines[g.cursor] = string(runes[:n])
		g.cursor++
		runes = runes[n:]
		if len(runes) == 0 {
			return
		}
	}
}

// Lines returns a copy of the grid contents.
func (g *Grid) Lines() []string {
	return append([]string(nil), g.lines...)
}

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

package console

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay_FlushWritesFrame(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := New(&buf, 5, DefaultCols)

	d.Clear()
	d.SetCursor(0)
	d.DrawText("== Flipper Menu ==")
	d.DrawText("> WiFi Tools")
	d.DrawText("  RFID Scanner")
	require.NoError(t, d.Flush())

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "== Flipper Menu ==")
	assert.Contains(t, out, "> WiFi Tools")
	assert.Contains(t, out, "  RFID Scanner")
	assert.Equal(t, []string{"== Flipper Menu ==", "> WiFi Tools", "  RFID Scanner", "", ""}, d.LastFrame())
}

func TestDisplay_OnFrameHook(t *testing.T) {
	t.Parallel()
	d := New(nil, 3, DefaultCols)

	var got []string
	var rendered string
	d.OnFrame = func(r string, lines []string) {
		rendered = r
		got = lines
	}

	d.DrawText("RFID TAG Found!")
	require.NoError(t, d.Flush())

	assert.Equal(t, []string{"RFID TAG Found!", "", ""}, got)
	assert.Contains(t, ansi.Strip(rendered), "RFID TAG Found!")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestDisplay_FlushWriteError(t *testing.T) {
	t.Parallel()
	d := New(failingWriter{}, 2, DefaultCols)
	err := d.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed pipe")
}

func TestRender_SameInputSameOutput(t *testing.T) {
	t.Parallel()
	lines := []string{"== Flipper Menu ==", "  WiFi Tools", "> RFID Scanner"}
	assert.Equal(t, Render(lines, DefaultCols), Render(lines, DefaultCols))
}

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

package main

import (
	"errors"
	"io/fs"

	"github.com/ZaparooProject/go-pocketscan"
	tea "github.com/charmbracelet/bubbletea"
)

const maxLogLines = 5

// logSource is the part of logstore.FileStore the log panel reads.
type logSource interface {
	ReadLines(logical string) ([]string, error)
}

// logTailMsg carries the newest records of the scan log. Lines that are not
// a tag identifier are counted in skipped.
type logTailMsg struct {
	err     error
	tags    []pocketscan.TagIdentifier
	total   int
	skipped int
}

func readLogTail(src logSource, path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := src.ReadLines(path)
		if errors.Is(err, fs.ErrNotExist) {
			return logTailMsg{}
		}
		if err != nil {
			return logTailMsg{err: err}
		}

		var msg logTailMsg
		for _, line := range lines {
			id, err := pocketscan.ParseTagIdentifier(line)
			if err != nil {
				msg.skipped++
				continue
			}
			msg.tags = append(msg.tags, id)
		}
		msg.total = len(msg.tags)
		if len(msg.tags) > maxLogLines {
			msg.tags = msg.tags[len(msg.tags)-maxLogLines:]
		}
		return msg
	}
}

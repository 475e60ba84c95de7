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
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxDiagLines = 10

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("0")).
			Bold(true)

	diagStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1).
			Width(44)

	logStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(20)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// frameMsg carries a rendered display frame.
type frameMsg string

// diagMsg is one diagnostic line.
type diagMsg string

// stoppedMsg reports that the controller loop ended.
type stoppedMsg struct {
	err error
}

type model struct {
	up      *virtualButton
	down    *virtualButton
	sel     *virtualButton
	reader  *simReader
	store   logSource
	cancel  context.CancelFunc
	err     error
	screen  string
	logPath string
	logFile string
	diag    []string
	log     logTailMsg
}

func newModel(
	up, down, sel *virtualButton,
	reader *simReader,
	store logSource,
	logPath, logFile string,
	cancel context.CancelFunc,
) model {
	return model{
		up:      up,
		down:    down,
		sel:     sel,
		reader:  reader,
		store:   store,
		logPath: logPath,
		logFile: logFile,
		cancel:  cancel,
		screen:  "(booting)",
	}
}

func (m model) Init() tea.Cmd {
	return readLogTail(m.store, m.logPath)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case frameMsg:
		m.screen = string(msg)
		return m, nil

	case diagMsg:
		m.diag = append(m.diag, string(msg))
		if len(m.diag) > maxDiagLines {
			m.diag = m.diag[len(m.diag)-maxDiagLines:]
		}
		if msg == "Saved to SD" {
			return m, readLogTail(m.store, m.logPath)
		}
		return m, nil

	case logTailMsg:
		m.log = msg
		return m, nil

	case stoppedMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.up.Tap()
	case "down", "j":
		m.down.Tap()
	case "enter", " ":
		m.sel.Tap()
	case "t":
		card := m.reader.PlaceNext()
		m.diag = append(m.diag, "[sim] card "+card.String()+" placed")
	case "r":
		m.reader.Remove()
		m.diag = append(m.diag, "[sim] card removed")
	case "l":
		return m, readLogTail(m.store, m.logPath)
	case "q", "ctrl+c", "esc":
		m.cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	field := "empty"
	if card := m.reader.Card(); card != nil {
		field = card.String()
	}

	diag := strings.Join(m.diag, "\n")
	if diag == "" {
		diag = "(no diagnostics yet)"
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.screen, " ", diagStyle.Render(diag), " ", logStyle.Render(m.logView()))
	help := helpStyle.Render("↑/k up  ↓/j down  enter select  t place card  r remove card  l reload log  q quit")
	status := helpStyle.Render("field: " + field + "  log: " + m.logFile)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(" PocketScan simulator "),
		body,
		status,
		help,
	)
}

func (m model) logView() string {
	if m.log.err != nil {
		return "log unreadable:\n" + m.log.err.Error()
	}
	lines := []string{fmt.Sprintf("log: %d tags", m.log.total)}
	for _, id := range m.log.tags {
		lines = append(lines, id.String())
	}
	if m.log.skipped > 0 {
		lines = append(lines, fmt.Sprintf("(%d bad lines)", m.log.skipped))
	}
	return strings.Join(lines, "\n")
}

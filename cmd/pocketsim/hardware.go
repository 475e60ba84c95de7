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
	"sync"
	"time"

	"github.com/ZaparooProject/go-pocketscan"
	tea "github.com/charmbracelet/bubbletea"
)

// keyHold is how long a key press keeps a virtual button down. Terminals
// report no key release, so every press is a short tap.
const keyHold = 150 * time.Millisecond

// virtualButton is a button pressed from the keyboard.
type virtualButton struct {
	until time.Time
	now   func() time.Time
	mu    sync.Mutex
}

func newVirtualButton(now func() time.Time) *virtualButton {
	return &virtualButton{now: now}
}

// Tap holds the button down for keyHold.
func (b *virtualButton) Tap() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.until = b.now().Add(keyHold)
}

// Pressed implements pocketscan.Button.
func (b *virtualButton) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.now().Before(b.until)
}

// sampleTags are the cards offered by the "t" key, in turn.
var sampleTags = []pocketscan.TagIdentifier{
	{0x04, 0xA1, 0xB2, 0xC3, 0xD4, 0x5E, 0x80},
	{0xDE, 0xAD, 0xBE, 0xEF},
	{0x0A, 0xFF, 0x01},
	{0x12, 0x34, 0x56, 0x78},
}

// simReader is a reader whose field holds whatever card the user placed.
type simReader struct {
	card pocketscan.TagIdentifier
	next int
	mu   sync.Mutex
}

// PlaceNext puts the next sample card in the field and returns it.
func (r *simReader) PlaceNext() pocketscan.TagIdentifier {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.card = sampleTags[r.next%len(sampleTags)]
	r.next++
	return r.card
}

// Remove empties the field.
func (r *simReader) Remove() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.card = nil
}

// Card returns the card in the field, or nil.
func (r *simReader) Card() pocketscan.TagIdentifier {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.card
}

func (r *simReader) TagPresent(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.Card() != nil, nil
}

func (r *simReader) ReadSerial(context.Context) (pocketscan.TagIdentifier, error) {
	card := r.Card()
	if card == nil {
		return nil, pocketscan.ErrNoTag
	}
	return append(pocketscan.TagIdentifier(nil), card...), nil
}

// sender is the part of *tea.Program the adapters need.
type sender interface {
	Send(msg tea.Msg)
}

// programDiagnostics forwards diagnostic lines to the UI.
type programDiagnostics struct {
	p sender
}

func (d programDiagnostics) Printf(format string, args ...any) {
	d.p.Send(diagMsg(fmt.Sprintf(format, args...)))
}

var (
	_ pocketscan.Button      = (*virtualButton)(nil)
	_ pocketscan.TagReader   = (*simReader)(nil)
	_ pocketscan.Diagnostics = programDiagnostics{}
)

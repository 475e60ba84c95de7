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

import "time"

// Debounce defaults.
const (
	DefaultDebounceWindow = 300 * time.Millisecond
	DefaultReleaseSettle  = 50 * time.Millisecond
)

// DebounceConfig controls how raw button levels become logical events.
type DebounceConfig struct {
	// Window is the minimum interval between two accepted presses of one button.
	Window time.Duration
	// ReleaseSettle is how long a button must read released before a new
	// press is accepted. It absorbs contact bounce on release.
	ReleaseSettle time.Duration
}

// DefaultDebounceConfig returns the stock debounce timing.
func DefaultDebounceConfig() DebounceConfig {
	return DebounceConfig{
		Window:        DefaultDebounceWindow,
		ReleaseSettle: DefaultReleaseSettle,
	}
}

// Debouncer turns the sampled level of one button into press events. A
// press fires once on the released-to-pressed edge; holding the button
// never repeats it.
type Debouncer struct {
	lastAccepted time.Time
	releasedAt   time.Time
	config       DebounceConfig
	pressed      bool
	accepted     bool
}

// NewDebouncer creates a Debouncer. The button is assumed released.
func NewDebouncer(config DebounceConfig) *Debouncer {
	return &Debouncer{config: config}
}

// Sample feeds the level read at now and reports whether it is an accepted press.
func (d *Debouncer) Sample(pressed bool, now time.Time) bool {
	wasPressed := d.pressed
	d.pressed = pressed

	if !pressed {
		if wasPressed {
			d.releasedAt = now
		}
		return false
	}
	if wasPressed {
		return false
	}

	if d.accepted && now.Sub(d.lastAccepted) < d.config.Window {
		debugf("press ignored: %s since last event", now.Sub(d.lastAccepted))
		return false
	}
	if !d.releasedAt.IsZero() && now.Sub(d.releasedAt) < d.config.ReleaseSettle {
		debugf("press ignored: released %s ago", now.Sub(d.releasedAt))
		return false
	}

	d.accepted = true
	d.lastAccepted = now
	return true
}

// Inputs samples the three navigation buttons once per loop iteration.
type Inputs struct {
	up     Button
	down   Button
	sel    Button
	upDeb  *Debouncer
	dnDeb  *Debouncer
	selDeb *Debouncer
}

// NewInputs wires the three buttons with independent debouncers.
func NewInputs(up, down, sel Button, config DebounceConfig) *Inputs {
	return &Inputs{
		up:     up,
		down:   down,
		sel:    sel,
		upDeb:  NewDebouncer(config),
		dnDeb:  NewDebouncer(config),
		selDeb: NewDebouncer(config),
	}
}

// Poll reads every button at now and returns at most one event. All three
// debouncers see the sample so edge tracking stays current; when several
// fire together Up wins over Down, and Down over Select.
func (in *Inputs) Poll(now time.Time) InputEvent {
	up := in.upDeb.Sample(in.up.Pressed(), now)
	down := in.dnDeb.Sample(in.down.Pressed(), now)
	sel := in.selDeb.Sample(in.sel.Pressed(), now)

	switch {
	case up:
		return EventUp
	case down:
		return EventDown
	case sel:
		return EventSelect
	default:
		return EventNone
	}
}

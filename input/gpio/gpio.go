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

// Package gpio reads the navigation buttons from GPIO pins.
package gpio

import (
	"fmt"

	"github.com/ZaparooProject/go-pocketscan"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Button is a push button on a GPIO input. Buttons wired to ground use the
// internal pull-up and read low when pressed.
type Button struct {
	pin       gpio.PinIn
	activeLow bool
}

// Open looks up the pin by name (e.g. "GPIO12") and configures it as an
// input with the pull matching its polarity. host.Init must have run.
func Open(name string, activeLow bool) (*Button, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("failed to find GPIO pin %q", name)
	}
	return New(pin, activeLow)
}

// New configures pin as a button input.
func New(pin gpio.PinIn, activeLow bool) (*Button, error) {
	pull := gpio.PullDown
	if activeLow {
		pull = gpio.PullUp
	}
	if err := pin.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure %s as input: %w", pin, err)
	}
	return &Button{pin: pin, activeLow: activeLow}, nil
}

// Pressed implements pocketscan.Button.
func (b *Button) Pressed() bool {
	level := b.pin.Read()
	if b.activeLow {
		return level == gpio.Low
	}
	return level == gpio.High
}

// String returns the pin name.
func (b *Button) String() string {
	return b.pin.Name()
}

var _ pocketscan.Button = (*Button)(nil)

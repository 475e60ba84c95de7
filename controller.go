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

// Hardware bundles the collaborators of the default device.
type Hardware struct {
	Display Display
	Reader  TagReader
	Store   LogStore
	Up      Button
	Down    Button
	Select  Button
}

// Controller owns the menu state and runs the single polling loop.
type Controller struct {
	display  Display
	menu     *Menu
	inputs   *Inputs
	settings *settings
	state    MenuState
}

// New builds the stock device: the four-entry menu with the RFID scanner
// wired to a ScanWorkflow over hw.
func New(hw Hardware, opts ...Option) (*Controller, error) {
	scan, err := NewScanWorkflow(hw.Display, hw.Reader, hw.Store, opts...)
	if err != nil {
		return nil, err
	}
	return NewController(hw.Display, DefaultMenu(scan), hw.Up, hw.Down, hw.Select, opts...)
}

// NewController creates a controller for an arbitrary menu.
func NewController(display Display, menu *Menu, up, down, sel Button, opts ...Option) (*Controller, error) {
	if display == nil || menu == nil {
		return nil, fmt.Errorf("%w: controller needs a display and a menu", ErrInvalidParameter)
	}
	if up == nil || down == nil || sel == nil {
		return nil, fmt.Errorf("%w: controller needs three buttons", ErrInvalidParameter)
	}
	s, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Controller{
		display:  display,
		menu:     menu,
		inputs:   NewInputs(up, down, sel, s.debounce),
		settings: s,
	}, nil
}

// State returns the committed menu state.
func (c *Controller) State() MenuState {
	return c.state
}

// Menu returns the controller's menu.
func (c *Controller) Menu() *Menu {
	return c.menu
}

// Step runs one loop iteration without the trailing poll wait: render,
// sample inputs, apply at most one transition and, on Select, run the
// chosen tool to completion. It returns the event that was applied.
func (c *Controller) Step(ctx context.Context) InputEvent {
	if err := c.menu.Render(c.display, c.state); err != nil {
		c.settings.diag.Printf("Display update failed: %v", err)
	}

	event := c.inputs.Poll(c.settings.clock.Now())
	next, dispatch := c.menu.HandleInput(c.state, event)
	if event != EventNone {
		debugf("input %s: selection %d -> %d", event, c.state.Selected, next.Selected)
	}
	c.state = next

	if dispatch {
		c.dispatch(ctx)
	}
	return event
}

// Run loops until ctx is cancelled. Cancellation is only observed between
// iterations; a running tool always finishes.
func (c *Controller) Run(ctx context.Context) error {
	debugln("controller loop started")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Step(ctx)
		if err := c.settings.clock.Sleep(ctx, c.settings.pollInterval); err != nil {
			return err
		}
	}
}

func (c *Controller) dispatch(ctx context.Context) {
	c.settings.diag.Printf("Selected menu: %d", c.state.Selected)

	entry := c.menu.Entry(c.state.Selected)
	if !entry.Implemented() {
		c.settings.diag.Printf("%s is not implemented", entry.Label)
		return
	}
	if err := entry.Tool.Run(context.WithoutCancel(ctx)); err != nil {
		debugf("%s finished with: %v", entry.Label, err)
	}
}

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
	"time"
)

// Splash screen text.
const (
	SplashTitle    = "PocketScan"
	SplashSubtitle = "starting..."
)

// DefaultSplashHold is how long the splash screen stays up.
const DefaultSplashHold = 2 * time.Second

// Prober is implemented by log stores that can tell at boot whether their
// medium is usable.
type Prober interface {
	Probe() error
}

// BootSequence is the start-up run once the display is up.
type BootSequence struct {
	Display    Display
	Store      LogStore
	InitReader func(ctx context.Context) error
	Splash     time.Duration
}

// Run shows the splash screen, initialises the reader and reports reader
// and storage readiness. Only a display failure is returned; reader and
// storage problems are reported and the device carries on.
func (b BootSequence) Run(ctx context.Context, opts ...Option) error {
	if b.Display == nil {
		return fmt.Errorf("%w: boot needs a display", ErrInvalidParameter)
	}
	s, err := applyOptions(opts)
	if err != nil {
		return err
	}

	if err := drawScreen(b.Display, SplashTitle, SplashSubtitle); err != nil {
		return fmt.Errorf("%w: %w", ErrDisplayInit, err)
	}
	if err := s.clock.Sleep(ctx, b.Splash); err != nil {
		return err
	}
	if err := drawScreen(b.Display); err != nil {
		return fmt.Errorf("%w: %w", ErrDisplayInit, err)
	}

	if b.InitReader != nil {
		if err := b.InitReader(ctx); err != nil {
			s.diag.Printf("RFID reader initialization failed: %v", err)
		} else {
			s.diag.Printf("Scan RFID tag")
		}
	}

	if prober, ok := b.Store.(Prober); ok {
		if err := prober.Probe(); err != nil {
			debugf("storage probe: %v", err)
			s.diag.Printf("SD Card initialization failed!")
		} else {
			s.diag.Printf("SD Card is ready.")
		}
	}

	s.diag.Printf("Initializing WiFi Tools...")
	return nil
}

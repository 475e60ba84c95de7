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
	"fmt"
	"os"
	"time"
)

// DefaultPollInterval is the pause at the end of every loop iteration.
const DefaultPollInterval = 100 * time.Millisecond

type settings struct {
	diag         Diagnostics
	clock        Clock
	scan         ScanConfig
	debounce     DebounceConfig
	pollInterval time.Duration
}

func defaultSettings() *settings {
	return &settings{
		diag:         NewWriterDiagnostics(os.Stdout),
		clock:        SystemClock,
		scan:         DefaultScanConfig(),
		debounce:     DefaultDebounceConfig(),
		pollInterval: DefaultPollInterval,
	}
}

func applyOptions(opts []Option) (*settings, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return s, nil
}

// Option configures a Controller or ScanWorkflow.
type Option func(*settings) error

// WithDiagnostics sets the diagnostic channel. Defaults to stdout.
func WithDiagnostics(diag Diagnostics) Option {
	return func(s *settings) error {
		if diag == nil {
			return fmt.Errorf("%w: nil diagnostics", ErrInvalidParameter)
		}
		s.diag = diag
		return nil
	}
}

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(s *settings) error {
		if clock == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidParameter)
		}
		s.clock = clock
		return nil
	}
}

// WithLogPath sets the logical path of the scan log.
func WithLogPath(path string) Option {
	return func(s *settings) error {
		if path == "" {
			return fmt.Errorf("%w: empty log path", ErrInvalidParameter)
		}
		s.scan.LogPath = path
		return nil
	}
}

// WithScanDelays sets the pause after an empty probe and after a read.
func WithScanDelays(noTag, settle time.Duration) Option {
	return func(s *settings) error {
		if noTag < 0 || settle < 0 {
			return fmt.Errorf("%w: negative scan delay", ErrInvalidParameter)
		}
		s.scan.NoTagDelay = noTag
		s.scan.SettleDelay = settle
		return nil
	}
}

// WithDebounce sets the button debounce timing.
func WithDebounce(config DebounceConfig) Option {
	return func(s *settings) error {
		if config.Window <= 0 || config.ReleaseSettle < 0 {
			return fmt.Errorf("%w: debounce window must be positive", ErrInvalidParameter)
		}
		s.debounce = config
		return nil
	}
}

// WithPollInterval sets the pause at the end of each loop iteration.
func WithPollInterval(interval time.Duration) Option {
	return func(s *settings) error {
		if interval < 0 {
			return fmt.Errorf("%w: negative poll interval", ErrInvalidParameter)
		}
		s.pollInterval = interval
		return nil
	}
}

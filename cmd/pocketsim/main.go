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

// Command pocketsim runs the device firmware in a terminal, with the
// keyboard standing in for the buttons and a simulated RFID field.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ZaparooProject/go-pocketscan"
	"github.com/ZaparooProject/go-pocketscan/display/console"
	"github.com/ZaparooProject/go-pocketscan/logstore"
	tea "github.com/charmbracelet/bubbletea"
)

type config struct {
	logRoot *string
	logPath *string
	splash  *time.Duration
	debug   *bool
}

func parseFlags() *config {
	cfg := &config{
		logRoot: flag.String("log-root", "",
			"Directory standing in for the SD card. Leave empty for a temporary directory."),
		logPath: flag.String("log-path", pocketscan.DefaultLogPath, "Scan log path on the card"),
		splash:  flag.Duration("splash", pocketscan.DefaultSplashHold, "Splash screen hold time"),
		debug:   flag.Bool("debug", false, "Enable debug output (written to pocketsim-debug.log)"),
	}
	flag.Parse()
	return cfg
}

// firmware boots the simulated device and runs its loop until ctx ends.
func firmware(ctx context.Context, cfg *config, hw pocketscan.Hardware, diag pocketscan.Diagnostics) error {
	opts := []pocketscan.Option{
		pocketscan.WithDiagnostics(diag),
		pocketscan.WithLogPath(*cfg.logPath),
	}

	boot := pocketscan.BootSequence{
		Display:    hw.Display,
		Store:      hw.Store,
		InitReader: func(context.Context) error { return nil },
		Splash:     *cfg.splash,
	}
	if err := boot.Run(ctx, opts...); err != nil {
		return err
	}

	controller, err := pocketscan.New(hw, opts...)
	if err != nil {
		return err
	}
	return controller.Run(ctx)
}

func run(cfg *config) error {
	root := *cfg.logRoot
	if root == "" {
		dir, err := os.MkdirTemp("", "pocketsim-sd-")
		if err != nil {
			return fmt.Errorf("failed to create card directory: %w", err)
		}
		root = dir
	}
	store, err := logstore.New(root)
	if err != nil {
		return err
	}
	logFile, err := store.Resolve(*cfg.logPath)
	if err != nil {
		return err
	}

	if *cfg.debug {
		f, err := tea.LogToFile("pocketsim-debug.log", "pocketscan")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer func() { _ = f.Close() }()
		pocketscan.SetDebugOutput(f)
		pocketscan.SetDebugEnabled(true)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	up := newVirtualButton(time.Now)
	down := newVirtualButton(time.Now)
	sel := newVirtualButton(time.Now)
	reader := &simReader{}
	display := console.New(nil, console.DefaultRows, console.DefaultCols)

	program := tea.NewProgram(newModel(up, down, sel, reader, store, *cfg.logPath, logFile, cancel), tea.WithAltScreen())
	display.OnFrame = func(rendered string, _ []string) {
		program.Send(frameMsg(rendered))
	}

	hw := pocketscan.Hardware{
		Display: display,
		Reader:  reader,
		Store:   store,
		Up:      up,
		Down:    down,
		Select:  sel,
	}
	go func() {
		err := firmware(ctx, cfg, hw, programDiagnostics{p: program})
		program.Send(stoppedMsg{err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("simulator failed: %w", err)
	}
	if m, ok := final.(model); ok && m.err != nil && !errors.Is(m.err, context.Canceled) {
		return m.err
	}

	_, _ = fmt.Printf("Scan log: %s\n", logFile)
	return nil
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

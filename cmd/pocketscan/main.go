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
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZaparooProject/go-pocketscan"
	"github.com/ZaparooProject/go-pocketscan/config"
	"github.com/ZaparooProject/go-pocketscan/display/ssd1306"
	"github.com/ZaparooProject/go-pocketscan/input/gpio"
	"github.com/ZaparooProject/go-pocketscan/logstore"
	"github.com/ZaparooProject/go-pocketscan/reader/mfrc522"
	"github.com/ZaparooProject/go-pocketscan/reader/pn532"
	"github.com/ZaparooProject/go-pocketscan/transport/i2c"
	"github.com/ZaparooProject/go-pocketscan/transport/uart"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

type closer interface {
	Close() error
}

type tagReader interface {
	pocketscan.TagReader
	Close() error
}

func parseFlags(cfg *config.Config) {
	flag.StringVar(&cfg.Reader, "reader", cfg.Reader,
		"Reader backend: mfrc522, pn532-i2c or pn532-uart")
	flag.StringVar(&cfg.LogRoot, "log-root", cfg.LogRoot, "Mount point of the SD card")
	flag.StringVar(&cfg.LogPath, "log-path", cfg.LogPath, "Scan log path on the SD card")
	flag.StringVar(&cfg.DiagPort, "diag-port", cfg.DiagPort,
		"Serial port for diagnostics (e.g., /dev/ttyGS0). Leave empty for stdout.")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug output")
	flag.Parse()

	// Enable debug output if --debug flag is set
	if cfg.Debug {
		pocketscan.SetDebugEnabled(true)
	}
}

// openDiagnostics returns the diagnostic channel: the configured serial
// port at cfg.DiagBaud, or stdout.
func openDiagnostics(cfg *config.Config) (io.Writer, closer, error) {
	if cfg.DiagPort == "" {
		return os.Stdout, nil, nil
	}
	port, err := serial.Open(cfg.DiagPort, &serial.Mode{BaudRate: cfg.DiagBaud})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open diagnostics port %s: %w", cfg.DiagPort, err)
	}
	return port, port, nil
}

func openDisplay(cfg *config.Config) (*ssd1306.Display, error) {
	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pocketscan.ErrDisplayInit, err)
	}
	display, err := ssd1306.New(bus)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return display, nil
}

// openReader creates the configured reader and the function that
// initialises it during boot.
func openReader(cfg *config.Config) (tagReader, func(context.Context) error, error) {
	switch cfg.Reader {
	case config.ReaderPN532I2C, config.ReaderPN532UART:
		var transport pn532.Transport
		var err error
		if cfg.Reader == config.ReaderPN532I2C {
			transport, err = i2c.New(cfg.ReaderI2CBus)
		} else {
			transport, err = uart.New(cfg.ReaderUARTPort)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create PN532 transport: %w", err)
		}
		reader, err := pn532.New(transport, pn532.WithTimeout(cfg.ScanTimeout))
		if err != nil {
			_ = transport.Close()
			return nil, nil, err
		}
		initReader := func(ctx context.Context) error {
			version, err := reader.Init(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stderr, "PN532 Firmware: %s\n", version)
			return nil
		}
		return reader, initReader, nil
	default:
		reader, err := mfrc522.Open(cfg.SPIPort, cfg.ReaderResetPin, cfg.ReaderIRQPin,
			mfrc522.WithScanTimeout(cfg.ScanTimeout))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open MFRC522: %w", err)
		}
		return reader, func(context.Context) error { return nil }, nil
	}
}

func openButtons(cfg *config.Config) (up, down, sel *gpio.Button, err error) {
	if up, err = gpio.Open(cfg.UpPin, cfg.ButtonsActiveLow); err != nil {
		return nil, nil, nil, err
	}
	if down, err = gpio.Open(cfg.DownPin, cfg.ButtonsActiveLow); err != nil {
		return nil, nil, nil, err
	}
	if sel, err = gpio.Open(cfg.SelectPin, cfg.ButtonsActiveLow); err != nil {
		return nil, nil, nil, err
	}
	return up, down, sel, nil
}

// halt stops the firmware for good after a fatal start-up failure.
func halt() {
	for {
		time.Sleep(time.Hour)
	}
}

func run(ctx context.Context, cfg *config.Config, diag pocketscan.Diagnostics) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph host: %w", err)
	}

	display, err := openDisplay(cfg)
	if err != nil {
		diag.Printf("SSD1306 allocation failed: %v", err)
		halt()
	}
	defer func() { _ = display.Halt() }()

	store, err := logstore.New(cfg.LogRoot)
	if err != nil {
		return err
	}

	reader, initReader, err := openReader(cfg)
	if err != nil {
		openErr := err
		reader = pocketscan.OfflineReader{Err: openErr}
		initReader = func(context.Context) error { return openErr }
	}
	defer func() { _ = reader.Close() }()

	opts := []pocketscan.Option{
		pocketscan.WithDiagnostics(diag),
		pocketscan.WithLogPath(cfg.LogPath),
		pocketscan.WithPollInterval(cfg.PollInterval),
		pocketscan.WithScanDelays(cfg.NoTagDelay, cfg.SettleDelay),
		pocketscan.WithDebounce(pocketscan.DebounceConfig{
			Window:        cfg.DebounceWindow,
			ReleaseSettle: pocketscan.DefaultReleaseSettle,
		}),
	}

	boot := pocketscan.BootSequence{
		Display:    display,
		Store:      store,
		InitReader: initReader,
		Splash:     cfg.SplashDelay,
	}
	if err := boot.Run(ctx, opts...); err != nil {
		if errors.Is(err, pocketscan.ErrDisplayInit) {
			diag.Printf("SSD1306 allocation failed: %v", err)
			halt()
		}
		return err
	}

	up, down, sel, err := openButtons(cfg)
	if err != nil {
		return err
	}

	controller, err := pocketscan.New(pocketscan.Hardware{
		Display: display,
		Reader:  reader,
		Store:   store,
		Up:      up,
		Down:    down,
		Select:  sel,
	}, opts...)
	if err != nil {
		return err
	}
	return controller.Run(ctx)
}

func main() {
	cfg := config.Load()
	parseFlags(&cfg)

	out, port, err := openDiagnostics(&cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if port != nil {
		defer func() { _ = port.Close() }()
	}
	diag := pocketscan.NewWriterDiagnostics(out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &cfg, diag); err != nil && !errors.Is(err, context.Canceled) {
		diag.Printf("%v", err)
		stop()
		os.Exit(1)
	}
}

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

// Package mfrc522 reads tag identifiers from an MFRC522 module on SPI.
package mfrc522

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ZaparooProject/go-pocketscan"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/mfrc522"
)

const (
	backendName = "mfrc522"

	// DefaultScanTimeout bounds how long a presence check waits for a card.
	DefaultScanTimeout = 500 * time.Millisecond
	// DefaultAntennaGain is the chip's reset gain (33 dB).
	DefaultAntennaGain = 4
)

// irqTimeout is the message periph's driver returns when no card answered
// within the scan timeout. It has no sentinel error.
const irqTimeout = "timeout waiting for IRQ edge"

// device is the part of *mfrc522.Dev the reader uses.
type device interface {
	ReadUID(timeout time.Duration) ([]byte, error)
	SetAntennaGain(gain int) error
	Halt() error
}

// Reader implements pocketscan.TagReader on an MFRC522.
type Reader struct {
	dev     device
	port    io.Closer
	last    pocketscan.TagIdentifier
	timeout time.Duration
	gain    int
}

// Option configures a Reader.
type Option func(*Reader) error

// WithScanTimeout sets how long TagPresent waits for a card.
func WithScanTimeout(timeout time.Duration) Option {
	return func(r *Reader) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: scan timeout must be positive", pocketscan.ErrInvalidParameter)
		}
		r.timeout = timeout
		return nil
	}
}

// WithAntennaGain sets the receiver gain, 0 (18 dB) to 7 (48 dB).
func WithAntennaGain(gain int) Option {
	return func(r *Reader) error {
		if gain < 0 || gain > 7 {
			return fmt.Errorf("%w: antenna gain %d out of range", pocketscan.ErrInvalidParameter, gain)
		}
		r.gain = gain
		return nil
	}
}

// Open opens the SPI port and pins by name and creates a Reader.
// periph's host drivers must already be initialised.
func Open(spiName, resetPin, irqPin string, opts ...Option) (*Reader, error) {
	port, err := spireg.Open(spiName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", spiName, err)
	}

	reset := gpioreg.ByName(resetPin)
	if reset == nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: no reset pin %q", pocketscan.ErrInvalidParameter, resetPin)
	}
	irq := gpioreg.ByName(irqPin)
	if irq == nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: no IRQ pin %q", pocketscan.ErrInvalidParameter, irqPin)
	}

	r, err := New(port, reset, irq, opts...)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	r.port = port
	return r, nil
}

// New creates a Reader on an already opened SPI port.
func New(port spi.Port, reset gpio.PinOut, irq gpio.PinIn, opts ...Option) (*Reader, error) {
	dev, err := mfrc522.NewSPI(port, reset, irq, mfrc522.WithSync())
	if err != nil {
		return nil, pocketscan.NewReaderError(backendName, "init", err)
	}
	return newReader(dev, opts...)
}

func newReader(dev device, opts ...Option) (*Reader, error) {
	r := &Reader{dev: dev, timeout: DefaultScanTimeout, gain: DefaultAntennaGain}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if err := r.dev.SetAntennaGain(r.gain); err != nil {
		return nil, pocketscan.NewReaderError(backendName, "set antenna gain", err)
	}
	return r, nil
}

// TagPresent implements pocketscan.TagReader. It waits up to the scan
// timeout for a card and remembers its UID for ReadSerial.
func (r *Reader) TagPresent(ctx context.Context) (bool, error) {
	r.last = nil
	if err := ctx.Err(); err != nil {
		return false, err
	}

	uid, err := r.dev.ReadUID(r.timeout)
	if err != nil {
		if strings.Contains(err.Error(), irqTimeout) {
			return false, nil
		}
		return false, pocketscan.NewReaderError(backendName, "read UID", err)
	}
	if len(uid) == 0 {
		return false, pocketscan.NewReaderError(backendName, "read UID", pocketscan.ErrEmptyUID)
	}
	r.last = append(pocketscan.TagIdentifier(nil), uid...)
	return true, nil
}

// ReadSerial implements pocketscan.TagReader.
func (r *Reader) ReadSerial(_ context.Context) (pocketscan.TagIdentifier, error) {
	if r.last == nil {
		return nil, pocketscan.ErrNoTag
	}
	return append(pocketscan.TagIdentifier(nil), r.last...), nil
}

// Close halts the chip and releases the SPI port when Open created it.
func (r *Reader) Close() error {
	err := r.dev.Halt()
	if r.port != nil {
		err = errors.Join(err, r.port.Close())
	}
	if err != nil {
		return fmt.Errorf("failed to close reader: %w", err)
	}
	return nil
}

var _ pocketscan.TagReader = (*Reader)(nil)

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

// Package i2c provides I2C transport implementation for PN532
package i2c

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-pocketscan/internal/frame"
	"github.com/ZaparooProject/go-pocketscan/internal/transport"
	"github.com/ZaparooProject/go-pocketscan/reader/pn532"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// PN532 7-bit I2C address.
	pn532Addr = 0x24

	// First byte of every read; 0x01 once the PN532 has data.
	pn532Ready = 0x01

	// Max clock frequency (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz

	defaultTimeout = 50 * time.Millisecond
	receiveRetries = 3
)

// txer is the part of *i2c.Dev the transport uses.
type txer interface {
	Tx(w, r []byte) error
}

// Transport implements the pn532.Transport interface for I2C communication
type Transport struct {
	dev     txer
	busName string
	timeout time.Duration
}

// New creates a new I2C transport
func New(busName string) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}

	// Ignore error, continue with default speed
	_ = bus.SetSpeed(maxClockFreq)

	return newTransport(&i2c.Dev{Addr: pn532Addr, Bus: bus}, busName), nil
}

func newTransport(dev txer, busName string) *Transport {
	return &Transport{dev: dev, busName: busName, timeout: defaultTimeout}
}

// SendCommand sends a command to the PN532 and waits for response
func (t *Transport) SendCommand(cmd byte, args []byte) ([]byte, error) {
	return t.SendCommandWithContext(context.Background(), cmd, args)
}

// SendCommandWithContext sends a command to the PN532 with context support.
// Cancellation is checked between the send, ACK and receive phases.
func (t *Transport) SendCommandWithContext(ctx context.Context, cmd byte, args []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := t.sendFrame(cmd, args); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := t.waitAck(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.receiveFrame()
}

// SetTimeout sets the read timeout for the transport
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.timeout = timeout
	return nil
}

// Close closes the transport connection
func (*Transport) Close() error {
	// periph.io handles cleanup automatically
	return nil
}

// String returns the bus name.
func (t *Transport) String() string {
	return "i2c:" + t.busName
}

// sendFrame sends a frame to the PN532 via I2C
func (t *Transport) sendFrame(cmd byte, args []byte) error {
	frm, err := frame.Build(cmd, args)
	if err != nil {
		return pn532.NewTransportError("sendFrame", t.busName, err, pn532.ErrorTypePermanent)
	}

	if err := t.dev.Tx(frm, nil); err != nil {
		return pn532.NewTransportError("sendFrame", t.busName,
			fmt.Errorf("%w: %w", pn532.ErrTransportWrite, err), pn532.ErrorTypeTransient)
	}
	return nil
}

// read polls the status byte until the PN532 is ready, then returns the
// n bytes following it.
func (t *Transport) read(op string, n int) ([]byte, error) {
	return transport.TimeoutRetry(t.timeout, op, t.busName, func() ([]byte, bool, error) {
		buf := make([]byte, n+1)
		if err := t.dev.Tx(nil, buf); err != nil {
			return nil, false, pn532.NewTransportError(op, t.busName,
				fmt.Errorf("%w: %w", pn532.ErrTransportRead, err), pn532.ErrorTypeTransient)
		}
		if buf[0] != pn532Ready {
			return nil, true, nil
		}
		return buf[1:], false, nil
	})
}

// waitAck waits for an ACK frame from the PN532
func (t *Transport) waitAck() error {
	buf, err := t.read("waitAck", len(frame.AckFrame))
	if err != nil {
		if errors.Is(err, pn532.ErrTransportTimeout) {
			return pn532.NewNoACKError("waitAck", t.busName)
		}
		return err
	}
	if !frame.IsAck(buf) {
		return pn532.NewNoACKError("waitAck", t.busName)
	}
	return nil
}

// receiveFrame reads a response frame, answering corrupted frames with a
// NACK so the PN532 sends it again.
func (t *Transport) receiveFrame() ([]byte, error) {
	return transport.WithRetry(transport.RetryConfig{
		Description: "receiveFrame",
		Port:        t.busName,
		MaxRetries:  receiveRetries,
		OnRetry:     t.sendNack,
	}, func() ([]byte, bool, error) {
		buf, err := t.read("receiveFrame", frame.MaxFrameLength)
		if err != nil {
			return nil, false, err
		}

		data, err := frame.Parse(buf)
		if err != nil {
			ferr := pn532.NewFrameError("receiveFrame", t.busName, err)
			if pn532.IsRetryable(ferr) {
				return nil, true, nil
			}
			return nil, false, ferr
		}

		if err := t.sendAck(); err != nil {
			return nil, false, err
		}
		return data, false, nil
	})
}

// sendAck sends an ACK frame to the PN532
func (t *Transport) sendAck() error {
	if err := t.dev.Tx(frame.AckFrame, nil); err != nil {
		return fmt.Errorf("failed to send ACK: %w", err)
	}
	return nil
}

// sendNack sends a NACK frame to the PN532
func (t *Transport) sendNack() error {
	if err := t.dev.Tx(frame.NackFrame, nil); err != nil {
		return fmt.Errorf("failed to send NACK: %w", err)
	}
	return nil
}

// Ensure Transport implements pn532.Transport
var _ pn532.Transport = (*Transport)(nil)

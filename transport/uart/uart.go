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

// Package uart provides the PN532 transport over a serial (HSU) link.
package uart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ZaparooProject/go-pocketscan/internal/frame"
	"github.com/ZaparooProject/go-pocketscan/internal/transport"
	"github.com/ZaparooProject/go-pocketscan/reader/pn532"
	"go.bug.st/serial"
)

const (
	// BaudRate is the PN532 HSU default.
	BaudRate = 115200

	defaultTimeout = 100 * time.Millisecond
	// read granularity; bounds how late cancellation is noticed
	pollTimeout    = 10 * time.Millisecond
	receiveRetries = 3
)

// wakeUp brings the PN532 out of power-down: a long 0x55 preamble
// followed by zeros.
var wakeUp = []byte{
	0x55, 0x55, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// port is the part of serial.Port the transport uses.
type port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Transport implements pn532.Transport over UART.
type Transport struct {
	port     port
	pending  []byte
	portName string
	timeout  time.Duration
	mu       sync.Mutex
}

// New opens portName at 115200 8N1 and wakes the PN532 up.
func New(portName string) (*Transport, error) {
	p, err := serial.Open(portName, &serial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	t, err := newTransport(p, portName)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return t, nil
}

func newTransport(p port, portName string) (*Transport, error) {
	if err := p.SetReadTimeout(pollTimeout); err != nil {
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	if _, err := p.Write(wakeUp); err != nil {
		return nil, pn532.NewTransportError("wakeUp", portName,
			fmt.Errorf("%w: %w", pn532.ErrTransportWrite, err), pn532.ErrorTypeTransient)
	}
	return &Transport{port: p, portName: portName, timeout: defaultTimeout}, nil
}

// SendCommand sends a command to the PN532 and waits for response
func (t *Transport) SendCommand(cmd byte, args []byte) ([]byte, error) {
	return t.SendCommandWithContext(context.Background(), cmd, args)
}

// SendCommandWithContext sends a command and returns its response payload.
// Reads are polled so cancellation is seen within one poll period.
func (t *Transport) SendCommandWithContext(ctx context.Context, cmd byte, args []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.port == nil {
		return nil, pn532.NewTransportNotReadyError("sendFrame", t.portName)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	frm, err := frame.Build(cmd, args)
	if err != nil {
		return nil, pn532.NewTransportError("sendFrame", t.portName, err, pn532.ErrorTypePermanent)
	}

	t.pending = t.pending[:0]
	_ = t.port.ResetInputBuffer()
	if _, err := t.port.Write(frm); err != nil {
		return nil, pn532.NewTransportError("sendFrame", t.portName,
			fmt.Errorf("%w: %w", pn532.ErrTransportWrite, err), pn532.ErrorTypeTransient)
	}

	if err := t.waitAck(ctx); err != nil {
		return nil, err
	}
	return t.receiveFrame(ctx)
}

// SetTimeout sets how long a single frame may take to arrive.
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = timeout
	return nil
}

// Close closes the serial port.
func (t *Transport) Close() error {
	if t.port == nil {
		return nil
	}
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}

// String returns the port name.
func (t *Transport) String() string {
	return "uart:" + t.portName
}

func (t *Transport) waitAck(ctx context.Context) error {
	frm, err := t.readFrame(ctx, "waitAck")
	if err != nil {
		if errors.Is(err, pn532.ErrTransportTimeout) {
			return pn532.NewNoACKError("waitAck", t.portName)
		}
		return err
	}
	if !frame.IsAck(frm) {
		return pn532.NewNoACKError("waitAck", t.portName)
	}
	return nil
}

func (t *Transport) receiveFrame(ctx context.Context) ([]byte, error) {
	return transport.WithRetry(transport.RetryConfig{
		Description: "receiveFrame",
		Port:        t.portName,
		MaxRetries:  receiveRetries,
		OnRetry:     t.sendNack,
	}, func() ([]byte, bool, error) {
		frm, err := t.readFrame(ctx, "receiveFrame")
		if err != nil {
			return nil, false, err
		}

		data, err := frame.Parse(frm)
		if err != nil {
			ferr := pn532.NewFrameError("receiveFrame", t.portName, err)
			if pn532.IsRetryable(ferr) {
				return nil, true, nil
			}
			return nil, false, ferr
		}
		return data, false, nil
	})
}

// readFrame returns the next complete frame on the wire. Bytes past it are
// kept for the following call.
func (t *Transport) readFrame(ctx context.Context, op string) ([]byte, error) {
	deadline := time.Now().Add(t.timeout)
	chunk := make([]byte, frame.MaxFrameLength)

	for {
		if n := frame.FrameLength(t.pending); n > 0 && len(t.pending) >= n {
			frm := append([]byte(nil), t.pending[:n]...)
			t.pending = append(t.pending[:0], t.pending[n:]...)
			return frm, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, pn532.NewTimeoutError(op, t.portName)
		}

		n, err := t.port.Read(chunk)
		if err != nil {
			return nil, pn532.NewTransportError(op, t.portName,
				fmt.Errorf("%w: %w", pn532.ErrTransportRead, err), pn532.ErrorTypeTransient)
		}
		t.pending = append(t.pending, chunk[:n]...)
	}
}

func (t *Transport) sendNack() error {
	t.pending = t.pending[:0]
	if _, err := t.port.Write(frame.NackFrame); err != nil {
		return fmt.Errorf("failed to send NACK: %w", err)
	}
	return nil
}

// Ensure Transport implements pn532.Transport
var _ pn532.Transport = (*Transport)(nil)

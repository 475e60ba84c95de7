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

// Package pn532 reads tag identifiers from an NXP PN532 controller over any
// Transport (I2C, UART).
package pn532

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-pocketscan"
)

// PN532 Command codes
const (
	cmdGetFirmwareVersion  = 0x02
	cmdSAMConfiguration    = 0x14
	cmdRFConfiguration     = 0x32
	cmdInListPassiveTarget = 0x4A
	cmdInRelease           = 0x52
)

const (
	// baud rate modulation for ISO14443A at 106 kbps
	brTypeA = 0x00
	// RFConfiguration item selecting the retry counters
	cfgMaxRetries = 0x05

	backendName = "pn532"
)

// Transport carries commands to a PN532. SendCommand returns the response
// payload with the TFI removed; its first byte is the response code
// (command + 1).
type Transport interface {
	SendCommand(cmd byte, args []byte) ([]byte, error)
	SetTimeout(timeout time.Duration) error
	Close() error
}

// contextTransport is implemented by transports that can abandon a command
// when its context ends.
type contextTransport interface {
	SendCommandWithContext(ctx context.Context, cmd byte, args []byte) ([]byte, error)
}

// FirmwareVersion is the answer to GetFirmwareVersion.
type FirmwareVersion struct {
	IC       byte
	Version  byte
	Revision byte
	Support  byte
}

func (v FirmwareVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Version, v.Revision)
}

// Reader implements pocketscan.TagReader on a PN532.
type Reader struct {
	transport      Transport
	last           pocketscan.TagIdentifier
	timeout        time.Duration
	passiveRetries byte
}

// Option configures a Reader.
type Option func(*Reader) error

// WithPassiveRetries sets how many activation attempts InListPassiveTarget
// makes before reporting an empty field. 0xFF retries forever and is rejected.
func WithPassiveRetries(n byte) Option {
	return func(r *Reader) error {
		if n == 0xFF {
			return fmt.Errorf("%w: infinite passive retries would block the scan", pocketscan.ErrInvalidParameter)
		}
		r.passiveRetries = n
		return nil
	}
}

// WithTimeout sets the transport timeout applied by Init.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Reader) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: timeout must be positive", pocketscan.ErrInvalidParameter)
		}
		r.timeout = timeout
		return nil
	}
}

// New creates a Reader. Call Init before use.
func New(transport Transport, opts ...Option) (*Reader, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: nil transport", pocketscan.ErrInvalidParameter)
	}
	r := &Reader{
		transport:      transport,
		timeout:        500 * time.Millisecond,
		passiveRetries: 0x02,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Init checks the firmware, puts the SAM in normal mode and bounds the
// passive activation retries so presence checks return promptly.
func (r *Reader) Init(ctx context.Context) (FirmwareVersion, error) {
	if err := r.transport.SetTimeout(r.timeout); err != nil {
		return FirmwareVersion{}, pocketscan.NewReaderError(backendName, "set timeout", err)
	}

	resp, err := r.call(ctx, cmdGetFirmwareVersion, nil)
	if err != nil {
		return FirmwareVersion{}, pocketscan.NewReaderError(backendName, "firmware version", err)
	}
	if len(resp) < 4 {
		return FirmwareVersion{}, pocketscan.NewReaderError(backendName, "firmware version",
			fmt.Errorf("%w: %d byte answer", ErrUnexpectedResponse, len(resp)))
	}
	version := FirmwareVersion{IC: resp[0], Version: resp[1], Revision: resp[2], Support: resp[3]}

	// Normal mode, 1 s virtual card timeout, IRQ in use.
	if _, err := r.call(ctx, cmdSAMConfiguration, []byte{0x01, 0x14, 0x01}); err != nil {
		return version, pocketscan.NewReaderError(backendName, "SAM configuration", err)
	}

	// MxRtyATR, MxRtyPSL, MxRtyPassiveActivation
	args := []byte{cfgMaxRetries, 0xFF, 0x01, r.passiveRetries}
	if _, err := r.call(ctx, cmdRFConfiguration, args); err != nil {
		return version, pocketscan.NewReaderError(backendName, "RF configuration", err)
	}

	return version, nil
}

// TagPresent implements pocketscan.TagReader. It lists at most one ISO14443A
// target and remembers its UID for ReadSerial.
func (r *Reader) TagPresent(ctx context.Context) (bool, error) {
	r.last = nil

	resp, err := r.call(ctx, cmdInListPassiveTarget, []byte{0x01, brTypeA})
	if err != nil {
		if errors.Is(err, ErrTransportTimeout) {
			return false, nil
		}
		return false, pocketscan.NewReaderError(backendName, "list passive target", err)
	}

	uid, err := parseTarget(resp)
	if err != nil {
		return false, pocketscan.NewReaderError(backendName, "list passive target", err)
	}
	if uid == nil {
		return false, nil
	}
	r.last = uid

	// Release the target so the next listing activates it from scratch.
	if _, err := r.call(ctx, cmdInRelease, []byte{0x00}); err != nil {
		return true, pocketscan.NewReaderError(backendName, "release target", err)
	}
	return true, nil
}

// ReadSerial implements pocketscan.TagReader.
func (r *Reader) ReadSerial(_ context.Context) (pocketscan.TagIdentifier, error) {
	if r.last == nil {
		return nil, pocketscan.ErrNoTag
	}
	return append(pocketscan.TagIdentifier(nil), r.last...), nil
}

// Close closes the transport.
func (r *Reader) Close() error {
	if err := r.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}

// call sends cmd and strips the response code from the answer.
func (r *Reader) call(ctx context.Context, cmd byte, args []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var resp []byte
	var err error
	if ct, ok := r.transport.(contextTransport); ok {
		resp, err = ct.SendCommandWithContext(ctx, cmd, args)
	} else {
		resp, err = r.transport.SendCommand(cmd, args)
	}
	if err != nil {
		return nil, err
	}
	if len(resp) == 0 || resp[0] != cmd+1 {
		return nil, fmt.Errorf("%w to command %02X: % X", ErrUnexpectedResponse, cmd, resp)
	}
	return resp[1:], nil
}

// parseTarget decodes an InListPassiveTarget answer for type A:
// NbTg, Tg, SENS_RES (2), SEL_RES, NFCIDLength, NFCID1.
// It returns nil when no target was found.
func parseTarget(resp []byte) (pocketscan.TagIdentifier, error) {
	if len(resp) == 0 {
		return nil, fmt.Errorf("%w: empty target list", ErrUnexpectedResponse)
	}
	if resp[0] == 0 {
		return nil, nil
	}
	if len(resp) < 6 {
		return nil, fmt.Errorf("%w: target data too short", ErrUnexpectedResponse)
	}
	uidLen := int(resp[5])
	if uidLen == 0 {
		return nil, pocketscan.ErrEmptyUID
	}
	if len(resp) < 6+uidLen {
		return nil, fmt.Errorf("%w: UID truncated (%d of %d bytes)", ErrUnexpectedResponse, len(resp)-6, uidLen)
	}
	return append(pocketscan.TagIdentifier(nil), resp[6:6+uidLen]...), nil
}

var _ pocketscan.TagReader = (*Reader)(nil)

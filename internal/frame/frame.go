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

package frame

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrFrameCorrupted means no well-formed frame could be found.
	ErrFrameCorrupted = errors.New("frame corrupted")
	// ErrChecksumMismatch means the length or data checksum did not add up.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrDataTooLarge means the command does not fit a normal frame.
	ErrDataTooLarge = errors.New("data too large for normal frame")
	// ErrErrorFrame means the PN532 answered with an application error frame.
	ErrErrorFrame = errors.New("PN532 error frame")
)

// CalculateChecksum returns the 8-bit sum of data.
func CalculateChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// ValidChecksum reports whether data, including its trailing checksum
// byte, sums to zero.
func ValidChecksum(data []byte) bool {
	return CalculateChecksum(data) == 0
}

// CalculateDataChecksum returns the DCS for TFI followed by data.
func CalculateDataChecksum(tfi byte, data []byte) byte {
	return ^(tfi + CalculateChecksum(data)) + 1
}

// CalculateLengthChecksum returns the LCS for length.
func CalculateLengthChecksum(length byte) byte {
	return ^length + 1
}

// Build encodes a host-to-PN532 command frame.
func Build(cmd byte, args []byte) ([]byte, error) {
	dataLen := 2 + len(args) // TFI + command + args
	if dataLen > MaxNormalDataLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, dataLen)
	}

	payload := make([]byte, 0, 1+len(args))
	payload = append(payload, cmd)
	payload = append(payload, args...)

	frm := make([]byte, 0, 3+2+dataLen+2)
	frm = append(frm, Preamble, StartCode1, StartCode2)
	frm = append(frm, byte(dataLen), CalculateLengthChecksum(byte(dataLen)))
	frm = append(frm, HostToPn532)
	frm = append(frm, payload...)
	frm = append(frm, CalculateDataChecksum(HostToPn532, payload), Postamble)
	return frm, nil
}

// IsAck reports whether buf starts with an ACK frame, ignoring extra
// leading preamble bytes.
func IsAck(buf []byte) bool {
	return bytes.Contains(buf, AckFrame[1:])
}

// Parse locates the first response frame in buf and returns its payload
// without the TFI, so the first byte is the response code (command + 1).
// ACK and NACK frames in front of the response are skipped.
func Parse(buf []byte) ([]byte, error) {
	if len(buf) < MinFrameLength {
		return nil, fmt.Errorf("%w: short frame (%d bytes)", ErrFrameCorrupted, len(buf))
	}
	for {
		idx := bytes.Index(buf, []byte{StartCode1, StartCode2})
		if idx < 0 || idx+4 > len(buf) {
			return nil, fmt.Errorf("%w: no start code", ErrFrameCorrupted)
		}
		off := idx + 2

		length, lcs := buf[off], buf[off+1]
		if isFlowControl(length, lcs) {
			buf = buf[off+2:]
			continue
		}
		if length+lcs != 0 {
			return nil, fmt.Errorf("%w: bad length checksum", ErrChecksumMismatch)
		}
		return parseBody(buf[off+2:], int(length))
	}
}

func parseBody(body []byte, length int) ([]byte, error) {
	if length == 0 || length+1 > len(body) {
		return nil, fmt.Errorf("%w: truncated frame", ErrFrameCorrupted)
	}
	if !ValidChecksum(body[:length+1]) {
		return nil, fmt.Errorf("%w: bad data checksum", ErrChecksumMismatch)
	}

	// Application error frame: LEN=1, TFI=0x7F.
	if length == 1 && body[0] == 0x7F {
		return nil, ErrErrorFrame
	}
	if body[0] != Pn532ToHost {
		return nil, fmt.Errorf("%w: unexpected TFI %02X", ErrFrameCorrupted, body[0])
	}
	return append([]byte(nil), body[1:length]...), nil
}

func isFlowControl(length, lcs byte) bool {
	return (length == 0x00 && lcs == 0xFF) || (length == 0xFF && lcs == 0x00)
}

// FrameLength returns the total length of the frame starting at the first
// start code in buf, or 0 when the header is not complete yet.
func FrameLength(buf []byte) int {
	off := bytes.Index(buf, []byte{StartCode1, StartCode2})
	if off < 0 || off+4 > len(buf) {
		return 0
	}
	if isFlowControl(buf[off+2], buf[off+3]) {
		// ACK or NACK: start code, two flow control bytes, postamble.
		return off + 5
	}
	return off + 2 + 2 + int(buf[off+2]) + 2
}

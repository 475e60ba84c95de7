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

// Package pn532test builds PN532 answers and a scripted transport for tests
// of the PN532 reader.
package pn532test

// PN532 command codes used by the reader.
const (
	CmdGetFirmwareVersion  = 0x02
	CmdSAMConfiguration    = 0x14
	CmdRFConfiguration     = 0x32
	CmdInListPassiveTarget = 0x4A
	CmdInRelease           = 0x52
)

// Sample UIDs
var (
	// NTAG213UID is a seven byte NTAG213 UID
	NTAG213UID = []byte{0x04, 0xAB, 0xCD, 0xEF, 0x12, 0x34, 0x56}

	// MIFARE1KUID is a four byte MIFARE Classic 1K UID
	MIFARE1KUID = []byte{0x12, 0x34, 0x56, 0x78}
)

// FirmwareVersionResponse answers GetFirmwareVersion: PN532 v1.6,
// ISO14443A/B and ISO18092 supported.
func FirmwareVersionResponse() []byte {
	return []byte{0x03, 0x32, 0x01, 0x06, 0x07}
}

// AckResponse answers commands whose reply carries no data.
func AckResponse(cmd byte) []byte {
	return []byte{cmd + 1}
}

// ReleaseResponse answers InRelease with a success status.
func ReleaseResponse() []byte {
	return []byte{CmdInRelease + 1, 0x00}
}

// TagDetectionResponse answers InListPassiveTarget with one ISO14443A
// target. sak picks the card family (0x00 NTAG, 0x08 MIFARE 1K).
func TagDetectionResponse(uid []byte, sak byte) []byte {
	atqa := []byte{0x00, 0x04}
	if sak == 0x00 {
		atqa = []byte{0x00, 0x44}
	}
	resp := []byte{CmdInListPassiveTarget + 1, 0x01, 0x01}
	resp = append(resp, atqa...)
	resp = append(resp, sak, byte(len(uid)))
	return append(resp, uid...)
}

// NoTagResponse answers InListPassiveTarget with an empty field.
func NoTagResponse() []byte {
	return []byte{CmdInListPassiveTarget + 1, 0x00}
}

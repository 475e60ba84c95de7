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
	"encoding/hex"
	"strings"
)

// TagIdentifier is the raw UID captured from one tag read.
type TagIdentifier []byte

// String returns the canonical form: uppercase hex, two digits per byte,
// no separators. Length is preserved, so distinct identifiers never share
// a string.
func (id TagIdentifier) String() string {
	return strings.ToUpper(hex.EncodeToString(id))
}

// Valid reports whether the identifier came from a successful read.
func (id TagIdentifier) Valid() bool {
	return len(id) > 0
}

// ParseTagIdentifier parses a canonical string back into an identifier.
// Lowercase digits are accepted.
func ParseTagIdentifier(s string) (TagIdentifier, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, ErrEmptyUID
	}
	return TagIdentifier(b), nil
}

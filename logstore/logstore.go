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

// Package logstore keeps the scan log on a mounted filesystem such as the
// device's SD card.
package logstore

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/go-pocketscan"
)

// FileStore resolves logical log paths such as "/rfid_log.txt" under a root
// directory, typically the SD card mount point.
type FileStore struct {
	root string
}

// New creates a FileStore rooted at root. The directory is not required to
// exist yet; Probe reports whether it is usable.
func New(root string) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty store root", pocketscan.ErrInvalidParameter)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store root: %w", err)
	}
	return &FileStore{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Resolve maps a logical path onto the filesystem. Logical paths are
// always relative to the root; ".." cannot climb above it.
func (s *FileStore) Resolve(logical string) (string, error) {
	clean := path.Clean("/" + logical)
	if clean == "/" {
		return "", fmt.Errorf("%w: %q names no file", pocketscan.ErrInvalidParameter, logical)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// OpenAppend implements pocketscan.LogStore. The file is created if needed
// and every write goes to its end.
func (s *FileStore) OpenAppend(logical string) (pocketscan.LogHandle, error) {
	full, err := s.Resolve(logical)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(full, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", logical, err)
	}
	return &handle{f: f}, nil
}

// Probe reports whether the root is a writable directory.
func (s *FileStore) Probe() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("%w: %w", pocketscan.ErrLogUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", pocketscan.ErrLogUnavailable, s.root)
	}
	if err := writable(s.root); err != nil {
		return fmt.Errorf("%w: %w", pocketscan.ErrLogUnavailable, err)
	}
	return nil
}

// ReadLines returns the records of a log, oldest first.
func (s *FileStore) ReadLines(logical string) ([]string, error) {
	full, err := s.Resolve(logical)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", logical, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", logical, err)
	}
	return lines, nil
}

type handle struct {
	f *os.File
}

// WriteLine appends line and a newline in a single write.
func (h *handle) WriteLine(line string) error {
	if _, err := h.f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// Close flushes the record to the card before closing.
func (h *handle) Close() error {
	syncErr := h.f.Sync()
	if err := errors.Join(syncErr, h.f.Close()); err != nil {
		return fmt.Errorf("failed to close log: %w", err)
	}
	return nil
}

var _ pocketscan.LogStore = (*FileStore)(nil)

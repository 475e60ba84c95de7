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
	"context"
	"fmt"
	"time"
)

// Scan screen text.
const (
	ScanningText = "Scanning..."
	TagFoundText = "RFID TAG Found!"
	UIDLabelText = "UID:"
)

// DefaultLogPath is the logical name of the scan log on removable storage.
const DefaultLogPath = "/rfid_log.txt"

// ScanStage is a step of one scan attempt.
type ScanStage int

const (
	// StageAnnouncing shows the scanning screen.
	StageAnnouncing ScanStage = iota
	// StageProbing asks the reader for a new tag and its serial.
	StageProbing
	// StageDecoding renders the identifier to its canonical string.
	StageDecoding
	// StagePresenting shows the identifier.
	StagePresenting
	// StagePersisting appends the identifier to the log.
	StagePersisting
	// StageSettling holds before returning to the menu.
	StageSettling
)

func (s ScanStage) String() string {
	switch s {
	case StageAnnouncing:
		return "announcing"
	case StageProbing:
		return "probing"
	case StageDecoding:
		return "decoding"
	case StagePresenting:
		return "presenting"
	case StagePersisting:
		return "persisting"
	case StageSettling:
		return "settling"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ScanOutcome summarises how an attempt ended.
type ScanOutcome int

const (
	// OutcomeNoTag means the reader had nothing to offer. Not an error.
	OutcomeNoTag ScanOutcome = iota
	// OutcomePersisted means the UID was shown and appended to the log.
	OutcomePersisted
	// OutcomeNotPersisted means the UID was shown but the log write failed.
	OutcomeNotPersisted
)

func (o ScanOutcome) String() string {
	switch o {
	case OutcomeNoTag:
		return "no tag"
	case OutcomePersisted:
		return "persisted"
	case OutcomeNotPersisted:
		return "not persisted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ScanResult is the result of one attempt. Err carries the probe or
// persistence failure, if any; it has already been reported.
type ScanResult struct {
	Err     error
	UID     TagIdentifier
	Outcome ScanOutcome
}

// ScanConfig holds the scan timing and log location.
type ScanConfig struct {
	LogPath string
	// NoTagDelay is the pause after an empty probe.
	NoTagDelay time.Duration
	// SettleDelay is the pause after a successful read so the same tag
	// presentation is not read twice.
	SettleDelay time.Duration
}

// DefaultScanConfig returns the stock scan configuration.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		LogPath:     DefaultLogPath,
		NoTagDelay:  1 * time.Second,
		SettleDelay: 2 * time.Second,
	}
}

// ScanWorkflow reads one tag, shows it and appends it to the log. Every
// attempt runs to completion; failures are reported on the diagnostic
// channel and never propagate as fatal.
type ScanWorkflow struct {
	display Display
	reader  TagReader
	store   LogStore
	diag    Diagnostics
	clock   Clock
	// OnStage, when set, is called as each stage is entered.
	OnStage func(ScanStage)
	config  ScanConfig
}

// NewScanWorkflow creates a scan workflow over the given collaborators.
func NewScanWorkflow(display Display, reader TagReader, store LogStore, opts ...Option) (*ScanWorkflow, error) {
	if display == nil || reader == nil || store == nil {
		return nil, fmt.Errorf("%w: scan workflow needs a display, reader and log store", ErrInvalidParameter)
	}
	s, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &ScanWorkflow{
		display: display,
		reader:  reader,
		store:   store,
		diag:    s.diag,
		clock:   s.clock,
		config:  s.scan,
	}, nil
}

// Config returns the scan configuration in use.
func (w *ScanWorkflow) Config() ScanConfig {
	return w.config
}

// Run implements Tool.
func (w *ScanWorkflow) Run(ctx context.Context) error {
	return w.Scan(ctx).Err
}

// Scan performs one attempt.
func (w *ScanWorkflow) Scan(ctx context.Context) ScanResult {
	w.enter(StageAnnouncing)
	w.show(ScanningText)

	w.enter(StageProbing)
	uid, err := w.probe(ctx)
	if err != nil {
		if IsNoTag(err) {
			w.diag.Printf("No card detected.")
		} else {
			w.diag.Printf("No card detected: %v", err)
		}
		w.wait(ctx, w.config.NoTagDelay)
		return ScanResult{Outcome: OutcomeNoTag, Err: err}
	}

	w.enter(StageDecoding)
	text := uid.String()
	w.diag.Printf("RFID UID: %s", text)

	w.enter(StagePresenting)
	w.show(TagFoundText, UIDLabelText, text)

	w.enter(StagePersisting)
	result := ScanResult{UID: uid, Outcome: OutcomePersisted}
	if err := w.persist(text); err != nil {
		result.Outcome = OutcomeNotPersisted
		result.Err = err
	}

	w.enter(StageSettling)
	w.wait(ctx, w.config.SettleDelay)
	return result
}

func (w *ScanWorkflow) enter(stage ScanStage) {
	debugf("scan: %s", stage)
	if w.OnStage != nil {
		w.OnStage(stage)
	}
}

func (w *ScanWorkflow) show(lines ...string) {
	if err := drawScreen(w.display, lines...); err != nil {
		w.diag.Printf("Display update failed: %v", err)
	}
}

// probe returns a copy of the UID; readers may reuse their buffers.
func (w *ScanWorkflow) probe(ctx context.Context) (TagIdentifier, error) {
	present, err := w.reader.TagPresent(ctx)
	if err != nil {
		return nil, fmt.Errorf("tag presence check failed: %w", err)
	}
	if !present {
		return nil, ErrNoTag
	}

	uid, err := w.reader.ReadSerial(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag serial: %w", err)
	}
	if !uid.Valid() {
		return nil, ErrEmptyUID
	}
	return append(TagIdentifier(nil), uid...), nil
}

// persist appends line to the log. The handle is closed on every path.
func (w *ScanWorkflow) persist(line string) (err error) {
	handle, err := w.store.OpenAppend(w.config.LogPath)
	if err != nil {
		w.diag.Printf("Failed to open log file: %v", err)
		return fmt.Errorf("%w: %w", ErrLogUnavailable, err)
	}

	defer func() {
		if closeErr := handle.Close(); closeErr != nil {
			w.diag.Printf("Failed to close log file: %v", closeErr)
			if err == nil {
				err = fmt.Errorf("failed to close log file: %w", closeErr)
			}
		}
		if err == nil {
			w.diag.Printf("Saved to SD")
		}
	}()

	if err := handle.WriteLine(line); err != nil {
		w.diag.Printf("Failed to write log file: %v", err)
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}

func (w *ScanWorkflow) wait(ctx context.Context, d time.Duration) {
	if err := w.clock.Sleep(ctx, d); err != nil {
		debugf("scan: wait interrupted: %v", err)
	}
}

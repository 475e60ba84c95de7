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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanFixture struct {
	display *MockDisplay
	reader  *MockTagReader
	store   *MockLogStore
	diag    *RecordingDiagnostics
	clock   *FakeClock
	scan    *ScanWorkflow
}

func newScanFixture(t *testing.T, uids ...TagIdentifier) *scanFixture {
	t.Helper()
	f := &scanFixture{
		display: NewMockDisplay(),
		reader:  NewMockTagReader(uids...),
		store:   NewMockLogStore(),
		diag:    &RecordingDiagnostics{},
		clock:   NewFakeClock(),
	}
	scan, err := NewScanWorkflow(f.display, f.reader, f.store,
		WithDiagnostics(f.diag),
		WithClock(f.clock),
	)
	require.NoError(t, err)
	f.scan = scan
	return f
}

func TestNewScanWorkflow_Validation(t *testing.T) {
	t.Parallel()
	_, err := NewScanWorkflow(nil, NewMockTagReader(), NewMockLogStore())
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewScanWorkflow(NewMockDisplay(), NewMockTagReader(), NewMockLogStore(), WithLogPath(""))
	require.ErrorIs(t, err, ErrInvalidParameter)

	scan, err := NewScanWorkflow(NewMockDisplay(), NewMockTagReader(), NewMockLogStore())
	require.NoError(t, err)
	assert.Equal(t, DefaultScanConfig(), scan.Config())
}

func TestScanWorkflow_Success(t *testing.T) {
	t.Parallel()
	f := newScanFixture(t, TagIdentifier{0x01, 0x02})

	var stages []ScanStage
	f.scan.OnStage = func(s ScanStage) { stages = append(stages, s) }

	result := f.scan.Scan(context.Background())

	require.NoError(t, result.Err)
	assert.Equal(t, OutcomePersisted, result.Outcome)
	assert.Equal(t, TagIdentifier{0x01, 0x02}, result.UID)

	frames := f.display.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, []string{ScanningText}, frames[0])
	assert.Equal(t, []string{"RFID TAG Found!", "UID:", "0102"}, frames[1])

	assert.Equal(t, []string{"0102"}, f.store.Lines(DefaultLogPath))
	assert.Zero(t, f.store.OpenHandles())

	assert.True(t, f.diag.Contains("RFID UID: 0102"))
	assert.True(t, f.diag.Contains("Saved to SD"))

	assert.Equal(t, []ScanStage{
		StageAnnouncing, StageProbing, StageDecoding,
		StagePresenting, StagePersisting, StageSettling,
	}, stages)
	assert.Equal(t, []time.Duration{2 * time.Second}, f.clock.Slept())
}

func TestScanWorkflow_NoTag(t *testing.T) {
	t.Parallel()
	f := newScanFixture(t)

	result := f.scan.Scan(context.Background())

	assert.Equal(t, OutcomeNoTag, result.Outcome)
	require.ErrorIs(t, result.Err, ErrNoTag)
	assert.Nil(t, result.UID)

	frames := f.display.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, []string{ScanningText}, frames[0])

	assert.Zero(t, f.store.Opens)
	assert.True(t, f.diag.Contains("No card detected."))
	assert.Equal(t, []time.Duration{time.Second}, f.clock.Slept())
}

func TestScanWorkflow_ReaderFailuresAbort(t *testing.T) {
	t.Parallel()
	tests := []struct {
		setup func(r *MockTagReader)
		want  error
		name  string
	}{
		{
			name:  "presence check error",
			setup: func(r *MockTagReader) { r.PresentErr = NewReaderError("mock", "poll", errors.New("spi timeout")) },
		},
		{
			name: "serial read error",
			setup: func(r *MockTagReader) {
				r.Present(TagIdentifier{0xAA})
				r.ReadErr = errors.New("collision")
			},
		},
		{
			name:  "empty uid",
			setup: func(r *MockTagReader) { r.Present(TagIdentifier{}) },
			want:  ErrEmptyUID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newScanFixture(t)
			tt.setup(f.reader)

			result := f.scan.Scan(context.Background())

			assert.Equal(t, OutcomeNoTag, result.Outcome)
			require.Error(t, result.Err)
			if tt.want != nil {
				require.ErrorIs(t, result.Err, tt.want)
			}
			assert.Len(t, f.display.Frames(), 1)
			assert.Zero(t, f.store.Opens)
			assert.True(t, f.diag.Contains("No card detected"))
		})
	}
}

func TestScanWorkflow_OpenFailureStillDisplays(t *testing.T) {
	t.Parallel()
	f := newScanFixture(t, TagIdentifier{0x01, 0x02})
	f.store.OpenErr = errors.New("no card in slot")

	result := f.scan.Scan(context.Background())

	assert.Equal(t, OutcomeNotPersisted, result.Outcome)
	require.ErrorIs(t, result.Err, ErrLogUnavailable)
	assert.Equal(t, []string{"RFID TAG Found!", "UID:", "0102"}, f.display.LastFrame())
	assert.Empty(t, f.store.Lines(DefaultLogPath))
	assert.True(t, f.diag.Contains("Failed to open log file"))
	assert.False(t, f.diag.Contains("Saved to SD"))
	assert.Equal(t, []time.Duration{2 * time.Second}, f.clock.Slept())
}

func TestScanWorkflow_WriteFailureClosesHandle(t *testing.T) {
	t.Parallel()
	f := newScanFixture(t, TagIdentifier{0xDE, 0xAD})
	f.store.WriteErr = errors.New("disk full")

	result := f.scan.Scan(context.Background())

	assert.Equal(t, OutcomeNotPersisted, result.Outcome)
	require.Error(t, result.Err)
	assert.Zero(t, f.store.OpenHandles())
	assert.Equal(t, 1, f.store.Closes)
	assert.True(t, f.diag.Contains("Failed to write log file: disk full"))
	assert.False(t, f.diag.Contains("Saved to SD"))
}

func TestScanWorkflow_CloseFailureReported(t *testing.T) {
	t.Parallel()
	f := newScanFixture(t, TagIdentifier{0xDE, 0xAD})
	f.store.CloseErr = errors.New("eject")

	result := f.scan.Scan(context.Background())

	assert.Equal(t, OutcomeNotPersisted, result.Outcome)
	require.Error(t, result.Err)
	assert.Equal(t, []string{"DEAD"}, f.store.Lines(DefaultLogPath))
	assert.True(t, f.diag.Contains("Failed to close log file: eject"))
}

func TestScanWorkflow_AppendsEveryRead(t *testing.T) {
	t.Parallel()
	f := newScanFixture(t, TagIdentifier{0x01}, TagIdentifier{0x01}, TagIdentifier{0x0A, 0xFF, 0x01})

	for i := 0; i < 3; i++ {
		require.NoError(t, f.scan.Run(context.Background()))
	}

	assert.Equal(t, []string{"01", "01", "0AFF01"}, f.store.Lines(DefaultLogPath))
}

func TestScanWorkflow_CustomConfig(t *testing.T) {
	t.Parallel()
	clock := NewFakeClock()
	store := NewMockLogStore()
	scan, err := NewScanWorkflow(NewMockDisplay(), NewMockTagReader(TagIdentifier{0x42}), store,
		WithDiagnostics(DiscardDiagnostics),
		WithClock(clock),
		WithLogPath("/scans.txt"),
		WithScanDelays(10*time.Millisecond, 20*time.Millisecond),
	)
	require.NoError(t, err)

	result := scan.Scan(context.Background())
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"42"}, store.Lines("/scans.txt"))
	assert.Equal(t, []time.Duration{20 * time.Millisecond}, clock.Slept())

	result = scan.Scan(context.Background())
	assert.Equal(t, OutcomeNoTag, result.Outcome)
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 10 * time.Millisecond}, clock.Slept())
}

func TestScanStage_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "probing", StageProbing.String())
	assert.Equal(t, "settling", StageSettling.String())
	assert.Equal(t, "stage(99)", ScanStage(99).String())
	assert.Equal(t, "not persisted", OutcomeNotPersisted.String())
}

func TestScanWorkflow_OfflineReader(t *testing.T) {
	t.Parallel()

	diag := &RecordingDiagnostics{}
	store := NewMockLogStore()
	offline := OfflineReader{Err: errors.New("failed to open MFRC522: no SPI port")}
	scan, err := NewScanWorkflow(NewMockDisplay(), offline, store,
		WithDiagnostics(diag), WithClock(NewFakeClock()))
	require.NoError(t, err)

	result := scan.Scan(context.Background())
	assert.Equal(t, OutcomeNoTag, result.Outcome)
	assert.True(t, diag.Contains("No card detected: "))
	assert.True(t, diag.Contains("failed to open MFRC522: no SPI port"))
	assert.Zero(t, store.Opens)
	require.NoError(t, offline.Close())
}

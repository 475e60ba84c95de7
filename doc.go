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

/*
Package pocketscan is the firmware core of a handheld RFID scanner with a
small display, three buttons and removable storage.

The user browses a fixed menu of tools. The RFID Scanner entry reads a tag
identifier, shows it and appends it to a log on the SD card; the other
entries are placeholders.

Hardware is reached only through small interfaces (Display, TagReader,
LogStore, Button), so the same core runs on the device and in the terminal
simulator.

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-pocketscan"
	    "github.com/ZaparooProject/go-pocketscan/logstore"
	    "github.com/ZaparooProject/go-pocketscan/reader/mfrc522"
	)

	store, err := logstore.New("/mnt/sd")
	if err != nil {
	    return err
	}
	reader, err := mfrc522.Open("", "GPIO9", "GPIO24")
	if err != nil {
	    return err
	}

	controller, err := pocketscan.New(pocketscan.Hardware{
	    Display: display,
	    Reader:  reader,
	    Store:   store,
	    Up:      up,
	    Down:    down,
	    Select:  sel,
	}, pocketscan.WithPollInterval(100*time.Millisecond))
	if err != nil {
	    return err
	}

	// Runs until ctx is cancelled
	err = controller.Run(ctx)

Loop:

Every iteration renders the menu, samples the buttons, applies at most one
navigation event and, on Select, runs the selected tool to completion. A
button held down produces a single event; contact bounce is filtered by a
Debouncer per button.

Scanning:

A scan shows "Scanning...", asks the reader for a tag, and on success shows
the identifier as uppercase hex and appends it to /rfid_log.txt. Failures
are reported on the Diagnostics channel and never stop the loop.

Thread Safety:

A Controller is driven by a single goroutine. Collaborators shared with
other goroutines, such as simulator buttons, must do their own locking.
*/
package pocketscan

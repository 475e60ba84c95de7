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

// Package ssd1306 drives a 128x64 SSD1306 OLED panel over I2C as a
// pocketscan.Display.
package ssd1306

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/ZaparooProject/go-pocketscan"
	"github.com/ZaparooProject/go-pocketscan/display"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	// Panel geometry.
	Width  = 128
	Height = 64

	// basicfont.Face7x13 on a 12 pixel pitch gives five rows of 18 columns.
	lineHeight = 12
	glyphWidth = 7
)

// panel is the subset of *ssd1306.Dev the display uses.
type panel interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Display renders the character grid into a 1-bit frame buffer and pushes
// it to the panel on Flush.
type Display struct {
	*display.Grid
	dev  panel
	img  *image1bit.VerticalLSB
	face font.Face
}

// New initialises the panel on bus. Any failure is reported as
// pocketscan.ErrDisplayInit.
func New(bus i2c.Bus) (*Display, error) {
	opts := ssd1306.DefaultOpts
	opts.W = Width
	opts.H = Height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pocketscan.ErrDisplayInit, err)
	}
	return newDisplay(dev), nil
}

func newDisplay(dev panel) *Display {
	return &Display{
		Grid: display.NewGrid(Height/lineHeight, Width/glyphWidth),
		dev:  dev,
		img:  image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height)),
		face: basicfont.Face7x13,
	}
}

// Flush rasterises the grid and sends the frame to the panel.
func (d *Display) Flush() error {
	bounds := d.img.Bounds()
	draw.Draw(d.img, bounds, &image.Uniform{C: image1bit.Off}, image.Point{}, draw.Src)

	ascent := d.face.Metrics().Ascent.Ceil()
	drawer := font.Drawer{
		Dst:  d.img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: d.face,
	}
	for i, line := range d.Lines() {
		if line == "" {
			continue
		}
		drawer.Dot = fixed.P(0, i*lineHeight+ascent)
		drawer.DrawString(line)
	}

	if err := d.dev.Draw(bounds, d.img, image.Point{}); err != nil {
		return fmt.Errorf("failed to draw frame: %w", err)
	}
	return nil
}

// Halt blanks the panel.
func (d *Display) Halt() error {
	if err := d.dev.Halt(); err != nil {
		return fmt.Errorf("failed to halt panel: %w", err)
	}
	return nil
}

var _ pocketscan.Display = (*Display)(nil)

// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package pixel

import (
	"image"
	"image/color"
)

// MaxDimension is the largest width or height that NewImage accepts.
const MaxDimension = 1 << 16

// Image is a fixed size, row-major grid of pixels. Row 0 is the visually
// topmost row.
//
// It also implements the image.Image interface, converting each pixel to a
// color.NRGBA, so that it can be passed to the standard library's encoders.
type Image[P Pixel[P]] struct {
	// Pix holds Width*Height pixels. The pixel at (x, y) is Pix[y*Width+x].
	Pix    []P
	Width  int
	Height int
}

// NewImage returns an opaque black image of the given size.
//
// It returns an error if the width or height is negative or above
// MaxDimension.
func NewImage[P Pixel[P]](width int, height int) (*Image[P], error) {
	if (width < 0) || (width > MaxDimension) ||
		(height < 0) || (height > MaxDimension) {
		return nil, ErrBadArgument
	}
	var zero P
	black := zero.FromRGB(0, 0, 0)
	pix := make([]P, width*height)
	for i := range pix {
		pix[i] = black
	}
	return &Image[P]{
		Pix:    pix,
		Width:  width,
		Height: height,
	}, nil
}

// PixelAt returns the pixel at (x, y). Out of bounds coordinates return the
// zero value.
func (m *Image[P]) PixelAt(x int, y int) P {
	if (uint(x) >= uint(m.Width)) || (uint(y) >= uint(m.Height)) {
		var zero P
		return zero
	}
	return m.Pix[(y*m.Width)+x]
}

// SetPixel sets the pixel at (x, y). Out of bounds coordinates are ignored.
func (m *Image[P]) SetPixel(x int, y int, p P) {
	if (uint(x) >= uint(m.Width)) || (uint(y) >= uint(m.Height)) {
		return
	}
	m.Pix[(y*m.Width)+x] = p
}

// Row returns the pixels of row y, sharing the underlying storage.
func (m *Image[P]) Row(y int) []P {
	i := y * m.Width
	return m.Pix[i : i+m.Width : i+m.Width]
}

func (m *Image[P]) ColorModel() color.Model {
	return color.NRGBAModel
}

func (m *Image[P]) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

func (m *Image[P]) At(x int, y int) color.Color {
	if (uint(x) >= uint(m.Width)) || (uint(y) >= uint(m.Height)) {
		return color.NRGBA{}
	}
	p := m.Pix[(y*m.Width)+x]
	return color.NRGBA{R: p.R(), G: p.G(), B: p.B(), A: p.A()}
}

// Opaque returns whether every pixel has an alpha of 0xFF.
func (m *Image[P]) Opaque() bool {
	for _, p := range m.Pix {
		if p.A() != 0xFF {
			return false
		}
	}
	return true
}

// FromImage converts src to an Image[P]. The result's top-left pixel
// corresponds to src.Bounds().Min.
func FromImage[P Pixel[P]](src image.Image) (*Image[P], error) {
	b := src.Bounds()
	dst, err := NewImage[P](b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	var zero P

	if srcNRGBA, ok := src.(*image.NRGBA); ok {
		for y := 0; y < dst.Height; y++ {
			row := dst.Row(y)
			for x := range row {
				c := srcNRGBA.NRGBAAt(b.Min.X+x, b.Min.Y+y)
				row[x] = zero.FromRGBA(c.R, c.G, c.B, c.A)
			}
		}
		return dst, nil
	}

	for y := 0; y < dst.Height; y++ {
		row := dst.Row(y)
		for x := range row {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			row[x] = zero.FromRGBA(c.R, c.G, c.B, c.A)
		}
	}
	return dst, nil
}

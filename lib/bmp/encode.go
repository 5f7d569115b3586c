// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bmp

import (
	"image"
	"io"

	"github.com/nigeltao/bmppack/lib/pixel"
)

// EncodeOptions are optional arguments to Encode. The zero value is valid and
// means to use the default configuration.
type EncodeOptions struct {
	// BitsPerPixel is the output depth. Zero means 32, which is also the only
	// depth implemented. Any other value makes Encode return ErrUnimplemented.
	BitsPerPixel int
}

const (
	// logicalColorSpaceWindows is LCS_WINDOWS_COLOR_SPACE, the ASCII "Win "
	// as a little-endian uint32.
	logicalColorSpaceWindows = 0x57696E20

	// pixelsPerMeter is 72 DPI.
	pixelsPerMeter = 2835
)

// Encode returns m as a 32 bits per pixel BMP file.
//
// options may be nil, which means to use the default configuration.
func Encode[P pixel.Pixel[P]](m *pixel.Image[P], options *EncodeOptions) ([]byte, error) {
	if m == nil {
		return nil, ErrBadArgument
	}
	if (options != nil) && (options.BitsPerPixel != 0) && (options.BitsPerPixel != 32) {
		return nil, ErrUnimplemented
	}
	if (m.Width <= 0) || (m.Width > maxDimension) ||
		(m.Height <= 0) || (m.Height > maxDimension) {
		return nil, ErrDimensionOutOfRange
	}
	if len(m.Pix) != (m.Width * m.Height) {
		return nil, ErrBadArgument
	}

	const offset = fileHeaderLen + v4InfoHeaderLen
	if (offset + (4 * int64(m.Width) * int64(m.Height))) > 0xFFFFFFFF {
		// The file size field is only 32 bits.
		return nil, ErrDimensionOutOfRange
	}
	imageSize := uint32(4 * m.Width * m.Height)
	fileSize := offset + imageSize

	buf := make([]byte, 0, fileSize)
	buf = append(buf, 'B', 'M')
	buf = appendU32LE(buf, fileSize)
	buf = appendU32LE(buf, 0)
	buf = appendU32LE(buf, offset)

	buf = appendU32LE(buf, v4InfoHeaderLen)
	buf = appendU32LE(buf, uint32(m.Width))
	buf = appendU32LE(buf, uint32(m.Height)) // Positive means bottom-up.
	buf = appendU16LE(buf, 1)
	buf = appendU16LE(buf, 32)
	buf = appendU32LE(buf, compressionBitfields)
	buf = appendU32LE(buf, imageSize)
	buf = appendU32LE(buf, pixelsPerMeter)
	buf = appendU32LE(buf, pixelsPerMeter)
	buf = appendU32LE(buf, 0) // Colors used.
	buf = appendU32LE(buf, 0) // Colors important.
	buf = appendU32LE(buf, 0x00FF0000)
	buf = appendU32LE(buf, 0x0000FF00)
	buf = appendU32LE(buf, 0x000000FF)
	buf = appendU32LE(buf, 0xFF000000)
	buf = appendU32LE(buf, logicalColorSpaceWindows)
	// CIEXYZTRIPLE endpoints (36 bytes) and red, green, blue gamma (12 bytes).
	for i := 0; i < 12; i++ {
		buf = appendU32LE(buf, 0)
	}

	for y := m.Height - 1; y >= 0; y-- {
		for _, p := range m.Row(y) {
			buf = append(buf, p.B(), p.G(), p.R(), p.A())
		}
	}
	return buf, nil
}

// EncodeImage writes src to w in the BMP format. It is a convenience wrapper
// around Encode for arbitrary image.Image values.
//
// options may be nil, which means to use the default configuration.
func EncodeImage(w io.Writer, src image.Image, options *EncodeOptions) error {
	if (w == nil) || (src == nil) {
		return ErrBadArgument
	}
	m, ok := src.(*pixel.Image[pixel.ARGB8])
	if !ok {
		b := src.Bounds()
		if (b.Dx() <= 0) || (b.Dx() > maxDimension) ||
			(b.Dy() <= 0) || (b.Dy() > maxDimension) {
			return ErrDimensionOutOfRange
		}
		var err error
		if m, err = pixel.FromImage[pixel.ARGB8](src); err != nil {
			return err
		}
	}
	buf, err := Encode(m, options)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

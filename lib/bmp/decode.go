// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bmp

import (
	"github.com/nigeltao/bmppack/lib/pixel"
)

// Decode decodes the BMP image in src into pixels of type P. The result is
// always stored top-down, regardless of the row order in src.
//
// No partial image is returned on error. src is not retained.
func Decode[P pixel.Pixel[P]](src []byte) (*pixel.Image[P], error) {
	h, err := parseHeader(src)
	if err != nil {
		return nil, err
	}
	if err := h.parseDetails(src); err != nil {
		return nil, err
	}
	dst, err := pixel.NewImage[P](h.width, h.height)
	if err != nil {
		return nil, err
	}

	pal := newPalette[P](h.palette)
	payload := src[h.offset:]
	if h.format.rle() {
		decodeRLE(dst, payload, h, pal)
		return dst, nil
	}

	decodeRow := makeRowDecoder(h, pal)
	stride := h.format.stride(h.width)
	y, dy := 0, +1
	if !h.topDown {
		y, dy = h.height-1, -1
	}
	for row := 0; row < h.height; row++ {
		decodeRow(dst.Row(y), payload[row*stride:(row+1)*stride])
		y += dy
	}
	return dst, nil
}

// palette is at most maxPaletteLen entries. Indexes past its length map to
// opaque black.
type palette[P pixel.Pixel[P]] struct {
	entries []P
	black   P
}

func newPalette[P pixel.Pixel[P]](entries []paletteEntry) *palette[P] {
	var zero P
	p := &palette[P]{
		entries: make([]P, len(entries)),
		black:   zero.FromRGB(0, 0, 0),
	}
	for i, e := range entries {
		p.entries[i] = zero.FromRGB(e.r, e.g, e.b)
	}
	return p
}

func (p *palette[P]) at(i uint8) P {
	if int(i) < len(p.entries) {
		return p.entries[i]
	}
	return p.black
}

// makeRowDecoder returns a closure that decodes one row of src, which holds
// exactly one padded stride of bytes, into dst.
func makeRowDecoder[P pixel.Pixel[P]](h *header, pal *palette[P]) func(dst []P, src []byte) {
	var zero P

	switch h.format {
	case formatC1, formatC2, formatC4, formatC8:
		// Pixels are packed most significant bits first. The last byte of a
		// row may hold fewer than pixelsPerByte pixels.
		bpp := uint(h.format.bitsPerPixel())
		pixelsPerByte := 8 / int(bpp)
		mask := uint8(1<<bpp) - 1
		return func(dst []P, src []byte) {
			for x := range dst {
				s := 8 - (bpp * uint((x%pixelsPerByte)+1))
				dst[x] = pal.at((src[x/pixelsPerByte] >> s) & mask)
			}
		}

	case formatA1RGB5:
		hasAlpha := h.masks[3] != 0
		return func(dst []P, src []byte) {
			for x := range dst {
				d := readU16LE(src[2*x:])
				r := uint8(d>>10) & 0x1F
				g := uint8(d>>5) & 0x1F
				b := uint8(d>>0) & 0x1F
				a := uint8(0xFF)
				if hasAlpha && ((d & 0x8000) == 0) {
					a = 0x00
				}
				dst[x] = zero.FromRGBA((r<<3)|(r>>2), (g<<3)|(g>>2), (b<<3)|(b>>2), a)
			}
		}

	case formatB16, formatB32:
		red := newComponent(h.masks[0])
		green := newComponent(h.masks[1])
		blue := newComponent(h.masks[2])
		alpha := newComponent(h.masks[3])
		bytesPerPixel := h.format.bitsPerPixel() / 8
		return func(dst []P, src []byte) {
			for x := range dst {
				var d uint32
				if bytesPerPixel == 2 {
					d = uint32(readU16LE(src[2*x:]))
				} else {
					d = readU32LE(src[4*x:])
				}
				dst[x] = zero.FromRGBA(
					red.expand(d, 0x00),
					green.expand(d, 0x00),
					blue.expand(d, 0x00),
					alpha.expand(d, 0xFF),
				)
			}
		}

	case formatRGB8:
		return func(dst []P, src []byte) {
			for x := range dst {
				i := 3 * x
				dst[x] = zero.FromRGB(src[i+2], src[i+1], src[i+0])
			}
		}

	case formatARGB8:
		hasAlpha := h.masks[3] != 0
		return func(dst []P, src []byte) {
			for x := range dst {
				d := readU32LE(src[4*x:])
				a := uint8(0xFF)
				if hasAlpha {
					a = uint8(d >> 24)
				}
				dst[x] = zero.FromRGBA(uint8(d>>16), uint8(d>>8), uint8(d>>0), a)
			}
		}
	}

	// parseHeader only accepts the formats above, and the RLE formats do not
	// use a row decoder.
	return func(dst []P, src []byte) {}
}

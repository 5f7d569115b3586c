// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bmp

import (
	"encoding/binary"

	"github.com/nigeltao/bmppack/lib/pixel"
)

// fixture assembles a BMP file from its parts. The file size and pixel data
// offset fields are derived from the parts.
type fixture struct {
	sig         string // Defaults to "BM".
	headerSize  uint32 // Defaults to 40.
	width       int32
	height      int32
	planes      uint16 // Defaults to 1.
	bpp         uint16
	compression uint32
	imageSize   uint32
	colorsUsed  uint32

	// masks start at file offset 54. Masks that do not fit in the header
	// are written straight after it.
	masks []uint32

	// palette entries are written after the header and masks, 3 bytes each
	// for the 12 byte core header and 4 bytes each otherwise.
	palette [][3]uint8

	pixels []byte
}

func (f fixture) build() []byte {
	sig := f.sig
	if sig == "" {
		sig = "BM"
	}
	hs := f.headerSize
	if hs == 0 {
		hs = infoHeaderLen
	}
	planes := f.planes
	if planes == 0 {
		planes = 1
	}

	le := binary.LittleEndian
	dib := make([]byte, hs)
	le.PutUint32(dib[0:], hs)
	if hs == coreHeaderLen {
		le.PutUint16(dib[4:], uint16(f.width))
		le.PutUint16(dib[6:], uint16(int16(f.height)))
		le.PutUint16(dib[8:], planes)
		le.PutUint16(dib[10:], f.bpp)
	} else {
		le.PutUint32(dib[4:], uint32(f.width))
		le.PutUint32(dib[8:], uint32(f.height))
		le.PutUint16(dib[12:], planes)
		le.PutUint16(dib[14:], f.bpp)
		le.PutUint32(dib[16:], f.compression)
		le.PutUint32(dib[20:], f.imageSize)
		le.PutUint32(dib[32:], f.colorsUsed)
	}

	var extra []byte
	for i, m := range f.masks {
		if off := 40 + (4 * i); (off + 4) <= int(hs) {
			le.PutUint32(dib[off:], m)
		} else {
			extra = le.AppendUint32(extra, m)
		}
	}

	var pal []byte
	for _, e := range f.palette {
		pal = append(pal, e[2], e[1], e[0])
		if hs != coreHeaderLen {
			pal = append(pal, 0x00)
		}
	}

	offset := fileHeaderLen + len(dib) + len(extra) + len(pal)
	fileSize := offset + len(f.pixels)

	out := make([]byte, 0, fileSize)
	out = append(out, sig[0], sig[1])
	out = le.AppendUint32(out, uint32(fileSize))
	out = le.AppendUint32(out, 0)
	out = le.AppendUint32(out, uint32(offset))
	out = append(out, dib...)
	out = append(out, extra...)
	out = append(out, pal...)
	out = append(out, f.pixels...)
	return out
}

// testPalette returns n distinct palette entries.
func testPalette(n int) [][3]uint8 {
	p := make([][3]uint8, n)
	for i := range p {
		p[i] = [3]uint8{uint8(i), uint8(3 * i), uint8(255 - i)}
	}
	return p
}

// paletteColor is the opaque RGBA8 for entry i of testPalette.
func paletteColor(i int) pixel.RGBA8 {
	return pixel.New[pixel.RGBA8](uint8(i), uint8(3*i), uint8(255-i), 0xFF)
}

func rgba(r uint8, g uint8, b uint8, a uint8) pixel.RGBA8 {
	return pixel.New[pixel.RGBA8](r, g, b, a)
}

var opaqueBlack = rgba(0, 0, 0, 0xFF)

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
)

// pixelFormat is the decode dispatch key: the compression code in the high
// byte and the bits per pixel in the low byte.
type pixelFormat uint16

const (
	formatC1     = pixelFormat(0x0001)
	formatC2     = pixelFormat(0x0002)
	formatC4     = pixelFormat(0x0004)
	formatC4RLE  = pixelFormat(0x0204)
	formatC8     = pixelFormat(0x0008)
	formatC8RLE  = pixelFormat(0x0108)
	formatA1RGB5 = pixelFormat(0x0010)
	formatB16    = pixelFormat(0x0310)
	formatRGB8   = pixelFormat(0x0018)
	formatARGB8  = pixelFormat(0x0020)
	formatB32    = pixelFormat(0x0320)
)

const (
	compressionRGB       = 0
	compressionBitfields = 3
)

func (f pixelFormat) bitsPerPixel() int {
	return int(f & 0xFF)
}

func (f pixelFormat) compression() uint32 {
	return uint32(f >> 8)
}

func (f pixelFormat) valid() bool {
	switch f {
	case formatC1, formatC2, formatC4, formatC4RLE, formatC8, formatC8RLE,
		formatA1RGB5, formatB16, formatRGB8, formatARGB8, formatB32:
		return true
	}
	return false
}

func (f pixelFormat) indexed() bool {
	switch f {
	case formatC1, formatC2, formatC4, formatC4RLE, formatC8, formatC8RLE:
		return true
	}
	return false
}

func (f pixelFormat) rle() bool {
	return (f == formatC4RLE) || (f == formatC8RLE)
}

// stride returns the padded byte length of one row, or 0 for the run-length
// encoded formats, whose rows have no fixed length.
func (f pixelFormat) stride(width int) int {
	if f.rle() {
		return 0
	}
	return ((width*f.bitsPerPixel() + 31) / 32) * 4
}

type paletteEntry struct {
	r, g, b uint8
}

// header is the normalized form of every supported header dialect.
type header struct {
	width   int
	height  int
	topDown bool

	format pixelFormat

	fileSize   uint32
	offset     uint32
	headerSize uint32

	// The fields below are only set by parseDetails.

	palette []paletteEntry

	// masks holds the red, green, blue and alpha channel masks.
	masks [4]uint32
}

// Probe reports whether src looks like a BMP image whose pixel data fits in
// src, returning the image dimensions. It does not look at the pixel data.
func Probe(src []byte) (image.Point, bool) {
	h, err := parseHeader(src)
	if err != nil {
		return image.Point{}, false
	}
	return image.Point{X: h.width, Y: h.height}, true
}

// parseHeader performs the structural validation shared by Probe and Decode.
// It does not read the palette or the channel masks.
func parseHeader(src []byte) (*header, error) {
	if len(src) < 2 {
		return nil, ErrInvalidSignature
	}
	sigOK := false
	for _, sig := range signatures {
		if (src[0] == sig[0]) && (src[1] == sig[1]) {
			sigOK = true
			break
		}
	}
	if !sigOK {
		return nil, ErrInvalidSignature
	}

	if len(src) < (fileHeaderLen + 4) {
		return nil, ErrTruncatedHeader
	}
	h := &header{
		fileSize:   readU32LE(src[2:]),
		offset:     readU32LE(src[10:]),
		headerSize: readU32LE(src[14:]),
	}
	if (h.headerSize > h.offset) || (h.offset > h.fileSize) {
		return nil, ErrInconsistentSizeFields
	}
	if uint64(h.fileSize) > uint64(len(src)) {
		return nil, ErrTruncatedPixelData
	} else if uint64(h.fileSize) < uint64(len(src)) {
		return nil, ErrInconsistentSizeFields
	}

	switch h.headerSize {
	case coreHeaderLen, infoHeaderLen, v2InfoHeaderLen, v3InfoHeaderLen, v4InfoHeaderLen, v5InfoHeaderLen:
		// No-op.
	default:
		return nil, ErrUnsupportedHeaderSize
	}
	if len(src) < (fileHeaderLen + int(h.headerSize)) {
		return nil, ErrTruncatedHeader
	}

	var height int64
	if h.headerSize == coreHeaderLen {
		h.width = int(readU16LE(src[18:]))
		height = int64(int16(readU16LE(src[20:])))
	} else {
		h.width = int(readU32LE(src[18:]))
		height = int64(int32(readU32LE(src[22:])))
	}
	if height < 0 {
		height, h.topDown = -height, true
	}
	if (h.width <= 0) || (h.width > maxDimension) ||
		(height <= 0) || (height > maxDimension) {
		return nil, ErrDimensionOutOfRange
	}
	h.height = int(height)

	if h.headerSize == coreHeaderLen {
		if planes := readU16LE(src[22:]); planes != 1 {
			return nil, ErrUnsupportedPixelFormat
		}
		switch f := pixelFormat(readU16LE(src[24:])); f {
		case formatC1, formatC4, formatC8, formatRGB8:
			h.format = f
		default:
			return nil, ErrUnsupportedPixelFormat
		}
	} else {
		bpp := readU16LE(src[28:])
		compression := readU32LE(src[30:])
		if (bpp > 0xFF) || (compression > 0xFF) {
			return nil, ErrUnsupportedPixelFormat
		}
		h.format = pixelFormat((compression << 8) | uint32(bpp))
		if !h.format.valid() {
			return nil, ErrUnsupportedPixelFormat
		}
	}

	if stride := h.format.stride(h.width); stride != 0 {
		if (int64(h.offset) + (int64(stride) * int64(h.height))) > int64(len(src)) {
			return nil, ErrTruncatedPixelData
		}
	}
	return h, nil
}

// parseDetails reads what Decode needs beyond parseHeader: the palette for
// indexed formats and the channel masks for the others.
func (h *header) parseDetails(src []byte) error {
	if h.headerSize == coreHeaderLen {
		if h.format.indexed() {
			// OS/2 core palettes are 3 bytes per entry and have no color count
			// field. Take as many entries as fit before the pixel data.
			base := fileHeaderLen + coreHeaderLen
			n := min(1<<h.format.bitsPerPixel(), (int(h.offset)-base)/3)
			return h.readPalette(src, base, n, 3)
		}
		return nil
	}

	compression := h.format.compression()
	if imageSize := readU32LE(src[34:]); (compression == compressionRGB) && (imageSize > (h.fileSize - h.offset)) {
		return ErrInconsistentSizeFields
	}

	switch h.format {
	case formatC1, formatC2, formatC4, formatC4RLE, formatC8, formatC8RLE:
		n := int(readU32LE(src[46:]))
		if n == 0 {
			n = 1 << h.format.bitsPerPixel()
		} else if (n < 0) || (n > maxPaletteLen) {
			return ErrPaletteOverflow
		}
		return h.readPalette(src, fileHeaderLen+int(h.headerSize), n, 4)

	case formatB16, formatB32:
		if len(src) < 66 {
			return ErrTruncatedHeader
		}
		h.masks[0] = readU32LE(src[54:])
		h.masks[1] = readU32LE(src[58:])
		h.masks[2] = readU32LE(src[62:])
		gap := int64(h.offset) - int64(h.headerSize) - fileHeaderLen
		if (h.headerSize >= v3InfoHeaderLen) || (gap >= 16) {
			if len(src) < 70 {
				return ErrTruncatedHeader
			}
			h.masks[3] = readU32LE(src[66:])
		}

	case formatA1RGB5:
		if h.headerSize >= v3InfoHeaderLen {
			h.masks[3] = 0x8000
		}

	case formatARGB8:
		if h.headerSize >= v3InfoHeaderLen {
			h.masks[3] = 0xFF000000
		}
	}
	return nil
}

func (h *header) readPalette(src []byte, base int, n int, entrySize int) error {
	if n > maxPaletteLen {
		return ErrPaletteOverflow
	}
	h.palette = make([]paletteEntry, 0, max(n, 0))
	for i := 0; i < n; i++ {
		p := base + (i * entrySize)
		if (p + 3) > len(src) {
			return ErrTruncatedHeader
		}
		h.palette = append(h.palette, paletteEntry{
			r: src[p+2],
			g: src[p+1],
			b: src[p+0],
		})
	}
	return nil
}

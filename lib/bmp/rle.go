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

// Second bytes of the escape opcodes, whose first byte is zero.
const (
	rleEndOfLine   = 0x00
	rleEndOfBitmap = 0x01
	rleDelta       = 0x02
)

// decodeRLE decodes an RLE4 or RLE8 opcode stream into dst.
//
// Decoding stops, keeping the pixels decoded so far, at the end-of-bitmap
// opcode, at the end of src, on a run that would pass the right edge of the
// image and on a run whose row is outside the image.
func decodeRLE[P pixel.Pixel[P]](dst *pixel.Image[P], src []byte, h *header, pal *palette[P]) {
	rle4 := h.format == formatC4RLE

	x, y, dy := 0, 0, +1
	if !h.topDown {
		y, dy = h.height-1, -1
	}

	for i := 0; (i + 1) < len(src); {
		b0, b1 := src[i], src[i+1]
		i += 2

		if b0 != 0 {
			// Encoded run. For RLE4, b1 holds two indexes that alternate.
			n := int(b0)
			if ((x + n) > h.width) || (uint(y) >= uint(h.height)) {
				return
			}
			row := dst.Row(y)[x : x+n]
			if rle4 {
				c0, c1 := pal.at(b1>>4), pal.at(b1&0x0F)
				for k := range row {
					if (k & 1) == 0 {
						row[k] = c0
					} else {
						row[k] = c1
					}
				}
			} else {
				c := pal.at(b1)
				for k := range row {
					row[k] = c
				}
			}
			x += n
			continue
		}

		switch b1 {
		case rleEndOfLine:
			x, y = 0, y+dy

		case rleEndOfBitmap:
			return

		case rleDelta:
			if (i + 1) >= len(src) {
				return
			}
			x += int(src[i+0])
			y += int(src[i+1]) * dy
			i += 2

		default:
			// Absolute run of n literal indexes, padded to a 2 byte boundary.
			n := int(b1)
			if ((x + n) > h.width) || (uint(y) >= uint(h.height)) {
				return
			}
			numBytes := n
			if rle4 {
				numBytes = (n + 1) / 2
			}
			if (i + numBytes) > len(src) {
				return
			}
			lit := src[i : i+numBytes]
			row := dst.Row(y)[x : x+n]
			if rle4 {
				for k := range row {
					if (k & 1) == 0 {
						row[k] = pal.at(lit[k/2] >> 4)
					} else {
						row[k] = pal.at(lit[k/2] & 0x0F)
					}
				}
			} else {
				for k := range row {
					row[k] = pal.at(lit[k])
				}
			}
			x += n
			i += numBytes + (numBytes & 1)
		}
	}
}

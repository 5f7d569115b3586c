// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bmp

// component locates one color channel inside a 16 or 32 bit pixel, as
// described by a bitfields mask.
type component struct {
	mask  uint32
	shift uint32
	width uint32
}

// newComponent finds the first run of 1 bits in mask. Bits above that run are
// still part of the mask but do not contribute to the width. A zero mask
// gives a zero width, meaning that the channel is absent.
func newComponent(mask uint32) component {
	c := component{mask: mask}
	if mask == 0 {
		return c
	}

	last, shiftFound := false, false
	for i := uint32(0); i < 32; i++ {
		bit := (mask & (1 << i)) != 0
		if bit == last {
			continue
		}
		last = bit
		if bit {
			if !shiftFound {
				c.shift, shiftFound = i, true
			}
		} else {
			c.width = i - c.shift
			return c
		}
	}
	c.width = 32 - c.shift
	return c
}

// expand extracts the component from v and widens it to 8 bits by repeating
// its high bits in the low bits. Widths of 8 and above keep the top 8 bits.
// An absent component yields def.
func (c component) expand(v uint32, def uint8) uint8 {
	if c.width == 0 {
		return def
	}
	d := (v & c.mask) >> c.shift
	switch c.width {
	case 1:
		if d != 0 {
			return 0xFF
		}
		return 0x00
	case 2:
		return uint8((d << 6) | (d << 4) | (d << 2) | d)
	case 3:
		return uint8((d << 5) | (d << 2) | (d >> 1))
	case 4:
		return uint8((d << 4) | d)
	case 5:
		return uint8((d << 3) | (d >> 2))
	case 6:
		return uint8((d << 2) | (d >> 4))
	case 7:
		return uint8((d << 1) | (d >> 6))
	}
	return uint8(d >> (c.width - 8))
}

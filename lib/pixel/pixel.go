// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package pixel provides in-memory pixel grids that are generic over the
// pixel representation.
//
// Codecs never assume a concrete memory layout. They only construct pixels
// from 8-bit channel values and read 8-bit channel values back, through the
// Pixel constraint. Alpha is always non-premultiplied.
package pixel

import (
	"errors"
)

var (
	ErrBadArgument = errors.New("pixel: bad argument")
)

// Pixel is the capability set that a pixel format offers to codecs.
//
// The FromRGB and FromRGBA methods ignore their receiver: they are called on
// the zero value to construct a new P. FromRGB yields an opaque pixel.
type Pixel[P any] interface {
	comparable

	FromRGB(r uint8, g uint8, b uint8) P
	FromRGBA(r uint8, g uint8, b uint8, a uint8) P

	R() uint8
	G() uint8
	B() uint8
	A() uint8
}

// New returns the P with the given non-premultiplied channel values.
func New[P Pixel[P]](r uint8, g uint8, b uint8, a uint8) P {
	var zero P
	return zero.FromRGBA(r, g, b, a)
}

// RGBA8 is a pixel with 24-bit color and 8-bit alpha, packed as 0xRRGGBBAA.
type RGBA8 uint32

func (RGBA8) FromRGB(r uint8, g uint8, b uint8) RGBA8 {
	return RGBA8((uint32(r) << 24) | (uint32(g) << 16) | (uint32(b) << 8) | 0xFF)
}

func (RGBA8) FromRGBA(r uint8, g uint8, b uint8, a uint8) RGBA8 {
	return RGBA8((uint32(r) << 24) | (uint32(g) << 16) | (uint32(b) << 8) | uint32(a))
}

func (p RGBA8) R() uint8 { return uint8(p >> 24) }
func (p RGBA8) G() uint8 { return uint8(p >> 16) }
func (p RGBA8) B() uint8 { return uint8(p >> 8) }
func (p RGBA8) A() uint8 { return uint8(p >> 0) }

// ARGB8 is a pixel with 24-bit color and 8-bit alpha, packed as 0xAARRGGBB.
// This matches the little-endian BGRA byte order used by BMP and by most
// window systems.
type ARGB8 uint32

func (ARGB8) FromRGB(r uint8, g uint8, b uint8) ARGB8 {
	return ARGB8(0xFF000000 | (uint32(r) << 16) | (uint32(g) << 8) | uint32(b))
}

func (ARGB8) FromRGBA(r uint8, g uint8, b uint8, a uint8) ARGB8 {
	return ARGB8((uint32(a) << 24) | (uint32(r) << 16) | (uint32(g) << 8) | uint32(b))
}

func (p ARGB8) R() uint8 { return uint8(p >> 16) }
func (p ARGB8) G() uint8 { return uint8(p >> 8) }
func (p ARGB8) B() uint8 { return uint8(p >> 0) }
func (p ARGB8) A() uint8 { return uint8(p >> 24) }

// RGB8 is a pixel with 24-bit color and no alpha. Its A method always returns
// 0xFF and FromRGBA discards the alpha value.
type RGB8 struct {
	r, g, b uint8
}

func (RGB8) FromRGB(r uint8, g uint8, b uint8) RGB8 {
	return RGB8{r, g, b}
}

func (RGB8) FromRGBA(r uint8, g uint8, b uint8, a uint8) RGB8 {
	return RGB8{r, g, b}
}

func (p RGB8) R() uint8 { return p.r }
func (p RGB8) G() uint8 { return p.g }
func (p RGB8) B() uint8 { return p.b }
func (p RGB8) A() uint8 { return 0xFF }

// R5G6B5 is a pixel with 16-bit color and no alpha.
//
// Reading a channel widens it back to 8 bits by replicating its high bits, so
// that 0x1F (5 bits) reads as 0xFF and not 0xF8.
type R5G6B5 uint16

func (R5G6B5) FromRGB(r uint8, g uint8, b uint8) R5G6B5 {
	return R5G6B5((uint16(r>>3) << 11) | (uint16(g>>2) << 5) | uint16(b>>3))
}

func (p R5G6B5) FromRGBA(r uint8, g uint8, b uint8, a uint8) R5G6B5 {
	return p.FromRGB(r, g, b)
}

func (p R5G6B5) R() uint8 { return widen5(uint8(p>>11) & 0x1F) }
func (p R5G6B5) G() uint8 { return widen6(uint8(p>>5) & 0x3F) }
func (p R5G6B5) B() uint8 { return widen5(uint8(p>>0) & 0x1F) }
func (p R5G6B5) A() uint8 { return 0xFF }

// RGB5A1 is a pixel with 15-bit color and 1-bit alpha, packed as RRRRRGGGGGBBBBBA.
// Alpha values of 0x80 and above are opaque.
type RGB5A1 uint16

func (RGB5A1) FromRGB(r uint8, g uint8, b uint8) RGB5A1 {
	return RGB5A1((uint16(r>>3) << 11) | (uint16(g>>3) << 6) | (uint16(b>>3) << 1) | 1)
}

func (RGB5A1) FromRGBA(r uint8, g uint8, b uint8, a uint8) RGB5A1 {
	return RGB5A1((uint16(r>>3) << 11) | (uint16(g>>3) << 6) | (uint16(b>>3) << 1) | uint16(a>>7))
}

func (p RGB5A1) R() uint8 { return widen5(uint8(p>>11) & 0x1F) }
func (p RGB5A1) G() uint8 { return widen5(uint8(p>>6) & 0x1F) }
func (p RGB5A1) B() uint8 { return widen5(uint8(p>>1) & 0x1F) }

func (p RGB5A1) A() uint8 {
	if (p & 1) != 0 {
		return 0xFF
	}
	return 0x00
}

// RGB10A2 is a pixel with 30-bit color and 2-bit alpha, packed as 10 bits
// each of red, green and blue from the high bits down, then 2 bits of alpha.
type RGB10A2 uint32

func (RGB10A2) FromRGB(r uint8, g uint8, b uint8) RGB10A2 {
	return RGB10A2((widen10(r) << 22) | (widen10(g) << 12) | (widen10(b) << 2) | 3)
}

func (RGB10A2) FromRGBA(r uint8, g uint8, b uint8, a uint8) RGB10A2 {
	return RGB10A2((widen10(r) << 22) | (widen10(g) << 12) | (widen10(b) << 2) | uint32(a>>6))
}

func (p RGB10A2) R() uint8 { return uint8(p >> 24) }
func (p RGB10A2) G() uint8 { return uint8(p >> 14) }
func (p RGB10A2) B() uint8 { return uint8(p >> 4) }

func (p RGB10A2) A() uint8 {
	a := uint8(p) & 3
	return (a << 6) | (a << 4) | (a << 2) | a
}

func widen10(v uint8) uint32 { return (uint32(v) << 2) | (uint32(v) >> 6) }

func widen5(v uint8) uint8 { return (v << 3) | (v >> 2) }
func widen6(v uint8) uint8 { return (v << 2) | (v >> 4) }

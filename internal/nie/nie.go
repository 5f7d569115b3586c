// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package nie implements the NIE (Naive) image file format.
//
// It is an incomplete implementation (and hence an internal package), only
// providing the encoders that the bmppack command writes decoded BMP images
// with.
//
// NIE is specified at
// https://github.com/google/wuffs/blob/main/doc/spec/nie-spec.md
package nie

import (
	"errors"

	"github.com/nigeltao/bmppack/lib/pixel"
)

var (
	ErrBadArgument = errors.New("nie: bad argument")
)

const headerLen = 16

// EncodeBN4 encodes m as a NIE file in BGRA order, non-premultiplied alpha, 4
// bytes per pixel (8 bits per channel).
func EncodeBN4[P pixel.Pixel[P]](m *pixel.Image[P]) ([]byte, error) {
	ret, err := appendHeader(m, '4', 4)
	if err != nil {
		return nil, err
	}
	for _, p := range m.Pix {
		ret = append(ret, p.B(), p.G(), p.R(), p.A())
	}
	return ret, nil
}

// EncodeBN8 encodes m as a NIE file in BGRA order, non-premultiplied alpha, 8
// bytes per pixel (16 bits per channel). Each 8 bit channel value v becomes
// the 16 bit value v*0x101.
func EncodeBN8[P pixel.Pixel[P]](m *pixel.Image[P]) ([]byte, error) {
	ret, err := appendHeader(m, '8', 8)
	if err != nil {
		return nil, err
	}
	for _, p := range m.Pix {
		b, g, r, a := p.B(), p.G(), p.R(), p.A()
		ret = append(ret,
			b, b,
			g, g,
			r, r,
			a, a,
		)
	}
	return ret, nil
}

func appendHeader[P pixel.Pixel[P]](m *pixel.Image[P], depth byte, bytesPerPixel int) ([]byte, error) {
	if (m == nil) || (m.Width < 0) || (m.Height < 0) || (len(m.Pix) != (m.Width * m.Height)) {
		return nil, ErrBadArgument
	}
	ret := make([]byte, 0, headerLen+(bytesPerPixel*len(m.Pix)))
	ret = append(ret, 0x6E, 0xC3, 0xAF, 0x45, 0xFF, 'b', 'n', depth)
	ret = appendU32LE(ret, uint32(m.Width))
	ret = appendU32LE(ret, uint32(m.Height))
	return ret, nil
}

func appendU32LE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>0),
		uint8(u>>8),
		uint8(u>>16),
		uint8(u>>24),
	)
}

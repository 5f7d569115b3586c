// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package bmp implements the BMP (Windows and OS/2 bitmap) image file format.
//
// Decoding supports the 12 byte OS/2 core header and the 40, 52, 56, 108 and
// 124 byte Windows info headers, with 1, 2, 4 and 8 bit indexed, RLE4, RLE8,
// 16 bit 1-5-5-5, 16 and 32 bit bitfields, 24 bit and 32 bit pixel data, in
// either row order.
//
// Encoding always produces a 32 bit per pixel, bitfields compressed file with
// a 108 byte (version 4) header and non-premultiplied alpha.
//
// All input is treated as untrusted. Decoding never reads outside of the
// source slice.
package bmp

import (
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/nigeltao/bmppack/lib/pixel"
)

func init() {
	for _, sig := range signatures {
		image.RegisterFormat("bmp", sig, DecodeImage, DecodeConfig)
	}
}

var (
	ErrBadArgument            = errors.New("bmp: bad argument")
	ErrDimensionOutOfRange    = errors.New("bmp: dimension out of range")
	ErrInconsistentSizeFields = errors.New("bmp: inconsistent size fields")
	ErrInvalidSignature       = errors.New("bmp: invalid signature")
	ErrPaletteOverflow        = errors.New("bmp: palette overflow")
	ErrTruncatedHeader        = errors.New("bmp: truncated header")
	ErrTruncatedPixelData     = errors.New("bmp: truncated pixel data")
	ErrUnimplemented          = errors.New("bmp: unimplemented")
	ErrUnsupportedHeaderSize  = errors.New("bmp: unsupported header size")
	ErrUnsupportedPixelFormat = errors.New("bmp: unsupported pixel format")
)

// signatures are the two byte tags that start a BMP file: Windows bitmap,
// OS/2 bitmap array, color icon, color pointer, icon and pointer.
var signatures = [6]string{"BM", "BA", "CI", "CP", "IC", "PT"}

const (
	fileHeaderLen = 14

	coreHeaderLen   = 12
	infoHeaderLen   = 40
	v2InfoHeaderLen = 52
	v3InfoHeaderLen = 56
	v4InfoHeaderLen = 108
	v5InfoHeaderLen = 124

	// maxDimension bounds both the width and the height.
	maxDimension = 32768

	maxPaletteLen = 256
)

// DecodeConfig reads a BMP image configuration from r.
func DecodeConfig(r io.Reader) (image.Config, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	h, err := parseHeader(src)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      h.width,
		Height:     h.height,
	}, nil
}

// DecodeImage reads a BMP image from r. The concrete type of the result is a
// *pixel.Image[pixel.RGBA8].
func DecodeImage(r io.Reader) (image.Image, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m, err := Decode[pixel.RGBA8](src)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func readU16LE(b []byte) uint16 {
	return uint16(b[0]) | (uint16(b[1]) << 8)
}

func readU32LE(b []byte) uint32 {
	return uint32(b[0]) | (uint32(b[1]) << 8) | (uint32(b[2]) << 16) | (uint32(b[3]) << 24)
}

func appendU16LE(b []byte, u uint16) []byte {
	return append(b,
		uint8(u>>0),
		uint8(u>>8),
	)
}

func appendU32LE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>0),
		uint8(u>>8),
		uint8(u>>16),
		uint8(u>>24),
	)
}

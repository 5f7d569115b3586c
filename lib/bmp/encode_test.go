// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bmp

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"slices"
	"testing"

	"github.com/nigeltao/bmppack/lib/pixel"

	xbmp "golang.org/x/image/bmp"
)

// gradient returns a w×h image whose every pixel differs from its
// neighbors. Alpha is 0xFF when opaque is true.
func gradient[P pixel.Pixel[P]](tt *testing.T, w int, h int, opaque bool) *pixel.Image[P] {
	tt.Helper()
	m, err := pixel.NewImage[P](w, h)
	if err != nil {
		tt.Fatalf("NewImage: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(0xFF)
			if !opaque {
				a = uint8(17 * (x + y))
			}
			m.SetPixel(x, y, pixel.New[P](uint8(40*x), uint8(50*y), uint8(x^y), a))
		}
	}
	return m
}

// compareImages compares want and got after conversion to non-premultiplied
// RGBA.
func compareImages(tt *testing.T, name string, want image.Image, got image.Image) {
	tt.Helper()
	wb, gb := want.Bounds(), got.Bounds()
	if (wb.Dx() != gb.Dx()) || (wb.Dy() != gb.Dy()) {
		tt.Fatalf("%s: bounds: got %v, want %v", name, gb, wb)
	}
	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			w := color.NRGBAModel.Convert(want.At(wb.Min.X+x, wb.Min.Y+y))
			g := color.NRGBAModel.Convert(got.At(gb.Min.X+x, gb.Min.Y+y))
			if w != g {
				tt.Fatalf("%s: pixel (%d, %d): got %v, want %v", name, x, y, g, w)
			}
		}
	}
}

func TestEncodeRoundTrip(tt *testing.T) {
	testCases := []struct {
		w, h   int
		opaque bool
	}{
		{1, 1, true},
		{3, 2, false},
		{5, 7, false},
		{16, 1, true},
	}

	for _, tc := range testCases {
		src := gradient[pixel.ARGB8](tt, tc.w, tc.h, tc.opaque)
		enc, err := Encode(src, nil)
		if err != nil {
			tt.Fatalf("%dx%d: Encode: %v", tc.w, tc.h, err)
		}
		dst, err := Decode[pixel.ARGB8](enc)
		if err != nil {
			tt.Fatalf("%dx%d: Decode: %v", tc.w, tc.h, err)
		}
		if (dst.Width != tc.w) || (dst.Height != tc.h) {
			tt.Fatalf("%dx%d: got %dx%d", tc.w, tc.h, dst.Width, dst.Height)
		}
		if !slices.Equal(dst.Pix, src.Pix) {
			tt.Errorf("%dx%d: pixels differ after a round trip", tc.w, tc.h)
		}
	}
}

func TestEncodeHeader(tt *testing.T) {
	m, err := pixel.NewImage[pixel.RGBA8](2, 3)
	if err != nil {
		tt.Fatalf("NewImage: %v", err)
	}
	m.SetPixel(0, 0, rgba(0x11, 0x22, 0x33, 0x44))
	m.SetPixel(1, 2, rgba(0x55, 0x66, 0x77, 0x88))

	enc, err := Encode(m, &EncodeOptions{BitsPerPixel: 32})
	if err != nil {
		tt.Fatalf("Encode: %v", err)
	}
	if got, want := len(enc), 122+(4*2*3); got != want {
		tt.Fatalf("len: got %d, want %d", got, want)
	}

	testCases := []struct {
		offset int
		want   uint32
		size   int
	}{
		{2, 146, 4},         // File size.
		{10, 122, 4},        // Pixel data offset.
		{14, 108, 4},        // Header size.
		{18, 2, 4},          // Width.
		{22, 3, 4},          // Height, positive for bottom-up.
		{26, 1, 2},          // Planes.
		{28, 32, 2},         // Bits per pixel.
		{30, 3, 4},          // Bitfields compression.
		{34, 24, 4},         // Image size.
		{38, 2835, 4},       // Horizontal resolution.
		{54, 0x00FF0000, 4}, // Red mask.
		{58, 0x0000FF00, 4}, // Green mask.
		{62, 0x000000FF, 4}, // Blue mask.
		{66, 0xFF000000, 4}, // Alpha mask.
		{70, 0x57696E20, 4}, // Color space.
	}
	for _, tc := range testCases {
		got := uint32(readU16LE(enc[tc.offset:]))
		if tc.size == 4 {
			got = readU32LE(enc[tc.offset:])
		}
		if got != tc.want {
			tt.Errorf("offset=%d: got 0x%X, want 0x%X", tc.offset, got, tc.want)
		}
	}
	if enc[0] != 'B' || enc[1] != 'M' {
		tt.Errorf("signature: got %q", enc[:2])
	}

	// The bottom row comes first, in B, G, R, A byte order.
	if got, want := enc[122:130], []byte{0, 0, 0, 0xFF, 0x77, 0x66, 0x55, 0x88}; !bytes.Equal(got, want) {
		tt.Errorf("first row: got % 02X, want % 02X", got, want)
	}
	if got, want := enc[138:146], []byte{0x33, 0x22, 0x11, 0x44, 0, 0, 0, 0xFF}; !bytes.Equal(got, want) {
		tt.Errorf("last row: got % 02X, want % 02X", got, want)
	}
}

func TestEncodeErrors(tt *testing.T) {
	valid := gradient[pixel.RGBA8](tt, 2, 2, true)

	if _, err := Encode[pixel.RGBA8](nil, nil); !errors.Is(err, ErrBadArgument) {
		tt.Errorf("nil image: got %v, want %v", err, ErrBadArgument)
	}
	for _, bpp := range []int{1, 8, 16, 24, 64} {
		if _, err := Encode(valid, &EncodeOptions{BitsPerPixel: bpp}); !errors.Is(err, ErrUnimplemented) {
			tt.Errorf("bpp=%d: got %v, want %v", bpp, err, ErrUnimplemented)
		}
	}

	empty := &pixel.Image[pixel.RGBA8]{}
	if _, err := Encode(empty, nil); !errors.Is(err, ErrDimensionOutOfRange) {
		tt.Errorf("empty image: got %v, want %v", err, ErrDimensionOutOfRange)
	}
	wide := &pixel.Image[pixel.RGBA8]{Width: maxDimension + 1, Height: 1}
	if _, err := Encode(wide, nil); !errors.Is(err, ErrDimensionOutOfRange) {
		tt.Errorf("wide image: got %v, want %v", err, ErrDimensionOutOfRange)
	}
	short := &pixel.Image[pixel.RGBA8]{Pix: valid.Pix[:3], Width: 2, Height: 2}
	if _, err := Encode(short, nil); !errors.Is(err, ErrBadArgument) {
		tt.Errorf("short Pix: got %v, want %v", err, ErrBadArgument)
	}

	if err := EncodeImage(nil, valid, nil); !errors.Is(err, ErrBadArgument) {
		tt.Errorf("nil writer: got %v, want %v", err, ErrBadArgument)
	}
	if err := EncodeImage(&bytes.Buffer{}, image.NewNRGBA(image.Rect(0, 0, 0, 4)), nil); !errors.Is(err, ErrDimensionOutOfRange) {
		tt.Errorf("empty NRGBA: got %v, want %v", err, ErrDimensionOutOfRange)
	}
}

func TestEncodeImage(tt *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	for y := 20; y < 22; y++ {
		for x := 10; x < 13; x++ {
			src.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), uint8(x * y), uint8(60 * (x - 10))})
		}
	}

	buf := &bytes.Buffer{}
	if err := EncodeImage(buf, src, nil); err != nil {
		tt.Fatalf("EncodeImage: %v", err)
	}
	dst, err := DecodeImage(buf)
	if err != nil {
		tt.Fatalf("DecodeImage: %v", err)
	}
	compareImages(tt, "nrgba", src, dst)
}

func TestDecodeOtherEncoderOutput(tt *testing.T) {
	opaque := image.NewRGBA(image.Rect(0, 0, 5, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			opaque.SetRGBA(x, y, color.RGBA{uint8(50 * x), uint8(80 * y), 0x7F, 0xFF})
		}
	}

	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(29 * i)
	}

	paletted := image.NewPaletted(image.Rect(0, 0, 7, 2), color.Palette{
		color.RGBA{0x00, 0x00, 0x00, 0xFF},
		color.RGBA{0xFF, 0x00, 0x00, 0xFF},
		color.RGBA{0x00, 0xFF, 0x00, 0xFF},
		color.RGBA{0x00, 0x00, 0xFF, 0xFF},
	})
	for i := range paletted.Pix {
		paletted.Pix[i] = uint8(i % 4)
	}

	testCases := []struct {
		name string
		m    image.Image
	}{
		{"rgba", opaque},
		{"gray", gray},
		{"paletted", paletted},
	}

	for _, tc := range testCases {
		buf := &bytes.Buffer{}
		if err := xbmp.Encode(buf, tc.m); err != nil {
			tt.Fatalf("%s: x/image/bmp Encode: %v", tc.name, err)
		}
		got, err := Decode[pixel.RGBA8](buf.Bytes())
		if err != nil {
			tt.Fatalf("%s: Decode: %v", tc.name, err)
		}
		compareImages(tt, tc.name, tc.m, got)
	}
}

func TestOtherDecoderReadsEncoderOutput(tt *testing.T) {
	src := gradient[pixel.RGBA8](tt, 5, 4, true)
	enc, err := Encode(src, nil)
	if err != nil {
		tt.Fatalf("Encode: %v", err)
	}
	got, err := xbmp.Decode(bytes.NewReader(enc))
	if err != nil {
		tt.Fatalf("x/image/bmp Decode: %v", err)
	}
	compareImages(tt, "gradient", src, got)
}

// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package nie

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nigeltao/bmppack/lib/pixel"
)

func testImage(tt *testing.T) *pixel.Image[pixel.RGBA8] {
	tt.Helper()
	m, err := pixel.NewImage[pixel.RGBA8](2, 1)
	if err != nil {
		tt.Fatalf("NewImage: %v", err)
	}
	m.SetPixel(0, 0, pixel.New[pixel.RGBA8](0x01, 0x02, 0x03, 0x04))
	m.SetPixel(1, 0, pixel.New[pixel.RGBA8](0xF1, 0xF2, 0xF3, 0xFF))
	return m
}

func TestEncodeBN4(tt *testing.T) {
	got, err := EncodeBN4(testImage(tt))
	if err != nil {
		tt.Fatalf("EncodeBN4: %v", err)
	}
	want := []byte{
		0x6E, 0xC3, 0xAF, 0x45, 0xFF, 'b', 'n', '4',
		0x02, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x03, 0x02, 0x01, 0x04,
		0xF3, 0xF2, 0xF1, 0xFF,
	}
	if !bytes.Equal(got, want) {
		tt.Errorf("got  % 02X\nwant % 02X", got, want)
	}
}

func TestEncodeBN8(tt *testing.T) {
	got, err := EncodeBN8(testImage(tt))
	if err != nil {
		tt.Fatalf("EncodeBN8: %v", err)
	}
	want := []byte{
		0x6E, 0xC3, 0xAF, 0x45, 0xFF, 'b', 'n', '8',
		0x02, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x03, 0x03, 0x02, 0x02, 0x01, 0x01, 0x04, 0x04,
		0xF3, 0xF3, 0xF2, 0xF2, 0xF1, 0xF1, 0xFF, 0xFF,
	}
	if !bytes.Equal(got, want) {
		tt.Errorf("got  % 02X\nwant % 02X", got, want)
	}
}

func TestEncodeBadArgument(tt *testing.T) {
	if _, err := EncodeBN4[pixel.RGBA8](nil); !errors.Is(err, ErrBadArgument) {
		tt.Errorf("nil: got %v, want %v", err, ErrBadArgument)
	}
	short := &pixel.Image[pixel.ARGB8]{Width: 2, Height: 2}
	if _, err := EncodeBN8(short); !errors.Is(err, ErrBadArgument) {
		tt.Errorf("short: got %v, want %v", err, ErrBadArgument)
	}
}

// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package imagefmt

import (
	"image"
)

// placeholderNames are the formats that the default registry knows by name
// but cannot probe, decode or encode.
var placeholderNames = [...]string{
	"png",
	"jpeg",
	"gif",
	"tga",
	"tiff",
	"pbm",
	"xbm",
	"webp",
}

func placeholder(name string) Format {
	return Format{
		Name: name,
		Probe: func(src []byte) (image.Point, bool) {
			return image.Point{}, false
		},
		Decode: func(src []byte) (image.Image, error) {
			return nil, ErrUnimplemented
		},
		Encode: func(m image.Image) ([]byte, error) {
			return nil, ErrUnimplemented
		},
	}
}

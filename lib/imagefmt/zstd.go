// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package imagefmt

import (
	"bytes"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// DefaultMaxDecompressedSize is 256 MiB, enough for a 32 bit per pixel BMP
// of 8192×8192 pixels.
const DefaultMaxDecompressedSize = 256 << 20

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

var zstdEncPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(
			nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithLowerEncoderMem(true),
		)
		if err != nil {
			panic(err)
		}
		return enc
	},
}

// IsCompressed reports whether src starts with a Zstandard frame.
func IsCompressed(src []byte) bool {
	return bytes.HasPrefix(src, zstdMagic)
}

// Compress returns src as a single Zstandard frame.
func Compress(src []byte) []byte {
	enc := zstdEncPool.Get().(*zstd.Encoder)
	dst := enc.EncodeAll(src, nil)
	zstdEncPool.Put(enc)
	return dst
}

// Decompress decodes the Zstandard frames in src. It returns
// ErrDecompressedTooLarge if the result would exceed maxSize bytes. Zero
// means DefaultMaxDecompressedSize.
func Decompress(src []byte, maxSize uint64) ([]byte, error) {
	if maxSize == 0 {
		maxSize = DefaultMaxDecompressedSize
	}
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(maxSize),
	)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	dst, err := dec.DecodeAll(src, nil)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
		return nil, ErrDecompressedTooLarge
	} else if err != nil {
		return nil, err
	}
	if uint64(len(dst)) > maxSize {
		return nil, ErrDecompressedTooLarge
	}
	return dst, nil
}

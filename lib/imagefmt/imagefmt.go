// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package imagefmt dispatches encoded images to the image file format that
// recognizes them.
//
// Formats are tried in registration order. The default registry holds BMP,
// followed by placeholders for formats that are recognized by name but not
// implemented. Inputs framed by Zstandard compression are decompressed before
// dispatch.
package imagefmt

import (
	"bytes"
	"errors"
	"image"
	"sync"

	"github.com/nigeltao/bmppack/lib/bmp"
	"github.com/nigeltao/bmppack/lib/pixel"
)

var (
	ErrBadArgument          = errors.New("imagefmt: bad argument")
	ErrDecompressedTooLarge = errors.New("imagefmt: decompressed data too large")
	ErrUnimplemented        = errors.New("imagefmt: unimplemented")
	ErrUnknownFormat        = errors.New("imagefmt: unknown format")
	ErrUnsupportedFormat    = errors.New("imagefmt: unsupported format")
)

// Format is one image file format.
type Format struct {
	Name string

	// Probe reports whether src is in this format, and its dimensions.
	Probe func(src []byte) (image.Point, bool)

	Decode func(src []byte) (image.Image, error)
	Encode func(m image.Image) ([]byte, error)
}

// Registry is an ordered set of formats, keyed by name. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	formats []Format
	byName  map[string]int

	maxDecompressedSize uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]int),
	}
}

// Register adds f to r. Registering a name again replaces the earlier format
// but keeps its position.
func (r *Registry) Register(f Format) error {
	if (f.Name == "") || (f.Probe == nil) || (f.Decode == nil) || (f.Encode == nil) {
		return ErrBadArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.byName[f.Name]; ok {
		r.formats[i] = f
		return nil
	}
	r.byName[f.Name] = len(r.formats)
	r.formats = append(r.formats, f)
	return nil
}

// Lookup returns the format registered under name.
func (r *Registry) Lookup(name string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byName[name]
	if !ok {
		return Format{}, ErrUnknownFormat
	}
	return r.formats[i], nil
}

// Formats returns the registered formats in registration order.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Format(nil), r.formats...)
}

// SetMaxDecompressedSize bounds the size of decompressed inputs. Zero means
// DefaultMaxDecompressedSize.
func (r *Registry) SetMaxDecompressedSize(n uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.maxDecompressedSize = n
}

func (r *Registry) unwrap(src []byte) ([]byte, error) {
	if !IsCompressed(src) {
		return src, nil
	}
	r.mu.RLock()
	n := r.maxDecompressedSize
	r.mu.RUnlock()
	return Decompress(src, n)
}

// Probe returns the name and dimensions for the first format that recognizes
// src.
func (r *Registry) Probe(src []byte) (name string, size image.Point, ok bool) {
	src, err := r.unwrap(src)
	if err != nil {
		return "", image.Point{}, false
	}
	for _, f := range r.Formats() {
		if size, ok := f.Probe(src); ok {
			return f.Name, size, true
		}
	}
	return "", image.Point{}, false
}

// Decode decodes src with the first format that can decode it. Failures of
// the individual formats are not reported, only ErrUnsupportedFormat.
func (r *Registry) Decode(src []byte) (image.Image, string, error) {
	src, err := r.unwrap(src)
	if err != nil {
		return nil, "", err
	}
	for _, f := range r.Formats() {
		if m, err := f.Decode(src); err == nil {
			return m, f.Name, nil
		}
	}
	return nil, "", ErrUnsupportedFormat
}

// Encode encodes m in the format registered under name.
func (r *Registry) Encode(name string, m image.Image) ([]byte, error) {
	if m == nil {
		return nil, ErrBadArgument
	}
	f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return f.Encode(m)
}

// BMP is the BMP format, decoding into *pixel.Image[pixel.RGBA8] values.
var BMP = Format{
	Name:  "bmp",
	Probe: bmp.Probe,
	Decode: func(src []byte) (image.Image, error) {
		m, err := bmp.Decode[pixel.RGBA8](src)
		if err != nil {
			return nil, err
		}
		return m, nil
	},
	Encode: func(m image.Image) ([]byte, error) {
		buf := &bytes.Buffer{}
		if err := bmp.EncodeImage(buf, m, nil); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	},
}

// Default is the registry used by the package level functions.
var Default = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(BMP)
	for _, name := range placeholderNames {
		r.Register(placeholder(name))
	}
	return r
}

// Register adds f to the Default registry.
func Register(f Format) error {
	return Default.Register(f)
}

// Lookup returns the format registered under name in the Default registry.
func Lookup(name string) (Format, error) {
	return Default.Lookup(name)
}

// Formats returns the formats in the Default registry.
func Formats() []Format {
	return Default.Formats()
}

// Probe is Default.Probe.
func Probe(src []byte) (name string, size image.Point, ok bool) {
	return Default.Probe(src)
}

// Decode is Default.Decode.
func Decode(src []byte) (image.Image, string, error) {
	return Default.Decode(src)
}

// Encode is Default.Encode.
func Encode(name string, m image.Image) ([]byte, error) {
	return Default.Encode(name, m)
}

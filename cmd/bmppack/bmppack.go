// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// bmppack probes, decodes and encodes the BMP (Windows and OS/2 bitmap) image
// file format.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/nigeltao/bmppack/internal/config"
	"github.com/nigeltao/bmppack/internal/nie"
	"github.com/nigeltao/bmppack/lib/imagefmt"
	"github.com/nigeltao/bmppack/lib/pixel"

	log "github.com/sirupsen/logrus"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	probeFlag   = flag.Bool("probe", false, "whether to print the input's format and dimensions")
	decodeFlag  = flag.Bool("decode", false, "whether to decode the input")
	encodeFlag  = flag.Bool("encode", false, "whether to encode the input")
	outputFlag  = flag.String("output", "", "output format")
	zstdFlag    = flag.Bool("zstd", false, "whether to compress the output with Zstandard")
	configFlag  = flag.String("config", "", "path to a YAML configuration file")
	verboseFlag = flag.Bool("v", false, "whether to log debug detail")
)

const usageStr = `bmppack probes, decodes and encodes the BMP image file format.

Usage: choose one of

    bmppack -probe  [path]
    bmppack -decode [path]
    bmppack -encode [path]

The path to the input image file is optional. If omitted, stdin is read.
Input that is Zstandard compressed is decompressed first.

When decoding you can also pass one of these flags (before the path):

    -output=nie-bn4
    -output=nie-bn8
    -output=png (this is the default)

When encoding you can also pass this flag (before the path):

    -output=bmp (this is the default)

Other flags:

    -zstd           compress the output with Zstandard
    -config=path    read defaults from a YAML file (flags take precedence)
    -v              log debug detail to stderr

Probe prints the format name and dimensions, such as "bmp 640x480", to stdout.
The output image (in NIE/PNG or BMP format) is written to stdout.

Decode inputs BMP and outputs NIE/PNG.
Encode inputs BMP, GIF, JPEG, PNG, TIFF or WEBP and outputs BMP.
`

var ErrBadOutputFlag = errors.New("main: bad -output flag")

func main() {
	if err := main1(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log.SetOutput(os.Stderr)
	if err := setUpLogging(log.StandardLogger(), cfg, *verboseFlag, *configFlag); err != nil {
		return err
	}
	imagefmt.Default.SetMaxDecompressedSize(cfg.MaxDecompressedSize)

	inFile := os.Stdin
	switch flag.NArg() {
	case 0:
		// No-op.
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		inFile = f
	default:
		return errors.New("too many filenames; the maximum is one")
	}

	src, err := io.ReadAll(inFile)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"input": inFile.Name(),
		"bytes": len(src),
	}).Debug("read input")

	switch {
	case *probeFlag && !*decodeFlag && !*encodeFlag:
		return probe(src)
	case !*probeFlag && *decodeFlag && !*encodeFlag:
		return decode(src, cfg)
	case !*probeFlag && !*decodeFlag && *encodeFlag:
		return encode(src, cfg)
	}
	return errors.New("must specify exactly one of -probe, -decode, -encode or -help")
}

// loadConfig returns the -config file's settings, or the defaults, with any
// explicitly set flags applied on top.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configFlag != "" {
		c, err := config.Load(*configFlag)
		if err != nil {
			return config.Config{}, err
		}
		cfg = c
	}

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "zstd" {
			cfg.Compress = *zstdFlag
		}
	})
	return cfg, nil
}

// setUpLogging sets l's level from cfg, or to debug when verbose is set. It
// then reports the configuration file, if any, at debug level.
func setUpLogging(l *log.Logger, cfg config.Config, verbose bool, configPath string) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if verbose {
		level = log.DebugLevel
	}
	l.SetLevel(level)
	if configPath != "" {
		l.WithField("path", configPath).Debug("loaded config")
	}
	return nil
}

func probe(src []byte) error {
	name, size, ok := imagefmt.Probe(src)
	if !ok {
		return imagefmt.ErrUnsupportedFormat
	}
	_, err := fmt.Fprintf(os.Stdout, "%s %dx%d\n", name, size.X, size.Y)
	return err
}

func decode(src []byte, cfg config.Config) error {
	output := cfg.Output
	if *outputFlag != "" {
		output = *outputFlag
	}
	switch output {
	case "", "png", "nie-bn4", "nie-bn8":
		// No-op.
	default:
		return ErrBadOutputFlag
	}

	m, name, err := imagefmt.Decode(src)
	if err != nil {
		return err
	}
	b := m.Bounds()
	log.WithFields(log.Fields{
		"format": name,
		"width":  b.Dx(),
		"height": b.Dy(),
	}).Info("decoded")

	var dst []byte
	switch output {
	case "nie-bn4", "nie-bn8":
		pm, err := toPixelImage(m)
		if err != nil {
			return err
		}
		if output == "nie-bn4" {
			dst, err = nie.EncodeBN4(pm)
		} else {
			dst, err = nie.EncodeBN8(pm)
		}
		if err != nil {
			return err
		}
	default:
		buf := &bytes.Buffer{}
		if err := png.Encode(buf, m); err != nil {
			return err
		}
		dst = buf.Bytes()
	}
	return writeOutput(dst, cfg)
}

func encode(src []byte, cfg config.Config) error {
	switch *outputFlag {
	case "", "bmp":
		// No-op.
	default:
		return ErrBadOutputFlag
	}

	if imagefmt.IsCompressed(src) {
		s, err := imagefmt.Decompress(src, cfg.MaxDecompressedSize)
		if err != nil {
			return err
		}
		src = s
	}
	m, name, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return err
	}
	b := m.Bounds()
	log.WithFields(log.Fields{
		"format": name,
		"width":  b.Dx(),
		"height": b.Dy(),
	}).Info("read image")

	dst, err := imagefmt.Encode("bmp", m)
	if err != nil {
		return err
	}
	return writeOutput(dst, cfg)
}

func toPixelImage(m image.Image) (*pixel.Image[pixel.RGBA8], error) {
	if pm, ok := m.(*pixel.Image[pixel.RGBA8]); ok {
		return pm, nil
	}
	return pixel.FromImage[pixel.RGBA8](m)
}

func writeOutput(dst []byte, cfg config.Config) error {
	if cfg.Compress {
		n := len(dst)
		dst = imagefmt.Compress(dst)
		log.WithFields(log.Fields{
			"before": n,
			"after":  len(dst),
		}).Debug("compressed output")
	}
	_, err := os.Stdout.Write(dst)
	return err
}

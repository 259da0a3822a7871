// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package seqio

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression is the compression of a sequence file.
type Compression int

const (
	// None is an uncompressed file.
	None Compression = iota
	// Gzip is a gzip (or bgzip) compressed file.
	Gzip
	// Zstd is a zstandard compressed file.
	Zstd
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// CompressionOf returns the compression implied by the extension of path.
func CompressionOf(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".bgz":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

// TrimCompression returns path without a compression extension.
func TrimCompression(path string) string {
	if CompressionOf(path) == None {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// decompress detects compressed input by its magic bytes.
func decompress(r *bufio.Reader) (io.Reader, func() error, error) {
	head, _ := r.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, Error.Wrap(err)
		}
		return zr, zr.Close, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, Error.Wrap(err)
		}
		return zr, func() error { zr.Close(); return nil }, nil
	default:
		return r, func() error { return nil }, nil
	}
}

// compress wraps w with the given compression.
func compress(w io.Writer, compression Compression) (io.Writer, func() error, error) {
	switch compression {
	case Gzip:
		zw := gzip.NewWriter(w)
		return zw, zw.Close, nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, Error.Wrap(err)
		}
		return zw, zw.Close, nil
	default:
		return w, func() error { return nil }, nil
	}
}

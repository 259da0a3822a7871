// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package kmer produces the overlapping fixed-length substrings of a
// nucleotide sequence.
package kmer

import (
	"iter"

	"github.com/zeebo/errs"
)

// ErrInvalidLength is returned for k-mer lengths that cannot produce k-mers.
var ErrInvalidLength = errs.Class("invalid k-mer length")

// CheckLength validates k.
func CheckLength(k int) error {
	if k < 1 {
		return ErrInvalidLength.New("k must be at least 1, got %d", k)
	}
	return nil
}

// Count returns the number of k-mers in a sequence of length n.
func Count(n, k int) int {
	if k < 1 || n < k {
		return 0
	}
	return n - k + 1
}

// Generate returns the k-mers of seq from left to right.
//
// The yielded slices alias seq and are only valid until seq is modified.
// A sequence shorter than k yields nothing. The returned sequence holds no
// state and can be ranged over any number of times.
func Generate(seq []byte, k int) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		n := Count(len(seq), k)
		for i := 0; i < n; i++ {
			if !yield(seq[i : i+k : i+k]) {
				return
			}
		}
	}
}

// Collect appends the k-mers of seq to dst and returns the extended slice.
func Collect(dst [][]byte, seq []byte, k int) [][]byte {
	for kmer := range Generate(seq, k) {
		dst = append(dst, kmer)
	}
	return dst
}

// Normalize uppercases ASCII letters of seq in place and returns it, so that
// k-mer identity does not depend on soft-masking.
func Normalize(seq []byte) []byte {
	for i, c := range seq {
		if 'a' <= c && c <= 'z' {
			seq[i] = c - ('a' - 'A')
		}
	}
	return seq
}

// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package testrand implements generating random test data.
package testrand

import (
	"math/rand"
)

const nucleotides = "ACGT"

// Int63n returns, as an int64, a non-negative pseudo-random number in [0,n)
// from the default Source.
// It panics if n <= 0.
func Int63n(n int64) int64 {
	return rand.Int63n(n)
}

// Read reads pseudo-random data into data.
func Read(data []byte) {
	const newSourceThreshold = 64
	if len(data) < newSourceThreshold {
		_, _ = rand.Read(data)
		return
	}

	src := rand.NewSource(rand.Int63())
	r := rand.New(src)
	_, _ = r.Read(data)
}

// BytesN generates size amount of random data.
func BytesN(size int) []byte {
	data := make([]byte, size)
	Read(data)
	return data
}

// Sequence generates a random uppercase nucleotide sequence of length n.
func Sequence(n int) []byte {
	seq := BytesN(n)
	for i, b := range seq {
		seq[i] = nucleotides[b&3]
	}
	return seq
}

// Sequences generates count random sequences of length n.
func Sequences(count, n int) [][]byte {
	seqs := make([][]byte, count)
	for i := range seqs {
		seqs[i] = Sequence(n)
	}
	return seqs
}

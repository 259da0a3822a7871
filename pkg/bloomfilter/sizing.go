// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bloomfilter

import (
	"math"
)

// maxSize bounds the bit array so that indexes fit into uint and int64.
const maxSize = math.MaxInt64

// OptimalSize returns the number of bits m needed to hold n elements with a
// false positive rate of p:
//
//	m = ceil(-(n * ln p) / (ln 2)^2)
func OptimalSize(n int64, p float64) (uint64, error) {
	if n <= 0 {
		return 0, ErrConfig.New("expected elements must be positive, got %d", n)
	}
	if !(p > 0 && p < 1) {
		return 0, ErrConfig.New("false positive rate must be in (0, 1), got %v", p)
	}

	m := math.Ceil(-(float64(n) * math.Log(p)) / (math.Ln2 * math.Ln2))
	if m < 1 {
		return 0, ErrDegenerate.New("size %v for %d elements", m, n)
	}
	if m >= maxSize {
		return 0, ErrConfig.New("filter for %d elements at rate %v needs %v bits", n, p, m)
	}
	return uint64(m), nil
}

// OptimalHashCount returns the number of hash probes k for a filter of m bits
// holding n elements:
//
//	k = max(1, floor((m / n) * ln 2))
func OptimalHashCount(m uint64, n int64) (int, error) {
	if m < 1 {
		return 0, ErrDegenerate.New("filter size must be at least one bit")
	}
	if n <= 0 {
		return 0, ErrConfig.New("expected elements must be positive, got %d", n)
	}

	k := int(math.Floor(float64(m) / float64(n) * math.Ln2))
	return max(k, 1), nil
}

// FalsePositiveRateForMemory returns the false positive rate reached by a
// filter of maxBits bits holding n elements:
//
//	p = exp(-(m * (ln 2)^2) / n)
//
// It is used when memory rather than the error rate is the constraint.
func FalsePositiveRateForMemory(n int64, maxBits uint64) (float64, error) {
	if n <= 0 {
		return 0, ErrConfig.New("expected elements must be positive, got %d", n)
	}
	if maxBits < 1 {
		return 0, ErrConfig.New("memory limit must be at least one bit")
	}

	p := math.Exp(-(float64(maxBits) * math.Ln2 * math.Ln2) / float64(n))
	if p >= 1 {
		// n dwarfs the cap; keep the rate a valid probability.
		p = math.Nextafter(1, 0)
	}
	if p == 0 {
		// the cap is far beyond what n needs; OptimalSize requires p > 0.
		p = math.SmallestNonzeroFloat64
	}
	return p, nil
}

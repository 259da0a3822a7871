// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bloomfilter

import (
	"math"

	"github.com/bits-and-blooms/bitset"
)

// Params are the sizing parameters and metadata of a filter.
type Params struct {
	// Size is the number of bits in the filter.
	Size uint64
	// HashCount is the number of probes per item.
	HashCount int
	// ExpectedElements is the element count the filter was sized for.
	ExpectedElements int64
	// FalsePositiveRate is the rate the filter was sized for.
	FalsePositiveRate float64
	// KmerLength is the k-mer length of the inserted items, 0 when unknown.
	KmerLength int
}

// Check verifies that params describe a usable filter.
func (params Params) Check() error {
	if params.Size < 1 {
		return ErrDegenerate.New("filter size must be at least one bit")
	}
	if params.Size >= maxSize {
		return ErrConfig.New("filter size %d is too large", params.Size)
	}
	if params.HashCount < 1 {
		return ErrDegenerate.New("hash count must be at least one, got %d", params.HashCount)
	}
	if params.KmerLength < 0 {
		return ErrConfig.New("k-mer length must not be negative, got %d", params.KmerLength)
	}
	return nil
}

// Filter is a bloom filter over byte strings.
//
// Add must not be called concurrently with any other method. Contains may be
// called concurrently once building has finished.
type Filter struct {
	params Params
	scheme Scheme
	bits   *bitset.BitSet
}

// New returns an empty filter with the given parameters hashing with scheme.
func New(params Params, scheme Scheme) (*Filter, error) {
	if err := params.Check(); err != nil {
		return nil, err
	}
	if !scheme.valid() {
		return nil, ErrConfig.New("unknown hash scheme %d", scheme)
	}
	return &Filter{
		params: params,
		scheme: scheme,
		bits:   bitset.New(uint(params.Size)),
	}, nil
}

// NewOptimal returns an empty filter sized for expectedElements items at the
// given false positive rate.
func NewOptimal(expectedElements int64, falsePositiveRate float64, kmerLength int) (*Filter, error) {
	size, err := OptimalSize(expectedElements, falsePositiveRate)
	if err != nil {
		return nil, err
	}
	hashCount, err := OptimalHashCount(size, expectedElements)
	if err != nil {
		return nil, err
	}
	return New(Params{
		Size:              size,
		HashCount:         hashCount,
		ExpectedElements:  expectedElements,
		FalsePositiveRate: falsePositiveRate,
		KmerLength:        kmerLength,
	}, SchemeBLAKE3)
}

// Params returns the parameters of the filter.
func (filter *Filter) Params() Params { return filter.params }

// Size returns the number of bits.
func (filter *Filter) Size() uint64 { return filter.params.Size }

// HashCount returns the number of probes per item.
func (filter *Filter) HashCount() int { return filter.params.HashCount }

// KmerLength returns the k-mer length the filter was built with, 0 when unknown.
func (filter *Filter) KmerLength() int { return filter.params.KmerLength }

// Scheme returns the hash family of the filter.
func (filter *Filter) Scheme() Scheme { return filter.scheme }

// Add adds an item to the filter.
func (filter *Filter) Add(item []byte) {
	for probe := 0; probe < filter.params.HashCount; probe++ {
		filter.bits.Set(uint(filter.scheme.index(item, probe, filter.params.Size)))
	}
}

// Contains returns true if item may be in the set.
func (filter *Filter) Contains(item []byte) bool {
	for probe := 0; probe < filter.params.HashCount; probe++ {
		if !filter.bits.Test(uint(filter.scheme.index(item, probe, filter.params.Size))) {
			return false
		}
	}
	return true
}

// FillRatio returns the fraction of bits that are set.
func (filter *Filter) FillRatio() float64 {
	return float64(filter.bits.Count()) / float64(filter.params.Size)
}

// EstimatedFalsePositiveRate returns the false positive rate implied by the
// current fill ratio. It exceeds the configured rate once more than
// ExpectedElements distinct items were added.
func (filter *Filter) EstimatedFalsePositiveRate() float64 {
	return math.Pow(filter.FillRatio(), float64(filter.params.HashCount))
}

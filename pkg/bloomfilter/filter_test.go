// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bloomfilter_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/kmerdecon/internal/testrand"
	"storj.io/kmerdecon/pkg/bloomfilter"
	"storj.io/kmerdecon/pkg/kmer"
)

func TestNoFalseNegative(t *testing.T) {
	const numberOfItems = 10000
	items := testrand.Sequences(numberOfItems, 31)

	for _, ratio := range []float32{0.5, 1, 2} {
		filter, err := bloomfilter.NewOptimal(int64(numberOfItems*ratio), 0.1, 31)
		require.NoError(t, err)
		for i, item := range items {
			filter.Add(item)
			require.True(t, filter.Contains(item))
			require.True(t, filter.Contains(items[i/2]))
		}
		for _, item := range items {
			require.True(t, filter.Contains(item))
		}
	}
}

func TestFalsePositiveRate(t *testing.T) {
	const n = 5000
	const rate = 0.01

	filter, err := bloomfilter.NewOptimal(n, rate, 21)
	require.NoError(t, err)
	for _, item := range testrand.Sequences(n, 21) {
		filter.Add(item)
	}
	require.InDelta(t, rate, filter.EstimatedFalsePositiveRate(), rate)

	positives := 0
	const probes = 20000
	for i := 0; i < probes; i++ {
		// items outside the nucleotide alphabet were never inserted
		if filter.Contains([]byte(fmt.Sprintf("absent-%d", i))) {
			positives++
		}
	}
	require.Less(t, float64(positives)/probes, 3*rate)
}

func TestEstimatedRateGrowsPastCapacity(t *testing.T) {
	filter, err := bloomfilter.NewOptimal(100, 0.01, 15)
	require.NoError(t, err)
	for _, item := range testrand.Sequences(100, 15) {
		filter.Add(item)
	}
	atCapacity := filter.EstimatedFalsePositiveRate()

	for _, item := range testrand.Sequences(300, 15) {
		filter.Add(item)
	}
	require.Greater(t, filter.EstimatedFalsePositiveRate(), 4*atCapacity)
}

func TestAddIdempotent(t *testing.T) {
	filter, err := bloomfilter.NewOptimal(10, 0.01, 4)
	require.NoError(t, err)

	filter.Add([]byte("ACGT"))
	fill := filter.FillRatio()
	filter.Add([]byte("ACGT"))
	require.Equal(t, fill, filter.FillRatio())
}

func TestContainsCorpusKmers(t *testing.T) {
	filter, err := bloomfilter.NewOptimal(10, 0.01, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(96), filter.Size())
	require.Equal(t, 6, filter.HashCount())
	require.Equal(t, 4, filter.KmerLength())
	require.Equal(t, bloomfilter.SchemeBLAKE3, filter.Scheme())

	for m := range kmer.Generate([]byte("ACGTACGT"), 4) {
		filter.Add(m)
	}
	for _, m := range []string{"ACGT", "CGTA", "GTAC", "TACG"} {
		require.True(t, filter.Contains([]byte(m)), m)
	}
}

func TestEmptyFilterContainsNothing(t *testing.T) {
	filter, err := bloomfilter.NewOptimal(10, 0.01, 4)
	require.NoError(t, err)
	require.False(t, filter.Contains([]byte("ACGT")))
	require.Zero(t, filter.FillRatio())
}

func TestNewRejectsDegenerate(t *testing.T) {
	_, err := bloomfilter.New(bloomfilter.Params{Size: 0, HashCount: 1}, bloomfilter.SchemeBLAKE3)
	require.True(t, bloomfilter.ErrDegenerate.Has(err))

	_, err = bloomfilter.New(bloomfilter.Params{Size: 10, HashCount: 0}, bloomfilter.SchemeBLAKE3)
	require.True(t, bloomfilter.ErrDegenerate.Has(err))

	_, err = bloomfilter.New(bloomfilter.Params{Size: 10, HashCount: 1}, bloomfilter.Scheme(9))
	require.True(t, bloomfilter.ErrConfig.Has(err))

	_, err = bloomfilter.NewOptimal(0, 0.01, 4)
	require.True(t, bloomfilter.ErrConfig.Has(err))
}

func TestSchemesDiffer(t *testing.T) {
	params := bloomfilter.Params{Size: 1 << 20, HashCount: 4}
	legacy, err := bloomfilter.New(params, bloomfilter.SchemeSHA256)
	require.NoError(t, err)
	current, err := bloomfilter.New(params, bloomfilter.SchemeBLAKE3)
	require.NoError(t, err)

	legacy.Add([]byte("ACGTACGT"))
	current.Add([]byte("ACGTACGT"))
	require.True(t, legacy.Contains([]byte("ACGTACGT")))
	require.True(t, current.Contains([]byte("ACGTACGT")))

	require.Equal(t, "sha256", bloomfilter.SchemeSHA256.String())
	require.Equal(t, "blake3", bloomfilter.SchemeBLAKE3.String())
}

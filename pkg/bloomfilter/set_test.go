// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bloomfilter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/kmerdecon/internal/testcontext"
	"storj.io/kmerdecon/pkg/bloomfilter"
)

func newFilter(t *testing.T, k int) *bloomfilter.Filter {
	filter, err := bloomfilter.NewOptimal(100, 0.01, k)
	require.NoError(t, err)
	return filter
}

func TestSetKmerLength(t *testing.T) {
	set := bloomfilter.NewSet(
		bloomfilter.Named{Name: "phix", Filter: newFilter(t, 21)},
		bloomfilter.Named{Name: "human", Filter: newFilter(t, 21)},
	)
	k, consistent := set.KmerLength()
	require.Equal(t, 21, k)
	require.True(t, consistent)
	require.Empty(t, set.Mismatches(21))
	require.Equal(t, []string{"phix", "human"}, set.Names())

	set.Add("ecoli", newFilter(t, 25))
	k, consistent = set.KmerLength()
	require.Equal(t, 21, k)
	require.False(t, consistent)

	mismatched := set.Mismatches(21)
	require.Len(t, mismatched, 1)
	require.Equal(t, "ecoli", mismatched[0].Name)
	require.Equal(t, 3, set.Len())
}

func TestLoadSet(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	first := ctx.File("phix.bf")
	require.NoError(t, newFilter(t, 21).Save(first))
	second := ctx.File("adapters.bloom")
	require.NoError(t, newFilter(t, 21).Save(second))

	set, err := bloomfilter.LoadSet(first, second)
	require.NoError(t, err)
	require.Equal(t, []string{"phix", "adapters"}, set.Names())

	_, err = bloomfilter.LoadSet()
	require.True(t, bloomfilter.ErrInput.Has(err))

	_, err = bloomfilter.LoadSet(first, ctx.File("missing.bf"))
	require.True(t, bloomfilter.ErrInput.Has(err))
}

func TestFilterName(t *testing.T) {
	for path, name := range map[string]string{
		"phix.bf":                 "phix",
		"/refs/human.v38.bf":      "human",
		"filters/adapters":        "adapters",
		"filters/ecoli.k31.bloom": "ecoli",
	} {
		require.Equal(t, name, bloomfilter.FilterName(path), path)
	}
}

func TestListFilters(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	dir := ctx.Dir("filters")
	require.NoError(t, newFilter(t, 21).Save(ctx.File("filters", "phix.bf")))
	require.NoError(t, newFilter(t, 21).Save(ctx.File("filters", "adapters.bf")))
	ctx.WriteFile([]byte("no sidecar"), "filters", "notes.txt")
	ctx.WriteFile([]byte("1\n1\n"), "filters", "orphan.params")
	ctx.Dir("filters", "nested.bf")

	paths, err := bloomfilter.ListFilters(dir)
	require.NoError(t, err)
	require.Equal(t, []string{ctx.File("filters", "adapters.bf"), ctx.File("filters", "phix.bf")}, paths)

	_, err = bloomfilter.ListFilters(ctx.Dir("empty"))
	require.True(t, bloomfilter.ErrInput.Has(err))
}

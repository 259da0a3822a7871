// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package decon_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/kmerdecon/internal/testcontext"
	"storj.io/kmerdecon/pkg/bloomfilter"
	"storj.io/kmerdecon/pkg/decon"
)

func TestStatistics(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	classifier := newClassifier(t, decon.Config{Threshold: 0.5},
		bloomfilter.Named{Name: "acgt", Filter: newFilter(t, 100, 4, "ACGTACGT")},
		bloomfilter.Named{Name: "poly", Filter: newFilter(t, 100, 4, "TTTTTTTT")},
	)

	stats, err := classifier.Statistics(ctx, open(t,
		fastq("acgt", "ACGTACGTAC"),
		fastq("poly", "TTTTTTTT"),
		fastq("short", "ACG"),
		fastq("boundary", "ACGTT"),
	))
	require.NoError(t, err)

	require.Equal(t, int64(4), stats.Total)
	require.Equal(t, int64(3), stats.Evaluated)
	require.Equal(t, []decon.FilterStats{
		{Name: "acgt", FractionSum: 1.5, Passing: 1},
		{Name: "poly", FractionSum: 1, Passing: 2},
	}, stats.Filters)

	require.InDelta(t, 1.5/4, stats.AverageFraction(0), 1e-9)
	require.InDelta(t, 25.0, stats.PercentPassing(0), 1e-9)
	require.InDelta(t, 1.0/4, stats.AverageFraction(1), 1e-9)
	require.InDelta(t, 50.0, stats.PercentPassing(1), 1e-9)
}

func TestStatisticsShortReadsDilute(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	classifier := newClassifier(t, decon.Config{Threshold: 0.5},
		bloomfilter.Named{Name: "acgt", Filter: newFilter(t, 100, 4, "ACGTACGT")})

	stats, err := classifier.Statistics(ctx, open(t,
		fastq("acgt", "ACGTACGT"),
		fastq("short", "AC"),
	))
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Total)
	require.Equal(t, int64(1), stats.Evaluated)
	require.InDelta(t, 0.5, stats.AverageFraction(0), 1e-9)
	require.Equal(t, 0.0, stats.PercentPassing(0))
}

func TestStatisticsNothingEvaluated(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	classifier := newClassifier(t, decon.Config{Threshold: 0.5},
		bloomfilter.Named{Name: "acgt", Filter: newFilter(t, 100, 4, "ACGTACGT")})

	stats, err := classifier.Statistics(ctx, open(t, fastq("short", "AC")))
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Total)
	require.Equal(t, int64(0), stats.Evaluated)
	require.Equal(t, 0.0, stats.AverageFraction(0))
	require.Equal(t, 0.0, stats.PercentPassing(0))
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	err := decon.WriteReport(&buf, []string{"phix", "human"}, []decon.FileStats{
		{Path: "a.fq", Stats: decon.Stats{Total: 3, Evaluated: 2, Filters: []decon.FilterStats{
			{Name: "phix", FractionSum: 1, Passing: 1},
			{Name: "human", FractionSum: 0.25, Passing: 2},
		}}},
		{Path: "b,c.fq", Stats: decon.Stats{Total: 1, Filters: make([]decon.FilterStats, 2)}},
	})
	require.NoError(t, err)
	require.Equal(t, ""+
		"file,total_reads,phix_avg_fraction,phix_percent_passing,human_avg_fraction,human_percent_passing\n"+
		"a.fq,3,0.333333,33.33,0.083333,66.67\n"+
		"\"b,c.fq\",1,0.000000,0.00,0.000000,0.00\n",
		buf.String())

	err = decon.WriteReport(&buf, []string{"phix"}, []decon.FileStats{
		{Path: "a.fq", Stats: decon.Stats{Filters: make([]decon.FilterStats, 2)}},
	})
	require.True(t, decon.Error.Has(err))
}

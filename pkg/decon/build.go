// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package decon

import (
	"context"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/kmerdecon/pkg/bloomfilter"
	"storj.io/kmerdecon/pkg/cardinality"
	"storj.io/kmerdecon/pkg/kmer"
	"storj.io/kmerdecon/pkg/seqio"
)

// DefaultFalsePositiveRate is used when no rate is configured.
const DefaultFalsePositiveRate = 0.001

// BuildConfig configures Build.
type BuildConfig struct {
	KmerLength int
	// ExpectedElements is the number of distinct k-mers. Zero estimates it
	// from the corpus.
	ExpectedElements int64
	// FalsePositiveRate is the target rate, ignored when MaxMemory is set.
	FalsePositiveRate float64
	// MaxMemory caps the filter size in bytes. The false positive rate then
	// follows from the cap.
	MaxMemory uint64
}

// BuildStats describes a finished build.
type BuildStats struct {
	Sequences         int64
	Kmers             int64
	ExpectedElements  int64
	Estimated         bool
	FalsePositiveRate float64
}

// Build creates a filter holding every k-mer of the corpus.
func Build(ctx context.Context, log *zap.Logger, config BuildConfig, corpus seqio.Source) (_ *bloomfilter.Filter, stats BuildStats, err error) {
	defer mon.Task()(&ctx)(&err)

	k := config.KmerLength
	if err := kmer.CheckLength(k); err != nil {
		return nil, stats, bloomfilter.ErrConfig.Wrap(err)
	}
	if config.ExpectedElements < 0 {
		return nil, stats, bloomfilter.ErrConfig.New("expected elements must not be negative, got %d", config.ExpectedElements)
	}

	stats.ExpectedElements = config.ExpectedElements
	if stats.ExpectedElements == 0 {
		estimator := cardinality.NewHyperLogLog()
		sequences, _, err := scanKmers(ctx, corpus, k, estimator.Add)
		if err != nil {
			return nil, stats, err
		}
		if sequences == 0 {
			return nil, stats, bloomfilter.ErrInput.New("no input sequences")
		}
		stats.ExpectedElements = int64(estimator.Estimate())
		stats.Estimated = true
		if stats.ExpectedElements == 0 {
			return nil, stats, bloomfilter.ErrInput.New("no input sequence is at least %d bases long", k)
		}
		log.Info("Estimated distinct k-mers.",
			zap.Int64("Sequences", sequences),
			zap.String("Expected Elements", humanize.Comma(stats.ExpectedElements)))
	}

	filter, err := newSizedFilter(config, stats.ExpectedElements)
	if err != nil {
		return nil, stats, err
	}
	stats.FalsePositiveRate = filter.Params().FalsePositiveRate

	stats.Sequences, stats.Kmers, err = scanKmers(ctx, corpus, k, filter.Add)
	if err != nil {
		return nil, stats, err
	}
	if stats.Sequences == 0 {
		return nil, stats, bloomfilter.ErrInput.New("no input sequences")
	}
	if stats.Kmers == 0 {
		return nil, stats, bloomfilter.ErrInput.New("no input sequence is at least %d bases long", k)
	}

	mon.IntVal("build_kmers").Observe(stats.Kmers)
	log.Info("Built filter.",
		zap.Int64("Sequences", stats.Sequences),
		zap.Int64("K-mers", stats.Kmers),
		zap.String("Size", humanize.IBytes((filter.Size()+7)/8)),
		zap.Int("Hash Count", filter.HashCount()),
		zap.Float64("Fill Ratio", filter.FillRatio()))

	if estimated := filter.EstimatedFalsePositiveRate(); estimated > 2*stats.FalsePositiveRate {
		log.Warn("Filter holds more k-mers than it was sized for.",
			zap.Float64("Configured Rate", stats.FalsePositiveRate),
			zap.Float64("Estimated Rate", estimated))
	}
	return filter, stats, nil
}

// newSizedFilter sizes a filter either from the target rate or, when a
// memory cap is set, from the cap.
func newSizedFilter(config BuildConfig, n int64) (*bloomfilter.Filter, error) {
	if config.MaxMemory == 0 {
		rate := config.FalsePositiveRate
		if rate == 0 {
			rate = DefaultFalsePositiveRate
		}
		return bloomfilter.NewOptimal(n, rate, config.KmerLength)
	}

	maxBits := config.MaxMemory * 8
	if maxBits/8 != config.MaxMemory {
		return nil, bloomfilter.ErrConfig.New("memory limit %d overflows", config.MaxMemory)
	}
	rate, err := bloomfilter.FalsePositiveRateForMemory(n, maxBits)
	if err != nil {
		return nil, err
	}
	hashCount, err := bloomfilter.OptimalHashCount(maxBits, n)
	if err != nil {
		return nil, err
	}
	return bloomfilter.New(bloomfilter.Params{
		Size:              maxBits,
		HashCount:         hashCount,
		ExpectedElements:  n,
		FalsePositiveRate: rate,
		KmerLength:        config.KmerLength,
	}, bloomfilter.SchemeBLAKE3)
}

// scanKmers calls fn with every uppercased k-mer of every sequence of the
// corpus.
func scanKmers(ctx context.Context, corpus seqio.Source, k int, fn func([]byte)) (sequences, kmers int64, err error) {
	r, err := corpus.Open()
	if err != nil {
		return 0, 0, bloomfilter.ErrInput.Wrap(err)
	}
	defer func() { err = errs.Combine(err, r.Close()) }()

	for {
		if err := ctx.Err(); err != nil {
			return sequences, kmers, err
		}
		record, err := r.Read()
		if err == io.EOF {
			return sequences, kmers, nil
		}
		if err != nil {
			return sequences, kmers, bloomfilter.ErrInput.Wrap(err)
		}

		sequences++
		for m := range kmer.Generate(kmer.Normalize(record.Seq), k) {
			fn(m)
			kmers++
		}
	}
}

// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package decon

import (
	"context"

	"go.uber.org/zap"

	"storj.io/kmerdecon/pkg/seqio"
)

// FilterStats aggregates the results of one filter over an input.
type FilterStats struct {
	Name        string
	FractionSum float64
	// Passing counts reads below the threshold.
	Passing int64
}

// Stats aggregates a statistics mode run.
type Stats struct {
	Total int64
	// Evaluated counts reads with at least one k-mer.
	Evaluated int64
	Filters   []FilterStats
}

// AverageFraction returns the mean matched fraction of filter i over all
// reads. Reads without k-mers contribute a zero fraction.
func (stats Stats) AverageFraction(i int) float64 {
	if stats.Total == 0 {
		return 0
	}
	return stats.Filters[i].FractionSum / float64(stats.Total)
}

// PercentPassing returns the percentage of all reads that were evaluated and
// stayed below the threshold of filter i.
func (stats Stats) PercentPassing(i int) float64 {
	if stats.Total == 0 {
		return 0
	}
	return 100 * float64(stats.Filters[i].Passing) / float64(stats.Total)
}

// Statistics evaluates every read of r against every filter.
func (c *Classifier) Statistics(ctx context.Context, r seqio.Reader) (stats Stats, err error) {
	defer mon.Task()(&ctx)(&err)

	stats.Filters = make([]FilterStats, len(c.filters))
	for i, filter := range c.filters {
		stats.Filters[i].Name = filter.Name
	}

	err = c.run(ctx, r, false, func(_ seqio.Record, v verdict) error {
		stats.Total++
		if !v.evaluated {
			return nil
		}
		stats.Evaluated++
		for i, result := range v.results {
			fraction := result.Fraction()
			stats.Filters[i].FractionSum += fraction
			if fraction < c.threshold {
				stats.Filters[i].Passing++
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	c.log.Debug("Computed statistics.",
		zap.Int64("Total", stats.Total),
		zap.Int64("Evaluated", stats.Evaluated))
	return stats, nil
}

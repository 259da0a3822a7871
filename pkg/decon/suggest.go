// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package decon

import (
	"context"
	"io"
	"slices"

	"github.com/zeebo/errs"

	"storj.io/kmerdecon/pkg/bloomfilter"
	"storj.io/kmerdecon/pkg/seqio"
)

// Bounds of a suggested k-mer length.
const (
	MinSuggestedKmerLength = 21
	MaxSuggestedKmerLength = 127
)

// SuggestKmerLength derives a k-mer length from the corpus: half the median
// sequence length, clamped to [MinSuggestedKmerLength,
// MaxSuggestedKmerLength] and rounded up to an odd number.
func SuggestKmerLength(ctx context.Context, corpus seqio.Source) (k int, err error) {
	defer mon.Task()(&ctx)(&err)

	r, err := corpus.Open()
	if err != nil {
		return 0, bloomfilter.ErrInput.Wrap(err)
	}
	defer func() { err = errs.Combine(err, r.Close()) }()

	var lengths []int
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, bloomfilter.ErrInput.Wrap(err)
		}
		lengths = append(lengths, len(record.Seq))
	}
	if len(lengths) == 0 {
		return 0, bloomfilter.ErrInput.New("no input sequences")
	}

	k = median(lengths) / 2
	k = max(MinSuggestedKmerLength, min(MaxSuggestedKmerLength, k))
	if k%2 == 0 {
		k++
	}
	return k, nil
}

// median returns the median of values, averaging the two middle values of an
// even count.
func median(values []int) int {
	slices.Sort(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

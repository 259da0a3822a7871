// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package decon

import (
	"context"
	"io"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storj.io/kmerdecon/pkg/bloomfilter"
	"storj.io/kmerdecon/pkg/kmer"
	"storj.io/kmerdecon/pkg/seqio"
)

const (
	// DefaultThreshold is the default contamination threshold.
	DefaultThreshold = 0.5
	// DefaultBatchSize is the default number of reads evaluated together.
	DefaultBatchSize = 1024
)

// Config configures a Classifier.
type Config struct {
	// KmerLength is the length of the read k-mers. Zero takes it from the
	// filters.
	KmerLength int
	// Threshold is the fraction of matching k-mers at which a read counts
	// as contaminated.
	Threshold float64
	// Workers evaluating a batch concurrently, GOMAXPROCS when zero.
	Workers int
	// BatchSize is the number of reads evaluated together.
	BatchSize int
}

// Result is the outcome of testing one read against one filter.
type Result struct {
	Matched int
	Total   int
}

// Fraction returns the share of matched k-mers.
func (result Result) Fraction() float64 {
	if result.Total == 0 {
		return 0
	}
	return float64(result.Matched) / float64(result.Total)
}

// Summary counts the reads of a filter mode run.
type Summary struct {
	Total   int64
	Kept    int64
	Dropped int64
	// Skipped reads are shorter than the k-mer length. They are counted in
	// Total but not written.
	Skipped int64
}

// Add adds the counts of other to summary.
func (summary *Summary) Add(other Summary) {
	summary.Total += other.Total
	summary.Kept += other.Kept
	summary.Dropped += other.Dropped
	summary.Skipped += other.Skipped
}

// Classifier tests reads against a set of filters. It is safe for concurrent
// use since filters are only read.
type Classifier struct {
	log       *zap.Logger
	k         int
	threshold float64
	filters   []bloomfilter.Named
	workers   int
	batchSize int
}

// NewClassifier returns a classifier over the filters of set.
func NewClassifier(log *zap.Logger, config Config, set *bloomfilter.Set) (*Classifier, error) {
	if set == nil || set.Len() == 0 {
		return nil, bloomfilter.ErrInput.New("no filters")
	}
	if math.IsNaN(config.Threshold) || config.Threshold < 0 || config.Threshold > 1 {
		return nil, bloomfilter.ErrConfig.New("threshold must be within [0, 1], got %v", config.Threshold)
	}
	if config.Workers < 0 {
		return nil, bloomfilter.ErrConfig.New("workers must not be negative, got %d", config.Workers)
	}
	if config.BatchSize < 0 {
		return nil, bloomfilter.ErrConfig.New("batch size must not be negative, got %d", config.BatchSize)
	}

	k := config.KmerLength
	if k == 0 {
		setK, consistent := set.KmerLength()
		if setK == 0 {
			return nil, bloomfilter.ErrConfig.New("filters do not record a k-mer length; set it explicitly")
		}
		k = setK
		if consistent {
			log.Info("Using the k-mer length of the filters.", zap.Int("K", k))
		}
	}
	if err := kmer.CheckLength(k); err != nil {
		return nil, bloomfilter.ErrConfig.Wrap(err)
	}

	for _, mismatch := range set.Mismatches(k) {
		if mismatch.Filter.KmerLength() == 0 {
			log.Warn("Filter does not record its k-mer length; assuming the configured one.",
				zap.String("Filter", mismatch.Name),
				zap.Int("K", k))
			continue
		}
		log.Warn("Filter k-mer length differs from the read k-mer length; results will be meaningless.",
			zap.String("Filter", mismatch.Name),
			zap.Int("Filter K", mismatch.Filter.KmerLength()),
			zap.Int("K", k))
	}

	workers := config.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	batchSize := config.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}

	return &Classifier{
		log:       log,
		k:         k,
		threshold: config.Threshold,
		filters:   set.All(),
		workers:   workers,
		batchSize: batchSize,
	}, nil
}

// KmerLength returns the read k-mer length.
func (c *Classifier) KmerLength() int { return c.k }

// Threshold returns the contamination threshold.
func (c *Classifier) Threshold() float64 { return c.threshold }

// Names returns the filter names in evaluation order.
func (c *Classifier) Names() []string {
	names := make([]string, len(c.filters))
	for i, filter := range c.filters {
		names[i] = filter.Name
	}
	return names
}

// Evaluate tests seq against every filter. It returns false when seq is
// shorter than the k-mer length. seq is not modified.
func (c *Classifier) Evaluate(seq []byte) ([]Result, bool) {
	var s scratch
	results := make([]Result, len(c.filters))
	return results, s.evaluate(c, seq, results, false)
}

// Contaminated reports whether any filter matches at least the threshold
// share of the k-mers of seq.
func (c *Classifier) Contaminated(seq []byte) bool {
	var s scratch
	results := make([]Result, len(c.filters))
	if !s.evaluate(c, seq, results, true) {
		return false
	}
	return c.matches(results)
}

func (c *Classifier) matches(results []Result) bool {
	for _, result := range results {
		if result.Total > 0 && result.Fraction() >= c.threshold {
			return true
		}
	}
	return false
}

// scratch holds buffers reused by one worker.
type scratch struct {
	seq   []byte
	kmers [][]byte
}

// evaluate fills results for seq. With stopEarly it stops at the first filter
// reaching the threshold, leaving later results zero.
func (s *scratch) evaluate(c *Classifier, seq []byte, results []Result, stopEarly bool) bool {
	s.seq = kmer.Normalize(append(s.seq[:0], seq...))
	s.kmers = kmer.Collect(s.kmers[:0], s.seq, c.k)
	if len(s.kmers) == 0 {
		return false
	}

	for i, named := range c.filters {
		matched := 0
		for _, m := range s.kmers {
			if named.Filter.Contains(m) {
				matched++
			}
		}
		results[i] = Result{Matched: matched, Total: len(s.kmers)}
		if stopEarly && results[i].Fraction() >= c.threshold {
			break
		}
	}
	return true
}

// verdict is the evaluation of a single read.
type verdict struct {
	results   []Result
	evaluated bool
}

// run reads r in batches, evaluates each batch concurrently and passes the
// records with their verdicts to handle in input order.
func (c *Classifier) run(ctx context.Context, r seqio.Reader, stopEarly bool, handle func(seqio.Record, verdict) error) error {
	batch := make([]seqio.Record, 0, c.batchSize)
	verdicts := make([]verdict, c.batchSize)
	results := make([]Result, c.batchSize*len(c.filters))
	scratches := make([]scratch, c.workers)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch = batch[:0]
		eof := false
		for len(batch) < c.batchSize {
			record, err := r.Read()
			if err == io.EOF {
				eof = true
				break
			}
			if err != nil {
				return bloomfilter.ErrInput.Wrap(err)
			}
			batch = append(batch, record)
		}

		clear(results)
		for i := range batch {
			verdicts[i] = verdict{results: results[i*len(c.filters) : (i+1)*len(c.filters)]}
		}
		if err := c.evaluateBatch(ctx, batch, verdicts[:len(batch)], scratches, stopEarly); err != nil {
			return err
		}

		for i, record := range batch {
			if err := handle(record, verdicts[i]); err != nil {
				return err
			}
		}
		if eof {
			return nil
		}
	}
}

// evaluateBatch splits batch into one contiguous chunk per worker.
func (c *Classifier) evaluateBatch(ctx context.Context, batch []seqio.Record, verdicts []verdict, scratches []scratch, stopEarly bool) error {
	if len(batch) == 0 {
		return nil
	}

	workers := min(len(scratches), len(batch))
	chunk := (len(batch) + workers - 1) / workers

	group, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start, end := w*chunk, min((w+1)*chunk, len(batch))
		if start >= end {
			break
		}
		s := &scratches[w]
		group.Go(func() error {
			for i := start; i < end; i++ {
				if i%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				verdicts[i].evaluated = s.evaluate(c, batch[i].Seq, verdicts[i].results, stopEarly)
			}
			return nil
		})
	}
	return group.Wait()
}

// Decontaminate copies the reads of r that no filter matches to w.
func (c *Classifier) Decontaminate(ctx context.Context, r seqio.Reader, w seqio.Writer) (summary Summary, err error) {
	defer mon.Task()(&ctx)(&err)

	err = c.run(ctx, r, true, func(record seqio.Record, v verdict) error {
		summary.Total++
		switch {
		case !v.evaluated:
			summary.Skipped++
			return nil
		case c.matches(v.results):
			summary.Dropped++
			return nil
		default:
			summary.Kept++
			return w.Write(record)
		}
	})

	mon.Counter("reads_kept").Inc(summary.Kept)
	mon.Counter("reads_dropped").Inc(summary.Dropped)
	mon.Counter("reads_skipped").Inc(summary.Skipped)
	if err != nil {
		return summary, err
	}

	if summary.Skipped > 0 {
		c.log.Info("Skipped reads shorter than the k-mer length.",
			zap.Int64("Skipped", summary.Skipped),
			zap.Int("K", c.k))
	}
	return summary, nil
}

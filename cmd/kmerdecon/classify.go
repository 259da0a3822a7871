// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"io"
	"os"

	progressbar "github.com/cheggaaa/pb/v3"
	"github.com/spf13/pflag"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/kmerdecon/internal/process"
	"storj.io/kmerdecon/pkg/bloomfilter"
	"storj.io/kmerdecon/pkg/decon"
)

// classifyFlags are shared by the commands classifying reads.
type classifyFlags struct {
	input      string
	filters    []string
	kmerLength int
	threshold  float64
	workers    int
	batchSize  int
	progress   bool
}

func (c *classifyFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&c.input, "input-reads", "i", "", "FASTQ or FASTA file, or a directory of them")
	flags.StringSliceVarP(&c.filters, "bloom-filter", "b", nil, "bloom filter, or a directory of them")
	flags.IntVarP(&c.kmerLength, "kmer-length", "k", 0, "length of k-mers, taken from the filters when 0")
	flags.Float64VarP(&c.threshold, "threshold", "t", decon.DefaultThreshold, "share of k-mers found in a filter at which a read is contaminated")
	flags.IntVar(&c.workers, "workers", 0, "reads evaluated in parallel, GOMAXPROCS when 0")
	flags.IntVar(&c.batchSize, "batch-size", decon.DefaultBatchSize, "reads evaluated together")
	flags.BoolVar(&c.progress, "progress", false, "show progress over the files of an input directory")
	process.MarkSetup(flags, "input-reads")
	process.MarkSetup(flags, "bloom-filter")
}

// classifier loads the filters and returns a classifier over them.
func (c *classifyFlags) classifier(log *zap.Logger) (*decon.Classifier, error) {
	if c.input == "" {
		return nil, errs.New("--input-reads is required")
	}
	if len(c.filters) == 0 {
		return nil, errs.New("--bloom-filter is required")
	}

	var paths []string
	for _, path := range c.filters {
		info, err := os.Stat(path)
		if err != nil {
			return nil, bloomfilter.ErrInput.Wrap(err)
		}
		if !info.IsDir() {
			paths = append(paths, path)
			continue
		}
		listed, err := bloomfilter.ListFilters(path)
		if err != nil {
			return nil, err
		}
		paths = append(paths, listed...)
	}

	set, err := bloomfilter.LoadSet(paths...)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded bloom filters.", zap.Strings("Filters", set.Names()))

	return decon.NewClassifier(log.Named("classify"), decon.Config{
		KmerLength: c.kmerLength,
		Threshold:  c.threshold,
		Workers:    c.workers,
		BatchSize:  c.batchSize,
	}, set)
}

// inputs returns the input files and whether the input is a directory.
func (c *classifyFlags) inputs() ([]string, bool, error) {
	info, err := os.Stat(c.input)
	if err != nil {
		return nil, false, bloomfilter.ErrInput.Wrap(err)
	}
	if !info.IsDir() {
		return []string{c.input}, false, nil
	}
	inputs, err := decon.ListInputs(c.input)
	return inputs, true, err
}

// progressBar returns a bar over count files written to w, or nil when
// progress is disabled.
func (c *classifyFlags) progressBar(w io.Writer, count int) *progressbar.ProgressBar {
	if !c.progress {
		return nil
	}
	return progressbar.New(count).SetWriter(w).Start()
}

// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/kmerdecon/internal/process"
	"storj.io/kmerdecon/pkg/bloomfilter"
	"storj.io/kmerdecon/pkg/decon"
	"storj.io/kmerdecon/pkg/seqio"
)

type cmdBuild struct {
	contaminants      []string
	output            string
	kmerLength        int
	expectedElements  int64
	falsePositiveRate float64
	maxMemory         string
}

func newBuildCmd() *cobra.Command {
	c := &cmdBuild{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Builds a bloom filter from contaminant sequences",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&c.contaminants, "contamination-fasta", "c", nil, "FASTA files with contaminant sequences")
	flags.StringVarP(&c.output, "output-filter", "o", "", "output filter; its parameters are written next to it with a .params suffix")
	flags.IntVarP(&c.kmerLength, "kmer-length", "k", 0, "length of k-mers, suggested from the sequence lengths when 0")
	flags.Int64VarP(&c.expectedElements, "expected-elements", "e", 0, "expected number of distinct k-mers, estimated when 0")
	flags.Float64VarP(&c.falsePositiveRate, "false-positive-rate", "f", decon.DefaultFalsePositiveRate, "desired false positive rate")
	flags.StringVarP(&c.maxMemory, "max-memory", "m", "", "maximum filter size such as 512MiB, overrides the false positive rate")
	process.MarkSetup(flags, "contamination-fasta")
	process.MarkSetup(flags, "output-filter")

	return cmd
}

func (c *cmdBuild) run(cmd *cobra.Command, args []string) (err error) {
	if len(c.contaminants) == 0 {
		return errs.New("--contamination-fasta is required")
	}
	if c.output == "" {
		return errs.New("--output-filter is required")
	}

	var maxMemory uint64
	if c.maxMemory != "" {
		maxMemory, err = humanize.ParseBytes(c.maxMemory)
		if err != nil {
			return bloomfilter.ErrConfig.Wrap(err)
		}
	}

	ctx, cancel := process.Ctx(cmd)
	defer cancel()

	log, err := process.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	corpus := seqio.Files(c.contaminants...)

	k := c.kmerLength
	if k == 0 {
		k, err = decon.SuggestKmerLength(ctx, corpus)
		if err != nil {
			return err
		}
		log.Info("Suggested k-mer length.", zap.Int("K", k))
	}

	filter, _, err := decon.Build(ctx, log.Named("build"), decon.BuildConfig{
		KmerLength:        k,
		ExpectedElements:  c.expectedElements,
		FalsePositiveRate: c.falsePositiveRate,
		MaxMemory:         maxMemory,
	}, corpus)
	if err != nil {
		return err
	}

	if err := filter.Save(c.output); err != nil {
		return err
	}
	log.Info("Saved filter.",
		zap.String("Path", c.output),
		zap.String("Params", bloomfilter.ParamsPath(c.output)))
	return nil
}

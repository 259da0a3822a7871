// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/kmerdecon/internal/process"
	"storj.io/kmerdecon/pkg/bloomfilter"
	"storj.io/kmerdecon/pkg/decon"
	"storj.io/kmerdecon/pkg/seqio"
)

type cmdDecontaminate struct {
	classifyFlags
	output string
}

func newDecontaminateCmd() *cobra.Command {
	c := &cmdDecontaminate{}
	cmd := &cobra.Command{
		Use:   "decontaminate",
		Short: "Writes the reads that no bloom filter matches",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	flags := cmd.Flags()
	c.register(flags)
	flags.StringVarP(&c.output, "output", "o", "", "output file (- for stdout), or output directory for an input directory")
	process.MarkSetup(flags, "output")

	return cmd
}

func (c *cmdDecontaminate) run(cmd *cobra.Command, args []string) (err error) {
	if c.output == "" {
		return errs.New("--output is required")
	}

	ctx, cancel := process.Ctx(cmd)
	defer cancel()

	log, err := process.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	classifier, err := c.classifier(log)
	if err != nil {
		return err
	}

	inputs, isDir, err := c.inputs()
	if err != nil {
		return err
	}

	if !isDir {
		summary, err := c.decontaminateFile(ctx, cmd, classifier, inputs[0])
		if err != nil {
			return err
		}
		logSummary(log, summary)
		return nil
	}

	if c.output == "-" {
		return errs.New("an input directory needs an output directory")
	}

	bar := c.progressBar(cmd.ErrOrStderr(), len(inputs))
	summaries, err := classifier.DecontaminateFiles(ctx, inputs, c.output, func(decon.FileSummary) {
		if bar != nil {
			bar.Increment()
		}
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	var total decon.Summary
	for _, summary := range summaries {
		total.Add(summary.Summary)
	}
	logSummary(log, total)
	return nil
}

func (c *cmdDecontaminate) decontaminateFile(ctx context.Context, cmd *cobra.Command, classifier *decon.Classifier, input string) (_ decon.Summary, err error) {
	if c.output != "-" {
		return classifier.DecontaminateFile(ctx, input, c.output)
	}

	r, err := seqio.Open(input)
	if err != nil {
		return decon.Summary{}, bloomfilter.ErrInput.Wrap(err)
	}
	defer func() { err = errs.Combine(err, r.Close()) }()

	w, err := seqio.NewWriter(cmd.OutOrStdout(), r.Format(), seqio.None)
	if err != nil {
		return decon.Summary{}, err
	}
	summary, err := classifier.Decontaminate(ctx, r, w)
	return summary, errs.Combine(err, w.Close())
}

func logSummary(log *zap.Logger, summary decon.Summary) {
	log.Info("Decontamination finished.",
		zap.Int64("Total", summary.Total),
		zap.Int64("Kept", summary.Kept),
		zap.Int64("Dropped", summary.Dropped),
		zap.Int64("Skipped", summary.Skipped))
}

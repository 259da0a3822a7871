// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/kmerdecon/internal/fpath"
	"storj.io/kmerdecon/internal/process"
	"storj.io/kmerdecon/pkg/decon"
)

// reportName is the report file written into an output directory.
const reportName = "states.csv"

type cmdStats struct {
	classifyFlags
	output string
}

func newStatsCmd() *cobra.Command {
	c := &cmdStats{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Reports per input how many reads each bloom filter matches",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	flags := cmd.Flags()
	c.register(flags)
	flags.StringVarP(&c.output, "output", "o", "-", "CSV report (- for stdout), or a directory to write "+reportName+" into")
	process.MarkSetup(flags, "output")

	return cmd
}

func (c *cmdStats) run(cmd *cobra.Command, args []string) (err error) {
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

	inputs, _, err := c.inputs()
	if err != nil {
		return err
	}

	bar := c.progressBar(cmd.ErrOrStderr(), len(inputs))
	rows, err := classifier.StatisticsFiles(ctx, inputs, func(decon.FileStats) {
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

	write := func(w io.Writer) error {
		return decon.WriteReport(w, classifier.Names(), rows)
	}
	if c.output == "-" {
		return write(cmd.OutOrStdout())
	}

	output := c.output
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		output = filepath.Join(output, reportName)
	}
	if err := fpath.AtomicWriteFile(output, 0644, write); err != nil {
		return errs.Wrap(err)
	}
	log.Info("Wrote report.", zap.String("Path", output), zap.Int("Inputs", len(rows)))
	return nil
}

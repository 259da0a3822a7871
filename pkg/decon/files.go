// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package decon

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/kmerdecon/internal/fpath"
	"storj.io/kmerdecon/pkg/bloomfilter"
	"storj.io/kmerdecon/pkg/seqio"
)

// FileSummary is the Summary of a single input file.
type FileSummary struct {
	Input  string
	Output string
	Summary
}

// ListInputs returns the FASTA and FASTQ files directly inside dir, sorted by
// name. Compressed files are included.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, bloomfilter.ErrInput.Wrap(err)
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() || seqio.FormatOf(entry.Name()) == 0 {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, entry.Name()))
	}
	if len(inputs) == 0 {
		return nil, bloomfilter.ErrInput.New("no sequence files in %q", dir)
	}
	return inputs, nil
}

// DecontaminateFile filters input into output. The output has the format of
// the input and the compression implied by its own extension. It is replaced
// atomically, so a failed run leaves a previous output untouched.
func (c *Classifier) DecontaminateFile(ctx context.Context, input, output string) (summary Summary, err error) {
	defer mon.Task()(&ctx)(&err)

	r, err := seqio.Open(input)
	if err != nil {
		return summary, bloomfilter.ErrInput.Wrap(err)
	}
	defer func() { err = errs.Combine(err, r.Close()) }()

	err = fpath.AtomicWriteFile(output, 0644, func(out io.Writer) error {
		w, err := seqio.NewWriter(out, r.Format(), seqio.CompressionOf(output))
		if err != nil {
			return err
		}
		summary, err = c.Decontaminate(ctx, r, w)
		return errs.Combine(err, w.Close())
	})
	return summary, err
}

// DecontaminateFiles filters every input into a file of the same name inside
// outDir. It stops at the first failure; outputs of completed inputs are
// kept. done, when not nil, is called after each input.
func (c *Classifier) DecontaminateFiles(ctx context.Context, inputs []string, outDir string, done func(FileSummary)) (_ []FileSummary, err error) {
	defer mon.Task()(&ctx)(&err)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, Error.Wrap(err)
	}

	summaries := make([]FileSummary, 0, len(inputs))
	for _, input := range inputs {
		output := filepath.Join(outDir, filepath.Base(input))
		same, err := samePath(input, output)
		if err != nil {
			return summaries, Error.Wrap(err)
		}
		if same {
			return summaries, bloomfilter.ErrConfig.New("output %q would overwrite its input", output)
		}

		summary, err := c.DecontaminateFile(ctx, input, output)
		if err != nil {
			return summaries, Error.Wrap(fmt.Errorf("%s: %w", input, err))
		}

		c.log.Info("Decontaminated file.",
			zap.String("Input", input),
			zap.String("Output", output),
			zap.Int64("Kept", summary.Kept),
			zap.Int64("Dropped", summary.Dropped),
			zap.Int64("Skipped", summary.Skipped))

		fileSummary := FileSummary{Input: input, Output: output, Summary: summary}
		summaries = append(summaries, fileSummary)
		if done != nil {
			done(fileSummary)
		}
	}
	return summaries, nil
}

// StatisticsFile computes the statistics of a single input file.
func (c *Classifier) StatisticsFile(ctx context.Context, input string) (stats FileStats, err error) {
	defer mon.Task()(&ctx)(&err)

	r, err := seqio.Open(input)
	if err != nil {
		return stats, bloomfilter.ErrInput.Wrap(err)
	}
	defer func() { err = errs.Combine(err, r.Close()) }()

	stats.Path = input
	stats.Stats, err = c.Statistics(ctx, r)
	return stats, err
}

// StatisticsFiles computes one FileStats per input, calling done, when not
// nil, after each of them.
func (c *Classifier) StatisticsFiles(ctx context.Context, inputs []string, done func(FileStats)) (_ []FileStats, err error) {
	defer mon.Task()(&ctx)(&err)

	rows := make([]FileStats, 0, len(inputs))
	for _, input := range inputs {
		row, err := c.StatisticsFile(ctx, input)
		if err != nil {
			return rows, Error.Wrap(fmt.Errorf("%s: %w", input, err))
		}
		rows = append(rows, row)
		if done != nil {
			done(row)
		}
	}
	return rows, nil
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}

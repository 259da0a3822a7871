// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package decon

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
)

// FileStats are the statistics of a single input file.
type FileStats struct {
	Path string
	Stats
}

// WriteReport writes one CSV row per input, named by its base name, with the
// average fraction and the percentage of passing reads of every filter.
func WriteReport(w io.Writer, names []string, rows []FileStats) error {
	out := csv.NewWriter(w)

	header := []string{"file", "total_reads"}
	for _, name := range names {
		header = append(header, name+"_avg_fraction", name+"_percent_passing")
	}
	if err := out.Write(header); err != nil {
		return Error.Wrap(err)
	}

	for _, row := range rows {
		if len(row.Filters) != len(names) {
			return Error.New("%s: %d filters in report, %d in statistics", row.Path, len(names), len(row.Filters))
		}
		record := []string{filepath.Base(row.Path), strconv.FormatInt(row.Total, 10)}
		for i := range names {
			record = append(record,
				strconv.FormatFloat(row.AverageFraction(i), 'f', 6, 64),
				strconv.FormatFloat(row.PercentPassing(i), 'f', 2, 64))
		}
		if err := out.Write(record); err != nil {
			return Error.Wrap(err)
		}
	}

	out.Flush()
	return Error.Wrap(out.Error())
}

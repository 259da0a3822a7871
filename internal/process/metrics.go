// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package process

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/spf13/pflag"
)

var metricsReport bool

func registerMetricsFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&metricsReport, "metrics.report", false, "if true, print the collected metrics when the command finishes")
}

func reportMetrics(w io.Writer) error {
	if !metricsReport {
		return nil
	}
	return Error.Wrap(WriteMetrics(w, monkit.Default))
}

// WriteMetrics writes every series of registry as sorted "key field value"
// lines.
func WriteMetrics(w io.Writer, registry *monkit.Registry) error {
	var lines []string
	registry.Stats(func(key monkit.SeriesKey, field string, val float64) {
		lines = append(lines, key.String()+" "+field+" "+strconv.FormatFloat(val, 'g', -1, 64))
	})
	sort.Strings(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

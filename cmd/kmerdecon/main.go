// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"github.com/spf13/cobra"

	"storj.io/kmerdecon/internal/process"
)

func main() {
	process.Exec(newRootCmd())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kmerdecon",
		Short: "Removes contaminant reads using k-mer bloom filters",
		Args:  cobra.NoArgs,
	}
	root.AddCommand(
		newBuildCmd(),
		newDecontaminateCmd(),
		newStatsCmd(),
		newConfigCmd(),
	)
	return root
}

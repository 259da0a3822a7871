// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storj.io/kmerdecon/internal/process"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manages the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "save [file]",
		Short: "Writes the effective settings to a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outfile := process.DefaultConfigPath()
			if len(args) > 0 {
				outfile = args[0]
			}
			if err := process.SaveConfig(cmd.Root(), outfile); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.ErrOrStderr(), "Saved configuration to %s\n", outfile)
			return err
		},
	})
	return cmd
}

// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package process

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zeebo/errs"
)

// Error is a process error class.
var Error = errs.Class("process")

// EnvPrefix prefixes the environment variables overriding flags.
const EnvPrefix = "KMERDECON"

const configFlag = "config"

// DefaultConfigPath returns ~/.kmerdecon/config.yaml.
func DefaultConfigPath() string {
	path := filepath.Join(".kmerdecon", "config.yaml")
	home, err := homedir.Dir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path)
}

// Exec runs cmd and exits the process with a non-zero code on failure.
func Exec(cmd *cobra.Command) {
	if err := ExecE(cmd); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ExecE adds the process flags to cmd and runs it. Flags not given on the
// command line are taken from KMERDECON_* environment variables and then from
// the config file.
func ExecE(cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()
	if flags.Lookup(configFlag) == nil {
		flags.String(configFlag, DefaultConfigPath(), "config file")
		registerLogFlags(flags)
		registerMetricsFlags(flags)

		preRun, postRun := cmd.PersistentPreRunE, cmd.PersistentPostRunE
		cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
			vip, err := Viper(cmd)
			if err != nil {
				return err
			}
			if err := applyViper(cmd.Flags(), vip); err != nil {
				return err
			}
			if preRun != nil {
				return preRun(cmd, args)
			}
			return nil
		}
		cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
			if postRun != nil {
				if err := postRun(cmd, args); err != nil {
					return err
				}
			}
			return reportMetrics(cmd.ErrOrStderr())
		}
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd.Execute()
}

// Viper returns a viper instance reading KMERDECON_* environment variables
// and the config file named by the config flag of the root of cmd. A missing
// config file is only an error when the flag was given explicitly.
func Viper(cmd *cobra.Command) (*viper.Viper, error) {
	vip := viper.New()
	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()

	flag := cmd.Root().PersistentFlags().Lookup(configFlag)
	if flag == nil || flag.Value.String() == "" {
		return vip, nil
	}

	vip.SetConfigFile(flag.Value.String())
	if err := vip.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !flag.Changed {
			return vip, nil
		}
		return nil, Error.Wrap(err)
	}
	return vip, nil
}

// applyViper sets every flag not changed on the command line to its value in
// vip.
func applyViper(flags *pflag.FlagSet, vip *viper.Viper) error {
	var group errs.Group
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == configFlag || !vip.IsSet(f.Name) {
			return
		}
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			group.Add(slice.Replace(vip.GetStringSlice(f.Name)))
			return
		}
		if err := f.Value.Set(vip.GetString(f.Name)); err != nil {
			group.Add(fmt.Errorf("%s: %w", f.Name, err))
		}
	})
	return Error.Wrap(group.Err())
}

// Ctx returns the context of cmd canceled on SIGINT and SIGTERM.
func Ctx(cmd *cobra.Command) (context.Context, func()) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package process

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/zeebo/errs"
	"gopkg.in/yaml.v3"

	"storj.io/kmerdecon/internal/fpath"
)

const setupAnnotation = "setup"

// MarkSetup excludes a flag from saved configs. Used for per run values like
// input and output paths.
func MarkSetup(flags *pflag.FlagSet, name string) {
	_ = flags.SetAnnotation(name, setupAnnotation, []string{"true"})
}

// SaveConfig writes the effective value of every flag of the command tree
// rooted at root to outfile as YAML. Setup and hidden flags are skipped.
func SaveConfig(root *cobra.Command, outfile string) error {
	vip, err := Viper(root)
	if err != nil {
		return err
	}

	settings := map[string]any{}
	var group errs.Group
	var visit func(cmd *cobra.Command)
	visit = func(cmd *cobra.Command) {
		for _, flags := range []*pflag.FlagSet{cmd.PersistentFlags(), cmd.Flags()} {
			group.Add(applyViper(flags, vip))
			flags.VisitAll(func(f *pflag.Flag) {
				if f.Hidden || f.Name == configFlag || f.Name == "help" || readBoolAnnotation(f, setupAnnotation) {
					return
				}
				setNested(settings, f.Name, flagValue(f))
			})
		}
		for _, sub := range cmd.Commands() {
			visit(sub)
		}
	}
	visit(root)
	if err := group.Err(); err != nil {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return Error.Wrap(err)
	}
	if err := os.MkdirAll(filepath.Dir(outfile), 0700); err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(fpath.AtomicWrite(outfile, 0600, data))
}

// readBoolAnnotation is a helper to see if a boolean annotation is set to true on the flag.
func readBoolAnnotation(flag *pflag.Flag, key string) bool {
	annotation := flag.Annotations[key]
	return len(annotation) > 0 && annotation[0] == "true"
}

// setNested stores value under a dotted key, so that log.level becomes
// log: {level: value}.
func setNested(settings map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := settings[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			settings[part] = next
		}
		settings = next
	}
	settings[parts[len(parts)-1]] = value
}

// flagValue returns the value of f typed for YAML.
func flagValue(f *pflag.Flag) any {
	if slice, ok := f.Value.(pflag.SliceValue); ok {
		return slice.GetSlice()
	}

	s := f.Value.String()
	switch f.Value.Type() {
	case "bool":
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	case "int", "int8", "int16", "int32", "int64":
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	case "uint", "uint8", "uint16", "uint32", "uint64":
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			return v
		}
	case "float32", "float64":
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return s
}

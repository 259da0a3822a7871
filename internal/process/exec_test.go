// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package process_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"storj.io/kmerdecon/internal/process"
	"storj.io/kmerdecon/internal/testcontext"
)

func isolateHome(t *testing.T, ctx *testcontext.Context) {
	t.Setenv("HOME", ctx.Dir("home"))
	t.Setenv("USERPROFILE", ctx.Dir("home"))
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
}

func TestExec_PropagatesSettings(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()
	isolateHome(t, ctx)

	// Set up a command that does nothing.
	cmd := &cobra.Command{RunE: func(cmd *cobra.Command, args []string) error { return nil }}

	w := cmd.Flags().Int("w", 0, "w flag (command line)")
	x := cmd.Flags().Int("x-value", 0, "x flag (environment)")
	y := cmd.Flags().Float64("y", 0, "y flag (config file)")
	z := cmd.Flags().StringSlice("z", nil, "z flag (config file)")

	t.Setenv("KMERDECON_W", "9")
	t.Setenv("KMERDECON_X_VALUE", "1")
	config := ctx.WriteFile([]byte("w: 8\ny: 0.25\nz: [a, b]\n"), "config.yaml")

	cmd.SetArgs([]string{"--config", config, "--w", "5"})
	require.NoError(t, process.ExecE(cmd))

	require.Equal(t, 5, *w)
	require.Equal(t, 1, *x)
	require.Equal(t, 0.25, *y)
	require.Equal(t, []string{"a", "b"}, *z)
}

func TestExec_EnvironmentBeforeConfigFile(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()
	isolateHome(t, ctx)

	cmd := &cobra.Command{RunE: func(cmd *cobra.Command, args []string) error { return nil }}
	threshold := cmd.Flags().Float64("threshold", 0.5, "")

	t.Setenv("KMERDECON_THRESHOLD", "0.75")
	config := ctx.WriteFile([]byte("threshold: 0.25\n"), "config.yaml")

	cmd.SetArgs([]string{"--config", config})
	require.NoError(t, process.ExecE(cmd))
	require.Equal(t, 0.75, *threshold)
}

func TestExec_ConfigFileMissing(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()
	isolateHome(t, ctx)

	cmd := &cobra.Command{RunE: func(cmd *cobra.Command, args []string) error { return nil }}
	require.NoError(t, process.ExecE(cmd))

	cmd = &cobra.Command{RunE: func(cmd *cobra.Command, args []string) error { return nil }}
	cmd.SetArgs([]string{"--config", ctx.File("missing.yaml")})
	err := process.ExecE(cmd)
	require.Error(t, err)
	require.True(t, process.Error.Has(err))
}

func TestExec_InvalidEnvironment(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()
	isolateHome(t, ctx)

	ran := false
	cmd := &cobra.Command{RunE: func(cmd *cobra.Command, args []string) error { ran = true; return nil }}
	cmd.Flags().Int("workers", 0, "")

	t.Setenv("KMERDECON_WORKERS", "many")
	err := process.ExecE(cmd)
	require.True(t, process.Error.Has(err))
	require.False(t, ran)
}

func newTree(save *string) *cobra.Command {
	root := &cobra.Command{Use: "root"}
	build := &cobra.Command{Use: "build", RunE: func(cmd *cobra.Command, args []string) error { return nil }}
	build.Flags().Int("kmer-length", 31, "")
	build.Flags().Float64("false-positive-rate", 0.001, "")
	build.Flags().String("output", "", "")
	process.MarkSetup(build.Flags(), "output")
	build.Flags().Bool("secret", false, "")
	_ = build.Flags().MarkHidden("secret")

	saveCmd := &cobra.Command{Use: "save", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		*save = args[0]
		return process.SaveConfig(cmd.Root(), args[0])
	}}
	root.AddCommand(build, saveCmd)
	return root
}

func TestSaveConfig(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()
	isolateHome(t, ctx)

	t.Setenv("KMERDECON_KMER_LENGTH", "21")

	var saved string
	root := newTree(&saved)
	outfile := ctx.File("nested", "config.yaml")
	root.SetArgs([]string{"save", outfile, "--log.level", "debug"})
	require.NoError(t, process.ExecE(root))
	require.Equal(t, outfile, saved)

	data, err := os.ReadFile(outfile)
	require.NoError(t, err)

	var settings map[string]any
	require.NoError(t, yaml.Unmarshal(data, &settings))
	require.Equal(t, 21, settings["kmer-length"])
	require.Equal(t, 0.001, settings["false-positive-rate"])
	require.Equal(t, "debug", settings["log"].(map[string]any)["level"])
	require.NotContains(t, settings, "output")
	require.NotContains(t, settings, "secret")
	require.NotContains(t, settings, "config")

	info, err := os.Stat(outfile)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// the saved file configures a fresh command
	t.Setenv("KMERDECON_KMER_LENGTH", "")
	root = newTree(&saved)
	build, _, err := root.Find([]string{"build"})
	require.NoError(t, err)
	root.SetArgs([]string{"build", "--config", outfile})
	require.NoError(t, process.ExecE(root))

	k, err := build.Flags().GetInt("kmer-length")
	require.NoError(t, err)
	require.Equal(t, 21, k)
}

func TestNewLogger(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	_, err := process.LogConfig{Level: "loud", Encoding: "console", Output: "stderr"}.NewLogger()
	require.True(t, process.Error.Has(err))

	output := ctx.File("log.json")
	log, err := process.LogConfig{Level: "warn", Encoding: "json", Output: output}.NewLogger()
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	_ = log.Sync()

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.NotContains(t, string(data), "hidden")
	require.Contains(t, string(data), `"M":"shown"`)
}

func TestWriteMetrics(t *testing.T) {
	registry := monkit.NewRegistry()
	registry.ScopeNamed("decon").Counter("reads_kept").Inc(3)

	var buf bytes.Buffer
	require.NoError(t, process.WriteMetrics(&buf, registry))

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(line, "reads_kept") && strings.HasSuffix(line, " 3") {
			found = true
		}
	}
	require.True(t, found, buf.String())
}

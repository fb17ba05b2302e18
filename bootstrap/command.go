// Copyright 2025 The Shinobi Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.starlark.net/starlark"
	"gopkg.in/yaml.v3"

	"github.com/shinobi-build/shinobi"
	"github.com/shinobi-build/shinobi/deptools"
	"github.com/shinobi-build/shinobi/pathtools"
)

var errNoScripts = errors.New("no build scripts specified")

type options struct {
	configFile  string
	printConfig bool

	// fs is the filesystem scripts are read from and outputs are written
	// to.
	fs pathtools.FileSystem
}

// NewCommand creates the shinobi command.
func NewCommand() *cobra.Command {
	return newCommand(&options{fs: pathtools.OsFs})
}

func newCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shinobi [flags] <scripts...>",
		Short: "Generate ninja build files from Starlark scripts",
		Long: `shinobi runs each build script in order and writes the Ninja manifest
they describe.  The scripts declare variables, rules and build statements
with the predeclared functions declare, overrideDeclaration,
declareOrAppend, getVar, rule, build, rel, builddir and glob.`,
		Example: `  shinobi defs.star rules.star programs.star > build.ninja
  shinobi mybuild.star -o build.ninja -d build.ninja.d`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	cmd.Flags().StringP("out", "o", "", "output path (defaults to stdout)")
	cmd.Flags().StringP("depfile", "d", "", "write a Makefile depfile for the output (requires --out)")
	cmd.Flags().String("fs-path-separator", "",
		"path separator for filesystem operations (defaults to the host's)")
	cmd.Flags().String("api-path-separator", "",
		"path separator in paths returned to scripts by rel and glob (defaults to the host's)")
	cmd.Flags().BoolP("verbose", "v", false, "log progress to stderr")
	cmd.Flags().StringVar(&opts.configFile, "config", "",
		"configuration file (defaults to "+ConfigFileName+".yaml in the working directory)")
	cmd.Flags().BoolVar(&opts.printConfig, "print-config", false,
		"print the effective configuration as YAML and exit")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	searchDir, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := LoadConfig(LoadOptions{
		ConfigFile: opts.configFile,
		SearchDir:  searchDir,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return err
	}

	if opts.printConfig {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(cfg)
	}

	if len(args) == 0 {
		return fmt.Errorf("%w\n\n%s", errNoScripts, cmd.UsageString())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	seps, err := cfg.Separators()
	if err != nil {
		return err
	}

	logger := NewLogger(cmd.ErrOrStderr(), cfg.Verbose)

	delegate, err := NewDelegate(opts.fs, seps, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}

	var ctxOpts []shinobi.Option
	ctxOpts = append(ctxOpts, shinobi.WithLogger(logger))
	if cfg.BuildDir != "" {
		ctxOpts = append(ctxOpts, shinobi.WithBuildDir(cfg.BuildDir))
	}
	ctx := shinobi.NewContext(delegate, ctxOpts...)
	if cmd.Context() != nil {
		ctx.Context = cmd.Context()
	}

	if err := ctx.LoadAll(args); err != nil {
		return err
	}

	manifest, err := ctx.Render()
	if err != nil {
		return err
	}

	if cfg.Out == "" {
		return delegate.WriteStdout(manifest)
	}
	if err := delegate.WriteFile(cfg.Out, manifest); err != nil {
		return err
	}

	if cfg.Depfile != "" {
		deps := append(ctx.NinjaFileDeps(), ctx.GlobDirs()...)
		buf := &strings.Builder{}
		if err := deptools.WriteDepFile(buf, cfg.Out, deps); err != nil {
			return err
		}
		if err := delegate.WriteFile(cfg.Depfile, buf.String()); err != nil {
			// Don't leave the manifest behind without its depfile.
			if rmErr := delegate.RemoveFile(cfg.Out); rmErr != nil {
				logger.Warn("removing output", "file", cfg.Out, "err", rmErr)
			}
			return err
		}
	}

	logger.Debug("done", "out", cfg.Out, "depfile", cfg.Depfile)
	return nil
}

// NewLogger returns the logger used by a shinobi run: warnings and errors
// only, unless verbose is set.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "shinobi",
		Level:  log.WarnLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Main runs the shinobi command with the process's arguments and exits.
func Main() {
	os.Exit(Execute(NewCommand(), os.Args[1:], os.Stdout, os.Stderr))
}

// Execute runs cmd with args and returns the process exit code.  Errors are
// printed to stderr.
func Execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, errorMessage(err))
		return 1
	}
	return 0
}

func errorMessage(err error) string {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Backtrace()
	}
	return "error: " + err.Error()
}

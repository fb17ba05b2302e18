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
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/shinobi-build/shinobi"
	"github.com/shinobi-build/shinobi/pathtools"
	"github.com/shinobi-build/shinobi/runner"
)

const outFilePermissions = 0666

// Delegate is a shinobi.RuntimeDelegate backed by a FileSystem and the
// environment of the process.  Build scripts are run as Starlark.
type Delegate struct {
	fs     pathtools.FileSystem
	seps   pathtools.Separators
	cwd    string
	stdout io.Writer
	runner *runner.Runner
}

var _ shinobi.RuntimeDelegate = (*Delegate)(nil)

// NewDelegate returns a Delegate reading and writing fs, writing manifests
// that are not sent to a file to stdout.
func NewDelegate(fs pathtools.FileSystem, seps pathtools.Separators, stdout io.Writer,
	logger *log.Logger) (*Delegate, error) {

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	return &Delegate{
		fs:     fs,
		seps:   seps,
		cwd:    cwd,
		stdout: stdout,
		runner: runner.New(fs, logger),
	}, nil
}

func (d *Delegate) PathSeparators() pathtools.Separators {
	return d.seps
}

func (d *Delegate) Cwd() string {
	return d.cwd
}

func (d *Delegate) RunFile(api *shinobi.API, filename string) error {
	return d.runner.Run(api, filename)
}

func (d *Delegate) WriteStdout(content string) error {
	_, err := io.WriteString(d.stdout, content)
	return err
}

func (d *Delegate) WriteFile(filename, content string) error {
	if err := d.fs.WriteFile(filename, []byte(content), outFilePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

// RemoveFile deletes a file written by WriteFile.
func (d *Delegate) RemoveFile(filename string) error {
	return d.fs.Remove(filename)
}

func (d *Delegate) Glob(patterns []string, opts pathtools.GlobOptions) (pathtools.GlobResult, error) {
	return pathtools.GlobPatterns(d.fs, patterns, opts)
}

func (d *Delegate) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (d *Delegate) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

func (d *Delegate) Unsetenv(key string) error {
	return os.Unsetenv(key)
}

func (d *Delegate) Environ() []string {
	return os.Environ()
}

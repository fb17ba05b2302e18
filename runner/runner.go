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

// Package runner executes Starlark build scripts against a shinobi.API.
//
// The Script API is predeclared in every script as the globals declare,
// overrideDeclaration, declareOrAppend, getVar, rule, build, rel, builddir,
// glob and env.  A script may load helper modules with load(); the module
// path is relative to the directory of the loading file, and each module is
// executed at most once per API.
package runner

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"

	"github.com/shinobi-build/shinobi"
	"github.com/shinobi-build/shinobi/pathtools"
)

func init() {
	// Build scripts commonly loop over globs at the top level.
	resolve.AllowGlobalReassign = true
	resolve.AllowSet = true
}

type module struct {
	globals starlark.StringDict
	err     error
}

// A Runner executes build scripts read from a FileSystem.  It is not safe for
// concurrent use.
type Runner struct {
	fs     pathtools.FileSystem
	logger *log.Logger

	// Loaded modules, keyed by path.  A nil entry is a module that is
	// still being loaded.
	api         *shinobi.API
	predeclared starlark.StringDict
	modules     map[string]*module

	// loading is the stack of files being executed; the last one is the
	// file whose load statements are being resolved.
	loading []string
}

// New returns a Runner reading scripts from fs.  A nil logger discards
// everything, including output of the print builtin.
func New(fs pathtools.FileSystem, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		fs:     fs,
		logger: logger,
	}
}

// Run executes the build script filename with api predeclared.
func (r *Runner) Run(api *shinobi.API, filename string) error {
	if r.api != api {
		r.api = api
		r.predeclared = predeclared(api)
		r.modules = make(map[string]*module)
	}

	_, err := r.exec(filename)
	return err
}

func (r *Runner) exec(filename string) (starlark.StringDict, error) {
	src, err := r.fs.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading build script: %w", err)
	}

	r.loading = append(r.loading, filename)
	defer func() {
		r.loading = r.loading[:len(r.loading)-1]
	}()

	thread := &starlark.Thread{
		Name: filename,
		Load: r.load,
		Print: func(thread *starlark.Thread, msg string) {
			r.logger.Print(msg, "file", thread.Name)
		},
	}

	start := time.Now()
	globals, err := starlark.ExecFile(thread, filename, src, r.predeclared)
	if err != nil {
		if evalErr, ok := err.(*starlark.EvalError); ok {
			r.logger.Debug("script failed", "file", filename, "backtrace", evalErr.Backtrace())
		}
		return nil, err
	}
	r.logger.Debug("executed", "file", filename, "elapsed", time.Since(start))

	return globals, nil
}

func (r *Runner) load(thread *starlark.Thread, name string) (starlark.StringDict, error) {
	filename := name
	if !filepath.IsAbs(filename) {
		loader := r.loading[len(r.loading)-1]
		filename = filepath.Join(filepath.Dir(loader), name)
	}

	m, ok := r.modules[filename]
	if ok {
		if m == nil {
			return nil, fmt.Errorf("cycle in load graph involving %s", filename)
		}
		return m.globals, m.err
	}

	r.modules[filename] = nil
	r.api.AddNinjaFileDeps(filename)
	globals, err := r.exec(filename)
	r.modules[filename] = &module{globals: globals, err: err}

	return globals, err
}

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

package shinobi

import (
	"context"
	"io"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultBuildDir is the value of the builtin builddir variable when
	// neither the BUILDDIR environment variable nor WithBuildDir sets one.
	DefaultBuildDir = "./build"

	builtinSource = "builtin (override with env var BUILDDIR)"
)

// A Context contains all the state needed to load a set of build scripts and
// write the Ninja manifest they describe.  Its use is divided into two
// phases:
//
//  1. The load phase runs each build script, in order, with the Script API
//     available to it.  Each script's calls are applied to the Context's
//     State before the next script runs.
//  2. The write phase validates the rule references of the accumulated build
//     statements and writes the manifest.
//
// A Context is not safe for concurrent use.
type Context struct {
	context.Context

	delegate RuntimeDelegate
	state    *State
	api      *API
	logger   *log.Logger

	// set at instantiation, possibly by an Option
	buildDir string

	globs map[string]GlobPath

	ninjaFileDeps []string
	ninjaFileSeen map[string]bool
}

// An Option configures a Context.
type Option func(*Context)

// WithLogger makes the Context log its progress to logger.  By default
// nothing is logged.
func WithLogger(logger *log.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithBuildDir sets the value of the builtin builddir variable, taking
// precedence over the BUILDDIR environment variable.
func WithBuildDir(dir string) Option {
	return func(c *Context) {
		c.buildDir = dir
	}
}

// NewContext creates a new Context using delegate.  The builtin builddir
// variable is declared before any script is loaded.
func NewContext(delegate RuntimeDelegate, opts ...Option) *Context {
	c := &Context{
		Context:       context.Background(),
		delegate:      delegate,
		state:         NewState(),
		logger:        log.New(io.Discard),
		globs:         make(map[string]GlobPath),
		ninjaFileSeen: make(map[string]bool),
	}

	if dir, ok := delegate.LookupEnv("BUILDDIR"); ok && dir != "" {
		c.buildDir = dir
	} else {
		c.buildDir = DefaultBuildDir
	}

	for _, opt := range opts {
		opt(c)
	}

	c.api = newAPI(c)

	c.state.SetVariable(&Variable{
		Name:   "builddir",
		Value:  c.buildDir,
		Source: builtinSource,
	})

	return c
}

// API returns the Script API bound to the Context's State.
func (c *Context) API() *API {
	return c.api
}

func (c *Context) State() *State {
	return c.state
}

// Load runs the build script filename.  Everything the script declares is
// attributed to filename.  The current file is cleared again when the script
// finishes, even if it fails.
func (c *Context) Load(filename string) error {
	var err error
	pprof.Do(c.Context, pprof.Labels("shinobi", "Load"), func(ctx context.Context) {
		c.state.SetCurrentFile(filename)
		defer c.state.SetCurrentFile("")

		c.AddNinjaFileDeps(filename)

		start := time.Now()
		err = c.delegate.RunFile(c.api, filename)
		if err != nil {
			return
		}
		c.logger.Debug("loaded script", "file", filename, "elapsed", time.Since(start))
	})
	return err
}

// LoadAll loads each of filenames in order, stopping at the first failure.
func (c *Context) LoadAll(filenames []string) error {
	for _, filename := range filenames {
		if err := c.Load(filename); err != nil {
			return err
		}
	}
	return nil
}

// AddNinjaFileDeps adds files the manifest depends on.  Duplicates are
// ignored.
func (c *Context) AddNinjaFileDeps(deps ...string) {
	for _, dep := range deps {
		if !c.ninjaFileSeen[dep] {
			c.ninjaFileSeen[dep] = true
			c.ninjaFileDeps = append(c.ninjaFileDeps, dep)
		}
	}
}

// NinjaFileDeps returns the files the manifest depends on, in the order they
// were first used: every loaded script and every module a script loaded.
func (c *Context) NinjaFileDeps() []string {
	return append([]string(nil), c.ninjaFileDeps...)
}

// WriteBuildFile writes the Ninja manifest for everything declared so far to
// w.  Every build statement's rule is resolved before anything is written, so
// nothing is written if one of them is unknown.
func (c *Context) WriteBuildFile(w io.Writer) error {
	var err error
	pprof.Do(c.Context, pprof.Labels("shinobi", "WriteBuildFile"), func(ctx context.Context) {
		var builds []buildDef
		builds, err = resolveBuilds(c.state)
		if err != nil {
			return
		}

		buf := &strings.Builder{}
		nw := newNinjaWriter(buf)

		err = c.writeVariables(nw)
		if err != nil {
			return
		}

		err = nw.BlankLine()
		if err != nil {
			return
		}

		err = c.writeRules(nw)
		if err != nil {
			return
		}

		err = nw.BlankLine()
		if err != nil {
			return
		}

		err = c.writeBuilds(nw, builds)
		if err != nil {
			return
		}

		_, err = io.WriteString(w, buf.String())
		if err != nil {
			return
		}

		c.logger.Debug("wrote manifest", "variables", len(c.state.Variables()),
			"rules", len(c.state.Rules()), "builds", len(builds), "bytes", nw.written)
	})
	return err
}

// Render returns the Ninja manifest for everything declared so far.
func (c *Context) Render() (string, error) {
	buf := &strings.Builder{}
	if err := c.WriteBuildFile(buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (c *Context) writeVariables(nw *ninjaWriter) error {
	for _, v := range c.state.Variables() {
		if err := v.WriteTo(nw); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) writeRules(nw *ninjaWriter) error {
	for _, r := range c.state.Rules() {
		if err := r.WriteTo(nw); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) writeBuilds(nw *ninjaWriter, builds []buildDef) error {
	for _, b := range builds {
		if err := b.WriteTo(nw); err != nil {
			return err
		}
	}
	return nil
}

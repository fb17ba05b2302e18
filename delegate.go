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
	"sort"
	"strings"

	"github.com/shinobi-build/shinobi/pathtools"
)

// A RuntimeDelegate provides everything a Context needs from the outside
// world.  The bootstrap package provides one backed by the operating system;
// tests substitute an in-memory one.
type RuntimeDelegate interface {
	// PathSeparators returns the path-separator policy for the run.
	PathSeparators() pathtools.Separators

	// Cwd returns the directory relative script and glob paths are
	// resolved against.
	Cwd() string

	// RunFile executes the build script filename with api available to it.
	RunFile(api *API, filename string) error

	WriteStdout(content string) error
	WriteFile(filename, content string) error

	// Glob matches patterns against the filesystem.  Matches are written
	// with the filesystem separator.
	Glob(patterns []string, opts pathtools.GlobOptions) (pathtools.GlobResult, error)

	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
	Unsetenv(key string) error

	// Environ returns the environment as "key=value" strings.
	Environ() []string
}

// Env is a live view of the environment variables of a RuntimeDelegate.
type Env struct {
	delegate RuntimeDelegate
}

func (e Env) Lookup(key string) (string, bool) {
	return e.delegate.LookupEnv(key)
}

// Get returns the value of key, or "" if it is not set.
func (e Env) Get(key string) string {
	v, _ := e.delegate.LookupEnv(key)
	return v
}

func (e Env) Set(key, value string) error {
	return e.delegate.Setenv(key, value)
}

func (e Env) Unset(key string) error {
	return e.delegate.Unsetenv(key)
}

// Keys returns the names of all set environment variables, sorted.
func (e Env) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, kv := range e.delegate.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

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
	"fmt"
	"sort"
	"strings"

	"github.com/shinobi-build/shinobi/pathtools"
)

// A GlobPath is a glob performed by a build script, with its result.
type GlobPath struct {
	pathtools.GlobResult
	Options pathtools.GlobOptions
	Name    string
}

// recordGlob keys globs by their exact inputs.  The sanitized Name is only
// for display; distinct globs may share one.
func (c *Context) recordGlob(opts pathtools.GlobOptions, result pathtools.GlobResult) {
	key := globKey(result.Patterns, opts)
	if _, exists := c.globs[key]; exists {
		return
	}
	c.globs[key] = GlobPath{GlobResult: result, Options: opts, Name: globToName(result.Patterns, opts)}
}

// Globs returns every distinct glob performed so far, sorted by name.
func (c *Context) Globs() []GlobPath {
	keys := make([]string, 0, len(c.globs))
	for k := range c.globs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := c.globs[keys[i]], c.globs[keys[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return keys[i] < keys[j]
	})

	globs := make([]GlobPath, len(keys))
	for i, key := range keys {
		globs[i] = c.globs[key]
	}

	return globs
}

// GlobDirs returns the directories read by every glob performed so far,
// sorted and de-duplicated.  Adding or removing a file in any of them may
// change the manifest.
func (c *Context) GlobDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, g := range c.globs {
		for _, dir := range g.Dirs {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	sort.Strings(dirs)
	return dirs
}

func globToString(pattern string) string {
	ret := ""
	for _, c := range pattern {
		switch {
		case c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '_', c == '-', c == '/':
			ret += string(c)
		default:
			ret += "_"
		}
	}

	return ret
}

func globToName(patterns []string, opts pathtools.GlobOptions) string {
	var parts []string
	for _, p := range patterns {
		parts = append(parts, globToString(p))
	}
	name := strings.Join(parts, "__")
	for _, e := range opts.Ignore {
		name += "___" + globToString(e)
	}

	// Globs of the same patterns relative to different directories, or
	// returning different kinds of path, are distinct.
	return fmt.Sprintf("%s@%s:%t%t%t", name, opts.Cwd, opts.Absolute, opts.IncludeDirs, opts.OnlyDirs)
}

func globKey(patterns []string, opts pathtools.GlobOptions) string {
	return fmt.Sprintf("%q|%q|%q|%t%t%t", patterns, opts.Ignore, opts.Cwd,
		opts.Absolute, opts.IncludeDirs, opts.OnlyDirs)
}

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

package pathtools

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var (
	GlobMultipleRecursiveErr = errors.New("pattern contains multiple '**'")
	GlobLastRecursiveErr     = errors.New("pattern has '**' as last path element")
	GlobInvalidRecursiveErr  = errors.New("pattern contains other characters between '**' and path separator")
)

// GlobOptions controls GlobPatterns.  The zero value matches files only,
// relative to the current directory.  Wildcards never match names starting
// with '.' unless the pattern element itself starts with '.'.
type GlobOptions struct {
	Cwd         string   // Directory relative patterns are resolved against.
	Ignore      []string // Patterns whose matches are dropped from the result.
	Absolute    bool     // Return absolute paths instead of paths relative to Cwd.
	IncludeDirs bool     // Return directories as well as files.
	OnlyDirs    bool     // Return directories only.
}

// A GlobResult is the outcome of GlobPatterns.
type GlobResult struct {
	Patterns []string // The patterns that were globbed.
	Matches  []string // The matching paths, sorted.
	Dirs     []string // The directories read to produce Matches.
}

// GlobPatterns globs every pattern in patterns and returns the union of the
// matches, sorted and de-duplicated.  A pattern starting with '!' excludes
// its matches from the result instead.
func GlobPatterns(fs FileSystem, patterns []string, opts GlobOptions) (GlobResult, error) {
	result := GlobResult{Patterns: append([]string(nil), patterns...)}

	cwd := opts.Cwd
	if cwd == "" {
		cwd = "."
	}

	var includes, excludes []string
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			excludes = append(excludes, excludePattern(cwd, pattern[1:]))
		} else {
			includes = append(includes, absoluteTo(cwd, pattern))
		}
	}
	for _, pattern := range opts.Ignore {
		excludes = append(excludes, excludePattern(cwd, pattern))
	}

	seen := make(map[string]bool)
	dirSeen := make(map[string]bool)
	for _, pattern := range includes {
		matches, dirs, err := fs.Glob(pattern, excludes)
		if err != nil {
			return GlobResult{}, fmt.Errorf("%q: %w", pattern, err)
		}

		for _, dir := range dirs {
			if !dirSeen[dir] {
				dirSeen[dir] = true
				result.Dirs = append(result.Dirs, dir)
			}
		}

		for _, m := range matches {
			if seen[m] {
				continue
			}
			isDir, err := fs.IsDir(m)
			if err != nil {
				return GlobResult{}, err
			}
			if isDir && !opts.IncludeDirs && !opts.OnlyDirs {
				continue
			}
			if !isDir && opts.OnlyDirs {
				continue
			}
			seen[m] = true

			if opts.Absolute {
				if abs, err := filepath.Abs(m); err == nil {
					m = abs
				}
			} else if rel, err := filepath.Rel(cwd, m); err == nil {
				m = rel
			}
			result.Matches = append(result.Matches, m)
		}
	}

	sort.Strings(result.Matches)
	sort.Strings(result.Dirs)

	return result, nil
}

func absoluteTo(cwd, pattern string) string {
	if filepath.IsAbs(pattern) {
		return filepath.Clean(pattern)
	}
	return filepath.Join(cwd, pattern)
}

// excludePattern is absoluteTo for exclusions, where a trailing '**'
// excludes everything beneath the directory.
func excludePattern(cwd, pattern string) string {
	pattern = absoluteTo(cwd, pattern)
	if filepath.Base(pattern) == "**" {
		pattern = filepath.Join(pattern, "*")
	}
	return pattern
}

// startGlob returns a list of files and directories that match a pattern
// containing any glob patterns, and the list of directories that were read
// while searching.  Patterns may contain a single '**' path element that
// matches zero or more directories.
func startGlob(fs FileSystem, pattern string, excludes []string) (matches, dirs []string, err error) {
	if filepath.Base(pattern) == "**" {
		return nil, nil, GlobLastRecursiveErr
	}

	matches, dirs, err = glob(fs, pattern, false)
	if err != nil {
		return nil, nil, err
	}

	matches, err = filterExcludes(matches, excludes)
	if err != nil {
		return nil, nil, err
	}

	// If the pattern has wildcards, we added dirs to the list of directories
	// to track.  If it has no wildcards, add the file's parent so that a
	// tracker notices it being created.
	if !isWild(pattern) {
		dirs = append(dirs, filepath.Dir(pattern))
	}

	return matches, dirs, nil
}

// glob is a recursive helper function to handle globbing each level of the
// pattern individually, allowing searched directories to be tracked.
func glob(fs FileSystem, pattern string, hasRecursive bool) (matches, dirs []string, err error) {
	if !isWild(pattern) {
		// If there are no wilds in the pattern, check whether the file exists
		// or not.  Uses the filesystem's glob to get consistent results.
		matches, err = fs.glob(filepath.Clean(pattern))
		return matches, dirs, err
	}

	dir, file := saneSplit(pattern)

	if file == "**" {
		if hasRecursive {
			return matches, dirs, GlobMultipleRecursiveErr
		}
		hasRecursive = true
	} else if strings.Contains(file, "**") {
		return matches, dirs, GlobInvalidRecursiveErr
	}

	dirMatches, dirs, err := glob(fs, dir, hasRecursive)
	if err != nil {
		return nil, nil, err
	}

	for _, m := range dirMatches {
		isDir, err := fs.IsDir(m)
		if err != nil {
			return nil, nil, fmt.Errorf("unexpected error after glob: %s", err)
		}
		if !isDir {
			continue
		}

		if file == "**" {
			recurseDirs, err := fs.ListDirsRecursive(m)
			if err != nil {
				return nil, nil, err
			}
			matches = append(matches, recurseDirs...)
		} else {
			dirs = append(dirs, m)
			newMatches, err := fs.glob(filepath.Join(m, file))
			if err != nil {
				return nil, nil, err
			}
			if file[0] != '.' {
				newMatches = filterDotFiles(newMatches)
			}
			matches = append(matches, newMatches...)
		}
	}

	return matches, dirs, nil
}

// Faster version of dir, file := filepath.Dir(path), filepath.File(path) with no allocations
// Similar to filepath.Split, but returns "." if dir is empty and trims trailing slash if dir is
// not "/".  Returns ".", "" if path is "."
func saneSplit(path string) (dir, file string) {
	if path == "." {
		return ".", ""
	}
	dir, file = filepath.Split(path)
	switch dir {
	case "":
		dir = "."
	case "/":
		// Nothing
	default:
		dir = dir[:len(dir)-1]
	}
	return dir, file
}

func isWild(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// Filters the strings in matches based on the glob patterns in excludes.
// Hierarchical (a/*) and recursive (a/**) patterns are supported.
func filterExcludes(matches []string, excludes []string) ([]string, error) {
	if len(excludes) == 0 {
		return matches, nil
	}

	var ret []string
matchLoop:
	for _, m := range matches {
		for _, e := range excludes {
			exclude, err := Match(e, m)
			if err != nil {
				return nil, err
			}
			if exclude {
				continue matchLoop
			}
		}
		ret = append(ret, m)
	}

	return ret, nil
}

// Match returns true if name matches pattern using the same rules as
// filepath.Match, but supporting hierarchical patterns (a/*) and recursive
// globs (**).
func Match(pattern, name string) (bool, error) {
	if filepath.Base(pattern) == "**" {
		return false, GlobLastRecursiveErr
	}
	if pattern == "" || name == "" {
		return pattern == name, nil
	}

	patternDir := pattern[len(pattern)-1] == '/'
	nameDir := name[len(name)-1] == '/'

	if patternDir != nameDir {
		return false, nil
	}

	if nameDir {
		name = name[:len(name)-1]
		pattern = pattern[:len(pattern)-1]
	}

	for {
		var patternFile, nameFile string
		pattern, patternFile = saneSplit(pattern)
		name, nameFile = saneSplit(name)

		if patternFile == "**" {
			return matchPrefix(pattern, filepath.Join(name, nameFile))
		}

		if nameFile == "" && patternFile == "" {
			return true, nil
		} else if nameFile == "" || patternFile == "" {
			return false, nil
		}

		match, err := filepath.Match(patternFile, nameFile)
		if err != nil || !match {
			return match, err
		}
	}
}

// matchPrefix returns true if the beginning of name matches pattern using the
// same rules as filepath.Match, but supporting recursive globs (**).
func matchPrefix(pattern, name string) (bool, error) {
	if len(pattern) > 0 && pattern[0] == '/' {
		if len(name) > 0 && name[0] == '/' {
			pattern = pattern[1:]
			name = name[1:]
		} else {
			return false, nil
		}
	}

	for {
		var patternElem, nameElem string
		patternElem, pattern = saneSplitFirst(pattern)
		nameElem, name = saneSplitFirst(name)

		if patternElem == "." {
			patternElem = ""
		}
		if nameElem == "." {
			nameElem = ""
		}

		if patternElem == "**" {
			return false, GlobMultipleRecursiveErr
		}

		if patternElem == "" {
			return true, nil
		} else if nameElem == "" {
			return false, nil
		}

		match, err := filepath.Match(patternElem, nameElem)
		if err != nil || !match {
			return match, err
		}
	}
}

func saneSplitFirst(path string) (string, string) {
	i := strings.IndexRune(path, filepath.Separator)
	if i < 0 {
		return path, ""
	}
	return path[:i], path[i+1:]
}

func filterDotFiles(matches []string) []string {
	ret := make([]string, 0, len(matches))

	for _, match := range matches {
		_, name := filepath.Split(match)
		if name[0] == '.' {
			continue
		}
		ret = append(ret, match)
	}

	return ret
}

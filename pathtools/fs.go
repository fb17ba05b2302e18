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
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Based on Andrew Gerrand's "10 things you (probably) dont' know about Go"

var OsFs FileSystem = osFs{}

// MockFs returns an in-memory FileSystem holding the given files.  Every
// parent directory of every file exists implicitly.  Files written through
// WriteFile become visible to later reads and globs.
func MockFs(files map[string][]byte) FileSystem {
	fs := &mockFs{
		files: make(map[string][]byte, len(files)),
		dirs:  make(map[string]bool),
	}

	for f, b := range files {
		fs.add(f, b)
	}

	return fs
}

type FileSystem interface {
	// ReadFile returns the contents of a file.
	ReadFile(name string) ([]byte, error)
	// WriteFile replaces the contents of a file, creating it if necessary.
	WriteFile(name string, data []byte, perm os.FileMode) error
	// Remove deletes a file.
	Remove(name string) error
	// Glob returns the paths matching pattern, excluding those that match any
	// pattern in excludes, along with the directories that were read to find
	// them.
	Glob(pattern string, excludes []string) (matches, dirs []string, err error)
	glob(pattern string) (matches []string, err error)
	IsDir(name string) (bool, error)
	// ListDirsRecursive returns name and every directory beneath it,
	// skipping hidden directories.
	ListDirsRecursive(name string) (dirs []string, err error)
}

// osFs implements FileSystem using the local disk.
type osFs struct{}

func (osFs) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (osFs) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (osFs) Remove(name string) error { return os.Remove(name) }

func (osFs) IsDir(name string) (bool, error) {
	info, err := os.Stat(name)
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (fs osFs) Glob(pattern string, excludes []string) (matches, dirs []string, err error) {
	return startGlob(fs, pattern, excludes)
}

func (osFs) glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// Returns a list of all directories under dir
func (osFs) ListDirsRecursive(name string) (dirs []string, err error) {
	err = filepath.Walk(name, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.Mode().IsDir() {
			name := info.Name()
			if name[0] == '.' && name != "." {
				return filepath.SkipDir
			}

			dirs = append(dirs, path)
		}
		return nil
	})

	return dirs, err
}

type mockFs struct {
	files map[string][]byte
	dirs  map[string]bool
	all   []string
}

func (m *mockFs) add(name string, data []byte) {
	name = filepath.Clean(name)
	if _, ok := m.files[name]; !ok {
		m.all = append(m.all, name)
	}
	m.files[name] = data

	dir := filepath.Dir(name)
	for {
		if !m.dirs[dir] {
			m.dirs[dir] = true
			m.all = append(m.all, dir)
		}
		if dir == "." || dir == "/" {
			break
		}
		dir = filepath.Dir(dir)
	}

	sort.Strings(m.all)
}

func (m *mockFs) ReadFile(name string) ([]byte, error) {
	if f, ok := m.files[filepath.Clean(name)]; ok {
		return append([]byte(nil), f...), nil
	}

	return nil, &os.PathError{
		Op:   "open",
		Path: name,
		Err:  os.ErrNotExist,
	}
}

func (m *mockFs) WriteFile(name string, data []byte, perm os.FileMode) error {
	if m.dirs[filepath.Clean(name)] {
		return &os.PathError{
			Op:   "write",
			Path: name,
			Err:  os.ErrExist,
		}
	}
	m.add(name, append([]byte(nil), data...))
	return nil
}

func (m *mockFs) Remove(name string) error {
	name = filepath.Clean(name)
	if _, ok := m.files[name]; !ok {
		return &os.PathError{
			Op:   "remove",
			Path: name,
			Err:  os.ErrNotExist,
		}
	}
	delete(m.files, name)
	for i, f := range m.all {
		if f == name {
			m.all = append(m.all[:i], m.all[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockFs) IsDir(name string) (bool, error) {
	return m.dirs[filepath.Clean(name)], nil
}

func (m *mockFs) Glob(pattern string, excludes []string) (matches, dirs []string, err error) {
	return startGlob(m, pattern, excludes)
}

func (m *mockFs) glob(pattern string) ([]string, error) {
	var matches []string
	for _, f := range m.all {
		match, err := filepath.Match(pattern, f)
		if err != nil {
			return nil, err
		}
		if f == "." && f != pattern {
			// filepath.Glob won't return "." unless the pattern was "."
			match = false
		}
		if match {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

func (m *mockFs) ListDirsRecursive(name string) (dirs []string, err error) {
	name = filepath.Clean(name)
	dirs = append(dirs, name)
	if name == "." {
		name = ""
	} else if name != "/" {
		name = name + "/"
	}
	for _, f := range m.all {
		if _, isDir := m.dirs[f]; isDir && f != "." && f != "/" && !hiddenBelow(f, name) {
			if strings.HasPrefix(f, name) && f != strings.TrimSuffix(name, "/") &&
				strings.HasPrefix(f, "/") == strings.HasPrefix(name, "/") {
				dirs = append(dirs, f)
			}
		}
	}

	return dirs, nil
}

// hiddenBelow reports whether any path element of f below prefix starts with
// a dot.
func hiddenBelow(f, prefix string) bool {
	rest := strings.TrimPrefix(f, prefix)
	for _, elem := range strings.Split(rest, "/") {
		if strings.HasPrefix(elem, ".") {
			return true
		}
	}
	return false
}

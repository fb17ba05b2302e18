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
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Separators is a path-separator policy.  FS is the separator used for paths
// handed to the filesystem; API is the separator used in path strings handed
// back to build scripts and written into the manifest.  The two are
// independent so that, for example, a manifest for a Windows build executor
// can be generated with forward-slash filesystem access.
type Separators struct {
	FS  string
	API string
}

// DefaultSeparators returns the host's separator for both the filesystem and
// the API.
func DefaultSeparators() Separators {
	sep := string(filepath.Separator)
	return Separators{FS: sep, API: sep}
}

// ParseSeparators returns the policy for the given separators, falling back
// to the host's separator for either one that is empty.
func ParseSeparators(fs, api string) (Separators, error) {
	seps := DefaultSeparators()
	if fs != "" {
		seps.FS = fs
	}
	if api != "" {
		seps.API = api
	}
	for _, s := range []string{seps.FS, seps.API} {
		if s != "/" && s != `\` {
			return Separators{}, fmt.Errorf("invalid path separator %q: must be \"/\" or \"\\\"", s)
		}
	}
	return seps, nil
}

func toSlash(p, sep string) string {
	if sep == "/" {
		return p
	}
	return strings.ReplaceAll(p, sep, "/")
}

func fromSlash(p, sep string) string {
	if sep == "/" {
		return p
	}
	return strings.ReplaceAll(p, "/", sep)
}

// IsAbs reports whether p, written with the FS separator, is absolute.  A
// leading separator or a drive letter followed by a separator both count.
func (s Separators) IsAbs(p string) bool {
	p = toSlash(p, s.FS)
	if strings.HasPrefix(p, "/") {
		return true
	}
	return len(p) >= 3 && isDriveLetter(p[0]) && p[1] == ':' && p[2] == '/'
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Join joins elements with the FS separator and cleans the result.
func (s Separators) Join(elem ...string) string {
	slashed := make([]string, len(elem))
	for i, e := range elem {
		slashed[i] = toSlash(e, s.FS)
	}
	return fromSlash(path.Join(slashed...), s.FS)
}

// Dir returns all but the last element of p.
func (s Separators) Dir(p string) string {
	return fromSlash(path.Dir(toSlash(p, s.FS)), s.FS)
}

// Resolve returns p resolved against dir, which must be absolute.  Like
// Node's path.resolve(dir, "./"+p), p is always treated as relative to dir.
func (s Separators) Resolve(dir, p string) string {
	return s.Join(dir, "."+s.FS+p)
}

// ToAPI rewrites a path written with the FS separator to use the API
// separator.
func (s Separators) ToAPI(p string) string {
	if s.FS == s.API {
		return p
	}
	return strings.ReplaceAll(p, s.FS, s.API)
}

// ToFS rewrites a path written with the API separator to use the FS
// separator.
func (s Separators) ToFS(p string) string {
	if s.FS == s.API {
		return p
	}
	return strings.ReplaceAll(p, s.API, s.FS)
}

// JoinAPI joins elements with the API separator and cleans the result.
func (s Separators) JoinAPI(elem ...string) string {
	slashed := make([]string, len(elem))
	for i, e := range elem {
		slashed[i] = toSlash(e, s.API)
	}
	return fromSlash(path.Join(slashed...), s.API)
}

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

// Package bootstrap is the shinobi command line: it loads the configuration,
// runs the build scripts named on the command line through a Starlark-backed
// RuntimeDelegate and writes the resulting Ninja manifest.
//
// Configuration
//
// Every setting may come from, in increasing order of precedence, the
// defaults, a YAML configuration file, the environment and the command line:
//
//	out                 --out/-o              SHINOBI_OUT
//	depfile             --depfile/-d          SHINOBI_DEPFILE
//	builddir                                  SHINOBI_BUILDDIR, BUILDDIR
//	fs_path_separator   --fs-path-separator   SHINOBI_FS_PATH_SEPARATOR
//	api_path_separator  --api-path-separator  SHINOBI_API_PATH_SEPARATOR
//	verbose             --verbose/-v          SHINOBI_VERBOSE
//
// The configuration file is the one named by --config, or .shinobi.yaml in
// the working directory if it exists.
//
// Dependency files
//
// With --depfile, a Makefile-syntax dependency file is written next to the
// manifest.  It names every script and loaded module, and every directory
// read by a glob, so that a Ninja rule regenerating the manifest reruns when
// any of them changes:
//
//	rule shinobi
//	  command = shinobi build.star -o $out -d $out.d
//	  depfile = $out.d
//	  generator = 1
//
//	build build.ninja: shinobi build.star
//
// The primary entry point is Main, used by the shinobi binary:
//
//	package main
//
//	import "github.com/shinobi-build/shinobi/bootstrap"
//
//	func main() {
//	    bootstrap.Main()
//	}
package bootstrap

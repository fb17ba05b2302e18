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

// Shinobi generates Ninja (https://ninja-build.org/) manifests from build
// scripts.  Where Ninja files are meant to be written by a generator rather
// than by hand, Shinobi lets a project describe its build in a handful of
// small scripts that declare variables, rules and build statements through a
// simple API, and writes the manifest those declarations add up to.
//
// A build script might look like:
//
//   declare("cc", "gcc")
//   declareOrAppend("cflags", "-Wall")
//
//   rule("cc",
//       command = "$cc $cflags -c $in -o $out",
//       description = "CC $out",
//   )
//
//   build(
//       output = builddir("main.o"),
//       rule = "cc",
//       inputs = [rel("main.c")],
//   )
//
// Scripts are run in the order they are given, and everything a script
// declares is recorded against that script, so that the generated manifest
// says where each statement came from.  Declaration mistakes, such as
// declaring the same variable twice, stop the run immediately.  A build
// statement may name a rule that is only declared by a later script; rule
// references are checked when the manifest is written.
//
// The Context type drives a run.  How a script is executed, how the
// filesystem is globbed and where the environment comes from are all decided
// by the RuntimeDelegate given to NewContext.  The bootstrap package provides
// the command-line tool, which runs Starlark scripts with the runner package.
package shinobi

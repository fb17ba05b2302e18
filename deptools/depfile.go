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

package deptools

import (
	"fmt"
	"io"
	"strings"
)

var depEscaper = strings.NewReplacer(
	`\`, `\\`,
	" ", `\ `,
	"#", `\#`,
	"$", "$$",
)

// WriteDepFile writes a gcc-style depfile to w, indicating that target
// depends on deps.
func WriteDepFile(w io.Writer, target string, deps []string) error {
	escaped := make([]string, len(deps))
	for i, dep := range deps {
		escaped[i] = depEscaper.Replace(dep)
	}

	_, err := fmt.Fprintf(w, "%s: \\\n %s\n", depEscaper.Replace(target),
		strings.Join(escaped, " \\\n "))
	return err
}

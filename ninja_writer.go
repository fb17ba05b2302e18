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
	"io"
	"strings"
)

const indentWidth = 2

var indentString = strings.Repeat(" ", indentWidth)

// A ninjaWriter writes the statements of a Ninja manifest one line at a time.
// Lines are never wrapped and every line ends with a newline.
type ninjaWriter struct {
	writer io.StringWriter

	// written counts the bytes written so far, for logging.
	written int
}

func newNinjaWriter(writer io.StringWriter) *ninjaWriter {
	return &ninjaWriter{
		writer: writer,
	}
}

func (n *ninjaWriter) writeStrings(strs ...string) error {
	for _, s := range strs {
		w, err := n.writer.WriteString(s)
		n.written += w
		if err != nil {
			return err
		}
	}
	return nil
}

func (n *ninjaWriter) Comment(comment string) error {
	return n.writeStrings("# ", comment, "\n")
}

// ScopedComment writes a comment indented into the enclosing rule or build
// statement.
func (n *ninjaWriter) ScopedComment(comment string) error {
	return n.writeStrings(indentString, "# ", comment, "\n")
}

func (n *ninjaWriter) Rule(name string) error {
	return n.writeStatement("rule", name)
}

// Build writes a build statement header.  The explicit inputs are always
// preceded by a space, so a statement with no inputs ends in one.
func (n *ninjaWriter) Build(output, rule string, explicitDeps, implicitDeps []string) error {
	err := n.writeStrings("build ", output, ": ", rule, " ", strings.Join(explicitDeps, " "))
	if err != nil {
		return err
	}

	if len(implicitDeps) > 0 {
		err = n.writeStrings(" | ", strings.Join(implicitDeps, " "))
		if err != nil {
			return err
		}
	}

	return n.writeStrings("\n")
}

func (n *ninjaWriter) Assign(name, value string) error {
	return n.writeStrings(name, " = ", value, "\n")
}

func (n *ninjaWriter) ScopedAssign(name, value string) error {
	return n.writeStrings(indentString, name, " = ", value, "\n")
}

func (n *ninjaWriter) BlankLine() error {
	return n.writeStrings("\n")
}

func (n *ninjaWriter) writeStatement(directive, name string) error {
	return n.writeStrings(directive, " ", name, "\n")
}

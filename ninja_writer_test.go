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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func ck(err error) {
	if err != nil {
		panic(err)
	}
}

var ninjaWriterTestCases = []struct {
	input  func(w *ninjaWriter)
	output string
}{
	{
		input: func(w *ninjaWriter) {
			ck(w.Comment("foo"))
		},
		output: "# foo\n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.Comment("variable 'cc' from a/b.ninja.star"))
		},
		output: "# variable 'cc' from a/b.ninja.star\n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.ScopedComment("with implicit inputs: a b"))
		},
		output: "  # with implicit inputs: a b\n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.Rule("foo"))
		},
		output: "rule foo\n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.Build("o", "foo", []string{"e1", "e2"}, []string{"i1", "i2"}))
		},
		output: "build o: foo e1 e2 | i1 i2\n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.Build("o", "foo", []string{"e1"}, nil))
		},
		output: "build o: foo e1\n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.Build("o", "foo", nil, nil))
		},
		output: "build o: foo \n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.Build("o", "foo", nil, []string{"i1"}))
		},
		output: "build o: foo  | i1\n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.Assign("foo", "bar"))
		},
		output: "foo = bar\n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.Assign("foo", ""))
		},
		output: "foo = \n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.ScopedAssign("foo", "bar"))
		},
		output: "  foo = bar\n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.BlankLine())
			ck(w.BlankLine())
		},
		output: "\n\n",
	},
	{
		input: func(w *ninjaWriter) {
			ck(w.Comment("rule 'cc' from x"))
			ck(w.Rule("cc"))
			ck(w.ScopedAssign("command", "$cc $in -o $out"))
			ck(w.ScopedAssign("description", "CC $out"))
			ck(w.BlankLine())
			ck(w.Comment("build for 'x.o' from x"))
			ck(w.Build("x.o", "cc", []string{"x.c"}, nil))
			ck(w.ScopedAssign("cflags", "-O2"))
		},
		output: `# rule 'cc' from x
rule cc
  command = $cc $in -o $out
  description = CC $out

# build for 'x.o' from x
build x.o: cc x.c
  cflags = -O2
`,
	},
}

func TestNinjaWriter(t *testing.T) {
	for i, testCase := range ninjaWriterTestCases {
		buf := &strings.Builder{}
		w := newNinjaWriter(buf)
		testCase.input(w)
		require.Equal(t, testCase.output, buf.String(), "test case %d", i)
		require.Equal(t, len(testCase.output), w.written, "test case %d", i)
	}
}

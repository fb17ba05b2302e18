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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinobi-build/shinobi/pathtools"
)

const testScript = "/tmp/blah.test/something.star"

// apiFor returns the API of a fresh Context whose current file is filename,
// as if filename were being loaded.
func apiFor(t *testing.T, d *testDelegate, filename string) (*Context, *API) {
	t.Helper()
	ctx := NewContext(d)
	ctx.State().SetCurrentFile(filename)
	return ctx, ctx.API()
}

func TestDeclare(t *testing.T) {
	_, api := apiFor(t, newTestDelegate(), testScript)

	name, err := api.Declare("cc", "gcc")
	require.NoError(t, err)
	assert.Equal(t, "cc", name)

	value, ok := api.GetVar("cc")
	assert.True(t, ok)
	assert.Equal(t, "gcc", value)

	_, err = api.Declare("empty", nil)
	require.NoError(t, err)
	value, ok = api.GetVar("empty")
	assert.True(t, ok)
	assert.Equal(t, "", value)

	_, ok = api.GetVar("missing")
	assert.False(t, ok)
}

func TestDeclareCoercion(t *testing.T) {
	testCases := []struct {
		name  string
		value Value
		want  string
	}{
		{"string", "-Wall", "-Wall"},
		{"int", 42, "42"},
		{"negative", int64(-7), "-7"},
		{"bool", true, "true"},
		{"float", 2.5, "2.5"},
		{"integral float", 2.0, "2"},
		{"list", []Value{"-Wall", nil, "-g", 3}, "-Wall -g 3"},
		{"string list", []string{"a", "b"}, "a b"},
		{"empty list", []Value{}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, api := apiFor(t, newTestDelegate(), testScript)
			_, err := api.Declare("v", tc.value)
			require.NoError(t, err)
			value, _ := api.GetVar("v")
			assert.Equal(t, tc.want, value)
		})
	}
}

func TestDeclareTwice(t *testing.T) {
	ctx, api := apiFor(t, newTestDelegate(), "a.star")

	_, err := api.Declare("x", "1")
	require.NoError(t, err)

	ctx.State().SetCurrentFile("b.star")
	_, err = api.Declare("x", "1")
	require.ErrorIs(t, err, ErrDuplicateDeclaration)
	assert.EqualError(t, err,
		"Attempt to redefine variable 'x' in 'b.star'. Variable was previously defined in 'a.star'.")

	var shinobiErr *Error
	require.ErrorAs(t, err, &shinobiErr)
	assert.Equal(t, "b.star", shinobiErr.Source)
}

func TestReservedNames(t *testing.T) {
	_, api := apiFor(t, newTestDelegate(), testScript)

	ops := map[string]func(name string) error{
		"declare": func(name string) error {
			_, err := api.Declare(name, "x")
			return err
		},
		"overrideDeclaration": func(name string) error {
			_, err := api.OverrideDeclaration(name, "x")
			return err
		},
		"declareOrAppend": func(name string) error {
			_, err := api.DeclareOrAppend(name, "x", " ")
			return err
		},
	}

	for op, f := range ops {
		t.Run(op, func(t *testing.T) {
			err := f("in")
			require.ErrorIs(t, err, ErrReservedName)
			assert.EqualError(t, err, "'in' is a reserved variable name in ninja (used for rule inputs)")

			err = f("out")
			require.ErrorIs(t, err, ErrReservedName)
			assert.EqualError(t, err, "'out' is a reserved variable name in ninja (used for rule outputs)")
		})
	}
}

func TestOverrideDeclaration(t *testing.T) {
	ctx, api := apiFor(t, newTestDelegate(), "a.star")

	_, err := api.OverrideDeclaration("x", "1")
	require.ErrorIs(t, err, ErrUndeclaredVariable)
	assert.EqualError(t, err,
		"Attempting to override declaration of variable 'x' in 'a.star', but variable was never "+
			"previously defined. Use 'declare' instead.")

	_, err = api.Declare("x", "1")
	require.NoError(t, err)
	_, err = api.Declare("y", "2")
	require.NoError(t, err)

	ctx.State().SetCurrentFile("b.star")
	name, err := api.OverrideDeclaration("x", "")
	require.NoError(t, err)
	assert.Equal(t, "x", name)

	vars := ctx.State().Variables()
	require.Len(t, vars, 3)
	assert.Equal(t, Variable{Name: "x", Value: "", Source: "b.star"}, *vars[1])
	assert.Equal(t, "y", vars[2].Name)

	// Overriding again is fine.
	_, err = api.OverrideDeclaration("x", "3")
	require.NoError(t, err)
	value, _ := api.GetVar("x")
	assert.Equal(t, "3", value)
}

func TestDeclareOrAppend(t *testing.T) {
	_, api := apiFor(t, newTestDelegate(), testScript)

	name, err := api.DeclareOrAppend("cflags", "-Wall", " ")
	require.NoError(t, err)
	assert.Equal(t, "cflags", name)

	_, err = api.DeclareOrAppend("cflags", "-g", " ")
	require.NoError(t, err)
	_, err = api.DeclareOrAppend("cflags", []Value{"-O2", "-DNDEBUG"}, " ")
	require.NoError(t, err)
	_, err = api.DeclareOrAppend("cflags", "", " ")
	require.NoError(t, err)
	_, err = api.DeclareOrAppend("cflags", nil, " ")
	require.NoError(t, err)
	_, err = api.DeclareOrAppend("cflags", []Value{nil}, " ")
	require.NoError(t, err)

	value, _ := api.GetVar("cflags")
	assert.Equal(t, "-Wall -g -O2 -DNDEBUG", value)

	_, err = api.DeclareOrAppend("path", "/usr/bin", ":")
	require.NoError(t, err)
	_, err = api.DeclareOrAppend("path", "/bin", ":")
	require.NoError(t, err)
	value, _ = api.GetVar("path")
	assert.Equal(t, "/usr/bin:/bin", value)
}

func TestRule(t *testing.T) {
	ctx, api := apiFor(t, newTestDelegate(), "a.star")

	name, err := api.Rule("myscript", []Property{
		{"command", "./myscript.sh $in > $out"},
		{"implicitInputs", []Value{"myscript.sh", nil, "lib.sh"}},
		{"description", "MYSCRIPT $out"},
		{"depfile", nil},
		{"restat", true},
	})
	require.NoError(t, err)
	assert.Equal(t, "myscript", name)

	r, ok := ctx.State().Rule("myscript")
	require.True(t, ok)
	want := Rule{
		Name: "myscript",
		Properties: []Assignment{
			{"command", "./myscript.sh $in > $out"},
			{"description", "MYSCRIPT $out"},
			{"restat", "true"},
		},
		ImplicitInputs: []string{"myscript.sh", "lib.sh"},
		Source:         "a.star",
	}
	if diff := cmp.Diff(want, *r); diff != "" {
		t.Errorf("unexpected rule (-want +got):\n%s", diff)
	}

	ctx.State().SetCurrentFile("b.star")
	_, err = api.Rule("myscript", []Property{{"command", "true"}})
	require.ErrorIs(t, err, ErrDuplicateRule)
	assert.EqualError(t, err,
		"Attempt to redefine rule 'myscript' in 'b.star'. Rule was previously defined in 'a.star'.")
}

func TestRuleMissingCommand(t *testing.T) {
	testCases := []struct {
		name  string
		props []Property
	}{
		{"absent", []Property{{"description", "CC $out"}}},
		{"nil", []Property{{"command", nil}}},
		{"empty", []Property{{"command", ""}}},
		{"empty list", []Property{{"command", []Value{}}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, api := apiFor(t, newTestDelegate(), testScript)
			_, err := api.Rule("cc", tc.props)
			require.ErrorIs(t, err, ErrMissingCommand)
			assert.EqualError(t, err, "No command specified for rule 'cc'. Command is required.")
			assert.False(t, ctx.State().HasRule("cc"))
		})
	}
}

func TestRuleInvalidProperty(t *testing.T) {
	_, api := apiFor(t, newTestDelegate(), testScript)
	_, err := api.Rule("cc", []Property{
		{"command", "cc"},
		{"pool", map[string]string{"depth": "1"}},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBuild(t *testing.T) {
	ctx, api := apiFor(t, newTestDelegate(), testScript)

	out, err := api.Build(BuildParams{
		Output: api.BuildDir("x.o"),
		Rule:   "cc",
		Inputs: []Value{"x.c"},
	})
	require.NoError(t, err)
	assert.Equal(t, "$builddir/x.o", out)

	// The rule doesn't exist yet; that is only checked when rendering.
	out, err = api.Build(BuildParams{
		Output:         "x",
		Rule:           "link",
		Inputs:         out,
		ImplicitInputs: []string{"libfoo.a"},
		RuleVariables: []Property{
			{"ldflags", "-static"},
			{"unused", nil},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "x", out)

	builds := ctx.State().Builds()
	require.Len(t, builds, 2)
	want := Build{
		Output:         "x",
		Rule:           "link",
		Inputs:         []string{"$builddir/x.o"},
		ImplicitInputs: []string{"libfoo.a"},
		RuleVariables:  []Assignment{{"ldflags", "-static"}},
		Source:         testScript,
	}
	if diff := cmp.Diff(want, *builds[1]); diff != "" {
		t.Errorf("unexpected build (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{}, builds[0].ImplicitInputs)
}

func TestBuildInvalidArguments(t *testing.T) {
	_, api := apiFor(t, newTestDelegate(), testScript)

	for _, params := range []BuildParams{
		{Rule: "cc", Inputs: "x.c"},
		{Output: "x.o", Inputs: "x.c"},
		{Output: "x.o", Rule: "cc", Inputs: struct{}{}},
		{Output: "x.o", Rule: "cc", RuleVariables: []Property{{"f", func() {}}}},
	} {
		_, err := api.Build(params)
		assert.ErrorIs(t, err, ErrInvalidArgument, "%+v", params)
	}
}

func TestNoCurrentFile(t *testing.T) {
	ctx := NewContext(newTestDelegate())
	api := ctx.API()

	_, err := api.Declare("x", "1")
	assert.ErrorIs(t, err, ErrNoCurrentFile)
	_, err = api.OverrideDeclaration("builddir", "1")
	assert.ErrorIs(t, err, ErrNoCurrentFile)
	_, err = api.DeclareOrAppend("x", "1", " ")
	assert.ErrorIs(t, err, ErrNoCurrentFile)
	_, err = api.Rule("cc", []Property{{"command", "cc"}})
	assert.ErrorIs(t, err, ErrNoCurrentFile)
	_, err = api.Build(BuildParams{Output: "o", Rule: "cc"})
	assert.ErrorIs(t, err, ErrNoCurrentFile)
	_, err = api.Rel("x")
	assert.ErrorIs(t, err, ErrNoCurrentFile)

	// Reads and builddir references don't need a current file.
	value, ok := api.GetVar("builddir")
	assert.True(t, ok)
	assert.Equal(t, DefaultBuildDir, value)
	assert.Equal(t, "$builddir/x", api.BuildDir("x"))

	assert.Len(t, ctx.State().Variables(), 1)
	assert.Empty(t, ctx.State().Rules())
	assert.Empty(t, ctx.State().Builds())
}

func TestRel(t *testing.T) {
	testCases := []struct {
		name string
		seps pathtools.Separators
		file string
		path string
		want string
	}{
		{
			name: "sibling",
			file: testScript,
			path: "something.c",
			want: "/tmp/blah.test/something.c",
		},
		{
			name: "parent",
			file: testScript,
			path: "../x/./y.c",
			want: "/tmp/x/y.c",
		},
		{
			name: "absolute-looking path stays below the script",
			file: testScript,
			path: "/abs.c",
			want: "/tmp/blah.test/abs.c",
		},
		{
			name: "no path",
			file: testScript,
			want: "/tmp/blah.test",
		},
		{
			name: "relative script",
			file: "sub/build.star",
			path: "x.c",
			want: "/tmp/somewhere/sub/x.c",
		},
		{
			name: "backslash api separator",
			seps: pathtools.Separators{FS: "/", API: `\`},
			file: testScript,
			path: `x\y.c`,
			want: `\tmp\blah.test\x\y.c`,
		},
		{
			name: "backslash fs separator",
			seps: pathtools.Separators{FS: `\`, API: "/"},
			file: `C:\src\build.star`,
			path: "lib/x.c",
			want: "C:/src/lib/x.c",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestDelegate()
			if tc.seps.FS != "" {
				d.seps = tc.seps
			}
			_, api := apiFor(t, d, tc.file)
			got, err := api.Rel(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildDir(t *testing.T) {
	_, api := apiFor(t, newTestDelegate(), testScript)
	assert.Equal(t, "$builddir", api.BuildDir(""))
	assert.Equal(t, "$builddir/something.o", api.BuildDir("something.o"))
	assert.Equal(t, "$builddir/b.o", api.BuildDir("a/../b.o"))

	d := newTestDelegate()
	d.seps = pathtools.Separators{FS: "/", API: `\`}
	_, api = apiFor(t, d, testScript)
	assert.Equal(t, `$builddir\obj\a.o`, api.BuildDir("obj/a.o"))
}

func TestGlob(t *testing.T) {
	d := newTestDelegate()
	d.fs = pathtools.MockFs(map[string][]byte{
		"/tmp/somewhere/src/a.c":     nil,
		"/tmp/somewhere/src/b.c":     nil,
		"/tmp/somewhere/src/c.h":     nil,
		"/tmp/somewhere/src/.hidden": nil,
	})
	ctx, api := apiFor(t, d, testScript)

	matches, err := api.Glob([]string{"src/*.c"}, pathtools.GlobOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.c", "src/b.c"}, matches)

	matches, err = api.Glob([]string{"*", "!*.h"}, pathtools.GlobOptions{Cwd: "src"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.c", "b.c"}, matches)

	require.Len(t, d.globCalls, 2)
	assert.Equal(t, "/tmp/somewhere", d.globCalls[0].opts.Cwd)
	assert.Equal(t, "/tmp/somewhere/src", d.globCalls[1].opts.Cwd)

	assert.Len(t, ctx.Globs(), 2)
	assert.Equal(t, []string{"/tmp/somewhere/src"}, ctx.GlobDirs())

	// Repeating a glob doesn't record it again.
	_, err = api.Glob([]string{"src/*.c"}, pathtools.GlobOptions{})
	require.NoError(t, err)
	assert.Len(t, ctx.Globs(), 2)

	d.seps = pathtools.Separators{FS: "/", API: `\`}
	_, api = apiFor(t, d, testScript)
	matches, err = api.Glob([]string{"src/*.c"}, pathtools.GlobOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{`src\a.c`, `src\b.c`}, matches)

	_, err = api.Glob([]string{"src/**"}, pathtools.GlobOptions{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

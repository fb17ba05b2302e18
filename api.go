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
	"time"

	"github.com/shinobi-build/shinobi/pathtools"
)

// An API is the set of operations available to build scripts.  Every
// operation that records something attributes it to the Context's current
// file, and fails with ErrNoCurrentFile if no script is being loaded.
type API struct {
	ctx   *Context
	state *State
	seps  pathtools.Separators
}

func newAPI(ctx *Context) *API {
	return &API{
		ctx:   ctx,
		state: ctx.state,
		seps:  ctx.delegate.PathSeparators(),
	}
}

// CurrentFile returns the script calls are currently attributed to, or "" if
// no script is being loaded.
func (a *API) CurrentFile() string {
	return a.state.CurrentFile()
}

func (a *API) source(op string) (string, error) {
	source := a.state.CurrentFile()
	if source == "" {
		return "", newError(ErrNoCurrentFile, "",
			"'%s' was called while no build script was being loaded", op)
	}
	return source, nil
}

func checkReserved(name, source string) error {
	if name == "in" || name == "out" {
		return newError(ErrReservedName, source,
			"'%s' is a reserved variable name in ninja (used for rule %sputs)", name, name)
	}
	return nil
}

func checkArgValue(op, arg string, value Value, source string) error {
	if err := checkValue(value); err != nil {
		return newError(ErrInvalidArgument, source, "%s: invalid %s: %s", op, arg, err)
	}
	return nil
}

// Declare declares the top-level variable name with the given value.  It
// returns name.
func (a *API) Declare(name string, value Value) (string, error) {
	source, err := a.source("declare")
	if err != nil {
		return "", err
	}
	if err := checkReserved(name, source); err != nil {
		return "", err
	}
	if err := checkArgValue("declare", "value", value, source); err != nil {
		return "", err
	}

	if existing, ok := a.state.Variable(name); ok {
		return "", newError(ErrDuplicateDeclaration, source,
			"Attempt to redefine variable '%s' in '%s'. Variable was previously defined in '%s'.",
			name, source, existing.Source)
	}

	s, _ := stringifyValue(value)
	a.state.SetVariable(&Variable{Name: name, Value: s, Source: source})
	return name, nil
}

// OverrideDeclaration replaces the value of the previously declared variable
// name.  The variable keeps its position in the manifest but is attributed to
// the current file.  It returns name.
func (a *API) OverrideDeclaration(name string, value Value) (string, error) {
	source, err := a.source("overrideDeclaration")
	if err != nil {
		return "", err
	}
	if err := checkReserved(name, source); err != nil {
		return "", err
	}
	if err := checkArgValue("overrideDeclaration", "value", value, source); err != nil {
		return "", err
	}

	if _, ok := a.state.Variable(name); !ok {
		return "", newError(ErrUndeclaredVariable, source,
			"Attempting to override declaration of variable '%s' in '%s', but variable was never previously defined. Use 'declare' instead.",
			name, source)
	}

	s, _ := stringifyValue(value)
	a.state.SetVariable(&Variable{Name: name, Value: s, Source: source})
	return name, nil
}

// DeclareOrAppend appends value to the variable name, separated by sep, or
// declares it if it doesn't exist yet.  Appending a value that coerces to
// nothing leaves the variable unchanged.  It returns name.
func (a *API) DeclareOrAppend(name string, value Value, sep string) (string, error) {
	source, err := a.source("declareOrAppend")
	if err != nil {
		return "", err
	}
	if err := checkReserved(name, source); err != nil {
		return "", err
	}
	if err := checkArgValue("declareOrAppend", "value", value, source); err != nil {
		return "", err
	}

	existing, ok := a.state.Variable(name)
	if !ok {
		return a.Declare(name, value)
	}

	if s, _ := stringifyValue(value); s != "" {
		existing.Value += sep + s
	}
	return name, nil
}

// GetVar returns the current value of the variable name.
func (a *API) GetVar(name string) (string, bool) {
	v, ok := a.state.Variable(name)
	if !ok {
		return "", false
	}
	return v.Value, true
}

// Rule declares the rule name.  props must contain a command; an
// implicitInputs property is not written as a rule variable but is inherited
// by every build statement that uses the rule.  It returns name.
func (a *API) Rule(name string, props []Property) (string, error) {
	source, err := a.source("rule")
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", newError(ErrInvalidArgument, source, "rule: name should be a non-empty string")
	}

	if existing, ok := a.state.Rule(name); ok {
		return "", newError(ErrDuplicateRule, source,
			"Attempt to redefine rule '%s' in '%s'. Rule was previously defined in '%s'.",
			name, source, existing.Source)
	}

	var implicitInputs Value
	others := make([]Property, 0, len(props))
	for _, p := range props {
		if err := checkArgValue("rule", p.Name, p.Value, source); err != nil {
			return "", err
		}
		if p.Name == "implicitInputs" {
			implicitInputs = p.Value
			continue
		}
		others = append(others, p)
	}

	r := &Rule{
		Name:           name,
		Properties:     objectifyValues(others),
		ImplicitInputs: arrayifyValue(implicitInputs),
		Source:         source,
	}

	if command, ok := r.Property("command"); !ok || command == "" {
		return "", newError(ErrMissingCommand, source,
			"No command specified for rule '%s'. Command is required.", name)
	}

	a.state.SetRule(r)
	return name, nil
}

// Build declares a build statement.  The rule it names doesn't need to exist
// yet; it is resolved when the manifest is written.  It returns the output.
func (a *API) Build(params BuildParams) (string, error) {
	source, err := a.source("build")
	if err != nil {
		return "", err
	}

	if params.Output == "" {
		return "", newError(ErrInvalidArgument, source, "build: output should be a non-empty string")
	}
	if params.Rule == "" {
		return "", newError(ErrInvalidArgument, source,
			"build: rule for %q should be a non-empty string", params.Output)
	}
	if err := checkArgValue("build", "inputs", params.Inputs, source); err != nil {
		return "", err
	}
	if err := checkArgValue("build", "implicitInputs", params.ImplicitInputs, source); err != nil {
		return "", err
	}
	for _, p := range params.RuleVariables {
		if err := checkArgValue("build", "rule variable "+p.Name, p.Value, source); err != nil {
			return "", err
		}
	}

	a.state.AppendBuild(&Build{
		Output:         params.Output,
		Rule:           params.Rule,
		Inputs:         arrayifyValue(params.Inputs),
		ImplicitInputs: arrayifyValue(params.ImplicitInputs),
		RuleVariables:  objectifyValues(params.RuleVariables),
		Source:         source,
	})
	return params.Output, nil
}

// currentDir returns the absolute directory of the current file.
func (a *API) currentDir(op string) (string, error) {
	source, err := a.source(op)
	if err != nil {
		return "", err
	}
	if !a.seps.IsAbs(source) {
		source = a.seps.Join(a.ctx.delegate.Cwd(), source)
	}
	return a.seps.Dir(source), nil
}

// Rel resolves p against the directory of the current file.  With an empty
// p it returns that directory.
func (a *API) Rel(p string) (string, error) {
	dir, err := a.currentDir("rel")
	if err != nil {
		return "", err
	}
	if p == "" {
		return a.seps.ToAPI(dir), nil
	}
	return a.seps.ToAPI(a.seps.Resolve(dir, a.seps.ToFS(p))), nil
}

// BuildDir returns a reference to the builddir variable, joined with p if p
// is not empty.
func (a *API) BuildDir(p string) string {
	if p == "" {
		return "$builddir"
	}
	return a.seps.JoinAPI("$builddir", p)
}

// Glob returns the paths matching patterns, written with the API separator.
// Relative patterns and a relative opts.Cwd are resolved against the
// delegate's working directory.
func (a *API) Glob(patterns []string, opts pathtools.GlobOptions) ([]string, error) {
	cwd := a.ctx.delegate.Cwd()
	switch {
	case opts.Cwd == "":
		opts.Cwd = cwd
	case !a.seps.IsAbs(opts.Cwd):
		opts.Cwd = a.seps.Join(cwd, opts.Cwd)
	}

	start := time.Now()
	result, err := a.ctx.delegate.Glob(patterns, opts)
	if err != nil {
		return nil, newError(ErrInvalidArgument, a.state.CurrentFile(), "glob: %s", err)
	}
	a.ctx.recordGlob(opts, result)
	a.ctx.logger.Debug("glob", "patterns", patterns, "matches", len(result.Matches),
		"elapsed", time.Since(start))

	matches := make([]string, len(result.Matches))
	for i, m := range result.Matches {
		matches[i] = a.seps.ToAPI(m)
	}
	return matches, nil
}

// Env returns a live view of the environment.
func (a *API) Env() Env {
	return Env{delegate: a.ctx.delegate}
}

// AddNinjaFileDeps records files the manifest depends on besides the scripts
// passed to Context.Load, such as modules loaded by a script.
func (a *API) AddNinjaFileDeps(deps ...string) {
	a.ctx.AddNinjaFileDeps(deps...)
}

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

package runner

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/shinobi-build/shinobi"
	"github.com/shinobi-build/shinobi/pathtools"
)

type builtinFunc func(api *shinobi.API, fnName string, args starlark.Tuple,
	kwargs []starlark.Tuple) (starlark.Value, error)

var builtinFuncs = map[string]builtinFunc{
	"declare":             declare,
	"overrideDeclaration": overrideDeclaration,
	"declareOrAppend":     declareOrAppend,
	"getVar":              getVar,
	"rule":                rule,
	"build":               build,
	"rel":                 rel,
	"builddir":            builddir,
	"glob":                glob,
}

// predeclared returns the globals every script and loaded module sees.
func predeclared(api *shinobi.API) starlark.StringDict {
	globals := starlark.StringDict{
		"env": newEnvValue(api),
	}
	for name, f := range builtinFuncs {
		f := f
		globals[name] = starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin,
			args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return f(api, b.Name(), args, kwargs)
		})
	}
	return globals
}

func declare(api *shinobi.API, fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var value starlark.Value
	if err := starlark.UnpackArgs(fnName, args, kwargs, "name", &name, "value", &value); err != nil {
		return nil, err
	}
	v, err := toValue(api, fnName, "value", value)
	if err != nil {
		return nil, err
	}
	name, err = api.Declare(name, v)
	if err != nil {
		return nil, err
	}
	return starlark.String(name), nil
}

func overrideDeclaration(api *shinobi.API, fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var value starlark.Value
	if err := starlark.UnpackArgs(fnName, args, kwargs, "name", &name, "value", &value); err != nil {
		return nil, err
	}
	v, err := toValue(api, fnName, "value", value)
	if err != nil {
		return nil, err
	}
	name, err = api.OverrideDeclaration(name, v)
	if err != nil {
		return nil, err
	}
	return starlark.String(name), nil
}

func declareOrAppend(api *shinobi.API, fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var value starlark.Value
	sep := " "
	if err := starlark.UnpackArgs(fnName, args, kwargs,
		"name", &name, "value", &value, "sep?", &sep); err != nil {
		return nil, err
	}
	v, err := toValue(api, fnName, "value", value)
	if err != nil {
		return nil, err
	}
	name, err = api.DeclareOrAppend(name, v, sep)
	if err != nil {
		return nil, err
	}
	return starlark.String(name), nil
}

func getVar(api *shinobi.API, fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(fnName, args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	if value, ok := api.GetVar(name); ok {
		return starlark.String(value), nil
	}
	return starlark.None, nil
}

// rule(name, props) or rule(name, **props).  Both may be combined, in which
// case keyword properties follow the dict's.
func rule(api *shinobi.API, fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("%s: got %d positional arguments, want name and an optional dict of properties",
			fnName, len(args))
	}

	name, err := toString(api, fnName, "name", args[0])
	if err != nil {
		return nil, err
	}

	var props []shinobi.Property
	if len(args) == 2 {
		props, err = toProperties(api, fnName, "properties", args[1])
		if err != nil {
			return nil, err
		}
	}
	for _, kwarg := range kwargs {
		key := string(kwarg[0].(starlark.String))
		value, err := toValue(api, fnName, key, kwarg[1])
		if err != nil {
			return nil, err
		}
		props = append(props, shinobi.Property{Name: key, Value: value})
	}

	name, err = api.Rule(name, props)
	if err != nil {
		return nil, err
	}
	return starlark.String(name), nil
}

var buildKeys = map[string]bool{
	"output":         true,
	"rule":           true,
	"inputs":         true,
	"implicitInputs": true,
	"ruleVariables":  true,
}

// build(config) or build(**config).
func build(api *shinobi.API, fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%s: got %d positional arguments, want at most a dict", fnName, len(args))
	}

	config := make(map[string]starlark.Value)
	if len(args) == 1 {
		dict, ok := args[0].(*starlark.Dict)
		if !ok {
			return nil, invalidArgument(api, "%s: config should be a dict, got %s", fnName, args[0].Type())
		}
		for _, item := range dict.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				return nil, invalidArgument(api, "%s: config keys should be strings, got %s",
					fnName, item[0].Type())
			}
			config[key] = item[1]
		}
	}
	for _, kwarg := range kwargs {
		config[string(kwarg[0].(starlark.String))] = kwarg[1]
	}

	for key := range config {
		if !buildKeys[key] {
			return nil, invalidArgument(api, "%s: unexpected key %q", fnName, key)
		}
	}

	output, err := toString(api, fnName, "output", config["output"])
	if err != nil {
		return nil, err
	}
	ruleName, err := toString(api, fnName, "rule", config["rule"])
	if err != nil {
		return nil, err
	}
	inputsValue, ok := config["inputs"]
	if !ok {
		return nil, invalidArgument(api, "%s: missing inputs for %q", fnName, output)
	}
	inputs, err := toValue(api, fnName, "inputs", inputsValue)
	if err != nil {
		return nil, err
	}
	implicitInputs, err := toValue(api, fnName, "implicitInputs", config["implicitInputs"])
	if err != nil {
		return nil, err
	}
	ruleVariables, err := toProperties(api, fnName, "ruleVariables", config["ruleVariables"])
	if err != nil {
		return nil, err
	}

	output, err = api.Build(shinobi.BuildParams{
		Output:         output,
		Rule:           ruleName,
		Inputs:         inputs,
		ImplicitInputs: implicitInputs,
		RuleVariables:  ruleVariables,
	})
	if err != nil {
		return nil, err
	}
	return starlark.String(output), nil
}

func rel(api *shinobi.API, fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path starlark.Value = starlark.None
	if err := starlark.UnpackArgs(fnName, args, kwargs, "path?", &path); err != nil {
		return nil, err
	}
	p, err := toOptionalString(api, fnName, "path", path)
	if err != nil {
		return nil, err
	}
	resolved, err := api.Rel(p)
	if err != nil {
		return nil, err
	}
	return starlark.String(resolved), nil
}

func builddir(api *shinobi.API, fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path starlark.Value = starlark.None
	if err := starlark.UnpackArgs(fnName, args, kwargs, "path?", &path); err != nil {
		return nil, err
	}
	p, err := toOptionalString(api, fnName, "path", path)
	if err != nil {
		return nil, err
	}
	return starlark.String(api.BuildDir(p)), nil
}

func glob(api *shinobi.API, fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		patternsValue   starlark.Value
		cwdValue        starlark.Value = starlark.None
		ignoreValue     starlark.Value = starlark.None
		absolute        bool
		onlyFiles       = true
		onlyDirectories bool
	)
	if err := starlark.UnpackArgs(fnName, args, kwargs,
		"patterns", &patternsValue,
		"cwd?", &cwdValue,
		"ignore?", &ignoreValue,
		"absolute?", &absolute,
		"onlyFiles?", &onlyFiles,
		"onlyDirectories?", &onlyDirectories,
	); err != nil {
		return nil, err
	}

	patterns, err := toStrings(api, fnName, "patterns", patternsValue)
	if err != nil {
		return nil, err
	}
	cwd, err := toOptionalString(api, fnName, "cwd", cwdValue)
	if err != nil {
		return nil, err
	}
	ignore, err := toStrings(api, fnName, "ignore", ignoreValue)
	if err != nil {
		return nil, err
	}

	matches, err := api.Glob(patterns, pathtools.GlobOptions{
		Cwd:         cwd,
		Ignore:      ignore,
		Absolute:    absolute,
		IncludeDirs: !onlyFiles,
		OnlyDirs:    onlyDirectories,
	})
	if err != nil {
		return nil, err
	}
	return fromStrings(matches), nil
}

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
	"sort"

	"go.starlark.net/starlark"

	"github.com/shinobi-build/shinobi"
)

// envValue is the Starlark "env" global: a mapping that reads and writes the
// environment of the run.  Assigning None to a key unsets it.
type envValue struct {
	api *shinobi.API
	env shinobi.Env
}

var (
	_ starlark.Mapping   = (*envValue)(nil)
	_ starlark.HasSetKey = (*envValue)(nil)
	_ starlark.HasAttrs  = (*envValue)(nil)
)

func newEnvValue(api *shinobi.API) *envValue {
	return &envValue{api: api, env: api.Env()}
}

func (e *envValue) String() string        { return "<env>" }
func (e *envValue) Type() string          { return "env" }
func (e *envValue) Freeze()               {}
func (e *envValue) Truth() starlark.Bool  { return starlark.True }
func (e *envValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: env") }

func (e *envValue) Get(k starlark.Value) (starlark.Value, bool, error) {
	key, err := toString(e.api, "env", "key", k)
	if err != nil {
		return nil, false, err
	}
	v, ok := e.env.Lookup(key)
	if !ok {
		return nil, false, nil
	}
	return starlark.String(v), true, nil
}

func (e *envValue) SetKey(k, v starlark.Value) error {
	key, err := toString(e.api, "env", "key", k)
	if err != nil {
		return err
	}
	if v == starlark.None {
		return e.env.Unset(key)
	}
	value, err := toString(e.api, "env", "value of "+key, v)
	if err != nil {
		return err
	}
	return e.env.Set(key, value)
}

var envMethods = map[string]func(e *envValue, fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error){
	"get":   (*envValue).get,
	"keys":  (*envValue).keys,
	"unset": (*envValue).unset,
}

func (e *envValue) Attr(name string) (starlark.Value, error) {
	method, ok := envMethods[name]
	if !ok {
		return nil, nil
	}
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin,
		args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return method(e, "env."+b.Name(), args, kwargs)
	}).BindReceiver(e), nil
}

func (e *envValue) AttrNames() []string {
	names := make([]string, 0, len(envMethods))
	for name := range envMethods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *envValue) get(fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(fnName, args, kwargs, "key", &key, "default?", &def); err != nil {
		return nil, err
	}
	if v, ok := e.env.Lookup(key); ok {
		return starlark.String(v), nil
	}
	return def, nil
}

func (e *envValue) keys(fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(fnName, args, kwargs); err != nil {
		return nil, err
	}
	return fromStrings(e.env.Keys()), nil
}

func (e *envValue) unset(fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	if err := starlark.UnpackArgs(fnName, args, kwargs, "key", &key); err != nil {
		return nil, err
	}
	return starlark.None, e.env.Unset(key)
}

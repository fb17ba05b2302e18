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
)

func invalidArgument(api *shinobi.API, format string, args ...any) error {
	return &shinobi.Error{
		Kind:   shinobi.ErrInvalidArgument,
		Source: api.CurrentFile(),
		Msg:    fmt.Sprintf(format, args...),
	}
}

// toValue converts a Starlark value into a shinobi.Value.  Only None,
// strings, bools, numbers and lists or tuples of those are accepted.
func toValue(api *shinobi.API, fnName, what string, v starlark.Value) (shinobi.Value, error) {
	switch v := v.(type) {
	case nil, starlark.NoneType:
		return nil, nil
	case starlark.String:
		return string(v), nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		return v.BigInt(), nil
	case starlark.Float:
		return float64(v), nil
	case *starlark.List, starlark.Tuple:
		iter := starlark.Iterate(v)
		defer iter.Done()
		ret := []shinobi.Value{}
		var elem starlark.Value
		for iter.Next(&elem) {
			converted, err := toValue(api, fnName, what, elem)
			if err != nil {
				return nil, err
			}
			ret = append(ret, converted)
		}
		return ret, nil
	}
	return nil, invalidArgument(api, "%s: %s must be a string, number, bool, None or list, got %s",
		fnName, what, v.Type())
}

// toString converts a Starlark string argument, failing for anything else.
func toString(api *shinobi.API, fnName, what string, v starlark.Value) (string, error) {
	s, ok := starlark.AsString(v)
	if !ok {
		return "", invalidArgument(api, "%s: %s should be a string, got %s", fnName, what, typeName(v))
	}
	return s, nil
}

// toOptionalString is toString that also accepts None, returning "".
func toOptionalString(api *shinobi.API, fnName, what string, v starlark.Value) (string, error) {
	if v == nil || v == starlark.None {
		return "", nil
	}
	return toString(api, fnName, what, v)
}

// toStrings converts a string or a list or tuple of strings.
func toStrings(api *shinobi.API, fnName, what string, v starlark.Value) ([]string, error) {
	if v == nil || v == starlark.None {
		return nil, nil
	}
	if s, ok := starlark.AsString(v); ok {
		return []string{s}, nil
	}

	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, invalidArgument(api, "%s: %s should be a string or a list of strings, got %s",
			fnName, what, v.Type())
	}
	iter := iterable.Iterate()
	defer iter.Done()
	var ret []string
	var elem starlark.Value
	for iter.Next(&elem) {
		s, ok := starlark.AsString(elem)
		if !ok {
			return nil, invalidArgument(api, "%s: %s should only contain strings, got %s",
				fnName, what, elem.Type())
		}
		ret = append(ret, s)
	}
	return ret, nil
}

// toProperties converts the items of a dict into properties, in insertion
// order.
func toProperties(api *shinobi.API, fnName, what string, v starlark.Value) ([]shinobi.Property, error) {
	if v == nil || v == starlark.None {
		return nil, nil
	}
	dict, ok := v.(*starlark.Dict)
	if !ok {
		return nil, invalidArgument(api, "%s: %s should be a dict, got %s", fnName, what, v.Type())
	}

	var props []shinobi.Property
	for _, item := range dict.Items() {
		name, ok := starlark.AsString(item[0])
		if !ok {
			return nil, invalidArgument(api, "%s: %s keys should be strings, got %s",
				fnName, what, item[0].Type())
		}
		value, err := toValue(api, fnName, fmt.Sprintf("%s[%q]", what, name), item[1])
		if err != nil {
			return nil, err
		}
		props = append(props, shinobi.Property{Name: name, Value: value})
	}
	return props, nil
}

func fromStrings(strs []string) *starlark.List {
	elems := make([]starlark.Value, len(strs))
	for i, s := range strs {
		elems[i] = starlark.String(s)
	}
	return starlark.NewList(elems)
}

func typeName(v starlark.Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Type()
}

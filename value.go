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
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
)

// A Value is anything a build script may pass where a string is expected:
// nil, a string, a bool, an integer, a float, a *big.Int, or a slice of
// those.  Values are coerced to strings when they are stored.
type Value = any

// A Property is one entry of an ordered name/value list, such as the
// properties of a rule or the variables of a build statement.
type Property struct {
	Name  string
	Value Value
}

// An Assignment is a coerced Property.
type Assignment struct {
	Name  string
	Value string
}

// stringifyValue coerces v to its canonical string form.  It returns false if
// v is nil.  Slices have their nil elements dropped and the rest joined with
// a single space.
func stringifyValue(v Value) (string, bool) {
	if isNil(v) {
		return "", false
	}

	if elems, ok := sliceElems(v); ok {
		parts := make([]string, 0, len(elems))
		for _, elem := range elems {
			if s, ok := stringifyValue(elem); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " "), true
	}

	return scalarString(v), true
}

// isNil reports whether v is nil, including a nil *big.Int.
func isNil(v Value) bool {
	if v == nil {
		return true
	}
	b, ok := v.(*big.Int)
	return ok && b == nil
}

// arrayifyValue coerces v to a list of strings.  A slice has each element
// coerced individually with nil elements dropped; any other non-nil value
// becomes a single-element list.
func arrayifyValue(v Value) []string {
	if elems, ok := sliceElems(v); ok {
		ret := make([]string, 0, len(elems))
		for _, elem := range elems {
			if s, ok := stringifyValue(elem); ok {
				ret = append(ret, s)
			}
		}
		return ret
	}

	if s, ok := stringifyValue(v); ok {
		return []string{s}
	}
	return []string{}
}

// objectifyValues coerces each property's value, dropping properties whose
// value is nil.  A repeated name replaces the earlier value but keeps the
// earlier position.
func objectifyValues(props []Property) []Assignment {
	index := make(map[string]int, len(props))
	var merged []Property
	for _, p := range props {
		if i, ok := index[p.Name]; ok {
			merged[i].Value = p.Value
			continue
		}
		index[p.Name] = len(merged)
		merged = append(merged, p)
	}

	ret := make([]Assignment, 0, len(merged))
	for _, p := range merged {
		if s, ok := stringifyValue(p.Value); ok {
			ret = append(ret, Assignment{Name: p.Name, Value: s})
		}
	}
	return ret
}

// checkValue returns an error if v, or any element of v, is not one of the
// kinds of Value.  Nested slices are allowed and flatten when coerced.
func checkValue(v Value) error {
	if elems, ok := sliceElems(v); ok {
		for _, elem := range elems {
			if err := checkValue(elem); err != nil {
				return err
			}
		}
		return nil
	}

	switch v.(type) {
	case nil, string, bool, *big.Int, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return nil
	}
	return fmt.Errorf("unsupported value %v of type %T", v, v)
}

func sliceElems(v Value) ([]Value, bool) {
	switch v := v.(type) {
	case []Value:
		return v, true
	case []string:
		elems := make([]Value, len(v))
		for i, s := range v {
			elems[i] = s
		}
		return elems, true
	case string, []byte:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	elems := make([]Value, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}

func scalarString(v Value) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case *big.Int:
		return v.String()
	case []byte:
		return string(v)
	}
	panic(fmt.Sprintf("unexpected value %v of type %T", v, v))
}

// formatFloat renders f the way script authors expect numbers to print:
// integral values without a fraction, and the shortest representation that
// round-trips otherwise.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// 1e-07 -> 1e-7
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		exp = strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + string(sign) + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

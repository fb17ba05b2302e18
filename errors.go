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
	"encoding/json"
	"errors"
	"fmt"
)

// Kinds of Error.  Use errors.Is to test an error returned by the API or the
// renderer against one of these.
var (
	ErrReservedName         = errors.New("reserved variable name")
	ErrDuplicateDeclaration = errors.New("duplicate variable declaration")
	ErrUndeclaredVariable   = errors.New("undeclared variable")
	ErrDuplicateRule        = errors.New("duplicate rule")
	ErrMissingCommand       = errors.New("missing rule command")
	ErrUnknownRule          = errors.New("unknown rule")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrNoCurrentFile        = errors.New("no current file")
)

// An Error describes a problem with a call made by a build script.
type Error struct {
	Kind   error  // one of the Err* kinds above
	Source string // the script the call was attributed to, if known
	Msg    string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, source string, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Source: source,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// An UnknownRuleError is returned when rendering a build statement whose rule
// was never declared.
type UnknownRuleError struct {
	Output string   // the build statement's output
	Rule   string   // the rule it asked for
	Known  []string // the declared rules, sorted
	Source string   // the script that declared the build statement
}

func (e *UnknownRuleError) Error() string {
	known, _ := json.Marshal(e.Known)
	return fmt.Sprintf("Build for %q asked for rule %q, but no such rule had been defined! "+
		"The rules we had were: %s.", e.Output, e.Rule, known)
}

func (e *UnknownRuleError) Unwrap() error {
	return ErrUnknownRule
}

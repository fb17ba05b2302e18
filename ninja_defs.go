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
	"sort"
	"strings"
)

// A Variable is a top-level Ninja variable declared by a build script.
type Variable struct {
	Name   string
	Value  string
	Source string // The script that declared or last overrode the variable.
}

func (v *Variable) WriteTo(nw *ninjaWriter) error {
	err := nw.Comment(fmt.Sprintf("variable '%s' from %s", v.Name, v.Source))
	if err != nil {
		return err
	}
	return nw.Assign(v.Name, v.Value)
}

// A Rule is a Ninja rule declared by a build script.
type Rule struct {
	Name string

	// Properties are the rule's Ninja variables, such as command and
	// description, in declaration order.
	Properties []Assignment

	// ImplicitInputs are added to the implicit inputs of every build
	// statement that uses the rule.
	ImplicitInputs []string

	Source string
}

// Property returns the value of the named property.
func (r *Rule) Property(name string) (string, bool) {
	for _, p := range r.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

func (r *Rule) WriteTo(nw *ninjaWriter) error {
	err := nw.Comment(fmt.Sprintf("rule '%s' from %s", r.Name, r.Source))
	if err != nil {
		return err
	}

	err = nw.Rule(r.Name)
	if err != nil {
		return err
	}

	err = writeAssignments(nw, r.Properties)
	if err != nil {
		return err
	}

	if len(r.ImplicitInputs) > 0 {
		err = nw.ScopedComment("with implicit inputs: " + strings.Join(r.ImplicitInputs, " "))
		if err != nil {
			return err
		}
	}

	return nil
}

// A Build is a Ninja build statement declared by a build script.  The rule is
// referenced by name and only resolved when the manifest is written, so build
// statements may be declared before the rules they use.
type Build struct {
	Output         string
	Rule           string
	Inputs         []string
	ImplicitInputs []string
	RuleVariables  []Assignment // Variables set in the build statement's scope.
	Source         string
}

// A BuildParams object contains the parameters of a call to API.Build.  Each
// of the Value fields is coerced the same way a variable's value is.
type BuildParams struct {
	Output         string
	Rule           string
	Inputs         Value
	ImplicitInputs Value
	RuleVariables  []Property
}

// A buildDef is a Build whose rule has been resolved.
type buildDef struct {
	*Build
	RuleDef *Rule
}

// resolveBuilds resolves the rule of every build statement.  It fails on the
// first build statement that names a rule that doesn't exist.
func resolveBuilds(state *State) ([]buildDef, error) {
	builds := state.Builds()
	defs := make([]buildDef, len(builds))
	for i, b := range builds {
		rule, ok := state.Rule(b.Rule)
		if !ok {
			return nil, &UnknownRuleError{
				Output: b.Output,
				Rule:   b.Rule,
				Known:  sortedRuleNames(state),
				Source: b.Source,
			}
		}
		defs[i] = buildDef{Build: b, RuleDef: rule}
	}
	return defs, nil
}

func sortedRuleNames(state *State) []string {
	rules := state.Rules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	sort.Strings(names)
	return names
}

// Implicits returns the build statement's own implicit inputs followed by
// those of its rule.  Duplicates are kept.
func (b buildDef) Implicits() []string {
	implicits := make([]string, 0, len(b.ImplicitInputs)+len(b.RuleDef.ImplicitInputs))
	implicits = append(implicits, b.ImplicitInputs...)
	return append(implicits, b.RuleDef.ImplicitInputs...)
}

func (b buildDef) WriteTo(nw *ninjaWriter) error {
	err := nw.Comment(fmt.Sprintf("build for '%s' from %s", b.Output, b.Source))
	if err != nil {
		return err
	}

	err = nw.Build(b.Output, b.Rule, b.Inputs, b.Implicits())
	if err != nil {
		return err
	}

	return writeAssignments(nw, b.RuleVariables)
}

func writeAssignments(nw *ninjaWriter, assignments []Assignment) error {
	for _, a := range assignments {
		err := nw.ScopedAssign(a.Name, a.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

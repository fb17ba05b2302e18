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

// A State accumulates the variables, rules and build statements declared by
// build scripts.  It does no validation of its own; that is the job of the
// API.  Variables and rules are kept in declaration order.
type State struct {
	vars      map[string]*Variable
	varOrder  []string
	rules     map[string]*Rule
	ruleOrder []string
	builds    []*Build

	// currentFile is the script that records created by API calls are
	// attributed to.  It is only set while a script is being run.
	currentFile string
}

func NewState() *State {
	return &State{
		vars:  make(map[string]*Variable),
		rules: make(map[string]*Rule),
	}
}

// SetVariable stores v, replacing any variable with the same name in place.
func (s *State) SetVariable(v *Variable) {
	if _, exists := s.vars[v.Name]; !exists {
		s.varOrder = append(s.varOrder, v.Name)
	}
	s.vars[v.Name] = v
}

// Variable returns the variable with the given name, if it has been declared.
func (s *State) Variable(name string) (*Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Variables returns every variable in declaration order.
func (s *State) Variables() []*Variable {
	ret := make([]*Variable, len(s.varOrder))
	for i, name := range s.varOrder {
		ret[i] = s.vars[name]
	}
	return ret
}

func (s *State) HasRule(name string) bool {
	_, ok := s.rules[name]
	return ok
}

// Rule returns the rule with the given name, if it has been declared.
func (s *State) Rule(name string) (*Rule, bool) {
	r, ok := s.rules[name]
	return r, ok
}

// SetRule stores r, replacing any rule with the same name in place.
func (s *State) SetRule(r *Rule) {
	if _, exists := s.rules[r.Name]; !exists {
		s.ruleOrder = append(s.ruleOrder, r.Name)
	}
	s.rules[r.Name] = r
}

// Rules returns every rule in declaration order.
func (s *State) Rules() []*Rule {
	ret := make([]*Rule, len(s.ruleOrder))
	for i, name := range s.ruleOrder {
		ret[i] = s.rules[name]
	}
	return ret
}

func (s *State) AppendBuild(b *Build) {
	s.builds = append(s.builds, b)
}

// Builds returns every build statement in declaration order.
func (s *State) Builds() []*Build {
	return append([]*Build(nil), s.builds...)
}

func (s *State) CurrentFile() string {
	return s.currentFile
}

func (s *State) SetCurrentFile(filename string) {
	s.currentFile = filename
}

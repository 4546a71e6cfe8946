// Copyright 2026 The Greekc Authors. All rights reserved.
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

// Package ast defines the typed abstract syntax tree shared by the parser,
// checker, and code generator.
package ast

import "strings"

// Type is a type expression: a primary name plus either the `@` subtype
// syntax (a single nested type, e.g. `ptr@Point`) or a `[...]` generic
// parameter list (e.g. `Box[int, str]`). At most one of Subtype/Params is
// set.
type Type struct {
	Name    string
	Subtype *Type
	Params  []Type
}

// Canonical built-in type names (spec §3).
const (
	Int   = "int"
	Float = "float"
	Char  = "char"
	Str   = "str"
	Bool  = "bool"
	Void  = "void"
	Ptr   = "ptr"
	Kind  = "type" // the type-of-types
	Any   = "any"  // compares equal to every type
)

// NewType returns a bare, non-generic, non-subtyped Type.
func NewType(name string) Type { return Type{Name: name} }

// NewSubtype returns the `@`-syntax type `name@sub`.
func NewSubtype(name string, sub Type) Type { return Type{Name: name, Subtype: &sub} }

// NewGeneric returns the `[...]`-syntax type `name[params...]`.
func NewGeneric(name string, params ...Type) Type { return Type{Name: name, Params: params} }

// Equal reports whether t and other denote the same type. The special
// name "any" compares equal to everything (used for generic positions);
// otherwise two types are equal when their names, subtype, and parameter
// lists match structurally.
func (t Type) Equal(other Type) bool {
	if t.Name == Any || other.Name == Any {
		return true
	}
	if t.Name != other.Name {
		return false
	}
	if (t.Subtype == nil) != (other.Subtype == nil) {
		return false
	}
	if t.Subtype != nil && !t.Subtype.Equal(*other.Subtype) {
		return false
	}
	if len(t.Params) != len(other.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equal(other.Params[i]) {
			return false
		}
	}
	return true
}

// IsGeneric reports whether the type carries a `[...]` parameter list.
func (t Type) IsGeneric() bool { return len(t.Params) > 0 }

// Canonical renders the type's textual form used for signature comparison
// and name mangling: `name`, `name@sub`, or `name_T1_T2...`.
func (t Type) Canonical() string {
	if t.Subtype != nil {
		return t.Name + "@" + t.Subtype.Canonical()
	}
	if len(t.Params) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.Canonical()
	}
	return t.Name + "_" + strings.Join(parts, "_")
}

func (t Type) String() string { return t.Canonical() }

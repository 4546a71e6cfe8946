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

// Package checker walks a module's AST, builds its symbol table, verifies
// type rules, resolves call sites, and recursively checks imports.
//
// The Module type is the Go encoding of the `Module` dataclass in the
// reference implementation's checker.py: a named scope of sub-modules,
// variables, constants, structs, enums, and overload-keyed functions.
package checker

import "greekc/internal/ast"

// overload is one registered signature of a function name: its ordered
// parameter types plus the declaring function or extern. A name's
// overloads are kept as a slice and matched by findOverload with
// ast.Type.Equal, so "any" positions match every type (spec §3).
type overload struct {
	signature []ast.Type
	fn        *ast.FunctionDeclaration // nil for externs
	extern    *ast.Extern              // nil for declared functions
}

// ParamTypes returns the overload's parameter type tuple.
func (o overload) ParamTypes() []ast.Type { return o.signature }

// FunctionDecl returns the declared function body, or nil if this
// overload is an extern.
func (o overload) FunctionDecl() *ast.FunctionDeclaration { return o.fn }

// Extern returns the extern declaration, or nil if this overload has a
// body.
func (o overload) Extern() *ast.Extern { return o.extern }

// Module is the symbol table for one checked source file.
//
// Go maps don't preserve insertion order the way the reference
// implementation's Python dicts do, so each map is paired with an
// Order slice recording declaration order (spec O3) for the code
// generator to walk deterministically.
type Module struct {
	Name      string
	Modules   map[string]*Module
	Variables map[string]ast.Type // declared variable/parameter types
	Lets      map[string]*ast.Let // declaring Let nodes of declared variables
	Constants map[string]*ast.Let
	Structs   map[string]*ast.StructDeclaration
	Enums     map[string]*ast.EnumDeclaration
	Functions map[string][]overload

	ModuleOrder   []string
	ConstantOrder []string
	StructOrder   []string
	EnumOrder     []string
	FunctionOrder []string
}

// NewModule returns an empty Module named name.
func NewModule(name string) *Module {
	return &Module{
		Name:      name,
		Modules:   map[string]*Module{},
		Variables: map[string]ast.Type{},
		Lets:      map[string]*ast.Let{},
		Constants: map[string]*ast.Let{},
		Structs:   map[string]*ast.StructDeclaration{},
		Enums:     map[string]*ast.EnumDeclaration{},
		Functions: map[string][]overload{},
	}
}

// Copy returns a shallow copy of m: a fresh scope whose maps alias the
// same values but can be mutated (new keys added) without affecting the
// original. This mirrors Module.copy() in the reference checker, used
// when entering a function body or a struct's method scope.
func (m *Module) Copy() *Module {
	cp := &Module{
		Name:      m.Name,
		Modules:   make(map[string]*Module, len(m.Modules)),
		Variables: make(map[string]ast.Type, len(m.Variables)),
		Lets:      make(map[string]*ast.Let, len(m.Lets)),
		Constants: make(map[string]*ast.Let, len(m.Constants)),
		Structs:   make(map[string]*ast.StructDeclaration, len(m.Structs)),
		Enums:     make(map[string]*ast.EnumDeclaration, len(m.Enums)),
		Functions: make(map[string][]overload, len(m.Functions)),

		ModuleOrder:   append([]string(nil), m.ModuleOrder...),
		ConstantOrder: append([]string(nil), m.ConstantOrder...),
		StructOrder:   append([]string(nil), m.StructOrder...),
		EnumOrder:     append([]string(nil), m.EnumOrder...),
		FunctionOrder: append([]string(nil), m.FunctionOrder...),
	}
	for k, v := range m.Modules {
		cp.Modules[k] = v
	}
	for k, v := range m.Variables {
		cp.Variables[k] = v
	}
	for k, v := range m.Lets {
		cp.Lets[k] = v
	}
	for k, v := range m.Constants {
		cp.Constants[k] = v
	}
	for k, v := range m.Structs {
		cp.Structs[k] = v
	}
	for k, v := range m.Enums {
		cp.Enums[k] = v
	}
	for k, v := range m.Functions {
		cp.Functions[k] = append([]overload(nil), v...)
	}
	return cp
}

// registerFunction adds a declared function's overload, keyed by name. It
// reports ok=false without registering anything if name is already
// registered under the identical parameter-type tuple (spec I2: within a
// given function name the parameter-type tuple is unique).
func (m *Module) registerFunction(name string, params []ast.Type, fn *ast.FunctionDeclaration) (ok bool) {
	if _, exists := findOverload(m.Functions[name], params); exists {
		return false
	}
	if len(m.Functions[name]) == 0 {
		m.FunctionOrder = append(m.FunctionOrder, name)
	}
	m.Functions[name] = append(m.Functions[name], overload{signature: params, fn: fn})
	return true
}

// registerExtern adds an extern function's overload, keyed by name. Same
// duplicate-signature rejection as registerFunction.
func (m *Module) registerExtern(name string, params []ast.Type, ext *ast.Extern) (ok bool) {
	if _, exists := findOverload(m.Functions[name], params); exists {
		return false
	}
	if len(m.Functions[name]) == 0 {
		m.FunctionOrder = append(m.FunctionOrder, name)
	}
	m.Functions[name] = append(m.Functions[name], overload{signature: params, extern: ext})
	return true
}

// findOverload returns the overload whose parameter types equal want,
// per ast.Type.Equal (so "any" parameter positions match anything), plus
// whether one was found.
func findOverload(candidates []overload, want []ast.Type) (overload, bool) {
	for _, c := range candidates {
		if signatureEquals(c.signature, want) {
			return c, true
		}
	}
	return overload{}, false
}

func signatureEquals(a, b []ast.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

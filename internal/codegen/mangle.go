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

package codegen

import (
	"strings"

	"greekc/internal/ast"
	"greekc/internal/checker"
	"greekc/internal/collections"
)

// collectMangled walks the module tree once (any order; mangling of one
// declaration never depends on another module's contents) and assigns
// every function and method head its C identifier, keyed by the exact
// *ast.FunctionHead pointer the checker attached to each Call.ResolvedFunc
// (spec §4.5 name-mangling table).
func collectMangled(m *checker.Module, mangled map[*ast.FunctionHead]string, seen collections.Set[string]) {
	if seen.Contains(m.Name) {
		return
	}
	seen.Add(m.Name)

	for _, name := range m.ModuleOrder {
		collectMangled(m.Modules[name], mangled, seen)
	}

	for _, name := range m.FunctionOrder {
		overloads := m.Functions[name]
		overloaded := len(overloads) > 1
		for _, ov := range overloads {
			if ext := ov.Extern(); ext != nil {
				// Externs are resolved at link time under their declared
				// name, never mangled.
				mangled[ext.Head] = ext.Head.Name
				continue
			}
			head := ov.FunctionDecl().Head
			mangled[head] = mangleFunction(m.Name, name, head.Signature(), overloaded)
		}
	}

	for _, name := range m.StructOrder {
		strct := m.Structs[name]
		for _, method := range strct.MethodList {
			overloaded := len(strct.Methods[method.Head.Name]) > 1
			mangled[method.Head] = mangleMethod(method.Head.OwningStruct, method.Head.Name, method.Head.Signature(), overloaded)
		}
	}
}

func mangleFunction(moduleName, name string, params []ast.Type, overloaded bool) string {
	if name == "main" {
		return "main"
	}
	base := strings.ReplaceAll(moduleName, ".", "__") + "__" + name
	if overloaded {
		return base + "__" + paramSuffix(params)
	}
	return base
}

func mangleMethod(structName, name string, params []ast.Type, overloaded bool) string {
	base := structName + "__" + name
	if overloaded {
		return base + "__" + paramSuffix(params)
	}
	return base
}

func paramSuffix(params []ast.Type) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Canonical()
	}
	return strings.Join(parts, "_")
}

// compileType renders a type expression as a C type. `ptr@T` becomes
// `T*`; any other subtyped or generic form falls back to its canonical
// name. For a generic struct the typedef is named after its declared type
// variables (`Box[T]` -> `Box_T`), so an instantiation such as `Box[int]`
// renders as `Box_int`, which no typedef declares.
func compileType(t ast.Type) string {
	if t.Subtype != nil {
		if t.Name == ast.Ptr {
			return compileType(*t.Subtype) + "*"
		}
		return t.Canonical()
	}
	if len(t.Params) == 0 {
		return t.Name
	}
	return t.Canonical()
}

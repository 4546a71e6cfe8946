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

// Package codegen renders a checked module tree as a single C translation
// unit (spec §4.5), walking sub-modules in post-order and mangling names
// per the canonical table in spec §4.5.
package codegen

import (
	"fmt"
	"strings"

	"greekc/internal/ast"
	"greekc/internal/checker"
	"greekc/internal/collections"
)

const preamble = `#define _CRT_SECURE_NO_WARNINGS
#define _CRT_NONSTDC_NO_DEPRECATE
#define any  char*
#define str  char*
#define ptr  char*
#include <stdbool.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <memory.h>
#include <malloc.h>
`

type generator struct {
	mangled  map[*ast.FunctionHead]string
	compiled collections.Set[string] // module names already emitted (spec O4)
}

// Emit renders module and every module it transitively imports as a
// single C translation unit: the preamble followed by each module's
// constants, enums, structs, and functions, leaves-first.
func Emit(module *checker.Module) (string, error) {
	mangled := map[*ast.FunctionHead]string{}
	collectMangled(module, mangled, collections.NewSet[string]())

	g := &generator{
		mangled:  mangled,
		compiled: collections.NewSet[string](),
	}

	var out strings.Builder
	out.WriteString(preamble)
	if err := g.emitModule(module, &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (g *generator) emitModule(m *checker.Module, out *strings.Builder) error {
	if g.compiled.Contains(m.Name) {
		return nil
	}
	g.compiled.Add(m.Name)

	for _, name := range m.ModuleOrder {
		if err := g.emitModule(m.Modules[name], out); err != nil {
			return err
		}
	}

	for _, name := range m.ConstantOrder {
		line, err := g.emitConstant(m, m.Constants[name])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, line)
	}

	for _, name := range m.EnumOrder {
		fmt.Fprintln(out, emitEnum(m.Enums[name]))
	}

	for _, name := range m.StructOrder {
		lines, err := g.emitStruct(m, m.Structs[name])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, lines)
	}

	for _, name := range m.FunctionOrder {
		for _, ov := range m.Functions[name] {
			if ext := ov.Extern(); ext != nil {
				fmt.Fprintln(out, emitExternComment(ext))
				continue
			}
			line, err := g.emitFunction(m, ov.FunctionDecl())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, line)
		}
	}

	return nil
}

func (g *generator) emitConstant(m *checker.Module, let *ast.Let) (string, error) {
	value, err := g.emitExpr(m, let.Value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#define %s %s", let.Name, value), nil
}

func emitEnum(decl *ast.EnumDeclaration) string {
	members := make([]string, len(decl.Members))
	for i, member := range decl.Members {
		members[i] = decl.Name + "_" + member
	}
	return fmt.Sprintf("typedef enum { %s } %s;", strings.Join(members, ", "), decl.Name)
}

func (g *generator) emitStruct(m *checker.Module, decl *ast.StructDeclaration) (string, error) {
	fields := make([]string, len(decl.Members))
	for i, member := range decl.Members {
		fields[i] = fmt.Sprintf("%s %s;", compileType(member.Type), member.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "typedef struct { %s } %s;", strings.Join(fields, " "), decl.Name.Canonical())

	for _, method := range decl.MethodList {
		line, err := g.emitFunction(m, method)
		if err != nil {
			return "", err
		}
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String(), nil
}

func (g *generator) emitFunction(m *checker.Module, fn *ast.FunctionDeclaration) (string, error) {
	head := fn.Head
	name, ok := g.mangled[head]
	if !ok {
		name = head.Name
	}

	params := make([]string, len(head.ParamNames))
	for i, pname := range head.ParamNames {
		params[i] = fmt.Sprintf("%s %s", compileType(head.ParamTypes[i]), pname)
	}

	scope := m.Copy()
	for i, pname := range head.ParamNames {
		scope.Variables[pname] = head.ParamTypes[i]
	}

	body, err := g.emitBody(scope, fn.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s(%s) %s", compileType(head.ReturnType), name, strings.Join(params, ", "), body), nil
}

// emitExternComment documents an extern's expected C signature without
// defining it: externs are resolved at link time, by name, against the
// host C toolchain (e.g. libc's printf).
func emitExternComment(ext *ast.Extern) string {
	head := ext.Head
	params := make([]string, len(head.ParamNames))
	for i, pname := range head.ParamNames {
		params[i] = fmt.Sprintf("%s %s", compileType(head.ParamTypes[i]), pname)
	}
	return fmt.Sprintf("// %s %s(%s);", compileType(head.ReturnType), head.Name, strings.Join(params, ", "))
}

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
	"fmt"
	"strings"

	"greekc/internal/ast"
	"greekc/internal/checker"
	"greekc/internal/diag"
)

// emitBody renders a brace-delimited statement sequence (spec §4.5 Body
// emission). Indentation is cosmetic only.
func (g *generator) emitBody(scope *checker.Module, body *ast.Body) (string, error) {
	var b strings.Builder
	b.WriteString("{\n")
	for _, stmt := range body.Lines {
		line, err := g.emitStmt(scope, stmt)
		if err != nil {
			return "", err
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String(), nil
}

func (g *generator) emitStmt(scope *checker.Module, stmt ast.Stmt) (string, error) {
	switch s := stmt.(type) {
	case *ast.Let:
		return g.emitLet(scope, s)

	case *ast.Assignment:
		target, err := g.emitExpr(scope, s.Target)
		if err != nil {
			return "", err
		}
		value, err := g.emitExpr(scope, s.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s;", target, s.Op.String(), value), nil

	case *ast.Return:
		if s.Value == nil {
			return "return;", nil
		}
		value, err := g.emitExpr(scope, s.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("return %s;", value), nil

	case *ast.If:
		cond, err := g.emitExpr(scope, s.Cond)
		if err != nil {
			return "", err
		}
		body, err := g.emitBody(scope, s.Body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("if (%s) %s", cond, body), nil

	case *ast.Else:
		body, err := g.emitBody(scope, s.Body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("else %s", body), nil

	case *ast.While:
		cond, err := g.emitExpr(scope, s.Cond)
		if err != nil {
			return "", err
		}
		body, err := g.emitBody(scope, s.Body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("while (%s) %s", cond, body), nil

	case *ast.ExprStmt:
		value, err := g.emitExpr(scope, s.X)
		if err != nil {
			return "", err
		}
		return value + ";", nil

	default:
		return "", &diag.NotImplementedError{Line: stmt.Pos(), Module: scope.Name, Message: "unsupported statement in code generator"}
	}
}

// emitLet renders a local declaration. An `array[T]` type declares as a
// bracketed C array (`T name[] = {...}`) rather than by its mangled type
// name, mirroring the reference compiler's `list` special case.
func (g *generator) emitLet(scope *checker.Module, let *ast.Let) (string, error) {
	value, err := g.emitExpr(scope, let.Value)
	if err != nil {
		return "", err
	}
	scope.Variables[let.Name] = let.Type

	if let.Type.Name == "array" && len(let.Type.Params) == 1 {
		return fmt.Sprintf("%s %s[] = %s;", compileType(let.Type.Params[0]), let.Name, value), nil
	}
	return fmt.Sprintf("%s %s = %s;", compileType(let.Type), let.Name, value), nil
}

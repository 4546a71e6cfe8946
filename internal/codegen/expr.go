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
	"strconv"
	"strings"

	"greekc/internal/ast"
	"greekc/internal/checker"
	"greekc/internal/diag"
)

// emitExpr renders expr as a C expression. scope tracks the types of
// names visible at this point, re-derived during emission the same way
// the checker derived them during checking (spec §4.5 Expression
// emission): the two passes walk the same AST independently, so codegen
// keeps its own running *checker.Module rather than reusing the
// checker's (already-discarded) scope.
func (g *generator) emitExpr(scope *checker.Module, expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Name:
		if _, ok := scope.Structs[e.Value]; ok {
			return fmt.Sprintf("sizeof(%s)", e.Value), nil
		}
		return e.Value, nil

	case *ast.Literal:
		return emitLiteral(e), nil

	case *ast.Parenthesized:
		inner, err := g.emitExpr(scope, e.Inner)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil

	case *ast.Not:
		inner, err := g.emitExpr(scope, e.Inner)
		if err != nil {
			return "", err
		}
		return "!" + inner, nil

	case *ast.BinaryOperation:
		left, err := g.emitExpr(scope, e.Left)
		if err != nil {
			return "", err
		}
		right, err := g.emitExpr(scope, e.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, e.Op.String(), right), nil

	case *ast.Dot:
		return g.emitDot(scope, e)

	case *ast.Item:
		left, err := g.emitExpr(scope, e.Left)
		if err != nil {
			return "", err
		}
		if len(e.Args) != 1 {
			return "", &diag.NotImplementedError{Line: e.Pos(), Module: scope.Name, Message: "indexing takes exactly one argument"}
		}
		index, err := g.emitExpr(scope, e.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", left, index), nil

	case *ast.Call:
		return g.emitCall(scope, e)

	case *ast.Struct:
		fields := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			v, err := g.emitExpr(scope, f)
			if err != nil {
				return "", err
			}
			fields[i] = v
		}
		return fmt.Sprintf("(%s){%s}", compileType(e.Kind), strings.Join(fields, ", ")), nil

	case *ast.Array:
		values := make([]string, len(e.Values))
		for i, v := range e.Values {
			s, err := g.emitExpr(scope, v)
			if err != nil {
				return "", err
			}
			values[i] = s
		}
		return "{" + strings.Join(values, ", ") + "}", nil
	}

	return "", &diag.NotImplementedError{Line: expr.Pos(), Module: scope.Name, Message: "unsupported expression in code generator"}
}

func emitLiteral(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.LiteralInt:
		return strconv.FormatInt(lit.Int, 10)
	case ast.LiteralFloat:
		s := strconv.FormatFloat(lit.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case ast.LiteralString:
		// Source and C share escape syntax (\n, \t, ...); the lexer keeps
		// string bodies verbatim, so quoting needs no re-escaping.
		return `"` + lit.Str + `"`
	case ast.LiteralBool:
		return strconv.FormatBool(lit.Bool)
	}
	return ""
}

// emitDot renders `a.b`, switching to `a->b` when a is a pointer-typed
// variable and to `EnumName_Member` when a names an enum (spec §4.5).
func (g *generator) emitDot(scope *checker.Module, dot *ast.Dot) (string, error) {
	leftName, leftOk := dot.Left.(*ast.Name)
	rightName, rightOk := dot.Right.(*ast.Name)
	if !leftOk || !rightOk {
		return "", &diag.NotImplementedError{Line: dot.Pos(), Module: scope.Name, Message: "dot access requires names on both sides"}
	}

	if _, ok := scope.Enums[leftName.Value]; ok {
		return leftName.Value + "_" + rightName.Value, nil
	}

	if varType, ok := scope.Variables[leftName.Value]; ok && varType.Name == ast.Ptr {
		return leftName.Value + "->" + rightName.Value, nil
	}

	return leftName.Value + "." + rightName.Value, nil
}

// emitCall renders a call, prepending the receiver argument when the
// call resolved through a struct-typed variable (spec §4.5: "when the
// call is a method through a struct-typed variable, prepend the
// receiver argument").
func (g *generator) emitCall(scope *checker.Module, call *ast.Call) (string, error) {
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		v, err := g.emitExpr(scope, a)
		if err != nil {
			return "", err
		}
		args[i] = v
	}

	name, ok := g.mangled[call.ResolvedFunc]
	if !ok {
		return "", &diag.NotImplementedError{Line: call.Pos(), Module: scope.Name, Message: "call to an unresolved function"}
	}

	if dot, ok := call.Head.(*ast.Dot); ok {
		if leftName, ok := dot.Left.(*ast.Name); ok {
			if varType, ok := scope.Variables[leftName.Value]; ok {
				if _, ok := scope.Structs[varType.Canonical()]; ok {
					args = append([]string{leftName.Value}, args...)
				}
			}
		}
	}

	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", ")), nil
}

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

package parser

import (
	"greekc/internal/ast"
	"greekc/internal/lexer"
)

// Precedence tiers, loosest to tightest (spec §4.3): comparison, additive,
// multiplicative. Unary (`!`) and postfix (`.`, `[]`, `()`, `{}`) sit
// outside the binary climb entirely, mirroring the teacher's
// parseRule/prefix/infix table split in expr.go, generalized from a
// single tier to three.
const (
	precLowest = iota
	precComparison
	precAdditive
	precMultiplicative
)

var binaryOps = map[string]struct {
	op   ast.BinaryOp
	prec int
}{
	"==": {ast.OpEq, precComparison},
	"!=": {ast.OpNotEq, precComparison},
	"<":  {ast.OpLess, precComparison},
	">":  {ast.OpGreater, precComparison},
	"<=": {ast.OpLessEq, precComparison},
	">=": {ast.OpGreaterEq, precComparison},
	"+":  {ast.OpAdd, precAdditive},
	"-":  {ast.OpSub, precAdditive},
	"*":  {ast.OpMul, precMultiplicative},
	"/":  {ast.OpDiv, precMultiplicative},
	"%":  {ast.OpRem, precMultiplicative},
}

var assignOps = map[string]ast.AssignOp{
	"=":  ast.AssignSet,
	"+=": ast.AssignAdd,
	"-=": ast.AssignSub,
	"*=": ast.AssignMul,
	"/=": ast.AssignDiv,
	"%=": ast.AssignRem,
	"&=": ast.AssignAnd,
	"|=": ast.AssignOr,
	"^=": ast.AssignXor,
}

// parseExpr implements precedence climbing over the binary operator
// table. ignore is a set of terminator token spellings (spec §4.3:
// "threading an ignore set of terminator tokens through all recursive
// calls") that stops the climb early — used to keep an if/while
// condition from swallowing its body's opening brace as a struct
// literal.
func (p *Parser) parseExpr(ignore map[string]bool, minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary(ignore)
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if ignore[tok.Text] {
			break
		}
		entry, ok := binaryOps[tok.Text]
		if !ok || tok.Kind != lexer.Punct || entry.prec < minPrec {
			break
		}
		p.next()
		right, err := p.parseExpr(ignore, entry.prec+1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Left: left, Op: entry.op, Right: right, Base: ast.Base{Line: tok.Line}}
	}
	return left, nil
}

func (p *Parser) parseUnary(ignore map[string]bool) (ast.Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Is("!") {
		p.next()
		inner, err := p.parseUnary(ignore)
		if err != nil {
			return nil, err
		}
		return &ast.Not{Inner: inner, Base: ast.Base{Line: tok.Line}}, nil
	}
	return p.parsePostfix(ignore)
}

func (p *Parser) parsePostfix(ignore map[string]bool) (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if ignore[tok.Text] {
			break
		}

		switch {
		case tok.Is("."):
			p.next()
			name, line, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = &ast.Dot{Left: expr, Right: &ast.Name{Value: name, Base: ast.Base{Line: line}}, Base: ast.Base{Line: tok.Line}}

		case tok.Is("("):
			p.next()
			args, err := p.parseExprList(")")
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Head: expr, Args: args, Base: ast.Base{Line: tok.Line}}

		case tok.Is("["):
			p.next()
			args, err := p.parseExprList("]")
			if err != nil {
				return nil, err
			}
			expr = &ast.Item{Left: expr, Args: args, Base: ast.Base{Line: tok.Line}}

		case tok.Is("{"):
			kind, ok := exprToType(expr)
			if !ok {
				return expr, nil
			}
			p.next()
			fields, err := p.parseExprList("}")
			if err != nil {
				return nil, err
			}
			expr = &ast.Struct{Kind: kind, Fields: fields, Base: ast.Base{Line: tok.Line}}

		default:
			return expr, nil
		}
	}
	return expr, nil
}

// parseExprList parses a comma-separated list of expressions up to and
// including the closing token.
func (p *Parser) parseExprList(closer string) ([]ast.Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Is(closer) {
		p.next()
		return nil, nil
	}

	var items []ast.Expr
	for {
		item, err := p.parseExpr(nil, precLowest)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Is(",") {
			continue
		}
		if tok.Is(closer) {
			return items, nil
		}
		return nil, p.syntaxError("expected ',' or '%s', found '%s'", closer, tok.Text)
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lexer.Ident:
		return &ast.Name{Value: tok.Text, Base: ast.Base{Line: tok.Line}}, nil
	case lexer.IntLiteral:
		return &ast.Literal{Kind: ast.LiteralInt, Int: tok.IntValue, Base: ast.Base{Line: tok.Line}}, nil
	case lexer.FloatLiteral:
		return &ast.Literal{Kind: ast.LiteralFloat, Float: tok.FloatValue, Base: ast.Base{Line: tok.Line}}, nil
	case lexer.StringLiteral:
		return &ast.Literal{Kind: ast.LiteralString, Str: tok.StrValue, Base: ast.Base{Line: tok.Line}}, nil
	case lexer.BoolLiteral:
		return &ast.Literal{Kind: ast.LiteralBool, Bool: tok.BoolValue, Base: ast.Base{Line: tok.Line}}, nil
	}

	switch {
	case tok.Is("("):
		inner, err := p.parseExpr(nil, precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return &ast.Parenthesized{Inner: inner, Base: ast.Base{Line: tok.Line}}, nil

	case tok.Is("["):
		values, err := p.parseExprList("]")
		if err != nil {
			return nil, err
		}
		return &ast.Array{Values: values, Base: ast.Base{Line: tok.Line}}, nil
	}

	return nil, p.syntaxError("unexpected token '%s' in expression", tok.Text)
}

// exprToType converts an expression built from bare names and index
// chains (e.g. `Box[int]`) into the equivalent ast.Type, for the single
// position where the two grammars overlap: the type head of a struct
// literal.
func exprToType(expr ast.Expr) (ast.Type, bool) {
	switch e := expr.(type) {
	case *ast.Name:
		return ast.NewType(e.Value), true
	case *ast.Item:
		head, ok := exprToType(e.Left)
		if !ok {
			return ast.Type{}, false
		}
		params := make([]ast.Type, len(e.Args))
		for i, a := range e.Args {
			t, ok := exprToType(a)
			if !ok {
				return ast.Type{}, false
			}
			params[i] = t
		}
		return ast.NewGeneric(head.Name, params...), true
	default:
		return ast.Type{}, false
	}
}

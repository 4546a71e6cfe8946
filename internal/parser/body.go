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

import "greekc/internal/ast"

// braceIgnore stops an if/while condition's expression climb before it
// swallows the body's opening brace as a struct literal (spec §9: Else
// is parsed independently of If, and neither attaches its condition's
// trailing brace to a struct literal).
var braceIgnore = map[string]bool{"{": true}

func (p *Parser) parseBody() (*ast.Body, error) {
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}

	body := &ast.Body{Base: ast.Base{Line: open.Line}}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Is("}") {
			p.next()
			return body, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body.Lines = append(body.Lines, stmt)
	}
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch {
	case tok.Is("let"):
		p.next()
		return p.parseLet()
	case tok.Is("if"):
		p.next()
		return p.parseIf()
	case tok.Is("else"):
		p.next()
		return p.parseElse()
	case tok.Is("while"):
		p.next()
		return p.parseWhile()
	case tok.Is("return"):
		p.next()
		return p.parseReturn()
	default:
		return p.parseExprOrAssignment()
	}
}

func (p *Parser) parseIf() (*ast.If, error) {
	line := p.line
	cond, err := p.parseExpr(braceIgnore, precLowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Body: body, Base: ast.Base{Line: line}}, nil
}

func (p *Parser) parseElse() (*ast.Else, error) {
	line := p.line
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.Else{Body: body, Base: ast.Base{Line: line}}, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	line := p.line
	cond, err := p.parseExpr(braceIgnore, precLowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Base: ast.Base{Line: line}}, nil
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	line := p.line
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Is("}") {
		return &ast.Return{Base: ast.Base{Line: line}}, nil
	}
	value, err := p.parseExpr(nil, precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: value, Base: ast.Base{Line: line}}, nil
}

func (p *Parser) parseExprOrAssignment() (ast.Stmt, error) {
	line := p.line
	target, err := p.parseExpr(nil, precLowest)
	if err != nil {
		return nil, err
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if op, ok := assignOps[tok.Text]; ok {
		p.next()
		value, err := p.parseExpr(nil, precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Target: target, Op: op, Value: value, Base: ast.Base{Line: line}}, nil
	}

	return &ast.ExprStmt{X: target, Base: ast.Base{Line: line}}, nil
}

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

// Package parser implements the recursive-descent parser described in
// spec §4.3: a one-token-lookahead consumer of the lexer's token stream
// that builds the typed AST defined by package ast.
package parser

import (
	"fmt"

	"greekc/internal/ast"
	"greekc/internal/diag"
	"greekc/internal/lexer"
)

// Parser is a recursive-descent, one-token-lookahead parser built on top
// of lexer.Lexer's token stream, modeled on the teacher's tokenReader
// (peek/next/expect over a single pushback cell).
type Parser struct {
	lx   *lexer.Lexer
	buf  *lexer.Token
	line int
}

// New returns a Parser over the given source text.
func New(src []byte) *Parser {
	return &Parser{lx: lexer.New(src), line: 1}
}

// Parse runs the parser to completion, returning the program's top-level
// declarations in source order (spec ordering guarantee O2), or the
// first error encountered (a LexError from the lexer or a SyntaxError).
func Parse(src []byte) ([]ast.TopLevel, error) {
	return New(src).ParseProgram()
}

func (p *Parser) fetchRaw() (lexer.Token, error) {
	if p.buf != nil {
		tok := *p.buf
		p.buf = nil
		return tok, nil
	}
	return p.lx.NextToken()
}

func (p *Parser) pushback(tok lexer.Token) {
	p.buf = &tok
}

// nextTopLevel returns the next token, skipping only line breaks, so that
// comment tokens remain visible at top level (spec §4.3: "Comments are
// passed through at top level ... and ignored elsewhere").
func (p *Parser) nextTopLevel() (lexer.Token, error) {
	for {
		tok, err := p.fetchRaw()
		if err != nil {
			return tok, err
		}
		if tok.Kind == lexer.LineBreak {
			p.line++
			continue
		}
		return tok, nil
	}
}

// next returns the next significant token, skipping line breaks and
// comments.
func (p *Parser) next() (lexer.Token, error) {
	for {
		tok, err := p.fetchRaw()
		if err != nil {
			return tok, err
		}
		switch tok.Kind {
		case lexer.LineBreak:
			p.line++
			continue
		case lexer.CommentTok:
			continue
		default:
			return tok, nil
		}
	}
}

// peek returns the next significant token without consuming it.
func (p *Parser) peek() (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	p.pushback(tok)
	return tok, nil
}

func (p *Parser) syntaxError(format string, args ...any) error {
	return &diag.SyntaxError{Line: p.line, Message: fmt.Sprintf(format, args...)}
}

// expect consumes the next token and requires it to be the fixed
// punctuation/keyword spelling text.
func (p *Parser) expect(text string) (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if !tok.Is(text) {
		return tok, p.syntaxError("expected '%s' but found '%s'", text, tok.Text)
	}
	return tok, nil
}

// expectIdent consumes the next token and requires it to be an
// identifier, returning its name.
func (p *Parser) expectIdent() (string, int, error) {
	tok, err := p.next()
	if err != nil {
		return "", 0, err
	}
	if tok.Kind != lexer.Ident {
		return "", 0, p.syntaxError("expected a name, found '%s'", tok.Text)
	}
	return tok.Text, tok.Line, nil
}

// ParseProgram parses every top-level declaration until end of file.
func (p *Parser) ParseProgram() ([]ast.TopLevel, error) {
	var decls []ast.TopLevel
	for {
		tok, err := p.nextTopLevel()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.EOF {
			return decls, nil
		}
		if tok.Kind == lexer.CommentTok {
			decls = append(decls, &ast.Comment{Text: tok.Text})
			continue
		}

		decl, err := p.parseTopLevelDecl(tok)
		if err != nil {
			return nil, err
		}
		if decl != nil {
			decls = append(decls, decl)
		}
	}
}

func (p *Parser) parseTopLevelDecl(tok lexer.Token) (ast.TopLevel, error) {
	switch {
	case tok.Is("import"):
		return p.parseImport()
	case tok.Is("extern"):
		return p.parseExtern()
	case tok.Is("fun"):
		return p.parseFunctionDeclaration()
	case tok.Is("struct"):
		return p.parseStructDeclaration()
	case tok.Is("enum"):
		return p.parseEnumDeclaration()
	case tok.Is("let"):
		return p.parseLet()
	default:
		return nil, p.syntaxError("unexpected token '%s' at top level", tok.Text)
	}
}

func (p *Parser) parseImport() (*ast.Import, error) {
	line := p.line
	var path []string
	name, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	path = append(path, name)
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !tok.Is(".") {
			break
		}
		p.next()
		name, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		path = append(path, name)
	}
	return &ast.Import{Path: path, Base: ast.Base{Line: line}}, nil
}

func (p *Parser) parseExtern() (*ast.Extern, error) {
	line := p.line
	if _, err := p.expect("fun"); err != nil {
		return nil, err
	}
	head, err := p.parseFunctionHead()
	if err != nil {
		return nil, err
	}
	return &ast.Extern{Head: head, Base: ast.Base{Line: line}}, nil
}

func (p *Parser) parseFunctionHead() (*ast.FunctionHead, error) {
	line := p.line
	name, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("("); err != nil {
		return nil, err
	}

	var paramNames []string
	var paramTypes []ast.Type
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Is(")") {
			p.next()
			break
		}
		if tok.Is(",") {
			p.next()
			continue
		}
		pname, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		paramNames = append(paramNames, pname)
		paramTypes = append(paramTypes, ptype)
	}

	returnType, err := p.parseType()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionHead{
		Name:       name,
		ReturnType: returnType,
		ParamNames: paramNames,
		ParamTypes: paramTypes,
		Base:       ast.Base{Line: line},
	}, nil
}

func (p *Parser) parseFunctionDeclaration() (*ast.FunctionDeclaration, error) {
	line := p.line
	head, err := p.parseFunctionHead()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{Head: head, Body: body, Base: ast.Base{Line: line}}, nil
}

// parseType parses spec §4.3's type grammar:
//
//	type := NAME ('@' type)?
//	     |  NAME '[' type (',' type)* ']'
func (p *Parser) parseType() (ast.Type, error) {
	name, _, err := p.expectIdent()
	if err != nil {
		return ast.Type{}, err
	}

	tok, err := p.peek()
	if err != nil {
		return ast.Type{}, err
	}
	if tok.Is("@") {
		p.next()
		sub, err := p.parseType()
		if err != nil {
			return ast.Type{}, err
		}
		return ast.NewSubtype(name, sub), nil
	}
	if tok.Is("[") {
		p.next()
		var params []ast.Type
		for {
			t, err := p.parseType()
			if err != nil {
				return ast.Type{}, err
			}
			params = append(params, t)

			tok, err := p.next()
			if err != nil {
				return ast.Type{}, err
			}
			if tok.Is(",") {
				continue
			}
			if tok.Is("]") {
				break
			}
			return ast.Type{}, p.syntaxError("expected ',' or ']' in type parameter list, found '%s'", tok.Text)
		}
		return ast.NewGeneric(name, params...), nil
	}
	return ast.NewType(name), nil
}

func (p *Parser) parseLet() (*ast.Let, error) {
	line := p.line
	name, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	kind, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("="); err != nil {
		return nil, err
	}
	value, err := p.parseExpr(nil, precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.Let{Name: name, Type: kind, Value: value, Base: ast.Base{Line: line}}, nil
}

func (p *Parser) parseStructDeclaration() (*ast.StructDeclaration, error) {
	line := p.line
	kind, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}

	decl := &ast.StructDeclaration{
		Name:    kind,
		Methods: map[string]map[string]*ast.FunctionDeclaration{},
		Base:    ast.Base{Line: line},
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Is("}") {
			p.next()
			break
		}
		if tok.Is(",") {
			p.next()
			continue
		}
		if tok.Is("fun") {
			p.next()
			method, err := p.parseFunctionDeclaration()
			if err != nil {
				return nil, err
			}
			sigKey := ast.SignatureKey(method.Head.ParamTypes)
			if decl.Methods[method.Head.Name] == nil {
				decl.Methods[method.Head.Name] = map[string]*ast.FunctionDeclaration{}
			}
			decl.Methods[method.Head.Name][sigKey] = method
			decl.MethodList = append(decl.MethodList, method)
			continue
		}

		mname, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		mtype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Members = append(decl.Members, ast.StructMember{Name: mname, Type: mtype})
	}

	return decl, nil
}

func (p *Parser) parseEnumDeclaration() (*ast.EnumDeclaration, error) {
	line := p.line
	name, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}

	decl := &ast.EnumDeclaration{Name: name, Base: ast.Base{Line: line}}
	for {
		member, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		decl.Members = append(decl.Members, member)

		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Is(",") {
			continue
		}
		if tok.Is("}") {
			break
		}
		return nil, p.syntaxError("expected ',' or '}' in enum body, found '%s'", tok.Text)
	}
	return decl, nil
}

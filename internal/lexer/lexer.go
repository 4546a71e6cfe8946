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

// Package lexer converts a source.Cursor byte stream into a lazy sequence
// of tokens. It tracks line numbers and is pull-based: NextToken produces
// one token per call, so the parser can drive it with one-token
// lookahead.
package lexer

import (
	"iter"
	"strconv"
	"strings"

	"greekc/internal/diag"
	"greekc/internal/source"
)

// Lexer is a pull-based tokenizer over a source.Cursor.
type Lexer struct {
	cur  *source.Cursor
	line int
}

// New returns a Lexer positioned at the start of data.
func New(data []byte) *Lexer {
	return &Lexer{cur: source.New(data), line: 1}
}

func isLetter(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_' }
func isDigit(b byte) bool  { return b >= '0' && b <= '9' }

// NextToken returns the next token, or an error if the input contains a
// byte that matches no rule (spec §4.2 point 7).
func (lx *Lexer) NextToken() (Token, error) {
	for {
		peek := lx.cur.Peek(1)
		b := peek[0]

		switch {
		case lx.cur.Len() == 0:
			return Token{Kind: EOF, Line: lx.line}, nil

		case b == ' ' || b == '\t':
			lx.cur.Look(1)
			continue

		case b == '\n':
			lx.cur.Look(1)
			line := lx.line
			lx.line++
			return Token{Kind: LineBreak, Text: "\n", Line: line}, nil

		case b == '#':
			return lx.scanComment(), nil

		case isLetter(b):
			return lx.scanName(), nil

		case isDigit(b):
			return lx.scanNumber(), nil

		case b == '"' || b == '\'':
			return lx.scanString(b), nil

		default:
			return lx.scanPunct()
		}
	}
}

func (lx *Lexer) scanName() Token {
	var sb strings.Builder
	line := lx.line
	for lx.cur.Len() > 0 {
		b := lx.cur.Peek(1)[0]
		if isLetter(b) || isDigit(b) {
			sb.WriteByte(b)
			lx.cur.Look(1)
			continue
		}
		break
	}
	value := sb.String()

	if IsKeyword(value) {
		return Token{Kind: Keyword, Text: value, Line: line}
	}
	if value == "true" || value == "false" {
		return Token{Kind: BoolLiteral, Text: value, Line: line, BoolValue: value == "true"}
	}
	return Token{Kind: Ident, Text: value, Line: line}
}

func (lx *Lexer) scanNumber() Token {
	var sb strings.Builder
	line := lx.line
	for lx.cur.Len() > 0 {
		b := lx.cur.Peek(1)[0]
		if isDigit(b) || b == '_' {
			if b != '_' {
				sb.WriteByte(b)
			}
			lx.cur.Look(1)
			continue
		}
		break
	}

	if lx.cur.Len() > 0 && lx.cur.Peek(1)[0] == '.' {
		lx.cur.Look(1) // consume '.'
		sb.WriteByte('.')
		for lx.cur.Len() > 0 {
			b := lx.cur.Peek(1)[0]
			if isDigit(b) || b == '_' {
				if b != '_' {
					sb.WriteByte(b)
				}
				lx.cur.Look(1)
				continue
			}
			break
		}
		f, _ := strconv.ParseFloat(sb.String(), 64)
		return Token{Kind: FloatLiteral, Text: sb.String(), Line: line, FloatValue: f}
	}

	i, _ := strconv.ParseInt(sb.String(), 10, 64)
	return Token{Kind: IntLiteral, Text: sb.String(), Line: line, IntValue: i}
}

func (lx *Lexer) scanString(quote byte) Token {
	line := lx.line
	lx.cur.Look(1) // consume opening quote
	var sb strings.Builder
	for lx.cur.Len() > 0 {
		b := lx.cur.Look(1)[0]
		if b == quote {
			break
		}
		if b == '\n' {
			lx.line++
		}
		sb.WriteByte(b)
	}
	return Token{Kind: StringLiteral, Text: sb.String(), Line: line, StrValue: sb.String()}
}

func (lx *Lexer) scanComment() Token {
	line := lx.line
	lx.cur.Look(1) // consume '#'
	var sb strings.Builder
	for lx.cur.Len() > 0 {
		b := lx.cur.Peek(1)[0]
		if b == '\n' {
			break
		}
		sb.WriteByte(b)
		lx.cur.Look(1)
	}
	return Token{Kind: CommentTok, Text: sb.String(), Line: line}
}

func (lx *Lexer) scanPunct() (Token, error) {
	line := lx.line
	for _, p := range Puncts {
		if lx.hasPrefix(p) {
			lx.cur.Look(len(p))
			return Token{Kind: Punct, Text: p, Line: line}, nil
		}
	}
	b := lx.cur.Peek(1)[0]
	return Token{}, &diag.LexError{Line: line, Byte: b}
}

func (lx *Lexer) hasPrefix(s string) bool {
	peek := lx.cur.Peek(len(s))
	return string(peek) == s
}

// AllTokens iterates every token extracted from the input, including the
// trailing EOF token. Iteration stops early (without yielding EOF) if a
// LexError occurs; call NextToken directly to observe the error.
func (lx *Lexer) AllTokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, err := lx.NextToken()
			if err != nil {
				return
			}
			if !yield(tok) {
				return
			}
			if tok.Kind == EOF {
				return
			}
		}
	}
}

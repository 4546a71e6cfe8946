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

// Package diag defines the compiler's error taxonomy. Every error is fatal:
// the first one returned anywhere aborts compilation. Each carries the
// offending source line and, where known, the enclosing module name so
// messages can be compared against the reference scenarios.
package diag

import "fmt"

// LexError reports an unknown token byte.
type LexError struct {
	Line int
	Byte byte
}

func (e *LexError) Error() string {
	return fmt.Sprintf("invalid token byte %q at line %d", e.Byte, e.Line)
}

// SyntaxError reports a token stream that violates the grammar.
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s. at line %d", e.Message, e.Line)
}

// NameError reports an undeclared variable/function/type/member, an
// unreadable import, or a duplicate declaration.
type NameError struct {
	Line   int
	Module string
	Message string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s. at line %d in module '%s'", e.Message, e.Line, e.Module)
}

// TypeError reports an operand, annotation, assignment, or index type
// mismatch.
type TypeError struct {
	Line    int
	Module  string
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s. at line %d in module '%s'", e.Message, e.Line, e.Module)
}

// RecursionError reports an import cycle.
type RecursionError struct {
	Line    int
	Module  string
	Path    string
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("recursive import of '%s'. at line %d in module '%s'", e.Path, e.Line, e.Module)
}

// ValueError reports a generic type variable declared but never used, or a
// missing generic parameter.
type ValueError struct {
	Line    int
	Module  string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s. at line %d in module '%s'", e.Message, e.Line, e.Module)
}

// NotImplementedError reports an unsupported construct.
type NotImplementedError struct {
	Line    int
	Module  string
	Message string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s. at line %d in module '%s'", e.Message, e.Line, e.Module)
}

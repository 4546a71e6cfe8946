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

package checker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greekc/internal/ast"
	"greekc/internal/diag"
	"greekc/internal/parser"
)

func noImports(path string) ([]byte, error) {
	return nil, fmt.Errorf("no import available for %s", path)
}

func checkSource(t *testing.T, src string) (*Module, error) {
	t.Helper()
	decls, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	return New("main", noImports).Check(decls)
}

func TestCheckHelloWorld(t *testing.T) {
	mod, err := checkSource(t, `
fun main() int {
	return 0
}
`)
	require.NoError(t, err)
	require.Contains(t, mod.Functions, "main")
}

func TestCheckOverloadedAdd(t *testing.T) {
	mod, err := checkSource(t, `
fun add(a: int, b: int) int {
	return a + b
}

fun add(a: float, b: float) float {
	return a + b
}

fun main() int {
	let x: int = add(1, 2)
	let y: float = add(1.0, 2.0)
	return 0
}
`)
	require.NoError(t, err)
	require.Len(t, mod.Functions["add"], 2)
}

func TestCheckStructMethodCall(t *testing.T) {
	_, err := checkSource(t, `
struct Point {
	x: int
	y: int

	fun sum(self: Point) int {
		return self.x + self.y
	}
}

fun main() int {
	let p: Point = Point{1, 2}
	return p.sum()
}
`)
	require.NoError(t, err)
}

func TestCheckUnusedGenericVariableIsValueError(t *testing.T) {
	_, err := checkSource(t, `
struct Box[T] {
	value: int
}
`)
	require.Error(t, err)
	var valErr *diag.ValueError
	require.ErrorAs(t, err, &valErr)
}

func TestCheckEnumDotResolvesToInt(t *testing.T) {
	mod, err := checkSource(t, `
enum Color {
	Red,
	Green,
	Blue
}

fun pick() int {
	let c: int = Color.Red
	return c
}
`)
	require.NoError(t, err)
	assert.Contains(t, mod.Enums, "Color")
}

func TestCheckUndeclaredNameIsNameError(t *testing.T) {
	_, err := checkSource(t, `
fun main() int {
	return missing
}
`)
	require.Error(t, err)
	var nameErr *diag.NameError
	require.ErrorAs(t, err, &nameErr)
}

func TestCheckLetTypeMismatchIsTypeError(t *testing.T) {
	_, err := checkSource(t, `
fun main() int {
	let x: int = true
	return x
}
`)
	require.Error(t, err)
	var typeErr *diag.TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestCheckDuplicateEnumIsNameError(t *testing.T) {
	_, err := checkSource(t, `
enum Color {
	Red
}

enum Color {
	Blue
}
`)
	require.Error(t, err)
	var nameErr *diag.NameError
	require.ErrorAs(t, err, &nameErr)
}

func TestCheckDuplicateFunctionSignatureIsNameError(t *testing.T) {
	_, err := checkSource(t, `
fun f(x: int) int {
	return x
}

fun f(x: int) int {
	return x
}

fun main() int {
	return 0
}
`)
	require.Error(t, err)
	var nameErr *diag.NameError
	require.ErrorAs(t, err, &nameErr)
}

func TestCheckImportCycleIsRecursionError(t *testing.T) {
	aSrc := `import b
fun main() int {
	return 0
}
`
	bSrc := `import a
`
	load := func(path string) ([]byte, error) {
		switch path {
		case "a.greek":
			return []byte(aSrc), nil
		case "b.greek":
			return []byte(bSrc), nil
		}
		return nil, fmt.Errorf("unknown import %s", path)
	}

	decls, err := parser.Parse([]byte(aSrc))
	require.NoError(t, err)

	c := New("a", load)
	c.EnterRoot("a.greek")
	_, err = c.Check(decls)
	require.Error(t, err)
	var recErr *diag.RecursionError
	require.ErrorAs(t, err, &recErr)
}

func TestCheckIndexedStringAssignment(t *testing.T) {
	_, err := checkSource(t, `
fun main() int {
	let s: str = "hi"
	s[0] = 104
	return 0
}
`)
	require.NoError(t, err)
}

func TestCheckCallUnknownFunctionIsNameError(t *testing.T) {
	_, err := checkSource(t, `
fun main() int {
	return missing_function()
}
`)
	require.Error(t, err)
	var nameErr *diag.NameError
	require.ErrorAs(t, err, &nameErr)
}

func TestModuleCopyIsIndependent(t *testing.T) {
	m := NewModule("m")
	m.Variables["x"] = ast.NewType(ast.Int)

	cp := m.Copy()
	cp.Variables["y"] = ast.NewType(ast.Bool)

	assert.NotContains(t, m.Variables, "y")
	assert.Contains(t, cp.Variables, "x")
}

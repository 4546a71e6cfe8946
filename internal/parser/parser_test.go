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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greekc/internal/ast"
	"greekc/internal/diag"
)

func TestParseProgramHelloWorld(t *testing.T) {
	src := `
fun main() int {
	return 0
}
`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	fn, ok := decls[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Head.Name)
	assert.Equal(t, ast.Int, fn.Head.ReturnType.Name)
	require.Len(t, fn.Body.Lines, 1)

	ret, ok := fn.Body.Lines[0].(*ast.Return)
	require.True(t, ok)
	lit, ok := ret.Value.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, int64(0), lit.Int)
}

func TestParsePrecedenceClimbing(t *testing.T) {
	// 1 * 2 + 3 must bind as (1 * 2) + 3, not 1 * (2 + 3).
	src := `let x: int = 1 * 2 + 3`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	let := decls[0].(*ast.Let)
	top, ok := let.Value.(*ast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, top.Op)

	left, ok := top.Left.(*ast.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, left.Op)

	_, ok = top.Right.(*ast.Literal)
	require.True(t, ok)
}

func TestParseOverloadedFunctions(t *testing.T) {
	src := `
fun add(a: int, b: int) int {
	return a + b
}

fun add(a: float, b: float) float {
	return a + b
}
`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 2)

	first := decls[0].(*ast.FunctionDeclaration)
	second := decls[1].(*ast.FunctionDeclaration)
	assert.Equal(t, "add", first.Head.Name)
	assert.Equal(t, "add", second.Head.Name)
	assert.Equal(t, ast.Int, first.Head.ParamTypes[0].Name)
	assert.Equal(t, ast.Float, second.Head.ParamTypes[0].Name)
}

func TestParseStructWithMethod(t *testing.T) {
	src := `
struct Point {
	x: int
	y: int

	fun sum(self: Point) int {
		return self.x + self.y
	}
}
`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	st := decls[0].(*ast.StructDeclaration)
	assert.Equal(t, "Point", st.Name.Name)
	require.Len(t, st.Members, 2)
	require.Len(t, st.MethodList, 1)
	assert.Equal(t, "sum", st.MethodList[0].Head.Name)
}

func TestParseGenericStructDeclarationAndSubtype(t *testing.T) {
	src := `
struct Box[T] {
	value: T
}

extern fun malloc(size: int) ptr@Box[int]
`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 2)

	box := decls[0].(*ast.StructDeclaration)
	assert.True(t, box.Name.IsGeneric())
	assert.Equal(t, "Box_T", box.Name.Canonical())

	ext := decls[1].(*ast.Extern)
	assert.Equal(t, "ptr@Box_int", ext.Head.ReturnType.Canonical())
}

func TestParseStructLiteralAndIfElse(t *testing.T) {
	src := `
fun classify(n: int) int {
	let p: Point = Point{1, 2}
	if n > 0 {
		return 1
	}
	else {
		return 0
	}
}
`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	fn := decls[0].(*ast.FunctionDeclaration)

	let := fn.Body.Lines[0].(*ast.Let)
	lit, ok := let.Value.(*ast.Struct)
	require.True(t, ok)
	assert.Equal(t, "Point", lit.Kind.Name)
	assert.Len(t, lit.Fields, 2)

	ifStmt, ok := fn.Body.Lines[1].(*ast.If)
	require.True(t, ok)
	assert.IsType(t, &ast.BinaryOperation{}, ifStmt.Cond)

	elseStmt, ok := fn.Body.Lines[2].(*ast.Else)
	require.True(t, ok)
	require.Len(t, elseStmt.Body.Lines, 1)
}

func TestParseWhileAndAssignmentOps(t *testing.T) {
	src := `
fun loop() int {
	let i: int = 0
	while i < 10 {
		i += 1
	}
	return i
}
`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	fn := decls[0].(*ast.FunctionDeclaration)

	while := fn.Body.Lines[1].(*ast.While)
	assign := while.Body.Lines[0].(*ast.Assignment)
	assert.Equal(t, ast.AssignAdd, assign.Op)
}

func TestParseEnumDeclarationAndDotAccess(t *testing.T) {
	src := `
enum Color {
	Red,
	Green,
	Blue
}

fun pick() Color {
	return Color.Red
}
`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	enum := decls[0].(*ast.EnumDeclaration)
	assert.Equal(t, []string{"Red", "Green", "Blue"}, enum.Members)
	assert.Equal(t, 1, enum.Index("Green"))

	fn := decls[1].(*ast.FunctionDeclaration)
	ret := fn.Body.Lines[0].(*ast.Return)
	dot := ret.Value.(*ast.Dot)
	assert.Equal(t, "Color", dot.Left.(*ast.Name).Value)
	assert.Equal(t, "Red", dot.Right.(*ast.Name).Value)
}

func TestParseImportDottedPath(t *testing.T) {
	src := `import a.b.c`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	imp := decls[0].(*ast.Import)
	assert.Equal(t, []string{"a", "b", "c"}, imp.Path)
	assert.Equal(t, "a.b.c", imp.DottedName())
	assert.Equal(t, "a/b/c.greek", imp.FilePath())
}

func TestParseCommentsPassThroughAtTopLevel(t *testing.T) {
	src := `
# a leading comment
fun main() int {
	return 0
}
`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 2)
	comment, ok := decls[0].(*ast.Comment)
	require.True(t, ok)
	assert.Equal(t, " a leading comment", comment.Text)
}

func TestParseCallChainAndIndexing(t *testing.T) {
	src := `
fun f() int {
	return a.b(1, 2)[0]
}
`
	decls, err := Parse([]byte(src))
	require.NoError(t, err)
	fn := decls[0].(*ast.FunctionDeclaration)
	ret := fn.Body.Lines[0].(*ast.Return)

	item, ok := ret.Value.(*ast.Item)
	require.True(t, ok)
	call, ok := item.Left.(*ast.Call)
	require.True(t, ok)
	dot, ok := call.Head.(*ast.Dot)
	require.True(t, ok)
	assert.Equal(t, "a", dot.Left.(*ast.Name).Value)
	assert.Equal(t, "b", dot.Right.(*ast.Name).Value)
}

func TestParseUnexpectedTokenReturnsSyntaxError(t *testing.T) {
	_, err := Parse([]byte(`fun ) bad`))
	require.Error(t, err)
	var synErr *diag.SyntaxError
	require.ErrorAs(t, err, &synErr)
}

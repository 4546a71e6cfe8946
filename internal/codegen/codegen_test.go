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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greekc/internal/checker"
	"greekc/internal/diag"
	"greekc/internal/parser"
)

func noImports(path string) ([]byte, error) {
	return nil, fmt.Errorf("no import available for %s", path)
}

func emitSource(t *testing.T, src string) string {
	t.Helper()
	decls, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	mod, err := checker.New("main", noImports).Check(decls)
	require.NoError(t, err)
	out, err := Emit(mod)
	require.NoError(t, err)
	return out
}

// Scenario A (spec §8): Hello world.
func TestEmitHelloWorld(t *testing.T) {
	out := emitSource(t, `
extern fun printf(s: str) int
fun main() int {
	printf("hi\n")
	return 0
}
`)
	assert.Contains(t, out, "#define _CRT_SECURE_NO_WARNINGS")
	assert.Contains(t, out, "int main() {")
	assert.Contains(t, out, `printf("hi\n");`)
	assert.Contains(t, out, "return 0;")
	assert.Contains(t, out, "// int printf(str s);")
}

// Scenario B (spec §8): overloaded add, mangled by signature.
func TestEmitOverloadedAdd(t *testing.T) {
	out := emitSource(t, `
fun add(a: int, b: int) int {
	return a + b
}

fun add(a: float, b: float) float {
	return a + b
}

fun main() int {
	return add(1, 2)
}
`)
	assert.Contains(t, out, "int main__add__int_int(int a, int b) {")
	assert.Contains(t, out, "float main__add__float_float(float a, float b) {")
	assert.Contains(t, out, "return main__add__int_int(1, 2);")
}

// Scenario C (spec §8): struct method, receiver prepended at the call site.
func TestEmitStructMethod(t *testing.T) {
	out := emitSource(t, `
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
	assert.Contains(t, out, "typedef struct { int x; int y; } Point;")
	assert.Contains(t, out, "int Point__sum(Point self) {")
	assert.Contains(t, out, "return self.x + self.y;")
	assert.Contains(t, out, "Point p = (Point){1, 2};")
	assert.Contains(t, out, "return Point__sum(p);")
}

// Scenario D (spec §8): an import cycle is a checker-level failure;
// codegen never runs on a module that failed to check.
func TestEmitStopsBeforeCodegenOnImportCycle(t *testing.T) {
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

	c := checker.New("a", load)
	c.EnterRoot("a.greek")
	mod, err := c.Check(decls)
	require.Error(t, err)
	require.Nil(t, mod)
	var recErr *diag.RecursionError
	require.ErrorAs(t, err, &recErr)
}

// Scenario E (spec §8): an unused generic type variable is a checker-level
// failure; codegen never runs.
func TestEmitStopsBeforeCodegenOnUnusedGeneric(t *testing.T) {
	decls, err := parser.Parse([]byte(`
struct Box[T] {
	x: int
}
`))
	require.NoError(t, err)
	_, err = checker.New("main", noImports).Check(decls)
	require.Error(t, err)
	var valErr *diag.ValueError
	require.ErrorAs(t, err, &valErr)
}

// Scenario F (spec §8): enum dot access compiles to the mangled member
// name, not a variable reference.
func TestEmitEnumDot(t *testing.T) {
	out := emitSource(t, `
enum Color {
	Red,
	Green,
	Blue
}

fun main() int {
	return Color.Green
}
`)
	assert.Contains(t, out, "typedef enum { Color_Red, Color_Green, Color_Blue } Color;")
	assert.Contains(t, out, "return Color_Green;")
}

func TestEmitConstantBecomesDefine(t *testing.T) {
	out := emitSource(t, `
let greeting: str = "hi"

fun main() int {
	return 0
}
`)
	assert.Contains(t, out, `#define greeting "hi"`)
}

func TestEmitArrayLetDeclaresBracketedArray(t *testing.T) {
	out := emitSource(t, `
fun main() int {
	let xs: array[int] = [1, 2, 3]
	return xs[0]
}
`)
	assert.Contains(t, out, "int xs[] = {1, 2, 3};")
	assert.Contains(t, out, "return xs[0];")
}

func TestEmitPointerDotUsesArrow(t *testing.T) {
	out := emitSource(t, `
struct Point {
	x: int
	y: int
}

fun touch(p: ptr@Point) int {
	return p.x
}

fun main() int {
	return 0
}
`)
	assert.Contains(t, out, "int main__touch(Point* p) {")
	assert.Contains(t, out, "return p->x;")
}

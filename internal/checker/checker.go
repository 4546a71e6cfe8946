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

	"greekc/internal/ast"
	"greekc/internal/collections"
	"greekc/internal/diag"
	"greekc/internal/parser"
)

// SourceLoader resolves an import's file path (spec §6.1: `a.b.c` ->
// `a/b/c.greek`) to source bytes. cmd/greekc supplies os.ReadFile;
// tests supply an in-memory map.
type SourceLoader func(path string) ([]byte, error)

// Checker walks one module's top-level declarations, building its symbol
// table and resolving every name, call, and type. Every method mutates
// c.module in place, mirroring the reference implementation's Checker
// class operating on self.module.
type Checker struct {
	module   *Module
	load     SourceLoader
	visiting collections.Set[string] // import paths currently on the recursion stack
}

// New returns a Checker for a fresh, empty module named name.
func New(name string, load SourceLoader) *Checker {
	return &Checker{
		module:   NewModule(name),
		load:     load,
		visiting: collections.NewSet[string](),
	}
}

// EnterRoot marks path as already in progress before Check runs.
//
// checkImport only ever adds a module's path to the visiting set when
// reached through an import; the root module being compiled is never
// itself an import, so a cycle that loops back to it (spec.md I4: "a.greek
// imports b.greek, b.greek imports a.greek") would otherwise go
// undetected. Callers compiling a root file should pass its path in the
// same slash-joined `a/b/c.greek` form that checkImport uses as the key
// (cmd/greekc: modulePath) and call EnterRoot before Check.
func (c *Checker) EnterRoot(path string) {
	c.visiting.Add(path)
}

// Check runs every top-level declaration through the checker in order
// (spec O3: declarations register in the order they appear) and returns
// the completed module, or the first error.
func (c *Checker) Check(decls []ast.TopLevel) (*Module, error) {
	for _, decl := range decls {
		if err := c.checkTopLevel(decl); err != nil {
			return nil, err
		}
	}
	return c.module, nil
}

func (c *Checker) checkTopLevel(decl ast.TopLevel) error {
	switch d := decl.(type) {
	case *ast.Import:
		return c.checkImport(d)
	case *ast.Extern:
		return c.checkExtern(d)
	case *ast.FunctionDeclaration:
		return c.checkFunctionDeclaration(d)
	case *ast.StructDeclaration:
		return c.checkStructDeclaration(d)
	case *ast.EnumDeclaration:
		return c.checkEnumDeclaration(d)
	case *ast.Let:
		return c.checkConstant(d)
	case *ast.Comment:
		return nil
	default:
		return &diag.NotImplementedError{Line: decl.Pos(), Module: c.module.Name, Message: "unsupported top-level declaration"}
	}
}

func (c *Checker) checkImport(imp *ast.Import) error {
	path := imp.FilePath()
	if c.visiting.Contains(path) {
		return &diag.RecursionError{Line: imp.Pos(), Module: c.module.Name, Path: imp.DottedName()}
	}

	data, err := c.load(path)
	if err != nil {
		return &diag.NameError{Line: imp.Pos(), Module: c.module.Name, Message: fmt.Sprintf("cannot read import '%s': %s", path, err)}
	}
	decls, err := parser.Parse(data)
	if err != nil {
		return err
	}

	c.visiting.Add(path)
	defer c.visiting.Remove(path)

	sub := New(imp.DottedName(), c.load)
	sub.visiting = c.visiting
	subModule, err := sub.Check(decls)
	if err != nil {
		return err
	}

	c.module.Modules[imp.DottedName()] = subModule
	c.module.ModuleOrder = append(c.module.ModuleOrder, imp.DottedName())
	return nil
}

func (c *Checker) checkExtern(ext *ast.Extern) error {
	if _, exists := c.module.Functions[ext.Head.Name]; exists {
		return &diag.NotImplementedError{Line: ext.Pos(), Module: c.module.Name, Message: fmt.Sprintf("overriding extern function '%s' is not supported", ext.Head.Name)}
	}
	if !c.module.registerExtern(ext.Head.Name, ext.Head.Signature(), ext) {
		return &diag.NameError{Line: ext.Pos(), Module: c.module.Name, Message: fmt.Sprintf("'%s' is already declared with this parameter signature", ext.Head.Name)}
	}
	return nil
}

func (c *Checker) checkFunctionDeclaration(fn *ast.FunctionDeclaration) error {
	if !c.module.registerFunction(fn.Head.Name, fn.Head.Signature(), fn) {
		return &diag.NameError{Line: fn.Pos(), Module: c.module.Name, Message: fmt.Sprintf("'%s' is already declared with this parameter signature", fn.Head.Name)}
	}

	outer := c.module
	c.module = outer.Copy()
	for i, pname := range fn.Head.ParamNames {
		c.module.Variables[pname] = fn.Head.ParamTypes[i]
	}

	if err := c.checkBody(fn.Body); err != nil {
		c.module = outer
		return err
	}

	fn.Head.OwningModule = c.module.Name
	c.module = outer
	return nil
}

func (c *Checker) checkStructDeclaration(decl *ast.StructDeclaration) error {
	if decl.Name.IsGeneric() {
		for _, typeVar := range decl.Name.Params {
			used := false
			for _, m := range decl.Members {
				if memberUsesTypeVar(m.Type, typeVar.Name) {
					used = true
					break
				}
			}
			if !used {
				return &diag.ValueError{Line: decl.Pos(), Module: c.module.Name, Message: fmt.Sprintf("generic variable %s left unused in struct %s", typeVar.Name, decl.Name.Name)}
			}
		}
	}

	c.module.Structs[decl.Name.Canonical()] = decl
	c.module.StructOrder = append(c.module.StructOrder, decl.Name.Canonical())

	outer := c.module
	c.module = outer.Copy()
	c.module.Name = decl.Name.Canonical()

	for _, method := range decl.MethodList {
		method.Head.OwningStruct = decl.Name.Canonical()
		if err := c.checkFunctionDeclaration(method); err != nil {
			c.module = outer
			return err
		}
	}

	c.module = outer
	return nil
}

func memberUsesTypeVar(t ast.Type, name string) bool {
	if t.Name == name {
		return true
	}
	if t.Subtype != nil && memberUsesTypeVar(*t.Subtype, name) {
		return true
	}
	for _, p := range t.Params {
		if memberUsesTypeVar(p, name) {
			return true
		}
	}
	return false
}

func (c *Checker) checkEnumDeclaration(decl *ast.EnumDeclaration) error {
	if _, exists := c.module.Enums[decl.Name]; exists {
		return &diag.NameError{Line: decl.Pos(), Module: c.module.Name, Message: fmt.Sprintf("an enum with name %s already exists in this module", decl.Name)}
	}
	c.module.Enums[decl.Name] = decl
	c.module.EnumOrder = append(c.module.EnumOrder, decl.Name)
	return nil
}

// checkLet type-checks a `let` and, when declare is true, binds it into
// the current scope (spec §4.4 Let).
func (c *Checker) checkLet(let *ast.Let, declare bool) (ast.Type, error) {
	var valueType ast.Type
	if let.Type.IsGeneric() {
		vt, err := c.checkExpr(let.Value)
		if err != nil {
			return ast.Type{}, err
		}
		if vt.Name != let.Type.Name {
			return ast.Type{}, &diag.TypeError{Line: let.Pos(), Module: c.module.Name, Message: fmt.Sprintf("let type mismatch, expected '%s' found '%s'", let.Type.Canonical(), vt.Canonical())}
		}
		valueType = vt
	} else {
		vt, err := c.checkExpr(let.Value)
		if err != nil {
			return ast.Type{}, err
		}
		if !let.Type.Equal(vt) {
			return ast.Type{}, &diag.TypeError{Line: let.Pos(), Module: c.module.Name, Message: fmt.Sprintf("let type mismatch, expected '%s' found '%s'", let.Type.Canonical(), vt.Canonical())}
		}
		valueType = vt
	}

	if declare {
		if _, exists := c.module.Variables[let.Name]; exists {
			return ast.Type{}, &diag.NameError{Line: let.Pos(), Module: c.module.Name, Message: fmt.Sprintf("variable %s is already declared", let.Name)}
		}
		c.module.Variables[let.Name] = let.Type
		c.module.Lets[let.Name] = let
	}
	return valueType, nil
}

// checkConstant type-checks a top-level `let` the same way as checkLet,
// but binds it into Constants rather than Variables: a `let` at module
// scope compiles to an immutable `#define` (spec §4.5), while a `let`
// inside a function body is an ordinary local variable.
func (c *Checker) checkConstant(let *ast.Let) error {
	if _, exists := c.module.Constants[let.Name]; exists {
		return &diag.NameError{Line: let.Pos(), Module: c.module.Name, Message: fmt.Sprintf("variable %s is already declared", let.Name)}
	}
	if _, err := c.checkLet(let, false); err != nil {
		return err
	}
	c.module.Constants[let.Name] = let
	c.module.ConstantOrder = append(c.module.ConstantOrder, let.Name)
	return nil
}

func typesAssignable(want, got ast.Type) bool {
	if want.IsGeneric() && got.IsGeneric() {
		return want.Name == got.Name && len(want.Params) == len(got.Params)
	}
	return want.Equal(got)
}

func (c *Checker) checkAssignment(a *ast.Assignment) error {
	switch target := a.Target.(type) {
	case *ast.Name:
		varType, ok := c.module.Variables[target.Value]
		if !ok {
			return &diag.NameError{Line: a.Pos(), Module: c.module.Name, Message: fmt.Sprintf("variable %s not found in the current scope", target.Value)}
		}
		valueType, err := c.checkExpr(a.Value)
		if err != nil {
			return err
		}
		if !typesAssignable(varType, valueType) {
			return &diag.TypeError{Line: a.Pos(), Module: c.module.Name, Message: fmt.Sprintf("variable %s expects '%s' but a '%s' was provided", target.Value, varType.Canonical(), valueType.Canonical())}
		}
		return nil

	case *ast.Dot:
		fieldType, err := c.checkDot(target)
		if err != nil {
			return err
		}
		valueType, err := c.checkExpr(a.Value)
		if err != nil {
			return err
		}
		if !typesAssignable(fieldType, valueType) {
			return &diag.TypeError{Line: a.Pos(), Module: c.module.Name, Message: fmt.Sprintf("assignment expects '%s' but a '%s' was provided", fieldType.Canonical(), valueType.Canonical())}
		}
		return nil

	case *ast.Item:
		leftName, ok := target.Left.(*ast.Name)
		if !ok {
			return &diag.TypeError{Line: a.Pos(), Module: c.module.Name, Message: "indexed assignment target must be a variable"}
		}
		varType, ok := c.module.Variables[leftName.Value]
		if !ok {
			return &diag.NameError{Line: a.Pos(), Module: c.module.Name, Message: fmt.Sprintf("variable %s not found in the current scope", leftName.Value)}
		}
		if len(target.Args) != 1 {
			return &diag.TypeError{Line: a.Pos(), Module: c.module.Name, Message: "indexed assignment takes exactly one index"}
		}
		idxType, err := c.checkExpr(target.Args[0])
		if err != nil {
			return err
		}
		if idxType.Name != ast.Int {
			return &diag.TypeError{Line: a.Pos(), Module: c.module.Name, Message: fmt.Sprintf("item indice must be an integer, found '%s'", idxType.Canonical())}
		}
		valueType, err := c.checkExpr(a.Value)
		if err != nil {
			return err
		}
		switch {
		case varType.Name == "array" && len(varType.Params) == 1:
			if !varType.Params[0].Equal(valueType) {
				return &diag.TypeError{Line: a.Pos(), Module: c.module.Name, Message: fmt.Sprintf("variable %s expects '%s' but a '%s' was provided", leftName.Value, varType.Params[0].Canonical(), valueType.Canonical())}
			}
		case varType.Name == ast.Str:
			if valueType.Name != ast.Char && valueType.Name != ast.Int {
				return &diag.TypeError{Line: a.Pos(), Module: c.module.Name, Message: fmt.Sprintf("variable %s expects 'char' or 'int', but a '%s' was provided", leftName.Value, valueType.Canonical())}
			}
		default:
			return &diag.TypeError{Line: a.Pos(), Module: c.module.Name, Message: fmt.Sprintf("variable '%s' of type '%s' can't be indexed", leftName.Value, varType.Canonical())}
		}
		return nil

	default:
		return &diag.TypeError{Line: a.Pos(), Module: c.module.Name, Message: "invalid assignment target"}
	}
}

func (c *Checker) checkBody(body *ast.Body) error {
	for _, stmt := range body.Lines {
		if err := c.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Let:
		_, err := c.checkLet(s, true)
		return err
	case *ast.Assignment:
		return c.checkAssignment(s)
	case *ast.Return:
		if s.Value == nil {
			return nil
		}
		_, err := c.checkExpr(s.Value)
		return err
	case *ast.If:
		if _, err := c.checkExpr(s.Cond); err != nil {
			return err
		}
		return c.checkBody(s.Body)
	case *ast.Else:
		return c.checkBody(s.Body)
	case *ast.While:
		if _, err := c.checkExpr(s.Cond); err != nil {
			return err
		}
		return c.checkBody(s.Body)
	case *ast.ExprStmt:
		_, err := c.checkExpr(s.X)
		return err
	default:
		return &diag.NotImplementedError{Line: stmt.Pos(), Module: c.module.Name, Message: "unsupported statement"}
	}
}

func (c *Checker) checkExpr(expr ast.Expr) (ast.Type, error) {
	switch e := expr.(type) {
	case *ast.Name:
		if t, ok := c.module.Variables[e.Value]; ok {
			return t, nil
		}
		if let, ok := c.module.Constants[e.Value]; ok {
			return let.Type, nil
		}
		if _, ok := c.module.Enums[e.Value]; ok {
			return ast.NewType(ast.Kind), nil
		}
		return ast.Type{}, &diag.NameError{Line: e.Pos(), Module: c.module.Name, Message: fmt.Sprintf("%s is undeclared", e.Value)}

	case *ast.Literal:
		switch e.Kind {
		case ast.LiteralInt:
			return ast.NewType(ast.Int), nil
		case ast.LiteralFloat:
			return ast.NewType(ast.Float), nil
		case ast.LiteralString:
			return ast.NewType(ast.Str), nil
		case ast.LiteralBool:
			return ast.NewType(ast.Bool), nil
		}
		return ast.Type{}, &diag.NotImplementedError{Line: e.Pos(), Module: c.module.Name, Message: "unsupported literal kind"}

	case *ast.Parenthesized:
		return c.checkExpr(e.Inner)

	case *ast.Not:
		inner, err := c.checkExpr(e.Inner)
		if err != nil {
			return ast.Type{}, err
		}
		return inner, nil

	case *ast.BinaryOperation:
		left, err := c.checkExpr(e.Left)
		if err != nil {
			return ast.Type{}, err
		}
		right, err := c.checkExpr(e.Right)
		if err != nil {
			return ast.Type{}, err
		}
		if !left.Equal(right) {
			return ast.Type{}, &diag.TypeError{Line: e.Pos(), Module: c.module.Name, Message: fmt.Sprintf("expression type mismatch, expecting '%s', found '%s'", left.Canonical(), right.Canonical())}
		}
		return left, nil

	case *ast.Dot:
		return c.checkDot(e)

	case *ast.Item:
		return c.checkItem(e)

	case *ast.Call:
		return c.checkCall(e)

	case *ast.Struct:
		for _, f := range e.Fields {
			if _, err := c.checkExpr(f); err != nil {
				return ast.Type{}, err
			}
		}
		return e.Kind, nil

	case *ast.Array:
		var elem ast.Type
		for i, v := range e.Values {
			t, err := c.checkExpr(v)
			if err != nil {
				return ast.Type{}, err
			}
			if i == 0 {
				elem = t
			}
		}
		return ast.NewGeneric("array", elem), nil
	}

	return ast.Type{}, &diag.NotImplementedError{Line: expr.Pos(), Module: c.module.Name, Message: "unsupported expression"}
}

func (c *Checker) checkDot(dot *ast.Dot) (ast.Type, error) {
	leftName, ok := dot.Left.(*ast.Name)
	if !ok {
		return ast.Type{}, &diag.NameError{Line: dot.Pos(), Module: c.module.Name, Message: "dot access requires a name on the left"}
	}
	rightName, ok := dot.Right.(*ast.Name)
	if !ok {
		return ast.Type{}, &diag.NameError{Line: dot.Pos(), Module: c.module.Name, Message: "dot access requires a name on the right"}
	}

	if enumDecl, ok := c.module.Enums[leftName.Value]; ok {
		if enumDecl.Index(rightName.Value) == -1 {
			return ast.Type{}, &diag.NameError{Line: dot.Pos(), Module: c.module.Name, Message: fmt.Sprintf("%s is not a member of enum %s", rightName.Value, leftName.Value)}
		}
		return ast.NewType(ast.Int), nil
	}

	varType, ok := c.module.Variables[leftName.Value]
	if !ok {
		return ast.Type{}, &diag.NameError{Line: dot.Pos(), Module: c.module.Name, Message: fmt.Sprintf("%s is undeclared", leftName.Value)}
	}
	if varType.Name == ast.Ptr && varType.Subtype != nil {
		varType = *varType.Subtype
	}

	strct, ok := c.module.Structs[varType.Canonical()]
	if !ok {
		return ast.Type{}, &diag.NameError{Line: dot.Pos(), Module: c.module.Name, Message: fmt.Sprintf("can't access '%s.%s', '%s' is not a struct", leftName.Value, rightName.Value, varType.Canonical())}
	}

	memberType, ok := strct.MemberType(rightName.Value)
	if !ok {
		return ast.Type{}, &diag.NameError{Line: dot.Pos(), Module: c.module.Name, Message: fmt.Sprintf("can't access '%s.%s', it is not a valid field of struct '%s'", leftName.Value, rightName.Value, strct.Name.Canonical())}
	}
	return memberType, nil
}

func (c *Checker) checkItem(item *ast.Item) (ast.Type, error) {
	kind, err := c.checkExpr(item.Left)
	if err != nil {
		return ast.Type{}, err
	}
	for _, a := range item.Args {
		if _, err := c.checkExpr(a); err != nil {
			return ast.Type{}, err
		}
	}

	if kind.Name == "array" && len(kind.Params) == 1 {
		return kind.Params[0], nil
	}
	if kind.Name == ast.Str {
		return ast.NewType(ast.Char), nil
	}
	return ast.Type{}, &diag.TypeError{Line: item.Pos(), Module: c.module.Name, Message: fmt.Sprintf("value of type %s is not indexable", kind.Canonical())}
}

// checkCall implements spec §4.4 Call resolution.
func (c *Checker) checkCall(call *ast.Call) (ast.Type, error) {
	argTypes := make([]ast.Type, len(call.Args))
	for i, a := range call.Args {
		t, err := c.checkExpr(a)
		if err != nil {
			return ast.Type{}, err
		}
		argTypes[i] = t
	}

	switch head := call.Head.(type) {
	case *ast.Name:
		return c.resolveCall(c.module, head.Value, argTypes, call)

	case *ast.Dot:
		leftName, ok := head.Left.(*ast.Name)
		if !ok {
			return ast.Type{}, &diag.NameError{Line: call.Pos(), Module: c.module.Name, Message: "call head must resolve through a name"}
		}
		rightName, ok := head.Right.(*ast.Name)
		if !ok {
			return ast.Type{}, &diag.NameError{Line: call.Pos(), Module: c.module.Name, Message: "call head must resolve through a name"}
		}

		if strct, ok := c.module.Structs[leftName.Value]; ok {
			return c.resolveMethod(strct, rightName.Value, argTypes, call)
		}
		if varType, ok := c.module.Variables[leftName.Value]; ok {
			if strct, ok := c.module.Structs[varType.Canonical()]; ok {
				withReceiver := append([]ast.Type{varType}, argTypes...)
				return c.resolveMethod(strct, rightName.Value, withReceiver, call)
			}
		}
		if sub, ok := c.module.Modules[leftName.Value]; ok {
			return c.resolveCall(sub, rightName.Value, argTypes, call)
		}
		return ast.Type{}, &diag.NameError{Line: call.Pos(), Module: c.module.Name, Message: fmt.Sprintf("function '%s' not found in this scope", leftName.Value)}

	default:
		return ast.Type{}, &diag.NameError{Line: call.Pos(), Module: c.module.Name, Message: "call head must be a name or dotted name"}
	}
}

func (c *Checker) resolveCall(scope *Module, name string, argTypes []ast.Type, call *ast.Call) (ast.Type, error) {
	candidates, ok := scope.Functions[name]
	if !ok {
		return ast.Type{}, &diag.NameError{Line: call.Pos(), Module: c.module.Name, Message: fmt.Sprintf("function '%s' not found in this scope", name)}
	}
	found, ok := findOverload(candidates, argTypes)
	if !ok {
		return ast.Type{}, &diag.NameError{Line: call.Pos(), Module: c.module.Name, Message: fmt.Sprintf("can't find a function with signature '%s(%s)'", name, ast.SignatureKey(argTypes))}
	}

	if found.fn != nil {
		call.ResolvedFunc = found.fn.Head
		call.ResolvedModule = scope.Name
		return found.fn.Head.ReturnType, nil
	}
	call.ResolvedFunc = found.extern.Head
	call.ResolvedModule = scope.Name
	return found.extern.Head.ReturnType, nil
}

func (c *Checker) resolveMethod(strct *ast.StructDeclaration, name string, argTypes []ast.Type, call *ast.Call) (ast.Type, error) {
	methods, ok := strct.Methods[name]
	if !ok {
		return ast.Type{}, &diag.NameError{Line: call.Pos(), Module: c.module.Name, Message: fmt.Sprintf("struct '%s' has no method '%s'", strct.Name.Canonical(), name)}
	}
	for _, method := range methods {
		if signatureEquals(method.Head.Signature(), argTypes) {
			call.ResolvedFunc = method.Head
			call.ResolvedModule = method.Head.OwningModule
			return method.Head.ReturnType, nil
		}
	}
	return ast.Type{}, &diag.NameError{Line: call.Pos(), Module: c.module.Name, Message: fmt.Sprintf("can't find a function with signature '%s.%s(%s)'", strct.Name.Canonical(), name, ast.SignatureKey(argTypes))}
}

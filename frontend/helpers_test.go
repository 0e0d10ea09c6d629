package frontend_test

import (
	"strconv"
	"testing"

	"github.com/gogpu/fragc/corelib"
	"github.com/gogpu/fragc/diag"
	"github.com/gogpu/fragc/frontend"
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// shader builds a symbol-resolved tree against a fresh core library, the
// way a host front end would.
type shader struct {
	core *corelib.Core
	lib  *syntax.Library
	tree *syntax.Tree
	line int
}

func newShader() *shader {
	lib := syntax.NewLibrary("Test")
	return &shader{
		core: corelib.New(nil),
		lib:  lib,
		tree: &syntax.Tree{Library: lib},
	}
}

func (s *shader) at() syntax.Span {
	s.line++
	return syntax.At("test.frag", s.line, 1)
}

func (s *shader) translate() (*ir.Library, *diag.List, bool) {
	tr := frontend.New(frontend.Options{
		Settings: s.core.Settings,
		Builtins: frontend.Builtins{Void: s.core.Void, Bool: s.core.Bool, Int: s.core.Int, Real: s.core.Real},
	})
	lib, ok := tr.Translate(s.tree, s.core.Module())
	return lib, tr.Errors(), ok
}

// mustTranslate fails the test on any diagnostic.
func (s *shader) mustTranslate(t *testing.T) *ir.Library {
	t.Helper()
	lib, errs, ok := s.translate()
	if !ok {
		for _, e := range errs.Errors {
			t.Errorf("  - %s", e.Error())
		}
		t.Fatalf("Translate failed with %d errors", errs.Len())
	}
	return lib
}

func (s *shader) class(name string, attrs ...syntax.Attribute) *syntax.ClassNode {
	bt := s.lib.NewType(name, attrs...)
	bt.PreConstructor = &syntax.Function{
		Name:    "PreConstructor",
		Kind:    syntax.FunctionPreConstructor,
		Owner:   bt,
		Library: s.lib,
		This:    &syntax.Variable{Name: "this", Type: bt},
	}
	c := &syntax.ClassNode{Name: name, Type: bt, Attributes: bt.Attributes, Span: s.at()}
	s.tree.Classes = append(s.tree.Classes, c)
	s.tree.Types = append(s.tree.Types, bt)
	return c
}

func (s *shader) field(c *syntax.ClassNode, name string, typ *syntax.BoundType, init syntax.Expr, attrs ...syntax.Attribute) *syntax.MemberVariableNode {
	static := syntax.Attributes(attrs).Has(s.core.Settings.Names.StaticAttribute)
	f := c.Type.AddField(name, typ, static, attrs...)
	v := &syntax.MemberVariableNode{
		Name:       name,
		Type:       typ,
		Attributes: attrs,
		IsStatic:   static,
		Initial:    init,
		Field:      f,
		Span:       s.at(),
	}
	c.Variables = append(c.Variables, v)
	return v
}

func (s *shader) function(c *syntax.ClassNode, name string, ret *syntax.BoundType, static bool, params ...syntax.Param) *syntax.FunctionNode {
	fn := c.Type.AddFunction(name, ret, static, params...)
	node := &syntax.FunctionNode{Name: name, Function: fn, Return: ret, Span: s.at()}
	for _, p := range params {
		node.Params = append(node.Params, &syntax.ParameterNode{
			Name:     p.Name,
			Type:     p.Type,
			Ref:      p.Ref,
			Variable: &syntax.Variable{Name: p.Name, Type: p.Type},
			Span:     s.at(),
		})
	}
	c.Functions = append(c.Functions, node)
	return node
}

// local declares a local variable statement and returns a reference to it.
func (s *shader) local(name string, typ *syntax.BoundType, init syntax.Expr) (*syntax.LocalVarStmt, *syntax.LocalRefExpr) {
	v := &syntax.Variable{Name: name, Type: typ}
	span := s.at()
	return &syntax.LocalVarStmt{Name: name, Variable: v, Type: typ, Init: init, Span: span},
		&syntax.LocalRefExpr{Variable: v, Span: span}
}

func (s *shader) this(fn *syntax.FunctionNode) *syntax.LocalRefExpr {
	return &syntax.LocalRefExpr{Variable: fn.Function.This, Span: s.at()}
}

func (s *shader) param(fn *syntax.FunctionNode, i int) *syntax.LocalRefExpr {
	return &syntax.LocalRefExpr{Variable: fn.Params[i].Variable, Span: s.at()}
}

func (s *shader) member(left syntax.Expr, f *syntax.Field, usage syntax.IoMode) *syntax.MemberAccessExpr {
	return &syntax.MemberAccessExpr{Left: left, Name: f.Name, Field: f, IsStatic: f.IsStatic, Usage: usage, Type: f.Type, Span: s.at()}
}

func (s *shader) swizzle(left syntax.Expr, name string, typ *syntax.BoundType) *syntax.MemberAccessExpr {
	return &syntax.MemberAccessExpr{Left: left, Name: name, Usage: syntax.IoRead, Type: typ, Span: s.at()}
}

func (s *shader) intLit(v int) *syntax.ValueExpr {
	return &syntax.ValueExpr{Token: strconv.Itoa(v), Type: s.core.Int, Span: s.at()}
}

func (s *shader) realLit(token string) *syntax.ValueExpr {
	return &syntax.ValueExpr{Token: token, Type: s.core.Real, Span: s.at()}
}

func (s *shader) boolLit(v bool) *syntax.ValueExpr {
	return &syntax.ValueExpr{Token: strconv.FormatBool(v), Type: s.core.Bool, Span: s.at()}
}

// call calls fn on receiver, or statically when receiver is nil.
func (s *shader) call(fn *syntax.Function, receiver syntax.Expr, args ...syntax.Expr) *syntax.CallExpr {
	span := s.at()
	if receiver == nil {
		receiver = &syntax.StaticTypeExpr{Referenced: fn.Owner, Span: span}
	}
	return &syntax.CallExpr{
		Callee: &syntax.MemberAccessExpr{
			Left:     receiver,
			Name:     fn.Name,
			Function: fn,
			IsStatic: fn.IsStatic,
			Usage:    syntax.IoRead,
			Type:     fn.Return,
			Span:     span,
		},
		Args: args,
		Type: fn.Return,
		Span: span,
	}
}

func (s *shader) construct(typ *syntax.BoundType, args ...syntax.Expr) *syntax.CallExpr {
	span := s.at()
	return &syntax.CallExpr{
		Callee: &syntax.StaticTypeExpr{Referenced: typ, Span: span},
		Args:   args,
		Type:   typ,
		Span:   span,
	}
}

func (s *shader) binary(op syntax.Operator, left, right syntax.Expr, typ *syntax.BoundType) *syntax.BinaryExpr {
	return &syntax.BinaryExpr{Op: op, Left: left, Right: right, Type: typ, Span: s.at()}
}

func (s *shader) assign(left, right syntax.Expr) syntax.Stmt {
	return &syntax.ExprStmt{X: s.binary(syntax.OpAssign, left, right, nil)}
}

func (s *shader) ret(value syntax.Expr) *syntax.ReturnStmt {
	return &syntax.ReturnStmt{Value: value, Span: s.at()}
}

func exprStmt(e syntax.Expr) syntax.Stmt {
	return &syntax.ExprStmt{X: e}
}

func attr(name string, params ...syntax.AttributeParam) syntax.Attribute {
	return syntax.NewAttribute(name, params...)
}

// findFunction returns the library function with the given name.
func findFunction(t *testing.T, lib *ir.Library, name string) *ir.Function {
	t.Helper()
	for _, fn := range lib.Functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("Function %s not found", name)
	return nil
}

// countOps counts the ops with the given code across all blocks of fn.
func countOps(fn *ir.Function, code ir.OpCode) int {
	n := 0
	for _, b := range fn.Blocks {
		for _, op := range b.Ops {
			if op.Code == code {
				n++
			}
		}
	}
	return n
}

// opsOf returns the codes of every op in fn in block order.
func opsOf(fn *ir.Function) []ir.OpCode {
	var out []ir.OpCode
	for _, b := range fn.Blocks {
		for _, op := range b.Ops {
			out = append(out, op.Code)
		}
	}
	return out
}

package corelib

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

func (c *Core) registerConstructors() {
	for _, sym := range []*syntax.BoundType{c.Bool, c.Int, c.Real} {
		c.Library.TypeResolvers(sym).DefaultConstructor = c.zeroScalar
		c.Library.TypeResolvers(sym).BackupConstructor = c.scalarConstructor
	}
	for sym := range c.vectors {
		r := c.Library.TypeResolvers(sym)
		r.DefaultConstructor = c.zeroComposite
		r.BackupConstructor = c.compositeConstructor
	}
	for _, sym := range []*syntax.BoundType{c.Real2x2, c.Real3x3, c.Real4x4} {
		r := c.Library.TypeResolvers(sym)
		r.DefaultConstructor = c.zeroComposite
		r.BackupConstructor = c.compositeConstructor
	}
}

// zeroValue returns the zero value of a scalar type.
func zeroValue(t *ir.Type) any {
	switch t.Base {
	case ir.BaseBool:
		return false
	case ir.BaseInt:
		return int32(0)
	}
	return float32(0)
}

func (c *Core) zeroScalar(t ir.Translator, typ *syntax.BoundType, span syntax.Span) *ir.Op {
	it := t.TypeOf(typ, span)
	return t.Constant(it, zeroValue(it))
}

// zeroComposite builds a vector or matrix with every component zero.
func (c *Core) zeroComposite(t ir.Translator, typ *syntax.BoundType, span syntax.Span) *ir.Op {
	return c.zeroOf(t, t.TypeOf(typ, span))
}

func (c *Core) zeroOf(t ir.Translator, it *ir.Type) *ir.Op {
	if it.Component == nil {
		return t.Constant(it, zeroValue(it))
	}
	elem := c.zeroOf(t, it.Component)
	args := make([]ir.Node, it.Components)
	for i := range args {
		args[i] = elem
	}
	return t.Emit(ir.OpCompositeConstruct, it, args...)
}

// scalarConstructor handles Real(x) style copies. A one-argument
// constructor of a different scalar type is a conversion.
func (c *Core) scalarConstructor(t ir.Translator, e *syntax.CallExpr) *ir.Op {
	result := t.TypeOf(e.Type, e.Span)
	if len(e.Args) != 1 {
		t.Errorf(e.Span, "Constructor of '%s' expects 1 argument, got %d", e.Type, len(e.Args))
		return t.Dummy(result)
	}
	from := e.Args[0].ResultType()
	if from == e.Type {
		return t.ValueOf(t.Walk(e.Args[0]))
	}
	if cast, ok := t.Library().FindCast(ir.CastKey{From: from, To: e.Type}); ok {
		return cast(t, &syntax.CastExpr{Operand: e.Args[0], Type: e.Type, Span: e.Span})
	}
	t.Errorf(e.Span, "Cannot construct '%s' from '%s'", e.Type, from)
	return t.Dummy(result)
}

// compositeConstructor builds vectors from scalars and smaller vectors, and
// matrices from columns. A single scalar argument is splatted.
func (c *Core) compositeConstructor(t ir.Translator, e *syntax.CallExpr) *ir.Op {
	result := t.TypeOf(e.Type, e.Span)
	args := make([]ir.Node, 0, len(e.Args))
	for _, a := range e.Args {
		args = append(args, t.ValueOf(t.Walk(a)))
	}
	if len(args) == 0 {
		return c.zeroOf(t, result)
	}
	if len(args) == 1 && result.Component != nil {
		arg := args[0].(*ir.Op)
		if arg.Result == result.Component {
			return splat(t, result, arg)
		}
		if arg.Result == result {
			return arg
		}
	}
	if n := c.countComponents(e.Args); result.Base == ir.BaseVector && n != result.Components {
		t.Errorf(e.Span, "Constructor of '%s' expects %d components, got %d", e.Type, result.Components, n)
		return t.Dummy(result)
	}
	if result.Base == ir.BaseMatrix && len(args) != result.Components {
		t.Errorf(e.Span, "Constructor of '%s' expects %d columns, got %d", e.Type, result.Components, len(args))
		return t.Dummy(result)
	}
	return t.Emit(ir.OpCompositeConstruct, result, args...)
}

// countComponents sums the scalar components of the argument expressions.
func (c *Core) countComponents(args []syntax.Expr) int {
	n := 0
	for _, a := range args {
		if _, count := c.components(a.ResultType()); count > 0 {
			n += count
		} else {
			n++
		}
	}
	return n
}

func splat(t ir.Translator, result *ir.Type, scalar *ir.Op) *ir.Op {
	args := make([]ir.Node, result.Components)
	for i := range args {
		args[i] = scalar
	}
	return t.Emit(ir.OpCompositeConstruct, result, args...)
}

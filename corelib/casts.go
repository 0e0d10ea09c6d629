package corelib

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

func (c *Core) registerCasts() {
	lib := c.Library
	for n := 1; n <= 4; n++ {
		ints, reals := c.Vector(c.Int, n), c.Vector(c.Real, n)
		lib.RegisterCast(ir.CastKey{From: ints, To: reals}, convert(ir.OpConvertSToF))
		lib.RegisterCast(ir.CastKey{From: reals, To: ints}, convert(ir.OpConvertFToS))
	}

	lib.RegisterCast(ir.CastKey{From: c.Bool, To: c.Int}, selectCast(int32(1), int32(0)))
	lib.RegisterCast(ir.CastKey{From: c.Bool, To: c.Real}, selectCast(float32(1), float32(0)))
	lib.RegisterCast(ir.CastKey{From: c.Int, To: c.Bool}, nonZero(ir.OpINotEqual, int32(0)))
	lib.RegisterCast(ir.CastKey{From: c.Real, To: c.Bool}, nonZero(ir.OpFOrdNotEqual, float32(0)))
}

func convert(code ir.OpCode) ir.CastResolver {
	return func(t ir.Translator, e *syntax.CastExpr) *ir.Op {
		operand := t.ValueOf(t.Walk(e.Operand))
		return t.Emit(code, t.TypeOf(e.Type, e.Span), operand)
	}
}

// selectCast maps true and false to the given constants.
func selectCast(yes, no any) ir.CastResolver {
	return func(t ir.Translator, e *syntax.CastExpr) *ir.Op {
		result := t.TypeOf(e.Type, e.Span)
		cond := t.ValueOf(t.Walk(e.Operand))
		return t.Emit(ir.OpSelect, result, cond, t.Constant(result, yes), t.Constant(result, no))
	}
}

func nonZero(code ir.OpCode, zero any) ir.CastResolver {
	return func(t ir.Translator, e *syntax.CastExpr) *ir.Op {
		operand := t.ValueOf(t.Walk(e.Operand))
		return t.Emit(code, t.TypeOf(e.Type, e.Span), operand, t.Constant(operand.Result, zero))
	}
}

package corelib

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// arithmetic maps an operator to its integer and float opcodes.
var arithmetic = map[syntax.Operator][2]ir.OpCode{
	syntax.OpAdd: {ir.OpIAdd, ir.OpFAdd},
	syntax.OpSub: {ir.OpISub, ir.OpFSub},
	syntax.OpMul: {ir.OpIMul, ir.OpFMul},
	syntax.OpDiv: {ir.OpSDiv, ir.OpFDiv},
	syntax.OpMod: {ir.OpSMod, ir.OpFMod},
}

var comparisons = map[syntax.Operator][2]ir.OpCode{
	syntax.OpEqual:        {ir.OpIEqual, ir.OpFOrdEqual},
	syntax.OpNotEqual:     {ir.OpINotEqual, ir.OpFOrdNotEqual},
	syntax.OpLess:         {ir.OpSLessThan, ir.OpFOrdLessThan},
	syntax.OpLessEqual:    {ir.OpSLessThanEqual, ir.OpFOrdLessThanEqual},
	syntax.OpGreater:      {ir.OpSGreaterThan, ir.OpFOrdGreaterThan},
	syntax.OpGreaterEqual: {ir.OpSGreaterThanEqual, ir.OpFOrdGreaterThanEqual},
}

var bitwise = map[syntax.Operator]ir.OpCode{
	syntax.OpBitAnd:     ir.OpBitwiseAnd,
	syntax.OpBitOr:      ir.OpBitwiseOr,
	syntax.OpBitXor:     ir.OpBitwiseXor,
	syntax.OpShiftLeft:  ir.OpShiftLeftLogical,
	syntax.OpShiftRight: ir.OpShiftRightArithmetic,
}

func (c *Core) registerOperators() {
	lib := c.Library
	numeric := []*syntax.BoundType{
		c.Int, c.Int2, c.Int3, c.Int4,
		c.Real, c.Real2, c.Real3, c.Real4,
	}

	for _, sym := range numeric {
		elem, count := c.components(sym)
		float := elem == c.Real
		pick := 0
		if float {
			pick = 1
		}
		for op, codes := range arithmetic {
			lib.RegisterBinary(ir.BinaryKey{Left: sym, Right: sym, Op: op}, binary(codes[pick]))
			if count > 1 && !(float && op == syntax.OpMul) {
				// Vector-scalar forms splat the scalar first.
				lib.RegisterBinary(ir.BinaryKey{Left: sym, Right: elem, Op: op}, splatBinary(codes[pick], false))
				lib.RegisterBinary(ir.BinaryKey{Left: elem, Right: sym, Op: op}, splatBinary(codes[pick], true))
			}
		}
		if float && count > 1 {
			lib.RegisterBinary(ir.BinaryKey{Left: sym, Right: elem, Op: syntax.OpMul}, scaled(ir.OpVectorTimesScalar, false))
			lib.RegisterBinary(ir.BinaryKey{Left: elem, Right: sym, Op: syntax.OpMul}, scaled(ir.OpVectorTimesScalar, true))
		}
		if !float {
			for op, code := range bitwise {
				lib.RegisterBinary(ir.BinaryKey{Left: sym, Right: sym, Op: op}, binary(code))
			}
			lib.RegisterUnary(ir.UnaryKey{Operand: sym, Op: syntax.OpBitNot}, unary(ir.OpNot))
		}
		negate := ir.OpSNegate
		if float {
			negate = ir.OpFNegate
		}
		lib.RegisterUnary(ir.UnaryKey{Operand: sym, Op: syntax.OpNegate}, unary(negate))
		lib.RegisterUnary(ir.UnaryKey{Operand: sym, Op: syntax.OpPositive}, identity)
		if count == 1 {
			for op, codes := range comparisons {
				lib.RegisterBinary(ir.BinaryKey{Left: sym, Right: sym, Op: op}, binary(codes[pick]))
			}
			lib.RegisterUnary(ir.UnaryKey{Operand: sym, Op: syntax.OpIncrement}, step(arithmetic[syntax.OpAdd][pick]))
			lib.RegisterUnary(ir.UnaryKey{Operand: sym, Op: syntax.OpDecrement}, step(arithmetic[syntax.OpSub][pick]))
		}
	}

	for _, sym := range []*syntax.BoundType{c.Bool, c.Bool2, c.Bool3, c.Bool4} {
		lib.RegisterBinary(ir.BinaryKey{Left: sym, Right: sym, Op: syntax.OpLogicalAnd}, binary(ir.OpLogicalAnd))
		lib.RegisterBinary(ir.BinaryKey{Left: sym, Right: sym, Op: syntax.OpLogicalOr}, binary(ir.OpLogicalOr))
		lib.RegisterUnary(ir.UnaryKey{Operand: sym, Op: syntax.OpLogicalNot}, unary(ir.OpLogicalNot))
	}
	lib.RegisterBinary(ir.BinaryKey{Left: c.Bool, Right: c.Bool, Op: syntax.OpEqual}, binary(ir.OpLogicalEqual))
	lib.RegisterBinary(ir.BinaryKey{Left: c.Bool, Right: c.Bool, Op: syntax.OpNotEqual}, binary(ir.OpLogicalNotEqual))

	matrices := []struct{ m, v *syntax.BoundType }{
		{c.Real2x2, c.Real2},
		{c.Real3x3, c.Real3},
		{c.Real4x4, c.Real4},
	}
	for _, mv := range matrices {
		lib.RegisterBinary(ir.BinaryKey{Left: mv.m, Right: mv.v, Op: syntax.OpMul}, binary(ir.OpMatrixTimesVector))
		lib.RegisterBinary(ir.BinaryKey{Left: mv.v, Right: mv.m, Op: syntax.OpMul}, binary(ir.OpVectorTimesMatrix))
		lib.RegisterBinary(ir.BinaryKey{Left: mv.m, Right: mv.m, Op: syntax.OpMul}, binary(ir.OpMatrixTimesMatrix))
		lib.RegisterBinary(ir.BinaryKey{Left: mv.m, Right: c.Real, Op: syntax.OpMul}, scaled(ir.OpMatrixTimesScalar, false))
		lib.RegisterBinary(ir.BinaryKey{Left: c.Real, Right: mv.m, Op: syntax.OpMul}, scaled(ir.OpMatrixTimesScalar, true))
	}
}

// binary lowers both operands to values and emits code.
func binary(code ir.OpCode) ir.BinaryResolver {
	return func(t ir.Translator, e *syntax.BinaryExpr) *ir.Op {
		left := t.ValueOf(t.Walk(e.Left))
		right := t.ValueOf(t.Walk(e.Right))
		return t.Emit(code, t.TypeOf(e.Type, e.Span), left, right)
	}
}

// scaled emits an op whose scalar operand comes last, swapping operands
// written scalar-first.
func scaled(code ir.OpCode, scalarFirst bool) ir.BinaryResolver {
	return func(t ir.Translator, e *syntax.BinaryExpr) *ir.Op {
		left := t.ValueOf(t.Walk(e.Left))
		right := t.ValueOf(t.Walk(e.Right))
		if scalarFirst {
			left, right = right, left
		}
		return t.Emit(code, t.TypeOf(e.Type, e.Span), left, right)
	}
}

// splatBinary widens the scalar operand to the result vector type.
func splatBinary(code ir.OpCode, scalarFirst bool) ir.BinaryResolver {
	return func(t ir.Translator, e *syntax.BinaryExpr) *ir.Op {
		result := t.TypeOf(e.Type, e.Span)
		left := t.ValueOf(t.Walk(e.Left))
		right := t.ValueOf(t.Walk(e.Right))
		if scalarFirst {
			left = splat(t, result, left)
		} else {
			right = splat(t, result, right)
		}
		return t.Emit(code, result, left, right)
	}
}

func unary(code ir.OpCode) ir.UnaryResolver {
	return func(t ir.Translator, e *syntax.UnaryExpr) *ir.Op {
		operand := t.ValueOf(t.Walk(e.Operand))
		return t.Emit(code, t.TypeOf(e.Type, e.Span), operand)
	}
}

func identity(t ir.Translator, e *syntax.UnaryExpr) *ir.Op {
	return t.ValueOf(t.Walk(e.Operand))
}

// step implements ++ and --: the operand is loaded, adjusted by one and
// stored back. The new value is the result.
func step(code ir.OpCode) ir.UnaryResolver {
	return func(t ir.Translator, e *syntax.UnaryExpr) *ir.Op {
		result := t.TypeOf(e.Type, e.Span)
		ptr := t.Walk(e.Operand)
		if !ptr.IsPointer() {
			t.Errorf(e.Span, "Operator '%s' requires an assignable operand", e.Op)
			return t.Dummy(result)
		}
		value := t.ValueOf(ptr)
		var one *ir.Op
		if value.Result.Base == ir.BaseFloat {
			one = t.Constant(value.Result, float32(1))
		} else {
			one = t.Constant(value.Result, int32(1))
		}
		next := t.Emit(code, value.Result, value, one)
		t.Store(ptr, next)
		return next
	}
}

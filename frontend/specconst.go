package frontend

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

var componentNames = [...]string{"X", "Y", "Z", "W"}

// addSpecConstant declares the specialization constant for a static field.
// Scalars are seeded from a literal initializer; composites recurse into
// keyless sub-constants.
func (tr *Translator) addSpecConstant(v *syntax.MemberVariableNode) *ir.Op {
	t := tr.TypeOf(v.Type, v.Span)
	var seed *syntax.ValueExpr
	if ve, ok := v.Initial.(*syntax.ValueExpr); ok {
		seed = ve
	}
	op := tr.specConstant(t, v.Name, seed, v.Span)
	tr.lib.AddSpecConstant(op, v.Member())
	return op
}

func (tr *Translator) specConstant(t *ir.Type, name string, seed *syntax.ValueExpr, span syntax.Span) *ir.Op {
	var op *ir.Op
	switch t.Base {
	case ir.BaseBool:
		value := false
		if seed != nil {
			value, _ = tr.parseLiteral(seed.Token, t, seed.Span).(bool)
		}
		op = ir.NewOp(ir.OpSpecConstantFalse, t)
		if value {
			op.Code = ir.OpSpecConstantTrue
		}
	case ir.BaseInt, ir.BaseFloat:
		value := zeroLiteral(t)
		if seed != nil {
			value = tr.parseLiteral(seed.Token, t, seed.Span)
		}
		op = ir.NewOp(ir.OpSpecConstant, t, tr.Literal(value))
	case ir.BaseVector, ir.BaseMatrix:
		args := make([]ir.Node, t.Components)
		for i := range args {
			sub := tr.specConstant(t.Component, name+"."+componentNames[i], nil, span)
			tr.lib.AddSpecConstant(sub, nil)
			args[i] = sub
		}
		op = ir.NewOp(ir.OpSpecConstantComposite, t, args...)
	case ir.BaseStruct:
		names := t.MemberNames()
		args := make([]ir.Node, len(names))
		for i, member := range names {
			sub := tr.specConstant(t.MemberType(i), name+"."+member, nil, span)
			tr.lib.AddSpecConstant(sub, nil)
			args[i] = sub
		}
		op = ir.NewOp(ir.OpSpecConstantComposite, t, args...)
	default:
		tr.Errorf(span, "Type '%s' is not valid as a specialization constant.", t.Name)
		op = ir.NewOp(ir.OpSpecConstantComposite, t)
	}
	op.Debug = ir.DebugInfo{Span: span, Name: name}
	return op
}

func zeroLiteral(t *ir.Type) any {
	if t.Base == ir.BaseFloat {
		return float32(0)
	}
	return int32(0)
}

func isSpecConstant(op *ir.Op) bool {
	switch op.Code {
	case ir.OpSpecConstant, ir.OpSpecConstantTrue, ir.OpSpecConstantFalse, ir.OpSpecConstantComposite:
		return true
	}
	return false
}

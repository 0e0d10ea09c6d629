package frontend

import (
	"strconv"
	"strings"

	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// Constant returns the constant of type t with value v, creating it once
// per library. Booleans become OpConstantTrue/OpConstantFalse.
func (tr *Translator) Constant(t *ir.Type, v any) *ir.Op {
	if op := tr.lib.FindConstant(t, v); op != nil {
		return op
	}
	var op *ir.Op
	switch b := v.(type) {
	case bool:
		if b {
			op = ir.NewOp(ir.OpConstantTrue, t)
		} else {
			op = ir.NewOp(ir.OpConstantFalse, t)
		}
	default:
		op = ir.NewOp(ir.OpConstant, t, tr.Literal(v))
	}
	tr.lib.AddConstant(t, v, op)
	return op
}

// IntConstant returns the core Int constant for v.
func (tr *Translator) IntConstant(v int32) *ir.Op {
	return tr.Constant(tr.intType(), v)
}

func (tr *Translator) walkValue(e *syntax.ValueExpr) *ir.Op {
	t := tr.TypeOf(e.Type, e.Span)
	return tr.Constant(t, tr.parseLiteral(e.Token, t, e.Span))
}

// parseLiteral converts a literal token for type t. Malformed and
// out-of-range tokens are reported and yield the zero value.
func (tr *Translator) parseLiteral(token string, t *ir.Type, span syntax.Span) any {
	switch t.Base {
	case ir.BaseBool:
		b, err := strconv.ParseBool(token)
		if err != nil {
			tr.Errorf(span, "Literal '%s' is out of range for type '%s'", token, t.Name)
		}
		return b
	case ir.BaseInt:
		n, err := strconv.ParseInt(token, 0, 32)
		if err != nil {
			tr.Errorf(span, "Literal '%s' is out of range for type '%s'", token, t.Name)
			return int32(0)
		}
		return int32(n)
	case ir.BaseFloat:
		f, err := strconv.ParseFloat(strings.TrimSuffix(token, "f"), 32)
		if err != nil {
			tr.Errorf(span, "Literal '%s' is out of range for type '%s'", token, t.Name)
			return float32(0)
		}
		return float32(f)
	}
	tr.Errorf(span, "Literals of type '%s' are not supported", t.Name)
	return int32(0)
}

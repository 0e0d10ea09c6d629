package syntax

// Operator identifies a unary or binary operator token.
type Operator uint8

const (
	OpInvalid Operator = iota

	// Assignment
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign

	// Arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	// Comparison
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual

	// Logical and bitwise
	OpLogicalAnd
	OpLogicalOr
	OpLogicalNot
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShiftLeft
	OpShiftRight

	// Unary only
	OpNegate
	OpPositive
	OpIncrement
	OpDecrement
	OpDereference
	OpAddressOf
)

var operatorNames = [...]string{
	OpInvalid:      "<invalid>",
	OpAssign:       "=",
	OpAddAssign:    "+=",
	OpSubAssign:    "-=",
	OpMulAssign:    "*=",
	OpDivAssign:    "/=",
	OpModAssign:    "%=",
	OpAdd:          "+",
	OpSub:          "-",
	OpMul:          "*",
	OpDiv:          "/",
	OpMod:          "%",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpLogicalAnd:   "&&",
	OpLogicalOr:    "||",
	OpLogicalNot:   "!",
	OpBitAnd:       "&",
	OpBitOr:        "|",
	OpBitXor:       "^",
	OpBitNot:       "~",
	OpShiftLeft:    "<<",
	OpShiftRight:   ">>",
	OpNegate:       "-",
	OpPositive:     "+",
	OpIncrement:    "++",
	OpDecrement:    "--",
	OpDereference:  "*",
	OpAddressOf:    "&",
}

func (o Operator) String() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return "<invalid>"
}

// IsCompoundAssignment reports whether o is one of +=, -=, *=, /=, %=.
func (o Operator) IsCompoundAssignment() bool {
	return o >= OpAddAssign && o <= OpModAssign
}

// Arithmetic returns the arithmetic operator a compound assignment applies,
// or OpInvalid when o is not a compound assignment.
func (o Operator) Arithmetic() Operator {
	switch o {
	case OpAddAssign:
		return OpAdd
	case OpSubAssign:
		return OpSub
	case OpMulAssign:
		return OpMul
	case OpDivAssign:
		return OpDiv
	case OpModAssign:
		return OpMod
	}
	return OpInvalid
}

// IoMode describes how a member access is used.
type IoMode uint8

const (
	IoRead IoMode = 1 << iota
	IoWrite
)

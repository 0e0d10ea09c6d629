package ir

import "github.com/gogpu/fragc/syntax"

// BlockKind tags the structured control-flow role of a block header.
type BlockKind uint8

const (
	BlockPlain BlockKind = iota
	BlockSelection
	BlockLoop
)

func (k BlockKind) String() string {
	switch k {
	case BlockSelection:
		return "Selection"
	case BlockLoop:
		return "Loop"
	}
	return "Plain"
}

// Block is a basic block. Only the first block of a function holds Locals,
// which are emitted before any other instruction.
type Block struct {
	Name     string
	Kind     BlockKind
	Locals   []*Op
	Ops      []*Op
	Merge    *Block
	Continue *Block
	Function *Function
}

func (*Block) irNode() {}

// Add appends op to the block.
func (b *Block) Add(op *Op) *Op {
	b.Ops = append(b.Ops, op)
	return op
}

// Terminator returns the last op if it is a terminator, or nil.
func (b *Block) Terminator() *Op {
	if len(b.Ops) == 0 {
		return nil
	}
	last := b.Ops[len(b.Ops)-1]
	if last.Code.IsTerminator() {
		return last
	}
	return nil
}

// Op is a single instruction. A nil Result means the op produces no value.
type Op struct {
	Code   OpCode
	Result *Type
	Args   []Node
	Debug  DebugInfo
}

func (*Op) irNode() {}

// DebugInfo carries source information for an op.
type DebugInfo struct {
	Span syntax.Span
	Name string
}

// NewOp creates an op.
func NewOp(code OpCode, result *Type, args ...Node) *Op {
	return &Op{Code: code, Result: result, Args: args}
}

// IsPointer reports whether the op yields a pointer (an lvalue).
func (o *Op) IsPointer() bool {
	return o != nil && o.Result != nil && o.Result.IsPointer()
}

// Arg returns the i'th argument or nil.
func (o *Op) Arg(i int) Node {
	if i < 0 || i >= len(o.Args) {
		return nil
	}
	return o.Args[i]
}

// LiteralArg returns the value of the i'th argument if it is a literal.
func (o *Op) LiteralArg(i int) (any, bool) {
	lit, ok := o.Arg(i).(*Literal)
	if !ok {
		return nil, false
	}
	return lit.Value, true
}

package ir

import "github.com/gogpu/fragc/syntax"

// Function is a translated function. Its signature is created during the
// pre-walk; blocks are filled in when the body is walked.
type Function struct {
	Name       string
	Type       *Type
	Parameters []*Op
	Blocks     []*Block
	Meta       *FunctionMeta
	Source     *syntax.Function
	Library    *Library
}

func (*Function) irNode() {}

// ReturnType returns the declared return type.
func (f *Function) ReturnType() *Type {
	return f.Type.ReturnType()
}

// AddParameter appends an OpFunctionParameter of the given type.
func (f *Function) AddParameter(t *Type, name string) *Op {
	op := NewOp(OpFunctionParameter, t)
	op.Debug.Name = name
	f.Parameters = append(f.Parameters, op)
	return op
}

// NewBlock creates a block owned by f without appending it.
func (f *Function) NewBlock(name string) *Block {
	return &Block{Name: name, Function: f}
}

// AddBlock appends b to the function's block list.
func (f *Function) AddBlock(b *Block) *Block {
	b.Function = f
	f.Blocks = append(f.Blocks, b)
	return b
}

// EntryBlock returns the first block, creating it if needed.
func (f *Function) EntryBlock() *Block {
	if len(f.Blocks) == 0 {
		f.AddBlock(f.NewBlock("entry"))
	}
	return f.Blocks[0]
}

// GlobalVariable is a module-scope variable and the function that
// initializes it, if any.
type GlobalVariable struct {
	Instance    *Op
	Initializer *Function
	Source      syntax.Member
}

// ExecutionMode is an OpExecutionMode applied to an entry point.
type ExecutionMode struct {
	Mode     uint32
	Literals []uint32
}

// SPIR-V execution modes used by entry points.
const (
	ExecutionModeInvocations     uint32 = 0
	ExecutionModeOriginUpperLeft uint32 = 7
	ExecutionModeInputPoints     uint32 = 19
	ExecutionModeInputLines      uint32 = 20
	ExecutionModeTriangles       uint32 = 22
	ExecutionModeOutputVertices  uint32 = 26
	ExecutionModeLocalSize       uint32 = 17
	ExecutionModeOutputPoints    uint32 = 27
	ExecutionModeOutputLineStrip uint32 = 28
	ExecutionModeOutputTriStrip  uint32 = 29
)

// EntryPoint is a stage entry point.
type EntryPoint struct {
	Name      string
	Stage     FragmentType
	Function  *Function
	Modes     []ExecutionMode
	Interface []*Op
	Owner     *Type
}

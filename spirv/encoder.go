package spirv

import (
	"fmt"
	"math"

	"github.com/gogpu/fragc/ir"
)

// Encode writes lib as a SPIR-V binary using DefaultOptions.
func Encode(lib *ir.Library) ([]byte, error) {
	return EncodeWithOptions(lib, DefaultOptions())
}

// EncodeWithOptions writes lib as a SPIR-V binary.
//
// Every function of lib is emitted, along with any function, type or
// constant of a dependency that one of them references.
func EncodeWithOptions(lib *ir.Library, opts Options) ([]byte, error) {
	if lib == nil {
		return nil, fmt.Errorf("spirv: nil library")
	}
	if !lib.Translated {
		return nil, fmt.Errorf("spirv: library %q has not been translated", lib.Name)
	}
	e := &encoder{
		lib:       lib,
		opts:      opts,
		b:         NewModuleBuilder(opts.Version),
		ids:       make(map[ir.Node]uint32),
		dedupe:    make(map[string]uint32),
		queued:    make(map[*ir.Function]bool),
		decorated: make(map[*ir.Op]bool),
		locations: make(map[ir.StorageClass]uint32),
	}
	e.encode()
	if e.err != nil {
		return nil, e.err
	}
	return e.b.Build(), nil
}

type encoder struct {
	lib  *ir.Library
	opts Options
	b    *ModuleBuilder

	ids    map[ir.Node]uint32
	dedupe map[string]uint32 // opcode and operand words to id

	queue  []*ir.Function
	queued map[*ir.Function]bool

	specID    uint32
	decorated map[*ir.Op]bool
	locations map[ir.StorageClass]uint32

	err error
}

func (e *encoder) fail(format string, args ...any) {
	if e.err == nil {
		e.err = fmt.Errorf("spirv: "+format, args...)
	}
}

func (e *encoder) encode() {
	e.b.AddCapability(CapabilityShader)
	for _, ep := range e.lib.EntryPoints {
		if ep.Stage == ir.FragmentGeometry {
			e.b.AddCapability(CapabilityGeometry)
			break
		}
	}
	e.b.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	for _, t := range e.lib.Types {
		e.typeID(t)
	}
	for _, c := range e.lib.Constants {
		e.valueID(c)
	}
	for _, c := range e.lib.SpecConstants {
		id := e.valueID(c)
		if c.Code != ir.OpSpecConstantComposite {
			e.b.AddDecorate(id, DecorationSpecID, e.specID)
			e.specID++
		}
	}
	for _, g := range e.lib.Globals {
		if g.Instance == nil {
			e.fail("global without an instance in %s", e.lib.Name)
			continue
		}
		e.valueID(g.Instance)
		if g.Instance.Result.StorageClass == ir.StorageStorageBuffer {
			e.decorateBuffer(g.Instance.Result.Deref)
		}
	}

	for _, f := range e.lib.Functions {
		e.functionID(f)
	}
	for i := 0; i < len(e.queue) && e.err == nil; i++ {
		e.function(e.queue[i])
	}

	for _, ep := range e.lib.EntryPoints {
		e.entryPoint(ep)
	}
}

func (e *encoder) entryPoint(ep *ir.EntryPoint) {
	model, ok := executionModel(ep.Stage)
	if !ok {
		e.fail("entry point %s has no stage", ep.Name)
		return
	}
	fn := e.functionID(ep.Function)
	interfaces := make([]uint32, 0, len(ep.Interface))
	for _, v := range ep.Interface {
		interfaces = append(interfaces, e.valueID(v))
		sc := v.Result.StorageClass
		if (sc == ir.StorageInput || sc == ir.StorageOutput) && !e.decorated[v] {
			e.decorated[v] = true
			e.b.AddDecorate(e.ids[v], DecorationLocation, e.locations[sc])
			e.locations[sc]++
		}
	}
	e.b.AddEntryPoint(model, fn, ep.Name, interfaces)
	for _, m := range ep.Modes {
		e.b.AddExecutionMode(fn, m.Mode, m.Literals...)
	}
}

func executionModel(stage ir.FragmentType) (ExecutionModel, bool) {
	switch stage {
	case ir.FragmentVertex:
		return ExecutionModelVertex, true
	case ir.FragmentPixel:
		return ExecutionModelFragment, true
	case ir.FragmentGeometry:
		return ExecutionModelGeometry, true
	case ir.FragmentCompute:
		return ExecutionModelGLCompute, true
	}
	return 0, false
}

// decorateBuffer marks a storage buffer struct and lays out its single
// member.
func (e *encoder) decorateBuffer(t *ir.Type) {
	if t == nil || t.Base != ir.BaseStruct {
		return
	}
	id := e.typeID(t)
	e.b.AddDecorate(id, DecorationBlock)
	e.b.AddMemberDecorate(id, 0, DecorationOffset, 0)
	for _, p := range t.Params {
		if arr, ok := p.(*ir.Type); ok && arr.Base == ir.BaseRuntimeArray {
			e.b.AddDecorate(e.typeID(arr), DecorationArrayStride, stride(arr.Component))
		}
	}
}

// stride returns the std430 array stride of t.
func stride(t *ir.Type) uint32 {
	if t == nil {
		return 4
	}
	switch t.Base {
	case ir.BaseVector:
		if t.Components == 2 {
			return 8
		}
		return 16
	case ir.BaseMatrix:
		return 16 * uint32(t.Components)
	case ir.BaseFixedArray:
		return stride(t.Component) * uint32(t.Components)
	case ir.BaseStruct:
		var size uint32
		for _, p := range t.Params {
			if m, ok := p.(*ir.Type); ok {
				size += stride(m)
			}
		}
		return (size + 15) &^ 15
	}
	return 4
}

// ----------------------------------------------------------------------------
// Ids
// ----------------------------------------------------------------------------

func (e *encoder) id(n ir.Node) uint32 {
	switch v := n.(type) {
	case *ir.Type:
		return e.typeID(v)
	case *ir.Op:
		return e.valueID(v)
	case *ir.Function:
		return e.functionID(v)
	case *ir.Block:
		if id, ok := e.ids[v]; ok {
			return id
		}
		id := e.b.AllocID()
		e.ids[v] = id
		return id
	case nil:
		e.fail("nil operand")
	default:
		e.fail("%T used where an id is expected", n)
	}
	return 0
}

// operand returns the words for an instruction argument: literal values
// inline, everything else by id.
func (e *encoder) operand(n ir.Node) []uint32 {
	if lit, ok := n.(*ir.Literal); ok {
		words, err := literalWords(lit.Value)
		if err != nil {
			e.fail("%v", err)
		}
		return words
	}
	return []uint32{e.id(n)}
}

func literalWords(v any) ([]uint32, error) {
	switch x := v.(type) {
	case uint32:
		return []uint32{x}, nil
	case int32:
		return []uint32{uint32(x)}, nil
	case int:
		return []uint32{uint32(int32(x))}, nil
	case float32:
		return []uint32{math.Float32bits(x)}, nil
	case bool:
		if x {
			return []uint32{1}, nil
		}
		return []uint32{0}, nil
	case string:
		return stringWords(x), nil
	}
	return nil, fmt.Errorf("unsupported literal %v (%T)", v, v)
}

// typeID emits t and its operands into the types section on first use.
// Structurally equal types other than structs share one id.
func (e *encoder) typeID(t *ir.Type) uint32 {
	if t == nil {
		e.fail("nil type")
		return 0
	}
	if id, ok := e.ids[t]; ok {
		return id
	}

	var opcode ir.OpCode
	var words []uint32
	switch t.Base {
	case ir.BaseVoid:
		opcode = ir.OpTypeVoid
	case ir.BaseBool:
		opcode = ir.OpTypeBool
	case ir.BaseInt:
		opcode = ir.OpTypeInt
	case ir.BaseFloat:
		opcode = ir.OpTypeFloat
	case ir.BaseVector, ir.BaseMatrix:
		opcode = ir.OpTypeVector
		if t.Base == ir.BaseMatrix {
			opcode = ir.OpTypeMatrix
		}
		words = []uint32{e.typeID(t.Component), uint32(t.Components)}
	case ir.BaseStruct:
		opcode = ir.OpTypeStruct
	case ir.BaseFunction:
		opcode = ir.OpTypeFunction
	case ir.BasePointer:
		opcode = ir.OpTypePointer
		words = []uint32{uint32(t.StorageClass), e.typeID(t.Deref)}
	case ir.BaseImage:
		opcode = ir.OpTypeImage
	case ir.BaseSampler:
		opcode = ir.OpTypeSampler
	case ir.BaseSampledImage:
		opcode = ir.OpTypeSampledImage
	case ir.BaseFixedArray:
		opcode = ir.OpTypeArray
	case ir.BaseRuntimeArray:
		opcode = ir.OpTypeRuntimeArray
	default:
		e.fail("type %s has unknown base %s", t.Name, t.Base)
		return 0
	}
	if words == nil {
		for _, p := range t.Params {
			words = append(words, e.operand(p)...)
		}
	}

	if t.Base != ir.BaseStruct {
		key := dedupeKey(opcode, words)
		if id, ok := e.dedupe[key]; ok {
			e.ids[t] = id
			return id
		}
		id := e.emitType(t, opcode, words)
		e.dedupe[key] = id
		return id
	}
	id := e.emitType(t, opcode, words)
	if e.opts.Debug {
		if t.Name != "" {
			e.b.AddName(id, t.Name)
		}
		for i, name := range t.MemberNames() {
			e.b.AddMemberName(id, uint32(i), name)
		}
	}
	return id
}

func (e *encoder) emitType(t *ir.Type, opcode ir.OpCode, words []uint32) uint32 {
	id := e.b.AllocID()
	e.ids[t] = id
	e.b.AddTypeInstruction(opcode, append([]uint32{id}, words...)...)
	return id
}

func dedupeKey(opcode ir.OpCode, words []uint32) string {
	return fmt.Sprint(uint16(opcode), words)
}

// valueID returns the id of op. Constants, module-scope undefs and
// non-Function variables are emitted on first use; other ops only get
// their id reserved and are written when their block is.
func (e *encoder) valueID(op *ir.Op) uint32 {
	if op == nil {
		e.fail("nil op")
		return 0
	}
	if id, ok := e.ids[op]; ok {
		return id
	}

	switch {
	case op.Code.IsConstant() || op.Code == ir.OpUndef:
		return e.constant(op)
	case op.Code == ir.OpVariable && op.Result != nil && op.Result.StorageClass != ir.StorageFunction:
		ptr := e.typeID(op.Result)
		id := e.b.AllocID()
		e.ids[op] = id
		e.b.AddGlobalVariable(ptr, id, op.Result.StorageClass)
		e.name(id, op.Debug.Name)
		return id
	}
	id := e.b.AllocID()
	e.ids[op] = id
	return id
}

func (e *encoder) constant(op *ir.Op) uint32 {
	typ := e.typeID(op.Result)
	var words []uint32
	for _, a := range op.Args {
		words = append(words, e.operand(a)...)
	}

	spec := op.Code >= ir.OpSpecConstantTrue && op.Code <= ir.OpSpecConstantComposite
	var key string
	if !spec {
		key = dedupeKey(op.Code, append([]uint32{typ}, words...))
		if id, ok := e.dedupe[key]; ok {
			e.ids[op] = id
			return id
		}
	}

	id := e.b.AllocID()
	e.ids[op] = id
	e.b.AddTypeInstruction(op.Code, append([]uint32{typ, id}, words...)...)
	if !spec {
		e.dedupe[key] = id
	}
	e.name(id, op.Debug.Name)
	return id
}

func (e *encoder) functionID(f *ir.Function) uint32 {
	if f == nil {
		e.fail("nil function")
		return 0
	}
	if id, ok := e.ids[f]; ok {
		return id
	}
	id := e.b.AllocID()
	e.ids[f] = id
	if !e.queued[f] {
		e.queued[f] = true
		e.queue = append(e.queue, f)
	}
	e.name(id, f.Name)
	return id
}

func (e *encoder) name(id uint32, name string) {
	if e.opts.Debug && name != "" {
		e.b.AddName(id, name)
	}
}

// ----------------------------------------------------------------------------
// Functions
// ----------------------------------------------------------------------------

func (e *encoder) function(f *ir.Function) {
	if len(f.Blocks) == 0 {
		e.fail("function %s has no body", f.Name)
		return
	}
	id := e.functionID(f)
	e.b.AddFunctionInstruction(ir.OpFunction, e.typeID(f.ReturnType()), id, FunctionControlNone, e.typeID(f.Type))
	for _, p := range f.Parameters {
		pid := e.valueID(p)
		e.b.AddFunctionInstruction(ir.OpFunctionParameter, e.typeID(p.Result), pid)
		e.name(pid, p.Debug.Name)
	}
	for i, block := range f.Blocks {
		e.b.AddFunctionInstruction(ir.OpLabel, e.id(block))
		if i == 0 {
			for _, local := range block.Locals {
				e.instruction(local)
				e.name(e.ids[local], local.Debug.Name)
			}
		}
		for _, op := range block.Ops {
			if op.Code.IsTerminator() {
				e.merge(block, op)
			}
			e.instruction(op)
		}
	}
	e.b.AddFunctionInstruction(ir.OpFunctionEnd)
}

// merge writes the structured merge instruction a header block needs ahead
// of its terminator.
func (e *encoder) merge(block *ir.Block, term *ir.Op) {
	switch block.Kind {
	case ir.BlockSelection:
		if term.Code == ir.OpBranchConditional && block.Merge != nil {
			e.b.AddFunctionInstruction(ir.OpSelectionMerge, e.id(block.Merge), SelectionControlNone)
		}
	case ir.BlockLoop:
		if block.Merge != nil && block.Continue != nil {
			e.b.AddFunctionInstruction(ir.OpLoopMerge, e.id(block.Merge), e.id(block.Continue), LoopControlNone)
		}
	}
}

func (e *encoder) instruction(op *ir.Op) {
	var words []uint32
	if op.Result != nil {
		words = append(words, e.typeID(op.Result), e.valueID(op))
	}
	for _, a := range op.Args {
		words = append(words, e.operand(a)...)
	}
	e.b.AddFunctionInstruction(op.Code, words...)
}

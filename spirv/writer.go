package spirv

import (
	"encoding/binary"

	"github.com/gogpu/fragc/ir"
)

// Instruction is one SPIR-V instruction: an opcode and its operand words
// (result type id, result id and operands, as the opcode requires).
type Instruction struct {
	Opcode ir.OpCode
	Words  []uint32
}

// InstructionBuilder accumulates operand words.
type InstructionBuilder struct {
	words []uint32
}

// NewInstructionBuilder creates an empty builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{words: make([]uint32, 0, 8)}
}

// AddWord appends one operand word.
func (b *InstructionBuilder) AddWord(word uint32) *InstructionBuilder {
	b.words = append(b.words, word)
	return b
}

// AddWords appends operand words.
func (b *InstructionBuilder) AddWords(words ...uint32) *InstructionBuilder {
	b.words = append(b.words, words...)
	return b
}

// AddString appends a nul-terminated UTF-8 literal string, padded to a
// whole number of words.
func (b *InstructionBuilder) AddString(s string) *InstructionBuilder {
	b.words = append(b.words, stringWords(s)...)
	return b
}

// Build returns the instruction with the given opcode.
func (b *InstructionBuilder) Build(opcode ir.OpCode) Instruction {
	return Instruction{Opcode: opcode, Words: b.words}
}

// Encode returns the instruction's words, led by the word count and opcode.
func (i Instruction) Encode() []uint32 {
	count := uint32(len(i.Words) + 1)
	out := make([]uint32, 0, count)
	out = append(out, count<<16|uint32(i.Opcode))
	return append(out, i.Words...)
}

func stringWords(s string) []uint32 {
	data := append([]byte(s), 0)
	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}

// ModuleBuilder collects instructions into the sections of a SPIR-V module
// and writes them out in the order the binary layout requires.
type ModuleBuilder struct {
	version   Version
	generator uint32

	capabilities   []Instruction
	memoryModel    *Instruction
	entryPoints    []Instruction
	executionModes []Instruction
	debugNames     []Instruction // OpName, OpMemberName
	annotations    []Instruction // OpDecorate, OpMemberDecorate
	types          []Instruction // types, constants and module-scope OpUndef
	globals        []Instruction // module-scope OpVariable
	functions      []Instruction

	nextID uint32
}

// NewModuleBuilder creates an empty module for version.
func NewModuleBuilder(version Version) *ModuleBuilder {
	return &ModuleBuilder{
		version:   version,
		generator: GeneratorID,
		nextID:    1,
	}
}

// AllocID allocates a new result id. Ids start at 1.
func (b *ModuleBuilder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

// Bound returns one more than the largest id allocated so far.
func (b *ModuleBuilder) Bound() uint32 {
	return b.nextID
}

// AddCapability declares a capability.
func (b *ModuleBuilder) AddCapability(capability Capability) {
	b.capabilities = append(b.capabilities, NewInstructionBuilder().AddWord(uint32(capability)).Build(ir.OpCapability))
}

// SetMemoryModel sets the module's addressing and memory model.
func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	inst := NewInstructionBuilder().AddWords(uint32(addressing), uint32(memory)).Build(ir.OpMemoryModel)
	b.memoryModel = &inst
}

// AddEntryPoint declares fn as an entry point named name.
func (b *ModuleBuilder) AddEntryPoint(model ExecutionModel, fn uint32, name string, interfaces []uint32) {
	inst := NewInstructionBuilder().AddWords(uint32(model), fn).AddString(name).AddWords(interfaces...)
	b.entryPoints = append(b.entryPoints, inst.Build(ir.OpEntryPoint))
}

// AddExecutionMode applies mode, with its literal operands, to an entry point.
func (b *ModuleBuilder) AddExecutionMode(fn uint32, mode uint32, params ...uint32) {
	inst := NewInstructionBuilder().AddWords(fn, mode).AddWords(params...)
	b.executionModes = append(b.executionModes, inst.Build(ir.OpExecutionMode))
}

// AddName names id for debuggers.
func (b *ModuleBuilder) AddName(id uint32, name string) {
	b.debugNames = append(b.debugNames, NewInstructionBuilder().AddWord(id).AddString(name).Build(ir.OpName))
}

// AddMemberName names a struct member for debuggers.
func (b *ModuleBuilder) AddMemberName(structID, member uint32, name string) {
	inst := NewInstructionBuilder().AddWords(structID, member).AddString(name)
	b.debugNames = append(b.debugNames, inst.Build(ir.OpMemberName))
}

// AddDecorate decorates id.
func (b *ModuleBuilder) AddDecorate(id uint32, decoration Decoration, params ...uint32) {
	inst := NewInstructionBuilder().AddWords(id, uint32(decoration)).AddWords(params...)
	b.annotations = append(b.annotations, inst.Build(ir.OpDecorate))
}

// AddMemberDecorate decorates a struct member.
func (b *ModuleBuilder) AddMemberDecorate(structID, member uint32, decoration Decoration, params ...uint32) {
	inst := NewInstructionBuilder().AddWords(structID, member, uint32(decoration)).AddWords(params...)
	b.annotations = append(b.annotations, inst.Build(ir.OpMemberDecorate))
}

// AddTypeInstruction appends a type, constant or module-scope undef.
func (b *ModuleBuilder) AddTypeInstruction(opcode ir.OpCode, words ...uint32) {
	b.types = append(b.types, Instruction{Opcode: opcode, Words: words})
}

// AddGlobalVariable appends a module-scope OpVariable.
func (b *ModuleBuilder) AddGlobalVariable(pointerType, id uint32, sc ir.StorageClass) {
	b.globals = append(b.globals, Instruction{Opcode: ir.OpVariable, Words: []uint32{pointerType, id, uint32(sc)}})
}

// AddFunctionInstruction appends an instruction to the function section.
func (b *ModuleBuilder) AddFunctionInstruction(opcode ir.OpCode, words ...uint32) {
	b.functions = append(b.functions, Instruction{Opcode: opcode, Words: words})
}

// Build writes the header and every section.
func (b *ModuleBuilder) Build() []byte {
	sections := [][]Instruction{
		b.capabilities,
		nil, // memory model
		b.entryPoints,
		b.executionModes,
		b.debugNames,
		b.annotations,
		b.types,
		b.globals,
		b.functions,
	}
	if b.memoryModel != nil {
		sections[1] = []Instruction{*b.memoryModel}
	}

	words := []uint32{MagicNumber, versionToWord(b.version), b.generator, b.nextID, 0}
	for _, section := range sections {
		for _, inst := range section {
			words = append(words, inst.Encode()...)
		}
	}

	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// versionToWord converts Version to SPIR-V word format.
func versionToWord(v Version) uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

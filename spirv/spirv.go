// Package spirv encodes a translated fragc library as a SPIR-V binary and
// disassembles SPIR-V binaries back to text.
//
// The IR already uses SPIR-V opcodes, storage classes and structured
// control flow, so encoding is mostly id assignment and section ordering:
//
//	data, err := spirv.Encode(lib)
//	if err != nil {
//		log.Fatal(err)
//	}
//	text, err := spirv.Disassemble(data)
//
// Types and constants reachable from the library's dependencies (usually
// the core library) are emitted on first use.
package spirv

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_5 = Version{1, 5}
)

// Options configures encoding.
type Options struct {
	// Version is the SPIR-V version to target. StorageBuffer globals
	// need at least 1.3.
	Version Version

	// Debug emits OpName and OpMemberName for named types, functions,
	// globals and values.
	Debug bool
}

// DefaultOptions returns the options Encode uses.
func DefaultOptions() Options {
	return Options{
		Version: Version1_3,
		Debug:   true,
	}
}

// SPIR-V magic number and constants
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // Unregistered generator
)

// Capability represents a SPIR-V capability.
type Capability uint32

const (
	CapabilityShader   Capability = 1
	CapabilityGeometry Capability = 2
)

// AddressingModel represents a SPIR-V addressing model.
type AddressingModel uint32

const AddressingModelLogical AddressingModel = 0

// MemoryModel represents a SPIR-V memory model.
type MemoryModel uint32

const MemoryModelGLSL450 MemoryModel = 1

// ExecutionModel represents a SPIR-V execution model.
type ExecutionModel uint32

const (
	ExecutionModelVertex    ExecutionModel = 0
	ExecutionModelGeometry  ExecutionModel = 3
	ExecutionModelFragment  ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

const (
	DecorationSpecID      Decoration = 1
	DecorationBlock       Decoration = 2
	DecorationArrayStride Decoration = 6
	DecorationLocation    Decoration = 30
	DecorationOffset      Decoration = 35
)

// Structured control-flow and function control masks. fragc never sets any
// of their bits.
const (
	SelectionControlNone uint32 = 0
	LoopControlNone      uint32 = 0
	FunctionControlNone  uint32 = 0
)

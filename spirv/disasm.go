package spirv

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gogpu/fragc/ir"
)

var capabilityNames = map[uint32]string{
	0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
	4: "Addresses", 5: "Linkage", 6: "Kernel",
}

var storageClassNames = map[uint32]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer",
}

var decorationNames = map[uint32]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	11: "BuiltIn", 14: "Flat", 30: "Location", 33: "Binding",
	34: "DescriptorSet", 35: "Offset",
}

var executionModeNames = map[uint32]string{
	0: "Invocations", 7: "OriginUpperLeft", 8: "OriginLowerLeft",
	17: "LocalSize", 19: "InputPoints", 20: "InputLines", 22: "Triangles",
	26: "OutputVertices", 27: "OutputPoints", 28: "OutputLineStrip",
	29: "OutputTriangleStrip",
}

var executionModelNames = map[uint32]string{
	0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation",
	3: "Geometry", 4: "Fragment", 5: "GLCompute", 6: "Kernel",
}

var dimNames = map[uint32]string{
	0: "1D", 1: "2D", 2: "3D", 3: "Cube", 4: "Rect", 5: "Buffer", 6: "SubpassData",
}

// Disassemble renders a SPIR-V binary as text, one instruction per line.
func Disassemble(data []byte) (string, error) {
	if len(data) < 20 || len(data)%4 != 0 {
		return "", fmt.Errorf("spirv: binary of %d bytes is not a module", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	if words[0] != MagicNumber {
		return "", fmt.Errorf("spirv: invalid magic 0x%08X", words[0])
	}

	d := &disassembler{}
	d.printf("; SPIR-V\n")
	d.printf("; Version: %d.%d\n", (words[1]>>16)&0xFF, (words[1]>>8)&0xFF)
	d.printf("; Generator: 0x%08X\n", words[2])
	d.printf("; Bound: %d\n", words[3])
	d.printf("; Schema: %d\n", words[4])

	for offset := 5; offset < len(words); {
		count := int(words[offset] >> 16)
		opcode := ir.OpCode(words[offset] & 0xFFFF)
		if count == 0 || offset+count > len(words) {
			return "", fmt.Errorf("spirv: invalid word count %d at word %d", count, offset)
		}
		d.instruction(opcode, words[offset+1:offset+count])
		offset += count
	}
	return d.sb.String(), nil
}

type disassembler struct {
	sb strings.Builder
}

func (d *disassembler) printf(format string, args ...any) {
	fmt.Fprintf(&d.sb, format, args...)
}

func id(n uint32) string {
	return fmt.Sprintf("%%%d", n)
}

func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}

func ids(ops []uint32) string {
	var sb strings.Builder
	for _, op := range ops {
		sb.WriteString(" ")
		sb.WriteString(id(op))
	}
	return sb.String()
}

func literals(ops []uint32) string {
	var sb strings.Builder
	for _, op := range ops {
		fmt.Fprintf(&sb, " %d", op)
	}
	return sb.String()
}

// readString decodes a literal string and returns it with the number of
// words it occupies.
func readString(ops []uint32) (string, int) {
	var sb strings.Builder
	for i, w := range ops {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(b)
		}
	}
	return sb.String(), len(ops)
}

//nolint:gocyclo,cyclop,funlen // one case per instruction shape
func (d *disassembler) instruction(opcode ir.OpCode, ops []uint32) {
	need := func(n int) bool {
		if len(ops) < n {
			d.printf("               %s ; truncated\n", opcode)
			return false
		}
		return true
	}

	switch opcode {
	case ir.OpCapability:
		if need(1) {
			d.printf("               %s %s\n", opcode, lookup(capabilityNames, ops[0]))
		}

	case ir.OpMemoryModel:
		if need(2) {
			d.printf("               %s %s %s\n", opcode,
				lookup(map[uint32]string{0: "Logical"}, ops[0]), lookup(map[uint32]string{1: "GLSL450"}, ops[1]))
		}

	case ir.OpEntryPoint:
		if need(3) {
			name, n := readString(ops[2:])
			d.printf("               %s %s %s %q%s\n", opcode, lookup(executionModelNames, ops[0]), id(ops[1]), name, ids(ops[2+n:]))
		}

	case ir.OpExecutionMode:
		if need(2) {
			d.printf("               %s %s %s%s\n", opcode, id(ops[0]), lookup(executionModeNames, ops[1]), literals(ops[2:]))
		}

	case ir.OpName:
		if need(2) {
			name, _ := readString(ops[1:])
			d.printf("               %s %s %q\n", opcode, id(ops[0]), name)
		}

	case ir.OpMemberName:
		if need(3) {
			name, _ := readString(ops[2:])
			d.printf("               %s %s %d %q\n", opcode, id(ops[0]), ops[1], name)
		}

	case ir.OpDecorate:
		if need(2) {
			d.printf("               %s %s %s%s\n", opcode, id(ops[0]), lookup(decorationNames, ops[1]), literals(ops[2:]))
		}

	case ir.OpMemberDecorate:
		if need(3) {
			d.printf("               %s %s %d %s%s\n", opcode, id(ops[0]), ops[1], lookup(decorationNames, ops[2]), literals(ops[3:]))
		}

	case ir.OpTypeVoid, ir.OpTypeBool, ir.OpTypeSampler, ir.OpLabel:
		if need(1) {
			d.printf("%10s = %s\n", id(ops[0]), opcode)
		}

	case ir.OpTypeInt, ir.OpTypeFloat:
		if need(2) {
			d.printf("%10s = %s%s\n", id(ops[0]), opcode, literals(ops[1:]))
		}

	case ir.OpTypeVector, ir.OpTypeMatrix:
		if need(3) {
			d.printf("%10s = %s %s %d\n", id(ops[0]), opcode, id(ops[1]), ops[2])
		}

	case ir.OpTypeImage:
		if need(8) {
			d.printf("%10s = %s %s %s%s\n", id(ops[0]), opcode, id(ops[1]), lookup(dimNames, ops[2]), literals(ops[3:]))
		}

	case ir.OpTypePointer:
		if need(3) {
			d.printf("%10s = %s %s %s\n", id(ops[0]), opcode, lookup(storageClassNames, ops[1]), id(ops[2]))
		}

	case ir.OpTypeSampledImage, ir.OpTypeArray, ir.OpTypeRuntimeArray, ir.OpTypeStruct, ir.OpTypeFunction:
		if need(1) {
			d.printf("%10s = %s%s\n", id(ops[0]), opcode, ids(ops[1:]))
		}

	case ir.OpConstant, ir.OpSpecConstant:
		if need(2) {
			d.printf("%10s = %s %s%s\n", id(ops[1]), opcode, id(ops[0]), literals(ops[2:]))
		}

	case ir.OpFunction:
		if need(4) {
			d.printf("%10s = %s %s None %s\n", id(ops[1]), opcode, id(ops[0]), id(ops[3]))
		}

	case ir.OpVariable:
		if need(3) {
			d.printf("%10s = %s %s %s%s\n", id(ops[1]), opcode, id(ops[0]), lookup(storageClassNames, ops[2]), ids(ops[3:]))
		}

	case ir.OpCompositeExtract, ir.OpArrayLength:
		if need(3) {
			d.printf("%10s = %s %s %s%s\n", id(ops[1]), opcode, id(ops[0]), id(ops[2]), literals(ops[3:]))
		}

	case ir.OpCompositeInsert, ir.OpVectorShuffle:
		if need(4) {
			d.printf("%10s = %s %s %s %s%s\n", id(ops[1]), opcode, id(ops[0]), id(ops[2]), id(ops[3]), literals(ops[4:]))
		}

	case ir.OpSelectionMerge:
		if need(2) {
			d.printf("               %s %s None\n", opcode, id(ops[0]))
		}

	case ir.OpLoopMerge:
		if need(3) {
			d.printf("               %s %s %s None\n", opcode, id(ops[0]), id(ops[1]))
		}

	default:
		if hasResult(opcode) && len(ops) >= 2 {
			d.printf("%10s = %s %s%s\n", id(ops[1]), opcode, id(ops[0]), ids(ops[2:]))
			return
		}
		d.printf("               %s%s\n", opcode, ids(ops))
	}
}

// hasResult reports whether opcode carries a result type and result id.
func hasResult(opcode ir.OpCode) bool {
	switch opcode {
	case ir.OpStore, ir.OpCopyMemory, ir.OpBranch, ir.OpBranchConditional,
		ir.OpReturn, ir.OpReturnValue, ir.OpKill, ir.OpUnreachable,
		ir.OpFunctionEnd, ir.OpEmitVertex, ir.OpEndPrimitive, ir.OpControlBarrier,
		ir.OpNop:
		return false
	}
	return true
}

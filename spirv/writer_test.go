package spirv

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/fragc/ir"
)

func words(data []byte) []uint32 {
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}

func TestModuleBuilder_MinimalModule(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	data := builder.Build()
	if len(data) < 20 {
		t.Fatalf("Module too small: got %d bytes, want at least 20", len(data))
	}
	w := words(data)

	if w[0] != MagicNumber {
		t.Errorf("Invalid magic number: got 0x%08X, want 0x%08X", w[0], MagicNumber)
	}
	if expected := uint32(1<<16 | 3<<8); w[1] != expected {
		t.Errorf("Invalid version: got 0x%08X, want 0x%08X", w[1], expected)
	}
	if w[2] != GeneratorID {
		t.Errorf("Invalid generator: got 0x%08X, want 0x%08X", w[2], GeneratorID)
	}
	if w[3] != 1 {
		t.Errorf("Expected bound 1 with no ids allocated, got %d", w[3])
	}
	if w[4] != 0 {
		t.Errorf("Schema should be 0, got %d", w[4])
	}

	// OpCapability Shader, then OpMemoryModel Logical GLSL450.
	if w[5] != 2<<16|uint32(ir.OpCapability) || w[6] != uint32(CapabilityShader) {
		t.Errorf("Expected OpCapability Shader first, got 0x%08X %d", w[5], w[6])
	}
	if w[7] != 3<<16|uint32(ir.OpMemoryModel) {
		t.Errorf("Expected OpMemoryModel second, got 0x%08X", w[7])
	}
}

func TestModuleBuilder_AllocID(t *testing.T) {
	builder := NewModuleBuilder(Version1_0)
	seen := make(map[uint32]bool)
	for i := 0; i < 10; i++ {
		id := builder.AllocID()
		if id == 0 {
			t.Fatalf("Expected ids to start at 1")
		}
		if seen[id] {
			t.Fatalf("Expected unique ids, got %d twice", id)
		}
		seen[id] = true
	}
	if builder.Bound() != 11 {
		t.Errorf("Expected bound 11, got %d", builder.Bound())
	}
}

func TestModuleBuilder_SectionOrder(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	void := builder.AllocID()
	fn := builder.AllocID()

	// Added out of order on purpose.
	builder.AddFunctionInstruction(ir.OpFunctionEnd)
	builder.AddName(fn, "main")
	builder.AddTypeInstruction(ir.OpTypeVoid, void)
	builder.AddEntryPoint(ExecutionModelFragment, fn, "main", nil)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	w := words(builder.Build())
	var order []ir.OpCode
	for offset := 5; offset < len(w); offset += int(w[offset] >> 16) {
		order = append(order, ir.OpCode(w[offset]&0xFFFF))
	}
	want := []ir.OpCode{ir.OpCapability, ir.OpMemoryModel, ir.OpEntryPoint, ir.OpName, ir.OpTypeVoid, ir.OpFunctionEnd}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, order)
			break
		}
	}
}

func TestStringWords(t *testing.T) {
	tests := []struct {
		in   string
		size int
	}{
		{"", 1},
		{"abc", 1},
		{"main", 2},
		{"vertex", 2},
		{"12345678", 3},
	}
	for _, tt := range tests {
		got := stringWords(tt.in)
		if len(got) != tt.size {
			t.Errorf("stringWords(%q): expected %d words, got %d", tt.in, tt.size, len(got))
			continue
		}
		if s, n := readString(got); s != tt.in || n != tt.size {
			t.Errorf("readString: expected %q in %d words, got %q in %d", tt.in, tt.size, s, n)
		}
	}
}

func TestInstruction_Encode(t *testing.T) {
	inst := NewInstructionBuilder().AddWords(5, 7).AddString("x").Build(ir.OpName)
	got := inst.Encode()
	if len(got) != 4 {
		t.Fatalf("Expected 4 words, got %d", len(got))
	}
	if got[0] != 4<<16|uint32(ir.OpName) {
		t.Errorf("Expected word count 4 and OpName, got 0x%08X", got[0])
	}
	if got[3] != 'x' {
		t.Errorf("Expected the string word to hold 'x', got 0x%08X", got[3])
	}
}

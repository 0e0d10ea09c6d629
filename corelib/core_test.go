package corelib

import (
	"testing"

	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

func TestParseSwizzle(t *testing.T) {
	tests := []struct {
		name  string
		arity int
		want  []int
		ok    bool
	}{
		{"x", 1, []int{0}, true},
		{"xy", 2, []int{0, 1}, true},
		{"XYZ", 3, []int{0, 1, 2}, true},
		{"wzyx", 4, []int{3, 2, 1, 0}, true},
		{"xXxX", 2, []int{0, 0, 0, 0}, true},
		{"z", 2, nil, false},
		{"xyzwx", 4, nil, false},
		{"", 4, nil, false},
		{"rgb", 4, nil, false},
	}
	for _, tt := range tests {
		got, ok := parseSwizzle(tt.name, tt.arity)
		if ok != tt.ok {
			t.Errorf("parseSwizzle(%q, %d): expected ok=%v, got %v", tt.name, tt.arity, tt.ok, ok)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseSwizzle(%q, %d): expected %v, got %v", tt.name, tt.arity, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseSwizzle(%q, %d): expected %v, got %v", tt.name, tt.arity, tt.want, got)
				break
			}
		}
	}
}

func TestNew_Types(t *testing.T) {
	c := New(nil)
	if !c.Library.Translated {
		t.Errorf("Expected the core library to be marked translated")
	}
	tests := []struct {
		sym        *syntax.BoundType
		base       ir.BaseKind
		components int
	}{
		{c.Real, ir.BaseFloat, 0},
		{c.Int3, ir.BaseVector, 3},
		{c.Bool2, ir.BaseVector, 2},
		{c.Real4x4, ir.BaseMatrix, 4},
		{c.Image2d, ir.BaseImage, 0},
	}
	for _, tt := range tests {
		typ := c.Library.FindType(tt.sym)
		if typ == nil {
			t.Errorf("Expected an IR type for %s", tt.sym.Name)
			continue
		}
		if typ.Base != tt.base || typ.Components != tt.components {
			t.Errorf("%s: expected %s with %d components, got %s with %d",
				tt.sym.Name, tt.base, tt.components, typ.Base, typ.Components)
		}
	}
	if m := c.Library.FindType(c.Real3x3); m.Component != c.Library.FindType(c.Real3) {
		t.Errorf("Expected Real3x3 columns to be Real3")
	}
}

func TestVector(t *testing.T) {
	c := New(nil)
	if c.Vector(c.Real, 1) != c.Real {
		t.Errorf("Expected a 1-component vector to be the scalar")
	}
	if c.Vector(c.Int, 4) != c.Int4 {
		t.Errorf("Expected Int4")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("Expected a panic for a 5-component vector")
		}
	}()
	c.Vector(c.Real, 5)
}

func TestOperators_Registered(t *testing.T) {
	c := New(nil)
	lib := c.Library
	tests := []struct {
		name string
		key  ir.BinaryKey
		ok   bool
	}{
		{"IntAdd", ir.BinaryKey{Left: c.Int, Right: c.Int, Op: syntax.OpAdd}, true},
		{"Real3TimesReal", ir.BinaryKey{Left: c.Real3, Right: c.Real, Op: syntax.OpMul}, true},
		{"RealTimesReal3", ir.BinaryKey{Left: c.Real, Right: c.Real3, Op: syntax.OpMul}, true},
		{"Int2PlusInt", ir.BinaryKey{Left: c.Int2, Right: c.Int, Op: syntax.OpAdd}, true},
		{"MatrixTimesVector", ir.BinaryKey{Left: c.Real4x4, Right: c.Real4, Op: syntax.OpMul}, true},
		{"IntBitAnd", ir.BinaryKey{Left: c.Int, Right: c.Int, Op: syntax.OpBitAnd}, true},
		{"RealBitAnd", ir.BinaryKey{Left: c.Real, Right: c.Real, Op: syntax.OpBitAnd}, false},
		{"VectorLess", ir.BinaryKey{Left: c.Real2, Right: c.Real2, Op: syntax.OpLess}, false},
		{"BoolAnd", ir.BinaryKey{Left: c.Bool3, Right: c.Bool3, Op: syntax.OpLogicalAnd}, true},
		{"MixedScalars", ir.BinaryKey{Left: c.Int, Right: c.Real, Op: syntax.OpAdd}, false},
	}
	for _, tt := range tests {
		if _, ok := lib.FindBinary(tt.key); ok != tt.ok {
			t.Errorf("%s: expected registered=%v, got %v", tt.name, tt.ok, ok)
		}
	}

	if _, ok := lib.FindUnary(ir.UnaryKey{Operand: c.Int, Op: syntax.OpIncrement}); !ok {
		t.Errorf("Expected Int ++ to be registered")
	}
	if _, ok := lib.FindUnary(ir.UnaryKey{Operand: c.Real3, Op: syntax.OpIncrement}); ok {
		t.Errorf("Expected no ++ on vectors")
	}
	if _, ok := lib.FindCast(ir.CastKey{From: c.Int3, To: c.Real3}); !ok {
		t.Errorf("Expected an Int3 to Real3 conversion")
	}
}

func TestIntrinsics_StageRequirements(t *testing.T) {
	c := New(nil)
	tests := []struct {
		fn   *syntax.Function
		want ir.ShaderStage
	}{
		{c.Ddx, ir.StagePixel},
		{c.Fwidth, ir.StagePixel},
		{c.Discard, ir.StagePixel},
		{c.Sample, ir.StagePixel},
		{c.ControlBarrier, ir.StageCompute},
	}
	for _, tt := range tests {
		d := c.Library.FindStageRequirements(tt.fn)
		if d == nil || d.Required != tt.want {
			t.Errorf("%s: expected %v, got %+v", tt.fn.Name, tt.want, d)
		}
	}
	if d := c.Library.FindStageRequirements(c.Dot); d != nil {
		t.Errorf("Expected Dot to be unrestricted, got %+v", d)
	}
}

func TestTemplates_Registered(t *testing.T) {
	c := New(nil)
	names := c.Settings.Names
	for _, name := range append([]string{names.FixedArrayName, names.RuntimeArrayName},
		append(names.InputStreamNames, names.OutputStreamNames...)...) {
		if _, ok := c.Library.FindTemplate(name); !ok {
			t.Errorf("Expected template %s to be registered", name)
		}
	}
}

func TestFixedArray_Declaration(t *testing.T) {
	c := New(nil)
	lib := syntax.NewLibrary("User")
	arr := c.FixedArray(lib, c.Real, 4)
	if arr.Name != "FixedArray[Real, 4]" {
		t.Errorf("Expected FixedArray[Real, 4], got %s", arr.Name)
	}
	if arr.TemplateBaseName != "FixedArray" {
		t.Errorf("Expected base name FixedArray, got %s", arr.TemplateBaseName)
	}
	for _, name := range []string{"Get", "Set"} {
		if arr.FindFunction(name, false) == nil {
			t.Errorf("Expected %s to be declared", name)
		}
	}
	if p := arr.FindProperty("Count"); p == nil || p.Get == nil || p.Set != nil {
		t.Errorf("Expected a read-only Count property")
	}
}

package frontend_test

import (
	"strings"
	"testing"

	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// entry marks fn as the stage's entry point.
func entry(fn *syntax.FunctionNode) *syntax.FunctionNode {
	fn.Attributes = append(fn.Attributes, attr("EntryPoint"))
	return fn
}

func TestEntryPoint_Pixel(t *testing.T) {
	s := newShader()
	c := s.class("Ps", attr("Pixel"))
	s.field(c, "Uv", s.core.Real2, nil, attr("Input"))
	s.field(c, "Color", s.core.Real4, nil, attr("Output"))
	entry(s.function(c, "Main", nil, false))

	lib := s.mustTranslate(t)

	if len(lib.EntryPoints) != 1 {
		t.Fatalf("Expected 1 entry point, got %d", len(lib.EntryPoints))
	}
	ep := lib.EntryPoints[0]
	if ep.Name != "main" || ep.Stage != ir.FragmentPixel {
		t.Errorf("Expected pixel entry point 'main', got %q (%s)", ep.Name, ep.Stage)
	}
	if ep.Function.Name != "Ps_Main_EntryPoint" {
		t.Errorf("Expected Ps_Main_EntryPoint, got %s", ep.Function.Name)
	}
	if len(ep.Modes) != 1 || ep.Modes[0].Mode != ir.ExecutionModeOriginUpperLeft {
		t.Errorf("Expected OriginUpperLeft, got %v", ep.Modes)
	}

	if len(ep.Interface) != 2 {
		t.Fatalf("Expected 2 interface variables, got %d", len(ep.Interface))
	}
	in, out := ep.Interface[0], ep.Interface[1]
	if in.Debug.Name != "Ps_Uv_Input" || in.Result.StorageClass != ir.StorageInput {
		t.Errorf("Expected input Ps_Uv_Input, got %s (%s)", in.Debug.Name, in.Result.StorageClass)
	}
	if out.Debug.Name != "Ps_Color_Output" || out.Result.StorageClass != ir.StorageOutput {
		t.Errorf("Expected output Ps_Color_Output, got %s (%s)", out.Debug.Name, out.Result.StorageClass)
	}

	// Construct self, copy the input in, call Main, copy the output out.
	if got := countOps(ep.Function, ir.OpFunctionCall); got != 2 {
		t.Errorf("Expected default constructor and Main calls, got %d", got)
	}
	if got := countOps(ep.Function, ir.OpStore); got != 2 {
		t.Errorf("Expected one store per interface variable, got %d", got)
	}
	if term := ep.Function.Blocks[0].Terminator(); term == nil || term.Code != ir.OpReturn {
		t.Errorf("Expected the entry point to return")
	}
}

func TestEntryPoint_ComputeLocalSize(t *testing.T) {
	s := newShader()
	c := s.class("Cs", attr("Compute", syntax.IntParam("localSizeX", 8), syntax.IntParam("localSizeY", 4)))
	entry(s.function(c, "Main", nil, false))

	lib := s.mustTranslate(t)

	modes := lib.EntryPoints[0].Modes
	if len(modes) != 1 || modes[0].Mode != ir.ExecutionModeLocalSize {
		t.Fatalf("Expected a LocalSize mode, got %v", modes)
	}
	want := []uint32{8, 4, 1}
	for i, v := range want {
		if modes[0].Literals[i] != v {
			t.Errorf("Expected local size %v, got %v", want, modes[0].Literals)
			break
		}
	}
}

// streams declares triangle input and output streams over elem.
func (s *shader) streams(elem *syntax.BoundType) (in, out *syntax.BoundType) {
	in = s.core.InputStream(s.lib, "TriangleInput", elem)
	out = s.core.OutputStream(s.lib, "TriangleOutput", elem)
	s.tree.Types = append(s.tree.Types, in, out)
	return in, out
}

func TestEntryPoint_GeometryStreams(t *testing.T) {
	s := newShader()
	vertex := s.class("GsVertex")
	s.field(vertex, "Position", s.core.Real4, nil)
	s.field(vertex, "Color", s.core.Real4, nil)
	in, out := s.streams(vertex.Type)

	c := s.class("Gs", attr("Geometry", syntax.IntParam("maxVertices", 3)))
	gs := entry(s.function(c, "Main", nil, false,
		syntax.Param{Name: "input", Type: in}, syntax.Param{Name: "output", Type: out}))
	get := s.call(in.FindFunction("Get", false), s.param(gs, 0), s.intLit(0))
	gs.Body = []syntax.Stmt{exprStmt(s.call(out.FindFunction("Append", false), s.param(gs, 1), get))}

	lib := s.mustTranslate(t)

	ep := lib.EntryPoints[0]
	want := map[string]ir.StorageClass{
		"Gs_input":           ir.StorageInput,
		"Gs_Position_Output": ir.StorageOutput,
		"Gs_Color_Output":    ir.StorageOutput,
	}
	if len(ep.Interface) != len(want) {
		t.Fatalf("Expected %d interface variables, got %d", len(want), len(ep.Interface))
	}
	for _, v := range ep.Interface {
		if sc, ok := want[v.Debug.Name]; !ok || v.Result.StorageClass != sc {
			t.Errorf("Unexpected interface variable %s (%s)", v.Debug.Name, v.Result.StorageClass)
		}
	}

	// Append copies each vertex member out before emitting the vertex.
	fn := findFunction(t, lib, "Main")
	outputs, emitted := 0, false
	for _, b := range fn.Blocks {
		for _, op := range b.Ops {
			switch op.Code {
			case ir.OpStore:
				if dst := op.Args[0].(*ir.Op); dst.Result.StorageClass == ir.StorageOutput {
					if emitted {
						t.Errorf("Expected %s to be written before OpEmitVertex", dst.Debug.Name)
					}
					outputs++
				}
			case ir.OpEmitVertex:
				emitted = true
			}
		}
	}
	if outputs != 2 || !emitted {
		t.Errorf("Expected 2 output stores and an emitted vertex, got %d stores (emitted %v)", outputs, emitted)
	}

	modes := map[uint32][]uint32{}
	for _, m := range ep.Modes {
		modes[m.Mode] = m.Literals
	}
	if v := modes[ir.ExecutionModeOutputVertices]; len(v) != 1 || v[0] != 3 {
		t.Errorf("Expected OutputVertices 3, got %v", v)
	}
	for _, mode := range []uint32{ir.ExecutionModeTriangles, ir.ExecutionModeOutputTriStrip} {
		if _, ok := modes[mode]; !ok {
			t.Errorf("Expected execution mode %d, got %v", mode, ep.Modes)
		}
	}
}

func TestEntryPoint_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *shader)
		want  string
	}{
		{
			name: "NonVoid",
			build: func(s *shader) {
				c := s.class("Ps", attr("Pixel"))
				fn := entry(s.function(c, "Main", s.core.Int, false))
				fn.Body = []syntax.Stmt{s.ret(s.intLit(0))}
			},
			want: "Entry points must have a return type of 'void'.",
		},
		{
			name: "NoFragment",
			build: func(s *shader) {
				c := s.class("Plain")
				entry(s.function(c, "Main", nil, false))
			},
			want: "Entry point requires fragment type.",
		},
		{
			name: "Arguments",
			build: func(s *shader) {
				c := s.class("Vs", attr("Vertex"))
				entry(s.function(c, "Main", nil, false, syntax.Param{Name: "x", Type: s.core.Int}))
			},
			want: "Entry point function cannot have arguments.",
		},
		{
			name: "GeometryParamCount",
			build: func(s *shader) {
				c := s.class("Gs", attr("Geometry", syntax.IntParam("maxVertices", 3)))
				in, _ := s.streams(s.core.Real4)
				entry(s.function(c, "Main", nil, false, syntax.Param{Name: "input", Type: in}))
			},
			want: "Geometry shader entry point must have a signature of (inputType, outputType)",
		},
		{
			name: "GeometryInputNotStream",
			build: func(s *shader) {
				c := s.class("Gs", attr("Geometry", syntax.IntParam("maxVertices", 3)))
				_, out := s.streams(s.core.Real4)
				entry(s.function(c, "Main", nil, false,
					syntax.Param{Name: "input", Type: s.core.Real4}, syntax.Param{Name: "output", Type: out}))
			},
			want: "Argument 1 must be an input stream type.",
		},
		{
			name: "GeometryOutputNotStream",
			build: func(s *shader) {
				c := s.class("Gs", attr("Geometry", syntax.IntParam("maxVertices", 3)))
				in, _ := s.streams(s.core.Real4)
				entry(s.function(c, "Main", nil, false,
					syntax.Param{Name: "input", Type: in}, syntax.Param{Name: "output", Type: s.core.Real4}))
			},
			want: "Argument 2 must be an output stream type.",
		},
		{
			name: "GeometryMaxVertices",
			build: func(s *shader) {
				c := s.class("Gs", attr("Geometry"))
				in, out := s.streams(s.core.Real4)
				entry(s.function(c, "Main", nil, false,
					syntax.Param{Name: "input", Type: in}, syntax.Param{Name: "output", Type: out}))
			},
			want: "Geometry fragment expects max vertices",
		},
		{
			name: "LocalSizeOutOfRange",
			build: func(s *shader) {
				s.class("Cs", attr("Compute", syntax.IntParam("localSizeZ", 65)))
			},
			want: "Parameter 'localSizeZ' must be in the range of [1, 64].",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newShader()
			tt.build(s)
			_, errs, ok := s.translate()
			if ok || errs.Len() != 1 || errs.Errors[0].Short != tt.want {
				t.Errorf("Expected %q, got %v", tt.want, errs.Error())
			}
		})
	}
}

func TestAttributes_Validation(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *shader)
		want  string
	}{
		{
			name: "TwoStages",
			build: func(s *shader) {
				s.class("Both", attr("Pixel"), attr("Vertex"))
			},
			want: "Attribute 'Vertex' cannot be combined with attribute 'Pixel'",
		},
		{
			name: "UnknownOnFunction",
			build: func(s *shader) {
				c := s.class("Helpers")
				fn := s.function(c, "Run", nil, true)
				fn.Attributes = syntax.Attributes{attr("Bogus")}
			},
			want: "Attribute 'Bogus' is not allowed on functions",
		},
		{
			name: "SpecializationConstantNeedsStatic",
			build: func(s *shader) {
				c := s.class("Tuning")
				s.field(c, "Bias", s.core.Real, nil, attr("SpecializationConstant"))
			},
			want: "Attribute 'SpecializationConstant' requires attribute(s): Static",
		},
		{
			name: "ParamOnNoParamAttribute",
			build: func(s *shader) {
				s.class("Vs", attr("Vertex", syntax.IntParam("x", 1)))
			},
			want: "Invalid parameter count. Attribute 'Vertex' doesn't allow any parameters",
		},
		{
			name: "StorageClassWrongKind",
			build: func(s *shader) {
				c := s.class("Shared")
				s.field(c, "Counter", s.core.Int, nil, attr("StorageClass", syntax.IntParam("", 3)))
			},
			want: "Invalid parameter type 'Integer' to attribute 'StorageClass'. Signature must be 'value : String'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newShader()
			tt.build(s)
			_, errs, ok := s.translate()
			if ok {
				t.Fatal("Expected translation to fail")
			}
			found := false
			for _, e := range errs.Errors {
				if e.Short == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected %q, got %v", tt.want, errs.Error())
			}
		})
	}
}

func TestSpecConstant_Scalar(t *testing.T) {
	s := newShader()
	c := s.class("Tuning")
	bias := s.field(c, "Bias", s.core.Real, s.realLit("0.25"), attr("Static"), attr("SpecializationConstant"))

	lib := s.mustTranslate(t)

	op := lib.FindSpecConstant(bias.Field)
	if op == nil || op.Code != ir.OpSpecConstant {
		t.Fatalf("Expected an OpSpecConstant for Bias, got %v", op)
	}
	if v, _ := op.LiteralArg(0); v != float32(0.25) {
		t.Errorf("Expected default 0.25, got %v", v)
	}
	if lib.FindGlobal(bias.Field) != nil {
		t.Errorf("Expected no global for a specialization constant")
	}
}

func TestSpecConstant_VectorComposite(t *testing.T) {
	s := newShader()
	c := s.class("Tuning")
	tint := s.field(c, "Tint", s.core.Real3, nil, attr("Static"), attr("SpecializationConstant"))

	lib := s.mustTranslate(t)

	op := lib.FindSpecConstant(tint.Field)
	if op == nil || op.Code != ir.OpSpecConstantComposite {
		t.Fatalf("Expected a composite spec constant, got %v", op)
	}
	if len(op.Args) != 3 {
		t.Fatalf("Expected 3 components, got %d", len(op.Args))
	}
	if len(lib.SpecConstants) != 4 {
		t.Errorf("Expected 3 component constants and the composite, got %d", len(lib.SpecConstants))
	}
	for i, name := range []string{"Tint.X", "Tint.Y", "Tint.Z"} {
		sub := op.Args[i].(*ir.Op)
		if sub.Code != ir.OpSpecConstant || sub.Debug.Name != name {
			t.Errorf("Expected component %s, got %s (%s)", name, sub.Debug.Name, sub.Code)
		}
	}
}

func TestSpecConstant_StructComposite(t *testing.T) {
	s := newShader()
	tint := s.class("Tint")
	s.field(tint, "Strength", s.core.Real, nil)
	s.field(tint, "Enabled", s.core.Bool, nil)
	c := s.class("Tuning")
	mode := s.field(c, "Mode", tint.Type, nil, attr("Static"), attr("SpecializationConstant"))

	lib := s.mustTranslate(t)

	op := lib.FindSpecConstant(mode.Field)
	if op == nil || op.Code != ir.OpSpecConstantComposite || len(op.Args) != 2 {
		t.Fatalf("Expected a two member composite, got %v", op)
	}
	tests := []struct {
		name string
		code ir.OpCode
	}{
		{"Mode.Strength", ir.OpSpecConstant},
		{"Mode.Enabled", ir.OpSpecConstantFalse},
	}
	for i, tt := range tests {
		sub := op.Args[i].(*ir.Op)
		if sub.Debug.Name != tt.name || sub.Code != tt.code {
			t.Errorf("Expected %s (%s), got %s (%s)", tt.name, tt.code, sub.Debug.Name, sub.Code)
		}
	}
	if len(lib.SpecConstants) != 3 {
		t.Errorf("Expected 2 member constants and the composite, got %d", len(lib.SpecConstants))
	}
}

func TestSpecConstant_MatrixComposite(t *testing.T) {
	s := newShader()
	c := s.class("Tuning")
	rot := s.field(c, "Rot", s.core.Real2x2, nil, attr("Static"), attr("SpecializationConstant"))

	lib := s.mustTranslate(t)

	op := lib.FindSpecConstant(rot.Field)
	if op == nil || op.Code != ir.OpSpecConstantComposite || len(op.Args) != 2 {
		t.Fatalf("Expected a two column composite, got %v", op)
	}
	for i, col := range []string{"Rot.X", "Rot.Y"} {
		column := op.Args[i].(*ir.Op)
		if column.Code != ir.OpSpecConstantComposite || column.Debug.Name != col || len(column.Args) != 2 {
			t.Fatalf("Expected column %s with 2 components, got %s (%s)", col, column.Debug.Name, column.Code)
		}
		if name := column.Args[1].(*ir.Op).Debug.Name; name != col+".Y" {
			t.Errorf("Expected %s.Y, got %s", col, name)
		}
	}
	if len(lib.SpecConstants) != 7 {
		t.Errorf("Expected 4 scalars, 2 columns and the matrix, got %d", len(lib.SpecConstants))
	}
}

func TestSpecConstant_InvalidType(t *testing.T) {
	s := newShader()
	arr := s.core.FixedArray(s.lib, s.core.Real, 4)
	s.tree.Types = append(s.tree.Types, arr)
	c := s.class("Tuning")
	weights := s.field(c, "Weights", arr, nil, attr("Static"), attr("SpecializationConstant"))

	lib, errs, ok := s.translate()
	if ok {
		t.Fatal("Expected translation to fail")
	}
	want := "Type 'FixedArray[Real, 4]' is not valid as a specialization constant."
	if errs.Len() != 1 || errs.Errors[0].Short != want {
		t.Fatalf("Expected %q, got %v", want, errs.Error())
	}
	op := lib.FindSpecConstant(weights.Field)
	if op == nil || op.Code != ir.OpSpecConstantComposite || len(op.Args) != 0 {
		t.Errorf("Expected an empty placeholder composite, got %v", op)
	}
}

func TestTranslate_StageMismatch(t *testing.T) {
	s := newShader()
	c := s.class("Vs", attr("Vertex"))
	fn := s.function(c, "Main", nil, false)
	fn.Body = []syntax.Stmt{exprStmt(s.call(s.core.Ddx, nil, s.realLit("1.0")))}

	_, errs, ok := s.translate()
	if ok || errs.Len() != 1 {
		t.Fatalf("Expected a single stage error, got %v", errs.Error())
	}
	e := errs.Errors[0]
	if e.Short != "Invalid shader stage combination" {
		t.Errorf("Expected stage error, got %q", e.Short)
	}
	if !strings.Contains(e.Full, "'Math.Ddx' which requires stage Pixel") {
		t.Errorf("Expected Ddx to be named, got %q", e.Full)
	}
}

func TestTranslate_Recursion(t *testing.T) {
	s := newShader()
	c := s.class("Helpers")
	ping := s.function(c, "Ping", nil, true)
	pong := s.function(c, "Pong", nil, true)
	ping.Body = []syntax.Stmt{exprStmt(s.call(pong.Function, nil))}
	pong.Body = []syntax.Stmt{exprStmt(s.call(ping.Function, nil))}

	_, errs, ok := s.translate()
	if ok || errs.Len() != 1 || errs.Errors[0].Short != "Recursion is not allowed in shaders" {
		t.Errorf("Expected a recursion error, got %v", errs.Error())
	}
}

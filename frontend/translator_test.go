package frontend_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

func TestTranslate_ConstantMemoization(t *testing.T) {
	s := newShader()
	c := s.class("Math2")
	fn := s.function(c, "Sum", s.core.Int, true)
	a, aRef := s.local("a", s.core.Int, s.intLit(1))
	b, _ := s.local("b", s.core.Int, s.intLit(1))
	d, _ := s.local("d", s.core.Int, s.intLit(2))
	fn.Body = []syntax.Stmt{a, b, d, s.ret(s.binary(syntax.OpAdd, aRef, s.intLit(1), s.core.Int))}

	lib := s.mustTranslate(t)

	type key struct {
		t *ir.Type
		v any
	}
	seen := make(map[key]bool)
	ones := 0
	for _, op := range lib.Constants {
		v, _ := op.LiteralArg(0)
		k := key{op.Result, v}
		if seen[k] {
			t.Errorf("Expected constant %v of %s to be created once", v, op.Result.Name)
		}
		seen[k] = true
		if v == int32(1) {
			ones++
		}
	}
	if ones != 1 {
		t.Errorf("Expected exactly one Int 1 constant, got %d", ones)
	}
}

func TestTranslate_FloatConstantBits(t *testing.T) {
	s := newShader()
	c := s.class("Signs")
	fn := s.function(c, "Fill", nil, true)
	var body []syntax.Stmt
	for i, tok := range []string{"0.0", "-0.0", "NaN", "NaN"} {
		l, _ := s.local(fmt.Sprintf("v%d", i), s.core.Real, s.realLit(tok))
		body = append(body, l)
	}
	fn.Body = body

	lib := s.mustTranslate(t)
	var zeros, negZeros, nans int
	for _, op := range lib.Constants {
		v, ok := op.LiteralArg(0)
		f, isFloat := v.(float32)
		if !ok || !isFloat {
			continue
		}
		switch {
		case f != f:
			nans++
		case f == 0 && math.Signbit(float64(f)):
			negZeros++
		case f == 0:
			zeros++
		}
	}
	if zeros != 1 || negZeros != 1 || nans != 1 {
		t.Errorf("Expected one each of 0.0, -0.0 and NaN, got %d, %d and %d", zeros, negZeros, nans)
	}
}

func TestTranslate_BoolConstants(t *testing.T) {
	s := newShader()
	c := s.class("Flags")
	fn := s.function(c, "Both", s.core.Bool, true)
	fn.Body = []syntax.Stmt{s.ret(s.binary(syntax.OpLogicalAnd, s.boolLit(true), s.boolLit(false), s.core.Bool))}

	lib := s.mustTranslate(t)

	var codes []ir.OpCode
	for _, op := range lib.Constants {
		codes = append(codes, op.Code)
		if len(op.Args) != 0 {
			t.Errorf("Expected boolean constant without operands, got %d", len(op.Args))
		}
	}
	if len(codes) != 2 || codes[0] != ir.OpConstantTrue || codes[1] != ir.OpConstantFalse {
		t.Errorf("Expected [OpConstantTrue OpConstantFalse], got %v", codes)
	}
}

func TestTranslate_LiteralOutOfRange(t *testing.T) {
	s := newShader()
	c := s.class("Big")
	fn := s.function(c, "Value", s.core.Int, true)
	fn.Body = []syntax.Stmt{s.ret(&syntax.ValueExpr{Token: "4294967296", Type: s.core.Int, Span: s.at()})}

	_, errs, ok := s.translate()
	if ok {
		t.Fatal("Expected translation to fail")
	}
	if errs.Len() != 1 || !strings.Contains(errs.Errors[0].Short, "out of range for type 'Int'") {
		t.Errorf("Expected one out of range error, got %v", errs.Error())
	}
}

func TestTranslate_ReferenceTypeRejected(t *testing.T) {
	s := newShader()
	c := s.class("Node")
	c.Type.CopyMode = syntax.ReferenceType

	_, errs, ok := s.translate()
	if ok || errs.Len() != 1 {
		t.Fatalf("Expected a single error, got %d", errs.Len())
	}
	if errs.Errors[0].Short != "Cannot declare class types in fragments. Use struct instead." {
		t.Errorf("Unexpected error %q", errs.Errors[0].Short)
	}
}

func TestTranslate_InheritanceRejected(t *testing.T) {
	s := newShader()
	base := s.class("Base")
	derived := s.class("Derived")
	derived.Type.Base = base.Type

	_, errs, ok := s.translate()
	if ok || errs.Len() != 1 {
		t.Fatalf("Expected a single error, got %d", errs.Len())
	}
	e := errs.Errors[0]
	if e.Short != "Inheritance is not supported in fragments." {
		t.Errorf("Unexpected short message %q", e.Short)
	}
	if e.Full != "Type 'Derived' inherits from type 'Base' which is not supported." {
		t.Errorf("Unexpected full message %q", e.Full)
	}
}

func TestTranslate_EmptyStructGetsDummyMember(t *testing.T) {
	s := newShader()
	s.class("Empty")
	lib := s.mustTranslate(t)

	typ := lib.FindTypeByName("Empty")
	if typ == nil {
		t.Fatal("Expected struct Empty")
	}
	if names := typ.MemberNames(); len(names) != 1 || names[0] != "Dummy" {
		t.Errorf("Expected a single Dummy member, got %v", names)
	}
	if typ.AutoDefaultConstructor == nil {
		t.Errorf("Expected a generated default constructor")
	}
}

func TestTranslate_PreConstructorInitializesMembers(t *testing.T) {
	s := newShader()
	c := s.class("Light")
	s.field(c, "Intensity", s.core.Real, s.realLit("2.0"))
	s.field(c, "Color", s.core.Real3, nil)

	lib := s.mustTranslate(t)

	pre := findFunction(t, lib, "Light_PreConstructor")
	if got := countOps(pre, ir.OpAccessChain); got != 2 {
		t.Errorf("Expected 2 member access chains, got %d", got)
	}
	if got := countOps(pre, ir.OpStore); got != 2 {
		t.Errorf("Expected 2 stores, got %d", got)
	}
	def := findFunction(t, lib, "Light_DefaultConstructor")
	ops := opsOf(def)
	if len(ops) != 2 || ops[0] != ir.OpFunctionCall || ops[1] != ir.OpReturn {
		t.Errorf("Expected default constructor to call the pre-constructor, got %v", ops)
	}
}

func TestTranslate_DestructorRejected(t *testing.T) {
	s := newShader()
	c := s.class("Res")
	c.Destructor = &syntax.FunctionNode{Name: "Destructor", Span: s.at()}

	_, errs, ok := s.translate()
	if ok || errs.Len() != 1 || errs.Errors[0].Short != "Destructors are not supported in shaders" {
		t.Errorf("Expected destructor error, got %v", errs.Error())
	}
}

func TestTranslate_Enum(t *testing.T) {
	s := newShader()
	mode := s.lib.NewType("Mode")
	mode.IsEnum = true
	bright := mode.AddProperty("Bright", mode, true, false, false)
	s.tree.Enums = append(s.tree.Enums, &syntax.EnumNode{
		Name:   "Mode",
		Type:   mode,
		Values: []*syntax.EnumValueNode{{Name: "Bright", Value: 3, Property: bright}},
	})

	c := s.class("Settings")
	fn := s.function(c, "Current", mode, true)
	fn.Body = []syntax.Stmt{s.ret(&syntax.MemberAccessExpr{
		Left:     &syntax.StaticTypeExpr{Referenced: mode},
		Name:     "Bright",
		Property: bright,
		IsStatic: true,
		Usage:    syntax.IoRead,
		Type:     mode,
		Span:     s.at(),
	})}

	lib := s.mustTranslate(t)

	current := findFunction(t, lib, "Current")
	if current.ReturnType() != lib.FindType(s.core.Int) {
		t.Errorf("Expected enum to lower to Int, got %s", current.ReturnType().Name)
	}
	term := current.Blocks[0].Terminator()
	if term == nil || term.Code != ir.OpReturnValue {
		t.Fatalf("Expected OpReturnValue, got %v", term)
	}
	value := term.Args[0].(*ir.Op)
	if v, _ := value.LiteralArg(0); v != int32(3) {
		t.Errorf("Expected enum constant 3, got %v", v)
	}
}

func TestTranslate_StaticFieldInitializer(t *testing.T) {
	s := newShader()
	c := s.class("Globals")
	scale := s.field(c, "Scale", s.core.Real, s.realLit("0.5"), attr("Static"))
	fn := s.function(c, "Get", s.core.Real, true)
	fn.Body = []syntax.Stmt{s.ret(s.member(&syntax.StaticTypeExpr{Referenced: c.Type}, scale.Field, syntax.IoRead))}

	lib := s.mustTranslate(t)

	g := lib.FindGlobal(scale.Field)
	if g == nil {
		t.Fatal("Expected a global for the static field")
	}
	if g.Instance.Result.StorageClass != ir.StoragePrivate {
		t.Errorf("Expected Private storage, got %s", g.Instance.Result.StorageClass)
	}
	if g.Initializer == nil || g.Initializer.Name != "Globals_Scale_Initializer" {
		t.Fatalf("Expected initializer function, got %v", g.Initializer)
	}
	if got := countOps(g.Initializer, ir.OpStore); got != 1 {
		t.Errorf("Expected initializer to store once, got %d", got)
	}
	get := findFunction(t, lib, "Get")
	if got := countOps(get, ir.OpLoad); got != 1 {
		t.Errorf("Expected the global to be loaded once, got %d", got)
	}
}

func TestTranslate_StorageClassAttribute(t *testing.T) {
	s := newShader()
	c := s.class("Shared")
	v := s.field(c, "Counter", s.core.Int, nil, attr("StorageClass", syntax.StringParam("", "Workgroup")))
	bad := s.field(c, "Broken", s.core.Int, nil, attr("StorageClass", syntax.StringParam("", "Nowhere")))

	lib, errs, _ := s.translate()
	if g := lib.FindGlobal(v.Field); g == nil || g.Instance.Result.StorageClass != ir.StorageWorkgroup {
		t.Errorf("Expected a Workgroup global for Counter")
	}
	if lib.FindGlobal(bad.Field) != nil {
		t.Errorf("Expected no global for an invalid storage class")
	}
	if errs.Len() != 1 || errs.Errors[0].Short != "Storage class 'Nowhere' is not valid" {
		t.Errorf("Expected invalid storage class error, got %v", errs.Error())
	}
}

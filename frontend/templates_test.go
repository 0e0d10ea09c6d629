package frontend_test

import (
	"testing"

	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

func TestFixedArray_GetSetCount(t *testing.T) {
	s := newShader()
	arr := s.core.FixedArray(s.lib, s.core.Real, 4)
	s.tree.Types = append(s.tree.Types, arr)
	get, set := arr.FindFunction("Get", false), arr.FindFunction("Set", false)
	count := arr.FindProperty("Count")

	c := s.class("Buffers")
	fn := s.function(c, "Second", s.core.Real, true)
	local, ref := s.local("values", arr, nil)
	fn.Body = []syntax.Stmt{
		local,
		exprStmt(s.call(set, ref, s.intLit(1), s.realLit("2.0"))),
		s.ret(s.call(get, ref, s.intLit(1))),
	}
	size := s.function(c, "Size", s.core.Int, true)
	sizeLocal, sizeRef := s.local("values", arr, nil)
	size.Body = []syntax.Stmt{
		sizeLocal,
		s.ret(&syntax.MemberAccessExpr{Left: sizeRef, Name: "Count", Property: count, Usage: syntax.IoRead, Type: s.core.Int, Span: s.at()}),
	}

	lib := s.mustTranslate(t)

	typ := lib.FindType(arr)
	if typ == nil || typ.Base != ir.BaseFixedArray || typ.Components != 4 {
		t.Fatalf("Expected a 4 element fixed array type, got %v", typ)
	}
	second := findFunction(t, lib, "Second")
	if got := countOps(second, ir.OpAccessChain); got != 2 {
		t.Errorf("Expected an access chain for Set and Get, got %d", got)
	}
	if got := countOps(second, ir.OpStore); got != 1 {
		t.Errorf("Expected Set to store once, got %d", got)
	}

	term := findFunction(t, lib, "Size").Blocks[0].Terminator()
	if term == nil || term.Code != ir.OpReturnValue {
		t.Fatalf("Expected Size to return a value")
	}
	if v, _ := term.Args[0].(*ir.Op).LiteralArg(0); v != int32(4) {
		t.Errorf("Expected Count to be the constant 4, got %v", v)
	}
}

func TestRuntimeArray_StorageBuffer(t *testing.T) {
	s := newShader()
	arr := s.core.RuntimeArray(s.lib, s.core.Real4)
	s.tree.Types = append(s.tree.Types, arr)
	count := arr.FindProperty("Count")

	c := s.class("Particles", attr("Compute"))
	data := s.field(c, "Data", arr, nil)
	fn := s.function(c, "Length", s.core.Int, false)
	fn.Body = []syntax.Stmt{s.ret(&syntax.MemberAccessExpr{
		Left:     s.member(s.this(fn), data.Field, syntax.IoRead),
		Name:     "Count",
		Property: count,
		Usage:    syntax.IoRead,
		Type:     s.core.Int,
		Span:     s.at(),
	})}

	lib := s.mustTranslate(t)

	g := lib.FindGlobalByName("Particles_Data")
	if g == nil || g.Instance.Result.StorageClass != ir.StorageStorageBuffer {
		t.Fatalf("Expected a storage buffer global for the runtime array")
	}
	if buffer := lib.FindTypeByName("Particles_Data_Buffer"); buffer == nil || len(buffer.MemberNames()) != 1 {
		t.Errorf("Expected a single-member buffer struct")
	}
	if got := countOps(findFunction(t, lib, "Length"), ir.OpArrayLength); got != 1 {
		t.Errorf("Expected OpArrayLength, got %d", got)
	}
}

func TestRuntimeArray_Nested(t *testing.T) {
	s := newShader()
	inner := s.core.RuntimeArray(s.lib, s.core.Real)
	outer := s.core.RuntimeArray(s.lib, inner)
	s.tree.Types = append(s.tree.Types, inner, outer)

	c := s.class("Broken")
	s.field(c, "Rows", outer, nil)

	_, errs, ok := s.translate()
	if ok || errs.Len() != 1 || errs.Errors[0].Short != "Runtime arrays cannot contain runtime arrays" {
		t.Errorf("Expected nested runtime array error, got %v", errs.Error())
	}
}

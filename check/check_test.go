package check

import (
	"strings"
	"testing"

	"github.com/gogpu/fragc/config"
	"github.com/gogpu/fragc/diag"
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// fixture builds small call graphs by hand.
type fixture struct {
	lib  *syntax.Library
	tree *syntax.Tree
	line int
}

func newFixture() *fixture {
	lib := &syntax.Library{Name: "Test"}
	return &fixture{lib: lib, tree: &syntax.Tree{Library: lib}}
}

func (f *fixture) at() syntax.Span {
	f.line++
	return syntax.At("test.frag", f.line, 1)
}

func (f *fixture) class(name string, attrs ...string) *syntax.ClassNode {
	bt := &syntax.BoundType{Name: name, Library: f.lib, Attributes: attributes(attrs)}
	c := &syntax.ClassNode{Name: name, Type: bt, Attributes: bt.Attributes, Span: f.at()}
	f.tree.Classes = append(f.tree.Classes, c)
	return c
}

func (f *fixture) function(c *syntax.ClassNode, name string, attrs ...string) *syntax.FunctionNode {
	fn := &syntax.Function{Name: name, Owner: c.Type, Library: f.lib, Attributes: attributes(attrs), IsStatic: true}
	node := &syntax.FunctionNode{Name: name, Function: fn, Attributes: fn.Attributes, Span: f.at()}
	c.Type.Functions = append(c.Type.Functions, fn)
	c.Functions = append(c.Functions, node)
	return node
}

func (f *fixture) call(from *syntax.FunctionNode, to *syntax.Function) syntax.Span {
	span := f.at()
	from.Body = append(from.Body, &syntax.ExprStmt{X: &syntax.CallExpr{
		Callee: &syntax.MemberAccessExpr{
			Left:     &syntax.StaticTypeExpr{Referenced: to.Owner, Span: span},
			Name:     to.Name,
			Function: to,
			IsStatic: true,
			Usage:    syntax.IoRead,
			Span:     span,
		},
		Span: span,
	}})
	return span
}

func attributes(names []string) syntax.Attributes {
	var out syntax.Attributes
	for _, n := range names {
		out = append(out, syntax.Attribute{Name: n})
	}
	return out
}

func TestCycles_MutualRecursion(t *testing.T) {
	f := newFixture()
	c := f.class("Helpers")
	a := f.function(c, "A")
	b := f.function(c, "B")
	toB := f.call(a, b.Function)
	toA := f.call(b, a.Function)

	var errs diag.List
	if !Cycles(f.tree, &errs) {
		t.Fatal("Expected a cycle to be found")
	}
	if errs.Len() != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", errs.Len(), errs.Error())
	}
	e := errs.Errors[0]
	if e.Short != "Recursion is not allowed in shaders" {
		t.Errorf("Expected recursion error, got %q", e.Short)
	}
	want := []syntax.Span{a.Span, toB, toA}
	if len(e.CallStack) != len(want) {
		t.Fatalf("Expected call stack of %d, got %d", len(want), len(e.CallStack))
	}
	for i := range want {
		if e.CallStack[i] != want[i] {
			t.Errorf("Expected stack[%d] = %s, got %s", i, want[i], e.CallStack[i])
		}
	}
	if !strings.Contains(e.Full, "'Helpers.A' -> 'Helpers.B' -> 'Helpers.A'") {
		t.Errorf("Expected chain in message, got %q", e.Full)
	}
}

func TestCycles_SelfRecursion(t *testing.T) {
	f := newFixture()
	c := f.class("Helpers")
	a := f.function(c, "A")
	f.call(a, a.Function)

	var errs diag.List
	Cycles(f.tree, &errs)
	if errs.Len() != 1 || len(errs.Errors[0].CallStack) != 2 {
		t.Errorf("Expected one error with a two entry stack, got %v", errs.Error())
	}
}

func TestCycles_DiamondIsNotACycle(t *testing.T) {
	f := newFixture()
	c := f.class("Helpers")
	top := f.function(c, "Top")
	left := f.function(c, "Left")
	right := f.function(c, "Right")
	bottom := f.function(c, "Bottom")
	f.call(top, left.Function)
	f.call(top, right.Function)
	f.call(left, bottom.Function)
	f.call(right, bottom.Function)

	var errs diag.List
	if Cycles(f.tree, &errs) {
		t.Errorf("Expected no cycle, got %v", errs.Error())
	}
}

func TestCycles_PropertyAndConstructor(t *testing.T) {
	f := newFixture()
	c := f.class("Data")
	c.Type.PreConstructor = &syntax.Function{Name: "PreConstructor", Owner: c.Type, Kind: syntax.FunctionPreConstructor}

	// The getter constructs a Data, whose field initializer reads the getter.
	prop := &syntax.GetterSetter{Name: "Value", Owner: c.Type, Library: f.lib}
	get := &syntax.FunctionNode{
		Name:     "Get",
		Function: &syntax.Function{Name: "Get", Owner: c.Type, Kind: syntax.FunctionGetter, Property: prop},
		Span:     f.at(),
	}
	prop.Get = get.Function
	get.Body = []syntax.Stmt{&syntax.LocalVarStmt{Name: "d", Type: c.Type, Span: f.at()}}

	field := &syntax.Field{Name: "Cached", Owner: c.Type, Library: f.lib}
	c.Variables = []*syntax.MemberVariableNode{
		{Name: "Value", Property: prop, Get: get, Span: f.at()},
		{Name: "Cached", Field: field, Initial: &syntax.MemberAccessExpr{
			Name: "Value", Property: prop, IsStatic: true, Usage: syntax.IoRead, Span: f.at(),
		}, Span: f.at()},
	}

	var errs diag.List
	if !Cycles(f.tree, &errs) {
		t.Fatal("Expected the getter/pre-constructor cycle to be found")
	}
	if errs.Len() != 1 {
		t.Errorf("Expected 1 error, got %d", errs.Len())
	}
}

func stageLibrary() (*ir.Library, *syntax.Function) {
	core := &syntax.BoundType{Name: "Shader"}
	ddx := &syntax.Function{Name: "Ddx", Owner: core, IsStatic: true}
	lib := ir.NewLibrary("Core", nil, nil)
	lib.RequireStage(ddx, ir.StagePixel)
	lib.Translated = true
	return lib, ddx
}

func TestStageRequirements_PixelIntrinsicFromVertex(t *testing.T) {
	core, ddx := stageLibrary()
	f := newFixture()
	helpers := f.class("Helpers")
	helper := f.function(helpers, "Slope")
	toDdx := f.call(helper, ddx)

	vertex := f.class("Vs", "Vertex")
	main := f.function(vertex, "Main")
	toHelper := f.call(main, helper.Function)

	lib := ir.NewLibrary("Test", f.lib, ir.NewModule(core))
	var errs diag.List
	if !StageRequirements(f.tree, lib, config.Default(), &errs) {
		t.Fatal("Expected a stage error")
	}
	if errs.Len() != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", errs.Len(), errs.Error())
	}
	e := errs.Errors[0]
	if e.Short != "Invalid shader stage combination" {
		t.Errorf("Expected stage error, got %q", e.Short)
	}
	if e.Span != main.Span {
		t.Errorf("Expected error at Vs.Main, got %s", e.Span)
	}
	want := "'Vs.Main' requires shader stage Vertex but references 'Shader.Ddx' which requires stage Pixel"
	if e.Full != want {
		t.Errorf("Expected %q, got %q", want, e.Full)
	}
	if len(e.CallStack) != 2 || e.CallStack[0] != toHelper || e.CallStack[1] != toDdx {
		t.Errorf("Expected call stack [%s %s], got %v", toHelper, toDdx, e.CallStack)
	}

	d := lib.StageRequirements[helper.Function]
	if d == nil || d.Required != ir.StagePixel || d.Dependency != ddx {
		t.Errorf("Expected helper to cache a Pixel requirement on Ddx, got %+v", d)
	}
}

func TestStageRequirements_MatchingStage(t *testing.T) {
	core, ddx := stageLibrary()
	f := newFixture()
	pixel := f.class("Ps", "Pixel")
	main := f.function(pixel, "Main")
	f.call(main, ddx)

	lib := ir.NewLibrary("Test", f.lib, ir.NewModule(core))
	var errs diag.List
	if StageRequirements(f.tree, lib, config.Default(), &errs) {
		t.Errorf("Expected no error, got %v", errs.Error())
	}
	if d := lib.StageRequirements[main.Function]; d == nil || d.Required != ir.StagePixel {
		t.Errorf("Expected Main to require Pixel, got %+v", d)
	}
}

func TestStageRequirements_RequiresAttribute(t *testing.T) {
	f := newFixture()
	helpers := f.class("Helpers")
	pixelOnly := f.function(helpers, "PixelOnly", "RequiresPixel")

	vertex := f.class("Vs", "Vertex")
	main := f.function(vertex, "Main")
	f.call(main, pixelOnly.Function)

	lib := ir.NewLibrary("Test", f.lib, nil)
	var errs diag.List
	StageRequirements(f.tree, lib, config.Default(), &errs)
	if errs.Len() != 1 {
		t.Fatalf("Expected 1 error, got %d", errs.Len())
	}
	if !strings.Contains(errs.Errors[0].Full, "'Helpers.PixelOnly' which requires stage Pixel") {
		t.Errorf("Expected error naming PixelOnly, got %q", errs.Errors[0].Full)
	}
}

func TestStageRequirements_NoStageNoError(t *testing.T) {
	core, ddx := stageLibrary()
	f := newFixture()
	helpers := f.class("Helpers")
	helper := f.function(helpers, "Slope")
	f.call(helper, ddx)

	lib := ir.NewLibrary("Test", f.lib, ir.NewModule(core))
	var errs diag.List
	if StageRequirements(f.tree, lib, config.Default(), &errs) {
		t.Errorf("Expected unrestricted helper to pass, got %v", errs.Error())
	}
}

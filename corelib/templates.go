package corelib

import (
	"fmt"

	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

var primitives = [...]string{"Point", "Line", "Triangle"}

func (c *Core) registerTemplates() {
	names := c.Settings.Names
	c.Library.RegisterTemplate(names.FixedArrayName, c.instantiateFixedArray)
	c.Library.RegisterTemplate(names.RuntimeArrayName, c.instantiateRuntimeArray)
	for i, name := range names.InputStreamNames {
		if i < len(primitives) {
			c.Library.RegisterTemplate(name, c.instantiateInputStream(i))
		}
	}
	for i, name := range names.OutputStreamNames {
		if i < len(primitives) {
			c.Library.RegisterTemplate(name, c.instantiateOutputStream(i))
		}
	}
}

// ----------------------------------------------------------------------------
// Host declarations
// ----------------------------------------------------------------------------

// FixedArray declares FixedArray[elem, n] in lib with its Get, Set and
// Count members.
func (c *Core) FixedArray(lib *syntax.Library, elem *syntax.BoundType, n int) *syntax.BoundType {
	name := c.Settings.Names.FixedArrayName
	t := lib.NewTemplate(name, fmt.Sprintf("%s[%s, %d]", name, elem.Name, n), syntax.TypeArg(elem), syntax.ValueArg(n))
	c.declareArrayMembers(t, elem)
	return t
}

// RuntimeArray declares RuntimeArray[elem] in lib.
func (c *Core) RuntimeArray(lib *syntax.Library, elem *syntax.BoundType) *syntax.BoundType {
	name := c.Settings.Names.RuntimeArrayName
	t := lib.NewTemplate(name, name+"["+elem.Name+"]", syntax.TypeArg(elem))
	c.declareArrayMembers(t, elem)
	return t
}

// InputStream declares the input stream template with the given name
// (e.g. "TriangleInput") over elem.
func (c *Core) InputStream(lib *syntax.Library, name string, elem *syntax.BoundType) *syntax.BoundType {
	t := lib.NewTemplate(name, name+"["+elem.Name+"]", syntax.TypeArg(elem))
	t.AddFunction("Get", elem, false, syntax.Param{Name: "index", Type: c.Int})
	t.AddProperty("Count", c.Int, false, true, false)
	return t
}

// OutputStream declares the output stream template with the given name
// (e.g. "TriangleOutput") over elem.
func (c *Core) OutputStream(lib *syntax.Library, name string, elem *syntax.BoundType) *syntax.BoundType {
	t := lib.NewTemplate(name, name+"["+elem.Name+"]", syntax.TypeArg(elem))
	t.AddFunction("Append", nil, false, syntax.Param{Name: "value", Type: elem})
	t.AddFunction("RestartStrip", nil, false)
	return t
}

func (c *Core) declareArrayMembers(t, elem *syntax.BoundType) {
	t.AddFunction("Get", elem, false, syntax.Param{Name: "index", Type: c.Int})
	t.AddFunction("Set", nil, false, syntax.Param{Name: "index", Type: c.Int}, syntax.Param{Name: "value", Type: elem})
	t.AddProperty("Count", c.Int, false, true, false)
}

// ----------------------------------------------------------------------------
// Instantiation
// ----------------------------------------------------------------------------

func templateElement(t ir.Translator, typ *syntax.BoundType) *ir.Type {
	if len(typ.TemplateArgs) == 0 || typ.TemplateArgs[0].Type == nil {
		t.Errorf(typ.Span, "Template '%s' requires an element type", typ.Name)
		return nil
	}
	return t.TypeOf(typ.TemplateArgs[0].Type, typ.Span)
}

func (c *Core) instantiateFixedArray(t ir.Translator, typ *syntax.BoundType) *ir.Type {
	elem := templateElement(t, typ)
	if elem == nil {
		return nil
	}
	n := 0
	if len(typ.TemplateArgs) > 1 {
		n = typ.TemplateArgs[1].Value
	}
	if n <= 0 {
		t.Errorf(typ.Span, "Fixed array '%s' must have a positive length", typ.Name)
		return nil
	}
	lib := t.Library()
	arr := lib.NewType(typ.Name, ir.BaseFixedArray, typ)
	arr.Component = elem
	arr.Components = n
	arr.Params = []ir.Node{elem, t.IntConstant(int32(n))}
	arr.Payload = &ir.ArrayPayload{Element: elem, Length: n}
	lib.AddTypeDependent(elem, arr)

	r := lib.TypeResolvers(typ)
	r.DefaultConstructor = func(t ir.Translator, typ *syntax.BoundType, span syntax.Span) *ir.Op {
		return t.Variable(arr, "array")
	}
	r.InitializerList = func(t ir.Translator, e *syntax.InitializerExpr) *ir.Op {
		if len(e.Elements) != n {
			t.Errorf(e.Span, "Initializer list for '%s' expects %d elements, got %d", typ.Name, n, len(e.Elements))
			return t.Dummy(arr)
		}
		args := make([]ir.Node, n)
		for i, el := range e.Elements {
			args[i] = t.ValueOf(t.Walk(el))
		}
		return t.Emit(ir.OpCompositeConstruct, arr, args...)
	}
	c.registerArrayAccess(r, typ, elem, func(t ir.Translator, base *ir.Op, span syntax.Span) *ir.Op {
		return t.Constant(c.irType(c.Int), int32(n))
	})
	return arr
}

func (c *Core) instantiateRuntimeArray(t ir.Translator, typ *syntax.BoundType) *ir.Type {
	elem := templateElement(t, typ)
	if elem == nil {
		return nil
	}
	lib := t.Library()
	arr := lib.NewType(typ.Name, ir.BaseRuntimeArray, typ)
	arr.Component = elem
	arr.Params = []ir.Node{elem}
	arr.Payload = &ir.ArrayPayload{Element: elem}
	lib.AddTypeDependent(elem, arr)

	r := lib.TypeResolvers(typ)
	r.DefaultConstructor = func(t ir.Translator, typ *syntax.BoundType, span syntax.Span) *ir.Op {
		t.Errorf(span, "Runtime array '%s' cannot be constructed", typ.Name)
		return t.Dummy(arr)
	}
	c.registerArrayAccess(r, typ, elem, c.arrayLength)
	return arr
}

// arrayLength emits OpArrayLength. The runtime array must be reached
// through an access chain into its buffer struct.
func (c *Core) arrayLength(t ir.Translator, base *ir.Op, span syntax.Span) *ir.Op {
	intType := c.irType(c.Int)
	if base.Code == ir.OpAccessChain && len(base.Args) == 2 {
		if index, ok := base.Args[1].(*ir.Op); ok {
			if v, ok := index.LiteralArg(0); ok {
				if member, ok := v.(int32); ok {
					return t.Emit(ir.OpArrayLength, intType, base.Args[0], t.Literal(uint32(member)))
				}
			}
		}
	}
	t.Errorf(span, "Runtime array length requires a storage buffer")
	return t.Dummy(intType)
}

// registerArrayAccess binds Get, Set and Count on an array-like template.
func (c *Core) registerArrayAccess(r *ir.TypeResolvers, typ *syntax.BoundType, elem *ir.Type, count func(ir.Translator, *ir.Op, syntax.Span) *ir.Op) {
	if get := typ.FindFunction("Get", false); get != nil {
		r.RegisterFunction(get, func(t ir.Translator, e *syntax.CallExpr) *ir.Op {
			base, index := arrayOperands(t, e)
			ptr := t.Library().PointerType(elem, base.Result.StorageClass)
			return t.Emit(ir.OpAccessChain, ptr, base, index)
		})
	}
	if set := typ.FindFunction("Set", false); set != nil {
		r.RegisterFunction(set, func(t ir.Translator, e *syntax.CallExpr) *ir.Op {
			base, index := arrayOperands(t, e)
			if len(e.Args) < 2 {
				t.Errorf(e.Span, "Failed to translate function call: 'Set'")
				return nil
			}
			ptr := t.Library().PointerType(elem, base.Result.StorageClass)
			t.Store(t.Emit(ir.OpAccessChain, ptr, base, index), t.ValueOf(t.Walk(e.Args[1])))
			return nil
		})
	}
	if prop := typ.FindProperty("Count"); prop != nil && prop.Get != nil {
		r.RegisterFunction(prop.Get, func(t ir.Translator, e *syntax.CallExpr) *ir.Op {
			var base *ir.Op
			if callee, ok := e.Callee.(*syntax.MemberAccessExpr); ok {
				base = t.Walk(callee.Left)
			}
			if base == nil {
				t.Errorf(e.Span, "Failed to translate function call: 'Count'")
				return t.Dummy(c.irType(c.Int))
			}
			return count(t, base, e.Span)
		})
	}
}

// writeStreamOutputs copies an appended vertex into the stream's Output
// interface variables.
func writeStreamOutputs(t ir.Translator, s *ir.StreamPayload, value *ir.Op) {
	if s.Element.Base != ir.BaseStruct {
		for _, out := range s.Outputs {
			t.Store(out, value)
		}
		return
	}
	for i, out := range s.Outputs {
		field := t.Emit(ir.OpCompositeExtract, s.Element.MemberType(i), value, t.Literal(uint32(i)))
		t.Store(out, field)
	}
}

// receiver walks the callee's receiver as a pointer, spilling values into
// a temporary.
func receiver(t ir.Translator, e *syntax.CallExpr) *ir.Op {
	callee := e.Callee.(*syntax.MemberAccessExpr)
	base := t.Walk(callee.Left)
	if !base.IsPointer() {
		base = t.PointerOf(base)
	}
	return base
}

// arrayOperands returns the receiver pointer and the index argument.
func arrayOperands(t ir.Translator, e *syntax.CallExpr) (base, index *ir.Op) {
	base = receiver(t, e)
	if len(e.Args) > 0 {
		index = t.ValueOf(t.Walk(e.Args[0]))
	} else {
		index = t.IntConstant(0)
	}
	return base, index
}

func (c *Core) instantiateInputStream(kind int) ir.TemplateResolver {
	return func(t ir.Translator, typ *syntax.BoundType) *ir.Type {
		elem := templateElement(t, typ)
		if elem == nil {
			return nil
		}
		vertices := kind + 1
		lib := t.Library()
		stream := lib.NewType(typ.Name, ir.BaseFixedArray, typ)
		stream.Component = elem
		stream.Components = vertices
		stream.Params = []ir.Node{elem, t.IntConstant(int32(vertices))}
		stream.Payload = &ir.StreamPayload{Input: true, Primitive: primitives[kind], Vertices: vertices, Element: elem}
		lib.AddTypeDependent(elem, stream)

		r := lib.TypeResolvers(typ)
		c.registerArrayAccess(r, typ, elem, func(t ir.Translator, base *ir.Op, span syntax.Span) *ir.Op {
			return t.Constant(c.irType(c.Int), int32(vertices))
		})
		return stream
	}
}

func (c *Core) instantiateOutputStream(kind int) ir.TemplateResolver {
	return func(t ir.Translator, typ *syntax.BoundType) *ir.Type {
		elem := templateElement(t, typ)
		if elem == nil {
			return nil
		}
		lib := t.Library()
		stream := lib.NewType(typ.Name, ir.BaseStruct, typ)
		stream.AddMember("Data", elem)
		payload := &ir.StreamPayload{Primitive: primitives[kind], Vertices: kind + 1, Element: elem}
		stream.Payload = payload

		r := lib.TypeResolvers(typ)
		if appendFn := typ.FindFunction("Append", false); appendFn != nil {
			r.RegisterFunction(appendFn, func(t ir.Translator, e *syntax.CallExpr) *ir.Op {
				base := receiver(t, e)
				if len(e.Args) != 1 {
					t.Errorf(e.Span, "Failed to translate function call: 'Append'")
					return nil
				}
				ptr := t.Library().PointerType(elem, base.Result.StorageClass)
				value := t.ValueOf(t.Walk(e.Args[0]))
				t.Store(t.Emit(ir.OpAccessChain, ptr, base, t.IntConstant(0)), value)
				writeStreamOutputs(t, payload, value)
				t.Emit(ir.OpEmitVertex, nil)
				return nil
			})
			lib.RequireStage(appendFn, ir.StageGeometry)
		}
		if restart := typ.FindFunction("RestartStrip", false); restart != nil {
			r.RegisterFunction(restart, func(t ir.Translator, e *syntax.CallExpr) *ir.Op {
				t.Emit(ir.OpEndPrimitive, nil)
				return nil
			})
			lib.RequireStage(restart, ir.StageGeometry)
		}
		return stream
	}
}

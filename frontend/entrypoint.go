package frontend

import "github.com/gogpu/fragc/ir"

// entryPointName is the name every generated entry point is exported as.
const entryPointName = "main"

func (tr *Translator) validateEntryPoint(p *pending) bool {
	node, meta := p.node, p.owner.Meta
	ok := true
	if node.Return != nil {
		tr.Errorf(node.Span, "Entry points must have a return type of 'void'.")
		ok = false
	}
	if meta.Fragment == ir.FragmentNone {
		tr.Errorf(node.Span, "Entry point requires fragment type.")
		return false
	}
	if meta.Fragment != ir.FragmentGeometry {
		if len(node.Params) != 0 {
			tr.Errorf(node.Span, "Entry point function cannot have arguments.")
			ok = false
		}
		return ok
	}

	if len(node.Params) != 2 {
		tr.Errorf(node.Span, "Geometry shader entry point must have a signature of (inputType, outputType)")
		return false
	}
	if !tr.settings.IsInputStream(node.Params[0].Type.TemplateBaseName) {
		tr.Errorf(node.Params[0].Span, "Argument 1 must be an input stream type.")
		ok = false
	}
	if !tr.settings.IsOutputStream(node.Params[1].Type.TemplateBaseName) {
		tr.Errorf(node.Params[1].Span, "Argument 2 must be an output stream type.")
		ok = false
	}
	if meta.MaxVertices == 0 {
		tr.Errorf(p.class.Span, "Geometry fragment expects max vertices")
		ok = false
	}
	return ok
}

// generateEntryPoint builds the stage's entry function: it runs the static
// initializers, constructs the fragment, copies inputs into it, calls the
// marked function and copies outputs back out.
func (tr *Translator) generateEntryPoint(p *pending) {
	if !tr.validateEntryPoint(p) {
		return
	}
	owner := p.owner
	void := tr.voidType()
	fn := tr.lib.NewFunction(owner.Name+"_"+p.node.Name+"_EntryPoint", tr.lib.FunctionType(void, nil), nil)
	ep := &ir.EntryPoint{Name: entryPointName, Stage: owner.Meta.Fragment, Function: fn, Owner: owner}

	tr.begin(fn, owner, nil)
	for _, s := range tr.statics {
		if s.global.Initializer != nil {
			tr.Emit(ir.OpFunctionCall, void, s.global.Initializer)
		}
	}
	self := tr.Variable(owner, "self")
	tr.defaultConstruct(owner.Meta.Source, self, p.node.Span)

	names := &tr.settings.Names
	for _, f := range tr.interfaceFields(owner, names.InputAttributes) {
		index, _ := owner.MemberIndex(f.Name)
		mt := owner.MemberType(index)
		v := tr.interfaceVariable(mt, ir.StorageInput, owner.Name+"_"+f.Name+"_Input")
		ep.Interface = append(ep.Interface, v)
		field := tr.Emit(ir.OpAccessChain, tr.lib.PointerType(mt, ir.StorageFunction), self, tr.IntConstant(int32(index)))
		tr.Store(field, tr.Emit(ir.OpLoad, mt, v))
	}

	args := []ir.Node{p.ir}
	if p.self != nil {
		args = append(args, self)
	}
	for i, param := range p.params {
		if i == 0 && owner.Meta.Fragment == ir.FragmentGeometry {
			v := tr.interfaceVariable(param.Result, ir.StorageInput, owner.Name+"_"+param.Debug.Name)
			ep.Interface = append(ep.Interface, v)
			args = append(args, tr.Emit(ir.OpLoad, param.Result, v))
			continue
		}
		if out := streamPayload(param.Result); out != nil && !out.Input {
			ep.Interface = append(ep.Interface, out.Outputs...)
		}
		args = append(args, tr.ValueOf(tr.Variable(param.Result, param.Debug.Name)))
	}
	tr.Emit(ir.OpFunctionCall, p.ir.ReturnType(), args...)

	for _, f := range tr.interfaceFields(owner, names.OutputAttributes) {
		index, _ := owner.MemberIndex(f.Name)
		mt := owner.MemberType(index)
		v := tr.interfaceVariable(mt, ir.StorageOutput, owner.Name+"_"+f.Name+"_Output")
		ep.Interface = append(ep.Interface, v)
		field := tr.Emit(ir.OpAccessChain, tr.lib.PointerType(mt, ir.StorageFunction), self, tr.IntConstant(int32(index)))
		tr.Store(v, tr.Emit(ir.OpLoad, mt, field))
	}
	tr.Emit(ir.OpReturn, nil)
	tr.end()

	ep.Modes = tr.executionModes(p)
	tr.lib.AddEntryPoint(ep)
}

// declareStreamOutputs creates the Output interface variables a geometry
// entry point's output stream writes on Append. It runs before bodies are
// walked so Append can find them.
func (tr *Translator) declareStreamOutputs(p *pending) {
	if p.owner.Meta.Fragment != ir.FragmentGeometry || len(p.params) != 2 {
		return
	}
	out := streamPayload(p.params[1].Result)
	if out == nil || out.Input || out.Outputs != nil {
		return
	}
	elem := out.Element
	if elem.Base != ir.BaseStruct {
		v := tr.interfaceVariable(elem, ir.StorageOutput, p.owner.Name+"_"+p.node.Params[1].Name+"_Output")
		out.Outputs = []*ir.Op{v}
		return
	}
	for i, name := range elem.MemberNames() {
		v := tr.interfaceVariable(elem.MemberType(i), ir.StorageOutput, p.owner.Name+"_"+name+"_Output")
		out.Outputs = append(out.Outputs, v)
	}
}

// interfaceFields returns the instance members carrying any of attrs.
func (tr *Translator) interfaceFields(owner *ir.Type, attrs []string) []*ir.FieldMeta {
	var out []*ir.FieldMeta
	for _, f := range owner.Meta.Fields {
		if _, isMember := owner.MemberIndex(f.Name); !isMember {
			continue
		}
		if len(presentIn(f.Attributes, attrs)) > 0 {
			out = append(out, f)
		}
	}
	return out
}

func (tr *Translator) interfaceVariable(t *ir.Type, sc ir.StorageClass, name string) *ir.Op {
	op := ir.NewOp(ir.OpVariable, tr.lib.InterfacePointerType(t, sc), tr.Literal(uint32(sc)))
	op.Debug.Name = name
	tr.lib.AddGlobal(&ir.GlobalVariable{Instance: op})
	return op
}

var (
	inputPrimitiveModes = map[string]uint32{
		"Point":    ir.ExecutionModeInputPoints,
		"Line":     ir.ExecutionModeInputLines,
		"Triangle": ir.ExecutionModeTriangles,
	}
	outputPrimitiveModes = map[string]uint32{
		"Point":    ir.ExecutionModeOutputPoints,
		"Line":     ir.ExecutionModeOutputLineStrip,
		"Triangle": ir.ExecutionModeOutputTriStrip,
	}
)

func (tr *Translator) executionModes(p *pending) []ir.ExecutionMode {
	meta := p.owner.Meta
	switch meta.Fragment {
	case ir.FragmentPixel:
		return []ir.ExecutionMode{{Mode: ir.ExecutionModeOriginUpperLeft}}
	case ir.FragmentCompute:
		size := meta.LocalSize
		return []ir.ExecutionMode{{
			Mode:     ir.ExecutionModeLocalSize,
			Literals: []uint32{uint32(size[0]), uint32(size[1]), uint32(size[2])},
		}}
	case ir.FragmentGeometry:
		modes := []ir.ExecutionMode{
			{Mode: ir.ExecutionModeInvocations, Literals: []uint32{1}},
			{Mode: ir.ExecutionModeOutputVertices, Literals: []uint32{uint32(meta.MaxVertices)}},
		}
		if in := streamPayload(p.params[0].Result); in != nil {
			modes = append(modes, ir.ExecutionMode{Mode: inputPrimitiveModes[in.Primitive]})
		}
		if out := streamPayload(p.params[1].Result); out != nil {
			modes = append(modes, ir.ExecutionMode{Mode: outputPrimitiveModes[out.Primitive]})
		}
		return modes
	}
	return nil
}

func streamPayload(t *ir.Type) *ir.StreamPayload {
	s, _ := t.ValueType().Payload.(*ir.StreamPayload)
	return s
}

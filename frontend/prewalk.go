package frontend

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// prewalk declares members, function signatures and the synthesized
// constructors of every class.
func (tr *Translator) prewalk() {
	for _, c := range tr.tree.Classes {
		tr.prewalkClass(c)
	}
}

func (tr *Translator) prewalkClass(c *syntax.ClassNode) {
	names := &tr.settings.Names
	t := tr.lib.FindType(c.Type)

	if c.Destructor != nil {
		tr.Errorf(c.Destructor.Span, "Destructors are not supported in shaders")
	}
	for _, v := range c.Variables {
		tr.prewalkMember(c, t, v)
	}
	if len(t.MemberNames()) == 0 {
		t.AddMember(names.DummyMemberName, tr.intType())
	}

	for _, ctor := range c.Constructors {
		p := tr.declareFunction(ctor, t, c)
		p.isCtor = true
	}
	for _, fn := range c.Functions {
		tr.declareFunction(fn, t, c)
	}

	tr.declarePreConstructor(c, t)
	if !hasDefaultConstructor(c) {
		tr.declareDefaultConstructor(t)
	}
	tr.detectMain(c, t)
}

func hasDefaultConstructor(c *syntax.ClassNode) bool {
	for _, ctor := range c.Constructors {
		if len(ctor.Params) == 0 {
			return true
		}
	}
	return false
}

// prewalkMember decides where a member variable lives: accessor functions,
// a storage buffer, a global in a forced storage class, a specialization
// constant, a private global or a struct member.
func (tr *Translator) prewalkMember(c *syntax.ClassNode, t *ir.Type, v *syntax.MemberVariableNode) {
	names := &tr.settings.Names
	tr.validateAttributes(v.Attributes, tr.settings.FieldAttributes, "fields")
	t.Meta.Fields = append(t.Meta.Fields, &ir.FieldMeta{
		Name:       v.Name,
		Type:       v.Type,
		Source:     v.Member(),
		Attributes: tr.expandAttributes(v.Attributes),
		Owner:      t.Meta,
	})

	if v.Property != nil {
		if v.Get != nil {
			tr.declareFunction(v.Get, t, c)
		}
		if v.Set != nil {
			tr.declareFunction(v.Set, t, c)
		}
		return
	}

	if v.Type.TemplateBaseName == names.RuntimeArrayName {
		tr.declareRuntimeArray(t, v)
		return
	}

	if attr := v.Attributes.Find(names.StorageClassAttribute); attr != nil {
		if len(attr.Params) != 1 {
			return
		}
		sc, ok := ir.ParseStorageClass(attr.Params[0].String)
		if !ok {
			tr.Errorf(attr.Span, "Storage class '%s' is not valid", attr.Params[0].String)
			return
		}
		tr.declareGlobal(t, v, sc)
		return
	}

	if v.IsStatic {
		if v.Attributes.Has(names.SpecializationConstantAttribute) {
			tr.addSpecConstant(v)
			return
		}
		tr.declareGlobal(t, v, ir.StoragePrivate)
		return
	}

	t.AddMember(v.Name, tr.TypeOf(v.Type, v.Span))
	tr.members[t] = append(tr.members[t], v)
}

func (tr *Translator) declareGlobal(owner *ir.Type, v *syntax.MemberVariableNode, sc ir.StorageClass) *ir.GlobalVariable {
	vt := tr.TypeOf(v.Type, v.Span)
	op := ir.NewOp(ir.OpVariable, tr.lib.PointerType(vt, sc), tr.Literal(uint32(sc)))
	op.Debug = ir.DebugInfo{Span: v.Span, Name: owner.Name + "_" + v.Name}
	g := &ir.GlobalVariable{Instance: op, Source: v.Member()}
	tr.lib.AddGlobal(g)
	if sc == ir.StoragePrivate {
		tr.statics = append(tr.statics, &staticField{node: v, owner: owner, global: g})
	}
	return g
}

// declareRuntimeArray places a runtime array in a storage buffer. The array
// is wrapped in a single-member struct, the only layout SPIR-V allows.
func (tr *Translator) declareRuntimeArray(owner *ir.Type, v *syntax.MemberVariableNode) {
	names := &tr.settings.Names
	if v.Initial != nil {
		tr.Errorf(v.Span, "Type '%s' does not support an explicit constructor call.", v.Type.Name)
	}
	if len(v.Type.TemplateArgs) > 0 {
		if elem := v.Type.TemplateArgs[0].Type; elem != nil {
			switch elem.TemplateBaseName {
			case names.FixedArrayName:
				tr.Errorf(v.Span, "Runtime array cannot directly contain a FixedArray. Please put the FixedArray in a struct.")
				return
			case names.RuntimeArrayName:
				tr.Errorf(v.Span, "Runtime arrays cannot contain runtime arrays")
				return
			}
		}
	}
	arr := tr.TypeOf(v.Type, v.Span)
	buffer := tr.lib.NewType(owner.Name+"_"+v.Name+"_Buffer", ir.BaseStruct, nil)
	buffer.AddMember(v.Name, arr)

	op := ir.NewOp(ir.OpVariable, tr.lib.PointerType(buffer, ir.StorageStorageBuffer), tr.Literal(uint32(ir.StorageStorageBuffer)))
	op.Debug = ir.DebugInfo{Span: v.Span, Name: owner.Name + "_" + v.Name}
	tr.lib.AddGlobal(&ir.GlobalVariable{Instance: op, Source: v.Member()})
	tr.bufferFields[v.Member()] = arr
}

// declareFunction creates the IR function and parameters for a function
// node. Instance functions take a pointer to their owner first; ref
// parameters are pointers.
func (tr *Translator) declareFunction(node *syntax.FunctionNode, owner *ir.Type, c *syntax.ClassNode) *pending {
	tr.validateAttributes(node.Attributes, tr.settings.FunctionAttributes, "functions")

	var params []*ir.Type
	static := node.Function != nil && node.Function.IsStatic
	if !static {
		params = append(params, owner.Pointer())
	}
	for _, p := range node.Params {
		pt := tr.TypeOf(p.Type, p.Span)
		if p.Ref {
			pt = tr.lib.PointerType(pt, ir.StorageFunction)
		} else if tr.isNonCopyable(p.Type) {
			tr.Errorf(p.Span, "Type '%s' cannot be copied. This parameter must be passed through by reference (ref keyword).", p.Type.Name)
		}
		params = append(params, pt)
	}
	if tr.isNonCopyable(node.Return) {
		tr.Errorf(node.Span, "Type '%s' is an invalid return type as it cannot be copied.", node.Return.Name)
	}
	ret := tr.TypeOf(node.Return, node.Span)

	fn := tr.lib.NewFunction(node.Name, tr.lib.FunctionType(ret, params), node.Function)
	fn.Meta = &ir.FunctionMeta{Name: node.Name, Source: node.Function, Attributes: node.Attributes}

	p := &pending{node: node, ir: fn, owner: owner, class: c}
	if !static {
		p.self = fn.AddParameter(params[0], "this")
	}
	offset := len(fn.Parameters)
	for i, param := range node.Params {
		p.params = append(p.params, fn.AddParameter(params[offset+i], param.Name))
	}
	tr.bodies = append(tr.bodies, p)
	if node.Attributes.Has(tr.settings.Names.EntryPointAttribute) {
		p.isEntry = true
		tr.entryPoints = append(tr.entryPoints, p)
	}
	return p
}

// declarePreConstructor declares the function that initializes every
// struct member. Its body is generated during the walk.
func (tr *Translator) declarePreConstructor(c *syntax.ClassNode, t *ir.Type) {
	name := t.Name + "_" + tr.settings.Names.PreConstructorName
	fn := tr.lib.NewFunction(name, tr.lib.FunctionType(tr.voidType(), []*ir.Type{t.Pointer()}), c.Type.PreConstructor)
	fn.Meta = &ir.FunctionMeta{Name: name, Source: c.Type.PreConstructor}
	fn.AddParameter(t.Pointer(), "this")
	tr.preConstructors[t] = fn
}

// declareDefaultConstructor synthesizes the constructor used when a type
// declares none. It only runs the pre-constructor.
func (tr *Translator) declareDefaultConstructor(t *ir.Type) {
	name := tr.settings.Names.DefaultConstructorName
	void := tr.voidType()
	fn := tr.lib.NewFunction(t.Name+"_"+name, tr.lib.FunctionType(void, []*ir.Type{t.Pointer()}), nil)
	fn.Meta = &ir.FunctionMeta{Name: name}
	self := fn.AddParameter(t.Pointer(), "this")

	block := fn.EntryBlock()
	block.Add(ir.NewOp(ir.OpFunctionCall, void, tr.preConstructors[t], self))
	block.Add(ir.NewOp(ir.OpReturn, nil))
	t.AutoDefaultConstructor = fn
}

// detectMain marks types that declare the stage's Main function and reports
// fragments without one when configured to.
func (tr *Translator) detectMain(c *syntax.ClassNode, t *ir.Type) {
	names := &tr.settings.Names
	fragment := t.Meta.Fragment
	for _, fn := range c.Functions {
		if fn.Name != names.MainFunctionName || fn.Return != nil {
			continue
		}
		switch fragment {
		case ir.FragmentGeometry:
			if len(fn.Params) == 2 &&
				tr.settings.IsInputStream(fn.Params[0].Type.TemplateBaseName) &&
				tr.settings.IsOutputStream(fn.Params[1].Type.TemplateBaseName) {
				t.HasMainFunction = true
			}
		default:
			if len(fn.Params) == 0 {
				t.HasMainFunction = true
			}
		}
	}
	if t.HasMainFunction || fragment == ir.FragmentNone || !tr.settings.Errors.ErrorOnNoMainFunction {
		return
	}
	if fragment == ir.FragmentGeometry {
		tr.Errorf(c.Span, "Geometry shader must have a 'Main' function of signature (InputStream, OutputStream).")
		return
	}
	tr.Errorf(c.Span, "Shader must have a function of signature 'Main()'.")
}

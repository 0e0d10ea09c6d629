package syntax

// Helpers a host front end uses to declare symbols. They keep the owner,
// library and receiver links consistent.

// NewLibrary creates an empty library.
func NewLibrary(name string) *Library {
	return &Library{Name: name}
}

// NewType declares a value type owned by l.
func (l *Library) NewType(name string, attrs ...Attribute) *BoundType {
	return &BoundType{Name: name, Library: l, Attributes: attrs}
}

// NewTemplate declares an instantiation of the template named base.
func (l *Library) NewTemplate(base, name string, args ...TemplateArg) *BoundType {
	return &BoundType{Name: name, Library: l, TemplateBaseName: base, TemplateArgs: args}
}

// TypeArg wraps a type template argument.
func TypeArg(t *BoundType) TemplateArg { return TemplateArg{Type: t} }

// ValueArg wraps an integer template argument.
func ValueArg(v int) TemplateArg { return TemplateArg{Value: v} }

// AddField declares a field on t.
func (t *BoundType) AddField(name string, typ *BoundType, static bool, attrs ...Attribute) *Field {
	f := &Field{
		Name:       name,
		Owner:      t,
		Library:    t.Library,
		Type:       typ,
		IsStatic:   static,
		Attributes: attrs,
	}
	t.Fields = append(t.Fields, f)
	return f
}

// AddFunction declares a function on t. Instance functions get a receiver
// variable named "this".
func (t *BoundType) AddFunction(name string, ret *BoundType, static bool, params ...Param) *Function {
	f := &Function{
		Name:     name,
		Owner:    t,
		Library:  t.Library,
		IsStatic: static,
		Params:   params,
		Return:   ret,
	}
	if !static {
		f.This = &Variable{Name: "this", Type: t}
	}
	t.Functions = append(t.Functions, f)
	return f
}

// AddConstructor declares a constructor on t.
func (t *BoundType) AddConstructor(params ...Param) *Function {
	return &Function{
		Name:    "Constructor",
		Kind:    FunctionConstructor,
		Owner:   t,
		Library: t.Library,
		Params:  params,
		This:    &Variable{Name: "this", Type: t},
	}
}

// AddProperty declares a property on t with an optional getter and setter.
func (t *BoundType) AddProperty(name string, typ *BoundType, static, get, set bool) *GetterSetter {
	p := &GetterSetter{
		Name:     name,
		Owner:    t,
		Library:  t.Library,
		Type:     typ,
		IsStatic: static,
	}
	if get {
		p.Get = &Function{Name: "Get" + name, Kind: FunctionGetter, Owner: t, Library: t.Library, IsStatic: static, Return: typ, Property: p}
		if !static {
			p.Get.This = &Variable{Name: "this", Type: t}
		}
	}
	if set {
		p.Set = &Function{Name: "Set" + name, Kind: FunctionSetter, Owner: t, Library: t.Library, IsStatic: static, Params: []Param{{Name: "value", Type: typ}}, Property: p}
		if !static {
			p.Set.This = &Variable{Name: "this", Type: t}
		}
	}
	t.Properties = append(t.Properties, p)
	return p
}

// NewAttribute builds an attribute.
func NewAttribute(name string, params ...AttributeParam) Attribute {
	return Attribute{Name: name, Params: params}
}

// IntParam builds an integer attribute parameter.
func IntParam(name string, v int) AttributeParam {
	return AttributeParam{Name: name, Kind: ParamInteger, Int: v}
}

// StringParam builds a string attribute parameter.
func StringParam(name, v string) AttributeParam {
	return AttributeParam{Name: name, Kind: ParamString, String: v}
}

package syntax

// Library is a compiled unit of the host language. Symbols point back at the
// library that declared them, which may differ from their owner's library
// when a type is extended from another library.
type Library struct {
	Name string
}

// CopyMode distinguishes value types from reference types.
type CopyMode uint8

const (
	ValueType CopyMode = iota
	ReferenceType
)

// BoundType is a resolved host-language type.
type BoundType struct {
	Name       string
	Library    *Library
	Span       Span
	Attributes Attributes
	CopyMode   CopyMode

	// Base is the inherited type, nil if the type inherits from nothing.
	Base *BoundType

	// Template instantiations record their base name ("FixedArray") and
	// arguments. Non-templates leave TemplateBaseName empty.
	TemplateBaseName string
	TemplateArgs     []TemplateArg

	// IsEnum marks enumerations; they lower to the core integer type.
	IsEnum bool

	// PreConstructor is the synthesized function that initializes members.
	PreConstructor *Function

	// Members declared on the type, in declaration order.
	Fields     []*Field
	Properties []*GetterSetter
	Functions  []*Function
}

// TemplateArg is a template argument: either a type or an integer constant.
type TemplateArg struct {
	Type  *BoundType
	Value int
}

// IsTemplate reports whether t is an instantiated template type.
func (t *BoundType) IsTemplate() bool {
	return t.TemplateBaseName != ""
}

// HasAttribute reports whether the type carries the named attribute.
func (t *BoundType) HasAttribute(name string) bool {
	return t.Attributes.Has(name)
}

// FindFunction returns the first function declared on t with the given name.
func (t *BoundType) FindFunction(name string, static bool) *Function {
	for _, f := range t.Functions {
		if f.Name == name && f.IsStatic == static {
			return f
		}
	}
	return nil
}

// FindField returns the field with the given name or nil.
func (t *BoundType) FindField(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindProperty returns the property with the given name or nil.
func (t *BoundType) FindProperty(name string) *GetterSetter {
	for _, p := range t.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (t *BoundType) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// FunctionKind classifies functions the host may bind.
type FunctionKind uint8

const (
	FunctionRegular FunctionKind = iota
	FunctionConstructor
	FunctionPreConstructor
	FunctionGetter
	FunctionSetter
)

// Param is a declared function parameter.
type Param struct {
	Name string
	Type *BoundType
	Ref  bool
}

// Function is a resolved host-language function, constructor, getter or
// setter.
type Function struct {
	Name       string
	Kind       FunctionKind
	Owner      *BoundType
	Library    *Library
	Span       Span
	Attributes Attributes
	IsStatic   bool
	Params     []Param

	// Return is nil for functions that return nothing.
	Return *BoundType

	// This is the implicit receiver of instance functions.
	This *Variable

	// Property links getters and setters back to their property.
	Property *GetterSetter
}

// Field is a plain data member.
type Field struct {
	Name       string
	Owner      *BoundType
	Library    *Library
	Type       *BoundType
	Span       Span
	Attributes Attributes
	IsStatic   bool
}

// GetterSetter is a property backed by a getter and/or setter function.
// Enum values are modelled as static get-only properties.
type GetterSetter struct {
	Name       string
	Owner      *BoundType
	Library    *Library
	Type       *BoundType
	Span       Span
	Attributes Attributes
	IsStatic   bool
	Get        *Function
	Set        *Function
}

// Variable is a local variable, parameter or implicit "this".
type Variable struct {
	Name string
	Type *BoundType
	Span Span
}

// Member is implemented by every symbol that can be owned by a type and
// referenced from a function body.
type Member interface {
	MemberName() string
	MemberOwner() *BoundType
	MemberLibrary() *Library
	MemberSpan() Span
	MemberAttributes() Attributes
}

func (f *Function) MemberName() string           { return f.Name }
func (f *Function) MemberOwner() *BoundType      { return f.Owner }
func (f *Function) MemberLibrary() *Library      { return f.Library }
func (f *Function) MemberSpan() Span             { return f.Span }
func (f *Function) MemberAttributes() Attributes { return f.Attributes }

func (f *Field) MemberName() string           { return f.Name }
func (f *Field) MemberOwner() *BoundType      { return f.Owner }
func (f *Field) MemberLibrary() *Library      { return f.Library }
func (f *Field) MemberSpan() Span             { return f.Span }
func (f *Field) MemberAttributes() Attributes { return f.Attributes }

func (p *GetterSetter) MemberName() string           { return p.Name }
func (p *GetterSetter) MemberOwner() *BoundType      { return p.Owner }
func (p *GetterSetter) MemberLibrary() *Library      { return p.Library }
func (p *GetterSetter) MemberSpan() Span             { return p.Span }
func (p *GetterSetter) MemberAttributes() Attributes { return p.Attributes }

// QualifiedName returns "Owner.Name" for a member, or just the name when the
// member has no owner.
func QualifiedName(m Member) string {
	if m == nil {
		return "<nil>"
	}
	if owner := m.MemberOwner(); owner != nil {
		return owner.Name + "." + m.MemberName()
	}
	return m.MemberName()
}

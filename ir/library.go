package ir

import (
	"fmt"
	"math"

	"github.com/gogpu/fragc/syntax"
)

// Library owns the IR produced for one host library and the resolver tables
// registered against it.
type Library struct {
	Name         string
	Source       *syntax.Library
	Dependencies *Module

	// Translated is set once translation succeeded. A translated library is
	// read-only and may be shared by concurrent translations.
	Translated bool

	// Arenas, in creation order.
	Types         []*Type
	Functions     []*Function
	Constants     []*Op
	SpecConstants []*Op
	Globals       []*GlobalVariable
	EntryPoints   []*EntryPoint
	Literals      []*Literal

	// StageRequirements caches the non-empty stage requirements computed
	// for this library's symbols.
	StageRequirements map[syntax.Member]*StageRequirementsData

	typesByName   map[string]*Type
	typesBySymbol map[*syntax.BoundType]*Type
	functions     map[*syntax.Function]*Function
	signatures    signatureRegistry
	pointers      map[pointerKey]*Type
	constants     map[constantKey]*Op
	literals      map[any]*Literal
	globals       map[syntax.Member]*GlobalVariable
	globalsByName map[string]*GlobalVariable
	enumConstants map[*syntax.GetterSetter]*Op
	specConstants map[syntax.Member]*Op

	typeResolvers map[*syntax.BoundType]*TypeResolvers
	binary        map[BinaryKey]BinaryResolver
	unary         map[UnaryKey]UnaryResolver
	casts         map[CastKey]CastResolver
	templates     map[string]TemplateResolver

	typeDependents map[*Type]map[*Type]struct{}
}

type pointerKey struct {
	value *Type
	class StorageClass
	iface bool
}

type constantKey struct {
	t     *Type
	value any
}

type (
	float32Bits uint32
	float64Bits uint64
)

// valueKey maps floats to their bit patterns so that -0.0 stays distinct
// from 0.0 and NaN finds itself.
func valueKey(v any) any {
	switch f := v.(type) {
	case float32:
		return float32Bits(math.Float32bits(f))
	case float64:
		return float64Bits(math.Float64bits(f))
	}
	return v
}

// NewLibrary creates an empty library depending on deps (which may be nil).
func NewLibrary(name string, source *syntax.Library, deps *Module) *Library {
	return &Library{
		Name:              name,
		Source:            source,
		Dependencies:      deps,
		StageRequirements: make(map[syntax.Member]*StageRequirementsData),
		typesByName:       make(map[string]*Type),
		typesBySymbol:     make(map[*syntax.BoundType]*Type),
		functions:         make(map[*syntax.Function]*Function),
		pointers:          make(map[pointerKey]*Type),
		constants:         make(map[constantKey]*Op),
		literals:          make(map[any]*Literal),
		globals:           make(map[syntax.Member]*GlobalVariable),
		globalsByName:     make(map[string]*GlobalVariable),
		enumConstants:     make(map[*syntax.GetterSetter]*Op),
		specConstants:     make(map[syntax.Member]*Op),
		typeResolvers:     make(map[*syntax.BoundType]*TypeResolvers),
		binary:            make(map[BinaryKey]BinaryResolver),
		unary:             make(map[UnaryKey]UnaryResolver),
		casts:             make(map[CastKey]CastResolver),
		templates:         make(map[string]TemplateResolver),
		typeDependents:    make(map[*Type]map[*Type]struct{}),
	}
}

// find runs local against l and then, in order, against every dependency
// library (and theirs). The first hit wins.
func find[T any](l *Library, local func(*Library) (T, bool)) (T, bool) {
	if v, ok := local(l); ok {
		return v, true
	}
	if l.Dependencies != nil {
		for _, dep := range l.Dependencies.Libraries {
			if v, ok := find(dep, local); ok {
				return v, true
			}
		}
	}
	var zero T
	return zero, false
}

// ----------------------------------------------------------------------------
// Types
// ----------------------------------------------------------------------------

// NewType creates a type owned by l. Value types other than Void also get
// their Function storage class pointer type. If source is non-nil the type is
// mapped to it.
func (l *Library) NewType(name string, base BaseKind, source *syntax.BoundType) *Type {
	t := l.addType(&Type{Name: name, Base: base, Source: source})
	if source != nil {
		if _, mapped := l.typesBySymbol[source]; !mapped {
			l.typesBySymbol[source] = t
		}
	}
	if base != BaseFunction && base != BasePointer && base != BaseVoid {
		l.PointerType(t, StorageFunction)
	}
	return t
}

func (l *Library) addType(t *Type) *Type {
	t.Library = l
	l.Types = append(l.Types, t)
	if _, exists := l.typesByName[t.Name]; !exists {
		l.typesByName[t.Name] = t
	}
	return t
}

// MapType makes symbol resolve to t in l, e.g. an enum to the integer type.
func (l *Library) MapType(symbol *syntax.BoundType, t *Type) {
	l.typesBySymbol[symbol] = t
}

// FindType returns the IR type for symbol, searching dependencies.
func (l *Library) FindType(symbol *syntax.BoundType) *Type {
	t, _ := find(l, func(lib *Library) (*Type, bool) {
		t, ok := lib.typesBySymbol[symbol]
		return t, ok
	})
	return t
}

// FindTypeByName returns the first type with the given name.
func (l *Library) FindTypeByName(name string) *Type {
	t, _ := find(l, func(lib *Library) (*Type, bool) {
		t, ok := lib.typesByName[name]
		return t, ok
	})
	return t
}

// PointerType returns the pointer to t in storage class sc, creating it in l
// if it does not exist anywhere in the module. Exactly one pointer type
// exists per (value type, storage class).
func (l *Library) PointerType(t *Type, sc StorageClass) *Type {
	if p := t.pointers[sc]; p != nil {
		return p
	}
	key := pointerKey{value: t, class: sc}
	if p, ok := find(l, func(lib *Library) (*Type, bool) {
		p, ok := lib.pointers[key]
		return p, ok
	}); ok {
		return p
	}

	name := t.Name + "_ptr"
	if sc != StorageFunction {
		name += "_" + sc.String()
	}
	p := l.addType(&Type{
		Name:         name,
		Base:         BasePointer,
		StorageClass: sc,
		Deref:        t,
		Source:       t.Source,
		Params:       []Node{t},
	})
	if t.Library == l {
		if t.pointers == nil {
			t.pointers = make(map[StorageClass]*Type, 2)
		}
		t.pointers[sc] = p
	} else {
		l.pointers[key] = p
	}
	l.AddTypeDependent(t, p)
	return p
}

// InterfacePointerType returns a pointer type used only by entry-point
// interface variables. It is distinct from PointerType(t, sc).
func (l *Library) InterfacePointerType(t *Type, sc StorageClass) *Type {
	key := pointerKey{value: t, class: sc, iface: true}
	if p, ok := find(l, func(lib *Library) (*Type, bool) {
		p, ok := lib.pointers[key]
		return p, ok
	}); ok {
		return p
	}
	p := l.addType(&Type{
		Name:         t.Name + "_ptr_" + sc.String() + "_Interface",
		Base:         BasePointer,
		StorageClass: sc,
		Deref:        t,
		Interface:    true,
		Source:       t.Source,
		Params:       []Node{t},
	})
	l.pointers[key] = p
	l.AddTypeDependent(t, p)
	return p
}

// FunctionType returns the deduplicated function type for the signature.
func (l *Library) FunctionType(ret *Type, params []*Type) *Type {
	key := signatureKey(ret, params)
	if t, ok := find(l, func(lib *Library) (*Type, bool) {
		t := lib.signatures.lookup(key)
		return t, t != nil
	}); ok {
		return t
	}
	t := &Type{Name: signatureName(ret, params), Base: BaseFunction}
	t.Params = append(t.Params, ret)
	for _, p := range params {
		t.Params = append(t.Params, p)
	}
	l.addType(t)
	l.signatures.add(key, t)
	return t
}

// ----------------------------------------------------------------------------
// Functions
// ----------------------------------------------------------------------------

// NewFunction creates a function owned by l, mapped to source if non-nil.
func (l *Library) NewFunction(name string, typ *Type, source *syntax.Function) *Function {
	f := &Function{Name: name, Type: typ, Source: source, Library: l}
	l.Functions = append(l.Functions, f)
	if source != nil {
		l.functions[source] = f
	}
	return f
}

// FindFunction returns the IR function for symbol, searching dependencies.
func (l *Library) FindFunction(symbol *syntax.Function) *Function {
	f, _ := find(l, func(lib *Library) (*Function, bool) {
		f, ok := lib.functions[symbol]
		return f, ok
	})
	return f
}

// AddEntryPoint records an entry point.
func (l *Library) AddEntryPoint(ep *EntryPoint) {
	l.EntryPoints = append(l.EntryPoints, ep)
}

// ----------------------------------------------------------------------------
// Constants
// ----------------------------------------------------------------------------

// Literal returns the interned literal for v.
func (l *Library) Literal(v any) *Literal {
	if lit, ok := find(l, func(lib *Library) (*Literal, bool) {
		lit, ok := lib.literals[valueKey(v)]
		return lit, ok
	}); ok {
		return lit
	}
	lit := &Literal{Value: v}
	l.literals[valueKey(v)] = lit
	l.Literals = append(l.Literals, lit)
	return lit
}

// FindConstant returns the constant op for (t, v), searching dependencies.
func (l *Library) FindConstant(t *Type, v any) *Op {
	op, _ := find(l, func(lib *Library) (*Op, bool) {
		op, ok := lib.constants[constantKey{t, valueKey(v)}]
		return op, ok
	})
	return op
}

// AddConstant records op as the constant for (t, v).
func (l *Library) AddConstant(t *Type, v any, op *Op) {
	key := constantKey{t, valueKey(v)}
	if _, dup := l.constants[key]; dup {
		panic(fmt.Sprintf("ir: constant %v of type %s added twice", v, t.Name))
	}
	l.constants[key] = op
	l.Constants = append(l.Constants, op)
}

// AddSpecConstant appends a specialization constant. Only top-level
// constants have a key; sub-constants of composites pass nil.
func (l *Library) AddSpecConstant(op *Op, key syntax.Member) {
	l.SpecConstants = append(l.SpecConstants, op)
	if key != nil {
		l.specConstants[key] = op
	}
}

// FindSpecConstant returns the specialization constant declared for key.
func (l *Library) FindSpecConstant(key syntax.Member) *Op {
	op, _ := find(l, func(lib *Library) (*Op, bool) {
		op, ok := lib.specConstants[key]
		return op, ok
	})
	return op
}

// AddEnumConstant maps an enum value property to its constant.
func (l *Library) AddEnumConstant(value *syntax.GetterSetter, op *Op) {
	l.enumConstants[value] = op
}

// FindEnumConstant returns the constant for an enum value property.
func (l *Library) FindEnumConstant(value *syntax.GetterSetter) *Op {
	op, _ := find(l, func(lib *Library) (*Op, bool) {
		op, ok := lib.enumConstants[value]
		return op, ok
	})
	return op
}

// ----------------------------------------------------------------------------
// Globals
// ----------------------------------------------------------------------------

// AddGlobal records a global variable for its source member.
func (l *Library) AddGlobal(g *GlobalVariable) {
	l.Globals = append(l.Globals, g)
	if g.Source != nil {
		l.globals[g.Source] = g
	}
	if g.Instance != nil && g.Instance.Debug.Name != "" {
		l.globalsByName[g.Instance.Debug.Name] = g
	}
}

// FindGlobal returns the global declared for member.
func (l *Library) FindGlobal(member syntax.Member) *GlobalVariable {
	g, _ := find(l, func(lib *Library) (*GlobalVariable, bool) {
		g, ok := lib.globals[member]
		return g, ok
	})
	return g
}

// FindGlobalByName returns the global with the given variable name.
func (l *Library) FindGlobalByName(name string) *GlobalVariable {
	g, _ := find(l, func(lib *Library) (*GlobalVariable, bool) {
		g, ok := lib.globalsByName[name]
		return g, ok
	})
	return g
}

// ----------------------------------------------------------------------------
// Resolvers
// ----------------------------------------------------------------------------

// TypeResolvers returns l's resolver table for symbol, creating it. Use it
// to register resolvers; use FindTypeResolvers to look them up.
func (l *Library) TypeResolvers(symbol *syntax.BoundType) *TypeResolvers {
	r := l.typeResolvers[symbol]
	if r == nil {
		r = &TypeResolvers{}
		l.typeResolvers[symbol] = r
	}
	return r
}

// FindTypeResolvers returns the resolver table for symbol, searching
// dependencies, or nil.
func (l *Library) FindTypeResolvers(symbol *syntax.BoundType) *TypeResolvers {
	r, _ := find(l, func(lib *Library) (*TypeResolvers, bool) {
		r, ok := lib.typeResolvers[symbol]
		return r, ok
	})
	return r
}

// RegisterBinary registers a binary operator resolver.
func (l *Library) RegisterBinary(key BinaryKey, fn BinaryResolver) {
	if _, dup := l.binary[key]; dup {
		panic(fmt.Sprintf("ir: binary operator %s %s %s registered twice", key.Left, key.Op, key.Right))
	}
	l.binary[key] = fn
}

// FindBinary returns the binary operator resolver for key.
func (l *Library) FindBinary(key BinaryKey) (BinaryResolver, bool) {
	return find(l, func(lib *Library) (BinaryResolver, bool) {
		fn, ok := lib.binary[key]
		return fn, ok
	})
}

// RegisterUnary registers a unary operator resolver.
func (l *Library) RegisterUnary(key UnaryKey, fn UnaryResolver) {
	if _, dup := l.unary[key]; dup {
		panic(fmt.Sprintf("ir: unary operator %s%s registered twice", key.Op, key.Operand))
	}
	l.unary[key] = fn
}

// FindUnary returns the unary operator resolver for key.
func (l *Library) FindUnary(key UnaryKey) (UnaryResolver, bool) {
	return find(l, func(lib *Library) (UnaryResolver, bool) {
		fn, ok := lib.unary[key]
		return fn, ok
	})
}

// RegisterCast registers a cast resolver.
func (l *Library) RegisterCast(key CastKey, fn CastResolver) {
	if _, dup := l.casts[key]; dup {
		panic(fmt.Sprintf("ir: cast %s -> %s registered twice", key.From, key.To))
	}
	l.casts[key] = fn
}

// FindCast returns the cast resolver for key.
func (l *Library) FindCast(key CastKey) (CastResolver, bool) {
	return find(l, func(lib *Library) (CastResolver, bool) {
		fn, ok := lib.casts[key]
		return fn, ok
	})
}

// RegisterTemplate registers the resolver that instantiates templates with
// the given base name.
func (l *Library) RegisterTemplate(baseName string, fn TemplateResolver) {
	if _, dup := l.templates[baseName]; dup {
		panic(fmt.Sprintf("ir: template %s registered twice", baseName))
	}
	l.templates[baseName] = fn
}

// FindTemplate returns the template resolver for baseName.
func (l *Library) FindTemplate(baseName string) (TemplateResolver, bool) {
	return find(l, func(lib *Library) (TemplateResolver, bool) {
		fn, ok := lib.templates[baseName]
		return fn, ok
	})
}

// ----------------------------------------------------------------------------
// Stage requirements
// ----------------------------------------------------------------------------

// FindStageRequirements returns the cached requirements for m from l or its
// dependencies.
func (l *Library) FindStageRequirements(m syntax.Member) *StageRequirementsData {
	d, _ := find(l, func(lib *Library) (*StageRequirementsData, bool) {
		d, ok := lib.StageRequirements[m]
		return d, ok
	})
	return d
}

// RequireStage pre-seeds m as requiring stage, e.g. for an intrinsic only
// available in pixel shaders.
func (l *Library) RequireStage(m syntax.Member, stage ShaderStage) {
	d := l.StageRequirements[m]
	if d == nil {
		d = &StageRequirementsData{}
		l.StageRequirements[m] = d
	}
	d.Required |= stage
}

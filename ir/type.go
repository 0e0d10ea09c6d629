package ir

import (
	"fmt"

	"github.com/gogpu/fragc/syntax"
)

// Node is anything an Op can take as an argument: another Op, a Literal, a
// Type, a Function or a Block.
type Node interface {
	irNode()
}

// BaseKind is the fundamental kind of a Type.
type BaseKind uint8

const (
	BaseVoid BaseKind = iota
	BaseBool
	BaseInt
	BaseFloat
	BaseVector
	BaseMatrix
	BaseStruct
	BaseFunction
	BasePointer
	BaseImage
	BaseSampler
	BaseSampledImage
	BaseFixedArray
	BaseRuntimeArray
)

var baseKindNames = [...]string{
	BaseVoid:         "Void",
	BaseBool:         "Bool",
	BaseInt:          "Int",
	BaseFloat:        "Float",
	BaseVector:       "Vector",
	BaseMatrix:       "Matrix",
	BaseStruct:       "Struct",
	BaseFunction:     "Function",
	BasePointer:      "Pointer",
	BaseImage:        "Image",
	BaseSampler:      "Sampler",
	BaseSampledImage: "SampledImage",
	BaseFixedArray:   "FixedArray",
	BaseRuntimeArray: "RuntimeArray",
}

func (k BaseKind) String() string {
	if int(k) < len(baseKindNames) {
		return baseKindNames[k]
	}
	return fmt.Sprintf("BaseKind(%d)", uint8(k))
}

// Type is an IR type. Value types and pointer types are both Types; a
// pointer's Deref is its value type.
type Type struct {
	Name string
	Base BaseKind

	// Components is the vector size or matrix column count. Component is
	// the element type of vectors, matrices and arrays.
	Components int
	Component  *Type

	// Params holds sub-nodes: struct member types, the array length
	// constant, image parameters, and for function types the return type
	// followed by the parameter types.
	Params []Node

	// StorageClass and Deref are only meaningful for pointers.
	StorageClass StorageClass
	Deref        *Type

	// Interface marks pointer types made for entry-point interface
	// variables. They are never linked from their value type.
	Interface bool

	Library *Library
	Source  *syntax.BoundType
	Meta    *TypeMeta

	// Payload carries template-specific data, e.g. geometry stream info.
	Payload TemplatePayload

	AutoDefaultConstructor *Function
	HasMainFunction        bool

	memberNames []string
	members     map[string]int
	pointers    map[StorageClass]*Type
}

func (*Type) irNode() {}

// IsPointer reports whether t is a pointer type.
func (t *Type) IsPointer() bool {
	return t.Base == BasePointer
}

// ValueType returns the dereferenced type of a pointer, or t itself.
func (t *Type) ValueType() *Type {
	if t.IsPointer() {
		return t.Deref
	}
	return t
}

// Pointer returns the Function storage class pointer made alongside t.
func (t *Type) Pointer() *Type {
	return t.pointers[StorageFunction]
}

// PointerIn returns the pointer to t in the given storage class, or nil if
// none has been created in t's own library.
func (t *Type) PointerIn(sc StorageClass) *Type {
	return t.pointers[sc]
}

// AddMember appends a struct member. It records t as a dependent of the
// member type.
func (t *Type) AddMember(name string, member *Type) int {
	if t.members == nil {
		t.members = make(map[string]int)
	}
	index := len(t.Params)
	t.Params = append(t.Params, member)
	t.memberNames = append(t.memberNames, name)
	t.members[name] = index
	if t.Library != nil {
		t.Library.AddTypeDependent(member, t)
	}
	return index
}

// MemberIndex returns the index of the named struct member.
func (t *Type) MemberIndex(name string) (int, bool) {
	i, ok := t.members[name]
	return i, ok
}

// MemberNames returns the struct member names in declaration order.
func (t *Type) MemberNames() []string {
	return t.memberNames
}

// MemberType returns the type of the i'th sub-type parameter.
func (t *Type) MemberType(i int) *Type {
	if i < 0 || i >= len(t.Params) {
		return nil
	}
	mt, _ := t.Params[i].(*Type)
	return mt
}

// ReturnType returns the return type of a function type.
func (t *Type) ReturnType() *Type {
	return t.MemberType(0)
}

// HasAttribute reports whether the type's metadata carries the attribute.
func (t *Type) HasAttribute(name string) bool {
	return t.Meta != nil && t.Meta.Attributes.Has(name)
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// TemplatePayload is data attached to a template instantiation. The set of
// payloads is closed: StreamPayload and ArrayPayload.
type TemplatePayload interface {
	templatePayload()
}

// StreamPayload describes a geometry shader stream type.
type StreamPayload struct {
	Input     bool
	Primitive string // "Point", "Line" or "Triangle"
	Vertices  int    // vertices per primitive
	Element   *Type

	// Outputs are the Output interface variables Append writes: one per
	// member of a struct element, otherwise one for the whole element.
	Outputs []*Op
}

func (*StreamPayload) templatePayload() {}

// ArrayPayload describes a fixed or runtime array instantiation.
type ArrayPayload struct {
	Element *Type
	Length  int // 0 for runtime arrays
}

func (*ArrayPayload) templatePayload() {}

// Literal is an interned raw value. Value is one of bool, int32, uint32,
// float32 or string.
type Literal struct {
	Value any
}

func (*Literal) irNode() {}

func (l *Literal) String() string {
	if s, ok := l.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(l.Value)
}

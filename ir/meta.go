package ir

import "github.com/gogpu/fragc/syntax"

// FragmentType is the pipeline stage a fragment type is written for.
type FragmentType uint8

const (
	FragmentNone FragmentType = iota
	FragmentVertex
	FragmentPixel
	FragmentGeometry
	FragmentCompute
)

var fragmentTypeNames = [...]string{
	FragmentNone:     "None",
	FragmentVertex:   "Vertex",
	FragmentPixel:    "Pixel",
	FragmentGeometry: "Geometry",
	FragmentCompute:  "Compute",
}

func (f FragmentType) String() string {
	if int(f) < len(fragmentTypeNames) {
		return fragmentTypeNames[f]
	}
	return "Unknown"
}

// Stage returns the shader stage flag for f.
func (f FragmentType) Stage() ShaderStage {
	switch f {
	case FragmentVertex:
		return StageVertex
	case FragmentPixel:
		return StagePixel
	case FragmentGeometry:
		return StageGeometry
	case FragmentCompute:
		return StageCompute
	}
	return StageNone
}

// TypeMeta is reflection metadata for a user struct.
type TypeMeta struct {
	Name       string
	Source     *syntax.BoundType
	Attributes syntax.Attributes
	Fragment   FragmentType
	Fields     []*FieldMeta

	// LocalSize is the compute workgroup size; MaxVertices the geometry
	// output vertex count. Both are zero for other fragment types.
	LocalSize   [3]int
	MaxVertices int
}

// FindField returns the field meta with the given name.
func (m *TypeMeta) FindField(name string) *FieldMeta {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FieldMeta describes one member variable of a struct.
type FieldMeta struct {
	Name       string
	Type       *syntax.BoundType
	Source     syntax.Member
	Attributes syntax.Attributes
	Owner      *TypeMeta
}

// FunctionMeta describes a translated function.
type FunctionMeta struct {
	Name       string
	Source     *syntax.Function
	Attributes syntax.Attributes
}

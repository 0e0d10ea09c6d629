package ir

import (
	"strings"

	"github.com/gogpu/fragc/syntax"
)

// ShaderStage is a set of pipeline stages.
type ShaderStage uint8

const (
	StageVertex ShaderStage = 1 << iota
	StagePixel
	StageGeometry
	StageCompute

	StageNone ShaderStage = 0
)

func (s ShaderStage) String() string {
	if s == StageNone {
		return "None"
	}
	var names []string
	for _, st := range []struct {
		flag ShaderStage
		name string
	}{
		{StageVertex, "Vertex"},
		{StagePixel, "Pixel"},
		{StageGeometry, "Geometry"},
		{StageCompute, "Compute"},
	} {
		if s&st.flag != 0 {
			names = append(names, st.name)
		}
	}
	return strings.Join(names, "|")
}

// StageRequirementsData records the stages a symbol requires and the first
// dependency that introduced the requirement.
type StageRequirementsData struct {
	Required     ShaderStage
	Dependency   syntax.Member
	CallLocation syntax.Span
}

// Combine ORs required into d. Only the first dependency with a non-empty
// requirement is recorded.
func (d *StageRequirementsData) Combine(dependency syntax.Member, location syntax.Span, required ShaderStage) {
	if required == StageNone {
		return
	}
	if d.Dependency == nil {
		d.Dependency = dependency
		d.CallLocation = location
	}
	d.Required |= required
}

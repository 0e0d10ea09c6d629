package frontend

import (
	"strings"

	"github.com/gogpu/fragc/config"
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// validateAttributes checks attrs against the rules allowed on one kind of
// symbol ("types", "functions" or "fields").
func (tr *Translator) validateAttributes(attrs syntax.Attributes, rules map[string]*config.AttributeRule, kind string) {
	var stages []*syntax.Attribute
	for i := range attrs {
		attr := &attrs[i]
		rule, ok := rules[attr.Name]
		if !ok {
			tr.Errorf(attr.Span, "Attribute '%s' is not allowed on %s", attr.Name, kind)
			continue
		}
		if rule.Stage {
			stages = append(stages, attr)
		}
		switch {
		case rule.NoParams:
			if len(attr.Params) != 0 {
				tr.Errorf(attr.Span, "Invalid parameter count. Attribute '%s' doesn't allow any parameters", attr.Name)
			}
		case rule.Param != nil:
			tr.validateSingleParam(attr, rule.Param)
		case rule.Params != nil:
			for _, p := range attr.Params {
				if !contains(rule.Params, p.Name) {
					tr.Errorf(p.Span, "Attribute parameter '%s' is invalid.", p.Name)
				}
			}
		}
		if missing := missingFrom(attrs, rule.Requires); len(missing) > 0 {
			tr.Errorf(attr.Span, "Attribute '%s' requires attribute(s): %s", attr.Name, strings.Join(missing, ", "))
		}
		if found := presentIn(attrs, rule.Excludes); len(found) > 0 {
			tr.Errorf(attr.Span, "Attribute '%s' cannot be combined with attribute(s): %s", attr.Name, strings.Join(found, ", "))
		}
	}
	if len(stages) > 1 {
		tr.Errorf(stages[1].Span, "Attribute '%s' cannot be combined with attribute '%s'", stages[1].Name, stages[0].Name)
	}
}

func (tr *Translator) validateSingleParam(attr *syntax.Attribute, rule *config.ParamRule) {
	name := rule.Name
	if name == "" {
		name = "value"
	}
	switch {
	case len(attr.Params) == 0:
		tr.Errorf(attr.Span, "Not enough parameters to attribute '%s'. Signature must be '%s : %s'", attr.Name, name, rule.Kind)
	case len(attr.Params) > 1:
		tr.Errorf(attr.Span, "Too many parameters to attribute '%s'. Signature must be '%s : %s'", attr.Name, name, rule.Kind)
	case attr.Params[0].Kind != rule.Kind:
		tr.Errorf(attr.Span, "Invalid parameter type '%s' to attribute '%s'. Signature must be '%s : %s'",
			attr.Params[0].Kind, attr.Name, name, rule.Kind)
	case attr.Params[0].Name != "" && attr.Params[0].Name != rule.Name:
		tr.Errorf(attr.Span, "Invalid parameter name '%s' to attribute '%s'. Signature must be '%s : %s'",
			attr.Params[0].Name, attr.Name, name, rule.Kind)
	}
}

// fragmentType returns the fragment tag of a type. When several are present
// (already an error) Pixel wins over Vertex, Geometry and Compute.
func (tr *Translator) fragmentType(attrs syntax.Attributes) ir.FragmentType {
	n := &tr.settings.Names
	switch {
	case attrs.Has(n.PixelAttribute):
		return ir.FragmentPixel
	case attrs.Has(n.VertexAttribute):
		return ir.FragmentVertex
	case attrs.Has(n.GeometryAttribute):
		return ir.FragmentGeometry
	case attrs.Has(n.ComputeAttribute):
		return ir.FragmentCompute
	}
	return ir.FragmentNone
}

// parseStageParams fills the compute local size and geometry max vertex
// count from the type's stage attribute.
func (tr *Translator) parseStageParams(meta *ir.TypeMeta) {
	n := &tr.settings.Names
	switch meta.Fragment {
	case ir.FragmentCompute:
		meta.LocalSize = [3]int{1, 1, 1}
		attr := meta.Attributes.Find(n.ComputeAttribute)
		limits := []struct {
			name string
			max  int
		}{
			{n.LocalSizeXParam, config.MaxLocalSizeX},
			{n.LocalSizeYParam, config.MaxLocalSizeY},
			{n.LocalSizeZParam, config.MaxLocalSizeZ},
		}
		for i, l := range limits {
			p := attr.Param(l.name)
			if p == nil {
				continue
			}
			if p.Kind != syntax.ParamInteger || p.Int <= 0 || p.Int > l.max {
				tr.Errorf(p.Span, "Parameter '%s' must be in the range of [1, %d].", p.Name, l.max)
				continue
			}
			meta.LocalSize[i] = p.Int
		}
	case ir.FragmentGeometry:
		attr := meta.Attributes.Find(n.GeometryAttribute)
		if p := attr.Param(n.MaxVerticesParam); p != nil {
			if p.Kind != syntax.ParamInteger || p.Int <= 0 {
				tr.Errorf(p.Span, "Parameter '%s' must be a positive integer.", p.Name)
			} else {
				meta.MaxVertices = p.Int
			}
		}
	}
}

// expandAttributes appends the implied sub-attributes of every family
// attribute, e.g. Input implies FragmentInput and StageInput.
func (tr *Translator) expandAttributes(attrs syntax.Attributes) syntax.Attributes {
	out := make(syntax.Attributes, 0, len(attrs))
	for _, attr := range attrs {
		for _, name := range tr.settings.Expand(attr.Name) {
			if name == attr.Name || !attrs.Has(name) && !out.Has(name) {
				implied := attr
				implied.Name = name
				out = append(out, implied)
			}
		}
	}
	return out
}

func missingFrom(attrs syntax.Attributes, names []string) []string {
	var out []string
	for _, name := range names {
		if !attrs.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

func presentIn(attrs syntax.Attributes, names []string) []string {
	var out []string
	for _, name := range names {
		if attrs.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

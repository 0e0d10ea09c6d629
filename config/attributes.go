package config

import "github.com/gogpu/fragc/syntax"

// AttributeRule describes how an attribute may be used on one symbol kind.
type AttributeRule struct {
	// Param, if set, requires exactly one parameter of the given kind.
	Param *ParamRule

	// NoParams rejects any parameter.
	NoParams bool

	// Params lists the named parameters accepted (all optional). Used by the
	// stage attributes, whose values are validated by the translator.
	Params []string

	// Requires lists attributes that must also be present.
	Requires []string

	// Excludes lists attributes that may not be present alongside.
	Excludes []string

	// Stage marks fragment-type attributes, at most one of which is allowed.
	Stage bool
}

// Finalize rebuilds the allowed-attribute tables from the name settings. It
// must be called after names change.
func (s *Settings) Finalize() {
	n := &s.Names
	s.TypeAttributes = map[string]*AttributeRule{
		n.VertexAttribute:      {Stage: true, NoParams: true},
		n.PixelAttribute:       {Stage: true, NoParams: true},
		n.GeometryAttribute:    {Stage: true, Params: []string{n.MaxVerticesParam}},
		n.ComputeAttribute:     {Stage: true, Params: []string{n.LocalSizeXParam, n.LocalSizeYParam, n.LocalSizeZParam}},
		n.NonCopyableAttribute: {NoParams: true},
	}
	s.FunctionAttributes = map[string]*AttributeRule{
		n.StaticAttribute:     {NoParams: true},
		n.EntryPointAttribute: {NoParams: true},
	}
	s.FieldAttributes = map[string]*AttributeRule{
		n.StaticAttribute: {NoParams: true},
		n.SpecializationConstantAttribute: {
			NoParams: true,
			Requires: []string{n.StaticAttribute},
		},
		n.StorageClassAttribute: {
			Param:    &ParamRule{Kind: syntax.ParamString},
			Excludes: []string{n.SpecializationConstantAttribute},
		},
	}
	for _, stage := range s.StageAttributes() {
		req := &AttributeRule{NoParams: true}
		s.TypeAttributes[s.RequiresAttribute(stage)] = req
		s.FunctionAttributes[s.RequiresAttribute(stage)] = req
	}
	for _, name := range append(append([]string(nil), n.InputAttributes...), n.OutputAttributes...) {
		s.FieldAttributes[name] = &AttributeRule{
			Excludes: []string{n.StaticAttribute, n.SpecializationConstantAttribute},
		}
	}
}

// Expand returns name followed by the attributes it implies.
func (s *Settings) Expand(name string) []string {
	return append([]string{name}, s.Names.Implied[name]...)
}

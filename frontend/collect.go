package frontend

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// collect declares a struct type for every class and maps enums to Int.
func (tr *Translator) collect() {
	for _, c := range tr.tree.Classes {
		tr.collectClass(c)
	}
	intType := tr.intType()
	for _, e := range tr.tree.Enums {
		tr.lib.MapType(e.Type, intType)
		for _, v := range e.Values {
			if v.Property != nil {
				tr.lib.AddEnumConstant(v.Property, tr.IntConstant(int32(v.Value)))
			}
		}
	}
}

func (tr *Translator) collectClass(c *syntax.ClassNode) {
	if c.Type.CopyMode == syntax.ReferenceType {
		tr.Errorf(c.Span, "Cannot declare class types in fragments. Use struct instead.")
	}
	if base := c.Type.Base; base != nil {
		tr.report(c.Span, "Inheritance is not supported in fragments.",
			"Type '"+c.Name+"' inherits from type '"+base.Name+"' which is not supported.")
	}
	tr.validateAttributes(c.Attributes, tr.settings.TypeAttributes, "types")

	t := tr.lib.NewType(c.Name, ir.BaseStruct, c.Type)
	t.Meta = &ir.TypeMeta{
		Name:       c.Name,
		Source:     c.Type,
		Attributes: c.Attributes,
		Fragment:   tr.fragmentType(c.Attributes),
	}
	tr.parseStageParams(t.Meta)
	tr.classes[c.Type] = c
}

// instantiateTemplates creates IR types for every template instantiation
// the tree references.
func (tr *Translator) instantiateTemplates() {
	for _, t := range tr.tree.Types {
		if !t.IsTemplate() || tr.lib.FindType(t) != nil {
			continue
		}
		tr.instantiate(t)
	}
}

// instantiate runs the template resolver for t, if one is registered.
func (tr *Translator) instantiate(t *syntax.BoundType) *ir.Type {
	resolve, ok := tr.lib.FindTemplate(t.TemplateBaseName)
	if !ok {
		return nil
	}
	return resolve(tr, t)
}

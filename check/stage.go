package check

import (
	"fmt"

	"github.com/gogpu/fragc/config"
	"github.com/gogpu/fragc/diag"
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// stageOrder lists the stages in the order of config.Settings.StageAttributes.
var stageOrder = [...]ir.ShaderStage{ir.StageVertex, ir.StagePixel, ir.StageGeometry, ir.StageCompute}

// stageGatherer computes the stages every symbol in a tree requires.
type stageGatherer struct {
	graph     *graph
	lib       *ir.Library
	settings  *config.Settings
	sink      diag.Sink
	processed map[syntax.Member]bool
	failed    bool
}

// StageRequirements computes, for every symbol declared in tree, the shader
// stages its code requires through the symbols it reaches. Non-empty results
// are cached in lib.StageRequirements. A symbol whose own stage (its
// fragment type or a Requires attribute on it or its owner) differs from
// what it requires is reported to sink with the chain of call sites leading
// to the requirement. It reports whether any error was found.
func StageRequirements(tree *syntax.Tree, lib *ir.Library, settings *config.Settings, sink diag.Sink) bool {
	g := &stageGatherer{
		graph:     buildGraph(tree),
		lib:       lib,
		settings:  settings,
		sink:      sink,
		processed: make(map[syntax.Member]bool),
	}
	for _, s := range g.graph.order {
		g.visit(s)
	}
	return g.failed
}

func (g *stageGatherer) visit(s *symbol) {
	if g.processed[s.member] {
		return
	}
	g.processed[s.member] = true

	req := &ir.StageRequirementsData{}
	for _, e := range s.edges {
		if target := g.graph.nodes[e.target]; target != nil {
			g.visit(target)
		}
		if d := g.lib.FindStageRequirements(e.target); d != nil {
			req.Combine(e.target, e.site, d.Required)
		}
	}
	req.Required |= g.requiresAttributes(s.member.MemberAttributes())

	if req.Required != ir.StageNone {
		g.lib.StageRequirements[s.member] = req
	}
	g.check(s, req.Required)
}

// requiresAttributes returns the stages named by Requires<Stage> attributes.
func (g *stageGatherer) requiresAttributes(attrs syntax.Attributes) ir.ShaderStage {
	var out ir.ShaderStage
	for i, name := range g.settings.StageAttributes() {
		if attrs.Has(g.settings.RequiresAttribute(name)) {
			out |= stageOrder[i]
		}
	}
	return out
}

// specifiedStage returns the stage a symbol is declared for: a stage or
// Requires attribute on the symbol or on its owner. The last matching stage
// in stage order wins.
func (g *stageGatherer) specifiedStage(m syntax.Member) ir.ShaderStage {
	var ownerAttrs syntax.Attributes
	if owner := m.MemberOwner(); owner != nil {
		ownerAttrs = owner.Attributes
	}
	attrs := m.MemberAttributes()
	stage := ir.StageNone
	for i, name := range g.settings.StageAttributes() {
		requires := g.settings.RequiresAttribute(name)
		if attrs.Has(name) || ownerAttrs.Has(name) || attrs.Has(requires) || ownerAttrs.Has(requires) {
			stage = stageOrder[i]
		}
	}
	return stage
}

// stageName returns the attribute name of the first stage set in s.
func (g *stageGatherer) stageName(s ir.ShaderStage) string {
	for i, name := range g.settings.StageAttributes() {
		if s&stageOrder[i] != 0 {
			return name
		}
	}
	return ""
}

func (g *stageGatherer) check(s *symbol, required ir.ShaderStage) {
	if required == ir.StageNone {
		return
	}
	specified := g.specifiedStage(s.member)
	if specified == ir.StageNone || required^specified == 0 {
		return
	}

	var stack []syntax.Span
	source := s.member
	for cur := s.member; cur != nil; {
		d := g.lib.FindStageRequirements(cur)
		if d == nil || d.Dependency == nil {
			break
		}
		stack = append(stack, d.CallLocation)
		source = d.Dependency
		cur = d.Dependency
	}

	g.failed = true
	g.sink.Report(&diag.Error{
		Span:  s.span,
		Short: "Invalid shader stage combination",
		Full: fmt.Sprintf("'%s' requires shader stage %s but references '%s' which requires stage %s",
			syntax.QualifiedName(s.member), g.stageName(specified),
			syntax.QualifiedName(source), g.stageName(required)),
		CallStack: stack,
	})
}

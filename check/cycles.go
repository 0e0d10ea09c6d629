package check

import (
	"strings"

	"github.com/gogpu/fragc/diag"
	"github.com/gogpu/fragc/syntax"
)

// frame is one entry of the walk's call stack.
type frame struct {
	member syntax.Member
	site   syntax.Span
}

type cycleDetector struct {
	graph   *graph
	sink    diag.Sink
	done    map[syntax.Member]bool
	onStack map[syntax.Member]int
	stack   []frame
	failed  bool
}

// Cycles reports every recursive cycle in the static call graph of tree.
// Each cycle is reported once, with a call stack running from the first
// occurrence of the repeated symbol to the call that repeats it. It reports
// whether any cycle was found. Symbols from dependency libraries are leaves:
// a translated library never calls back into its dependents.
func Cycles(tree *syntax.Tree, sink diag.Sink) bool {
	c := &cycleDetector{
		graph:   buildGraph(tree),
		sink:    sink,
		done:    make(map[syntax.Member]bool),
		onStack: make(map[syntax.Member]int),
	}
	for _, s := range c.graph.order {
		c.visit(s.member, s.span)
	}
	return c.failed
}

func (c *cycleDetector) visit(m syntax.Member, site syntax.Span) {
	if i, ok := c.onStack[m]; ok {
		c.report(append(c.stack[i:len(c.stack):len(c.stack)], frame{member: m, site: site}))
		return
	}
	if c.done[m] {
		return
	}
	s := c.graph.nodes[m]
	if s == nil {
		return
	}
	c.done[m] = true

	c.onStack[m] = len(c.stack)
	c.stack = append(c.stack, frame{member: m, site: site})
	for _, e := range s.edges {
		c.visit(e.target, e.site)
	}
	c.stack = c.stack[:len(c.stack)-1]
	delete(c.onStack, m)
}

func (c *cycleDetector) report(cycle []frame) {
	names := make([]string, len(cycle))
	stack := make([]syntax.Span, len(cycle))
	for i, f := range cycle {
		names[i] = "'" + syntax.QualifiedName(f.member) + "'"
		stack[i] = f.site
	}
	c.failed = true
	c.sink.Report(&diag.Error{
		Span:      stack[0],
		Short:     "Recursion is not allowed in shaders",
		Full:      "Object calls itself via the stack: " + strings.Join(names, " -> "),
		CallStack: stack,
	})
}

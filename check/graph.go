// Package check runs whole-program checks over a translated library: shader
// stage requirements and call graph recursion.
//
// Both passes work on the static call graph of the syntax tree. Nodes are
// the symbols that own code: functions, constructors, getters and setters,
// pre-constructors and member variables with initializers. Edges are the
// references made from that code, each remembering the location of the
// referencing expression.
package check

import "github.com/gogpu/fragc/syntax"

// edge is a reference from one symbol's code to another symbol.
type edge struct {
	target syntax.Member
	site   syntax.Span
}

// symbol is a graph node.
type symbol struct {
	member syntax.Member
	span   syntax.Span
	edges  []edge

	// inits guards initializer lists, whose statements refer back to the
	// list expression itself.
	inits map[*syntax.InitializerExpr]bool
}

// graph is the static call graph of one syntax tree. Symbols declared in
// other libraries have no node; references to them are leaf edges.
type graph struct {
	nodes map[syntax.Member]*symbol
	order []*symbol
}

func buildGraph(tree *syntax.Tree) *graph {
	g := &graph{nodes: make(map[syntax.Member]*symbol)}
	for _, c := range tree.Classes {
		g.addClass(c)
	}
	return g
}

func (g *graph) addClass(c *syntax.ClassNode) {
	var instance []*syntax.MemberVariableNode
	for _, v := range c.Variables {
		if v.Property != nil {
			g.addFunction(v.Get)
			g.addFunction(v.Set)
			continue
		}
		if v.Field == nil {
			continue
		}
		s := g.add(v.Field, v.Span)
		if v.Initial != nil {
			s.expr(v.Initial)
		}
		if !v.IsStatic {
			instance = append(instance, v)
		}
	}

	if pre := c.Type.PreConstructor; pre != nil {
		s := g.add(pre, c.Span)
		for _, v := range instance {
			s.link(v.Field, v.Span)
		}
	}
	for _, ctor := range c.Constructors {
		s := g.addFunction(ctor)
		if s != nil && c.Type.PreConstructor != nil {
			s.link(c.Type.PreConstructor, ctor.Span)
		}
	}
	for _, fn := range c.Functions {
		g.addFunction(fn)
	}
}

func (g *graph) addFunction(fn *syntax.FunctionNode) *symbol {
	if fn == nil || fn.Function == nil {
		return nil
	}
	s := g.add(fn.Function, fn.Span)
	s.stmts(fn.Body)
	return s
}

func (g *graph) add(m syntax.Member, span syntax.Span) *symbol {
	if s, ok := g.nodes[m]; ok {
		return s
	}
	s := &symbol{member: m, span: span}
	g.nodes[m] = s
	g.order = append(g.order, s)
	return s
}

func (s *symbol) link(target syntax.Member, site syntax.Span) {
	s.edges = append(s.edges, edge{target: target, site: site})
}

func (s *symbol) stmts(list []syntax.Stmt) {
	for _, st := range list {
		s.stmt(st)
	}
}

func (s *symbol) stmt(st syntax.Stmt) {
	switch st := st.(type) {
	case *syntax.ExprStmt:
		s.expr(st.X)
	case *syntax.LocalVarStmt:
		if st.Init != nil {
			s.expr(st.Init)
		} else if st.Type != nil && st.Type.PreConstructor != nil {
			s.link(st.Type.PreConstructor, st.Span)
		}
	case *syntax.IfStmt:
		for _, part := range st.Parts {
			s.expr(part.Condition)
			s.stmts(part.Body)
		}
	case *syntax.WhileStmt:
		s.expr(st.Condition)
		s.stmts(st.Body)
	case *syntax.DoWhileStmt:
		s.stmts(st.Body)
		s.expr(st.Condition)
	case *syntax.ForStmt:
		if st.Init != nil {
			s.stmt(st.Init)
		}
		s.expr(st.Condition)
		s.expr(st.Iterator)
		s.stmts(st.Body)
	case *syntax.ForEachStmt:
		s.expr(st.Range)
		s.stmts(st.Body)
	case *syntax.LoopStmt:
		s.stmts(st.Body)
	case *syntax.ReturnStmt:
		s.expr(st.Value)
	case *syntax.ScopeStmt:
		s.stmts(st.Body)
	}
}

func (s *symbol) expr(e syntax.Expr) {
	switch e := e.(type) {
	case nil:
	case *syntax.MemberAccessExpr:
		s.expr(e.Left)
		switch {
		case e.Property != nil:
			if e.Usage&syntax.IoRead != 0 && e.Property.Get != nil {
				s.link(e.Property.Get, e.Span)
			}
			if e.Usage&syntax.IoWrite != 0 && e.Property.Set != nil {
				s.link(e.Property.Set, e.Span)
			}
		case e.Function != nil:
			s.link(e.Function, e.Span)
		case e.Field != nil:
			s.link(e.Field, e.Span)
		}
	case *syntax.StaticTypeExpr:
		if e.Constructor != nil {
			s.link(e.Constructor, e.Span)
		} else if e.Referenced != nil && e.Referenced.PreConstructor != nil {
			s.link(e.Referenced.PreConstructor, e.Span)
		}
	case *syntax.CallExpr:
		s.expr(e.Callee)
		for _, a := range e.Args {
			s.expr(a)
		}
	case *syntax.BinaryExpr:
		s.expr(e.Left)
		s.expr(e.Right)
	case *syntax.UnaryExpr:
		s.expr(e.Operand)
	case *syntax.CastExpr:
		s.expr(e.Operand)
	case *syntax.InitializerExpr:
		if s.inits[e] {
			return
		}
		if s.inits == nil {
			s.inits = make(map[*syntax.InitializerExpr]bool)
		}
		s.inits[e] = true
		s.expr(e.Left)
		for _, el := range e.Elements {
			s.expr(el)
		}
		s.stmts(e.Statements)
	}
}

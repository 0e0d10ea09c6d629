package ir

import "github.com/gogpu/fragc/syntax"

// Module is an ordered list of libraries searched first-hit.
type Module struct {
	Libraries []*Library
}

// NewModule creates a module over libs.
func NewModule(libs ...*Library) *Module {
	return &Module{Libraries: libs}
}

// Add appends a library to the end of the search order.
func (m *Module) Add(lib *Library) {
	m.Libraries = append(m.Libraries, lib)
}

// FindType returns the first IR type mapped to symbol.
func (m *Module) FindType(symbol *syntax.BoundType) *Type {
	for _, lib := range m.Libraries {
		if t := lib.FindType(symbol); t != nil {
			return t
		}
	}
	return nil
}

// FindFunction returns the first IR function mapped to symbol.
func (m *Module) FindFunction(symbol *syntax.Function) *Function {
	for _, lib := range m.Libraries {
		if f := lib.FindFunction(symbol); f != nil {
			return f
		}
	}
	return nil
}

// FindTypeResolvers returns the first resolver table registered for symbol.
func (m *Module) FindTypeResolvers(symbol *syntax.BoundType) *TypeResolvers {
	for _, lib := range m.Libraries {
		if r := lib.FindTypeResolvers(symbol); r != nil {
			return r
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Type dependents
// ----------------------------------------------------------------------------

// AddTypeDependent records that dependent is built from t: a struct holding
// a t member, a template instantiated with t, or a pointer to t.
func (l *Library) AddTypeDependent(t, dependent *Type) {
	set := l.typeDependents[t]
	if set == nil {
		set = make(map[*Type]struct{})
		l.typeDependents[t] = set
	}
	set[dependent] = struct{}{}
}

// TypeDependents returns the direct dependents of t recorded in l.
func (l *Library) TypeDependents(t *Type) []*Type {
	set := l.typeDependents[t]
	out := make([]*Type, 0, len(set))
	for dep := range set {
		out = append(out, dep)
	}
	return out
}

// FlattenModuleDependents copies the dependent sets of every dependency
// library into l so that AllDependents only needs to consult l.
func (l *Library) FlattenModuleDependents() {
	if l.Dependencies == nil {
		return
	}
	seen := map[*Library]bool{l: true}
	var visit func(m *Module)
	visit = func(m *Module) {
		for _, dep := range m.Libraries {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			for t, set := range dep.typeDependents {
				for d := range set {
					l.AddTypeDependent(t, d)
				}
			}
			if dep.Dependencies != nil {
				visit(dep.Dependencies)
			}
		}
	}
	visit(l.Dependencies)
}

// AllDependents returns every type transitively built from t.
func (l *Library) AllDependents(t *Type) []*Type {
	visited := make(map[*Type]bool)
	var out []*Type
	var walk func(t *Type)
	walk = func(t *Type) {
		for d := range l.typeDependents[t] {
			if visited[d] {
				continue
			}
			visited[d] = true
			out = append(out, d)
			walk(d)
		}
	}
	walk(t)
	return out
}

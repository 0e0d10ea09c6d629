package corelib

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

func (c *Core) registerSwizzles() {
	for _, sym := range []*syntax.BoundType{c.Bool, c.Int, c.Real} {
		c.Library.TypeResolvers(sym).BackupField = scalarSwizzle
	}
	for sym, info := range c.vectors {
		r := c.Library.TypeResolvers(sym)
		r.BackupField = vectorSwizzle(info.count)
		r.BackupSetter = vectorSwizzleSetter(info.count)
	}
}

// parseSwizzle maps each character of name to a component index. Both
// XYZW and xyzw are accepted; every index must be below arity.
func parseSwizzle(name string, arity int) ([]int, bool) {
	if name == "" || len(name) > 4 {
		return nil, false
	}
	indices := make([]int, len(name))
	for i := 0; i < len(name); i++ {
		var index int
		switch name[i] {
		case 'x', 'X':
			index = 0
		case 'y', 'Y':
			index = 1
		case 'z', 'Z':
			index = 2
		case 'w', 'W':
			index = 3
		default:
			return nil, false
		}
		if index >= arity {
			return nil, false
		}
		indices[i] = index
	}
	return indices, true
}

func invalidSwizzle(t ir.Translator, e *syntax.MemberAccessExpr, arity int) *ir.Op {
	t.Errorf(e.Span, "Invalid swizzle '%s' on a %d-component vector", e.Name, arity)
	return t.Dummy(t.TypeOf(e.Type, e.Span))
}

// scalarSwizzle lets s.x read the scalar and s.xxx splat it.
func scalarSwizzle(t ir.Translator, e *syntax.MemberAccessExpr) *ir.Op {
	indices, ok := parseSwizzle(e.Name, 1)
	if !ok {
		return invalidSwizzle(t, e, 1)
	}
	base := t.Walk(e.Left)
	if len(indices) == 1 {
		return base
	}
	return splat(t, t.TypeOf(e.Type, e.Span), t.ValueOf(base))
}

func vectorSwizzle(arity int) ir.FieldResolver {
	return func(t ir.Translator, e *syntax.MemberAccessExpr) *ir.Op {
		indices, ok := parseSwizzle(e.Name, arity)
		if !ok {
			return invalidSwizzle(t, e, arity)
		}
		result := t.TypeOf(e.Type, e.Span)
		base := t.Walk(e.Left)

		// A single component never becomes a one-element shuffle.
		if len(indices) == 1 {
			if base.IsPointer() {
				ptr := t.Library().PointerType(result, base.Result.StorageClass)
				return t.Emit(ir.OpAccessChain, ptr, base, t.IntConstant(int32(indices[0])))
			}
			return t.Emit(ir.OpCompositeExtract, result, base, t.Literal(uint32(indices[0])))
		}

		v := t.ValueOf(base)
		args := []ir.Node{v, v}
		for _, index := range indices {
			args = append(args, t.Literal(uint32(index)))
		}
		return t.Emit(ir.OpVectorShuffle, result, args...)
	}
}

// vectorSwizzleSetter writes through a swizzle. Multi-component writes
// shuffle the new components into the old vector and store the result.
func vectorSwizzleSetter(arity int) ir.SetterResolver {
	return func(t ir.Translator, e *syntax.MemberAccessExpr, value *ir.Op) {
		indices, ok := parseSwizzle(e.Name, arity)
		if !ok {
			t.Errorf(e.Span, "Invalid swizzle '%s' on a %d-component vector", e.Name, arity)
			return
		}
		seen := make(map[int]bool, len(indices))
		for _, index := range indices {
			if seen[index] {
				t.Errorf(e.Span, "Swizzle '%s' repeats a component and cannot be assigned", e.Name)
				return
			}
			seen[index] = true
		}

		base := t.Walk(e.Left)
		if !base.IsPointer() {
			t.Errorf(e.Span, "Swizzle '%s' cannot be assigned on a temporary value", e.Name)
			return
		}
		value = t.ValueOf(value)
		vector := base.Result.Deref

		if len(indices) == 1 {
			ptr := t.Library().PointerType(vector.Component, base.Result.StorageClass)
			t.Store(t.Emit(ir.OpAccessChain, ptr, base, t.IntConstant(int32(indices[0]))), value)
			return
		}

		selectors := make([]int, arity)
		for i := range selectors {
			selectors[i] = i
		}
		for i, index := range indices {
			selectors[index] = arity + i
		}
		old := t.ValueOf(base)
		args := []ir.Node{old, value}
		for _, s := range selectors {
			args = append(args, t.Literal(uint32(s)))
		}
		t.Store(base, t.Emit(ir.OpVectorShuffle, vector, args...))
	}
}

package frontend

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// Walk lowers e in the current block. Lvalues come back as pointers; use
// ValueOf to load them.
func (tr *Translator) Walk(e syntax.Expr) *ir.Op {
	switch e := e.(type) {
	case *syntax.ValueExpr:
		return tr.walkValue(e)
	case *syntax.LocalRefExpr:
		return tr.walkLocalRef(e)
	case *syntax.MemberAccessExpr:
		return tr.walkMemberAccess(e)
	case *syntax.CallExpr:
		return tr.walkCall(e)
	case *syntax.StaticTypeExpr:
		return nil
	case *syntax.BinaryExpr:
		return tr.walkBinary(e)
	case *syntax.UnaryExpr:
		return tr.walkUnary(e)
	case *syntax.CastExpr:
		return tr.walkCast(e)
	case *syntax.InitializerExpr:
		return tr.walkInitializer(e)
	case nil:
		return nil
	}
	tr.Errorf(e.Pos(), "Unsupported expression %T", e)
	return tr.Dummy(tr.TypeOf(e.ResultType(), e.Pos()))
}

func (tr *Translator) walkLocalRef(e *syntax.LocalRefExpr) *ir.Op {
	if tr.fn != nil {
		if op, ok := tr.fn.locals[e.Variable]; ok {
			return op
		}
		if e.Variable.Name == "this" && tr.fn.self != nil {
			return tr.fn.self
		}
	}
	tr.Errorf(e.Span, "Variable '%s' is not in scope", e.Variable.Name)
	return tr.Dummy(tr.TypeOf(e.Variable.Type, e.Span))
}

// ----------------------------------------------------------------------------
// Member access
// ----------------------------------------------------------------------------

func (tr *Translator) walkMemberAccess(e *syntax.MemberAccessExpr) *ir.Op {
	if prop := e.Property; prop != nil {
		if op := tr.lib.FindEnumConstant(prop); op != nil {
			return op
		}
		if prop.Get != nil {
			return tr.callGetter(e, prop.Get)
		}
	}

	if e.Field != nil {
		if arr, ok := tr.bufferFields[e.Field]; ok {
			g := tr.lib.FindGlobal(e.Field)
			return tr.Emit(ir.OpAccessChain, tr.lib.PointerType(arr, ir.StorageStorageBuffer), g.Instance, tr.IntConstant(0))
		}
		if g := tr.lib.FindGlobal(e.Field); g != nil {
			return g.Instance
		}
		if op := tr.lib.FindSpecConstant(e.Field); op != nil {
			return op
		}
		if e.Field.IsStatic {
			tr.Errorf(e.Span, "Member variable access couldn't be translated")
			return tr.Dummy(tr.TypeOf(e.Type, e.Span))
		}
	}

	left := tr.symbol(e.Left.ResultType())
	if r := tr.lib.FindTypeResolvers(left); r != nil {
		var member syntax.Member
		if e.Field != nil {
			member = e.Field
		}
		if resolve := r.Field(member); resolve != nil {
			return resolve(tr, e)
		}
	}

	owner := tr.TypeOf(left, e.Span)
	index, ok := owner.MemberIndex(e.Name)
	if !ok {
		tr.Errorf(e.Span, "Type '%s' has no member '%s'", owner.Name, e.Name)
		return tr.Dummy(tr.TypeOf(e.Type, e.Span))
	}
	memberType := owner.MemberType(index)
	base := tr.Walk(e.Left)
	if base.IsPointer() {
		ptr := tr.lib.PointerType(memberType, base.Result.StorageClass)
		return tr.Emit(ir.OpAccessChain, ptr, base, tr.IntConstant(int32(index)))
	}
	return tr.Emit(ir.OpCompositeExtract, memberType, base, tr.Literal(uint32(index)))
}

// callGetter reads a property through its getter function or resolver.
func (tr *Translator) callGetter(e *syntax.MemberAccessExpr, get *syntax.Function) *ir.Op {
	call := &syntax.CallExpr{
		Callee: &syntax.MemberAccessExpr{
			Left:     e.Left,
			Name:     get.Name,
			Function: get,
			IsStatic: e.IsStatic,
			Usage:    syntax.IoRead,
			Type:     e.Type,
			Span:     e.Span,
		},
		Type: e.Type,
		Span: e.Span,
	}
	return tr.walkCall(call)
}

// resolveSetter writes value through a property setter or a setter
// resolver. It reports false if target is not written that way, in which
// case the caller stores through the target's pointer.
func (tr *Translator) resolveSetter(target syntax.Expr, value *ir.Op) bool {
	access, ok := target.(*syntax.MemberAccessExpr)
	if !ok || access.Usage&syntax.IoWrite == 0 {
		return false
	}

	var member syntax.Member
	switch {
	case access.Property != nil:
		set := access.Property.Set
		if set == nil {
			return false
		}
		if fn := tr.lib.FindFunction(set); fn != nil {
			args := make([]ir.Node, 0, 2)
			if !set.IsStatic {
				args = append(args, tr.PointerOf(tr.Walk(access.Left)))
			}
			args = append(args, tr.ValueOf(value))
			tr.Emit(ir.OpFunctionCall, fn.ReturnType(), append([]ir.Node{fn}, args...)...)
			return true
		}
		member = access.Property
	case access.Field != nil:
		member = access.Field
	case access.Function != nil:
		return false
	}

	r := tr.lib.FindTypeResolvers(tr.symbol(access.Left.ResultType()))
	if r == nil {
		return false
	}
	var setter ir.SetterResolver
	if member == nil {
		setter = r.BackupSetter
	} else {
		setter = r.Setters[member]
	}
	if setter == nil {
		return false
	}
	setter(tr, access, value)
	return true
}

// ----------------------------------------------------------------------------
// Calls
// ----------------------------------------------------------------------------

func (tr *Translator) walkCall(e *syntax.CallExpr) *ir.Op {
	switch callee := e.Callee.(type) {
	case *syntax.StaticTypeExpr:
		return tr.walkConstructorCall(e, callee)
	case *syntax.MemberAccessExpr:
		if callee.Function != nil {
			return tr.walkFunctionCall(e, callee)
		}
	}
	tr.Errorf(e.Span, "Failed to translate function call")
	return tr.Dummy(tr.TypeOf(e.Type, e.Span))
}

func (tr *Translator) walkConstructorCall(e *syntax.CallExpr, callee *syntax.StaticTypeExpr) *ir.Op {
	typ := tr.symbol(callee.Referenced)
	if r := tr.lib.FindTypeResolvers(typ); r != nil {
		if callee.Constructor == nil && len(e.Args) == 0 && r.DefaultConstructor != nil {
			return r.DefaultConstructor(tr, typ, e.Span)
		}
		if resolve := r.Constructor(callee.Constructor); resolve != nil {
			return resolve(tr, e)
		}
	}

	t := tr.TypeOf(typ, e.Span)
	var fn *ir.Function
	if callee.Constructor == nil {
		fn = t.AutoDefaultConstructor
	} else {
		fn = tr.lib.FindFunction(callee.Constructor)
	}
	if fn == nil {
		tr.Errorf(e.Span, "Failed to translate constructor call")
		return tr.Dummy(t)
	}

	v := tr.Variable(t, "temp"+t.Name)
	args := []ir.Node{fn, v}
	if callee.Constructor != nil {
		args = append(args, tr.callArgs(callee.Constructor, e.Args)...)
	}
	tr.Emit(ir.OpFunctionCall, fn.ReturnType(), args...)
	return v
}

func (tr *Translator) walkFunctionCall(e *syntax.CallExpr, callee *syntax.MemberAccessExpr) *ir.Op {
	f := callee.Function
	if fn := tr.lib.FindFunction(f); fn != nil {
		args := []ir.Node{fn}
		if !f.IsStatic {
			args = append(args, tr.PointerOf(tr.Walk(callee.Left)))
		}
		args = append(args, tr.callArgs(f, e.Args)...)
		return tr.Emit(ir.OpFunctionCall, fn.ReturnType(), args...)
	}

	if r := tr.lib.FindTypeResolvers(f.Owner); r != nil {
		if resolve, ok := r.Functions[f]; ok {
			return resolve(tr, e)
		}
	}
	tr.Errorf(e.Span, "Failed to translate function call: '%s'", f.Name)
	if f.Return == nil {
		return nil
	}
	return tr.Dummy(tr.TypeOf(f.Return, e.Span))
}

// callArgs lowers call arguments: ref parameters are passed as pointers,
// everything else by value.
func (tr *Translator) callArgs(f *syntax.Function, args []syntax.Expr) []ir.Node {
	out := make([]ir.Node, 0, len(args))
	for i, a := range args {
		op := tr.Walk(a)
		if i < len(f.Params) && f.Params[i].Ref {
			out = append(out, tr.PointerOf(op))
		} else {
			out = append(out, tr.ValueOf(op))
		}
	}
	return out
}

// walkInitializer lowers an expression initializer list through the type's
// resolver, or by building Left and running the generated statements
// against it.
func (tr *Translator) walkInitializer(e *syntax.InitializerExpr) *ir.Op {
	if obj, ok := tr.fn.initializers[e]; ok {
		return obj
	}
	sym := tr.symbol(e.Type)
	if r := tr.lib.FindTypeResolvers(sym); r != nil && r.InitializerList != nil {
		return r.InitializerList(tr, e)
	}
	obj := tr.PointerOf(tr.Walk(e.Left))
	if obj == nil {
		tr.Errorf(e.Span, "Initializer list for type '%s' is not supported", e.Type)
		return tr.Dummy(tr.TypeOf(e.Type, e.Span))
	}
	tr.fn.initializers[e] = obj
	tr.walkStmts(e.Statements)
	delete(tr.fn.initializers, e)
	return obj
}

// ----------------------------------------------------------------------------
// Operators
// ----------------------------------------------------------------------------

func (tr *Translator) walkBinary(e *syntax.BinaryExpr) *ir.Op {
	switch {
	case e.Op == syntax.OpAssign:
		tr.walkAssign(e)
		return nil
	case e.Op.IsCompoundAssignment():
		tr.walkCompoundAssign(e)
		return nil
	}

	left, right := tr.symbol(e.Left.ResultType()), tr.symbol(e.Right.ResultType())
	if resolve, ok := tr.lib.FindBinary(ir.BinaryKey{Left: left, Right: right, Op: e.Op}); ok {
		return resolve(tr, e)
	}
	tr.report(e.Span, "Binary operator not supported",
		"Binary operator '"+e.Op.String()+"' is not supported for types '"+left.String()+"' and '"+right.String()+"'")
	return tr.Dummy(tr.TypeOf(e.Type, e.Span))
}

func (tr *Translator) walkAssign(e *syntax.BinaryExpr) {
	leftType := e.Left.ResultType()
	if tr.isNonCopyable(leftType) {
		tr.Errorf(e.Span, "Type '%s' cannot be copied.", leftType.Name)
		return
	}
	value := tr.Walk(e.Right)
	if tr.resolveSetter(e.Left, value) {
		return
	}
	tr.storeInto(e.Left, value, e.Span)
}

// walkCompoundAssign lowers A op= B as A = A op B, going through a setter
// when A is a property or swizzle.
func (tr *Translator) walkCompoundAssign(e *syntax.BinaryExpr) {
	op := e.Op.Arithmetic()
	left, right := tr.symbol(e.Left.ResultType()), tr.symbol(e.Right.ResultType())
	resolve, ok := tr.lib.FindBinary(ir.BinaryKey{Left: left, Right: right, Op: op})
	if !ok {
		tr.report(e.Span, "Binary operator not supported",
			"Binary operator '"+e.Op.String()+"' is not supported for types '"+left.String()+"' and '"+right.String()+"'")
		return
	}
	value := resolve(tr, &syntax.BinaryExpr{Op: op, Left: e.Left, Right: e.Right, Type: e.Left.ResultType(), Span: e.Span})
	if tr.resolveSetter(e.Left, value) {
		return
	}
	tr.storeInto(e.Left, value, e.Span)
}

func (tr *Translator) storeInto(target syntax.Expr, value *ir.Op, span syntax.Span) {
	ptr := tr.Walk(target)
	if ptr == nil {
		return
	}
	if isSpecConstant(ptr) {
		tr.Errorf(span, "Specialization constants cannot be assigned")
		return
	}
	if !ptr.IsPointer() {
		tr.Errorf(span, "Left hand side of an assignment must be assignable")
		return
	}
	tr.Store(ptr, value)
}

func (tr *Translator) walkUnary(e *syntax.UnaryExpr) *ir.Op {
	switch e.Op {
	case syntax.OpDereference:
		operand := tr.Walk(e.Operand)
		if !operand.IsPointer() {
			tr.Errorf(e.Span, "Operand must be pointer type")
			return tr.Dummy(tr.TypeOf(e.Type, e.Span))
		}
		return tr.Emit(ir.OpLoad, operand.Result.Deref, operand)
	case syntax.OpAddressOf:
		operand := tr.Walk(e.Operand)
		if !operand.IsPointer() {
			tr.Errorf(e.Span, "Cannot take the address of a temporary")
			return tr.Dummy(tr.TypeOf(e.Type, e.Span))
		}
		return operand
	}

	operand := tr.symbol(e.Operand.ResultType())
	if resolve, ok := tr.lib.FindUnary(ir.UnaryKey{Operand: operand, Op: e.Op}); ok {
		return resolve(tr, e)
	}
	tr.report(e.Span, "Unary operator not supported",
		"Unary operator '"+e.Op.String()+"' is not supported for type '"+operand.String()+"'")
	return tr.Dummy(tr.TypeOf(e.Type, e.Span))
}

func (tr *Translator) walkCast(e *syntax.CastExpr) *ir.Op {
	from, to := tr.symbol(e.Operand.ResultType()), tr.symbol(e.Type)
	if from == to {
		return tr.ValueOf(tr.Walk(e.Operand))
	}
	if resolve, ok := tr.lib.FindCast(ir.CastKey{From: from, To: to}); ok {
		return resolve(tr, e)
	}
	tr.report(e.Span, "Cast operator not supported",
		"Cannot cast from type '"+from.String()+"' to type '"+to.String()+"'")
	return tr.Dummy(tr.TypeOf(e.Type, e.Span))
}

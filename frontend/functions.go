package frontend

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// function is the state of the body being walked.
type function struct {
	ir     *ir.Function
	owner  *ir.Type
	self   *ir.Op
	block  *ir.Block
	locals map[*syntax.Variable]*ir.Op

	// Innermost loop targets are last.
	breaks    []*ir.Block
	continues []*ir.Block

	// initializers maps an expression initializer list to the object its
	// statements fill in.
	initializers map[*syntax.InitializerExpr]*ir.Op
}

func (tr *Translator) begin(fn *ir.Function, owner *ir.Type, self *ir.Op) *function {
	tr.fn = &function{
		ir:           fn,
		owner:        owner,
		self:         self,
		block:        fn.EntryBlock(),
		locals:       make(map[*syntax.Variable]*ir.Op),
		initializers: make(map[*syntax.InitializerExpr]*ir.Op),
	}
	return tr.fn
}

func (tr *Translator) end() {
	fixBlockTerminators(tr.fn.ir, tr.voidType())
	tr.fn = nil
}

// walk lowers every body declared by the pre-walk.
func (tr *Translator) walk() {
	for _, s := range tr.statics {
		tr.walkStaticInitializer(s)
	}
	for _, c := range tr.tree.Classes {
		t := tr.lib.FindType(c.Type)
		tr.walkPreConstructor(t)
	}
	for _, p := range tr.entryPoints {
		tr.declareStreamOutputs(p)
	}
	for _, p := range tr.bodies {
		tr.walkBody(p)
	}
	for _, p := range tr.entryPoints {
		tr.generateEntryPoint(p)
	}
}

// walkStaticInitializer generates <Type>_<Field>_Initializer, which stores
// the field's initial value into its global.
func (tr *Translator) walkStaticInitializer(s *staticField) {
	v := s.node
	fn := tr.lib.NewFunction(s.owner.Name+"_"+v.Name+"_Initializer", tr.lib.FunctionType(tr.voidType(), nil), nil)
	tr.begin(fn, s.owner, nil)
	tr.initialize(v.Type, v.Initial, s.global.Instance, v.Span)
	tr.Emit(ir.OpReturn, nil)
	tr.end()
	s.global.Initializer = fn
}

// walkPreConstructor fills in the pre-constructor: every member is set to
// its initializer or default-constructed.
func (tr *Translator) walkPreConstructor(t *ir.Type) {
	fn := tr.preConstructors[t]
	self := fn.Parameters[0]
	tr.begin(fn, t, self)
	for _, v := range tr.members[t] {
		index, _ := t.MemberIndex(v.Name)
		ptr := tr.Emit(ir.OpAccessChain, tr.lib.PointerType(t.MemberType(index), ir.StorageFunction), self, tr.IntConstant(int32(index)))
		tr.initialize(v.Type, v.Initial, ptr, v.Span)
	}
	tr.Emit(ir.OpReturn, nil)
	tr.end()
}

// initialize stores init into target, or default-constructs target when
// there is no initializer.
func (tr *Translator) initialize(typ *syntax.BoundType, init syntax.Expr, target *ir.Op, span syntax.Span) {
	if init == nil {
		tr.defaultConstruct(typ, target, span)
		return
	}
	if tr.isNonCopyable(typ) {
		tr.Errorf(span, "Type '%s' cannot be copied.", typ.Name)
		return
	}
	tr.Store(target, tr.Walk(init))
}

func (tr *Translator) walkBody(p *pending) {
	node := p.node
	fn := tr.begin(p.ir, p.owner, p.self)
	if p.self != nil && node.Function != nil && node.Function.This != nil {
		fn.locals[node.Function.This] = p.self
	}
	if p.isCtor {
		tr.Emit(ir.OpFunctionCall, tr.voidType(), tr.preConstructors[p.owner], p.self)
	}
	for i, param := range node.Params {
		op := p.params[i]
		if param.Ref {
			fn.locals[param.Variable] = op
			continue
		}
		local := tr.Variable(op.Result, param.Name+"_Local")
		tr.Store(local, op)
		fn.locals[param.Variable] = local
	}
	tr.walkStmts(node.Body)
	tr.end()
}

// defaultConstruct initializes target with the type's default value: its
// default constructor, the resolver's default value, or nothing for
// non-copyable handle types.
func (tr *Translator) defaultConstruct(typ *syntax.BoundType, target *ir.Op, span syntax.Span) {
	t := tr.TypeOf(typ, span)
	if t.AutoDefaultConstructor != nil {
		tr.Emit(ir.OpFunctionCall, tr.voidType(), t.AutoDefaultConstructor, target)
		return
	}
	if c := tr.classes[typ]; c != nil {
		for _, ctor := range c.Constructors {
			if len(ctor.Params) == 0 {
				tr.Emit(ir.OpFunctionCall, tr.voidType(), tr.lib.FindFunction(ctor.Function), target)
				return
			}
		}
	}
	sym := tr.symbol(typ)
	if r := tr.lib.FindTypeResolvers(sym); r != nil && r.DefaultConstructor != nil {
		tr.Store(target, r.DefaultConstructor(tr, sym, span))
		return
	}
	if tr.isNonCopyable(typ) {
		return
	}
	tr.Errorf(span, "Couldn't default construct type '%s'", typ.Name)
}

package ir

import (
	"fmt"

	"github.com/gogpu/fragc/config"
	"github.com/gogpu/fragc/syntax"
)

// Translator is the view of an in-progress translation that resolvers use to
// emit IR. It is implemented by the front end.
type Translator interface {
	// Library is the library being translated.
	Library() *Library
	Settings() *config.Settings

	// Walk lowers an expression in the current block and returns its result.
	Walk(e syntax.Expr) *Op

	// ValueOf loads op if it is a pointer. PointerOf spills a value into a
	// fresh function variable and returns the variable.
	ValueOf(op *Op) *Op
	PointerOf(op *Op) *Op

	// TypeOf returns the IR type of a bound type, reporting an error at
	// span if there is none.
	TypeOf(t *syntax.BoundType, span syntax.Span) *Type

	// Emit appends an op to the current block.
	Emit(code OpCode, result *Type, args ...Node) *Op

	// Store writes src into the pointer dst.
	Store(dst, src *Op)

	Constant(t *Type, value any) *Op
	IntConstant(value int32) *Op
	Literal(value any) *Literal

	// Variable declares a function-local variable of value type t.
	Variable(t *Type, name string) *Op

	// Dummy returns a placeholder result of type t after an error.
	Dummy(t *Type) *Op

	Errorf(span syntax.Span, format string, args ...any)
}

// Resolver callbacks. Each receives the translator and the node being
// lowered, and returns the result op (nil for statements without a value).
type (
	FieldResolver              func(t Translator, e *syntax.MemberAccessExpr) *Op
	SetterResolver             func(t Translator, e *syntax.MemberAccessExpr, value *Op)
	ConstructorResolver        func(t Translator, e *syntax.CallExpr) *Op
	FunctionResolver           func(t Translator, e *syntax.CallExpr) *Op
	DefaultConstructorResolver func(t Translator, typ *syntax.BoundType, span syntax.Span) *Op
	InitializerListResolver    func(t Translator, e *syntax.InitializerExpr) *Op
	BinaryResolver             func(t Translator, e *syntax.BinaryExpr) *Op
	UnaryResolver              func(t Translator, e *syntax.UnaryExpr) *Op
	CastResolver               func(t Translator, e *syntax.CastExpr) *Op
	TemplateResolver           func(t Translator, typ *syntax.BoundType) *Type
)

// BinaryKey identifies a binary operator resolver.
type BinaryKey struct {
	Left  *syntax.BoundType
	Right *syntax.BoundType
	Op    syntax.Operator
}

// UnaryKey identifies a unary operator resolver.
type UnaryKey struct {
	Operand *syntax.BoundType
	Op      syntax.Operator
}

// CastKey identifies a cast resolver.
type CastKey struct {
	From *syntax.BoundType
	To   *syntax.BoundType
}

// TypeResolvers holds the per-type resolver tables.
type TypeResolvers struct {
	DefaultConstructor DefaultConstructorResolver
	BackupField        FieldResolver
	BackupConstructor  ConstructorResolver
	BackupSetter       SetterResolver
	InitializerList    InitializerListResolver

	Fields       map[syntax.Member]FieldResolver
	Constructors map[*syntax.Function]ConstructorResolver
	Functions    map[*syntax.Function]FunctionResolver
	Setters      map[syntax.Member]SetterResolver
}

// RegisterField adds an exact field resolver for m.
func (r *TypeResolvers) RegisterField(m syntax.Member, fn FieldResolver) {
	if r.Fields == nil {
		r.Fields = make(map[syntax.Member]FieldResolver)
	}
	if _, dup := r.Fields[m]; dup {
		panic(fmt.Sprintf("ir: field resolver for %s registered twice", syntax.QualifiedName(m)))
	}
	r.Fields[m] = fn
}

// RegisterSetter adds an exact setter resolver for m.
func (r *TypeResolvers) RegisterSetter(m syntax.Member, fn SetterResolver) {
	if r.Setters == nil {
		r.Setters = make(map[syntax.Member]SetterResolver)
	}
	if _, dup := r.Setters[m]; dup {
		panic(fmt.Sprintf("ir: setter resolver for %s registered twice", syntax.QualifiedName(m)))
	}
	r.Setters[m] = fn
}

// RegisterConstructor adds an exact constructor resolver.
func (r *TypeResolvers) RegisterConstructor(f *syntax.Function, fn ConstructorResolver) {
	if r.Constructors == nil {
		r.Constructors = make(map[*syntax.Function]ConstructorResolver)
	}
	if _, dup := r.Constructors[f]; dup {
		panic(fmt.Sprintf("ir: constructor resolver for %s registered twice", syntax.QualifiedName(f)))
	}
	r.Constructors[f] = fn
}

// RegisterFunction adds an exact function resolver.
func (r *TypeResolvers) RegisterFunction(f *syntax.Function, fn FunctionResolver) {
	if r.Functions == nil {
		r.Functions = make(map[*syntax.Function]FunctionResolver)
	}
	if _, dup := r.Functions[f]; dup {
		panic(fmt.Sprintf("ir: function resolver for %s registered twice", syntax.QualifiedName(f)))
	}
	r.Functions[f] = fn
}

// Field returns the field resolver for m, falling back to BackupField.
func (r *TypeResolvers) Field(m syntax.Member) FieldResolver {
	if m != nil {
		if fn, ok := r.Fields[m]; ok {
			return fn
		}
	}
	return r.BackupField
}

// Setter returns the setter resolver for m, falling back to BackupSetter.
func (r *TypeResolvers) Setter(m syntax.Member) SetterResolver {
	if m != nil {
		if fn, ok := r.Setters[m]; ok {
			return fn
		}
	}
	return r.BackupSetter
}

// Constructor returns the constructor resolver for f, falling back to
// BackupConstructor.
func (r *TypeResolvers) Constructor(f *syntax.Function) ConstructorResolver {
	if f != nil {
		if fn, ok := r.Constructors[f]; ok {
			return fn
		}
	}
	return r.BackupConstructor
}

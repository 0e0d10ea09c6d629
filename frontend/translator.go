// Package frontend lowers a symbol-resolved syntax tree into an ir.Library.
//
// Translation runs in phases over the whole tree: collect declares every
// struct and enum, templates instantiates generic types, the pre-walk
// declares members and function signatures, and the walk lowers bodies into
// structured blocks. When the walk succeeds the stage and recursion checks
// run over the finished library. Any reported error fails the translation
// and the library must be discarded.
package frontend

import (
	"github.com/gogpu/fragc/check"
	"github.com/gogpu/fragc/config"
	"github.com/gogpu/fragc/diag"
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// Builtins names the core symbols the translator itself needs: the result
// of void functions, conditions, enums and integer indices, and the float
// type used for literals.
type Builtins struct {
	Void, Bool, Int, Real *syntax.BoundType
}

// Options configures a translation.
type Options struct {
	Settings *config.Settings
	Builtins Builtins

	// Sink, if set, receives every diagnostic as it is reported.
	Sink diag.Sink
}

// Translator lowers one tree into one library. It is single use.
type Translator struct {
	opts     Options
	settings *config.Settings
	tree     *syntax.Tree
	lib      *ir.Library
	errors   diag.List

	classes         map[*syntax.BoundType]*syntax.ClassNode
	members         map[*ir.Type][]*syntax.MemberVariableNode
	preConstructors map[*ir.Type]*ir.Function
	bufferFields    map[syntax.Member]*ir.Type
	bodies          []*pending
	statics         []*staticField
	entryPoints     []*pending

	// fn is the function whose body is being walked, nil at module scope.
	fn *function
}

// pending is a declared function whose body is walked later.
type pending struct {
	node    *syntax.FunctionNode
	ir      *ir.Function
	owner   *ir.Type
	class   *syntax.ClassNode
	self    *ir.Op
	params  []*ir.Op
	isCtor  bool
	isEntry bool
}

// staticField is a static member that lives in a global variable.
type staticField struct {
	node   *syntax.MemberVariableNode
	owner  *ir.Type
	global *ir.GlobalVariable
}

// New creates a translator. Missing settings default to config.Default().
func New(opts Options) *Translator {
	if opts.Settings == nil {
		opts.Settings = config.Default()
	}
	tr := &Translator{
		opts:            opts,
		settings:        opts.Settings,
		classes:         make(map[*syntax.BoundType]*syntax.ClassNode),
		members:         make(map[*ir.Type][]*syntax.MemberVariableNode),
		preConstructors: make(map[*ir.Type]*ir.Function),
		bufferFields:    make(map[syntax.Member]*ir.Type),
	}
	tr.errors.Forward = opts.Sink
	return tr
}

// Translate lowers tree into a new library depending on deps. It reports
// false if any error was reported; the errors are available from Errors.
func (tr *Translator) Translate(tree *syntax.Tree, deps *ir.Module) (*ir.Library, bool) {
	tr.tree = tree
	tr.lib = ir.NewLibrary(tree.Library.Name, tree.Library, deps)

	tr.collect()
	if tr.errors.ErrorTriggered() {
		return tr.lib, false
	}
	tr.instantiateTemplates()
	tr.prewalk()
	if tr.errors.ErrorTriggered() {
		return tr.lib, false
	}
	tr.walk()
	if tr.errors.ErrorTriggered() {
		return tr.lib, false
	}

	check.StageRequirements(tree, tr.lib, tr.settings, &tr.errors)
	check.Cycles(tree, &tr.errors)
	if tr.errors.ErrorTriggered() {
		return tr.lib, false
	}
	tr.lib.FlattenModuleDependents()
	tr.lib.Translated = true
	return tr.lib, true
}

// Errors returns the diagnostics reported so far.
func (tr *Translator) Errors() *diag.List {
	return &tr.errors
}

// ----------------------------------------------------------------------------
// ir.Translator
// ----------------------------------------------------------------------------

// Library returns the library being built.
func (tr *Translator) Library() *ir.Library { return tr.lib }

// Settings returns the translation settings.
func (tr *Translator) Settings() *config.Settings { return tr.settings }

// Errorf reports an error whose short and full messages are the same.
func (tr *Translator) Errorf(span syntax.Span, format string, args ...any) {
	tr.errors.Addf(span, format, args...)
}

func (tr *Translator) report(span syntax.Span, short, full string) {
	tr.errors.Add(span, short, full)
}

// TypeOf returns the IR type of t. Enums resolve to Int and template
// instantiations that were not listed by the tree are instantiated on use.
// A nil t is Void.
func (tr *Translator) TypeOf(t *syntax.BoundType, span syntax.Span) *ir.Type {
	if t == nil {
		return tr.voidType()
	}
	if it := tr.lib.FindType(t); it != nil {
		return it
	}
	if t.IsTemplate() {
		if it := tr.instantiate(t); it != nil {
			return it
		}
	}
	tr.Errorf(span, "Failed to find type '%s'", t.Name)
	return tr.voidType()
}

func (tr *Translator) voidType() *ir.Type {
	return tr.lib.FindType(tr.opts.Builtins.Void)
}

func (tr *Translator) intType() *ir.Type {
	return tr.lib.FindType(tr.opts.Builtins.Int)
}

// Emit appends an op to the current block. Outside a function body the op
// is returned without being placed.
func (tr *Translator) Emit(code ir.OpCode, result *ir.Type, args ...ir.Node) *ir.Op {
	op := ir.NewOp(code, result, args...)
	if tr.fn != nil {
		tr.fn.block.Add(op)
	}
	return op
}

// ValueOf loads op if it is a pointer.
func (tr *Translator) ValueOf(op *ir.Op) *ir.Op {
	if op == nil || !op.IsPointer() {
		return op
	}
	return tr.Emit(ir.OpLoad, op.Result.Deref, op)
}

// PointerOf spills a value into a temporary and returns the temporary.
func (tr *Translator) PointerOf(op *ir.Op) *ir.Op {
	if op == nil || op.IsPointer() {
		return op
	}
	v := tr.Variable(op.Result, "temp")
	tr.Store(v, op)
	return v
}

// Store writes src into dst. Pointer sources are copied with OpCopyMemory.
func (tr *Translator) Store(dst, src *ir.Op) {
	if src == nil {
		return
	}
	if src.IsPointer() {
		tr.Emit(ir.OpCopyMemory, nil, dst, src)
		return
	}
	tr.Emit(ir.OpStore, nil, dst, src)
}

// Variable declares a Function-class variable in the entry block.
func (tr *Translator) Variable(t *ir.Type, name string) *ir.Op {
	op := ir.NewOp(ir.OpVariable, tr.lib.PointerType(t, ir.StorageFunction), tr.Literal(uint32(ir.StorageFunction)))
	op.Debug.Name = name
	if tr.fn != nil {
		entry := tr.fn.ir.EntryBlock()
		entry.Locals = append(entry.Locals, op)
	}
	return op
}

// Dummy returns an unplaced OpUndef standing in for a failed expression.
func (tr *Translator) Dummy(t *ir.Type) *ir.Op {
	if t == nil {
		t = tr.voidType()
	}
	return ir.NewOp(ir.OpUndef, t)
}

// Literal returns the interned literal for v.
func (tr *Translator) Literal(v any) *ir.Literal {
	return tr.lib.Literal(v)
}

// symbol maps enums to Int for resolver lookups.
func (tr *Translator) symbol(t *syntax.BoundType) *syntax.BoundType {
	if t != nil && t.IsEnum {
		return tr.opts.Builtins.Int
	}
	return t
}

func (tr *Translator) isNonCopyable(t *syntax.BoundType) bool {
	return t != nil && t.HasAttribute(tr.settings.Names.NonCopyableAttribute)
}

package syntax

// Node is the interface implemented by all tree nodes.
type Node interface {
	Pos() Span
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node. Every expression carries the resolved type of
// the value it produces.
type Expr interface {
	Node
	exprNode()
	ResultType() *BoundType
}

// Tree is a symbol-resolved compilation unit.
type Tree struct {
	Library *Library

	// Types lists every bound type the library references, including
	// template instantiations that need IR types generated for them.
	Types   []*BoundType
	Classes []*ClassNode
	Enums   []*EnumNode
}

// ----------------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------------

// ClassNode declares a struct.
type ClassNode struct {
	Name         string
	Type         *BoundType
	Attributes   Attributes
	Variables    []*MemberVariableNode
	Constructors []*FunctionNode
	Functions    []*FunctionNode
	Destructor   *FunctionNode
	Span         Span
}

func (c *ClassNode) Pos() Span { return c.Span }

// EnumNode declares an enumeration.
type EnumNode struct {
	Name   string
	Type   *BoundType
	Values []*EnumValueNode
	Span   Span
}

func (e *EnumNode) Pos() Span { return e.Span }

// EnumValueNode is one named enum value.
type EnumValueNode struct {
	Name     string
	Value    int
	Property *GetterSetter
	Span     Span
}

func (e *EnumValueNode) Pos() Span { return e.Span }

// MemberVariableNode declares a field or a property on a class. Exactly one
// of Field and Property is set.
type MemberVariableNode struct {
	Name       string
	Type       *BoundType
	Attributes Attributes
	IsStatic   bool
	Initial    Expr // nil if no initializer
	Field      *Field
	Property   *GetterSetter
	Get        *FunctionNode
	Set        *FunctionNode
	Span       Span
}

func (m *MemberVariableNode) Pos() Span { return m.Span }

// Member returns the symbol the node declares.
func (m *MemberVariableNode) Member() Member {
	if m.Property != nil {
		return m.Property
	}
	return m.Field
}

// ParameterNode declares a function parameter.
type ParameterNode struct {
	Name     string
	Type     *BoundType
	Ref      bool
	Variable *Variable
	Span     Span
}

func (p *ParameterNode) Pos() Span { return p.Span }

// FunctionNode declares a function, constructor, getter or setter body.
type FunctionNode struct {
	Name       string
	Function   *Function
	Attributes Attributes
	Params     []*ParameterNode
	Return     *BoundType // nil for void
	Body       []Stmt
	Span       Span
}

func (f *FunctionNode) Pos() Span { return f.Span }

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	X Expr
}

// LocalVarStmt declares a local variable.
type LocalVarStmt struct {
	Name     string
	Variable *Variable
	Type     *BoundType
	Init     Expr // nil if uninitialized
	Span     Span
}

// IfStmt is a conditional chain: if, any number of else-ifs, optional else.
// The else part has a nil Condition and must come last.
type IfStmt struct {
	Parts []*IfPart
	Span  Span
}

// IfPart is one arm of an IfStmt.
type IfPart struct {
	Condition Expr
	Body      []Stmt
	Span      Span
}

// WhileStmt is a pre-tested loop.
type WhileStmt struct {
	Condition Expr
	Body      []Stmt
	Span      Span
}

// DoWhileStmt is a post-tested loop.
type DoWhileStmt struct {
	Condition Expr
	Body      []Stmt
	Span      Span
}

// ForStmt is a three-clause loop. Any clause may be nil.
type ForStmt struct {
	Init      Stmt
	Condition Expr
	Iterator  Expr
	Body      []Stmt
	Span      Span
}

// ForEachStmt iterates a range.
type ForEachStmt struct {
	Variable *LocalVarStmt
	Range    Expr
	Body     []Stmt
	Span     Span
}

// LoopStmt loops until broken out of.
type LoopStmt struct {
	Body []Stmt
	Span Span
}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	Span Span
}

// ContinueStmt jumps to the innermost loop's continue target.
type ContinueStmt struct {
	Span Span
}

// ReturnStmt returns from the enclosing function.
type ReturnStmt struct {
	Value Expr // nil for bare return
	Span  Span
}

// ScopeStmt is a nested block.
type ScopeStmt struct {
	Body []Stmt
	Span Span
}

func (s *ExprStmt) Pos() Span     { return s.X.Pos() }
func (s *LocalVarStmt) Pos() Span { return s.Span }
func (s *IfStmt) Pos() Span       { return s.Span }
func (s *WhileStmt) Pos() Span    { return s.Span }
func (s *DoWhileStmt) Pos() Span  { return s.Span }
func (s *ForStmt) Pos() Span      { return s.Span }
func (s *ForEachStmt) Pos() Span  { return s.Span }
func (s *LoopStmt) Pos() Span     { return s.Span }
func (s *BreakStmt) Pos() Span    { return s.Span }
func (s *ContinueStmt) Pos() Span { return s.Span }
func (s *ReturnStmt) Pos() Span   { return s.Span }
func (s *ScopeStmt) Pos() Span    { return s.Span }

func (*ExprStmt) stmtNode()     {}
func (*LocalVarStmt) stmtNode() {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*DoWhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()      {}
func (*ForEachStmt) stmtNode()  {}
func (*LoopStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
func (*ScopeStmt) stmtNode()    {}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// ValueExpr is a literal token.
type ValueExpr struct {
	Token string
	Type  *BoundType
	Span  Span
}

// LocalRefExpr references a local variable, parameter or "this".
type LocalRefExpr struct {
	Variable *Variable
	Span     Span
}

// MemberAccessExpr accesses a member of Left. At most one of Field,
// Function and Property is set; swizzles and other resolver-backed members
// set none of them.
type MemberAccessExpr struct {
	Left     Expr
	Name     string
	Field    *Field
	Function *Function
	Property *GetterSetter
	IsStatic bool
	Usage    IoMode
	Type     *BoundType
	Span     Span
}

// CallExpr calls a function or constructor.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Type   *BoundType
	Span   Span
}

// StaticTypeExpr names a type, as in a constructor call or static access.
type StaticTypeExpr struct {
	Referenced  *BoundType
	Constructor *Function // nil for the implicit default constructor
	Span        Span
}

// BinaryExpr is a binary operation, including assignments.
type BinaryExpr struct {
	Op    Operator
	Left  Expr
	Right Expr
	Type  *BoundType
	Span  Span
}

// UnaryExpr is a unary operation.
type UnaryExpr struct {
	Op      Operator
	Operand Expr
	Type    *BoundType
	Span    Span
}

// CastExpr converts Operand to Type.
type CastExpr struct {
	Operand Expr
	Type    *BoundType
	Span    Span
}

// InitializerExpr is an expression initializer list, e.g. an array literal.
// Elements are the listed values; Statements are the equivalent statements
// the host generated against the object produced by Left.
type InitializerExpr struct {
	Left       Expr
	Elements   []Expr
	Statements []Stmt
	Type       *BoundType
	Span       Span
}

func (e *ValueExpr) Pos() Span        { return e.Span }
func (e *LocalRefExpr) Pos() Span     { return e.Span }
func (e *MemberAccessExpr) Pos() Span { return e.Span }
func (e *CallExpr) Pos() Span         { return e.Span }
func (e *StaticTypeExpr) Pos() Span   { return e.Span }
func (e *BinaryExpr) Pos() Span       { return e.Span }
func (e *UnaryExpr) Pos() Span        { return e.Span }
func (e *CastExpr) Pos() Span         { return e.Span }
func (e *InitializerExpr) Pos() Span  { return e.Span }

func (*ValueExpr) exprNode()        {}
func (*LocalRefExpr) exprNode()     {}
func (*MemberAccessExpr) exprNode() {}
func (*CallExpr) exprNode()         {}
func (*StaticTypeExpr) exprNode()   {}
func (*BinaryExpr) exprNode()       {}
func (*UnaryExpr) exprNode()        {}
func (*CastExpr) exprNode()         {}
func (*InitializerExpr) exprNode()  {}

func (e *ValueExpr) ResultType() *BoundType        { return e.Type }
func (e *LocalRefExpr) ResultType() *BoundType     { return e.Variable.Type }
func (e *MemberAccessExpr) ResultType() *BoundType { return e.Type }
func (e *CallExpr) ResultType() *BoundType         { return e.Type }
func (e *StaticTypeExpr) ResultType() *BoundType   { return e.Referenced }
func (e *BinaryExpr) ResultType() *BoundType       { return e.Type }
func (e *UnaryExpr) ResultType() *BoundType        { return e.Type }
func (e *CastExpr) ResultType() *BoundType         { return e.Type }
func (e *InitializerExpr) ResultType() *BoundType  { return e.Type }

// Package ast defines the Ice language AST node types.
//
// Node kinds mirror the upstream grammar's discriminator strings
// (STATEMENTBLOCK, WRITE, PLUS, ...) so that trees decoded from the
// external parser's JSON output and trees built by the native parser
// are indistinguishable to the evaluator.
package ast

// Span represents a source location range.
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeSpan() Span
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode() // sealed marker
}

// OpKind identifies an operator node kind from the fixed catalog.
type OpKind string

const (
	// Binary, elementwise
	OpPlus      OpKind = "PLUS"
	OpMinus     OpKind = "MINUS"
	OpTimes     OpKind = "TIMES"
	OpDivide    OpKind = "DIVIDE"
	OpPower     OpKind = "POWER"
	OpAmpersand OpKind = "AMPERSAND"

	// Binary, whole
	OpRange OpKind = "RANGE"

	// Ternary, elementwise
	OpIsWithin    OpKind = "ISWITHIN"
	OpIsNotWithin OpKind = "ISNOTWITHIN"

	// Unary, elementwise
	OpUnminus   OpKind = "UNMINUS"
	OpSqrt      OpKind = "SQRT"
	OpUppercase OpKind = "UPPERCASE"
	OpIsNumber  OpKind = "ISNUMBER"

	// Unary, whole
	OpIsList   OpKind = "ISLIST"
	OpMaximum  OpKind = "MAXIMUM"
	OpMinimum  OpKind = "MINIMUM"
	OpAverage  OpKind = "AVERAGE"
	OpCount    OpKind = "COUNT"
	OpSum      OpKind = "SUM"
	OpFirst    OpKind = "FIRST"
	OpLast     OpKind = "LAST"
	OpIncrease OpKind = "INCREASE"
	OpTime     OpKind = "TIME"
)

// --- Program ---

// Program is the root of a parsed Ice program.
type Program struct {
	Span  Span
	Block *StatementBlock
}

func (n *Program) Kind() string   { return "PROGRAM" }
func (n *Program) NodeSpan() Span { return n.Span }

// --- Statements ---

// StatementBlock is an ordered sequence of statements.
type StatementBlock struct {
	Span       Span
	Statements []Stmt
}

func (n *StatementBlock) Kind() string   { return "STATEMENTBLOCK" }
func (n *StatementBlock) NodeSpan() Span { return n.Span }
func (n *StatementBlock) stmtNode()      {}

// WriteStmt emits a formatted value to the output sink.
type WriteStmt struct {
	Span Span
	Arg  Expr
}

func (n *WriteStmt) Kind() string   { return "WRITE" }
func (n *WriteStmt) NodeSpan() Span { return n.Span }
func (n *WriteStmt) stmtNode()      {}

// TraceStmt is WRITE with a "Line N: " prefix recording the source line.
type TraceStmt struct {
	Span Span
	Line int
	Arg  Expr
}

func (n *TraceStmt) Kind() string   { return "TRACE" }
func (n *TraceStmt) NodeSpan() Span { return n.Span }
func (n *TraceStmt) stmtNode()      {}

// AssignStmt binds the value of Arg to Ident.
type AssignStmt struct {
	Span  Span
	Ident string
	Arg   Expr
}

func (n *AssignStmt) Kind() string   { return "ASSIGN" }
func (n *AssignStmt) NodeSpan() Span { return n.Span }
func (n *AssignStmt) stmtNode()      {}

// TimeAssignStmt re-tags the value bound to Ident with the time tag of Arg.
type TimeAssignStmt struct {
	Span  Span
	Ident string
	Arg   Expr
}

func (n *TimeAssignStmt) Kind() string   { return "TIMEASSIGN" }
func (n *TimeAssignStmt) NodeSpan() Span { return n.Span }
func (n *TimeAssignStmt) stmtNode()      {}

// IfStmt runs Then when the condition is boolean true, Else when false.
type IfStmt struct {
	Span Span
	Cond Expr
	Then *StatementBlock
	Else *StatementBlock
}

func (n *IfStmt) Kind() string   { return "IF" }
func (n *IfStmt) NodeSpan() Span { return n.Span }
func (n *IfStmt) stmtNode()      {}

// ForStmt iterates a list, rebinding VarName per element.
type ForStmt struct {
	Span       Span
	VarName    string
	Expression Expr
	Body       *StatementBlock
}

func (n *ForStmt) Kind() string   { return "FOR" }
func (n *ForStmt) NodeSpan() Span { return n.Span }
func (n *ForStmt) stmtNode()      {}

// --- Literals ---

type NumberLiteral struct {
	Span  Span
	Value float64
}

func (n *NumberLiteral) Kind() string   { return "NUMTOKEN" }
func (n *NumberLiteral) NodeSpan() Span { return n.Span }
func (n *NumberLiteral) exprNode()      {}

type StringLiteral struct {
	Span  Span
	Value string
}

func (n *StringLiteral) Kind() string   { return "STRTOKEN" }
func (n *StringLiteral) NodeSpan() Span { return n.Span }
func (n *StringLiteral) exprNode()      {}

// TimeLiteral is a time-of-day literal (H:MM or H:MM:SS). It carries no
// date; evaluation anchors it to the current date, UTC.
type TimeLiteral struct {
	Span   Span
	Hour   int
	Minute int
	Second int
}

func (n *TimeLiteral) Kind() string   { return "TIMETOKEN" }
func (n *TimeLiteral) NodeSpan() Span { return n.Span }
func (n *TimeLiteral) exprNode()      {}

type BoolLiteral struct {
	Span  Span
	Value bool
}

func (n *BoolLiteral) Kind() string {
	if n.Value {
		return "TRUE"
	}
	return "FALSE"
}
func (n *BoolLiteral) NodeSpan() Span { return n.Span }
func (n *BoolLiteral) exprNode()      {}

type NullLiteral struct {
	Span Span
}

func (n *NullLiteral) Kind() string   { return "NULL" }
func (n *NullLiteral) NodeSpan() Span { return n.Span }
func (n *NullLiteral) exprNode()      {}

// NowExpr evaluates to a null value tagged with the evaluation clock.
type NowExpr struct {
	Span Span
}

func (n *NowExpr) Kind() string   { return "NOW" }
func (n *NowExpr) NodeSpan() Span { return n.Span }
func (n *NowExpr) exprNode()      {}

// CurrentTimeExpr is a synonym of NOW kept as a distinct node kind to
// match the upstream grammar.
type CurrentTimeExpr struct {
	Span Span
}

func (n *CurrentTimeExpr) Kind() string   { return "CURRENTTIME" }
func (n *CurrentTimeExpr) NodeSpan() Span { return n.Span }
func (n *CurrentTimeExpr) exprNode()      {}

// --- Variables and collections ---

type VariableExpr struct {
	Span Span
	Name string
}

func (n *VariableExpr) Kind() string   { return "VARIABLE" }
func (n *VariableExpr) NodeSpan() Span { return n.Span }
func (n *VariableExpr) exprNode()      {}

type ListExpr struct {
	Span  Span
	Items []Expr
}

func (n *ListExpr) Kind() string   { return "LIST" }
func (n *ListExpr) NodeSpan() Span { return n.Span }
func (n *ListExpr) exprNode()      {}

// --- Operator applications ---

type UnaryExpr struct {
	Span Span
	Op   OpKind
	Arg  Expr
}

func (n *UnaryExpr) Kind() string   { return string(n.Op) }
func (n *UnaryExpr) NodeSpan() Span { return n.Span }
func (n *UnaryExpr) exprNode()      {}

type BinaryExpr struct {
	Span  Span
	Op    OpKind
	Left  Expr
	Right Expr
}

func (n *BinaryExpr) Kind() string   { return string(n.Op) }
func (n *BinaryExpr) NodeSpan() Span { return n.Span }
func (n *BinaryExpr) exprNode()      {}

type TernaryExpr struct {
	Span Span
	Op   OpKind
	A    Expr
	B    Expr
	C    Expr
}

func (n *TernaryExpr) Kind() string   { return string(n.Op) }
func (n *TernaryExpr) NodeSpan() Span { return n.Span }
func (n *TernaryExpr) exprNode()      {}

// --- Unknown ---

// UnknownNode preserves a node kind this version does not recognize.
// Only reachable through JSON ingestion of a newer upstream grammar;
// the native parser's variant set is closed. It satisfies both Stmt
// and Expr so it can appear in either position.
type UnknownNode struct {
	Span     Span
	TypeName string
}

func (n *UnknownNode) Kind() string   { return n.TypeName }
func (n *UnknownNode) NodeSpan() Span { return n.Span }
func (n *UnknownNode) stmtNode()      {}
func (n *UnknownNode) exprNode()      {}

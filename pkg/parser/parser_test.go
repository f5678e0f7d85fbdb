package parser_test

import (
	"testing"

	"github.com/icelang/ice/pkg/ast"
	"github.com/icelang/ice/pkg/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src, "test.ice")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

// onlyStmt asserts the program holds exactly one statement and
// returns it.
func onlyStmt(t *testing.T, src string) ast.Stmt {
	t.Helper()
	prog := parse(t, src)
	if n := len(prog.Block.Statements); n != 1 {
		t.Fatalf("got %d statements, want 1", n)
	}
	return prog.Block.Statements[0]
}

// exprOf pulls the argument out of a single write statement.
func exprOf(t *testing.T, src string) ast.Expr {
	t.Helper()
	w, ok := onlyStmt(t, "write "+src+";").(*ast.WriteStmt)
	if !ok {
		t.Fatalf("expected a write statement")
	}
	return w.Arg
}

func expectParseError(t *testing.T, src string) {
	t.Helper()
	if _, err := parser.Parse(src, "test.ice"); err == nil {
		t.Errorf("%q: expected a parse error", src)
	}
}

func TestAssignStatement(t *testing.T) {
	s, ok := onlyStmt(t, `x := 5;`).(*ast.AssignStmt)
	if !ok {
		t.Fatal("expected an assign statement")
	}
	if s.Ident != "x" {
		t.Errorf("ident = %q", s.Ident)
	}
	if _, ok := s.Arg.(*ast.NumberLiteral); !ok {
		t.Errorf("arg kind = %s", s.Arg.Kind())
	}
}

func TestTimeAssignStatement(t *testing.T) {
	s, ok := onlyStmt(t, `time x := now;`).(*ast.TimeAssignStmt)
	if !ok {
		t.Fatal("expected a time-assign statement")
	}
	if s.Ident != "x" {
		t.Errorf("ident = %q", s.Ident)
	}
}

// `time` not followed by IDENT ':=' is the unary operator, which
// cannot open a statement.
func TestBareTimeOperatorStatementRejected(t *testing.T) {
	expectParseError(t, `time x;`)
	expectParseError(t, `time 5;`)
}

func TestTraceRecordsLine(t *testing.T) {
	prog := parse(t, "write 1;\ntrace 2;")
	tr, ok := prog.Block.Statements[1].(*ast.TraceStmt)
	if !ok {
		t.Fatal("expected a trace statement")
	}
	if tr.Line != 2 {
		t.Errorf("trace line = %d, want 2", tr.Line)
	}
}

func TestIfElse(t *testing.T) {
	s, ok := onlyStmt(t, `if true then write 1; else write 2; endif;`).(*ast.IfStmt)
	if !ok {
		t.Fatal("expected an if statement")
	}
	if len(s.Then.Statements) != 1 || s.Else == nil || len(s.Else.Statements) != 1 {
		t.Errorf("branch shapes wrong: then=%d else=%v", len(s.Then.Statements), s.Else)
	}
}

func TestIfWithoutElse(t *testing.T) {
	s := onlyStmt(t, `if true then write 1; endif;`).(*ast.IfStmt)
	if s.Else != nil {
		t.Error("expected no else branch")
	}
}

func TestNestedIf(t *testing.T) {
	s := onlyStmt(t, `if true then if false then write 1; endif; endif;`).(*ast.IfStmt)
	if _, ok := s.Then.Statements[0].(*ast.IfStmt); !ok {
		t.Error("expected a nested if")
	}
}

func TestForStatement(t *testing.T) {
	s, ok := onlyStmt(t, `for i in [1, 2] do write i; enddo;`).(*ast.ForStmt)
	if !ok {
		t.Fatal("expected a for statement")
	}
	if s.VarName != "i" {
		t.Errorf("var = %q", s.VarName)
	}
	if _, ok := s.Expression.(*ast.ListExpr); !ok {
		t.Errorf("loop source kind = %s", s.Expression.Kind())
	}
}

func TestPrecedenceMulOverAdd(t *testing.T) {
	e := exprOf(t, `1 + 2 * 3`).(*ast.BinaryExpr)
	if e.Op != ast.OpPlus {
		t.Fatalf("root op = %s, want PLUS", e.Op)
	}
	right := e.Right.(*ast.BinaryExpr)
	if right.Op != ast.OpTimes {
		t.Errorf("right op = %s, want TIMES", right.Op)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	e := exprOf(t, `2 ^ 3 ^ 4`).(*ast.BinaryExpr)
	if e.Op != ast.OpPower {
		t.Fatalf("root op = %s", e.Op)
	}
	if _, ok := e.Left.(*ast.NumberLiteral); !ok {
		t.Error("left of ^ should be the literal 2")
	}
	if r, ok := e.Right.(*ast.BinaryExpr); !ok || r.Op != ast.OpPower {
		t.Error("right of ^ should be another power node")
	}
}

func TestAdditionIsLeftAssociative(t *testing.T) {
	e := exprOf(t, `1 - 2 - 3`).(*ast.BinaryExpr)
	if l, ok := e.Left.(*ast.BinaryExpr); !ok || l.Op != ast.OpMinus {
		t.Error("left of outer - should be the inner subtraction")
	}
}

func TestConcatBindsLooserThanAdd(t *testing.T) {
	e := exprOf(t, `"n" & 1 + 2`).(*ast.BinaryExpr)
	if e.Op != ast.OpAmpersand {
		t.Fatalf("root op = %s, want AMPERSAND", e.Op)
	}
	if r, ok := e.Right.(*ast.BinaryExpr); !ok || r.Op != ast.OpPlus {
		t.Error("right of & should be the addition")
	}
}

func TestRangeBindsLooserThanConcat(t *testing.T) {
	e := exprOf(t, `1 ... 2 + 3`).(*ast.BinaryExpr)
	if e.Op != ast.OpRange {
		t.Fatalf("root op = %s, want RANGE", e.Op)
	}
}

func TestIsWithinTernary(t *testing.T) {
	e := exprOf(t, `x iswithin 1 to 10`).(*ast.TernaryExpr)
	if e.Op != ast.OpIsWithin {
		t.Fatalf("op = %s", e.Op)
	}
	if _, ok := e.A.(*ast.VariableExpr); !ok {
		t.Error("subject should be the variable")
	}
}

func TestIsNotWithinTernary(t *testing.T) {
	e := exprOf(t, `5 isnotwithin 1 to 10`).(*ast.TernaryExpr)
	if e.Op != ast.OpIsNotWithin {
		t.Fatalf("op = %s", e.Op)
	}
}

// Keyword unary operators swallow the whole expression to their
// right.
func TestKeywordUnaryIsGreedy(t *testing.T) {
	e := exprOf(t, `sqrt 4 + 5`).(*ast.UnaryExpr)
	if e.Op != ast.OpSqrt {
		t.Fatalf("root op = %s, want SQRT", e.Op)
	}
	if arg, ok := e.Arg.(*ast.BinaryExpr); !ok || arg.Op != ast.OpPlus {
		t.Error("sqrt should wrap the whole addition")
	}
}

func TestParensLimitGreedyUnary(t *testing.T) {
	e := exprOf(t, `(sqrt 4) + 5`).(*ast.BinaryExpr)
	if e.Op != ast.OpPlus {
		t.Fatalf("root op = %s, want PLUS", e.Op)
	}
	if l, ok := e.Left.(*ast.UnaryExpr); !ok || l.Op != ast.OpSqrt {
		t.Error("left of + should be the sqrt")
	}
}

func TestUnaryMinus(t *testing.T) {
	e := exprOf(t, `-x`).(*ast.UnaryExpr)
	if e.Op != ast.OpUnminus {
		t.Fatalf("op = %s", e.Op)
	}
	// Unary minus binds tighter than multiplication.
	mul := exprOf(t, `-2 * 3`).(*ast.BinaryExpr)
	if mul.Op != ast.OpTimes {
		t.Errorf("root op = %s, want TIMES", mul.Op)
	}
}

func TestListLiteral(t *testing.T) {
	e := exprOf(t, `[1, "a", [2]]`).(*ast.ListExpr)
	if len(e.Items) != 3 {
		t.Fatalf("got %d items", len(e.Items))
	}
	if _, ok := e.Items[2].(*ast.ListExpr); !ok {
		t.Error("third item should be a nested list")
	}
}

func TestEmptyList(t *testing.T) {
	e := exprOf(t, `[]`).(*ast.ListExpr)
	if len(e.Items) != 0 {
		t.Errorf("got %d items", len(e.Items))
	}
}

func TestTimeLiteral(t *testing.T) {
	e := exprOf(t, `14:30:15`).(*ast.TimeLiteral)
	if e.Hour != 14 || e.Minute != 30 || e.Second != 15 {
		t.Errorf("got %d:%d:%d", e.Hour, e.Minute, e.Second)
	}
}

func TestLiteralAtoms(t *testing.T) {
	if _, ok := exprOf(t, `true`).(*ast.BoolLiteral); !ok {
		t.Error("true should be a bool literal")
	}
	if _, ok := exprOf(t, `null`).(*ast.NullLiteral); !ok {
		t.Error("null should be a null literal")
	}
	if _, ok := exprOf(t, `now`).(*ast.NowExpr); !ok {
		t.Error("now should be a now node")
	}
	if _, ok := exprOf(t, `currenttime`).(*ast.CurrentTimeExpr); !ok {
		t.Error("currenttime should be its own node")
	}
}

func TestParseErrors(t *testing.T) {
	expectParseError(t, `write 1`)            // missing semicolon
	expectParseError(t, `x = 1;`)             // wrong assign token
	expectParseError(t, `if true write 1;`)   // missing then
	expectParseError(t, `for i [1] do enddo;`) // missing in
	expectParseError(t, `write [1, 2;`)       // unclosed list
	expectParseError(t, `write (1;`)          // unclosed paren
	expectParseError(t, `write 1 iswithin 2;`) // missing to-bound
}

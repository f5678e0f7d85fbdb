// Package validator performs static checks over Ice programs. All
// findings are warnings: the language evaluates totally, so nothing
// the validator flags stops execution, but each finding marks code
// that will quietly produce null at runtime.
package validator

import (
	"fmt"

	"github.com/icelang/ice/pkg/ast"
	"github.com/icelang/ice/pkg/diagnostics"
)

type validator struct {
	bound map[string]bool
	diags []diagnostics.Diagnostic
}

// Validate walks a program and returns its warnings.
func Validate(program *ast.Program) []diagnostics.Diagnostic {
	v := &validator{bound: make(map[string]bool)}
	v.checkBlock(program.Block)
	return v.diags
}

func (v *validator) warn(code, msg string, span ast.Span, hint string) {
	v.diags = append(v.diags, diagnostics.MakeWarning(code, msg, &span, hint))
}

func (v *validator) checkBlock(block *ast.StatementBlock) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		v.checkStmt(stmt)
	}
}

func (v *validator) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.StatementBlock:
		v.checkBlock(s)

	case *ast.WriteStmt:
		v.checkExpr(s.Arg)

	case *ast.TraceStmt:
		v.checkExpr(s.Arg)

	case *ast.AssignStmt:
		v.checkExpr(s.Arg)
		v.bound[s.Ident] = true

	case *ast.TimeAssignStmt:
		v.checkExpr(s.Arg)
		if !hasTimeSource(s.Arg) {
			v.warn(diagnostics.WNoTime,
				fmt.Sprintf("time assignment to '%s' from an expression with no time source", s.Ident),
				s.NodeSpan(),
				"without a time tag on the right-hand side the statement does nothing")
		}
		// The binding itself is unchanged in kind, but the name is
		// live afterwards even if it was unbound before.
		v.bound[s.Ident] = true

	case *ast.IfStmt:
		v.checkExpr(s.Cond)
		if known, isBool := staticKind(s.Cond); known && !isBool {
			v.warn(diagnostics.WCondNotBool,
				"if condition is never a bool",
				s.Cond.NodeSpan(),
				"a non-bool condition skips both branches")
		}
		v.checkBlock(s.Then)
		v.checkBlock(s.Else)

	case *ast.ForStmt:
		v.checkExpr(s.Expression)
		if isStaticScalar(s.Expression) {
			v.warn(diagnostics.WForNotList,
				"for loop over a non-list expression",
				s.Expression.NodeSpan(),
				"a non-list loop source means zero iterations")
		}
		v.bound[s.VarName] = true
		v.checkBlock(s.Body)
	}
}

func (v *validator) checkExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.VariableExpr:
		if !v.bound[e.Name] {
			v.warn(diagnostics.WUnbound,
				fmt.Sprintf("variable '%s' is used before assignment", e.Name),
				e.NodeSpan(),
				"unbound variables read as null")
		}
	case *ast.ListExpr:
		for _, item := range e.Items {
			v.checkExpr(item)
		}
	case *ast.UnaryExpr:
		v.checkExpr(e.Arg)
	case *ast.BinaryExpr:
		v.checkExpr(e.Left)
		v.checkExpr(e.Right)
	case *ast.TernaryExpr:
		v.checkExpr(e.A)
		v.checkExpr(e.B)
		v.checkExpr(e.C)
	}
}

// staticKind reports whether the expression's kind is statically
// known, and if so whether that kind is bool. Only literal shapes
// count as known; variables and operators stay unknown.
func staticKind(expr ast.Expr) (known, isBool bool) {
	switch expr.(type) {
	case *ast.BoolLiteral:
		return true, true
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.NullLiteral,
		*ast.TimeLiteral, *ast.ListExpr, *ast.NowExpr, *ast.CurrentTimeExpr:
		return true, false
	}
	return false, false
}

// isStaticScalar reports whether the expression is a literal that can
// never evaluate to a list.
func isStaticScalar(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BoolLiteral,
		*ast.NullLiteral, *ast.TimeLiteral, *ast.NowExpr, *ast.CurrentTimeExpr:
		return true
	}
	return false
}

// hasTimeSource reports whether the expression can possibly carry a
// time tag. Plain literals and list displays never do.
func hasTimeSource(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.NullLiteral:
		return false
	case *ast.ListExpr:
		return false
	case *ast.UnaryExpr:
		if e.Op == ast.OpIsNumber || e.Op == ast.OpIsList {
			return false
		}
		return true
	}
	return true
}

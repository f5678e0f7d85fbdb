// Package formatter pretty-prints Ice ASTs back to canonical source.
package formatter

import (
	"strconv"
	"strings"

	"github.com/icelang/ice/pkg/ast"
)

const indent = "  "

// Precedence levels, loosest to tightest. Keyword unary operators sit
// at the within level because their argument is greedy: once inside
// another operator they always need parentheses.
const (
	precWithin = 1
	precRange  = 2
	precConcat = 3
	precAdd    = 4
	precMul    = 5
	precPow    = 6
	precNeg    = 7
	precAtom   = 8
)

var binaryPrec = map[ast.OpKind]int{
	ast.OpRange:     precRange,
	ast.OpAmpersand: precConcat,
	ast.OpPlus:      precAdd,
	ast.OpMinus:     precAdd,
	ast.OpTimes:     precMul,
	ast.OpDivide:    precMul,
	ast.OpPower:     precPow,
}

var binaryText = map[ast.OpKind]string{
	ast.OpRange:     "...",
	ast.OpAmpersand: "&",
	ast.OpPlus:      "+",
	ast.OpMinus:     "-",
	ast.OpTimes:     "*",
	ast.OpDivide:    "/",
	ast.OpPower:     "^",
}

var keywordUnaryText = map[ast.OpKind]string{
	ast.OpSqrt:      "sqrt",
	ast.OpUppercase: "uppercase",
	ast.OpIsNumber:  "isnumber",
	ast.OpIsList:    "islist",
	ast.OpMaximum:   "maximum",
	ast.OpMinimum:   "minimum",
	ast.OpAverage:   "average",
	ast.OpCount:     "count",
	ast.OpSum:       "sum",
	ast.OpFirst:     "first",
	ast.OpLast:      "last",
	ast.OpIncrease:  "increase",
	ast.OpTime:      "time",
}

// Format pretty-prints a program. Keywords come out lowercase,
// statements one per line, block bodies indented two spaces.
func Format(program *ast.Program) string {
	var b strings.Builder
	formatBlock(&b, program.Block, 0)
	return b.String()
}

func formatBlock(b *strings.Builder, block *ast.StatementBlock, depth int) {
	if block == nil {
		return
	}
	for _, s := range block.Statements {
		formatStmt(b, s, depth)
	}
}

func formatStmt(b *strings.Builder, s ast.Stmt, depth int) {
	prefix := strings.Repeat(indent, depth)
	switch stmt := s.(type) {
	case *ast.StatementBlock:
		formatBlock(b, stmt, depth)

	case *ast.WriteStmt:
		b.WriteString(prefix + "write " + formatExpr(stmt.Arg, precWithin) + ";\n")

	case *ast.TraceStmt:
		b.WriteString(prefix + "trace " + formatExpr(stmt.Arg, precWithin) + ";\n")

	case *ast.AssignStmt:
		b.WriteString(prefix + stmt.Ident + " := " + formatExpr(stmt.Arg, precWithin) + ";\n")

	case *ast.TimeAssignStmt:
		b.WriteString(prefix + "time " + stmt.Ident + " := " + formatExpr(stmt.Arg, precWithin) + ";\n")

	case *ast.IfStmt:
		b.WriteString(prefix + "if " + formatExpr(stmt.Cond, precWithin) + " then\n")
		formatBlock(b, stmt.Then, depth+1)
		if stmt.Else != nil {
			b.WriteString(prefix + "else\n")
			formatBlock(b, stmt.Else, depth+1)
		}
		b.WriteString(prefix + "endif;\n")

	case *ast.ForStmt:
		b.WriteString(prefix + "for " + stmt.VarName + " in " + formatExpr(stmt.Expression, precWithin) + " do\n")
		formatBlock(b, stmt.Body, depth+1)
		b.WriteString(prefix + "enddo;\n")
	}
}

// formatExpr renders an expression for a context that accepts
// operators of at least minPrec, wrapping in parentheses otherwise.
func formatExpr(e ast.Expr, minPrec int) string {
	text, prec := renderExpr(e)
	if prec < minPrec {
		return "(" + text + ")"
	}
	return text
}

func renderExpr(e ast.Expr) (string, int) {
	switch expr := e.(type) {
	case *ast.NumberLiteral:
		return strconv.FormatFloat(expr.Value, 'f', -1, 64), precAtom

	case *ast.StringLiteral:
		return quote(expr.Value), precAtom

	case *ast.TimeLiteral:
		return renderTimeOfDay(expr), precAtom

	case *ast.BoolLiteral:
		if expr.Value {
			return "true", precAtom
		}
		return "false", precAtom

	case *ast.NullLiteral:
		return "null", precAtom

	case *ast.NowExpr:
		return "now", precAtom

	case *ast.CurrentTimeExpr:
		return "currenttime", precAtom

	case *ast.VariableExpr:
		return expr.Name, precAtom

	case *ast.ListExpr:
		parts := make([]string, len(expr.Items))
		for i, item := range expr.Items {
			parts[i] = formatExpr(item, precWithin)
		}
		return "[" + strings.Join(parts, ", ") + "]", precAtom

	case *ast.UnaryExpr:
		if expr.Op == ast.OpUnminus {
			return "-" + formatExpr(expr.Arg, precNeg), precNeg
		}
		// Greedy keyword operator: its argument may be any expression,
		// so the node itself binds loosest.
		return keywordUnaryText[expr.Op] + " " + formatExpr(expr.Arg, precWithin), precWithin

	case *ast.BinaryExpr:
		prec := binaryPrec[expr.Op]
		leftMin, rightMin := prec, prec+1
		if expr.Op == ast.OpPower {
			leftMin, rightMin = prec+1, prec
		}
		if expr.Op == ast.OpRange {
			// Non-associative.
			leftMin, rightMin = prec+1, prec+1
		}
		left := formatExpr(expr.Left, leftMin)
		right := formatExpr(expr.Right, rightMin)
		return left + " " + binaryText[expr.Op] + " " + right, prec

	case *ast.TernaryExpr:
		kw := "iswithin"
		if expr.Op == ast.OpIsNotWithin {
			kw = "isnotwithin"
		}
		a := formatExpr(expr.A, precRange)
		lo := formatExpr(expr.B, precRange)
		hi := formatExpr(expr.C, precRange)
		return a + " " + kw + " " + lo + " to " + hi, precWithin

	case *ast.UnknownNode:
		return "null", precAtom
	}
	return "null", precAtom
}

// quote picks the quote style that keeps the text representable: the
// grammar has no escape sequences, so a string holding one quote kind
// must be wrapped in the other.
func quote(s string) string {
	if strings.Contains(s, `"`) && !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}

func renderTimeOfDay(t *ast.TimeLiteral) string {
	out := strconv.Itoa(t.Hour) + ":" + pad2(t.Minute)
	if t.Second != 0 {
		out += ":" + pad2(t.Second)
	}
	return out
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

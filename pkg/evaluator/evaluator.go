// Package evaluator implements the Ice tree-walking interpreter: the
// runtime value model, the broadcasting operator dispatcher, and the
// statement evaluator.
//
// Evaluation is total by construction. Expression evaluation never
// fails: type and shape mismatches degrade to null and propagate
// silently. The only errors Execute can return are I/O failures on
// the output sink and context cancellation.
package evaluator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/icelang/ice/pkg/ast"
	"github.com/icelang/ice/pkg/diagnostics"
)

// TraceEvent describes one step of evaluation for observers.
type TraceEvent struct {
	Timestamp string   `json:"ts"`
	RunID     string   `json:"runId"`
	Kind      string   `json:"kind"` // "statement", "assign", "output", "loop"
	Node      string   `json:"node"` // AST node kind
	Span      ast.Span `json:"span"`
	Detail    string   `json:"detail,omitempty"`
}

// ExecOptions configures one execution. Ops injects the operator
// registry so the operator library can live in its own package
// without a dependency cycle; callers normally take the wired
// defaults from the runtime package.
type ExecOptions struct {
	Ops    map[ast.OpKind]*OpDef
	Output io.Writer
	Now    func() time.Time
	Trace  func(TraceEvent)
	RunID  string
}

// ExecResult is what an execution produces besides its output stream.
type ExecResult struct {
	Diagnostics []diagnostics.Diagnostic
	Stats       Stats
}

type interp struct {
	ctx   context.Context
	env   *Env
	opts  ExecOptions
	stats Stats
	diags []diagnostics.Diagnostic
}

// Execute runs a program against a fresh environment. The returned
// error is nil unless output writing failed or ctx was cancelled;
// language-level problems surface as diagnostics and null values.
func Execute(ctx context.Context, program *ast.Program, opts ExecOptions) (ExecResult, error) {
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	in := &interp{ctx: ctx, env: NewEnv(), opts: opts}
	start := opts.Now()

	err := in.execBlock(program.Block)

	in.stats.Duration = opts.Now().Sub(start)
	return ExecResult{Diagnostics: in.diags, Stats: in.stats}, err
}

func (in *interp) emit(ev TraceEvent) {
	if in.opts.Trace != nil {
		ev.Timestamp = in.opts.Now().UTC().Format(time.RFC3339Nano)
		ev.RunID = in.opts.RunID
		in.opts.Trace(ev)
	}
}

func (in *interp) execBlock(block *ast.StatementBlock) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		if err := in.ctx.Err(); err != nil {
			return err
		}
		if err := in.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *interp) execStmt(stmt ast.Stmt) error {
	in.stats.recordStatement()
	in.emit(TraceEvent{Kind: "statement", Node: stmt.Kind(), Span: stmt.NodeSpan()})

	switch s := stmt.(type) {
	case *ast.StatementBlock:
		return in.execBlock(s)

	case *ast.WriteStmt:
		return in.writeLine(FormatValue(in.evalExpr(s.Arg)), s.Kind(), s.NodeSpan())

	case *ast.TraceStmt:
		line := fmt.Sprintf("Line %d: %s", s.Line, FormatValue(in.evalExpr(s.Arg)))
		return in.writeLine(line, s.Kind(), s.NodeSpan())

	case *ast.AssignStmt:
		v := in.evalExpr(s.Arg)
		in.env.Set(s.Ident, v)
		in.emit(TraceEvent{Kind: "assign", Node: s.Kind(), Span: s.NodeSpan(),
			Detail: fmt.Sprintf("%s := %s", s.Ident, FormatValue(v))})
		return nil

	case *ast.TimeAssignStmt:
		v := in.evalExpr(s.Arg)
		tag := TimeOf(v)
		if tag == nil {
			// No tag on the source value: the statement is a no-op.
			return nil
		}
		current, ok := in.env.Lookup(s.Ident)
		if !ok {
			current = Null()
		}
		in.env.Set(s.Ident, WithTime(current, tag))
		in.emit(TraceEvent{Kind: "assign", Node: s.Kind(), Span: s.NodeSpan(),
			Detail: fmt.Sprintf("time %s := %s", s.Ident, formatInstant(*tag))})
		return nil

	case *ast.IfStmt:
		cond, ok := BoolOf(in.evalExpr(s.Cond))
		if !ok {
			// Non-boolean condition: neither branch runs.
			return nil
		}
		if cond {
			return in.execBlock(s.Then)
		}
		return in.execBlock(s.Else)

	case *ast.ForStmt:
		elems, ok := ElemsOf(in.evalExpr(s.Expression))
		if !ok {
			return nil
		}
		for _, e := range elems {
			if err := in.ctx.Err(); err != nil {
				return err
			}
			in.stats.recordIteration()
			in.env.Set(s.VarName, e)
			in.emit(TraceEvent{Kind: "loop", Node: s.Kind(), Span: s.NodeSpan(),
				Detail: fmt.Sprintf("%s = %s", s.VarName, FormatValue(e))})
			if err := in.execBlock(s.Body); err != nil {
				return err
			}
		}
		return nil

	case *ast.UnknownNode:
		in.reportUnknown(s)
		return nil
	}

	return nil
}

func (in *interp) writeLine(line, node string, span ast.Span) error {
	if _, err := io.WriteString(in.opts.Output, line+"\n"); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	in.stats.recordOutput()
	in.emit(TraceEvent{Kind: "output", Node: node, Span: span, Detail: line})
	return nil
}

// evalExpr is total. Whatever the operands, it returns a Value.
func (in *interp) evalExpr(expr ast.Expr) Value {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return Number(e.Value)

	case *ast.StringLiteral:
		return String(e.Value)

	case *ast.BoolLiteral:
		return Bool(e.Value)

	case *ast.NullLiteral:
		return Null()

	case *ast.TimeLiteral:
		// A time of day anchors to the current date, UTC.
		now := in.opts.Now().UTC()
		t := time.Date(now.Year(), now.Month(), now.Day(), e.Hour, e.Minute, e.Second, 0, time.UTC)
		return NullAt(float64(t.UnixMilli()))

	case *ast.NowExpr:
		return NullAt(float64(in.opts.Now().UnixMilli()))

	case *ast.CurrentTimeExpr:
		return NullAt(float64(in.opts.Now().UnixMilli()))

	case *ast.VariableExpr:
		return in.env.Get(e.Name)

	case *ast.ListExpr:
		elems := make([]Value, len(e.Items))
		for i, item := range e.Items {
			elems[i] = in.evalExpr(item)
		}
		return List(elems)

	case *ast.UnaryExpr:
		def, ok := in.opts.Ops[e.Op]
		if !ok || def.Unary == nil {
			in.reportMissingOp(string(e.Op), e.NodeSpan())
			return Null()
		}
		in.stats.recordOperator()
		return ApplyUnary(def.Mode, in.evalExpr(e.Arg), def.Unary)

	case *ast.BinaryExpr:
		def, ok := in.opts.Ops[e.Op]
		if !ok || def.Binary == nil {
			in.reportMissingOp(string(e.Op), e.NodeSpan())
			return Null()
		}
		in.stats.recordOperator()
		// Both operands evaluate unconditionally; no short-circuiting.
		left := in.evalExpr(e.Left)
		right := in.evalExpr(e.Right)
		return ApplyBinary(def.Mode, left, right, def.Binary)

	case *ast.TernaryExpr:
		def, ok := in.opts.Ops[e.Op]
		if !ok || def.Ternary == nil {
			in.reportMissingOp(string(e.Op), e.NodeSpan())
			return Null()
		}
		in.stats.recordOperator()
		a := in.evalExpr(e.A)
		b := in.evalExpr(e.B)
		c := in.evalExpr(e.C)
		return ApplyTernary(def.Mode, a, b, c, def.Ternary)

	case *ast.UnknownNode:
		in.reportUnknown(e)
		return Null()
	}

	return Null()
}

func (in *interp) reportUnknown(n *ast.UnknownNode) {
	span := n.NodeSpan()
	in.diags = append(in.diags, diagnostics.MakeDiag(
		diagnostics.EAst,
		fmt.Sprintf("unrecognized node kind '%s'", n.TypeName),
		&span,
		"the tree may come from a newer grammar; the node evaluates as null",
	))
}

func (in *interp) reportMissingOp(op string, span ast.Span) {
	in.diags = append(in.diags, diagnostics.MakeDiag(
		diagnostics.EAst,
		fmt.Sprintf("no operator registered for '%s'", op),
		&span,
		"",
	))
}

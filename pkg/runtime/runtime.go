// Package runtime provides the top-level Ice runtime orchestrator.
package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/icelang/ice/pkg/ast"
	"github.com/icelang/ice/pkg/diagnostics"
	"github.com/icelang/ice/pkg/evaluator"
	"github.com/icelang/ice/pkg/formatter"
	"github.com/icelang/ice/pkg/lexer"
	"github.com/icelang/ice/pkg/ops"
	"github.com/icelang/ice/pkg/parser"
	"github.com/icelang/ice/pkg/validator"
)

// Result holds the outcome of a program execution.
type Result struct {
	Diagnostics []diagnostics.Diagnostic
	Stats       evaluator.Stats
}

// Runtime wires together all Ice components for program execution.
type Runtime struct {
	ops    *ops.Registry
	output io.Writer
	now    func() time.Time
	runID  string
	trace  func(event evaluator.TraceEvent)
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithOps sets the operator registry.
func WithOps(r *ops.Registry) Option {
	return func(rt *Runtime) {
		rt.ops = r
	}
}

// WithOutput sets the sink WRITE and TRACE emit to.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.output = w
	}
}

// WithNow sets the clock NOW, CURRENTTIME, and time literals read.
func WithNow(now func() time.Time) Option {
	return func(rt *Runtime) {
		rt.now = now
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// New creates a Runtime. By default the full operator catalog is
// installed, output goes to stdout, and the clock is the wall clock.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		ops:    ops.Default(),
		output: os.Stdout,
		now:    time.Now,
		runID:  "cli",
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Run parses and executes an Ice program. Parse errors come back as a
// DiagnosticError; evaluation diagnostics ride in the Result.
func (rt *Runtime) Run(ctx context.Context, source, filename string) (*Result, error) {
	program, err := parser.Parse(source, filename)
	if err != nil {
		return nil, wrapParseError(err)
	}
	return rt.execute(ctx, program)
}

// RunProgram executes an already-built AST, such as one decoded from
// the external parser's JSON output.
func (rt *Runtime) RunProgram(ctx context.Context, program *ast.Program) (*Result, error) {
	return rt.execute(ctx, program)
}

// RunJSON decodes a JSON node tree and executes it.
func (rt *Runtime) RunJSON(ctx context.Context, data []byte) (*Result, error) {
	program, err := ast.DecodeJSON(data)
	if err != nil {
		return nil, &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{
			diagnostics.MakeDiag(diagnostics.EAst, err.Error(), nil, ""),
		}}
	}
	return rt.execute(ctx, program)
}

func (rt *Runtime) execute(ctx context.Context, program *ast.Program) (*Result, error) {
	result, err := evaluator.Execute(ctx, program, rt.buildExecOptions())
	res := &Result{Diagnostics: result.Diagnostics, Stats: result.Stats}
	if err != nil {
		return res, err
	}
	return res, nil
}

// Check parses and validates an Ice program without executing it.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	program, err := parser.Parse(source, filename)
	if err != nil {
		return parseDiagnostics(err)
	}
	return validator.Validate(program)
}

// Format parses and formats an Ice program.
func (rt *Runtime) Format(source, filename string) (string, error) {
	program, err := parser.Parse(source, filename)
	if err != nil {
		return "", wrapParseError(err)
	}
	return formatter.Format(program), nil
}

// ParseToJSON parses a program and encodes its AST in the external
// parser's JSON wire shape.
func (rt *Runtime) ParseToJSON(source, filename string) ([]byte, error) {
	program, err := parser.Parse(source, filename)
	if err != nil {
		return nil, wrapParseError(err)
	}
	return ast.EncodeJSON(program)
}

func (rt *Runtime) buildExecOptions() evaluator.ExecOptions {
	return evaluator.ExecOptions{
		Ops:    rt.ops.Map(),
		Output: rt.output,
		Now:    rt.now,
		Trace:  rt.trace,
		RunID:  rt.runID,
	}
}

func parseDiagnostics(err error) []diagnostics.Diagnostic {
	switch e := err.(type) {
	case *parser.ParseError:
		return []diagnostics.Diagnostic{e.Diag}
	case *lexer.LexError:
		return []diagnostics.Diagnostic{e.Diag}
	}
	return []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EParse, err.Error(), nil, "")}
}

func wrapParseError(err error) error {
	return &DiagnosticError{Diagnostics: parseDiagnostics(err)}
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

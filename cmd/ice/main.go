// Command ice is the native Ice CLI entry point.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/icelang/ice/pkg/diagnostics"
	"github.com/icelang/ice/pkg/evaluator"
	"github.com/icelang/ice/pkg/runtime"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: ice <command> [options]")
		fmt.Fprintln(os.Stderr, "commands: run, check, fmt, ast, trace")
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	case "ast":
		os.Exit(cmdAst(os.Args[2:]))
	case "trace":
		os.Exit(cmdTrace(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		os.Exit(1)
	}
}

func cmdRun(args []string) int {
	var file string
	pretty := false
	jsonSummary := false
	fromJSON := false
	tracePath := ""

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--pretty":
			pretty = true
		case "--json":
			jsonSummary = true
		case "--from-json":
			fromJSON = true
		case "--trace":
			if i+1 < len(args) {
				i++
				tracePath = args[i]
			}
		default:
			if !strings.HasPrefix(args[i], "-") {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: ice run <file> [--pretty] [--json] [--trace <path>] [--from-json]")
		return 1
	}

	source, filename, exitCode := readSource(file, pretty)
	if exitCode != 0 {
		return exitCode
	}

	var opts []runtime.Option
	var traceFile *os.File
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating trace file: %s\n", err)
			return 1
		}
		traceFile = f
		defer traceFile.Close()
		enc := json.NewEncoder(traceFile)
		opts = append(opts, runtime.WithTrace(func(ev evaluator.TraceEvent) {
			_ = enc.Encode(ev)
		}))
	}
	rt := runtime.New(opts...)

	ctx := context.Background()
	var result *runtime.Result
	var execErr error
	if fromJSON {
		result, execErr = rt.RunJSON(ctx, []byte(source))
	} else {
		result, execErr = rt.Run(ctx, source, filename)
	}

	if execErr != nil {
		if diagErr, ok := execErr.(*runtime.DiagnosticError); ok {
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diagErr.Diagnostics, pretty))
			return 2
		}
		fmt.Fprintln(os.Stderr, execErr.Error())
		return 1
	}

	if result != nil && len(result.Diagnostics) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(result.Diagnostics, pretty))
	}
	if jsonSummary && result != nil {
		summary := map[string]any{
			"diagnostics": result.Diagnostics,
			"stats":       result.Stats,
		}
		b, _ := json.Marshal(summary)
		fmt.Fprintln(os.Stderr, string(b))
	}
	return 0
}

func cmdCheck(args []string) int {
	var file string
	pretty := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--pretty":
			pretty = true
		default:
			if !strings.HasPrefix(args[i], "-") {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: ice check <file> [--pretty]")
		return 1
	}

	source, filename, exitCode := readSource(file, pretty)
	if exitCode != 0 {
		return exitCode
	}

	rt := runtime.New()
	diags := rt.Check(source, filename)
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, pretty))
		if diagnostics.HasErrors(diags) {
			return 2
		}
		return 0
	}

	if pretty {
		fmt.Println("No problems found.")
	} else {
		fmt.Println("[]")
	}
	return 0
}

func cmdFmt(args []string) int {
	var file string
	write := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--write":
			write = true
		default:
			if !strings.HasPrefix(args[i], "-") {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: ice fmt <file> [--write]")
		return 1
	}

	sourceBytes, err := os.ReadFile(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{diag}, false))
		return 1
	}
	source := string(sourceBytes)

	rt := runtime.New()
	formatted, fmtErr := rt.Format(source, file)
	if fmtErr != nil {
		if diagErr, ok := fmtErr.(*runtime.DiagnosticError); ok {
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diagErr.Diagnostics, false))
			return 2
		}
		fmt.Fprintln(os.Stderr, fmtErr.Error())
		return 2
	}

	if strings.Contains(source, "//") {
		fmt.Fprintln(os.Stderr, "warning: comments are not preserved by the formatter")
	}

	if write {
		if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error writing file: %s\n", err)
			return 1
		}
	} else {
		fmt.Print(formatted)
	}

	return 0
}

// cmdAst parses a source file and prints the node tree in the shared
// JSON wire shape, so the output interoperates with the external
// parser's consumers.
func cmdAst(args []string) int {
	var file string

	for i := 0; i < len(args); i++ {
		if !strings.HasPrefix(args[i], "-") {
			file = args[i]
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: ice ast <file>")
		return 1
	}

	source, filename, exitCode := readSource(file, false)
	if exitCode != 0 {
		return exitCode
	}

	rt := runtime.New()
	data, err := rt.ParseToJSON(source, filename)
	if err != nil {
		if diagErr, ok := err.(*runtime.DiagnosticError); ok {
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diagErr.Diagnostics, false))
			return 2
		}
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}
	fmt.Println(string(data))
	return 0
}

// cmdTrace summarizes an NDJSON trace file produced by run --trace.
func cmdTrace(args []string) int {
	var file string
	textOutput := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--text":
			textOutput = true
		case "--json":
			textOutput = false
		default:
			if !strings.HasPrefix(args[i], "-") {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: ice trace <file.jsonl> [--json|--text]")
		return 1
	}

	f, err := os.Open(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{diag}, false))
		return 1
	}
	defer f.Close()

	summary := computeTraceSummary(f)

	if textOutput {
		printTraceSummaryText(summary)
	} else {
		b, _ := json.Marshal(summary)
		fmt.Println(string(b))
	}
	return 0
}

type traceSummary struct {
	TotalEvents int            `json:"totalEvents"`
	ByKind      map[string]int `json:"byKind"`
	Statements  int            `json:"statements"`
	OutputLines int            `json:"outputLines"`
	Assignments int            `json:"assignments"`
	Iterations  int            `json:"iterations"`
}

func computeTraceSummary(r io.Reader) *traceSummary {
	summary := &traceSummary{ByKind: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event evaluator.TraceEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip invalid lines
		}

		summary.TotalEvents++
		summary.ByKind[event.Kind]++
		switch event.Kind {
		case "statement":
			summary.Statements++
		case "output":
			summary.OutputLines++
		case "assign":
			summary.Assignments++
		case "loop":
			summary.Iterations++
		}
	}
	return summary
}

func printTraceSummaryText(s *traceSummary) {
	fmt.Printf("Events: %d\n", s.TotalEvents)
	fmt.Printf("Statements: %d\n", s.Statements)
	fmt.Printf("Assignments: %d\n", s.Assignments)
	fmt.Printf("Loop iterations: %d\n", s.Iterations)
	fmt.Printf("Output lines: %d\n", s.OutputLines)
}

func readSource(file string, pretty bool) (string, string, int) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading stdin: %s\n", err)
			return "", "", 1
		}
		return string(data), "<stdin>", 0
	}

	source, err := os.ReadFile(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{diag}, pretty))
		return "", "", 1
	}
	return string(source), file, 0
}

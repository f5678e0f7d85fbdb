package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/icelang/ice/internal/testutil"
	"github.com/icelang/ice/pkg/diagnostics"
	"github.com/icelang/ice/pkg/runtime"
)

// TestConformance runs every scenario under testdata/scenarios: parse
// and execute the program with a pinned clock, then compare the
// output stream against the manifest. Exit code 0 means the program
// runs; exit code 2 means parsing must fail with the named
// diagnostics.
func TestConformance(t *testing.T) {
	dirs, err := testutil.ListScenarios("testdata/scenarios")
	if err != nil {
		t.Fatalf("listing scenarios: %v", err)
	}
	if len(dirs) == 0 {
		t.Fatal("no scenarios found")
	}

	for _, dir := range dirs {
		sc, err := testutil.LoadScenario(dir)
		if err != nil {
			t.Fatalf("loading %s: %v", dir, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			runScenario(t, sc)
		})
	}
}

func runScenario(t *testing.T, sc *testutil.Scenario) {
	t.Helper()

	source, err := sc.Source()
	if err != nil {
		t.Fatalf("reading program: %v", err)
	}

	clock := func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	if sc.Clock != "" {
		fixed, parseErr := time.Parse(time.RFC3339, sc.Clock)
		if parseErr != nil {
			t.Fatalf("manifest clock: %v", parseErr)
		}
		clock = func() time.Time { return fixed }
	}

	var out bytes.Buffer
	rt := runtime.New(runtime.WithOutput(&out), runtime.WithNow(clock))
	result, execErr := rt.Run(context.Background(), source, sc.Program)

	var stderr string
	exitCode := 0
	if execErr != nil {
		exitCode = 1
		if diagErr, ok := execErr.(*runtime.DiagnosticError); ok {
			exitCode = 2
			stderr = diagnostics.FormatDiagnostics(diagErr.Diagnostics, true)
		} else {
			stderr = execErr.Error()
		}
	} else if result != nil && len(result.Diagnostics) > 0 {
		stderr = diagnostics.FormatDiagnostics(result.Diagnostics, true)
	}

	if exitCode != sc.Expect.ExitCode {
		t.Errorf("exit code = %d, want %d (stderr: %s)", exitCode, sc.Expect.ExitCode, stderr)
	}
	if got := out.String(); got != sc.Expect.Stdout {
		t.Errorf("stdout mismatch\ngot:  %q\nwant: %q", got, sc.Expect.Stdout)
	}
	for _, fragment := range sc.Expect.StderrContains {
		if !strings.Contains(stderr, fragment) {
			t.Errorf("stderr %q does not contain %q", stderr, fragment)
		}
	}
}

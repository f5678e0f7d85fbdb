package validator_test

import (
	"testing"

	"github.com/icelang/ice/pkg/diagnostics"
	"github.com/icelang/ice/pkg/parser"
	"github.com/icelang/ice/pkg/validator"
)

func validate(t *testing.T, src string) []diagnostics.Diagnostic {
	t.Helper()
	prog, err := parser.Parse(src, "test.ice")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return validator.Validate(prog)
}

func expectCodes(t *testing.T, src string, want ...string) {
	t.Helper()
	diags := validate(t, src)
	if len(diags) != len(want) {
		t.Fatalf("%q: got %d warnings %+v, want %d", src, len(diags), diags, len(want))
	}
	for i, d := range diags {
		if d.Code != want[i] {
			t.Errorf("%q: warning %d = %s, want %s", src, i, d.Code, want[i])
		}
		if d.Severity != diagnostics.SeverityWarning {
			t.Errorf("%q: severity = %s, want warning", src, d.Severity)
		}
	}
}

func TestCleanProgramHasNoWarnings(t *testing.T) {
	expectCodes(t, `x := [1, 2]; for i in x do write i; enddo;`)
}

func TestUnboundVariable(t *testing.T) {
	expectCodes(t, `write missing;`, diagnostics.WUnbound)
}

func TestVariableBoundAfterAssign(t *testing.T) {
	expectCodes(t, `x := 1; write x;`)
}

func TestLoopVariableIsBound(t *testing.T) {
	expectCodes(t, `for i in [1] do write i; enddo;`)
}

func TestUnboundInsideOperands(t *testing.T) {
	expectCodes(t, `write 1 + missing;`, diagnostics.WUnbound)
	expectCodes(t, `write [missing];`, diagnostics.WUnbound)
	expectCodes(t, `write a iswithin b to 3;`, diagnostics.WUnbound, diagnostics.WUnbound)
}

func TestForOverScalarLiteral(t *testing.T) {
	expectCodes(t, `for i in 5 do write i; enddo;`, diagnostics.WForNotList)
}

func TestForOverVariableIsNotFlagged(t *testing.T) {
	expectCodes(t, `x := [1]; for i in x do write i; enddo;`)
}

func TestCondNeverBool(t *testing.T) {
	expectCodes(t, `if 42 then write 1; endif;`, diagnostics.WCondNotBool)
	expectCodes(t, `if null then write 1; endif;`, diagnostics.WCondNotBool)
}

func TestBoolCondIsClean(t *testing.T) {
	expectCodes(t, `if true then write 1; endif;`)
	expectCodes(t, `x := true; if x then write 1; endif;`)
}

func TestTimeAssignWithoutTimeSource(t *testing.T) {
	expectCodes(t, `x := 1; time x := 7;`, diagnostics.WNoTime)
	expectCodes(t, `x := 1; time x := [1, 2];`, diagnostics.WNoTime)
}

func TestTimeAssignFromClockIsClean(t *testing.T) {
	expectCodes(t, `x := 1; time x := now;`)
	expectCodes(t, `x := 1; time x := 14:30;`)
	expectCodes(t, `x := 1; y := now; time x := y;`)
}

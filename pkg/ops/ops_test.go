package ops_test

import (
	"testing"

	"github.com/icelang/ice/pkg/ast"
	"github.com/icelang/ice/pkg/evaluator"
	"github.com/icelang/ice/pkg/ops"
)

func num(v float64) evaluator.Value  { return evaluator.Number(v) }
func str(s string) evaluator.Value   { return evaluator.String(s) }
func tagged(v evaluator.Value, ms float64) evaluator.Value {
	return evaluator.WithTime(v, &ms)
}

func numberList(vals ...float64) evaluator.Value {
	elems := make([]evaluator.Value, len(vals))
	for i, v := range vals {
		elems[i] = evaluator.Number(v)
	}
	return evaluator.List(elems)
}

func expectValue(t *testing.T, got, want evaluator.Value) {
	t.Helper()
	if !evaluator.DeepEqual(got, want) {
		t.Errorf("got %s, want %s", evaluator.FormatValue(got), evaluator.FormatValue(want))
	}
}

func expectNull(t *testing.T, got evaluator.Value) {
	t.Helper()
	if !evaluator.IsNull(got) {
		t.Errorf("expected null, got %s", evaluator.FormatValue(got))
	}
}

func TestArithmetic(t *testing.T) {
	expectValue(t, ops.Plus(num(1), num(5)), num(6))
	expectValue(t, ops.Minus(num(1), num(5)), num(-4))
	expectValue(t, ops.Times(num(3), num(4)), num(12))
	expectValue(t, ops.Divide(num(7), num(2)), num(3.5))
	expectValue(t, ops.Power(num(2), num(10)), num(1024))
}

func TestArithmeticMismatchIsNull(t *testing.T) {
	expectNull(t, ops.Plus(num(1), str("x")))
	expectNull(t, ops.Plus(str("x"), num(1)))
	expectNull(t, ops.Times(evaluator.Bool(true), num(2)))
	expectNull(t, ops.Minus(evaluator.Null(), num(1)))
}

func TestArithmeticKeepsLeftTag(t *testing.T) {
	got := ops.Plus(tagged(num(1), 50), tagged(num(2), 60))
	expectValue(t, got, num(3))
	if tag := evaluator.TimeOf(got); tag == nil || *tag != 50 {
		t.Errorf("expected the left operand's tag, got %v", tag)
	}
}

func TestDivideNonFinite(t *testing.T) {
	expectNull(t, ops.Divide(num(1), num(0)))
	expectNull(t, ops.Divide(num(0), num(0)))
}

func TestUnminus(t *testing.T) {
	expectValue(t, ops.Unminus(num(4)), num(-4))
	expectNull(t, ops.Unminus(str("x")))
}

func TestSqrt(t *testing.T) {
	expectValue(t, ops.Sqrt(num(9)), num(3))
	expectNull(t, ops.Sqrt(num(-1)))
	expectNull(t, ops.Sqrt(str("x")))
}

func TestAmpersand(t *testing.T) {
	expectValue(t, ops.Ampersand(str("ab"), str("cd")), str("abcd"))
	expectValue(t, ops.Ampersand(str("n="), num(42)), str("n=42"))
	expectValue(t, ops.Ampersand(num(1.5), str("!")), str("1.5!"))
	expectNull(t, ops.Ampersand(evaluator.Bool(true), str("x")))
	expectNull(t, ops.Ampersand(evaluator.Null(), str("x")))
}

func TestAmpersandNumberTextMatchesWrite(t *testing.T) {
	// Concatenation renders numbers with the same policy WRITE uses.
	for _, f := range []float64{42, 1.5, 0, -3, 0.125} {
		got, ok := evaluator.StringOf(ops.Ampersand(str(""), num(f)))
		if !ok {
			t.Fatalf("concatenating %v should yield a string", f)
		}
		if want := evaluator.FormatValue(num(f)); got != want {
			t.Errorf("%v renders as %q in concatenation, %q in output", f, got, want)
		}
	}
}

func TestUppercasePassesNonStringsThrough(t *testing.T) {
	expectValue(t, ops.Uppercase(str("abc")), str("ABC"))
	expectValue(t, ops.Uppercase(num(3)), num(3))
	expectValue(t, ops.Uppercase(evaluator.Bool(true)), evaluator.Bool(true))
}

func TestRange(t *testing.T) {
	expectValue(t, ops.Range(num(2), num(6)), numberList(3, 4, 5, 6))
	expectValue(t, ops.Range(num(3), num(3)), evaluator.List(nil))
	expectNull(t, ops.Range(num(6), num(2)))
	expectNull(t, ops.Range(str("a"), num(2)))
}

func TestIsWithin(t *testing.T) {
	expectValue(t, ops.IsWithin(num(5), num(1), num(10)), evaluator.Bool(true))
	expectValue(t, ops.IsWithin(num(1), num(1), num(10)), evaluator.Bool(true))
	expectValue(t, ops.IsWithin(num(11), num(1), num(10)), evaluator.Bool(false))
	expectNull(t, ops.IsWithin(str("x"), num(1), num(10)))

	expectValue(t, ops.IsNotWithin(num(11), num(1), num(10)), evaluator.Bool(true))
	expectNull(t, ops.IsNotWithin(str("x"), num(1), num(10)))
}

func TestAggregationsDropNonNumerics(t *testing.T) {
	mixed := evaluator.List([]evaluator.Value{num(100), str("x"), num(200), evaluator.Null(), num(150)})
	expectValue(t, ops.Maximum(mixed), num(200))
	expectValue(t, ops.Minimum(mixed), num(100))
	expectValue(t, ops.Sum(mixed), num(450))
	expectValue(t, ops.Average(mixed), num(150))
}

func TestAggregationsEmptyAndNonList(t *testing.T) {
	empty := evaluator.List(nil)
	expectNull(t, ops.Maximum(empty))
	expectNull(t, ops.Minimum(empty))
	expectNull(t, ops.Average(empty))
	expectNull(t, ops.Sum(empty))
	expectNull(t, ops.Maximum(str("not a list")))
	expectNull(t, ops.Average(num(1)))
}

func TestCountCountsAllKinds(t *testing.T) {
	expectValue(t, ops.Count(evaluator.List([]evaluator.Value{num(1), str("a"), evaluator.Null()})), num(3))
	expectValue(t, ops.Count(evaluator.List(nil)), num(0))
	expectNull(t, ops.Count(num(5)))
}

func TestFirstLast(t *testing.T) {
	l := evaluator.List([]evaluator.Value{str("a"), num(2), evaluator.Bool(true)})
	expectValue(t, ops.First(l), str("a"))
	expectValue(t, ops.Last(l), evaluator.Bool(true))
	expectNull(t, ops.First(evaluator.List(nil)))
	expectNull(t, ops.Last(num(1)))
}

func TestIncrease(t *testing.T) {
	expectValue(t, ops.Increase(numberList(100, 200, 150)), numberList(100, -50))
	expectValue(t, ops.Increase(evaluator.List(nil)), evaluator.List(nil))
	expectValue(t, ops.Increase(numberList(5)), evaluator.List(nil))
	// Non-numeric members are dropped before differencing.
	mixed := evaluator.List([]evaluator.Value{num(1), str("x"), num(4)})
	expectValue(t, ops.Increase(mixed), numberList(3))
	expectNull(t, ops.Increase(num(1)))
}

func TestTimeExtraction(t *testing.T) {
	got := ops.Time(tagged(num(5), 1234))
	if !evaluator.IsNull(got) {
		t.Fatalf("TIME yields a pure instant (null kind), got %s", evaluator.KindName(got))
	}
	if tag := evaluator.TimeOf(got); tag == nil || *tag != 1234 {
		t.Errorf("expected tag 1234, got %v", tag)
	}
	expectNull(t, ops.Time(num(5)))
	if evaluator.TimeOf(ops.Time(num(5))) != nil {
		t.Error("untagged operand gives an untagged null")
	}
}

func TestDefaultCatalogComplete(t *testing.T) {
	reg := ops.Default()
	catalog := []struct {
		op    ast.OpKind
		arity int
		mode  evaluator.Mode
	}{
		{ast.OpPlus, 2, evaluator.ElementWise},
		{ast.OpMinus, 2, evaluator.ElementWise},
		{ast.OpTimes, 2, evaluator.ElementWise},
		{ast.OpDivide, 2, evaluator.ElementWise},
		{ast.OpPower, 2, evaluator.ElementWise},
		{ast.OpAmpersand, 2, evaluator.ElementWise},
		{ast.OpRange, 2, evaluator.Whole},
		{ast.OpIsWithin, 3, evaluator.ElementWise},
		{ast.OpIsNotWithin, 3, evaluator.ElementWise},
		{ast.OpUnminus, 1, evaluator.ElementWise},
		{ast.OpSqrt, 1, evaluator.ElementWise},
		{ast.OpUppercase, 1, evaluator.ElementWise},
		{ast.OpIsNumber, 1, evaluator.ElementWise},
		{ast.OpIsList, 1, evaluator.Whole},
		{ast.OpMaximum, 1, evaluator.Whole},
		{ast.OpMinimum, 1, evaluator.Whole},
		{ast.OpAverage, 1, evaluator.Whole},
		{ast.OpCount, 1, evaluator.Whole},
		{ast.OpSum, 1, evaluator.Whole},
		{ast.OpFirst, 1, evaluator.Whole},
		{ast.OpLast, 1, evaluator.Whole},
		{ast.OpIncrease, 1, evaluator.Whole},
		{ast.OpTime, 1, evaluator.Whole},
	}
	for _, c := range catalog {
		def, ok := reg.Lookup(c.op)
		if !ok {
			t.Errorf("%s: not registered", c.op)
			continue
		}
		if def.Arity != c.arity || def.Mode != c.mode {
			t.Errorf("%s: arity/mode = %d/%v, want %d/%v", c.op, def.Arity, def.Mode, c.arity, c.mode)
		}
	}
}

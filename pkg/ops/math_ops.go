package ops

import (
	"math"

	"github.com/icelang/ice/pkg/evaluator"
)

// numericBinary lifts a float function into a total Value function.
// Defined only over number pairs; anything else is null. A successful
// result inherits the left operand's time tag. Non-finite results
// (division by zero, overflow) degrade to null.
func numericBinary(f func(a, b float64) float64) evaluator.BinaryFn {
	return func(a, b evaluator.Value) evaluator.Value {
		x, okA := evaluator.NumberOf(a)
		y, okB := evaluator.NumberOf(b)
		if !okA || !okB {
			return evaluator.Null()
		}
		out := evaluator.NumberChecked(f(x, y))
		if evaluator.IsNull(out) {
			return out
		}
		return evaluator.WithTime(out, evaluator.TimeOf(a))
	}
}

// Plus adds two numbers.
func Plus(a, b evaluator.Value) evaluator.Value {
	return numericBinary(func(x, y float64) float64 { return x + y })(a, b)
}

// Minus subtracts the right number from the left.
func Minus(a, b evaluator.Value) evaluator.Value {
	return numericBinary(func(x, y float64) float64 { return x - y })(a, b)
}

// Times multiplies two numbers.
func Times(a, b evaluator.Value) evaluator.Value {
	return numericBinary(func(x, y float64) float64 { return x * y })(a, b)
}

// Divide performs floating-point division. Division by zero is
// non-finite and degrades to null.
func Divide(a, b evaluator.Value) evaluator.Value {
	return numericBinary(func(x, y float64) float64 { return x / y })(a, b)
}

// Power raises the left number to the right.
func Power(a, b evaluator.Value) evaluator.Value {
	return numericBinary(math.Pow)(a, b)
}

// Unminus negates a number, preserving its time tag.
func Unminus(v evaluator.Value) evaluator.Value {
	x, ok := evaluator.NumberOf(v)
	if !ok {
		return evaluator.Null()
	}
	return evaluator.WithTime(evaluator.Number(-x), evaluator.TimeOf(v))
}

// Sqrt takes the square root of a non-negative number, preserving its
// time tag. Negative input is NaN and degrades to null.
func Sqrt(v evaluator.Value) evaluator.Value {
	x, ok := evaluator.NumberOf(v)
	if !ok {
		return evaluator.Null()
	}
	out := evaluator.NumberChecked(math.Sqrt(x))
	if evaluator.IsNull(out) {
		return out
	}
	return evaluator.WithTime(out, evaluator.TimeOf(v))
}

// Range builds the list of integers a+1 through b inclusive, as the
// whole-mode `...` operator. Equal endpoints give an empty list; a
// descending range or non-number operands give null.
func Range(a, b evaluator.Value) evaluator.Value {
	x, okA := evaluator.NumberOf(a)
	y, okB := evaluator.NumberOf(b)
	if !okA || !okB {
		return evaluator.Null()
	}
	if x > y {
		return evaluator.Null()
	}
	start := int(x)
	end := int(y)
	elems := make([]evaluator.Value, 0, end-start)
	for i := start + 1; i <= end; i++ {
		elems = append(elems, evaluator.Number(float64(i)))
	}
	return evaluator.List(elems)
}

// IsWithin reports whether a lies in the closed interval [b, c].
// Defined over number triples; anything else is null.
func IsWithin(a, b, c evaluator.Value) evaluator.Value {
	x, okA := evaluator.NumberOf(a)
	lo, okB := evaluator.NumberOf(b)
	hi, okC := evaluator.NumberOf(c)
	if !okA || !okB || !okC {
		return evaluator.Null()
	}
	return evaluator.Bool(x >= lo && x <= hi)
}

// IsNotWithin is the negation of IsWithin, null staying null.
func IsNotWithin(a, b, c evaluator.Value) evaluator.Value {
	r := IsWithin(a, b, c)
	inside, ok := evaluator.BoolOf(r)
	if !ok {
		return evaluator.Null()
	}
	return evaluator.Bool(!inside)
}

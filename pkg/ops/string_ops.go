package ops

import (
	"strings"

	"github.com/icelang/ice/pkg/evaluator"
)

// Ampersand concatenates strings. A number on either side is rendered
// in its canonical decimal form first; any other operand kind makes
// the result null. The result inherits the left operand's time tag.
func Ampersand(a, b evaluator.Value) evaluator.Value {
	left, okA := concatText(a)
	right, okB := concatText(b)
	if !okA || !okB {
		return evaluator.Null()
	}
	return evaluator.WithTime(evaluator.String(left+right), evaluator.TimeOf(a))
}

func concatText(v evaluator.Value) (string, bool) {
	if s, ok := evaluator.StringOf(v); ok {
		return s, true
	}
	if n, ok := evaluator.NumberOf(v); ok {
		return evaluator.FormatNumber(n), true
	}
	return "", false
}

// Uppercase uppercases a string, keeping its time tag. Non-strings
// pass through unchanged rather than degrading to null; the
// dispatcher applies this per element, so mixed lists keep their
// non-string members intact.
func Uppercase(v evaluator.Value) evaluator.Value {
	s, ok := evaluator.StringOf(v)
	if !ok {
		return v
	}
	return evaluator.WithTime(evaluator.String(strings.ToUpper(s)), evaluator.TimeOf(v))
}

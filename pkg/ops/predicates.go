package ops

import "github.com/icelang/ice/pkg/evaluator"

// IsNumber reports whether a value is a number. Elementwise, so over
// a list it yields a list of bools.
func IsNumber(v evaluator.Value) evaluator.Value {
	_, ok := evaluator.NumberOf(v)
	return evaluator.Bool(ok)
}

// IsList reports whether a value is a list. Whole mode: it inspects
// the operand itself, never its elements.
func IsList(v evaluator.Value) evaluator.Value {
	return evaluator.Bool(evaluator.IsList(v))
}

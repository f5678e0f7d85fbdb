package ops

import "github.com/icelang/ice/pkg/evaluator"

// Time extracts the operand's time tag as a pure instant: a null
// value carrying only the tag. An untagged operand gives a plain
// null. Whole mode, so TIME of a list reads the list-level tag.
func Time(v evaluator.Value) evaluator.Value {
	tag := evaluator.TimeOf(v)
	if tag == nil {
		return evaluator.Null()
	}
	return evaluator.NullAt(*tag)
}

package ops

import "github.com/icelang/ice/pkg/evaluator"

// numericElems extracts the finite numeric members of a list in
// order, silently dropping everything else. Aggregations share this.
func numericElems(v evaluator.Value) ([]float64, bool) {
	elems, ok := evaluator.ElemsOf(v)
	if !ok {
		return nil, false
	}
	nums := make([]float64, 0, len(elems))
	for _, e := range elems {
		if n, isNum := evaluator.NumberOf(e); isNum {
			nums = append(nums, n)
		}
	}
	return nums, true
}

// aggregate folds the numeric members of a list. Non-lists and lists
// with no numeric members give null.
func aggregate(fold func(nums []float64) float64) evaluator.UnaryFn {
	return func(v evaluator.Value) evaluator.Value {
		nums, ok := numericElems(v)
		if !ok || len(nums) == 0 {
			return evaluator.Null()
		}
		return evaluator.NumberChecked(fold(nums))
	}
}

// Maximum returns the largest numeric member of a list.
func Maximum(v evaluator.Value) evaluator.Value {
	return aggregate(func(nums []float64) float64 {
		max := nums[0]
		for _, n := range nums[1:] {
			if n > max {
				max = n
			}
		}
		return max
	})(v)
}

// Minimum returns the smallest numeric member of a list.
func Minimum(v evaluator.Value) evaluator.Value {
	return aggregate(func(nums []float64) float64 {
		min := nums[0]
		for _, n := range nums[1:] {
			if n < min {
				min = n
			}
		}
		return min
	})(v)
}

// Sum adds the numeric members of a list.
func Sum(v evaluator.Value) evaluator.Value {
	return aggregate(func(nums []float64) float64 {
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return total
	})(v)
}

// Average is the numeric sum divided by the numeric count.
func Average(v evaluator.Value) evaluator.Value {
	return aggregate(func(nums []float64) float64 {
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return total / float64(len(nums))
	})(v)
}

// Count returns the number of elements in a list, of any kind. An
// empty list counts as zero rather than null.
func Count(v evaluator.Value) evaluator.Value {
	elems, ok := evaluator.ElemsOf(v)
	if !ok {
		return evaluator.Null()
	}
	return evaluator.Number(float64(len(elems)))
}

// First returns a list's first element, of any kind. Empty lists and
// non-lists give null.
func First(v evaluator.Value) evaluator.Value {
	elems, ok := evaluator.ElemsOf(v)
	if !ok || len(elems) == 0 {
		return evaluator.Null()
	}
	return elems[0]
}

// Last returns a list's last element, of any kind.
func Last(v evaluator.Value) evaluator.Value {
	elems, ok := evaluator.ElemsOf(v)
	if !ok || len(elems) == 0 {
		return evaluator.Null()
	}
	return elems[len(elems)-1]
}

// Increase returns the consecutive differences of a list's numeric
// members. Fewer than two numeric members give an empty list, not
// null; a non-list gives null.
func Increase(v evaluator.Value) evaluator.Value {
	nums, ok := numericElems(v)
	if !ok {
		return evaluator.Null()
	}
	if len(nums) < 2 {
		return evaluator.List(nil)
	}
	diffs := make([]evaluator.Value, len(nums)-1)
	for i := 0; i < len(nums)-1; i++ {
		diffs[i] = evaluator.Number(nums[i+1] - nums[i])
	}
	return evaluator.List(diffs)
}

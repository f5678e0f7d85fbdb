package ops

import (
	"github.com/icelang/ice/pkg/ast"
	"github.com/icelang/ice/pkg/evaluator"
)

// RegisterDefaults installs the full operator catalog. Arity and mode
// per operator are part of the language's compatibility surface and
// must not drift.
func RegisterDefaults(r *Registry) {
	// Binary, elementwise
	r.Register(ast.OpPlus, &evaluator.OpDef{Arity: 2, Mode: evaluator.ElementWise, Binary: Plus})
	r.Register(ast.OpMinus, &evaluator.OpDef{Arity: 2, Mode: evaluator.ElementWise, Binary: Minus})
	r.Register(ast.OpTimes, &evaluator.OpDef{Arity: 2, Mode: evaluator.ElementWise, Binary: Times})
	r.Register(ast.OpDivide, &evaluator.OpDef{Arity: 2, Mode: evaluator.ElementWise, Binary: Divide})
	r.Register(ast.OpPower, &evaluator.OpDef{Arity: 2, Mode: evaluator.ElementWise, Binary: Power})
	r.Register(ast.OpAmpersand, &evaluator.OpDef{Arity: 2, Mode: evaluator.ElementWise, Binary: Ampersand})

	// Binary, whole
	r.Register(ast.OpRange, &evaluator.OpDef{Arity: 2, Mode: evaluator.Whole, Binary: Range})

	// Ternary, elementwise
	r.Register(ast.OpIsWithin, &evaluator.OpDef{Arity: 3, Mode: evaluator.ElementWise, Ternary: IsWithin})
	r.Register(ast.OpIsNotWithin, &evaluator.OpDef{Arity: 3, Mode: evaluator.ElementWise, Ternary: IsNotWithin})

	// Unary, elementwise
	r.Register(ast.OpUnminus, &evaluator.OpDef{Arity: 1, Mode: evaluator.ElementWise, Unary: Unminus})
	r.Register(ast.OpSqrt, &evaluator.OpDef{Arity: 1, Mode: evaluator.ElementWise, Unary: Sqrt})
	r.Register(ast.OpUppercase, &evaluator.OpDef{Arity: 1, Mode: evaluator.ElementWise, Unary: Uppercase})
	r.Register(ast.OpIsNumber, &evaluator.OpDef{Arity: 1, Mode: evaluator.ElementWise, Unary: IsNumber})

	// Unary, whole
	r.Register(ast.OpIsList, &evaluator.OpDef{Arity: 1, Mode: evaluator.Whole, Unary: IsList})
	r.Register(ast.OpMaximum, &evaluator.OpDef{Arity: 1, Mode: evaluator.Whole, Unary: Maximum})
	r.Register(ast.OpMinimum, &evaluator.OpDef{Arity: 1, Mode: evaluator.Whole, Unary: Minimum})
	r.Register(ast.OpAverage, &evaluator.OpDef{Arity: 1, Mode: evaluator.Whole, Unary: Average})
	r.Register(ast.OpCount, &evaluator.OpDef{Arity: 1, Mode: evaluator.Whole, Unary: Count})
	r.Register(ast.OpSum, &evaluator.OpDef{Arity: 1, Mode: evaluator.Whole, Unary: Sum})
	r.Register(ast.OpFirst, &evaluator.OpDef{Arity: 1, Mode: evaluator.Whole, Unary: First})
	r.Register(ast.OpLast, &evaluator.OpDef{Arity: 1, Mode: evaluator.Whole, Unary: Last})
	r.Register(ast.OpIncrease, &evaluator.OpDef{Arity: 1, Mode: evaluator.Whole, Unary: Increase})
	r.Register(ast.OpTime, &evaluator.OpDef{Arity: 1, Mode: evaluator.Whole, Unary: Time})
}

// Default builds a registry with the complete catalog installed.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

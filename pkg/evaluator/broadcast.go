package evaluator

// Mode selects how an operator treats list operands.
type Mode int

const (
	// ElementWise applies the operator per list element, broadcasting
	// scalars.
	ElementWise Mode = iota
	// Whole hands the operator the entire operand value.
	Whole
)

// UnaryFn, BinaryFn, and TernaryFn are the operator function shapes.
// Each is total: type mismatches return null, never an error.
type (
	UnaryFn   func(Value) Value
	BinaryFn  func(Value, Value) Value
	TernaryFn func(Value, Value, Value) Value
)

// OpDef binds an operator's arity, mode, and function. Exactly one of
// the function fields is set, matching Arity.
type OpDef struct {
	Arity   int
	Mode    Mode
	Unary   UnaryFn
	Binary  BinaryFn
	Ternary TernaryFn
}

// ApplyUnary dispatches a unary operator over an evaluated operand.
// ElementWise maps f over list elements and keeps the list's own time
// tag; scalars go straight to f.
func ApplyUnary(mode Mode, operand Value, f UnaryFn) Value {
	if mode == Whole {
		return f(operand)
	}
	elems, ok := ElemsOf(operand)
	if !ok {
		return f(operand)
	}
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[i] = f(e)
	}
	return &ListValue{Elems: out, Time: copyTag(TimeOf(operand))}
}

// ApplyBinary dispatches a binary operator over two evaluated
// operands. In ElementWise mode the four shape cases each have their
// own time tag rule:
//
//	list x list (equal length)  -> zip; tag from the left list
//	list x list (length skew)   -> null
//	list x scalar               -> broadcast; tag from the scalar
//	scalar x list               -> broadcast; tag from the list
//	scalar x scalar             -> f decides
//
// The list x scalar case taking the scalar's tag is deliberate and
// relied upon by time-joining programs; do not "fix" it to the left
// operand's tag.
func ApplyBinary(mode Mode, left, right Value, f BinaryFn) Value {
	if mode == Whole {
		return f(left, right)
	}

	lElems, lIsList := ElemsOf(left)
	rElems, rIsList := ElemsOf(right)

	switch {
	case lIsList && rIsList:
		if len(lElems) != len(rElems) {
			return Null()
		}
		out := make([]Value, len(lElems))
		for i := range lElems {
			out[i] = f(lElems[i], rElems[i])
		}
		return &ListValue{Elems: out, Time: copyTag(TimeOf(left))}

	case lIsList:
		out := make([]Value, len(lElems))
		for i, e := range lElems {
			out[i] = f(e, right)
		}
		return &ListValue{Elems: out, Time: copyTag(TimeOf(right))}

	case rIsList:
		out := make([]Value, len(rElems))
		for i, e := range rElems {
			out[i] = f(left, e)
		}
		return &ListValue{Elems: out, Time: copyTag(TimeOf(right))}

	default:
		return f(left, right)
	}
}

// ApplyTernary dispatches a ternary operator over three evaluated
// operands. ElementWise broadcasts scalars against the longest list;
// a list shorter or longer than the longest is a shape mismatch and
// yields null. The result tag is the first present tag among a, b, c.
func ApplyTernary(mode Mode, a, b, c Value, f TernaryFn) Value {
	if mode == Whole {
		return f(a, b, c)
	}

	aElems, aIsList := ElemsOf(a)
	bElems, bIsList := ElemsOf(b)
	cElems, cIsList := ElemsOf(c)

	maxLen := 0
	for _, n := range []int{listLen(aElems, aIsList), listLen(bElems, bIsList), listLen(cElems, cIsList)} {
		if n > maxLen {
			maxLen = n
		}
	}
	if maxLen == 0 {
		return f(a, b, c)
	}

	if aIsList && len(aElems) != maxLen {
		return Null()
	}
	if bIsList && len(bElems) != maxLen {
		return Null()
	}
	if cIsList && len(cElems) != maxLen {
		return Null()
	}

	out := make([]Value, maxLen)
	for i := 0; i < maxLen; i++ {
		out[i] = f(pick(aElems, aIsList, a, i), pick(bElems, bIsList, b, i), pick(cElems, cIsList, c, i))
	}

	tag := TimeOf(a)
	if tag == nil {
		tag = TimeOf(b)
	}
	if tag == nil {
		tag = TimeOf(c)
	}
	return &ListValue{Elems: out, Time: copyTag(tag)}
}

func listLen(elems []Value, isList bool) int {
	if !isList {
		return 0
	}
	return len(elems)
}

func pick(elems []Value, isList bool, scalar Value, i int) Value {
	if isList {
		return elems[i]
	}
	return scalar
}

func copyTag(t *float64) *float64 {
	if t == nil {
		return nil
	}
	ms := *t
	return &ms
}

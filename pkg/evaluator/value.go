package evaluator

import "math"

// Value is the Ice runtime value. Five kinds (number, string, bool,
// list, null), each of which may additionally carry a time tag. The
// tag rides on values of any kind; a tagged null is how clock reads
// like NOW surface.
type Value interface {
	valueNode() // sealed marker
	// TimeTag returns the time tag in milliseconds since the Unix
	// epoch, or nil when the value is untagged.
	TimeTag() *float64
}

// NumberValue is a float64-backed number.
type NumberValue struct {
	Val  float64
	Time *float64
}

// StringValue holds text.
type StringValue struct {
	Val  string
	Time *float64
}

// BoolValue holds true or false.
type BoolValue struct {
	Val  bool
	Time *float64
}

// ListValue holds an ordered, heterogeneous element slice. The list
// has its own tag independent of its elements' tags.
type ListValue struct {
	Elems []Value
	Time  *float64
}

// NullValue is the absent value. With a tag it represents a pure
// point in time.
type NullValue struct {
	Time *float64
}

func (v *NumberValue) valueNode() {}
func (v *StringValue) valueNode() {}
func (v *BoolValue) valueNode()   {}
func (v *ListValue) valueNode()   {}
func (v *NullValue) valueNode()   {}

func (v *NumberValue) TimeTag() *float64 { return v.Time }
func (v *StringValue) TimeTag() *float64 { return v.Time }
func (v *BoolValue) TimeTag() *float64   { return v.Time }
func (v *ListValue) TimeTag() *float64   { return v.Time }
func (v *NullValue) TimeTag() *float64   { return v.Time }

// --- Constructors ---

// Null returns an untagged null.
func Null() Value { return &NullValue{} }

// NullAt returns a null tagged with the given instant.
func NullAt(ms float64) Value { return &NullValue{Time: &ms} }

// Number returns an untagged number.
func Number(v float64) Value { return &NumberValue{Val: v} }

// String returns an untagged string.
func String(v string) Value { return &StringValue{Val: v} }

// Bool returns an untagged bool.
func Bool(v bool) Value { return &BoolValue{Val: v} }

// List returns an untagged list wrapping elems directly.
func List(elems []Value) Value { return &ListValue{Elems: elems} }

// --- Tag plumbing ---

// WithTime returns a copy of v carrying the given tag. A nil tag
// clears the tag. Lists are copied shallowly; elements are shared.
func WithTime(v Value, tag *float64) Value {
	var t *float64
	if tag != nil {
		ms := *tag
		t = &ms
	}
	switch val := v.(type) {
	case *NumberValue:
		return &NumberValue{Val: val.Val, Time: t}
	case *StringValue:
		return &StringValue{Val: val.Val, Time: t}
	case *BoolValue:
		return &BoolValue{Val: val.Val, Time: t}
	case *ListValue:
		return &ListValue{Elems: val.Elems, Time: t}
	case *NullValue:
		return &NullValue{Time: t}
	}
	return Null()
}

// TimeOf returns v's tag, nil when untagged.
func TimeOf(v Value) *float64 {
	if v == nil {
		return nil
	}
	return v.TimeTag()
}

// --- Predicates and accessors ---

// IsNull reports whether v is the null kind, tagged or not.
func IsNull(v Value) bool {
	_, ok := v.(*NullValue)
	return ok
}

// IsList reports whether v is a list.
func IsList(v Value) bool {
	_, ok := v.(*ListValue)
	return ok
}

// NumberOf extracts a finite float64 from v. Non-numbers and
// non-finite numbers report false.
func NumberOf(v Value) (float64, bool) {
	n, ok := v.(*NumberValue)
	if !ok {
		return 0, false
	}
	if math.IsNaN(n.Val) || math.IsInf(n.Val, 0) {
		return 0, false
	}
	return n.Val, true
}

// StringOf extracts the string payload from v.
func StringOf(v Value) (string, bool) {
	s, ok := v.(*StringValue)
	if !ok {
		return "", false
	}
	return s.Val, true
}

// BoolOf extracts the bool payload from v.
func BoolOf(v Value) (bool, bool) {
	b, ok := v.(*BoolValue)
	if !ok {
		return false, false
	}
	return b.Val, true
}

// ElemsOf extracts the element slice from a list value.
func ElemsOf(v Value) ([]Value, bool) {
	l, ok := v.(*ListValue)
	if !ok {
		return nil, false
	}
	return l.Elems, true
}

// NumberChecked wraps a computed float64, degrading NaN and infinities
// to null. Arithmetic stays total this way.
func NumberChecked(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Null()
	}
	return Number(v)
}

// DeepEqual compares payloads structurally, ignoring time tags at
// every level.
func DeepEqual(a, b Value) bool {
	switch av := a.(type) {
	case *NullValue:
		return IsNull(b)
	case *NumberValue:
		bv, ok := b.(*NumberValue)
		return ok && av.Val == bv.Val
	case *StringValue:
		bv, ok := b.(*StringValue)
		return ok && av.Val == bv.Val
	case *BoolValue:
		bv, ok := b.(*BoolValue)
		return ok && av.Val == bv.Val
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !DeepEqual(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// KindName names v's kind for traces and diagnostics.
func KindName(v Value) string {
	switch v.(type) {
	case *NumberValue:
		return "number"
	case *StringValue:
		return "string"
	case *BoolValue:
		return "bool"
	case *ListValue:
		return "list"
	case *NullValue:
		return "null"
	}
	return "unknown"
}

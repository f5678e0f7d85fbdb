package evaluator

import (
	"strconv"
	"strings"
	"time"
)

// FormatValue renders a value for WRITE and TRACE output.
//
// Numeric policy: shortest round-trip decimal, with integral values
// printed without a decimal point (42, not 42. or 42.0). A null that
// carries a time tag is a pure instant and prints as ISO-8601 UTC.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case *NumberValue:
		return FormatNumber(val.Val)
	case *StringValue:
		return val.Val
	case *BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case *NullValue:
		if val.Time != nil {
			return formatInstant(*val.Time)
		}
		return "null"
	case *ListValue:
		parts := make([]string, len(val.Elems))
		for i, e := range val.Elems {
			parts[i] = formatElement(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "null"
}

// formatElement renders one list member. Nested lists collapse to the
// placeholder rather than recursing.
func formatElement(v Value) string {
	if IsList(v) {
		return "[...]"
	}
	return FormatValue(v)
}

// FormatNumber is the one numeric text policy: shortest round-trip
// decimal, integral values without a decimal point. String
// concatenation renders numbers through this same function so WRITE
// and AMPERSAND never disagree.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInstant(ms float64) string {
	sec := int64(ms) / 1000
	t := time.Unix(sec, 0).UTC()
	return t.Format("2006-01-02T15:04:05Z")
}

package evaluator

import (
	"encoding/json"
	"fmt"
)

// jsonValue is the wire shape for a Value: a kind discriminator, the
// payload under "value", and the optional time tag in epoch ms.
type jsonValue struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
	Time  *float64        `json:"time,omitempty"`
}

// MarshalValue encodes a Value as JSON.
func MarshalValue(v Value) ([]byte, error) {
	return json.Marshal(toJSONValue(v))
}

func toJSONValue(v Value) jsonValue {
	out := jsonValue{Kind: KindName(v), Time: copyTag(TimeOf(v))}
	switch val := v.(type) {
	case *NumberValue:
		b, _ := json.Marshal(val.Val)
		out.Value = b
	case *StringValue:
		b, _ := json.Marshal(val.Val)
		out.Value = b
	case *BoolValue:
		b, _ := json.Marshal(val.Val)
		out.Value = b
	case *ListValue:
		elems := make([]jsonValue, len(val.Elems))
		for i, e := range val.Elems {
			elems[i] = toJSONValue(e)
		}
		b, _ := json.Marshal(elems)
		out.Value = b
	}
	return out
}

// UnmarshalValue decodes a Value from its JSON wire shape.
func UnmarshalValue(data []byte) (Value, error) {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return nil, err
	}
	return fromJSONValue(jv)
}

func fromJSONValue(jv jsonValue) (Value, error) {
	var v Value
	switch jv.Kind {
	case "null":
		v = Null()
	case "number":
		var n float64
		if err := json.Unmarshal(jv.Value, &n); err != nil {
			return nil, fmt.Errorf("number payload: %w", err)
		}
		v = Number(n)
	case "string":
		var s string
		if err := json.Unmarshal(jv.Value, &s); err != nil {
			return nil, fmt.Errorf("string payload: %w", err)
		}
		v = String(s)
	case "bool":
		var b bool
		if err := json.Unmarshal(jv.Value, &b); err != nil {
			return nil, fmt.Errorf("bool payload: %w", err)
		}
		v = Bool(b)
	case "list":
		var elems []jsonValue
		if jv.Value != nil {
			if err := json.Unmarshal(jv.Value, &elems); err != nil {
				return nil, fmt.Errorf("list payload: %w", err)
			}
		}
		out := make([]Value, len(elems))
		for i, e := range elems {
			ev, err := fromJSONValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		v = List(out)
	default:
		return nil, fmt.Errorf("unknown value kind %q", jv.Kind)
	}
	if jv.Time != nil {
		v = WithTime(v, jv.Time)
	}
	return v, nil
}

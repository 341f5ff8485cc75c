// Package models defines data structures shared by the reader, normalizer and formatter.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupportedValue is returned when a decoded value has no JSON kind.
var ErrUnsupportedValue = errors.New("unsupported value type")

// Kind enumerates the JSON value kinds.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a decoded JSON value. Text carries the string for KindString and
// the verbatim source text for KindNumber.
type Value struct {
	Kind   Kind
	Text   string
	Bool   bool
	List   []Value
	Object map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Number returns a number value from its textual form.
func Number(text string) Value { return Value{Kind: KindNumber, Text: text} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// List returns a list value.
func List(items ...Value) Value { return Value{Kind: KindList, List: items} }

// Object returns an object value.
func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}

	return Value{Kind: KindObject, Object: fields}
}

// IsObject reports whether v is an object.
func (v Value) IsObject() bool { return v.Kind == KindObject }

// FromAny converts the generic output of a JSON decoder into a Value.
// Numbers are expected as json.Number; float64 and integer inputs are
// accepted as well.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		return Number(x.String()), nil
	case float64:
		return Number(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case int64:
		return Number(strconv.FormatInt(x, 10)), nil
	case int:
		return Number(strconv.Itoa(x)), nil
	case []any:
		items := make([]Value, 0, len(x))

		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}

			items = append(items, v)
		}

		return List(items...), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))

		for k, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}

			fields[k] = v
		}

		return Object(fields), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}

// Any converts v back into plain Go values suitable for JSON encoding.
func (v Value) Any() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return json.Number(v.Text)
	case KindString:
		return v.Text
	case KindList:
		out := make([]any, len(v.List))
		for i, item := range v.List {
			out[i] = item.Any()
		}

		return out
	case KindObject:
		out := make(map[string]any, len(v.Object))
		for k, item := range v.Object {
			out[k] = item.Any()
		}

		return out
	default:
		return nil
	}
}

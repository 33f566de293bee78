package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Kind discriminates the three shapes a decoded data island can take.
type Kind int

const (
	// KindScalar is a leaf value carried as its literal source text.
	KindScalar Kind = iota
	// KindMapping is a string-keyed object.
	KindMapping
	// KindSequence is an ordered list.
	KindSequence
)

// Value is a generic tree decoded from one embedded data island. Scalars keep
// the literal text from the document (numbers are never parsed to float, so
// trailing precision survives round trips). Resolvers must pattern-match
// defensively: an absent or mismatched shape means "not found", not a fault.
type Value struct {
	Kind Kind
	Str  string
	Map  map[string]Value
	Seq  []Value
}

// Scalar wraps a literal string as a scalar Value.
func Scalar(s string) Value { return Value{Kind: KindScalar, Str: s} }

// Mapping wraps a key/value map as a mapping Value.
func Mapping(m map[string]Value) Value { return Value{Kind: KindMapping, Map: m} }

// Field returns the named entry of a mapping. The second result is false when
// the value is not a mapping or the key is absent.
func (v Value) Field(key string) (Value, bool) {
	if v.Kind != KindMapping {
		return Value{}, false
	}
	child, ok := v.Map[key]
	return child, ok
}

// Text returns the scalar text of the value, or of its first sequence element
// when the value is a sequence of scalars. Non-scalar shapes yield "".
func (v Value) Text() string {
	switch v.Kind {
	case KindScalar:
		return v.Str
	case KindSequence:
		if len(v.Seq) > 0 && v.Seq[0].Kind == KindScalar {
			return v.Seq[0].Str
		}
	}
	return ""
}

// FieldText is Field followed by Text.
func (v Value) FieldText(key string) string {
	child, ok := v.Field(key)
	if !ok {
		return ""
	}
	return child.Text()
}

// decodeJSON parses raw JSON into a Value tree. Numbers are decoded via
// json.Number so the original formatting is preserved.
func decodeJSON(raw string) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var any interface{}
	if err := dec.Decode(&any); err != nil {
		return Value{}, fmt.Errorf("decode data island: %w", err)
	}
	return fromInterface(any), nil
}

func fromInterface(any interface{}) Value {
	switch t := any.(type) {
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for k, child := range t {
			m[k] = fromInterface(child)
		}
		return Value{Kind: KindMapping, Map: m}
	case []interface{}:
		seq := make([]Value, 0, len(t))
		for _, child := range t {
			seq = append(seq, fromInterface(child))
		}
		return Value{Kind: KindSequence, Seq: seq}
	case json.Number:
		return Scalar(t.String())
	case string:
		return Scalar(t)
	case bool:
		if t {
			return Scalar("true")
		}
		return Scalar("false")
	case nil:
		return Scalar("")
	default:
		return Scalar(fmt.Sprint(t))
	}
}

// walkMappings visits every mapping node in the tree, descending through
// @graph arrays, nested objects and sequences. Mapping children are visited
// in sorted key order so extraction stays deterministic across runs. The
// visit callback returns false to stop early.
func walkMappings(v Value, visit func(node Value) bool) bool {
	switch v.Kind {
	case KindMapping:
		if !visit(v) {
			return false
		}
		keys := make([]string, 0, len(v.Map))
		for k := range v.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !walkMappings(v.Map[k], visit) {
				return false
			}
		}
	case KindSequence:
		for _, child := range v.Seq {
			if !walkMappings(child, visit) {
				return false
			}
		}
	}
	return true
}

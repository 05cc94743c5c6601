package xframe

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Key is an ordered tuple of column values used as a composite group or
// join key. The substrate groups and joins on opaque string keys, so a
// Key provides a deterministic, round-trippable string encoding: equal
// tuples encode to equal strings, and the components can be recovered
// given their column types.
type Key []Value

// Encode produces the canonical string encoding of this Key.
// Missing values (nil or NaN) encode as null.
func (k Key) Encode() (string, error) {
	norm := make([]Value, len(k))
	for i, v := range k {
		if IsMissing(v) {
			norm[i] = nil
		} else {
			norm[i] = v
		}
	}
	enc, err := json.Marshal(norm)
	if err != nil {
		return "", fmt.Errorf("cannot encode key %v: %w", k, err)
	}
	return string(enc), nil
}

// DecodeKey recovers the component values of an encoded Key, coercing
// each component to its column's type.
func DecodeKey(encoded string, types []ColumnType) (Key, error) {
	parsed := gjson.Parse(encoded)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("malformed key encoding: %s", encoded)
	}
	parts := parsed.Array()
	if len(parts) != len(types) {
		return nil, fmt.Errorf("key encoding %s has %d components, expected %d", encoded, len(parts), len(types))
	}
	key := make(Key, len(parts))
	for i, part := range parts {
		if part.Type == gjson.Null {
			key[i] = nil
			continue
		}
		switch types[i] {
		case IntType:
			key[i] = part.Int()
		case FloatType:
			key[i] = part.Float()
		case BoolType:
			key[i] = part.Bool()
		case StringType:
			key[i] = part.String()
		case ListType:
			raw, ok := part.Value().([]interface{})
			if !ok {
				return nil, fmt.Errorf("key component %d is not a list: %s", i, part.Raw)
			}
			l := make([]Value, len(raw))
			for j, v := range raw {
				l[j] = v
			}
			key[i] = l
		case MapType:
			raw, ok := part.Value().(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("key component %d is not a mapping: %s", i, part.Raw)
			}
			m := make(map[string]Value, len(raw))
			for k, v := range raw {
				m[k] = v
			}
			key[i] = m
		}
	}
	return key, nil
}

package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/iancoleman/orderedmap"
)

// RawDocument is the full decoded JSON tree of a save file, held verbatim
// and mutated minimally. Key order survives a parse/serialize round trip,
// so any key the editor does not model reappears unchanged after an
// edit-and-resave cycle.
type RawDocument = orderedmap.OrderedMap

// ParseDocument parses JSON text into a RawDocument, preserving key order.
func ParseDocument(text string) (*RawDocument, error) {
	doc := orderedmap.New()
	if err := json.Unmarshal([]byte(text), doc); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, fmt.Errorf("%w at offset %d: %v", ErrInvalidJSON, syn.Offset, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return doc, nil
}

// EncodeDocument serializes a RawDocument with compact separators.
func EncodeDocument(doc *RawDocument) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// asObject coerces a decoded JSON value to an object. orderedmap stores
// nested objects as values; explicitly-set subtrees may be pointers.
func asObject(v interface{}) (*orderedmap.OrderedMap, bool) {
	switch m := v.(type) {
	case orderedmap.OrderedMap:
		return &m, true
	case *orderedmap.OrderedMap:
		return m, true
	default:
		return nil, false
	}
}

// docObject returns the object stored under key. When the child was decoded
// as an object value it is re-stored as a pointer so mutations through the
// returned handle stay visible to the parent.
func docObject(parent *orderedmap.OrderedMap, key string) (*orderedmap.OrderedMap, bool) {
	if parent == nil {
		return nil, false
	}
	v, ok := parent.Get(key)
	if !ok {
		return nil, false
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, false
	}
	if _, isPtr := v.(*orderedmap.OrderedMap); !isPtr {
		parent.Set(key, obj)
	}
	return obj, true
}

// ensureObject returns the object under key, creating it when missing or
// when the existing value is not an object.
func ensureObject(parent *orderedmap.OrderedMap, key string) *orderedmap.OrderedMap {
	if obj, ok := docObject(parent, key); ok {
		return obj
	}
	obj := orderedmap.New()
	parent.Set(key, obj)
	return obj
}

// docList returns the array stored under key.
func docList(parent *orderedmap.OrderedMap, key string) ([]interface{}, bool) {
	if parent == nil {
		return nil, false
	}
	v, ok := parent.Get(key)
	if !ok {
		return nil, false
	}
	list, ok := v.([]interface{})
	return list, ok
}

// docString returns the string stored under key.
func docString(parent *orderedmap.OrderedMap, key string) (string, bool) {
	if parent == nil {
		return "", false
	}
	v, ok := parent.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// docInt returns the integer stored under key. JSON numbers decode as
// float64; fractional values truncate toward zero the way the original
// format tooling did.
func docInt(parent *orderedmap.OrderedMap, key string) (int, bool) {
	if parent == nil {
		return 0, false
	}
	v, ok := parent.Get(key)
	if !ok {
		return 0, false
	}
	return asInt(v)
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// coerceString renders a scalar as a string, matching the model contract
// that numeric version values become strings.
func coerceString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return strconv.FormatInt(int64(s), 10), true
		}
		return strconv.FormatFloat(s, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	case json.Number:
		return s.String(), true
	default:
		return "", false
	}
}

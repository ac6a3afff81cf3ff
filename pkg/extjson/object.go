package extjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when input bytes are not a valid JSON document.
var ErrInvalidJSON = errors.New("invalid JSON")

// Object is a JSON object that keeps its keys in the order they were first set.
// Records are Objects; nested objects inside a record are Objects as well.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the value stored under key and whether the key is present.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores value under key. A new key is appended; an existing key keeps its position.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Range calls fn for every key in order until fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// Map converts the object into a plain map, recursively converting nested objects.
// Key order is lost.
func (o *Object) Map() map[string]any {
	if o == nil {
		return nil
	}
	m := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		m[k] = Plain(o.values[k])
	}
	return m
}

// Plain converts any Objects inside v into plain maps.
func Plain(v any) any {
	switch v := v.(type) {
	case *Object:
		return v.Map()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Plain(e)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the object with its keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := Parse(data)
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("%w: expected object", ErrInvalidJSON)
	}
	*o = *obj
	return nil
}

// Parse decodes a JSON document into ordered values: objects become *Object, arrays []any,
// integral numbers that fit int64 become int64 and all other numbers float64.
func Parse(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// ParseArray decodes a JSON array of objects. Elements that are not objects come back
// as nil entries, so callers can report them by position.
func ParseArray(data []byte) ([]*Object, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrInvalidJSON)
	}

	var records []*Object
	root.ForEach(func(_, value gjson.Result) bool {
		obj, _ := fromResult(value).(*Object)
		records = append(records, obj)
		return true
	})
	return records, nil
}

func fromResult(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return i
		}
		return r.Float()
	case gjson.String:
		return r.Str
	}

	if r.IsArray() {
		arr := make([]any, 0)
		r.ForEach(func(_, value gjson.Result) bool {
			arr = append(arr, fromResult(value))
			return true
		})
		return arr
	}

	obj := NewObject()
	r.ForEach(func(key, value gjson.Result) bool {
		obj.Set(key.Str, fromResult(value))
		return true
	})
	return obj
}

package query

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/fields"
	"github.com/ssargent/cpgrams/pkg/qerror"
)

// Range object keys.
const (
	RangeFrom = "from"
	RangeTo   = "to"
)

// Compile turns a filter specification into a Condition. The result is the AND of one
// condition per non-null field, in sorted field order. An unsupported value shape for a
// field fails with an InvalidFilterKind error instead of being ignored.
func Compile(spec FilterSpec, reg *fields.Registry) (Condition, error) {
	names := make([]string, 0, len(spec))
	for name := range spec {
		names = append(names, name)
	}
	sort.Strings(names)

	conds := make([]Condition, 0, len(names))
	for _, name := range names {
		value := spec[name]
		if value == nil {
			continue
		}
		cond, err := compileField(name, extjson.Normalize(value), reg.Kind(name))
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}

	switch len(conds) {
	case 0:
		return Always{}, nil
	case 1:
		return conds[0], nil
	default:
		return And{Conditions: conds}, nil
	}
}

func compileField(name string, value any, kind fields.Kind) (Condition, error) {
	invalid := func(reason string) error {
		return qerror.NewInvalidFilterKind(name, kind.String(), extjson.Plain(value), reason)
	}

	if bounds, ok := asRange(value); ok {
		return compileRange(name, bounds, kind, invalid)
	}

	if list, ok := asList(value); ok {
		if len(list) == 0 {
			return nil, invalid("empty list")
		}
		switch kind {
		case fields.WrappedInteger:
			values := make([]any, len(list))
			for i, e := range list {
				n, err := toInt64(e)
				if err != nil {
					return nil, invalid(err.Error())
				}
				values[i] = n
			}
			return AnyOf{Field: name, Values: values}, nil
		case fields.WrappedDate:
			conds := make([]Condition, len(list))
			for i, e := range list {
				s, err := toDateString(e)
				if err != nil {
					return nil, invalid(err.Error())
				}
				conds[i] = Prefix{Field: name, Prefix: s}
			}
			return Or{Conditions: conds}, nil
		default:
			for _, e := range list {
				if !isScalar(e) {
					return nil, invalid("list elements must be scalars")
				}
			}
			return AnyOf{Field: name, Values: list}, nil
		}
	}

	if !isScalar(value) {
		return nil, invalid("unsupported value type")
	}

	switch kind {
	case fields.WrappedInteger:
		n, err := toInt64(value)
		if err != nil {
			return nil, invalid(err.Error())
		}
		return Equals{Field: name, Value: n}, nil
	case fields.WrappedDate:
		s, err := toDateString(value)
		if err != nil {
			return nil, invalid(err.Error())
		}
		return Prefix{Field: name, Prefix: s}, nil
	default:
		return Equals{Field: name, Value: value}, nil
	}
}

func compileRange(name string, bounds map[string]any, kind fields.Kind, invalid func(string) error) (Condition, error) {
	if kind == fields.Plain {
		return nil, invalid("range filters are only supported on date and integer fields")
	}
	for key := range bounds {
		if key != RangeFrom && key != RangeTo {
			return nil, invalid(fmt.Sprintf("unknown range key %q", key))
		}
	}

	convert := toDateBound
	if kind == fields.WrappedInteger {
		convert = toIntBound
	}

	from, err := convert(bounds[RangeFrom])
	if err != nil {
		return nil, invalid(err.Error())
	}
	to, err := convert(bounds[RangeTo])
	if err != nil {
		return nil, invalid(err.Error())
	}
	if from == nil && to == nil {
		return nil, invalid("range needs a from or to bound")
	}
	return Range{Field: name, From: from, To: to}, nil
}

func toDateBound(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return toDateString(v)
}

func toIntBound(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return toInt64(v)
}

func asRange(v any) (map[string]any, bool) {
	switch v := v.(type) {
	case *extjson.Object:
		m := make(map[string]any, v.Len())
		v.Range(func(key string, value any) bool {
			m[key] = value
			return true
		})
		return m, true
	case map[string]any:
		return v, true
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

func isScalar(v any) bool {
	if _, ok := asRange(v); ok {
		return false
	}
	_, ok := asList(v)
	return !ok
}

// toInt64 accepts integers, integral floats and base-10 strings.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		i, ok := extjson.Int64FromFloat(n)
		if !ok || n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not a 64-bit integer", n)
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	case json.Number:
		return n.Int64()
	case bool, nil:
		return 0, fmt.Errorf("%v is not an integer", n)
	default:
		return cast.ToInt64E(n)
	}
}

func toDateString(v any) (string, error) {
	switch v.(type) {
	case bool, nil:
		return "", fmt.Errorf("%v is not a date", v)
	}
	if !isScalar(v) {
		return "", fmt.Errorf("%v is not a date", v)
	}
	return cast.ToStringE(v)
}

package extjson

import (
	"cmp"
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// rank orders values of different JSON types: null < false < true < numbers < strings < arrays < objects.
func rank(v any) int {
	switch v := v.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 2
		}
		return 1
	case int, int32, int64, float32, float64, json.Number:
		return 3
	case string:
		return 4
	case []any:
		return 5
	case *Object, map[string]any:
		return 6
	}
	return 7
}

// Compare defines a total order over normalized values. It returns -1, 0 or +1.
// Integers and floats compare numerically; arrays compare element-wise; objects compare
// key by key in sorted key order.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case 0, 1, 2:
		return 0
	case 3:
		return compareNumbers(a, b)
	case 4:
		return strings.Compare(a.(string), b.(string))
	case 5:
		return compareArrays(a.([]any), b.([]any))
	case 6:
		return compareObjects(asMap(a), asMap(b))
	}
	return 0
}

// Equal reports whether a and b are equal under Compare.
func Equal(a, b any) bool {
	return Compare(a, b) == 0
}

func compareNumbers(a, b any) int {
	ia, aInt := asInt64(a)
	ib, bInt := asInt64(b)
	if aInt && bInt {
		return cmp.Compare(ia, ib)
	}
	fa, fb := asFloat64(a), asFloat64(b)
	switch {
	case math.IsNaN(fa) && math.IsNaN(fb):
		return 0
	case math.IsNaN(fa):
		return -1
	case math.IsNaN(fb):
		return 1
	}
	return cmp.Compare(fa, fb)
}

func compareArrays(a, b []any) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareObjects(a, b map[string]any) int {
	ka := sortedKeys(a)
	kb := sortedKeys(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if c := strings.Compare(ka[i], kb[i]); c != 0 {
			return c
		}
		if c := Compare(a[ka[i]], b[kb[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ka), len(kb))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asMap(v any) map[string]any {
	switch v := v.(type) {
	case *Object:
		return v.Map()
	case map[string]any:
		return v
	}
	return nil
}

func asInt64(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		i, err := v.Int64()
		return i, err == nil
	}
	return 0, false
}

func asFloat64(v any) float64 {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// SameType reports whether a and b fall in the same type class under Compare,
// e.g. both numbers or both strings.
func SameType(a, b any) bool {
	return rank(a) == rank(b)
}

// Package extjson decodes JSON records that may carry extended-JSON wrappers
// ({"$date": ...}, {"$numberLong": ...}, {"$oid": ...}) and normalizes them into native values.
package extjson

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Reserved wrapper keys.
const (
	KeyDate       = "$date"
	KeyNumberLong = "$numberLong"
	KeyOID        = "$oid"
)

const utcOffsetSuffix = "+0000"

// dateLayout renders dates given as epoch milliseconds.
const dateLayout = "2006-01-02T15:04:05.000Z"

// MalformedValue describes a wrapper whose payload could not be interpreted.
type MalformedValue struct {
	Key string
	Raw any
}

// Normalizer strips extended-JSON wrappers. The zero value is ready to use.
type Normalizer struct {
	// OnMalformed, if set, is called for every wrapper that had to be replaced by a sentinel.
	OnMalformed func(MalformedValue)
}

// Normalize normalizes v with a default Normalizer.
func Normalize(v any) any {
	return Normalizer{}.Normalize(v)
}

// NormalizeObject normalizes a record. A nil record stays nil.
func (n Normalizer) NormalizeObject(o *Object) any {
	if o == nil {
		return nil
	}
	return n.Normalize(o)
}

// Normalize returns a copy of v with every wrapper object replaced by its native value.
// It never fails; malformed $numberLong payloads become 0.
func (n Normalizer) Normalize(v any) any {
	switch v := v.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		if raw, ok := v.Get(KeyDate); ok {
			return n.date(raw)
		}
		if raw, ok := v.Get(KeyNumberLong); ok {
			return n.numberLong(raw)
		}
		if raw, ok := v.Get(KeyOID); ok {
			return n.oid(raw)
		}
		out := NewObject()
		v.Range(func(key string, value any) bool {
			out.Set(key, n.Normalize(value))
			return true
		})
		return out
	case map[string]any:
		if raw, ok := v[KeyDate]; ok {
			return n.date(raw)
		}
		if raw, ok := v[KeyNumberLong]; ok {
			return n.numberLong(raw)
		}
		if raw, ok := v[KeyOID]; ok {
			return n.oid(raw)
		}
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[key] = n.Normalize(value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = n.Normalize(e)
		}
		return out
	default:
		return v
	}
}

func (n Normalizer) date(raw any) any {
	if s, ok := raw.(string); ok {
		if strings.HasSuffix(s, utcOffsetSuffix) {
			return strings.TrimSuffix(s, utcOffsetSuffix) + "Z"
		}
		return s
	}

	// Canonical extended JSON nests the epoch milliseconds: {"$date": {"$numberLong": "..."}}.
	inner := n.Normalize(raw)
	switch ms := inner.(type) {
	case int64:
		return time.UnixMilli(ms).UTC().Format(dateLayout)
	case float64:
		if i, ok := Int64FromFloat(ms); ok {
			return time.UnixMilli(i).UTC().Format(dateLayout)
		}
	}
	n.malformed(KeyDate, raw)
	return inner
}

func (n Normalizer) numberLong(raw any) any {
	switch v := raw.(type) {
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			n.malformed(KeyNumberLong, raw)
			return int64(0)
		}
		return i
	case int64:
		return v
	case float64:
		i, ok := Int64FromFloat(v)
		if !ok {
			n.malformed(KeyNumberLong, raw)
			return int64(0)
		}
		return i
	default:
		n.malformed(KeyNumberLong, raw)
		return int64(0)
	}
}

// Int64FromFloat truncates f to an int64. It fails for NaN, infinities and values
// outside the int64 range.
func Int64FromFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || f < -1<<63 || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

func (n Normalizer) oid(raw any) any {
	if s, ok := raw.(string); ok {
		return s
	}
	n.malformed(KeyOID, raw)
	return n.Normalize(raw)
}

func (n Normalizer) malformed(key string, raw any) {
	if n.OnMalformed != nil {
		n.OnMalformed(MalformedValue{Key: key, Raw: raw})
	}
}

// IsWrapper reports whether v is an object holding one of the reserved wrapper keys.
func IsWrapper(v any) bool {
	switch v := v.(type) {
	case *Object:
		return v.Has(KeyDate) || v.Has(KeyNumberLong) || v.Has(KeyOID)
	case map[string]any:
		_, d := v[KeyDate]
		_, l := v[KeyNumberLong]
		_, o := v[KeyOID]
		return d || l || o
	}
	return false
}

// ContainsWrapper reports whether any value inside v, at any depth, is a wrapper object.
func ContainsWrapper(v any) bool {
	if IsWrapper(v) {
		return true
	}
	switch v := v.(type) {
	case *Object:
		found := false
		v.Range(func(_ string, value any) bool {
			found = ContainsWrapper(value)
			return !found
		})
		return found
	case map[string]any:
		for _, value := range v {
			if ContainsWrapper(value) {
				return true
			}
		}
	case []any:
		for _, e := range v {
			if ContainsWrapper(e) {
				return true
			}
		}
	}
	return false
}

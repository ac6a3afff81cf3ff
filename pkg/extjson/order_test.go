package extjson

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"null before false", nil, false, -1},
		{"false before true", false, true, -1},
		{"true before number", true, int64(0), -1},
		{"number before string", int64(99), "1", -1},
		{"string before array", "z", []any{}, -1},
		{"array before object", []any{int64(1)}, NewObject(), -1},
		{"int and float equal", int64(5), 5.0, 0},
		{"int below float", int64(5), 5.5, -1},
		{"large ints exact", int64(9007199254740993), int64(9007199254740992), 1},
		{"strings", "DL", "MH", -1},
		{"equal strings", "MH", "MH", 0},
		{"arrays element-wise", []any{int64(1), "b"}, []any{int64(1), "a"}, 1},
		{"shorter array first", []any{int64(1)}, []any{int64(1), int64(2)}, -1},
		{"objects by key then value", map[string]any{"a": int64(1)}, map[string]any{"a": int64(2)}, -1},
		{"object kinds mix", map[string]any{"a": int64(1)}, func() *Object {
			o := NewObject()
			o.Set("a", int64(1))
			return o
		}(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestCompare_SortsMixedValues(t *testing.T) {
	values := []any{"b", int64(3), nil, true, 1.5, "a", false}

	sort.Slice(values, func(i, j int) bool { return Compare(values[i], values[j]) < 0 })

	assert.Equal(t, []any{nil, false, true, 1.5, int64(3), "a", "b"}, values)
	assert.True(t, Equal(int64(2), 2.0))
}

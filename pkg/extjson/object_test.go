package extjson

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Types(t *testing.T) {
	v, err := Parse([]byte(`{"i":9007199254740993,"f":1.25,"big":1e300,"s":"x","b":false,"n":null,"a":[1,"2"],"o":{"k":"v"}}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"i", "f", "big", "s", "b", "n", "a", "o"}, obj.Keys())

	i, _ := obj.Get("i")
	assert.Equal(t, int64(9007199254740993), i)
	f, _ := obj.Get("f")
	assert.Equal(t, 1.25, f)
	big, _ := obj.Get("big")
	assert.Equal(t, 1e300, big)
	n, present := obj.Get("n")
	assert.True(t, present)
	assert.Nil(t, n)
	a, _ := obj.Get("a")
	assert.Equal(t, []any{int64(1), "2"}, a)
	o, _ := obj.Get("o")
	assert.Equal(t, map[string]any{"k": "v"}, o.(*Object).Map())

	_, present = obj.Get("missing")
	assert.False(t, present)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"a":`))
	assert.True(t, errors.Is(err, ErrInvalidJSON))
}

func TestParseArray(t *testing.T) {
	t.Run("array of objects", func(t *testing.T) {
		records, err := ParseArray([]byte(`[{"_id":"A"},{"_id":"B"}]`))
		require.NoError(t, err)
		require.Len(t, records, 2)
		id, _ := records[1].Get("_id")
		assert.Equal(t, "B", id)
	})

	t.Run("empty array", func(t *testing.T) {
		records, err := ParseArray([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("not an array", func(t *testing.T) {
		_, err := ParseArray([]byte(`{"_id":"A"}`))
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})

	t.Run("elements not objects", func(t *testing.T) {
		records, err := ParseArray([]byte(`[{"_id":"A"},3,null,"x",{"_id":"B"}]`))
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, []string{"_id"}, records[0].Keys())
		assert.Nil(t, records[1])
		assert.Nil(t, records[2])
		assert.Nil(t, records[3])
		id, ok := records[4].Get("_id")
		require.True(t, ok)
		assert.Equal(t, "B", id)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseArray([]byte(`[{"_id":"A"}`))
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})
}

func TestObject_SetKeepsPosition(t *testing.T) {
	o := NewObject()
	o.Set("b", 1)
	o.Set("a", 2)
	o.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, o.Keys())
	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"b":3,"a":2}`, string(b))
}

func TestObject_UnmarshalJSON(t *testing.T) {
	var o Object
	require.NoError(t, json.Unmarshal([]byte(`{"y":1,"x":{"$oid":"q"}}`), &o))
	assert.Equal(t, []string{"y", "x"}, o.Keys())

	var notObject Object
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &notObject))
}

func TestObject_Nil(t *testing.T) {
	var o *Object
	assert.Equal(t, 0, o.Len())
	assert.Nil(t, o.Keys())
	assert.False(t, o.Has("a"))
	assert.Nil(t, o.Map())
	b, err := o.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

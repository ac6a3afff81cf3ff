package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/cpgrams/pkg/extjson"
)

func records(t *testing.T, data string) []*extjson.Object {
	t.Helper()
	out, err := extjson.ParseArray([]byte(data))
	require.NoError(t, err)
	return out
}

func TestBuild(t *testing.T) {
	recs := records(t, `[{"_id":"A"},{"_id":"B"},{"other":1},{"_id":"A"},{"_id":null}]`)

	idx := Build("_id", recs)

	assert.Equal(t, "_id", idx.Field())
	assert.Equal(t, 3, idx.Size())
	assert.Equal(t, []int{0, 3}, idx.Lookup("A"))
	assert.Equal(t, []int{1}, idx.Lookup("B"))
	assert.Equal(t, []int{4}, idx.Lookup(nil))
	assert.Empty(t, idx.Lookup("Z"))

	pos, ok := idx.First("A")
	assert.True(t, ok)
	assert.Equal(t, 0, pos)

	_, ok = idx.First("Z")
	assert.False(t, ok)
}

func TestBuild_NumericKeys(t *testing.T) {
	recs := records(t, `[{"n":5},{"n":"5"},{"n":6}]`)

	idx := Build("n", recs)

	assert.Equal(t, []int{0}, idx.Lookup(int64(5)))
	assert.Equal(t, []int{1}, idx.Lookup("5"))
}

func TestManager(t *testing.T) {
	recs := records(t, `[{"_id":"A","state":"DL"},{"_id":"B","state":"DL"}]`)

	m := NewManager(recs, "_id", "state")

	assert.Equal(t, []int{0, 1}, m.Get("state").Lookup("DL"))
	assert.Nil(t, m.Get("sex"))

	var missing *FieldIndex
	assert.Nil(t, missing.Lookup("A"))
	assert.Equal(t, 0, missing.Size())

	var nilManager *Manager
	assert.Nil(t, nilManager.Get("_id"))
}

// Package index provides in-memory value indexes over a collection snapshot.
package index

import (
	"fmt"

	canonicaljson "github.com/gibson042/canonicaljson-go"

	"github.com/ssargent/cpgrams/pkg/extjson"
)

// FieldIndex maps each value of one field to the positions of the records holding it.
// It is built once per snapshot and never modified, so it is safe for concurrent reads.
type FieldIndex struct {
	field   string
	entries map[string][]int
}

// Key returns the index key of a value. Numerically equal values share a key.
func Key(v any) string {
	b, err := canonicaljson.Marshal(extjson.Plain(v))
	if err != nil {
		return fmt.Sprintf("%T:%v", v, v)
	}
	return string(b)
}

// Build indexes field over records. Records missing the field are not indexed.
func Build(field string, records []*extjson.Object) *FieldIndex {
	idx := &FieldIndex{
		field:   field,
		entries: make(map[string][]int),
	}
	for pos, r := range records {
		v, ok := r.Get(field)
		if !ok {
			continue
		}
		key := Key(v)
		idx.entries[key] = append(idx.entries[key], pos)
	}
	return idx
}

// Field returns the indexed field name.
func (idx *FieldIndex) Field() string {
	return idx.field
}

// Lookup returns the positions of records whose field equals value, in ascending order.
func (idx *FieldIndex) Lookup(value any) []int {
	if idx == nil {
		return nil
	}
	return idx.entries[Key(value)]
}

// First returns the position of the first record whose field equals value.
func (idx *FieldIndex) First(value any) (int, bool) {
	positions := idx.Lookup(value)
	if len(positions) == 0 {
		return 0, false
	}
	return positions[0], true
}

// Size returns the number of distinct indexed values.
func (idx *FieldIndex) Size() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Manager holds the indexes of one snapshot, one per field.
type Manager struct {
	indexes map[string]*FieldIndex
}

// NewManager builds an index for every listed field.
func NewManager(records []*extjson.Object, fields ...string) *Manager {
	m := &Manager{indexes: make(map[string]*FieldIndex, len(fields))}
	for _, f := range fields {
		m.indexes[f] = Build(f, records)
	}
	return m
}

// Get returns the index for field, or nil if the field is not indexed.
func (m *Manager) Get(field string) *FieldIndex {
	if m == nil {
		return nil
	}
	return m.indexes[field]
}

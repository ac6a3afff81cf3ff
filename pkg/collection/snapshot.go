// Package collection loads the record collection and publishes it as immutable snapshots.
package collection

import (
	"time"

	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/index"
	"github.com/ssargent/cpgrams/pkg/query"
)

// Snapshot is one loaded, normalized version of the collection. It is never modified
// after creation, so queries read it without locking.
type Snapshot struct {
	Records  []*extjson.Object
	Source   string
	LoadedAt time.Time
	Version  uint64

	idField string
	indexes *index.Manager
}

// NewSnapshot wraps normalized records and indexes idField.
func NewSnapshot(records []*extjson.Object, idField, source string, loadedAt time.Time, version uint64) *Snapshot {
	return &Snapshot{
		Records:  records,
		Source:   source,
		LoadedAt: loadedAt,
		Version:  version,
		idField:  idField,
		indexes:  index.NewManager(records, idField),
	}
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// FindByID returns the first record whose identifier equals id. Without an id index
// the records are scanned.
func (s *Snapshot) FindByID(id any) (*extjson.Object, bool) {
	if s == nil {
		return nil, false
	}
	idx := s.indexes.Get(s.idField)
	if idx == nil {
		return query.FindFirst(s.Records, query.Equals{Field: s.idField, Value: id})
	}
	pos, ok := idx.First(id)
	if !ok {
		return nil, false
	}
	return s.Records[pos], true
}

// IDIndexSize returns the number of distinct identifiers.
func (s *Snapshot) IDIndexSize() int {
	if s == nil {
		return 0
	}
	return s.indexes.Get(s.idField).Size()
}

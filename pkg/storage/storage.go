// Package storage persists imported collection snapshots in pebble.
//
// Every snapshot is identified by a KSUID, so snapshot ids sort by creation time.
// Key layout:
//
//	<ksuid>                 snapshot header (JSON SnapshotInfo)
//	<ksuid><uint64 BE pos>  normalized record at position pos
package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/collection"
	"github.com/ssargent/cpgrams/pkg/extjson"
)

// ErrNoSnapshots is returned when the store holds no complete snapshot.
var ErrNoSnapshots = fmt.Errorf("no snapshots imported: %w", collection.ErrNoData)

const batchSize = 10000

// SnapshotInfo describes one imported snapshot.
type SnapshotInfo struct {
	ID        ksuid.KSUID `json:"id"`
	Source    string      `json:"source"`
	Records   int         `json:"records"`
	CreatedAt time.Time   `json:"created_at"`
}

// Store is a pebble-backed snapshot store.
type Store struct {
	db     *pebble.DB
	dir    string
	logger *zap.Logger
}

// Open opens or creates the store in dir.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble store at %s: %w", dir, err)
	}
	return &Store{db: db, dir: dir, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func recordKey(id ksuid.KSUID, pos uint64) []byte {
	key := make([]byte, 0, len(ksuid.Nil)+8)
	key = append(key, id.Bytes()...)
	return binary.BigEndian.AppendUint64(key, pos)
}

// Import writes records as a new snapshot. The header is written last, so an interrupted
// import never shows up in Snapshots.
func (s *Store) Import(ctx context.Context, records []*extjson.Object, source string) (SnapshotInfo, error) {
	id, err := s.nextID()
	if err != nil {
		return SnapshotInfo{}, err
	}
	info := SnapshotInfo{
		ID:        id,
		Source:    source,
		Records:   len(records),
		CreatedAt: time.Now().UTC(),
	}

	batch := s.db.NewBatch()
	for pos, r := range records {
		if err := ctx.Err(); err != nil {
			batch.Close()
			return SnapshotInfo{}, err
		}
		data, err := r.MarshalJSON()
		if err != nil {
			batch.Close()
			return SnapshotInfo{}, fmt.Errorf("failed to encode record %d: %w", pos, err)
		}
		if err := batch.Set(recordKey(info.ID, uint64(pos)), data, nil); err != nil {
			batch.Close()
			return SnapshotInfo{}, err
		}
		if batch.Count() >= batchSize {
			if err := batch.Commit(pebble.NoSync); err != nil {
				batch.Close()
				return SnapshotInfo{}, fmt.Errorf("failed to write records: %w", err)
			}
			batch.Close()
			batch = s.db.NewBatch()
		}
	}
	if err := batch.Commit(pebble.NoSync); err != nil {
		batch.Close()
		return SnapshotInfo{}, fmt.Errorf("failed to write records: %w", err)
	}
	batch.Close()

	header, err := json.Marshal(info)
	if err != nil {
		return SnapshotInfo{}, err
	}
	if err := s.db.Set(info.ID.Bytes(), header, pebble.Sync); err != nil {
		return SnapshotInfo{}, fmt.Errorf("failed to write snapshot header: %w", err)
	}

	s.logger.Info("snapshot imported",
		zap.String("id", info.ID.String()),
		zap.String("source", source),
		zap.Int("records", info.Records))
	return info, nil
}

// nextID returns a new id that sorts after every complete snapshot. ksuids only
// have second resolution, so two imports in the same second need the bump.
func (s *Store) nextID() (ksuid.KSUID, error) {
	id := ksuid.New()
	latest, err := s.Latest()
	if errors.Is(err, ErrNoSnapshots) {
		return id, nil
	}
	if err != nil {
		return ksuid.Nil, err
	}
	if ksuid.Compare(id, latest.ID) <= 0 {
		id = latest.ID.Next()
	}
	return id, nil
}

// Snapshots lists complete snapshots, oldest first.
func (s *Store) Snapshots() ([]SnapshotInfo, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []SnapshotInfo
	for valid := iter.First(); valid; {
		key := iter.Key()
		if len(key) < len(ksuid.Nil) {
			valid = iter.Next()
			continue
		}
		id, err := ksuid.FromBytes(key[:len(ksuid.Nil)])
		if err != nil {
			return nil, err
		}
		if len(key) == len(ksuid.Nil) {
			var info SnapshotInfo
			if err := json.Unmarshal(iter.Value(), &info); err != nil {
				return nil, fmt.Errorf("corrupt header for snapshot %s: %w", id, err)
			}
			out = append(out, info)
		}
		valid = iter.SeekGE(id.Next().Bytes())
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return out, nil
}

// Latest returns the newest complete snapshot.
func (s *Store) Latest() (SnapshotInfo, error) {
	snaps, err := s.Snapshots()
	if err != nil {
		return SnapshotInfo{}, err
	}
	if len(snaps) == 0 {
		return SnapshotInfo{}, ErrNoSnapshots
	}
	return snaps[len(snaps)-1], nil
}

// Records reads the records of snapshot id in position order.
func (s *Store) Records(ctx context.Context, id ksuid.KSUID) ([]*extjson.Object, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: id.Bytes(),
		UpperBound: id.Next().Bytes(),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var records []*extjson.Object
	for valid := iter.First(); valid; valid = iter.Next() {
		if len(iter.Key()) == len(ksuid.Nil) {
			continue
		}
		if len(records)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		v, err := extjson.Parse(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("corrupt record in snapshot %s: %w", id, err)
		}
		obj, ok := v.(*extjson.Object)
		if !ok {
			return nil, fmt.Errorf("corrupt record in snapshot %s: not an object", id)
		}
		records = append(records, obj)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes a snapshot and its records.
func (s *Store) Delete(id ksuid.KSUID) error {
	return s.db.DeleteRange(id.Bytes(), id.Next().Bytes(), pebble.Sync)
}

// Prune deletes all but the newest keep snapshots and returns how many were removed.
func (s *Store) Prune(keep int) (int, error) {
	snaps, err := s.Snapshots()
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := 0; i < len(snaps)-keep; i++ {
		if err := s.Delete(snaps[i].ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Describe names the store as a collection source.
func (s *Store) Describe() string {
	return "pebble:" + s.dir
}

// Load returns the records of the latest snapshot, so a Store can back a collection.
func (s *Store) Load(ctx context.Context) ([]*extjson.Object, error) {
	info, err := s.Latest()
	if err != nil {
		return nil, err
	}
	return s.Records(ctx, info.ID)
}

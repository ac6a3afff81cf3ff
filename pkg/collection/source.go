package collection

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/qerror"
)

// ErrNoData is returned by a source that has nothing to load. Retrying does not help.
var ErrNoData = errors.New("source has no data")

// Source produces the normalized records of a collection.
type Source interface {
	Load(ctx context.Context) ([]*extjson.Object, error)
	Describe() string
}

// FileSource reads a JSON array of records from disk.
type FileSource struct {
	Path   string
	Logger *zap.Logger
}

// NewFileSource creates a source for the JSON file at path.
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{Path: path, Logger: logger}
}

// Describe returns the file path.
func (s *FileSource) Describe() string {
	return "file:" + s.Path
}

// Load reads, parses and normalizes the file.
func (s *FileSource) Load(ctx context.Context) ([]*extjson.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}

	raw, err := extjson.ParseArray(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}

	return Normalize(raw, s.Logger), nil
}

// Normalize strips extended-JSON wrappers from every record. Malformed wrapper payloads
// are logged and replaced. Elements that are not objects, and records that are
// themselves wrappers, are dropped with a warning.
func Normalize(raw []*extjson.Object, logger *zap.Logger) []*extjson.Object {
	if logger == nil {
		logger = zap.NewNop()
	}

	malformed := 0
	records := make([]*extjson.Object, 0, len(raw))
	dropped := 0
	for pos, r := range raw {
		if r == nil {
			dropped++
			logger.Warn("dropping element that is not an object", zap.Int("position", pos))
			continue
		}

		n := extjson.Normalizer{OnMalformed: func(m extjson.MalformedValue) {
			malformed++
			logger.Warn("malformed value replaced",
				zap.Int("position", pos),
				zap.Error(qerror.NewMalformedValue(m.Key, extjson.Plain(m.Raw))))
		}}

		obj, ok := n.NormalizeObject(r).(*extjson.Object)
		if !ok {
			dropped++
			logger.Warn("dropping record that is not an object after normalization", zap.Int("position", pos))
			continue
		}
		records = append(records, obj)
	}

	if malformed > 0 || dropped > 0 {
		logger.Info("normalized collection",
			zap.Int("records", len(records)),
			zap.Int("malformed_values", malformed),
			zap.Int("dropped", dropped))
	}
	return records
}

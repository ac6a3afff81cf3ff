package di

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/collection"
	"github.com/ssargent/cpgrams/pkg/config"
	"github.com/ssargent/cpgrams/pkg/storage"
)

// SourceFactory creates the collection source named by the data configuration.
// The returned closer releases whatever the source holds open.
type SourceFactory interface {
	CreateSource(data config.Data) (collection.Source, io.Closer, error)
}

// DefaultSourceFactory is the default implementation of SourceFactory
type DefaultSourceFactory struct {
	logger *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(logger *zap.Logger) SourceFactory {
	if logger == nil {
		logger = zap.L()
	}
	return &DefaultSourceFactory{logger: logger}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// CreateSource opens a JSON file source or the pebble snapshot store
func (f *DefaultSourceFactory) CreateSource(data config.Data) (collection.Source, io.Closer, error) {
	switch data.Source {
	case config.SourceFile, "":
		return collection.NewFileSource(data.File, f.logger), nopCloser{}, nil
	case config.SourcePebble:
		store, err := storage.Open(data.PebbleDir, f.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", data.Source)
	}
}

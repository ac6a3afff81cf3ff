package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ssargent/cpgrams/pkg/api"
	"github.com/ssargent/cpgrams/pkg/collection"
	"github.com/ssargent/cpgrams/pkg/config"
	"github.com/ssargent/cpgrams/pkg/engine"
	"github.com/ssargent/cpgrams/pkg/fields"
	"github.com/ssargent/cpgrams/pkg/query"
)

// openEngine loads the configured collection and returns an engine over it.
// With non-nil metrics, loads and engine operations are recorded.
// The closer releases the underlying source.
func openEngine(ctx context.Context, c *config.Config, metrics *api.Metrics) (*engine.Engine, *collection.Holder, io.Closer, error) {
	if container == nil {
		return nil, nil, nil, fmt.Errorf("dependency container not initialized")
	}

	source, closer, err := container.GetSourceFactory().CreateSource(c.Data)
	if err != nil {
		return nil, nil, nil, err
	}

	holderOpts := []collection.HolderOption{
		collection.WithLogger(logger),
		collection.WithRetry(c.Data.LoadRetries, collection.DefaultInitialInterval),
	}
	engineOpts := []engine.Option{
		engine.WithExecutor(query.NewExecutor(c.Query.ChunkSize, c.Query.Workers)),
		engine.WithLimits(engine.Limits{Default: c.Query.DefaultLimit, Max: c.Query.MaxLimit}),
	}
	if metrics != nil {
		holderOpts = append(holderOpts, collection.WithLoadHook(func(s *collection.Snapshot, err error) {
			if err != nil {
				metrics.RecordCollectionLoad(0, false)
				return
			}
			metrics.RecordCollectionLoad(s.Len(), true)
		}))
		engineOpts = append(engineOpts, engine.WithObserver(metrics))
	}

	holder := collection.NewHolder(source, fields.ID, holderOpts...)
	if err := holder.Load(ctx); err != nil {
		_ = closer.Close()
		return nil, nil, nil, err
	}

	return engine.New(fields.Default(), holder, engineOpts...), holder, closer, nil
}

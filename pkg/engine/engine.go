// Package engine exposes the grievance query operations over the current collection snapshot.
package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/collection"
	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/fields"
	"github.com/ssargent/cpgrams/pkg/logging"
	"github.com/ssargent/cpgrams/pkg/qerror"
	"github.com/ssargent/cpgrams/pkg/query"
)

// SnapshotProvider returns the snapshot a call should read.
type SnapshotProvider interface {
	Current() *collection.Snapshot
}

// Observer receives the outcome of every engine operation.
type Observer interface {
	ObserveOperation(op string, d time.Duration, err error)
}

// Limits bound the pagination window.
type Limits struct {
	Default int
	Max     int
}

// Engine runs queries and aggregations against one snapshot per call.
type Engine struct {
	registry *fields.Registry
	provider SnapshotProvider
	executor *query.Executor
	limits   Limits
	observer Observer
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithExecutor sets the scan executor.
func WithExecutor(exec *query.Executor) Option {
	return func(e *Engine) {
		e.executor = exec
	}
}

// WithLimits sets the default and maximum page size.
func WithLimits(l Limits) Option {
	return func(e *Engine) {
		if l.Default > 0 {
			e.limits.Default = l.Default
		}
		if l.Max > 0 {
			e.limits.Max = l.Max
		}
	}
}

// WithObserver registers an operation observer, e.g. metrics.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithClock overrides the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine.
func New(registry *fields.Registry, provider SnapshotProvider, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		provider: provider,
		executor: query.NewExecutor(0, 0),
		limits:   Limits{Default: query.DefaultLimit, Max: query.MaxLimit},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the field registry.
func (e *Engine) Registry() *fields.Registry {
	return e.registry
}

// Limits returns the pagination limits.
func (e *Engine) Limits() Limits {
	return e.limits
}

func (e *Engine) snapshot() (*collection.Snapshot, error) {
	s := e.provider.Current()
	if s == nil {
		return nil, qerror.New(qerror.LoadFailure, "collection is not loaded")
	}
	return s, nil
}

func (e *Engine) observe(ctx context.Context, op string, start time.Time, err error) {
	d := time.Since(start)
	if e.observer != nil {
		e.observer.ObserveOperation(op, d, err)
	}
	if err != nil {
		if _, ok := qerror.As(err); !ok && !errors.Is(err, context.Canceled) {
			logging.FromContext(ctx).Error("operation failed", zap.String("operation", op), zap.Error(err))
		}
	}
}

// GetByID returns the first record whose identifier equals id.
func (e *Engine) GetByID(ctx context.Context, id string) (record *extjson.Object, err error) {
	defer func(start time.Time) { e.observe(ctx, "get_by_id", start, err) }(time.Now())

	s, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	if r, ok := s.FindByID(id); ok {
		return r, nil
	}
	return nil, qerror.NewNotFound(id)
}

// Query filters the collection and returns the requested page.
func (e *Engine) Query(ctx context.Context, spec query.FilterSpec, page query.Page) (result *query.ResultPage, err error) {
	defer func(start time.Time) { e.observe(ctx, "query", start, err) }(time.Now())

	if err := page.Validate(e.limits.Max); err != nil {
		return nil, err
	}
	cond, err := query.Compile(spec, e.registry)
	if err != nil {
		return nil, err
	}
	s, err := e.snapshot()
	if err != nil {
		return nil, err
	}

	result, err = e.executor.Execute(ctx, s.Records, cond, page)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		spec = query.FilterSpec{}
	}
	result.FiltersApplied = spec
	result.Timestamp = e.now().UTC()
	return result, nil
}

// UniqueValues returns the sorted distinct values of an allow-listed field.
func (e *Engine) UniqueValues(ctx context.Context, field string) (result *query.UniqueValuesResult, err error) {
	defer func(start time.Time) { e.observe(ctx, "unique_values", start, err) }(time.Now())

	if !e.registry.Allowed(fields.OpUniqueValues, field) {
		return nil, qerror.NewInvalidField(field, e.registry.AllowList(fields.OpUniqueValues))
	}
	s, err := e.snapshot()
	if err != nil {
		return nil, err
	}

	values, err := query.UniqueValues(ctx, s.Records, field)
	if err != nil {
		return nil, err
	}
	return &query.UniqueValuesResult{
		Field:        field,
		UniqueValues: values,
		Count:        len(values),
		Timestamp:    e.now().UTC(),
	}, nil
}

// Statistics returns the value distribution of an allow-listed field.
func (e *Engine) Statistics(ctx context.Context, field string) (result *query.FieldStatistics, err error) {
	defer func(start time.Time) { e.observe(ctx, "statistics", start, err) }(time.Now())

	if !e.registry.Allowed(fields.OpStatistics, field) {
		return nil, qerror.NewInvalidField(field, e.registry.AllowList(fields.OpStatistics))
	}
	s, err := e.snapshot()
	if err != nil {
		return nil, err
	}

	buckets, err := query.GroupStatistics(ctx, s.Records, field, e.registry)
	if err != nil {
		return nil, err
	}
	return &query.FieldStatistics{
		Field:        field,
		UniqueValues: len(buckets),
		Distribution: buckets,
		Timestamp:    e.now().UTC(),
	}, nil
}

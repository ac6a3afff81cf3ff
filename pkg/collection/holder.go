package collection

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/qerror"
)

// Retry defaults for loading: five attempts in total.
const (
	DefaultMaxRetries      = 4
	DefaultInitialInterval = 500 * time.Millisecond
)

// Holder publishes the current snapshot. Reloads swap the snapshot atomically; queries
// that already hold the previous snapshot keep reading it.
type Holder struct {
	source  Source
	idField string
	logger  *zap.Logger

	maxRetries      uint64
	initialInterval time.Duration
	onLoad          func(s *Snapshot, err error)
	now             func() time.Time

	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// HolderOption configures a Holder.
type HolderOption func(*Holder)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) HolderOption {
	return func(h *Holder) {
		h.logger = logger
	}
}

// WithRetry sets the number of retries after the first attempt and the first backoff interval.
func WithRetry(maxRetries uint64, initialInterval time.Duration) HolderOption {
	return func(h *Holder) {
		h.maxRetries = maxRetries
		h.initialInterval = initialInterval
	}
}

// WithLoadHook registers fn to be called after every load attempt sequence.
func WithLoadHook(fn func(s *Snapshot, err error)) HolderOption {
	return func(h *Holder) {
		h.onLoad = fn
	}
}

// NewHolder creates a holder for source. Nothing is loaded until Load is called.
func NewHolder(source Source, idField string, opts ...HolderOption) *Holder {
	h := &Holder{
		source:          source,
		idField:         idField,
		logger:          zap.NewNop(),
		maxRetries:      DefaultMaxRetries,
		initialInterval: DefaultInitialInterval,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Current returns the published snapshot, or nil before the first successful load.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Ready reports whether a snapshot has been published.
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}

// Source returns the underlying source.
func (h *Holder) Source() Source {
	return h.source
}

// Set publishes records as a new snapshot.
func (h *Holder) Set(records []*extjson.Object, source string) *Snapshot {
	s := NewSnapshot(records, h.idField, source, h.now().UTC(), h.version.Add(1))
	h.current.Store(s)
	return s
}

// Load reads the source with bounded exponential backoff and publishes the result.
// Invalid JSON and ErrNoData are not retried. On failure the previous snapshot stays published and
// a LoadFailure error is returned.
func (h *Holder) Load(ctx context.Context) error {
	var records []*extjson.Object

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = h.initialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, h.maxRetries), ctx)

	operation := func() error {
		recs, err := h.source.Load(ctx)
		if err != nil {
			if errors.Is(err, extjson.ErrInvalidJSON) || errors.Is(err, ErrNoData) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		records = recs
		return nil
	}

	notify := func(err error, next time.Duration) {
		h.logger.Warn("collection load failed, retrying",
			zap.String("source", h.source.Describe()),
			zap.Duration("retry_in", next),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		loadErr := qerror.NewLoadFailure(h.source.Describe(), err)
		if h.onLoad != nil {
			h.onLoad(nil, loadErr)
		}
		return loadErr
	}

	s := h.Set(records, h.source.Describe())
	h.logger.Info("collection loaded",
		zap.String("source", s.Source),
		zap.Int("records", s.Len()),
		zap.Int("distinct_ids", s.IDIndexSize()),
		zap.Uint64("version", s.Version))
	if h.onLoad != nil {
		h.onLoad(s, nil)
	}
	return nil
}

// Reload loads the source again. Failures are logged and the old snapshot is kept.
func (h *Holder) Reload(ctx context.Context) error {
	if err := h.Load(ctx); err != nil {
		h.logger.Error("collection reload failed, keeping previous snapshot",
			zap.String("source", h.source.Describe()),
			zap.Error(err))
		return err
	}
	return nil
}

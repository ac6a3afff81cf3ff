package query

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ssargent/cpgrams/pkg/extjson"
)

// DefaultChunkSize is the number of records one scan worker filters before
// checking for cancellation.
const DefaultChunkSize = 4096

// Executor scans a collection in parallel chunks.
type Executor struct {
	ChunkSize int
	Workers   int
}

// NewExecutor creates an executor; non-positive values fall back to defaults.
func NewExecutor(chunkSize, workers int) *Executor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Executor{ChunkSize: chunkSize, Workers: workers}
}

func (e *Executor) chunkSize() int {
	if e == nil || e.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return e.ChunkSize
}

func (e *Executor) workers() int {
	if e == nil || e.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return e.Workers
}

// Filter returns the records matching cond, in collection order.
func (e *Executor) Filter(ctx context.Context, records []*extjson.Object, cond Condition) ([]*extjson.Object, error) {
	size := e.chunkSize()
	chunks := (len(records) + size - 1) / size
	if chunks <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return matchAll(records, cond), nil
	}

	parts := make([][]*extjson.Object, chunks)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for i := 0; i < chunks; i++ {
		start := i * size
		end := min(start+size, len(records))
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[i] = matchAll(records[start:end], cond)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	matched := make([]*extjson.Object, 0, total)
	for _, p := range parts {
		matched = append(matched, p...)
	}
	return matched, nil
}

func matchAll(records []*extjson.Object, cond Condition) []*extjson.Object {
	var out []*extjson.Object
	for _, r := range records {
		if cond.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Execute filters records and slices the requested page. The page must already be validated.
func (e *Executor) Execute(ctx context.Context, records []*extjson.Object, cond Condition, page Page) (*ResultPage, error) {
	matched, err := e.Filter(ctx, records, cond)
	if err != nil {
		return nil, err
	}

	start := min(max(page.Offset, 0), len(matched))
	end := min(start+page.Limit, len(matched))
	data := make([]*extjson.Object, end-start)
	copy(data, matched[start:end])

	return &ResultPage{
		Data:          data,
		TotalCount:    len(matched),
		ReturnedCount: len(data),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}, nil
}

// FindFirst returns the first record matching cond.
func FindFirst(records []*extjson.Object, cond Condition) (*extjson.Object, bool) {
	for _, r := range records {
		if cond.Match(r) {
			return r, true
		}
	}
	return nil, false
}

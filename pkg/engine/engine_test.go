package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/cpgrams/pkg/collection"
	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/fields"
	"github.com/ssargent/cpgrams/pkg/qerror"
	"github.com/ssargent/cpgrams/pkg/query"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (o *recordingObserver) ObserveOperation(op string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.ops = append(o.ops, op+":"+status)
}

func newEngine(t *testing.T, data string, opts ...Option) (*Engine, *collection.Holder) {
	t.Helper()
	raw, err := extjson.ParseArray([]byte(data))
	require.NoError(t, err)

	h := collection.NewHolder(nil, fields.ID)
	h.Set(collection.Normalize(raw, nil), "test")

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(fields.Default(), h, opts...), h
}

const scenario = `[{"_id":"A","CategoryV7":{"$numberLong":"5"}}, {"_id":"B","CategoryV7":{"$numberLong":"7"}}]`

func TestEngine_QueryScenario(t *testing.T) {
	e, _ := newEngine(t, scenario)

	page, err := e.Query(context.Background(), query.FilterSpec{"CategoryV7": 5}, query.Page{Limit: 10})
	require.NoError(t, err)

	require.Len(t, page.Data, 1)
	id, _ := page.Data[0].Get("_id")
	assert.Equal(t, "A", id)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, 1, page.ReturnedCount)
	assert.Equal(t, query.FilterSpec{"CategoryV7": 5}, page.FiltersApplied)
	assert.Equal(t, fixedNow, page.Timestamp)
}

func TestEngine_GetByID(t *testing.T) {
	e, _ := newEngine(t, scenario)

	r, err := e.GetByID(context.Background(), "B")
	require.NoError(t, err)
	cat, _ := r.Get("CategoryV7")
	assert.Equal(t, int64(7), cat)

	_, err = e.GetByID(context.Background(), "Z")
	require.Error(t, err)
	qe, ok := qerror.As(err)
	require.True(t, ok)
	assert.Equal(t, qerror.NotFound, qe.Kind)
	assert.Equal(t, "Z", qe.Details["id"])
}

func TestEngine_QueryErrors(t *testing.T) {
	e, _ := newEngine(t, scenario, WithLimits(Limits{Max: 50}))

	_, err := e.Query(context.Background(), nil, query.Page{Limit: 51})
	assert.True(t, qerror.Is(err, qerror.InvalidPagination))

	_, err = e.Query(context.Background(), nil, query.Page{Limit: 10, Offset: -1})
	assert.True(t, qerror.Is(err, qerror.InvalidPagination))

	_, err = e.Query(context.Background(), query.FilterSpec{"state": map[string]any{"from": "A"}}, query.DefaultPage())
	assert.True(t, qerror.Is(err, qerror.InvalidFilterKind))

	page, err := e.Query(context.Background(), nil, query.DefaultPage())
	require.NoError(t, err)
	assert.Equal(t, query.FilterSpec{}, page.FiltersApplied)
	assert.Equal(t, 2, page.TotalCount)
}

func TestEngine_UniqueValues(t *testing.T) {
	e, _ := newEngine(t, scenario)

	res, err := e.UniqueValues(context.Background(), "CategoryV7")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(5), int64(7)}, res.UniqueValues)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "CategoryV7", res.Field)

	_, err = e.UniqueValues(context.Background(), "password")
	require.Error(t, err)
	qe, ok := qerror.As(err)
	require.True(t, ok)
	assert.Equal(t, qerror.InvalidField, qe.Kind)
	assert.Equal(t, "password", qe.Details["field"])
	assert.Contains(t, qe.Details["allowed"], "CategoryV7")
}

func TestEngine_Statistics(t *testing.T) {
	e, _ := newEngine(t, `[{"sex":"M"},{"sex":"M"},{"sex":"F"}]`)

	res, err := e.Statistics(context.Background(), "sex")
	require.NoError(t, err)
	assert.Equal(t, []query.Bucket{{Value: "M", Count: 2}, {Value: "F", Count: 1}}, res.Distribution)
	assert.Equal(t, 2, res.UniqueValues)

	_, err = e.Statistics(context.Background(), "_id")
	assert.True(t, qerror.Is(err, qerror.InvalidField))
}

func TestEngine_NotLoaded(t *testing.T) {
	e := New(fields.Default(), collection.NewHolder(nil, fields.ID))

	_, err := e.Query(context.Background(), nil, query.DefaultPage())
	assert.True(t, qerror.Is(err, qerror.LoadFailure))

	_, err = e.GetByID(context.Background(), "A")
	assert.True(t, qerror.Is(err, qerror.LoadFailure))

	h := e.Health(context.Background())
	assert.Equal(t, StatusUnhealthy, h.Status)
	assert.False(t, h.Ready)
}

func TestEngine_SnapshotSwapBetweenCalls(t *testing.T) {
	e, h := newEngine(t, scenario)

	before, err := e.Query(context.Background(), nil, query.DefaultPage())
	require.NoError(t, err)

	obj := extjson.NewObject()
	obj.Set("_id", "C")
	h.Set([]*extjson.Object{obj}, "reloaded")

	after, err := e.Query(context.Background(), nil, query.DefaultPage())
	require.NoError(t, err)

	assert.Equal(t, 2, before.TotalCount)
	assert.Equal(t, 1, after.TotalCount)
	assert.Equal(t, "reloaded", e.Health(context.Background()).Source)
}

func TestEngine_HealthAndSchema(t *testing.T) {
	e, _ := newEngine(t, scenario)

	h := e.Health(context.Background())
	assert.Equal(t, StatusHealthy, h.Status)
	assert.Equal(t, 2, h.TotalRecords)
	assert.Equal(t, uint64(1), h.SnapshotVersion)
	assert.Equal(t, fixedNow, h.Timestamp)

	s := e.Schema()
	assert.Equal(t, "_id", s.IDField)
	assert.Len(t, s.UniqueValueFields, 14)
	assert.Len(t, s.StatisticsFields, 10)
	assert.Equal(t, []string{"DiaryDate", "closing_date", "recvd_date", "resolution_date"}, s.DateFields)
}

func TestEngine_Observer(t *testing.T) {
	obs := &recordingObserver{}
	e, _ := newEngine(t, scenario, WithObserver(obs))

	_, _ = e.GetByID(context.Background(), "A")
	_, _ = e.GetByID(context.Background(), "Z")
	_, _ = e.Statistics(context.Background(), "sex")

	assert.Equal(t, []string{"get_by_id:ok", "get_by_id:error", "statistics:ok"}, obs.ops)
}

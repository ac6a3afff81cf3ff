package engine

import (
	"context"
	"time"

	"github.com/ssargent/cpgrams/pkg/fields"
)

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Health reports whether a collection is loaded.
type Health struct {
	Status          string     `json:"status"`
	Ready           bool       `json:"ready"`
	TotalRecords    int        `json:"total_records"`
	Source          string     `json:"source,omitempty"`
	SnapshotVersion uint64     `json:"snapshot_version,omitempty"`
	LoadedAt        *time.Time `json:"loaded_at,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
}

// Health describes the current snapshot.
func (e *Engine) Health(_ context.Context) Health {
	h := Health{Status: StatusUnhealthy, Timestamp: e.now().UTC()}
	s := e.provider.Current()
	if s == nil {
		return h
	}
	loadedAt := s.LoadedAt
	h.Status = StatusHealthy
	h.Ready = true
	h.TotalRecords = s.Len()
	h.Source = s.Source
	h.SnapshotVersion = s.Version
	h.LoadedAt = &loadedAt
	return h
}

// Schema describes the record fields and the fields each aggregation accepts.
type Schema struct {
	Fields            []fields.Field `json:"fields"`
	UniqueValueFields []string       `json:"unique_value_fields"`
	StatisticsFields  []string       `json:"statistics_fields"`
	DateFields        []string       `json:"date_fields"`
	IDField           string         `json:"id_field"`
	Description       string         `json:"description"`
}

// Schema returns the field schema.
func (e *Engine) Schema() Schema {
	return Schema{
		Fields:            e.registry.Fields(),
		UniqueValueFields: e.registry.AllowList(fields.OpUniqueValues),
		StatisticsFields:  e.registry.AllowList(fields.OpStatistics),
		DateFields:        e.registry.DateFields(),
		IDField:           e.registry.IDField(),
		Description:       "Schema for grievance records",
	}
}

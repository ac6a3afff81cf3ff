package query

import (
	"strconv"
	"time"

	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/qerror"
)

// Pagination bounds.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// FilterSpec maps a field name to a scalar (equality), a list (any of) or a
// range object with optional "from"/"to" bounds.
type FilterSpec map[string]any

// Page is the pagination window of a query.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultPage returns the first page with the default limit.
func DefaultPage() Page {
	return Page{Limit: DefaultLimit}
}

// Validate checks the window against maxLimit. Limits above the maximum are rejected, not clamped.
func (p Page) Validate(maxLimit int) error {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if p.Limit < 1 {
		return qerror.NewInvalidPagination("limit", p.Limit, "must be at least 1")
	}
	if p.Limit > maxLimit {
		return qerror.NewInvalidPagination("limit", p.Limit, "exceeds maximum of "+strconv.Itoa(maxLimit))
	}
	if p.Offset < 0 {
		return qerror.NewInvalidPagination("offset", p.Offset, "must not be negative")
	}
	return nil
}

// ResultPage is one page of matching records.
type ResultPage struct {
	Data           []*extjson.Object `json:"data"`
	TotalCount     int               `json:"total_count"`
	ReturnedCount  int               `json:"returned_count"`
	FiltersApplied FilterSpec        `json:"filters_applied"`
	Limit          int               `json:"limit"`
	Offset         int               `json:"offset"`
	Timestamp      time.Time         `json:"timestamp"`
}

// Bucket is one (value, count) pair of a distribution.
type Bucket struct {
	Value any `json:"value"`
	Count int `json:"count"`
}

// FieldStatistics is the value distribution of one field.
type FieldStatistics struct {
	Field        string    `json:"field"`
	UniqueValues int       `json:"unique_values"`
	Distribution []Bucket  `json:"distribution"`
	Timestamp    time.Time `json:"timestamp"`
}

// UniqueValuesResult lists the distinct values of one field.
type UniqueValuesResult struct {
	Field        string    `json:"field"`
	UniqueValues []any     `json:"unique_values"`
	Count        int       `json:"count"`
	Timestamp    time.Time `json:"timestamp"`
}

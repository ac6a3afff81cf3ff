package api

import (
	"context"

	"github.com/ssargent/cpgrams/pkg/engine"
	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/query"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool           `json:"success"`
	Data    interface{}    `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ByIDRequest is the body of a lookup by grievance id
type ByIDRequest struct {
	GrievanceID string `json:"grievance_id"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind        string
	Port        int
	APIKey      string // empty disables authentication
	CORSOrigins []string
	Version     string
}

// QueryService defines the engine operations the API serves
type QueryService interface {
	GetByID(ctx context.Context, id string) (*extjson.Object, error)
	Query(ctx context.Context, spec query.FilterSpec, page query.Page) (*query.ResultPage, error)
	UniqueValues(ctx context.Context, field string) (*query.UniqueValuesResult, error)
	Statistics(ctx context.Context, field string) (*query.FieldStatistics, error)
	Health(ctx context.Context) engine.Health
	Schema() engine.Schema
	Limits() engine.Limits
}

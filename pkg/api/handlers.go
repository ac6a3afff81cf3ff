package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/engine"
	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/query"
)

// maxRequestBodyBytes bounds POST request bodies.
const maxRequestBodyBytes = 1 << 20

// Server holds the API server state
type Server struct {
	svc     QueryService
	config  ServerConfig
	metrics *Metrics
	logger  *zap.Logger
}

// NewServer creates a new API server
func NewServer(svc QueryService, config ServerConfig, metrics *Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.L()
	}
	return &Server{
		svc:     svc,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// RootInfo describes the service at GET /
type RootInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version,omitempty"`
	Endpoints map[string]string `json:"endpoints"`
}

// SchemaResponse is the schema plus filtering hints
type SchemaResponse struct {
	engine.Schema
	Filtering map[string]string `json:"filtering"`
	Timestamp time.Time         `json:"timestamp"`
}

// handleRoot godoc
//
//	@Summary		Service information
//	@Tags			info
//	@Produce		json
//	@Success		200	{object}	APIResponse{data=RootInfo}
//	@Router			/ [get]
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, RootInfo{
		Service: "cpgrams grievance query API",
		Version: s.config.Version,
		Endpoints: map[string]string{
			"grievances":    "/api/grievances/",
			"filter":        "/api/grievances/filter",
			"by_id":         "/api/grievances/by-id",
			"unique_values": "/api/grievances/unique-values/{field}",
			"statistics":    "/api/grievances/statistics/{field}",
			"schema":        "/api/grievances/schema",
			"health":        "/api/health",
			"metrics":       "/metrics",
			"docs":          "/swagger/index.html",
		},
	})
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Reports whether a grievance collection is loaded
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse{data=engine.Health}
//	@Failure		503	{object}	APIResponse{data=engine.Health}
//	@Router			/api/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.svc.Health(r.Context())
	healthy := h.Status == engine.StatusHealthy
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(healthy)
	}
	if !healthy {
		writeJSON(w, http.StatusServiceUnavailable, APIResponse{
			Success: false,
			Data:    h,
			Error:   "collection is not loaded",
		})
		return
	}
	sendSuccess(w, h)
}

// handleListGrievances godoc
//
//	@Summary		List grievances
//	@Description	Filter grievances with query parameters. Repeated parameters match any of the values.
//	@Tags			grievances
//	@Produce		json
//	@Param			state				query		string	false	"State code"
//	@Param			org_code			query		string	false	"Organization code"
//	@Param			sex					query		string	false	"Gender (M/F)"
//	@Param			CategoryV7			query		integer	false	"Category V7 number"
//	@Param			dist_name			query		string	false	"District name"
//	@Param			pincode				query		string	false	"Pincode"
//	@Param			v7_target			query		string	false	"V7 target (Yes/No)"
//	@Param			diary_date_from		query		string	false	"DiaryDate lower bound (YYYY-MM-DD)"
//	@Param			diary_date_to		query		string	false	"DiaryDate upper bound (YYYY-MM-DD)"
//	@Param			recvd_date_from		query		string	false	"Received date lower bound"
//	@Param			recvd_date_to		query		string	false	"Received date upper bound"
//	@Param			closing_date_from	query		string	false	"Closing date lower bound"
//	@Param			closing_date_to		query		string	false	"Closing date upper bound"
//	@Param			limit				query		integer	false	"Number of records to return (max 1000)"
//	@Param			offset				query		integer	false	"Number of records to skip"
//	@Success		200					{object}	APIResponse{data=query.ResultPage}
//	@Failure		400					{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/api/grievances/ [get]
func (s *Server) handleListGrievances(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, s.svc.Limits().Default)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	result, err := s.svc.Query(r.Context(), filterSpecFromQuery(r.URL.Query()), page)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendSuccess(w, result)
}

// handleFilterGrievances godoc
//
//	@Summary		Filter grievances
//	@Description	Filter with a JSON body mapping field names to a value, a list of values or a {"from","to"} range
//	@Tags			grievances
//	@Accept			json
//	@Produce		json
//	@Param			filters	body		map[string]interface{}	true	"Filter spec"
//	@Param			limit	query		integer					false	"Number of records to return (max 1000)"
//	@Param			offset	query		integer					false	"Number of records to skip"
//	@Success		200		{object}	APIResponse{data=query.ResultPage}
//	@Failure		400		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/api/grievances/filter [post]
func (s *Server) handleFilterGrievances(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, s.svc.Limits().Default)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var spec query.FilterSpec
	if len(strings.TrimSpace(string(body))) > 0 {
		parsed, err := extjson.Parse(body)
		if err != nil {
			sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
			return
		}
		obj, ok := parsed.(*extjson.Object)
		if !ok {
			sendError(w, "Request body must be a JSON object", http.StatusBadRequest)
			return
		}
		spec = obj.Map()
	}

	result, err := s.svc.Query(r.Context(), spec, page)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendSuccess(w, result)
}

// handleGetByID godoc
//
//	@Summary		Get a grievance by id
//	@Tags			grievances
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ByIDRequest	true	"Grievance id"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/api/grievances/by-id [post]
func (s *Server) handleGetByID(w http.ResponseWriter, r *http.Request) {
	var req ByIDRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if req.GrievanceID == "" {
		sendError(w, "grievance_id is required", http.StatusBadRequest)
		return
	}

	record, err := s.svc.GetByID(r.Context(), req.GrievanceID)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendSuccess(w, record)
}

// handleUniqueValues godoc
//
//	@Summary		Unique values of a field
//	@Description	Sorted distinct values, useful for building filter dropdowns
//	@Tags			aggregations
//	@Produce		json
//	@Param			field	path		string	true	"Field name"
//	@Success		200		{object}	APIResponse{data=query.UniqueValuesResult}
//	@Failure		400		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/api/grievances/unique-values/{field} [get]
func (s *Server) handleUniqueValues(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.UniqueValues(r.Context(), chi.URLParam(r, "field"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendSuccess(w, result)
}

// handleStatistics godoc
//
//	@Summary		Value distribution of a field
//	@Description	Count of each value, date fields grouped by month
//	@Tags			aggregations
//	@Produce		json
//	@Param			field	path		string	true	"Field name"
//	@Success		200		{object}	APIResponse{data=query.FieldStatistics}
//	@Failure		400		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/api/grievances/statistics/{field} [get]
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Statistics(r.Context(), chi.URLParam(r, "field"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendSuccess(w, result)
}

// handleSchema godoc
//
//	@Summary		Record schema
//	@Tags			info
//	@Produce		json
//	@Success		200	{object}	APIResponse{data=SchemaResponse}
//	@Security		ApiKeyAuth
//	@Router			/api/grievances/schema [get]
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, SchemaResponse{
		Schema: s.svc.Schema(),
		Filtering: map[string]string{
			"simple_filters":  "Use query parameters for simple filtering",
			"date_ranges":     "Use _from and _to suffixes for date ranges",
			"complex_filters": "Use POST /api/grievances/filter for complex combinations",
			"pagination":      "Use limit and offset parameters",
		},
		Timestamp: time.Now().UTC(),
	})
}

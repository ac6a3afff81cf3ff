package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/logging"
	"github.com/ssargent/cpgrams/pkg/qerror"
)

const apiKeyHeader = "X-API-Key"

// apiKeyMiddleware validates the X-API-Key header. An empty expected key disables the check.
func apiKeyMiddleware(expectedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expectedKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(apiKeyHeader)
			if apiKey == "" {
				sendError(w, "Missing X-API-Key header", http.StatusUnauthorized)
				return
			}
			if apiKey != expectedKey {
				sendError(w, "Invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs every request with zap and puts a request-scoped logger in the context
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logging.NewContext(r.Context(), reqLogger)))

			reqLogger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// sendSuccess sends a successful JSON response
func sendSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func sendError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, APIResponse{
		Success: false,
		Error:   message,
	})
}

// sendServiceError maps an engine error to its status code and details
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	qe, ok := qerror.As(err)
	if !ok {
		logging.FromContext(r.Context()).Error("request failed", zap.Error(err))
		sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, qe.HTTPStatusCode(), APIResponse{
		Success: false,
		Error:   qe.Message,
		Details: qe.Details,
	})
}

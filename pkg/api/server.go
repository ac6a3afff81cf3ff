// Package api cpgrams grievance query REST API
//
// @title           cpgrams grievance API
// @version         1.0.0
// @description     Query, filter and aggregate public grievance records.
// @host            localhost:8000
// @BasePath        /
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

const swaggerHTML = `<!DOCTYPE html>
<html>
<head>
	 <title>cpgrams API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`

// NewRouter builds the HTTP routes for a server
func NewRouter(server *Server) http.Handler {
	metrics := server.metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
		server.metrics = metrics
	}

	origins := server.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(server.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", metrics.InstrumentHandler("GET", "/", server.handleRoot))
	r.Get("/api/health", metrics.InstrumentHandler("GET", "/api/health", server.handleHealth))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/grievances", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))

		r.Get("/", metrics.InstrumentHandler("GET", "/api/grievances/", server.handleListGrievances))
		r.Post("/filter", metrics.InstrumentHandler("POST", "/api/grievances/filter", server.handleFilterGrievances))
		r.Post("/by-id", metrics.InstrumentHandler("POST", "/api/grievances/by-id", server.handleGetByID))
		r.Get("/unique-values/{field}", metrics.InstrumentHandler("GET", "/api/grievances/unique-values/{field}", server.handleUniqueValues))
		r.Get("/statistics/{field}", metrics.InstrumentHandler("GET", "/api/grievances/statistics/{field}", server.handleStatistics))
		r.Get("/schema", metrics.InstrumentHandler("GET", "/api/grievances/schema", server.handleSchema))
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/grievances/health", server.handleHealth))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", server.handleSwagger)

	return r
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	case "/swagger/swagger.json":
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			s.logger.Error("generating swagger doc", zap.Error(err))
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	default:
		http.NotFound(w, r)
	}
}

// StartServer serves the API until ctx is cancelled, then shuts down gracefully
func StartServer(ctx context.Context, svc QueryService, config ServerConfig, metrics *Metrics, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.L()
	}
	SwaggerInfo.Host = fmt.Sprintf("localhost:%d", config.Port)
	if config.Version != "" {
		SwaggerInfo.Version = config.Version
	}

	server := NewServer(svc, config, metrics, logger)
	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting grievance API server",
			zap.String("addr", addr),
			zap.String("metrics", fmt.Sprintf("http://localhost:%d/metrics", config.Port)))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down grievance API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

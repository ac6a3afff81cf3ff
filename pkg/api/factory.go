// Package api provides factory implementations for dependency injection
package api

import (
	"context"

	"go.uber.org/zap"
)

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct {
	metrics *Metrics
	logger  *zap.Logger
}

// NewServerFactory creates a new server factory. A nil logger falls back to zap.L().
func NewServerFactory(metrics *Metrics, logger *zap.Logger) ServerFactory {
	if logger == nil {
		logger = zap.L()
	}
	return &DefaultServerFactory{metrics: metrics, logger: logger}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{metrics: f.metrics, logger: f.logger}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct {
	metrics *Metrics
	logger  *zap.Logger
}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(ctx context.Context, svc QueryService, config ServerConfig) error {
	metrics := s.metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return StartServer(ctx, svc, config, metrics, s.logger)
}

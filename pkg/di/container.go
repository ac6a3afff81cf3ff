// Package di provides dependency injection container
package di

import (
	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/api" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	metrics       *api.Metrics
	sourceFactory SourceFactory
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer(metrics *api.Metrics, logger *zap.Logger) *Container {
	return &Container{
		metrics:       metrics,
		sourceFactory: NewSourceFactory(logger),
		serverFactory: api.NewServerFactory(metrics, logger),
	}
}

// GetMetrics returns the metrics shared by the engine, loader and server
func (c *Container) GetMetrics() *api.Metrics {
	return c.metrics
}

// GetSourceFactory returns the collection source factory
func (c *Container) GetSourceFactory() SourceFactory {
	return c.sourceFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetSourceFactory allows overriding the source factory (for testing)
func (c *Container) SetSourceFactory(factory SourceFactory) {
	c.sourceFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

package engine

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/archsketch/engine/catalog"
	"github.com/archsketch/engine/knowledge"
	"github.com/archsketch/engine/pattern"
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer sets the tracer used to span Parse, ApplyOperations, and
// AssessChange. The default is a no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithRegistry replaces the default component-detection rule registry.
func WithRegistry(registry *pattern.Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithCatalog replaces the default template catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithKnowledgeBase replaces the built-in knowledge base, e.g. with one
// loaded from a knowledge.yaml artifact.
func WithKnowledgeBase(base knowledge.Base) Option {
	return func(e *Engine) {
		if base != nil {
			e.base = base
		}
	}
}

// WithCacheSize bounds the detector's LRU result cache.
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.cacheSize = size
		}
	}
}

// Package session bundles the collaborators a persistence operation
// needs: a storage backend, a logger, a metrics collector, and the
// format version stamped into manifests.
//
// Most callers use the process-wide Default session, created lazily
// from environment configuration. Tests and embedders construct their
// own with New.
package session

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modelvault/modelvault/monitoring"
	"github.com/modelvault/modelvault/storage"
	"github.com/modelvault/modelvault/version"
)

// Session carries the shared state for save and load operations.
type Session struct {
	id      string
	backend storage.Backend
	logger  *zap.Logger
	metrics *monitoring.Metrics
	version string
}

// Option customizes a session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the session metrics collector.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithVersion overrides the format version stamped into manifests.
func WithVersion(v string) Option {
	return func(s *Session) {
		if v != "" {
			s.version = v
		}
	}
}

// New creates a session over the given backend. A nil backend gets an
// in-memory one, which suits tests and throwaway work.
func New(backend storage.Backend, opts ...Option) *Session {
	if backend == nil {
		backend = storage.NewMemory()
	}

	s := &Session{
		id:      uuid.NewString(),
		backend: backend,
		logger:  zap.NewNop(),
		metrics: monitoring.Default(),
		version: version.Version,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the unique session identifier.
func (s *Session) ID() string { return s.id }

// Backend returns the storage backend.
func (s *Session) Backend() storage.Backend { return s.backend }

// Logger returns the session logger.
func (s *Session) Logger() *zap.Logger { return s.logger }

// Metrics returns the session metrics collector.
func (s *Session) Metrics() *monitoring.Metrics { return s.metrics }

// Version returns the format version stamped into manifests.
func (s *Session) Version() string { return s.version }

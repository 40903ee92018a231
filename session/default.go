package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/modelvault/modelvault/internal/config"
	"github.com/modelvault/modelvault/internal/logging"
	"github.com/modelvault/modelvault/storage"
	"github.com/modelvault/modelvault/storage/httpblob"
)

var (
	defaultMu      sync.Mutex
	defaultSession *Session
)

// Default returns the process-wide session, creating it on first use
// from environment configuration. Creation never fails: backends that
// cannot be constructed fall back toward the in-memory one.
func Default() *Session {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultSession == nil {
		defaultSession = fromConfig(config.LoadOrDefault())
	}
	return defaultSession
}

// SetDefault replaces the process-wide session. Passing nil resets it,
// so the next Default call rebuilds from configuration.
func SetDefault(s *Session) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSession = s
}

// fromConfig builds a session from configuration. Backend construction
// failures degrade: http falls back to local, local falls back to
// memory, each with a logged warning.
func fromConfig(cfg *config.Config) *Session {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		logger = logging.NewDefault()
	}

	backend := backendFromConfig(cfg, logger)

	return New(backend, WithLogger(logger))
}

func backendFromConfig(cfg *config.Config, logger *zap.Logger) storage.Backend {
	switch cfg.Backend.Kind {
	case config.BackendMemory:
		return storage.NewMemory()

	case config.BackendHTTP:
		backend, err := httpblob.New(httpblob.Config{
			BaseURL:           cfg.Backend.BaseURL,
			Timeout:           cfg.HTTP.Timeout,
			RetryMax:          cfg.HTTP.RetryMax,
			RetryWaitMin:      cfg.HTTP.RetryWaitMin,
			RetryWaitMax:      cfg.HTTP.RetryWaitMax,
			RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
			Burst:             cfg.HTTP.Burst,
		}, logger)
		if err == nil {
			return backend
		}
		logger.Warn("failed to create http backend, falling back to local",
			zap.String("base_url", cfg.Backend.BaseURL),
			zap.Error(err),
		)
		fallthrough

	default:
		backend, err := storage.NewLocal(cfg.StorageRoot())
		if err == nil {
			return backend
		}
		logger.Warn("failed to create local backend, falling back to memory",
			zap.String("root", cfg.StorageRoot()),
			zap.Error(err),
		)
		return storage.NewMemory()
	}
}

package store

import (
	"go.uber.org/zap"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
)

// Open returns the backend selected by storage.backend and a function that
// releases it.
func Open(cfg *config.Config, logger *zap.Logger) (Backend, func() error, error) {
	if cfg.Storage.Backend == "redis" {
		rb, err := NewRedisBackend(&cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		return rb, rb.Close, nil
	}

	logger.Debug("using file storage", zap.String("dir", cfg.Storage.Dir))
	return NewFileBackend(cfg.Storage.Dir), func() error { return nil }, nil
}

package store

import (
	"fmt"

	"github.com/new-north/platform-api/internal/config"
	"github.com/rs/zerolog"
)

// Open creates the Store selected by configuration.
func Open(cfg *config.StoreConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendBadger:
		return OpenBadger(cfg.BadgerPath, log)
	case config.BackendRedis:
		return OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Package store persists rate configuration overrides as raw JSON values
// keyed by section name.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/nettorechner/nettorechner/pkg/constants"
	"go.uber.org/zap"
)

// Store is a key/value store of JSON documents.
type Store interface {
	// Entries returns the stored values for the requested keys. Keys without
	// a stored value are absent from the result.
	Entries(ctx context.Context, keys []string) (map[string][]byte, error)
	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
}

// Config selects and configures a backend.
type Config struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// Open returns the backend named by cfg.Driver along with a function that
// releases it. An empty driver selects the in-memory store.
func Open(ctx context.Context, logger *zap.Logger, cfg Config) (Store, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", constants.StoreDriverMemory:
		logger.Info("using in-memory configuration store",
			zap.String("op", "store.Open"),
		)
		return NewMemory(), func() {}, nil

	case constants.StoreDriverFile:
		path := cfg.Path
		if path == "" {
			path = constants.DefaultRatesFile
		}
		logger.Info("using file configuration store",
			zap.String("op", "store.Open"),
			zap.String("path", path),
		)
		return NewFile(logger, path), func() {}, nil

	case constants.StoreDriverPostgres:
		if cfg.DSN == "" {
			return nil, nil, fmt.Errorf("postgres store requires store.dsn")
		}
		pg, closeFn, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres configuration store",
			zap.String("op", "store.Open"),
		)
		return pg, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

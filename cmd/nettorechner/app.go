package main

import (
	"context"
	"fmt"

	"github.com/nettorechner/nettorechner/internal/config"
	"github.com/nettorechner/nettorechner/internal/rates"
	"github.com/nettorechner/nettorechner/internal/store"
	"go.uber.org/zap"
)

// app bundles what every subcommand needs.
type app struct {
	conf    *config.Configuration
	logger  *zap.Logger
	rates   *rates.Service
	release func()
}

func setup(ctx context.Context, opts *rootOptions) (*app, error) {
	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", opts.configLocation, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	st, closeStore, err := store.Open(ctx, logger, conf.Store)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open configuration store: %w", err)
	}

	return &app{
		conf:   conf,
		logger: logger,
		rates:  rates.NewService(logger, st),
		release: func() {
			closeStore()
			_ = logger.Sync()
		},
	}, nil
}

func (a *app) Close() {
	if a.release != nil {
		a.release()
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nettorechner/nettorechner/internal/auth"
	"github.com/nettorechner/nettorechner/internal/buildinfo"
	"github.com/nettorechner/nettorechner/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			srvConf, err := server.NewConfig(a.conf.Server)
			if err != nil {
				a.logger.Error("invalid server configuration",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
				return err
			}
			if address != "" {
				srvConf.Address = address
			}

			gate := auth.NewGate(a.conf.Admin.PIN)
			if !gate.Configured() {
				a.logger.Warn("no admin PIN configured, administration is disabled",
					zap.String("op", "main.serve"),
				)
			}

			httpServer := &http.Server{
				Addr: srvConf.Address,
				Handler: server.NewHandler(server.Options{
					Logger:      a.logger,
					Rates:       a.rates,
					Gate:        gate,
					MaxBodySize: srvConf.BodySizeBytes(),
					Version:     buildinfo.Version,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("listening",
					zap.String("op", "main.serve"),
					zap.String("address", srvConf.Address),
					zap.Int64("max_body_size", srvConf.BodySizeBytes()),
				)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				a.logger.Error("server stopped",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("graceful shutdown failed",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
				return err
			}
			a.logger.Info("server stopped",
				zap.String("op", "main.serve"),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")
	return cmd
}

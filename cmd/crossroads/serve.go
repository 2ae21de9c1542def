package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/crossroads/internal/cli"
	httpAdapter "github.com/aretw0/crossroads/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Exposes parsing, the answer codec, developer instructions and headless dialog
sessions as a JSON API over HTTP. Sessions live in memory unless sessions.dir
(JSON files) or redis.addr is configured. With Redis, sessions are guarded by a
Redis lock and submitted replies are pushed to a Redis list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		backend, err := cli.OpenBackend(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer backend.Close()

		opts := []httpAdapter.Option{
			httpAdapter.WithDialect(cfg.DialectValue()),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithStore(backend.Store),
		}
		if backend.Locker != nil {
			opts = append(opts, httpAdapter.WithLocker(backend.Locker))
		}
		if backend.Sink != nil {
			opts = append(opts, httpAdapter.WithReplySink(backend.Sink))
		}

		handler, err := httpAdapter.NewHandler(opts...)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting Crossroads Server", "addr", srv.Addr, "dialect", cfg.Dialect)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-sigCtx.Done():
			logger.Info("Start shutdown", "signal", sigCtx.Signal())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Crossroads Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides http.addr)")
}

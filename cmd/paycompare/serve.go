package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/pay-compare/api"
	"github.com/warp/pay-compare/config"
	"github.com/warp/pay-compare/generic"
	"github.com/warp/pay-compare/generic/store"
	"github.com/warp/pay-compare/payscheme"
	"github.com/warp/pay-compare/store/sqlite"
)

func serveCmd() *cobra.Command {
	var port int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("db") {
				cfg.Server.DB = dbPath
			}
			return serve(cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP server port (overrides server.port)")
	cmd.Flags().StringVar(&dbPath, "db", "", `SQLite database path, ":memory:" or "" for the in-memory store (overrides server.db)`)

	return cmd
}

func serve(cfg *config.Config) error {
	base, err := cfg.BaseConfiguration()
	if err != nil {
		return err
	}

	var st generic.Store
	if cfg.Server.DB == "" {
		st = store.NewMemory()
		logger.Info("Using in-memory store")
	} else {
		db, err := sqlite.New(cfg.Server.DB)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()
		st = db
		logger.Info("Using SQLite store", zap.String("path", cfg.Server.DB))
	}

	handler := api.NewHandler(st, base, payscheme.NewEngine(cfg.Workers), logger)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

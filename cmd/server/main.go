package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dracory/tdbdesk"
	"github.com/dracory/tdbdesk/shared/connector"
	"github.com/dracory/tdbdesk/shared/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server_failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Load configuration (flags override env)
	cfg, err := tdbdesk.LoadConfig(os.Args[1:])
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	kv, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage error: %w", err)
	}

	app := tdbdesk.New(cfg,
		tdbdesk.WithLogger(logger),
		tdbdesk.WithStorage(kv),
		tdbdesk.WithConnector(connector.NewWebsocketConnector(cfg.ConnectTimeout, logger)),
	)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close_failed", slog.String("error", err.Error()))
		}
	}()

	mux := http.NewServeMux()
	mux.Handle(cfg.BasePath, app.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           tdbdesk.RequestLogger(logger, app.Config().ActionParam, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			slog.String("addr", srv.Addr),
			slog.String("mount", cfg.BasePath),
			slog.String("storage", cfg.Storage.Backend),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

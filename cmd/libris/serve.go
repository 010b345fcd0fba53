package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/libris/internal/domain"
	chiTransport "github.com/kailas-cloud/libris/internal/transport/chi"
	embeddinguc "github.com/kailas-cloud/libris/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/libris/internal/usecase/health"
	"github.com/kailas-cloud/libris/internal/version"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP search API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "HTTP port (overrides http.port)",
			},
			&cli.BoolFlag{
				Name:  "no-create-index",
				Usage: "do not create the book index on startup",
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if port := cmd.Int("port"); port > 0 {
		a.cfg.HTTP.Port = port
	}

	a.logger.Info("Starting libris API server",
		zap.String("version", version.String()),
		zap.String("env", a.env),
		zap.Int("http_port", a.cfg.HTTP.Port),
		zap.String("db_driver", a.cfg.Database.Driver),
	)

	if !cmd.Bool("no-create-index") {
		created, err := a.index.Ensure(ctx)
		if err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
		if created {
			a.logger.Info("Created book index", zap.String("index", a.index.Definition().Name))
		}
	}

	searchSvc, err := newSearchService(a)
	if err != nil {
		return err
	}

	queryEmbedder := embeddinguc.NewQueryEmbedder(a.queryEmbedder).
		WithTimeout(time.Duration(a.cfg.Embedding.QueryTimeoutMs) * time.Millisecond)

	// Pass a nil interface, not a typed nil, when embedding is disabled.
	var embChecker healthuc.EmbeddingChecker
	if a.docEmbedder != nil {
		embChecker = embedderCheck{a.docEmbedder}
	}
	healthSvc := healthuc.New(a.store, a.index, embChecker)

	var searchEmbedder chiTransport.QueryEmbedder
	if queryEmbedder.Enabled() {
		searchEmbedder = queryEmbedder
	}
	server := chiTransport.NewServer(searchSvc, searchEmbedder, healthSvc, a.logger).
		WithSearchTimeout(time.Duration(a.cfg.Search.TimeoutSec) * time.Second)

	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys:     a.cfg.Auth.APIKeys,
		CORSOrigins: a.cfg.HTTP.CORSOrigins,
		Logger:      a.logger,
	})

	addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	a.logger.Info("Server stopped gracefully")
	return nil
}

// embedderCheck reports document embedder health to /health.
type embedderCheck struct{ domain.Embedder }

func (c embedderCheck) HealthCheck(ctx context.Context) error {
	return domain.CheckEmbedder(ctx, c.Embedder)
}

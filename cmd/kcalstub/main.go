// kcalstub is a local stand-in for the calorie prediction service. It serves
// the same POST /predict contract the kcal client speaks, backed by a linear
// model whose coefficients can be hot-reloaded from a JSON file.
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

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	modelPath := os.Getenv("KCALSTUB_MODEL")

	model := NewModel(modelPath, logger)
	srv := &server{model: model, logger: logger}

	httpSrv := &http.Server{
		Addr:              ":" + port,
		Handler:           newRouter(srv),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	if modelPath != "" {
		watcher, err := NewWatcher(model, logger)
		if err != nil {
			logger.Warn("model watcher unavailable", zap.Error(err))
		} else if err := watcher.Start(ctx); err != nil {
			logger.Warn("model watcher failed to start", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("kcalstub listening",
			zap.String("addr", httpSrv.Addr),
			zap.String("model", modelPath))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("kcalstub stopped")
}

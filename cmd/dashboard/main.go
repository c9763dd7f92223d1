package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"leadsfynder/internal/app"
	"leadsfynder/internal/config"
	"leadsfynder/internal/domain"
	apihttp "leadsfynder/internal/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	if cfg.LogDevelopment {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("app init", zap.Error(err))
	}
	defer a.Close()

	unsubscribe := a.Session.Subscribe(func(snap domain.Snapshot) {
		logger.Info("session changed",
			zap.Bool("authenticated", snap.IsAuthenticated),
			zap.Bool("loading", snap.IsLoading),
		)
	})
	defer unsubscribe()
	a.Session.Bootstrap(ctx)

	router := apihttp.NewRouter(logger,
		apihttp.NewSessionHandler(logger, a.Session),
		apihttp.NewProxyHandler(logger, a.Leads),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("storage", cfg.StorageDriver))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"leadsfynder/internal/app"
	"leadsfynder/internal/config"
)

func main() {
	_ = godotenv.Load()

	var logger *zap.Logger
	open := func(ctx context.Context) (*app.App, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		logger = newLogger(cfg)
		return app.New(ctx, cfg, logger)
	}

	err := newRootCmd(open).Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

// newLogger deja la salida del CLI limpia: solo warnings y errores, salvo
// con LOG_DEVELOPMENT.
func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.LogDevelopment {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Package app arma el grafo de dependencias comun a los binarios.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"leadsfynder/internal/authapi"
	"leadsfynder/internal/config"
	"leadsfynder/internal/db"
	"leadsfynder/internal/leads"
	"leadsfynder/internal/session"
	"leadsfynder/internal/storage"
	"leadsfynder/internal/tokenstore"
)

// App agrupa el controller de sesion y los clientes remotos.
type App struct {
	Session *session.Controller
	Leads   *leads.Client
	Storage storage.Storage

	closers []func()
}

// New abre el almacenamiento elegido por STORAGE_DRIVER y construye el
// controller. No llama Bootstrap.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}
	kv, err := a.openStorage(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Storage = kv

	authClient := authapi.NewHTTPClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	a.Session = session.NewController(logger, tokenstore.New(kv, logger), authClient,
		session.WithLogoutTimeout(cfg.LogoutTimeout),
		session.WithExpiryCheck(cfg.SessionExpiryCheck),
	)
	a.Leads = leads.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	return a, nil
}

// Close libera conexiones en orden inverso de apertura.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return storage.NewMemoryStorage(), nil
	case config.StorageFile:
		return storage.NewFileStorage(cfg.StoragePath, logger), nil
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, func() { _ = client.Close() })

		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, falling back to memory storage", zap.Error(err))
			return storage.NewMemoryStorage(), nil
		}
		return storage.NewRedisStorage(client, cfg.StorageNamespace), nil
	case config.StoragePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		return openPostgres(ctx, pool, cfg.StorageNamespace)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openPostgres(ctx context.Context, pool *pgxpool.Pool, namespace string) (storage.Storage, error) {
	pg := storage.NewPostgresStorage(pool, namespace)
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure storage schema: %w", err)
	}
	return pg, nil
}

package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStorage implementa Storage sobre la tabla dashboard_storage.
type PostgresStorage struct {
	db        pgQuerier
	namespace string
}

func NewPostgresStorage(pool *pgxpool.Pool, namespace string) *PostgresStorage {
	return &PostgresStorage{db: pool, namespace: namespace}
}

// EnsureSchema crea la tabla si no existe.
func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS dashboard_storage (
			namespace  TEXT        NOT NULL,
			key        TEXT        NOT NULL,
			value      TEXT        NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (namespace, key)
		)
	`
	_, err := s.db.Exec(ctx, query)
	return err
}

func (s *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `
		SELECT value
		FROM dashboard_storage
		WHERE namespace = $1 AND key = $2
	`
	var value string
	err := s.db.QueryRow(ctx, query, s.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *PostgresStorage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	const query = `
		INSERT INTO dashboard_storage (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.Exec(ctx, query, s.namespace, key, value)
	return err
}

func (s *PostgresStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	const query = `
		DELETE FROM dashboard_storage
		WHERE namespace = $1 AND key = ANY($2)
	`
	_, err := s.db.Exec(ctx, query, s.namespace, keys)
	return err
}

package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"leadsfynder/internal/domain"
	"leadsfynder/internal/storage"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

var ErrInvalidCredential = errors.New("invalid credential")

// Store guarda el par token/usuario como una unidad logica sobre un Storage.
type Store struct {
	kv     storage.Storage
	logger *zap.Logger
}

func New(kv storage.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger}
}

// Read devuelve nil si no hay credencial. Un par incompleto o un perfil
// ilegible se considera corrupto: se borran ambas claves y se devuelve nil.
// Solo los errores del backend se propagan.
func (s *Store) Read(ctx context.Context) (*domain.Credential, error) {
	token, hasToken, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	rawUser, hasUser, err := s.kv.Get(ctx, UserKey)
	if err != nil {
		return nil, fmt.Errorf("read user: %w", err)
	}

	if !hasToken && !hasUser {
		return nil, nil
	}
	if hasToken != hasUser {
		s.logger.Warn("split credential in storage, clearing",
			zap.Bool("has_token", hasToken),
			zap.Bool("has_user", hasUser),
		)
		s.clearCorrupt(ctx)
		return nil, nil
	}

	user, err := domain.DecodeUserProfile([]byte(rawUser))
	if err != nil {
		s.logger.Warn("stored user unreadable, clearing", zap.Error(err))
		s.clearCorrupt(ctx)
		return nil, nil
	}
	cred := domain.Credential{Token: token, User: user}
	if !cred.Valid() {
		s.logger.Warn("stored token empty, clearing")
		s.clearCorrupt(ctx)
		return nil, nil
	}
	return &cred, nil
}

// Write escribe token y usuario. Si falla la segunda escritura se limpia
// la primera para no dejar un par incompleto.
func (s *Store) Write(ctx context.Context, cred domain.Credential) error {
	if !cred.Valid() {
		return ErrInvalidCredential
	}
	userJSON, err := json.Marshal(cred.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.kv.Set(ctx, TokenKey, cred.Token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := s.kv.Set(ctx, UserKey, string(userJSON)); err != nil {
		if clearErr := s.Clear(ctx); clearErr != nil {
			s.logger.Error("rollback after partial write failed", zap.Error(clearErr))
		}
		return fmt.Errorf("write user: %w", err)
	}
	return nil
}

// Clear borra ambas claves; es idempotente.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, TokenKey, UserKey); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

func (s *Store) clearCorrupt(ctx context.Context) {
	if err := s.Clear(ctx); err != nil {
		s.logger.Error("clear corrupt credential failed", zap.Error(err))
	}
}

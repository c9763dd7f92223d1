package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leadsfynder/internal/config"
	"leadsfynder/internal/storage"
	"leadsfynder/internal/tokenstore"
)

func baseConfig() *config.Config {
	return &config.Config{
		APIBaseURL:         "http://localhost:8000/api",
		APITimeout:         time.Second,
		LogoutTimeout:      time.Second,
		StorageDriver:      config.StorageMemory,
		StorageNamespace:   "test:",
		SessionExpiryCheck: true,
	}
}

func TestNew_MemoryDriver(t *testing.T) {
	a, err := New(context.Background(), baseConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Session)
	require.NotNil(t, a.Leads)
	snap := a.Session.Bootstrap(context.Background())
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
}

func TestNew_FileDriverRestoresSession(t *testing.T) {
	cfg := baseConfig()
	cfg.StorageDriver = config.StorageFile
	cfg.StoragePath = filepath.Join(t.TempDir(), "session.json")

	seed := storage.NewFileStorage(cfg.StoragePath, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, seed.Set(ctx, tokenstore.TokenKey, "opaque-token"))
	require.NoError(t, seed.Set(ctx, tokenstore.UserKey, `{"id":"1","email":"a@x.com","firstName":"Ana","role":"USER"}`))

	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	snap := a.Session.Bootstrap(ctx)
	assert.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Ana", snap.User.FirstName)
	assert.Equal(t, "opaque-token", a.Session.Token())
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := baseConfig()
	cfg.StorageDriver = "sqlite"
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

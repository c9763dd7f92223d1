package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leadsfynder/internal/app"
	"leadsfynder/internal/authapi"
	"leadsfynder/internal/config"
	"leadsfynder/internal/domain"
	"leadsfynder/internal/leads"
	"leadsfynder/internal/session"
	"leadsfynder/internal/storage"
	"leadsfynder/internal/tokenstore"
)

// cliEnv simula invocaciones sucesivas sobre el mismo almacenamiento.
type cliEnv struct {
	kv      storage.Storage
	auth    *authapi.MockClient
	baseURL string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"data":[{"id":3,"name":"Joe","company":"Acme","status":"new","score":87}]}`)
	}))
	t.Cleanup(srv.Close)
	return &cliEnv{
		kv: storage.NewMemoryStorage(),
		auth: &authapi.MockClient{
			LoginResult: domain.AuthResult{Success: true, Data: &domain.Credential{
				Token: "tok1",
				User:  domain.UserProfile{ID: "1", Email: "a@x.com", FirstName: "Ana", Role: domain.RoleAdmin},
			}},
			RegisterResult: domain.AuthResult{Success: true},
		},
		baseURL: srv.URL,
	}
}

func (e *cliEnv) open(_ context.Context) (*app.App, error) {
	logger := zap.NewNop()
	return &app.App{
		Storage: e.kv,
		Session: session.NewController(logger, tokenstore.New(e.kv, logger), e.auth),
		Leads:   leads.NewClient(e.baseURL, time.Second, logger),
	}, nil
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(e.open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_LoginStatusLogout(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")

	out, err = env.run(t, "login", "--email", "a@x.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as a@x.com")

	out, err = env.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Ana")
	assert.Contains(t, out, "ADMIN")

	out, err = env.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.Equal(t, "tok1", env.auth.LastLogoutToken())

	out, err = env.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")
}

func TestCLI_LoginFailure(t *testing.T) {
	env := newCLIEnv(t)
	env.auth.LoginResult = domain.Failure("Invalid credentials")

	_, err := env.run(t, "login", "--email", "a@x.com", "--password", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestCLI_RegisterDoesNotLogIn(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run(t, "register", "--email", "b@x.com", "--password", "pw", "--first-name", "Bo", "--phone", "+1")
	require.NoError(t, err)
	assert.Equal(t, "+1", env.auth.LastRegister().Phone)

	out, err := env.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")
}

func TestCLI_Route(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "route", "/leads")
	require.NoError(t, err)
	assert.Contains(t, out, "view: login (/login)")

	_, err = env.run(t, "login", "--email", "a@x.com", "--password", "pw")
	require.NoError(t, err)

	out, err = env.run(t, "route", "/admin")
	require.NoError(t, err)
	assert.Contains(t, out, "view: admin (/admin)")
	assert.Contains(t, out, "* Admin Panel")
}

func TestCLI_Leads(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "leads")
	assert.ErrorIs(t, err, errNotLoggedIn)

	_, err = env.run(t, "login", "--email", "a@x.com", "--password", "pw")
	require.NoError(t, err)

	out, err := env.run(t, "leads")
	require.NoError(t, err)
	assert.Contains(t, out, "Joe")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "87")
}

func TestNewLogger_QuietByDefault(t *testing.T) {
	logger := newLogger(&config.Config{})
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	dev := newLogger(&config.Config{LogDevelopment: true})
	assert.True(t, dev.Core().Enabled(zap.DebugLevel))
}

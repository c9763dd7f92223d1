package authapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leadsfynder/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/api", 2*time.Second, zap.NewNop()), srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestHTTPClientLogin_NestedShape(t *testing.T) {
	var gotBody map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"token":"tok1","user":{"id":"1","email":"a@x.com","role":"USER"}}}`)
	})

	res := client.Login(context.Background(), "a@x.com", "secret")

	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.Data)
	assert.Equal(t, "tok1", res.Data.Token)
	assert.Equal(t, "1", res.Data.User.ID)
	assert.Equal(t, map[string]string{"email": "a@x.com", "password": "secret"}, gotBody)
}

func TestHTTPClientLogin_BothShapesNormalizeEqually(t *testing.T) {
	bodies := []string{
		`{"success":true,"data":{"token":"tok1","user":{"id":"1","email":"a@x.com","firstName":"Ana","role":"USER"}}}`,
		`{"success":true,"token":"tok1","user":{"id":"1","email":"a@x.com","first_name":"Ana","role":"user"}}`,
	}
	var results []domain.AuthResult
	for _, body := range bodies {
		body := body
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, body)
		})
		results = append(results, client.Login(context.Background(), "a@x.com", "secret"))
	}
	require.True(t, results[0].Success)
	require.True(t, results[1].Success)
	assert.Equal(t, results[0].Data, results[1].Data)
}

func TestHTTPClientLogin_FailureMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"business failure", http.StatusOK, `{"success":false,"message":"Invalid credentials"}`, "Invalid credentials"},
		{"401 with message", http.StatusUnauthorized, `{"success":false,"message":"Invalid credentials"}`, "Invalid credentials"},
		{"401 with error", http.StatusUnauthorized, `{"error":"invalid credentials"}`, "invalid credentials"},
		{"500 html", http.StatusInternalServerError, `<html>oops</html>`, "Login failed (500 Internal Server Error)"},
		{"failure without message", http.StatusOK, `{"success":false}`, "Login failed"},
		{"success without credential", http.StatusOK, `{"success":true,"data":{"token":"tok1"}}`, ErrIncompleteCredential.Error()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})
			res := client.Login(context.Background(), "a@x.com", "bad")
			assert.False(t, res.Success)
			assert.Nil(t, res.Data)
			assert.Equal(t, tc.want, res.Message)
		})
	}
}

func TestHTTPClientLogin_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `not json`)
	})
	res := client.Login(context.Background(), "a@x.com", "secret")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, ErrMalformedResponse.Error())
}

func TestHTTPClientLogin_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewHTTPClient(url, time.Second, zap.NewNop())
	res := client.Login(context.Background(), "a@x.com", "secret")

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestHTTPClientLogin_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := client.Login(ctx, "a@x.com", "secret")

	assert.False(t, res.Success)
	assert.Equal(t, "Login failed: request timed out", res.Message)
}

func TestHTTPClientRegister_ForwardsProfile(t *testing.T) {
	var got map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, `{"success":true,"message":"User registered"}`)
	})

	res := client.Register(context.Background(), domain.RegisterInput{
		Email:     "a@x.com",
		Password:  "secret",
		FirstName: " Ana ",
		LastName:  "Diaz",
		Company:   "Acme",
		Phone:     "+1 555",
	})

	assert.True(t, res.Success)
	assert.Nil(t, res.Data)
	assert.Equal(t, "User registered", res.Message)
	assert.Equal(t, " Ana ", got["firstName"])
	assert.Equal(t, "+1 555", got["phone"])
	assert.Equal(t, "secret", got["password"])
}

func TestHTTPClientRegister_Failure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusConflict, `{"success":false,"message":"Email already registered"}`)
	})
	res := client.Register(context.Background(), domain.RegisterInput{Email: "a@x.com"})
	assert.False(t, res.Success)
	assert.Equal(t, "Email already registered", res.Message)
}

func TestHTTPClientLogout(t *testing.T) {
	t.Run("sends bearer token", func(t *testing.T) {
		var auth string
		var body []byte
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/logout", r.URL.Path)
			auth = r.Header.Get("Authorization")
			body, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusNoContent)
		})
		require.NoError(t, client.Logout(context.Background(), "tok1"))
		assert.Equal(t, "Bearer tok1", auth)
		assert.Empty(t, body)
	})

	t.Run("no token skips the call", func(t *testing.T) {
		called := false
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			called = true
		})
		require.NoError(t, client.Logout(context.Background(), ""))
		assert.False(t, called)
	})

	t.Run("server error is reported", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		err := client.Logout(context.Background(), "tok1")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "status=500"))
	})
}

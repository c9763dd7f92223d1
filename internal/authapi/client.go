package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leadsfynder/internal/domain"
)

const (
	defaultLoginFailure    = "Login failed"
	defaultRegisterFailure = "Registration failed"
	maxResponseBytes       = 1 << 20
)

// Client define las llamadas de autenticacion contra el backend.
// Login y Register nunca devuelven errores de transporte: siempre un AuthResult.
type Client interface {
	Login(ctx context.Context, email, password string) domain.AuthResult
	Register(ctx context.Context, input domain.RegisterInput) domain.AuthResult
	Logout(ctx context.Context, token string) error
}

// HTTPClient implementa Client contra la API REST de LeadsFynder.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye el cliente; baseURL incluye el prefijo /api.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) domain.AuthResult {
	status, body, err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, "")
	if err != nil {
		c.logger.Warn("login request failed", zap.Error(err))
		return domain.Failure(transportMessage(err, defaultLoginFailure))
	}
	if status >= 400 {
		c.logger.Info("login rejected", zap.Int("status", status))
		return domain.Failure(statusMessage(body, status, defaultLoginFailure))
	}

	resp, err := ParseAuthResponse(body)
	if err != nil {
		c.logger.Warn("login response unreadable", zap.Error(err))
		return domain.Failure(err.Error())
	}
	switch resp.Shape {
	case ShapeNested, ShapeFlat:
		c.logger.Debug("login response parsed", zap.Stringer("shape", resp.Shape))
		return domain.AuthResult{Success: true, Data: resp.Credential, Message: resp.Message}
	case ShapeNoCredential:
		c.logger.Warn("login response without credential")
		return domain.Failure(ErrIncompleteCredential.Error())
	default:
		return domain.Failure(orDefault(resp.Message, defaultLoginFailure))
	}
}

func (c *HTTPClient) Register(ctx context.Context, input domain.RegisterInput) domain.AuthResult {
	status, body, err := c.post(ctx, "/auth/register", input, "")
	if err != nil {
		c.logger.Warn("register request failed", zap.Error(err))
		return domain.Failure(transportMessage(err, defaultRegisterFailure))
	}
	if status >= 400 {
		c.logger.Info("register rejected", zap.Int("status", status))
		return domain.Failure(statusMessage(body, status, defaultRegisterFailure))
	}

	resp, err := ParseAuthResponse(body)
	if err != nil {
		c.logger.Warn("register response unreadable", zap.Error(err))
		return domain.Failure(err.Error())
	}
	if resp.Shape == ShapeFailure {
		return domain.Failure(orDefault(resp.Message, defaultRegisterFailure))
	}
	return domain.AuthResult{Success: true, Data: resp.Credential, Message: resp.Message}
}

// Logout notifica al backend. Sin token no hay nada que notificar.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	status, _, err := c.post(ctx, "/auth/logout", nil, token)
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	if status >= 400 {
		return fmt.Errorf("logout http error: status=%d", status)
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any, token string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("auth request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("latency", time.Since(start)),
	)
	return resp.StatusCode, respBody, nil
}

func statusMessage(body []byte, status int, fallback string) string {
	if msg := ErrorMessage(body); msg != "" {
		return msg
	}
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("%s (%d %s)", fallback, status, text)
	}
	return fallback
}

func transportMessage(err error, fallback string) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fallback + ": request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return fallback + ": request canceled"
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

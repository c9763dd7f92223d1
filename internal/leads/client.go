// Package leads consume los endpoints REST de leads, campanas y analytics.
// El backend responde a veces con un arreglo plano y a veces con un sobre
// {success, data}; este paquete acepta ambas formas.
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	PathLeads          = "/leads"
	PathEmailCampaigns = "/campaigns/email"
	PathSMTPConfigs    = "/campaigns/smtp"
	PathAnalytics      = "/analytics/"
	PathLeadSources    = "/lead-sources/"

	maxResponseBytes = 4 << 20
)

var (
	ErrUnexpectedShape = errors.New("unexpected response shape")
	ErrUnauthorized    = errors.New("unauthorized")
)

// APIError representa una respuesta no exitosa del backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status=%d", e.Status)
	}
	return fmt.Sprintf("api error: status=%d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	group   singleflight.Group
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// List obtiene una coleccion. Lecturas concurrentes identicas comparten
// una sola llamada al backend; la llamada compartida no depende del
// contexto de ningun llamador (la acota el timeout del cliente) y cada
// llamador deja de esperar cuando su propio ctx termina.
func (c *Client) List(ctx context.Context, token, path string) ([]json.RawMessage, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(token+" "+path, func() (interface{}, error) {
		body, err := c.do(flightCtx, http.MethodGet, path, token, nil)
		if err != nil {
			return nil, err
		}
		return decodeList(body)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("list request shared", zap.String("path", path))
		}
		return res.Val.([]json.RawMessage), nil
	}
}

// Object obtiene un documento unico (por ejemplo, metricas de analytics).
func (c *Client) Object(ctx context.Context, token, path string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

func (c *Client) Leads(ctx context.Context, token string) ([]Lead, error) {
	items, err := c.List(ctx, token, PathLeads)
	if err != nil {
		return nil, err
	}
	return DecodeLeads(items)
}

func (c *Client) CallLogs(ctx context.Context, token, leadID string) ([]json.RawMessage, error) {
	return c.List(ctx, token, PathLeads+"/"+url.PathEscape(leadID)+"/call-logs")
}

func (c *Client) EmailCampaigns(ctx context.Context, token string) ([]json.RawMessage, error) {
	return c.List(ctx, token, PathEmailCampaigns)
}

func (c *Client) SMTPConfigs(ctx context.Context, token string) ([]json.RawMessage, error) {
	return c.List(ctx, token, PathSMTPConfigs)
}

func (c *Client) Analytics(ctx context.Context, token, metric string) (json.RawMessage, error) {
	return c.Object(ctx, token, PathAnalytics+url.PathEscape(metric))
}

// SearchSource lanza una busqueda en una fuente de leads (google-maps, ...).
// La respuesta se devuelve sin interpretar.
func (c *Client) SearchSource(ctx context.Context, token, source string, params json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(params)) == 0 {
		params = json.RawMessage(`{}`)
	}
	body, err := c.do(ctx, http.MethodPost, PathLeadSources+url.PathEscape(source), token, params)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		c.logger.Warn("api error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", requestID),
		)
		env, _ := parseEnvelope(respBody)
		return nil, &APIError{Status: resp.StatusCode, Message: env.message()}
	}
	return respBody, nil
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leadsfynder/internal/leads"
)

// Collaborators es el subconjunto del cliente de leads que usa el shell.
type Collaborators interface {
	List(ctx context.Context, token, path string) ([]json.RawMessage, error)
	Object(ctx context.Context, token, path string) (json.RawMessage, error)
	SearchSource(ctx context.Context, token, source string, params json.RawMessage) (json.RawMessage, error)
	CreateEmailCampaign(ctx context.Context, token string, in leads.NewEmailCampaign) (json.RawMessage, error)
	AddCallLog(ctx context.Context, token, leadID string, in leads.NewCallLog) (json.RawMessage, error)
}

// ProxyHandler reenvia lecturas autenticadas a los servicios de leads,
// campanas y analytics, normalizando las respuestas a {success, data}.
type ProxyHandler struct {
	logger *zap.Logger
	api    Collaborators
}

func NewProxyHandler(logger *zap.Logger, api Collaborators) *ProxyHandler {
	return &ProxyHandler{logger: logger, api: api}
}

func (h *ProxyHandler) ListLeads(c *gin.Context) {
	h.list(c, leads.PathLeads)
}

func (h *ProxyHandler) ListCallLogs(c *gin.Context) {
	h.list(c, leads.PathLeads+"/"+url.PathEscape(c.Param("id"))+"/call-logs")
}

func (h *ProxyHandler) ListEmailCampaigns(c *gin.Context) {
	h.list(c, leads.PathEmailCampaigns)
}

func (h *ProxyHandler) ListSMTPConfigs(c *gin.Context) {
	h.list(c, leads.PathSMTPConfigs)
}

func (h *ProxyHandler) ListAdminUsers(c *gin.Context) {
	h.list(c, "/admin/users")
}

// GetAnalytics maneja GET /api/analytics/:metric.
func (h *ProxyHandler) GetAnalytics(c *gin.Context) {
	path := leads.PathAnalytics + url.PathEscape(c.Param("metric"))
	obj, err := h.api.Object(c.Request.Context(), sessionToken(c), path)
	if err != nil {
		h.fail(c, path, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": obj})
}

// CreateEmailCampaign maneja POST /api/campaigns/email.
func (h *ProxyHandler) CreateEmailCampaign(c *gin.Context) {
	var req leads.NewEmailCampaign
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create campaign request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	created, err := h.api.CreateEmailCampaign(c.Request.Context(), sessionToken(c), req)
	if err != nil {
		h.fail(c, leads.PathEmailCampaigns, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

// AddCallLog maneja POST /api/leads/:id/call-logs.
func (h *ProxyHandler) AddCallLog(c *gin.Context) {
	var req leads.NewCallLog
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid call log request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	id := c.Param("id")
	created, err := h.api.AddCallLog(c.Request.Context(), sessionToken(c), id, req)
	if err != nil {
		h.fail(c, leads.PathLeads+"/"+id+"/call-logs", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

// SearchLeadSource maneja POST /api/lead-sources/:source.
func (h *ProxyHandler) SearchLeadSource(c *gin.Context) {
	params, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil || (len(params) > 0 && !json.Valid(params)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	source := c.Param("source")
	raw, err := h.api.SearchSource(c.Request.Context(), sessionToken(c), source, params)
	if err != nil {
		h.fail(c, leads.PathLeadSources+source, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *ProxyHandler) list(c *gin.Context, path string) {
	items, err := h.api.List(c.Request.Context(), sessionToken(c), path)
	if err != nil {
		h.fail(c, path, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

func (h *ProxyHandler) fail(c *gin.Context, path string, err error) {
	var apiErr *leads.APIError
	switch {
	case errors.Is(err, leads.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		c.JSON(status, gin.H{"error": msg})
	case errors.Is(err, leads.ErrUnexpectedShape):
		h.logger.Warn("unexpected collaborator response", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unexpected response from upstream"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream timeout"})
	default:
		h.logger.Error("collaborator request failed", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
	}
}

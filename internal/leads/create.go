package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// NewEmailCampaign es el cuerpo de creacion de una campana de email.
type NewEmailCampaign struct {
	Name         string `json:"name" binding:"required"`
	Subject      string `json:"subject" binding:"required"`
	Template     string `json:"template" binding:"required"`
	Recipients   int    `json:"recipients"`
	ScheduledFor string `json:"scheduledFor,omitempty"`
	SMTPConfig   string `json:"smtpConfig"`
}

// NewCallLog es el registro de una llamada o contacto con un lead.
// LeadID lo completa el cliente a partir de la ruta.
type NewCallLog struct {
	LeadID       string `json:"leadId"`
	Type         string `json:"type"`
	Outcome      string `json:"outcome"`
	Notes        string `json:"notes" binding:"required"`
	Duration     int    `json:"duration"`
	NextFollowUp string `json:"nextFollowUp,omitempty"`
}

// CreateEmailCampaign devuelve la campana creada tal como la guarda el backend.
func (c *Client) CreateEmailCampaign(ctx context.Context, token string, in NewEmailCampaign) (json.RawMessage, error) {
	return c.create(ctx, token, PathEmailCampaigns, in)
}

// AddCallLog agrega un registro al historial del lead.
func (c *Client) AddCallLog(ctx context.Context, token, leadID string, in NewCallLog) (json.RawMessage, error) {
	in.LeadID = leadID
	if in.Type == "" {
		in.Type = "call"
	}
	if in.Outcome == "" {
		in.Outcome = "answered"
	}
	return c.create(ctx, token, PathLeads+"/"+url.PathEscape(leadID)+"/call-logs", in)
}

// create hace POST y acepta el objeto creado plano o dentro de {success, data}.
func (c *Client) create(ctx context.Context, token, path string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, path, token, data)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

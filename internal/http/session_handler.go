package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leadsfynder/internal/domain"
	"leadsfynder/internal/guard"
)

// SessionManager es lo que el shell necesita del controller de sesion.
type SessionManager interface {
	Snapshot() domain.Snapshot
	Token() string
	Login(ctx context.Context, email, password string) domain.AuthResult
	Register(ctx context.Context, input domain.RegisterInput) domain.AuthResult
	Logout(ctx context.Context) domain.Snapshot
}

// SessionHandler expone el estado de sesion y la resolucion de vistas.
type SessionHandler struct {
	logger *zap.Logger
	sess   SessionManager
}

func NewSessionHandler(logger *zap.Logger, sess SessionManager) *SessionHandler {
	return &SessionHandler{logger: logger, sess: sess}
}

// authResponse es AuthResult sin el token: el token no sale del proceso.
type authResponse struct {
	Success bool                `json:"success"`
	User    *domain.UserProfile `json:"user,omitempty"`
	Message string              `json:"message,omitempty"`
}

func newAuthResponse(res domain.AuthResult) authResponse {
	out := authResponse{Success: res.Success, Message: res.Message}
	if res.Data != nil {
		user := res.Data.User
		out.User = &user
	}
	return out
}

// GetSession maneja GET /session.
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sess.Snapshot())
}

// Login maneja POST /session/login.
func (h *SessionHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res := h.sess.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if !res.Success {
		c.JSON(http.StatusUnauthorized, newAuthResponse(res))
		return
	}
	c.JSON(http.StatusOK, newAuthResponse(res))
}

// Register maneja POST /session/register. No abre sesion.
func (h *SessionHandler) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName"`
		Company   string `json:"company"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res := h.sess.Register(c.Request.Context(), domain.RegisterInput{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Phone:     req.Phone,
	})
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, newAuthResponse(res))
		return
	}
	c.JSON(http.StatusCreated, newAuthResponse(res))
}

// Logout maneja POST /session/logout. Siempre termina sin sesion.
func (h *SessionHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, h.sess.Logout(c.Request.Context()))
}

// Shell maneja GET /shell/*path: que vista mostrar para la ruta pedida.
func (h *SessionHandler) Shell(c *gin.Context) {
	snap := h.sess.Snapshot()
	decision := guard.Resolve(snap, c.Param("path"))

	c.JSON(http.StatusOK, gin.H{
		"decision":   decision,
		"navigation": guard.Navigation(snap, decision.Path),
		"greeting":   guard.Greeting(snap.User),
		"snapshot":   snap,
	})
}

package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// NewRouter configura el router de Gin con middlewares y rutas del shell.
func NewRouter(
	logger *zap.Logger,
	sessionH *SessionHandler,
	proxyH *ProxyHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	sess := r.Group("/session")
	sess.GET("", sessionH.GetSession)
	sess.POST("/login", sessionH.Login)
	sess.POST("/register", sessionH.Register)
	sess.POST("/logout", sessionH.Logout)

	r.GET("/shell/*path", sessionH.Shell)

	api := r.Group("/api", RequireSession(sessionH.sess))
	api.GET("/leads", proxyH.ListLeads)
	api.GET("/leads/:id/call-logs", proxyH.ListCallLogs)
	api.POST("/leads/:id/call-logs", proxyH.AddCallLog)
	api.GET("/campaigns/email", proxyH.ListEmailCampaigns)
	api.POST("/campaigns/email", proxyH.CreateEmailCampaign)
	api.GET("/campaigns/smtp", proxyH.ListSMTPConfigs)
	api.GET("/analytics/:metric", proxyH.GetAnalytics)
	api.POST("/lead-sources/:source", proxyH.SearchLeadSource)

	admin := api.Group("/admin", RequireElevatedRole())
	admin.GET("/users", proxyH.ListAdminUsers)

	return r
}

// requestIDMiddleware reutiliza el X-Request-ID entrante o genera uno.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDHeader)),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadsfynder/internal/domain"
)

const (
	sessionUserKey  = "session_user"
	sessionTokenKey = "session_token"
)

// RequireSession corta la request si no hay sesion autenticada y deja
// usuario y token en el contexto para los handlers siguientes.
func RequireSession(sess SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session not configured"})
			c.Abort()
			return
		}

		snap := sess.Snapshot()
		if snap.IsLoading {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session loading"})
			c.Abort()
			return
		}
		token := sess.Token()
		if !snap.IsAuthenticated || snap.User == nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}

		c.Set(sessionUserKey, *snap.User)
		c.Set(sessionTokenKey, token)
		c.Next()
	}
}

// RequireElevatedRole solo deja pasar ADMIN y SUPER_ADMIN. Es un filtro de
// UX; el backend sigue siendo quien autoriza.
func RequireElevatedRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetSessionUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}
		if !user.Role.Elevated() {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSessionUser obtiene el perfil que dejo RequireSession.
func GetSessionUser(c *gin.Context) (domain.UserProfile, bool) {
	val, ok := c.Get(sessionUserKey)
	if !ok {
		return domain.UserProfile{}, false
	}
	user, ok := val.(domain.UserProfile)
	return user, ok
}

func sessionToken(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}

package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mindfolk/internal/domain"
	"mindfolk/internal/service"
)

const sessionKey = "session"

// AccessParser valida el access token propio de la API.
type AccessParser interface {
	ParseAccess(token string) (service.Claims, error)
}

// RequireSession exige un Bearer valido y deja los claims en el contexto.
func RequireSession(sessions AccessParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := sessions.ParseAccess(strings.TrimSpace(token))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, service.ErrSessionExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		c.Set(sessionKey, claims)
		c.Next()
	}
}

// sessionClaims solo es seguro detras de RequireSession.
func sessionClaims(c *gin.Context) service.Claims {
	claims, _ := c.MustGet(sessionKey).(service.Claims)
	return claims
}

// RequireRole corta con 403 si el rol de la sesion no esta en roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(sessionKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		role := domain.Role(val.(service.Claims).Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"sensea-booking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	jwtService *jwt.Service
}

const (
	ctxAdminLoginKey = "admin_login"
	ctxAdminRoleKey  = "admin_role"
)

func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// RequireAdmin guards the back-office routes. The public booking surface is
// deliberately unauthenticated; confirmation tokens are its only credential.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if claims.Role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Set(ctxAdminLoginKey, claims.Login)
		c.Set(ctxAdminRoleKey, claims.Role)
		c.Next()
	}
}

func GetAdminLogin(c *gin.Context) (string, bool) {
	if v, exists := c.Get(ctxAdminLoginKey); exists {
		if login, ok := v.(string); ok {
			return login, true
		}
	}
	return "", false
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
	userNameKey  = "user_name"
)

// RequireAuth validates the Bearer token and stashes the authenticated user's
// identity on the context for handlers downstream.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" || !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak ditemukan"})
			return
		}
		tokenString := strings.TrimSpace(raw[len("bearer "):])

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak valid"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak valid"})
			return
		}

		if id, ok := claims["user_id"].(float64); ok {
			c.Set(userIDKey, int64(id))
		}
		if email, ok := claims["email"].(string); ok {
			c.Set(userEmailKey, strings.ToLower(strings.TrimSpace(email)))
		}
		if name, ok := claims["name"].(string); ok {
			c.Set(userNameKey, name)
		}

		c.Next()
	}
}

// AuthUserID returns the authenticated user's id, or 0 when the request is
// anonymous.
func AuthUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// AuthUserEmail returns the authenticated user's lowercased email.
func AuthUserEmail(c *gin.Context) string {
	if v, ok := c.Get(userEmailKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// AuthUserName returns the authenticated user's display name.
func AuthUserName(c *gin.Context) string {
	if v, ok := c.Get(userNameKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

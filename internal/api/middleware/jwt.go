package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirex/internal/auth"
	"github.com/yoockh/hirex/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// JWTAuth verifies the bearer token and sets "user_id" and "role" on the context.
func JWTAuth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "invalid token",
			})
			return
		}

		role := claims.Role
		if role == "" {
			role = "user"
		}
		c.Set("user_id", claims.Subject)
		c.Set("role", role)
		c.Next()
	}
}

// OptionalJWT sets identity when a valid token is present and never aborts.
func OptionalJWT(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearer(c); ok {
			if claims, err := tokens.Parse(raw); err == nil {
				c.Set("user_id", claims.Subject)
				c.Set("role", claims.Role)
			}
		}
		c.Next()
	}
}

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		return raw, raw != ""
	}
	// browsers cannot set headers on websocket upgrades
	if c.GetHeader("Upgrade") == "websocket" {
		if raw := c.Query("token"); raw != "" {
			return raw, true
		}
	}
	return "", false
}

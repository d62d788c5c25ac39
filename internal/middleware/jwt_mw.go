package middleware

import (
	"errors"
	"net/http"
	"strings"

	"opinai/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const AuthUserKey = "authUser"

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Anything else yields an empty string.
func bearerToken(c *gin.Context) string {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func authGuard(authService service.AuthService, requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authService.Authorize(c.Request.Context(), bearerToken(c), requireAdmin)
		if err != nil {
			abortWithAuthError(c, err)
			return
		}

		c.Set(AuthUserKey, user.ID)

		c.Next()
	}
}

// JWTAuthMiddleware requires a valid token belonging to an existing user
func JWTAuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return authGuard(authService, false)
}

func abortWithAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
	case errors.Is(err, service.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, service.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	default:
		zap.L().Error("authorization failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate request"})
	}
}

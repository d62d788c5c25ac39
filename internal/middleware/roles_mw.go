package middleware

import (
	"opinai/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware runs the full token check and additionally requires the stored
// user to carry the admin flag. The flag is read from the store on every request,
// so a demoted admin loses access even though the token stays valid.
func AdminMiddleware(authService service.AuthService) gin.HandlerFunc {
	return authGuard(authService, true)
}


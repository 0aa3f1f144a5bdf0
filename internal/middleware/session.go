package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/postflow/core/internal/pkg/response"
)

// RequireActiveSession rejects requests while the system is still onboarding
// (no writer name established). Draft operations are only reachable in the
// Active state.
func RequireActiveSession(active func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !active() {
			response.Forbidden(c, "no active session: set a writer name first")
			return
		}
		c.Next()
	}
}

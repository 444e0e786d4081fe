package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
)

// ErrorResponse matches the handlers.ErrorResponse structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and stores the actor on
// the gin context. The actor carries only what the token asserts; handlers
// that mutate state load the fresh record themselves.
func RequireAuth(issuer *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing session token"))
			return
		}

		claims, err := issuer.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid or expired session token"))
			return
		}

		c.Set(ActorKey, domain.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  domain.ParseRole(claims.Role),
		})

		c.Next()
	}
}

// RequireRoles rejects requests whose actor holds none of the given roles.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if !actor.HasAnyRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "insufficient permissions"))
			return
		}

		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
)

const (
	// TraceIDHeader is the HTTP header carrying the trace identifier.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the gin context key for the trace identifier.
	TraceIDKey = "trace_id"
	// ActorKey is the gin context key for the authenticated user.
	ActorKey = "actor"
)

// EnrichContext propagates an incoming trace ID or generates a fresh one.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}

// GetTraceID retrieves the trace ID from the gin context.
func GetTraceID(c *gin.Context) string {
	if traceID, exists := c.Get(TraceIDKey); exists {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return ""
}

// CurrentActor retrieves the authenticated user placed by RequireAuth.
func CurrentActor(c *gin.Context) (domain.User, bool) {
	val, exists := c.Get(ActorKey)
	if !exists {
		return domain.User{}, false
	}
	actor, ok := val.(domain.User)
	return actor, ok
}

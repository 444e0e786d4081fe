package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError resolves the provided error against known cases or
// falls back to a generic response. Hashing saturation always maps to 503
// with a Retry-After hint, regardless of the endpoint.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	if errors.Is(err, security.ErrHashingBusy) {
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "server is busy, retry shortly"))
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}

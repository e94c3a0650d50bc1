package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/flavorfind/backend/internal/service"
)

// respondError maps service errors to HTTP responses. Anything unknown is
// handed to the error middleware as a 500.
func respondError(c *gin.Context, err error) {
	var reqErr *service.RequestError
	switch {
	case errors.Is(err, service.ErrMissingCredential):
		c.JSON(http.StatusPreconditionFailed, gin.H{
			"error": err.Error(),
			"code":  "missing_credential",
		})
	case errors.As(err, &reqErr):
		status := http.StatusBadGateway
		if reqErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		code := "request_failed"
		if reqErr.Malformed {
			code = "malformed_response"
		}
		c.JSON(status, gin.H{
			"error":           reqErr.Message,
			"code":            code,
			"upstream_status": reqErr.StatusCode,
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "recipe API timed out"})
	default:
		c.Status(http.StatusInternalServerError)
		_ = c.Error(err)
	}
}

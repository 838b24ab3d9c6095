package apperrors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Respond writes err as the JSON error response for the request.
// Known PublicError values pass through with their own status code;
// anything else is logged and masked as an InternalServerError.
func Respond(c *gin.Context, err error) {
	var publicErr *PublicError
	if !errors.As(err, &publicErr) {
		publicErr = NewInternalServerError(err)
	}

	if publicErr.StatusCode >= 500 {
		slog.Error("Request failed with internal error",
			"error", publicErr.Error(),
			"request_id", c.GetString("request_id"),
			"path", c.Request.URL.Path,
		)
	}

	c.AbortWithStatusJSON(publicErr.StatusCode, publicErr)
}

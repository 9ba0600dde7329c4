package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/nebula/pkg/errors"
	"github.com/charlesng35/nebula/pkg/response"
	appValidator "github.com/charlesng35/nebula/pkg/validator"
)

// bindQuery decodes the query string into dest and checks its validate
// tags. Undecodable input is a BAD_REQUEST; rule failures are reported as
// VALIDATION_FAILED with one detail per field. On failure the response has
// been written and false is returned.
func bindQuery[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid query parameters").WithInternal(err))
		return false
	}
	if err := appValidator.ValidateStruct(dest); err != nil {
		writeError(c, err)
		return false
	}
	return true
}

// parseIntQuery returns fallback for a missing or non-numeric parameter.
func parseIntQuery(c *gin.Context, key string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return fallback
	}
	return parsed
}

// requestContext carries the actor attached by the middleware chain. Tests
// that build a bare gin.Context get a background context.
func requestContext(c *gin.Context) context.Context {
	if c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

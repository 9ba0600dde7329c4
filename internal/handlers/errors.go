package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/nebula/internal/filters"
	"github.com/charlesng35/nebula/internal/panel"
	"github.com/charlesng35/nebula/internal/records"
	"github.com/charlesng35/nebula/internal/resources"
	"github.com/charlesng35/nebula/internal/services"
	appErrors "github.com/charlesng35/nebula/pkg/errors"
	"github.com/charlesng35/nebula/pkg/logger"
	"github.com/charlesng35/nebula/pkg/response"
	appValidator "github.com/charlesng35/nebula/pkg/validator"
)

// writeError renders err using the API error code matching its cause.
func writeError(c *gin.Context, err error) {
	response.Error(c, translateError(err))
}

func translateError(err error) *appErrors.AppError {
	var invalid appValidator.ValidationErrors

	switch {
	case err == nil:
		return appErrors.ErrInternalServer
	case errors.As(err, &invalid):
		return appErrors.ErrValidationFailed.WithDetails(invalid).WithInternal(err)
	case errors.Is(err, panel.ErrResourceNotFound):
		return appErrors.ErrResourceNotFound.WithInternal(err)
	case errors.Is(err, records.ErrNotFound):
		return appErrors.ErrRecordNotFound.WithInternal(err)
	case errors.Is(err, resources.ErrFilterNotFound):
		return appErrors.ErrFilterNotFound.WithInternal(err)
	case errors.Is(err, filters.ErrInvalidValue):
		return appErrors.ErrInvalidFilter.WithMessage(err.Error()).WithInternal(err)
	case errors.Is(err, services.ErrInvalidSort):
		return appErrors.NewBadRequest(err.Error()).WithInternal(err)
	case errors.Is(err, services.ErrConflict):
		return appErrors.ErrRecordConflict.WithInternal(err)
	case errors.Is(err, resources.ErrResourceConfiguration), errors.Is(err, resources.ErrDuplicateField):
		logger.WithModule("handlers").Error("resource misconfigured", zap.Error(err))
		return appErrors.ErrResourceMisconfigured.WithInternal(err)
	default:
		logger.WithModule("handlers").Error("request failed", zap.Error(err))
		return appErrors.FromError(err)
	}
}

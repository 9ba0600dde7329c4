package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/nebula/internal/filters"
	"github.com/charlesng35/nebula/internal/panel"
	"github.com/charlesng35/nebula/internal/records"
	"github.com/charlesng35/nebula/internal/resources"
	"github.com/charlesng35/nebula/internal/services"
	appValidator "github.com/charlesng35/nebula/pkg/validator"
)

func TestTranslateError(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{fmt.Errorf("%w: widgets", panel.ErrResourceNotFound), "RESOURCE_NOT_FOUND", http.StatusNotFound},
		{fmt.Errorf("%w: Post", records.ErrNotFound), "RECORD_NOT_FOUND", http.StatusNotFound},
		{&resources.FilterNotFoundError{Resource: "posts", Filter: "x"}, "FILTER_NOT_FOUND", http.StatusBadRequest},
		{fmt.Errorf("%w: nope", filters.ErrInvalidValue), "INVALID_FILTER_VALUE", http.StatusBadRequest},
		{fmt.Errorf("%w: status", services.ErrInvalidSort), "BAD_REQUEST", http.StatusBadRequest},
		{fmt.Errorf("create: %w", services.ErrConflict), "RECORD_CONFLICT", http.StatusConflict},
		{&resources.ConfigurationError{Model: "Widget"}, "RESOURCE_MISCONFIGURED", http.StatusInternalServerError},
		{&resources.DuplicateFieldError{Field: "title"}, "RESOURCE_MISCONFIGURED", http.StatusInternalServerError},
		{appValidator.ValidationErrors{{Field: "title", Tag: "required"}}, "VALIDATION_FAILED", http.StatusUnprocessableEntity},
		{errors.New("boom"), "INTERNAL_SERVER_ERROR", http.StatusInternalServerError},
		{nil, "INTERNAL_SERVER_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		appErr := translateError(tc.err)
		require.Equal(t, tc.code, appErr.Code, "%v", tc.err)
		require.Equal(t, tc.status, appErr.StatusCode, "%v", tc.err)
	}

	details := translateError(appValidator.ValidationErrors{{Field: "title", Tag: "required"}}).Details
	require.Equal(t, appValidator.ValidationErrors{{Field: "title", Tag: "required"}}, details)
}

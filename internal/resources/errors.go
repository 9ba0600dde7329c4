package resources

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceConfiguration matches every ConfigurationError.
	ErrResourceConfiguration = errors.New("resources: resource misconfigured")
	// ErrFilterNotFound matches every FilterNotFoundError.
	ErrFilterNotFound = errors.New("resources: filter not found")
	// ErrDuplicateField matches every DuplicateFieldError.
	ErrDuplicateField = errors.New("resources: duplicate field")
)

// ConfigurationError reports a model that could not be resolved for a resource.
type ConfigurationError struct {
	Model      string
	Namespaces []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("resources: auto resolved %s model doesn't exist in %v, provide one via Model()", e.Model, e.Namespaces)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrResourceConfiguration
}

// FilterNotFoundError reports a filter name missing from the declared filters.
type FilterNotFoundError struct {
	Resource string
	Filter   string
}

func (e *FilterNotFoundError) Error() string {
	return fmt.Sprintf("resources: filter %s not found on %s", e.Filter, e.Resource)
}

func (e *FilterNotFoundError) Is(target error) bool {
	return target == ErrFilterNotFound
}

// DuplicateFieldError reports two fields sharing a name within one rule set.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("resources: field %s declared more than once", e.Field)
}

func (e *DuplicateFieldError) Is(target error) bool {
	return target == ErrDuplicateField
}

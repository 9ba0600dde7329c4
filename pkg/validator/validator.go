// Package validator wraps go-playground/validator for both struct tags and
// the rule lists admin fields declare.
package validator

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate    = newValidate()
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ValidationError is one failed rule on one field.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param"`
}

// ValidationErrors is the error returned for rejected input. Entries are
// ordered by field name.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, failure := range v {
		rule := failure.Tag
		if failure.Param != "" {
			rule += "=" + failure.Param
		}
		parts[i] = failure.Field + " failed on " + rule
	}
	return strings.Join(parts, "; ")
}

// ValidateStruct checks s against its validate tags. Field names come from
// the json tag.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	failures := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		failures = append(failures, fromFieldError(fe.Field(), fe))
	}
	return sorted(failures)
}

// ValidateMap checks loosely typed values against per-field rule lists such
// as {"title": {"required", "min:3"}}. Only the first failing rule of each
// field is reported.
func ValidateMap(values map[string]any, rules map[string][]string) error {
	tags := make(map[string]any, len(rules))
	for field, fieldRules := range rules {
		if tag := BuildTag(fieldRules); tag != "" {
			tags[field] = tag
		}
	}
	if len(tags) == 0 {
		return nil
	}

	results := validate.ValidateMap(values, tags)
	if len(results) == 0 {
		return nil
	}

	failures := make(ValidationErrors, 0, len(results))
	for field, result := range results {
		var fieldErrs validator.ValidationErrors
		if err, _ := result.(error); !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			failures = append(failures, ValidationError{Field: field, Tag: "invalid"})
			continue
		}
		failures = append(failures, fromFieldError(field, fieldErrs[0]))
	}
	return sorted(failures)
}

func fromFieldError(field string, fe validator.FieldError) ValidationError {
	return ValidationError{Field: field, Tag: fe.Tag(), Param: fe.Param()}
}

func sorted(failures ValidationErrors) ValidationErrors {
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].Field < failures[j].Field })
	return failures
}

// BuildTag joins rules into a validator tag. "min:10" style parameters become
// "min=10"; "required" is moved to the front and any other non-empty rule
// list is prefixed with "omitempty".
func BuildTag(rules []string) string {
	required := false
	parts := make([]string, 0, len(rules)+1)
	for _, rule := range rules {
		switch rule = NormalizeRule(rule); rule {
		case "", "omitempty", "nullable", "sometimes":
		case "required":
			required = true
		default:
			parts = append(parts, rule)
		}
	}

	switch {
	case required:
		parts = append([]string{"required"}, parts...)
	case len(parts) > 0:
		parts = append([]string{"omitempty"}, parts...)
	}
	return strings.Join(parts, ",")
}

// NormalizeRule rewrites one rule into validator tag syntax.
func NormalizeRule(rule string) string {
	rule = strings.TrimSpace(rule)
	if name, param, ok := strings.Cut(rule, ":"); ok {
		return strings.TrimSpace(name) + "=" + strings.TrimSpace(param)
	}
	return rule
}

// RegisterValidation adds a custom rule usable from tags and rule lists.
func RegisterValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	// slug: lower-case words joined by single hyphens.
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

package filters

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/nebula/internal/fields"
	"github.com/charlesng35/nebula/internal/resources"
)

// ErrInvalidValue signals a filter value the filter cannot apply.
var ErrInvalidValue = errors.New("filters: invalid value")

// rangeSeparator splits DateRange bounds ("2024-01-01..2024-01-31").
const rangeSeparator = ".."

const dateLayout = "2006-01-02"

// ApplyFunc refines tx using the raw query-string value.
type ApplyFunc func(tx *gorm.DB, value string) (*gorm.DB, error)

// Filter is the stock resources.Filter implementation.
type Filter struct {
	name    string
	label   string
	options []resources.FilterOption
	apply   ApplyFunc
}

// Func declares a filter backed by a custom scope.
func Func(name string, apply ApplyFunc) *Filter {
	name = strings.TrimSpace(name)
	return &Filter{name: name, label: fields.Humanize(name), apply: apply}
}

// Equals matches column exactly against the submitted value.
func Equals(name, column string) *Filter {
	return Func(name, func(tx *gorm.DB, value string) (*gorm.DB, error) {
		return tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}), nil
	})
}

// Select matches column against one of a fixed set of options.
func Select(name, column string, options ...resources.FilterOption) *Filter {
	f := Func(name, func(tx *gorm.DB, value string) (*gorm.DB, error) {
		for _, opt := range options {
			if opt.Value == value {
				return tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}), nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not an option of %s", ErrInvalidValue, value, name)
	})
	f.options = options
	return f
}

// Boolean matches a boolean column using strconv.ParseBool semantics.
func Boolean(name, column string) *Filter {
	f := Func(name, func(tx *gorm.DB, value string) (*gorm.DB, error) {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, value)
		}
		return tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: parsed}), nil
	})
	f.options = []resources.FilterOption{
		{Label: "Yes", Value: "true"},
		{Label: "No", Value: "false"},
	}
	return f
}

// DateRange bounds a date column by "from..to"; either side may be omitted.
// The upper bound is inclusive of the whole day.
func DateRange(name, column string) *Filter {
	return Func(name, func(tx *gorm.DB, value string) (*gorm.DB, error) {
		fromRaw, toRaw, found := strings.Cut(value, rangeSeparator)
		if !found {
			fromRaw = value
		}
		col := clause.Column{Name: column}

		if from := strings.TrimSpace(fromRaw); from != "" {
			start, err := time.Parse(dateLayout, from)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a date", ErrInvalidValue, from)
			}
			tx = tx.Where(clause.Gte{Column: col, Value: start})
		}
		if to := strings.TrimSpace(toRaw); to != "" {
			end, err := time.Parse(dateLayout, to)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a date", ErrInvalidValue, to)
			}
			tx = tx.Where(clause.Lt{Column: col, Value: end.AddDate(0, 0, 1)})
		}
		return tx, nil
	})
}

// WithLabel overrides the humanized label.
func (f *Filter) WithLabel(label string) *Filter {
	f.label = label
	return f
}

func (f *Filter) Name() string  { return f.name }
func (f *Filter) Label() string { return f.label }

// Options returns the selectable values, nil for free-form filters.
func (f *Filter) Options() []resources.FilterOption {
	return append([]resources.FilterOption(nil), f.options...)
}

// Apply refines tx with value.
func (f *Filter) Apply(tx *gorm.DB, value string) (*gorm.DB, error) {
	if f.apply == nil {
		return tx, nil
	}
	return f.apply(tx, value)
}

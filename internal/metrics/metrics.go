// Package metrics provides aggregate cards computed over a resource query.
package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/nebula/internal/fields"
)

// CalculateFunc computes a metric value for the scoped query.
type CalculateFunc func(ctx context.Context, tx *gorm.DB) (any, error)

// Metric is the stock resources.Metric implementation.
type Metric struct {
	name      string
	label     string
	calculate CalculateFunc
}

// Func declares a metric backed by a custom calculation.
func Func(name string, calculate CalculateFunc) *Metric {
	name = strings.TrimSpace(name)
	return &Metric{name: name, label: fields.Humanize(name), calculate: calculate}
}

// Count reports the number of matching records as int64.
func Count(name string) *Metric {
	return Func(name, func(ctx context.Context, tx *gorm.DB) (any, error) {
		var total int64
		if err := tx.WithContext(ctx).Count(&total).Error; err != nil {
			return nil, fmt.Errorf("metrics: count: %w", err)
		}
		return total, nil
	})
}

// Sum totals a numeric column. Empty result sets yield 0.
func Sum(name, column string) *Metric { return aggregate(name, "SUM", column) }

// Average returns the mean of a numeric column.
func Average(name, column string) *Metric { return aggregate(name, "AVG", column) }

// Max returns the largest value of a numeric column.
func Max(name, column string) *Metric { return aggregate(name, "MAX", column) }

// Min returns the smallest value of a numeric column.
func Min(name, column string) *Metric { return aggregate(name, "MIN", column) }

func aggregate(name, fn, column string) *Metric {
	return Func(name, func(ctx context.Context, tx *gorm.DB) (any, error) {
		var value sql.NullFloat64
		row := tx.WithContext(ctx).Select(fn+"(?)", clause.Column{Name: column}).Row()
		if row == nil {
			return nil, fmt.Errorf("metrics: %s(%s): no row", strings.ToLower(fn), column)
		}
		if err := row.Scan(&value); err != nil {
			return nil, fmt.Errorf("metrics: %s(%s): %w", strings.ToLower(fn), column, err)
		}
		if !value.Valid {
			return float64(0), nil
		}
		return value.Float64, nil
	})
}

// Partition counts records per distinct value of column.
func Partition(name, column string) *Metric {
	return Func(name, func(ctx context.Context, tx *gorm.DB) (any, error) {
		var rows []struct {
			Bucket string
			Total  int64
		}
		err := tx.WithContext(ctx).
			Select("? AS bucket, COUNT(*) AS total", clause.Column{Name: column}).
			Group(column).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("metrics: partition %s: %w", column, err)
		}

		buckets := make(map[string]int64, len(rows))
		for _, row := range rows {
			buckets[row.Bucket] += row.Total
		}
		return buckets, nil
	})
}

// WithLabel overrides the humanized label.
func (m *Metric) WithLabel(label string) *Metric {
	m.label = label
	return m
}

func (m *Metric) Name() string  { return m.name }
func (m *Metric) Label() string { return m.label }

// Calculate evaluates the metric against tx.
func (m *Metric) Calculate(ctx context.Context, tx *gorm.DB) (any, error) {
	if m.calculate == nil {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return m.calculate(ctx, tx)
}

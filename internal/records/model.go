// Package records adapts gorm models to the resources.ModelType contract.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/nebula/internal/resources"
)

// ErrNotFound is returned by Find when no record matches the key.
var ErrNotFound = errors.New("records: record not found")

// Keyed is satisfied by models exposing their primary key.
type Keyed[T any] interface {
	*T
	PrimaryKey() string
}

// AssignFunc copies attributes the json decoder cannot reach, such as
// fields hidden from serialisation. It returns the columns it changed.
type AssignFunc[T any] func(entity *T, data resources.Values) ([]string, error)

// Option customises a Model.
type Option[T any] func(*options[T])

type options[T any] struct {
	assign AssignFunc[T]
	key    string
}

// WithAssign runs fn after decoding on both create and update.
func WithAssign[T any](fn AssignFunc[T]) Option[T] {
	return func(o *options[T]) {
		o.assign = fn
	}
}

// WithKeyColumn overrides the primary key column used by Find. Defaults to "id".
func WithKeyColumn[T any](column string) Option[T] {
	return func(o *options[T]) {
		o.key = column
	}
}

// Model is a gorm-backed resources.ModelType.
type Model[T any, PT Keyed[T]] struct {
	db   *gorm.DB
	name string
	opts options[T]
}

// NewModel binds the entity type T to db under name.
func NewModel[T any, PT Keyed[T]](db *gorm.DB, name string, opts ...Option[T]) (*Model[T, PT], error) {
	if db == nil {
		return nil, errors.New("records: db is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("records: model name is required")
	}

	cfg := options[T]{key: "id"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Model[T, PT]{db: db, name: name, opts: cfg}, nil
}

// ModelName returns the name the model is registered under.
func (m *Model[T, PT]) ModelName() string { return m.name }

// Query starts a scoped query over the model table.
func (m *Model[T, PT]) Query(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ensureContext(ctx)).Model(new(T))
}

// Create decodes data into a new entity and inserts it.
func (m *Model[T, PT]) Create(ctx context.Context, data resources.Values) (resources.Record, error) {
	entity := new(T)
	if _, err := decode(data, entity); err != nil {
		return nil, err
	}
	if m.opts.assign != nil {
		if _, err := m.opts.assign(entity, data); err != nil {
			return nil, fmt.Errorf("records: assign %s: %w", m.name, err)
		}
	}

	if err := m.db.WithContext(ensureContext(ctx)).Create(entity).Error; err != nil {
		return nil, fmt.Errorf("records: create %s: %w", m.name, err)
	}
	return m.wrap(entity), nil
}

// Find loads the entity identified by id.
func (m *Model[T, PT]) Find(ctx context.Context, id string) (resources.Record, error) {
	entity := new(T)
	err := m.db.WithContext(ensureContext(ctx)).
		Where(fmt.Sprintf("%s = ?", m.opts.key), id).
		Take(entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, m.name, id)
	}
	if err != nil {
		return nil, fmt.Errorf("records: find %s: %w", m.name, err)
	}
	return m.wrap(entity), nil
}

// Collect executes tx and wraps every row.
func (m *Model[T, PT]) Collect(tx *gorm.DB) ([]resources.Record, error) {
	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("records: collect %s: %w", m.name, err)
	}

	result := make([]resources.Record, 0, len(rows))
	for i := range rows {
		result = append(result, m.wrap(&rows[i]))
	}
	return result, nil
}

func (m *Model[T, PT]) wrap(entity *T) *Entity[T, PT] {
	return &Entity[T, PT]{model: m, entity: entity}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

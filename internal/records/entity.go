package records

import (
	"context"
	"fmt"

	"github.com/charlesng35/nebula/internal/resources"
)

// Entity is a loaded row of a Model.
type Entity[T any, PT Keyed[T]] struct {
	model  *Model[T, PT]
	entity *T
}

// Key returns the primary key.
func (e *Entity[T, PT]) Key() string {
	return PT(e.entity).PrimaryKey()
}

// Attributes returns the underlying entity for serialisation.
func (e *Entity[T, PT]) Attributes() any {
	return e.entity
}

// Value returns the typed entity.
func (e *Entity[T, PT]) Value() *T {
	return e.entity
}

// Update applies data to the entity and persists only the submitted columns.
func (e *Entity[T, PT]) Update(ctx context.Context, data resources.Values) error {
	columns, err := decode(data, e.entity)
	if err != nil {
		return err
	}
	if e.model.opts.assign != nil {
		assigned, err := e.model.opts.assign(e.entity, data)
		if err != nil {
			return fmt.Errorf("records: assign %s: %w", e.model.name, err)
		}
		columns = append(columns, assigned...)
	}
	if len(columns) == 0 {
		return nil
	}
	columns = append(columns, "updated_at")

	err = e.model.db.WithContext(ensureContext(ctx)).
		Model(e.entity).
		Select(columns).
		Updates(e.entity).Error
	if err != nil {
		return fmt.Errorf("records: update %s %q: %w", e.model.name, e.Key(), err)
	}
	return nil
}

// Delete removes the entity.
func (e *Entity[T, PT]) Delete(ctx context.Context) error {
	if err := e.model.db.WithContext(ensureContext(ctx)).Delete(e.entity).Error; err != nil {
		return fmt.Errorf("records: delete %s %q: %w", e.model.name, e.Key(), err)
	}
	return nil
}

package resources

import (
	"context"

	"gorm.io/gorm"
)

// Values carries submitted attribute values keyed by field name.
type Values map[string]any

// Descriptor is implemented by every admin resource. Fields and Columns have no
// sensible default and must always be declared.
type Descriptor interface {
	Fields() []Field
	Columns() []Column
}

// ModelProvider overrides the convention-based model lookup.
type ModelProvider interface {
	Model() (ModelType, error)
}

// Iconer overrides the default menu icon.
type Iconer interface {
	Icon() string
}

// EditFielder declares fields that differ on the edit form.
type EditFielder interface {
	EditFields() []Field
}

// CreateFielder declares fields that differ on the create form.
type CreateFielder interface {
	CreateFields() []Field
}

// Filterer declares the filters selectable on the index view.
type Filterer interface {
	Filters() []Filter
}

// Searcher declares the columns matched by free-text search.
type Searcher interface {
	Searchable() []string
}

// MetricProvider declares the metrics displayed next to the listing.
type MetricProvider interface {
	Metrics() []Metric
}

// Storer replaces the default store query.
type Storer interface {
	Store(ctx context.Context, model ModelType, data Values) (Record, error)
}

// Updater replaces the default update query.
type Updater interface {
	Update(ctx context.Context, record Record, data Values) error
}

// Deleter replaces the default delete query.
type Deleter interface {
	Delete(ctx context.Context, record Record) error
}

// ModelType is the persisted entity a resource manages.
type ModelType interface {
	ModelName() string
	Query(ctx context.Context) *gorm.DB
	Create(ctx context.Context, data Values) (Record, error)
	Find(ctx context.Context, id string) (Record, error)
	Collect(tx *gorm.DB) ([]Record, error)
}

// Record is a single loaded instance of a ModelType.
type Record interface {
	Key() string
	Attributes() any
	Update(ctx context.Context, data Values) error
	Delete(ctx context.Context) error
}

// Field is a form input bound to one model attribute.
type Field interface {
	Name() string
	Label() string
	Component() string
	Rules() []string
}

// Filler transforms a submitted value before it reaches the model.
type Filler interface {
	Fill(value any) (any, error)
}

// Column is a display unit of the index table.
type Column interface {
	Name() string
	Label() string
	Sortable() bool
}

// FilterOption is a selectable value of a filter.
type FilterOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Filter is a named query refinement.
type Filter interface {
	Name() string
	Label() string
	Options() []FilterOption
	Apply(tx *gorm.DB, value string) (*gorm.DB, error)
}

// Metric is an aggregate displayed alongside the listing.
type Metric interface {
	Name() string
	Label() string
	Calculate(ctx context.Context, tx *gorm.DB) (any, error)
}

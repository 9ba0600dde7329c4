package resources

import (
	"context"
	"errors"
	"strings"
)

// DefaultIcon is the menu icon used when a descriptor does not declare one.
const DefaultIcon = "tag"

var errNilDescriptor = errors.New("resources: nil descriptor")

// Resource wraps a Descriptor and supplies the defaults for every optional
// capability the descriptor does not implement.
type Resource struct {
	desc     Descriptor
	catalog  *Catalog
	typeName string
}

// New wraps desc. catalog may be nil when the descriptor provides its own model.
func New(desc Descriptor, catalog *Catalog) (*Resource, error) {
	if desc == nil {
		return nil, errNilDescriptor
	}
	return &Resource{
		desc:     desc,
		catalog:  catalog,
		typeName: TypeName(desc),
	}, nil
}

// Descriptor exposes the wrapped descriptor.
func (r *Resource) Descriptor() Descriptor {
	return r.desc
}

// Name returns the plural kebab identifier, e.g. PostResource -> posts.
func (r *Resource) Name() string {
	return PluralKey(BaseName(r.typeName))
}

// SingularName returns the spaced singular label, e.g. blog-posts -> blog post.
func (r *Resource) SingularName() string {
	return Singularize(r.Name())
}

// PluralName returns the spaced plural label, e.g. blog posts.
func (r *Resource) PluralName() string {
	return Pluralize(r.SingularName())
}

// Icon returns the menu icon.
func (r *Resource) Icon() string {
	if iconer, ok := r.desc.(Iconer); ok {
		if icon := strings.TrimSpace(iconer.Icon()); icon != "" {
			return icon
		}
	}
	return DefaultIcon
}

// Model returns the backing model type. An explicit ModelProvider wins,
// otherwise the catalog is searched for the descriptor's base name.
func (r *Resource) Model() (ModelType, error) {
	if provider, ok := r.desc.(ModelProvider); ok {
		return provider.Model()
	}

	name := BaseName(r.typeName)
	if r.catalog == nil {
		return nil, &ConfigurationError{Model: name}
	}
	return r.catalog.Resolve(name)
}

// Fields returns the declared fields.
func (r *Resource) Fields() []Field {
	return r.desc.Fields()
}

// EditFields returns the edit form fields, defaulting to Fields.
func (r *Resource) EditFields() []Field {
	if f, ok := r.desc.(EditFielder); ok {
		return f.EditFields()
	}
	return r.Fields()
}

// CreateFields returns the create form fields, defaulting to Fields.
func (r *Resource) CreateFields() []Field {
	if f, ok := r.desc.(CreateFielder); ok {
		return f.CreateFields()
	}
	return r.Fields()
}

// Columns returns the index table columns.
func (r *Resource) Columns() []Column {
	return r.desc.Columns()
}

// Filters returns the declared filters, empty by default.
func (r *Resource) Filters() []Filter {
	if f, ok := r.desc.(Filterer); ok {
		return f.Filters()
	}
	return nil
}

// Searchable returns the free-text search columns, empty by default.
func (r *Resource) Searchable() []string {
	if s, ok := r.desc.(Searcher); ok {
		return s.Searchable()
	}
	return nil
}

// Metrics returns the declared metrics, empty by default.
func (r *Resource) Metrics() []Metric {
	if m, ok := r.desc.(MetricProvider); ok {
		return m.Metrics()
	}
	return nil
}

// Rules merges the validation rules of fields into a map keyed by field name.
// A field name appearing twice yields a DuplicateFieldError.
func (r *Resource) Rules(fields []Field) (map[string][]string, error) {
	rules := make(map[string][]string, len(fields))
	for _, field := range fields {
		if field == nil {
			continue
		}
		name := field.Name()
		if _, exists := rules[name]; exists {
			return nil, &DuplicateFieldError{Field: name}
		}
		rules[name] = append([]string(nil), field.Rules()...)
	}
	return rules, nil
}

// ResolveFilter returns the first declared filter named name.
func (r *Resource) ResolveFilter(name string) (Filter, error) {
	for _, filter := range r.Filters() {
		if filter != nil && filter.Name() == name {
			return filter, nil
		}
	}
	return nil, &FilterNotFoundError{Resource: r.Name(), Filter: name}
}

// Store creates a new record of model from data.
func (r *Resource) Store(ctx context.Context, model ModelType, data Values) (Record, error) {
	if s, ok := r.desc.(Storer); ok {
		return s.Store(ctx, model, data)
	}
	return model.Create(ctx, data)
}

// Update applies data to record.
func (r *Resource) Update(ctx context.Context, record Record, data Values) error {
	if u, ok := r.desc.(Updater); ok {
		return u.Update(ctx, record, data)
	}
	return record.Update(ctx, data)
}

// Delete removes record.
func (r *Resource) Delete(ctx context.Context, record Record) error {
	if d, ok := r.desc.(Deleter); ok {
		return d.Delete(ctx, record)
	}
	return record.Delete(ctx)
}

package services

import (
	"github.com/charlesng35/nebula/internal/resources"
)

// FieldSchema describes a form input for the front-end.
type FieldSchema struct {
	Name      string         `json:"name"`
	Label     string         `json:"label"`
	Component string         `json:"component"`
	Rules     []string       `json:"rules"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// ColumnSchema describes an index table column.
type ColumnSchema struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
}

// FilterSchema describes a selectable filter.
type FilterSchema struct {
	Name    string                   `json:"name"`
	Label   string                   `json:"label"`
	Options []resources.FilterOption `json:"options,omitempty"`
}

// MetricSchema names a metric card.
type MetricSchema struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// ResourceSchema is everything a client needs to render a resource.
type ResourceSchema struct {
	Name         string         `json:"name"`
	Singular     string         `json:"singular"`
	Plural       string         `json:"plural"`
	Icon         string         `json:"icon"`
	Model        string         `json:"model"`
	Fields       []FieldSchema  `json:"fields"`
	CreateFields []FieldSchema  `json:"create_fields"`
	EditFields   []FieldSchema  `json:"edit_fields"`
	Columns      []ColumnSchema `json:"columns"`
	Filters      []FilterSchema `json:"filters"`
	Searchable   []string       `json:"searchable"`
	Metrics      []MetricSchema `json:"metrics"`
}

// metaProvider is implemented by fields carrying renderer hints.
type metaProvider interface {
	Meta() map[string]any
}

func describeResource(res *resources.Resource, model resources.ModelType) *ResourceSchema {
	schema := &ResourceSchema{
		Name:         res.Name(),
		Singular:     res.SingularName(),
		Plural:       res.PluralName(),
		Icon:         res.Icon(),
		Model:        model.ModelName(),
		Fields:       describeFields(res.Fields()),
		CreateFields: describeFields(res.CreateFields()),
		EditFields:   describeFields(res.EditFields()),
		Columns:      make([]ColumnSchema, 0, len(res.Columns())),
		Filters:      make([]FilterSchema, 0, len(res.Filters())),
		Searchable:   append([]string{}, res.Searchable()...),
		Metrics:      make([]MetricSchema, 0, len(res.Metrics())),
	}

	for _, column := range res.Columns() {
		if column == nil {
			continue
		}
		schema.Columns = append(schema.Columns, ColumnSchema{
			Name:     column.Name(),
			Label:    column.Label(),
			Sortable: column.Sortable(),
		})
	}
	for _, filter := range res.Filters() {
		if filter == nil {
			continue
		}
		schema.Filters = append(schema.Filters, FilterSchema{
			Name:    filter.Name(),
			Label:   filter.Label(),
			Options: filter.Options(),
		})
	}
	for _, metric := range res.Metrics() {
		if metric == nil {
			continue
		}
		schema.Metrics = append(schema.Metrics, MetricSchema{Name: metric.Name(), Label: metric.Label()})
	}
	return schema
}

func describeFields(fields []resources.Field) []FieldSchema {
	out := make([]FieldSchema, 0, len(fields))
	for _, field := range fields {
		if field == nil {
			continue
		}
		item := FieldSchema{
			Name:      field.Name(),
			Label:     field.Label(),
			Component: field.Component(),
			Rules:     append([]string{}, field.Rules()...),
		}
		if provider, ok := field.(metaProvider); ok {
			if meta := provider.Meta(); len(meta) > 0 {
				item.Meta = meta
			}
		}
		out = append(out, item)
	}
	return out
}

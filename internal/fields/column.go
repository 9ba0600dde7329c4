package fields

import "strings"

// Column is the stock resources.Column implementation.
type Column struct {
	name     string
	label    string
	sortable bool
}

// NewColumn declares an index table column bound to an attribute.
func NewColumn(name string) *Column {
	name = strings.TrimSpace(name)
	return &Column{name: name, label: Humanize(name)}
}

// WithLabel overrides the humanized heading.
func (c *Column) WithLabel(label string) *Column {
	c.label = label
	return c
}

// WithSorting allows ordering the listing by this column.
func (c *Column) WithSorting() *Column {
	c.sortable = true
	return c
}

func (c *Column) Name() string   { return c.name }
func (c *Column) Label() string  { return c.label }
func (c *Column) Sortable() bool { return c.sortable }

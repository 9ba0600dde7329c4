package fields

import (
	"fmt"
	"strings"

	"github.com/charlesng35/nebula/internal/resources"
	"github.com/charlesng35/nebula/pkg/crypto"
)

// Components understood by the front-end form renderer.
const (
	ComponentText     = "text"
	ComponentTextarea = "textarea"
	ComponentNumber   = "number"
	ComponentBoolean  = "boolean"
	ComponentSelect   = "select"
	ComponentDate     = "date"
	ComponentEmail    = "email"
	ComponentPassword = "password"
)

// Field is the stock resources.Field implementation. Builders return the
// receiver so declarations can be chained.
type Field struct {
	name        string
	label       string
	component   string
	help        string
	placeholder string
	rules       []string
	options     []resources.FilterOption
	fill        func(any) (any, error)
}

func newField(name, component string, rules ...string) *Field {
	name = strings.TrimSpace(name)
	return &Field{
		name:      name,
		label:     Humanize(name),
		component: component,
		rules:     rules,
	}
}

// Text declares a single line input.
func Text(name string) *Field { return newField(name, ComponentText) }

// Textarea declares a multi-line input.
func Textarea(name string) *Field { return newField(name, ComponentTextarea) }

// Number declares a numeric input.
func Number(name string) *Field { return newField(name, ComponentNumber, "numeric") }

// Boolean declares a checkbox.
func Boolean(name string) *Field { return newField(name, ComponentBoolean) }

// Date declares a date picker accepting RFC3339 or YYYY-MM-DD values.
func Date(name string) *Field { return newField(name, ComponentDate) }

// Email declares an e-mail input validated as an address.
func Email(name string) *Field { return newField(name, ComponentEmail, "email") }

// Select declares a dropdown restricted to options.
func Select(name string, options ...resources.FilterOption) *Field {
	f := newField(name, ComponentSelect)
	f.options = options
	if len(options) > 0 {
		values := make([]string, 0, len(options))
		for _, opt := range options {
			values = append(values, opt.Value)
		}
		f.rules = append(f.rules, "oneof="+strings.Join(values, " "))
	}
	return f
}

// Password declares a secret input whose value is stored as a bcrypt hash.
func Password(name string) *Field {
	f := newField(name, ComponentPassword)
	f.fill = hashPassword
	return f
}

// WithLabel overrides the humanized label.
func (f *Field) WithLabel(label string) *Field {
	f.label = label
	return f
}

// WithRules appends validation rules. Both "min=3" and "min:3" are accepted;
// rules only apply to submitted values unless "required" is present.
func (f *Field) WithRules(rules ...string) *Field {
	f.rules = append(f.rules, rules...)
	return f
}

// WithHelp sets the hint rendered under the input.
func (f *Field) WithHelp(help string) *Field {
	f.help = help
	return f
}

// WithPlaceholder sets the input placeholder.
func (f *Field) WithPlaceholder(placeholder string) *Field {
	f.placeholder = placeholder
	return f
}

// Name returns the bound attribute name.
func (f *Field) Name() string { return f.name }

// Label returns the display label.
func (f *Field) Label() string { return f.label }

// Component returns the form component key.
func (f *Field) Component() string { return f.component }

// Rules returns a copy of the validation rules.
func (f *Field) Rules() []string { return append([]string(nil), f.rules...) }

// Meta returns renderer hints.
func (f *Field) Meta() map[string]any {
	meta := map[string]any{}
	if f.help != "" {
		meta["help"] = f.help
	}
	if f.placeholder != "" {
		meta["placeholder"] = f.placeholder
	}
	if len(f.options) > 0 {
		meta["options"] = f.options
	}
	return meta
}

// Fill transforms a submitted value before persistence.
func (f *Field) Fill(value any) (any, error) {
	if f.fill == nil {
		return value, nil
	}
	return f.fill(value)
}

func hashPassword(value any) (any, error) {
	plain, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("fields: password must be a string, got %T", value)
	}
	if plain == "" || crypto.IsHashed(plain) {
		return plain, nil
	}
	return crypto.HashPassword(plain)
}

// Humanize turns an attribute name into a label (published_at -> Published at).
func Humanize(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(name, "_", " "), "-", " "))
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Package panel keeps the set of admin resources served by the application.
package panel

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/charlesng35/nebula/internal/resources"
)

var (
	// ErrResourceNotFound is returned when no resource is registered under a name.
	ErrResourceNotFound = errors.New("panel: resource not found")

	errNilFactory      = errors.New("panel: nil factory")
	errNilDescriptor   = errors.New("panel: factory returned nil descriptor")
	errDuplicate       = errors.New("panel: resource already registered")
	errNoFields        = errors.New("panel: resource declares no fields")
	errNoColumns       = errors.New("panel: resource declares no columns")
	errDuplicateFilter = errors.New("panel: duplicate filter name")
)

// Factory builds a fresh descriptor. It is invoked for every resolution so
// descriptors never share per-request state.
type Factory func() resources.Descriptor

// NavigationItem is a menu entry.
type NavigationItem struct {
	Name     string `json:"name"`
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
	Icon     string `json:"icon"`
	Model    string `json:"model"`
}

// Panel resolves resource names to descriptors.
type Panel struct {
	catalog *resources.Catalog

	mu        sync.RWMutex
	factories map[string]Factory
}

// New constructs an empty panel bound to catalog.
func New(catalog *resources.Catalog) *Panel {
	return &Panel{catalog: catalog, factories: make(map[string]Factory)}
}

// Catalog returns the model catalog resources resolve against.
func (p *Panel) Catalog() *resources.Catalog {
	return p.catalog
}

// Register validates the resource built by factory and stores it under its
// derived name. Every validation failure is reported.
func (p *Panel) Register(factory Factory) error {
	if factory == nil {
		return errNilFactory
	}
	desc := factory()
	if desc == nil {
		return errNilDescriptor
	}

	res, err := resources.New(desc, p.catalog)
	if err != nil {
		return fmt.Errorf("panel: %w", err)
	}
	if err := validate(res); err != nil {
		return fmt.Errorf("panel: invalid resource %s: %w", res.Name(), err)
	}

	name := res.Name()
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.factories[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicate, name)
	}
	p.factories[name] = factory
	return nil
}

// MustRegister wraps Register and panics on error for start-up declarations.
func (p *Panel) MustRegister(factories ...Factory) {
	for _, factory := range factories {
		if err := p.Register(factory); err != nil {
			panic(err)
		}
	}
}

// Resolve builds a fresh resource registered under name.
func (p *Panel) Resolve(name string) (*resources.Resource, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	p.mu.RLock()
	factory, ok := p.factories[name]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	return resources.New(factory(), p.catalog)
}

// Names returns the registered resource names in sorted order.
func (p *Panel) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.factories))
	for name := range p.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Navigation returns menu entries sorted by name.
func (p *Panel) Navigation() []NavigationItem {
	names := p.Names()
	items := make([]NavigationItem, 0, len(names))
	for _, name := range names {
		res, err := p.Resolve(name)
		if err != nil {
			continue
		}
		item := NavigationItem{
			Name:     res.Name(),
			Singular: res.SingularName(),
			Plural:   res.PluralName(),
			Icon:     res.Icon(),
		}
		if model, err := res.Model(); err == nil {
			item.Model = model.ModelName()
		}
		items = append(items, item)
	}
	return items
}

func validate(res *resources.Resource) error {
	var errs error

	if len(res.Fields()) == 0 {
		errs = multierr.Append(errs, errNoFields)
	}
	if len(res.Columns()) == 0 {
		errs = multierr.Append(errs, errNoColumns)
	}
	if _, err := res.Model(); err != nil {
		errs = multierr.Append(errs, err)
	}

	for _, set := range [][]resources.Field{res.Fields(), res.CreateFields(), res.EditFields()} {
		if _, err := res.Rules(set); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
	}

	seen := make(map[string]struct{})
	for _, filter := range res.Filters() {
		if filter == nil {
			continue
		}
		if _, dup := seen[filter.Name()]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", errDuplicateFilter, filter.Name()))
			continue
		}
		seen[filter.Name()] = struct{}{}
	}

	return errs
}

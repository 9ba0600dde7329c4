package resources

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// DefaultNamespaces is the model search path used when none is configured.
var DefaultNamespaces = []string{"app", "app/models"}

var (
	errNilModel         = errors.New("resources: nil model type")
	errEmptyNamespace   = errors.New("resources: namespace is required")
	errEmptyModelName   = errors.New("resources: model name is required")
	errDuplicateModel   = errors.New("resources: model already registered")
	errUnknownNamespace = errors.New("resources: namespace is not on the search path")
)

// Catalog maps model names to model types within an ordered list of namespaces.
// It replaces runtime type discovery with registrations made at start-up.
type Catalog struct {
	mu         sync.RWMutex
	namespaces []string
	models     map[string]map[string]ModelType
}

// NewCatalog builds a catalog searching the given namespaces in order.
func NewCatalog(namespaces ...string) *Catalog {
	search := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		if ns = normalizeNamespace(ns); ns != "" {
			search = append(search, ns)
		}
	}
	if len(search) == 0 {
		search = append(search, DefaultNamespaces...)
	}

	models := make(map[string]map[string]ModelType, len(search))
	for _, ns := range search {
		models[ns] = make(map[string]ModelType)
	}
	return &Catalog{namespaces: search, models: models}
}

// Register adds a model type under a namespace of the search path.
func (c *Catalog) Register(namespace string, model ModelType) error {
	if model == nil {
		return errNilModel
	}
	namespace = normalizeNamespace(namespace)
	if namespace == "" {
		return errEmptyNamespace
	}
	name := strings.TrimSpace(model.ModelName())
	if name == "" {
		return errEmptyModelName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, ok := c.models[namespace]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownNamespace, namespace)
	}
	if _, exists := entries[name]; exists {
		return fmt.Errorf("%w: %s/%s", errDuplicateModel, namespace, name)
	}
	entries[name] = model
	return nil
}

// MustRegister wraps Register and panics on error for start-up declarations.
func (c *Catalog) MustRegister(namespace string, model ModelType) {
	if err := c.Register(namespace, model); err != nil {
		panic(err)
	}
}

// Resolve returns the first model named name found along the search path.
func (c *Catalog) Resolve(name string) (ModelType, error) {
	name = strings.TrimSpace(name)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, ns := range c.namespaces {
		if model, ok := c.models[ns][name]; ok {
			return model, nil
		}
	}
	return nil, &ConfigurationError{Model: name, Namespaces: append([]string(nil), c.namespaces...)}
}

// Namespaces returns a copy of the search path.
func (c *Catalog) Namespaces() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.namespaces...)
}

func normalizeNamespace(ns string) string {
	ns = strings.TrimSpace(ns)
	ns = strings.ReplaceAll(ns, `\`, "/")
	return strings.ToLower(strings.Trim(ns, "/"))
}

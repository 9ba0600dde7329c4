// Package admin declares the resources of the bundled demo application.
package admin

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/nebula/internal/models"
	"github.com/charlesng35/nebula/internal/panel"
	"github.com/charlesng35/nebula/internal/records"
	"github.com/charlesng35/nebula/internal/resources"
)

// ModelNamespace is where the demo models are registered.
const ModelNamespace = "app/models"

// RegisterModels adds the convention-resolved demo models to catalog.
// Users are not registered; UserResource supplies its model explicitly.
func RegisterModels(catalog *resources.Catalog, db *gorm.DB) error {
	post, err := records.NewModel[models.Post](db, "Post")
	if err != nil {
		return err
	}
	category, err := records.NewModel[models.Category](db, "Category")
	if err != nil {
		return err
	}

	for _, model := range []resources.ModelType{post, category} {
		if err := catalog.Register(ModelNamespace, model); err != nil {
			return err
		}
	}
	return nil
}

// Factories returns the demo resource factories bound to db.
func Factories(db *gorm.DB) []panel.Factory {
	return []panel.Factory{
		func() resources.Descriptor { return &PostResource{} },
		func() resources.Descriptor { return &CategoryResource{db: db} },
		func() resources.Descriptor { return &UserResource{db: db} },
	}
}

// NewPanel builds a panel serving the demo resources. Namespaces default to
// resources.DefaultNamespaces and must include ModelNamespace.
func NewPanel(db *gorm.DB, namespaces ...string) (*panel.Panel, error) {
	if db == nil {
		return nil, fmt.Errorf("admin: db is required")
	}

	catalog := resources.NewCatalog(namespaces...)
	if err := RegisterModels(catalog, db); err != nil {
		return nil, fmt.Errorf("admin: register models: %w", err)
	}

	p := panel.New(catalog)
	for _, factory := range Factories(db) {
		if err := p.Register(factory); err != nil {
			return nil, fmt.Errorf("admin: %w", err)
		}
	}
	return p, nil
}

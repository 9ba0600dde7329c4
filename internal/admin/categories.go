package admin

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/nebula/internal/fields"
	"github.com/charlesng35/nebula/internal/metrics"
	"github.com/charlesng35/nebula/internal/models"
	"github.com/charlesng35/nebula/internal/resources"
)

// CategoryResource manages post categories.
type CategoryResource struct {
	db *gorm.DB
}

func (*CategoryResource) Icon() string { return "folder" }

func (*CategoryResource) Fields() []resources.Field {
	return []resources.Field{
		fields.Text("name").WithRules("required", "max:120"),
		fields.Text("slug").WithRules("required", "slug", "max:120"),
		fields.Textarea("description"),
	}
}

func (*CategoryResource) Columns() []resources.Column {
	return []resources.Column{
		fields.NewColumn("name").WithSorting(),
		fields.NewColumn("slug"),
		fields.NewColumn("created_at").WithSorting(),
	}
}

func (*CategoryResource) Searchable() []string {
	return []string{"name", "slug"}
}

func (*CategoryResource) Metrics() []resources.Metric {
	return []resources.Metric{metrics.Count("total").WithLabel("Categories")}
}

// Delete detaches the category's posts before removing it.
func (r *CategoryResource) Delete(ctx context.Context, record resources.Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", record.Key()).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach posts: %w", err)
		}
		return tx.Delete(&models.Category{}, "id = ?", record.Key()).Error
	})
}

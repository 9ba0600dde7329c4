package admin

import (
	"context"
	"strings"
	"unicode"

	"github.com/stoewer/go-strcase"
	"gorm.io/gorm"

	"github.com/charlesng35/nebula/internal/fields"
	"github.com/charlesng35/nebula/internal/filters"
	"github.com/charlesng35/nebula/internal/metrics"
	"github.com/charlesng35/nebula/internal/models"
	"github.com/charlesng35/nebula/internal/resources"
)

// popularViews is the view count from which a post counts as popular.
const popularViews = 100

var postStatuses = []resources.FilterOption{
	{Label: "Draft", Value: models.PostStatusDraft},
	{Label: "Published", Value: models.PostStatusPublished},
	{Label: "Archived", Value: models.PostStatusArchived},
}

// PostResource manages blog posts. The model is resolved by convention.
type PostResource struct{}

func (*PostResource) Icon() string { return "file-text" }

func (*PostResource) Fields() []resources.Field {
	return []resources.Field{
		fields.Text("title").WithRules("required", "min:3", "max:200"),
		fields.Text("slug").WithRules("slug", "max:200").WithHelp("Generated from the title when empty"),
		fields.Textarea("body").WithRules("required", "min:10"),
		fields.Text("author").WithRules("max:120"),
		fields.Select("status", postStatuses...),
		fields.Boolean("featured"),
		fields.Number("views").WithRules("min=0"),
		fields.Number("rating").WithRules("min=0", "max=5"),
		fields.Date("published_at"),
		fields.Text("category_id").WithLabel("Category").WithRules("uuid"),
	}
}

func (*PostResource) Columns() []resources.Column {
	return []resources.Column{
		fields.NewColumn("title").WithSorting(),
		fields.NewColumn("author"),
		fields.NewColumn("status"),
		fields.NewColumn("views").WithSorting(),
		fields.NewColumn("rating").WithSorting(),
		fields.NewColumn("published_at").WithSorting(),
		fields.NewColumn("created_at").WithSorting(),
	}
}

func (*PostResource) Filters() []resources.Filter {
	return []resources.Filter{
		filters.Select("status", "status", postStatuses...),
		filters.Boolean("featured", "featured"),
		filters.Equals("author", "author"),
		filters.DateRange("published", "published_at").WithLabel("Published between"),
		filters.Func("popular", func(tx *gorm.DB, value string) (*gorm.DB, error) {
			if value != "true" {
				return tx, nil
			}
			return tx.Where("views >= ?", popularViews), nil
		}),
	}
}

func (*PostResource) Searchable() []string {
	return []string{"title", "body", "author"}
}

func (*PostResource) Metrics() []resources.Metric {
	return []resources.Metric{
		metrics.Count("total").WithLabel("Posts"),
		metrics.Partition("by_status", "status").WithLabel("Posts by status"),
		metrics.Sum("views", "views").WithLabel("Total views"),
		metrics.Average("rating", "rating").WithLabel("Average rating"),
		metrics.Max("top_views", "views").WithLabel("Most views"),
	}
}

// Store derives the slug from the title when none was submitted.
func (*PostResource) Store(ctx context.Context, model resources.ModelType, data resources.Values) (resources.Record, error) {
	if slug, _ := data["slug"].(string); strings.TrimSpace(slug) == "" {
		if title, ok := data["title"].(string); ok {
			data["slug"] = Slugify(title)
		}
	}
	return model.Create(ctx, data)
}

// Slugify turns a title into a kebab-case slug.
func Slugify(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		default:
			return ' '
		}
	}, title)
	return strcase.KebabCase(strings.Join(strings.Fields(cleaned), " "))
}

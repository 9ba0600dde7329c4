package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	testutil "github.com/charlesng35/nebula/internal/database/testutil"
	"github.com/charlesng35/nebula/internal/models"
	"github.com/charlesng35/nebula/internal/resources"
	"github.com/charlesng35/nebula/internal/services"
	"github.com/charlesng35/nebula/pkg/crypto"
	"github.com/charlesng35/nebula/pkg/validator"
)

func newService(t *testing.T) (*services.ResourceService, func() int64) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	p, err := NewPanel(db)
	require.NoError(t, err)

	svc, err := services.NewResourceService(p)
	require.NoError(t, err)

	countPosts := func() int64 {
		var total int64
		require.NoError(t, db.Model(&models.Post{}).Count(&total).Error)
		return total
	}
	return svc, countPosts
}

func TestNewPanelRegistersDemoResources(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	p, err := NewPanel(db)
	require.NoError(t, err)
	require.Equal(t, []string{"categories", "posts", "users"}, p.Names())

	nav := p.Navigation()
	require.Len(t, nav, 3)
	require.Equal(t, "category", nav[0].Singular)
	require.Equal(t, "folder", nav[0].Icon)
	require.Equal(t, "Category", nav[0].Model)
	require.Equal(t, "Post", nav[1].Model)
	require.Equal(t, "User", nav[2].Model)

	_, err = NewPanel(nil)
	require.Error(t, err)
}

func TestNewPanelRequiresModelNamespace(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	_, err := NewPanel(db, "app")
	require.Error(t, err)
}

func TestUserResourceOverrides(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	res, err := resources.New(&UserResource{db: db}, nil)
	require.NoError(t, err)

	model, err := res.Model()
	require.NoError(t, err)
	require.Equal(t, "User", model.ModelName())

	names := func(fields []resources.Field) []string {
		out := make([]string, 0, len(fields))
		for _, f := range fields {
			out = append(out, f.Name())
		}
		return out
	}
	require.Equal(t, []string{"name", "email", "role", "is_active", "password"}, names(res.CreateFields()))
	require.Equal(t, []string{"name", "email", "role", "is_active"}, names(res.EditFields()))
}

func TestPostStoreGeneratesSlug(t *testing.T) {
	svc, countPosts := newService(t)
	ctx := context.Background()
	before := countPosts()

	attrs, err := svc.Create(ctx, "posts", resources.Values{
		"title": "Shipping Nebula 1.0!",
		"body":  "Release notes for the first stable version.",
	})
	require.NoError(t, err)
	post := attrs.(*models.Post)
	require.Equal(t, "shipping-nebula-1-0", post.Slug)
	require.Equal(t, models.PostStatusDraft, post.Status)
	require.Equal(t, before+1, countPosts())

	attrs, err = svc.Create(ctx, "posts", resources.Values{
		"title": "Custom slug",
		"slug":  "kept-as-is",
		"body":  "The submitted slug wins over the title.",
	})
	require.NoError(t, err)
	require.Equal(t, "kept-as-is", attrs.(*models.Post).Slug)

	_, err = svc.Create(ctx, "posts", resources.Values{
		"title": "Spaces",
		"slug":  "Not A Slug",
		"body":  "Rejected before the hook runs.",
	})
	var invalid validator.ValidationErrors
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, validator.ValidationErrors{{Field: "slug", Tag: "slug"}}, invalid)
	require.Equal(t, before+2, countPosts())
}

func TestPostFiltersAndMetrics(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	page, err := svc.Index(ctx, "posts", services.IndexQuery{Filters: map[string]string{"status": models.PostStatusPublished}})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)

	page, err = svc.Index(ctx, "posts", services.IndexQuery{Filters: map[string]string{"published": "2024-01-01..2024-01-31"}})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)

	page, err = svc.Index(ctx, "posts", services.IndexQuery{Search: "first"})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)

	values, err := svc.Metrics(ctx, "posts")
	require.NoError(t, err)
	require.Len(t, values, 5)
	require.Equal(t, int64(2), values[0].Value)
	require.Equal(t, map[string]int64{"draft": 1, "published": 1}, values[1].Value)
}

func TestUserCreateHashesPassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "users", resources.Values{"name": "Ada", "email": "ada@example.com"})
	require.Error(t, err, "password is required on create")

	attrs, err := svc.Create(ctx, "users", resources.Values{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "correct horse battery",
		"role":     "admin",
	})
	require.NoError(t, err)
	user := attrs.(*models.User)
	require.True(t, crypto.VerifyPassword(user.Password, "correct horse battery"))

	attrs, err = svc.Update(ctx, "users", user.ID, resources.Values{"name": "Ada L.", "password": "ignored-on-edit"})
	require.NoError(t, err)
	updated := attrs.(*models.User)
	require.Equal(t, "Ada L.", updated.Name)
	require.True(t, crypto.VerifyPassword(updated.Password, "correct horse battery"))
}

func TestCategoryDeleteDetachesPosts(t *testing.T) {
	svc, countPosts := newService(t)
	ctx := context.Background()
	before := countPosts()

	page, err := svc.Index(ctx, "categories", services.IndexQuery{Search: "news"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	category := page.Data[0].(*models.Category)

	require.NoError(t, svc.Delete(ctx, "categories", category.ID))
	require.Equal(t, before, countPosts())

	posts, err := svc.Index(ctx, "posts", services.IndexQuery{Search: "welcome"})
	require.NoError(t, err)
	require.Len(t, posts.Data, 1)
	require.Nil(t, posts.Data[0].(*models.Post).CategoryID)
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "hello-world", Slugify("  Hello,   World "))
	require.Equal(t, "", Slugify("!!!"))
}

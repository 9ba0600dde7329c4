package records_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/nebula/internal/database/testutil"
	"github.com/charlesng35/nebula/internal/models"
	"github.com/charlesng35/nebula/internal/records"
	"github.com/charlesng35/nebula/internal/resources"
)

var _ resources.ModelType = (*records.Model[models.Post, *models.Post])(nil)

func newPostModel(t *testing.T) (*gorm.DB, *records.Model[models.Post, *models.Post]) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	model, err := records.NewModel[models.Post](db, "Post")
	require.NoError(t, err)
	return db, model
}

func TestNewModelValidation(t *testing.T) {
	_, err := records.NewModel[models.Post](nil, "Post")
	require.Error(t, err)

	db := testutil.MustOpenTestDB(t)
	_, err = records.NewModel[models.Post](db, "  ")
	require.Error(t, err)
}

func TestCreateDecodesLooseValues(t *testing.T) {
	_, model := newPostModel(t)
	ctx := context.Background()

	record, err := model.Create(ctx, resources.Values{
		"title":        "Hello",
		"slug":         "hello",
		"views":        "42",
		"featured":     "true",
		"rating":       4.5,
		"tags":         []any{"go", "gorm"},
		"published_at": "2024-05-01",
		"unknown":      "ignored",
	})
	require.NoError(t, err)
	require.NotEmpty(t, record.Key())

	post := record.Attributes().(*models.Post)
	require.Equal(t, "Hello", post.Title)
	require.EqualValues(t, 42, post.Views)
	require.True(t, post.Featured)
	require.Equal(t, 4.5, post.Rating)
	require.JSONEq(t, `["go","gorm"]`, string(post.Tags))
	require.NotNil(t, post.PublishedAt)
	require.True(t, post.PublishedAt.Equal(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "Post", model.ModelName())
}

func TestCreateRejectsInvalidTime(t *testing.T) {
	_, model := newPostModel(t)
	_, err := model.Create(context.Background(), resources.Values{
		"title":        "Bad",
		"slug":         "bad",
		"published_at": "next tuesday",
	})
	require.Error(t, err)
}

func TestFind(t *testing.T) {
	_, model := newPostModel(t)
	ctx := context.Background()

	created, err := model.Create(ctx, resources.Values{"title": "Find me", "slug": "find-me"})
	require.NoError(t, err)

	found, err := model.Find(ctx, created.Key())
	require.NoError(t, err)
	require.Equal(t, created.Key(), found.Key())
	require.Equal(t, "Find me", found.Attributes().(*models.Post).Title)

	_, err = model.Find(ctx, "missing")
	require.ErrorIs(t, err, records.ErrNotFound)
}

func TestUpdatePersistsSubmittedColumnsOnly(t *testing.T) {
	db, model := newPostModel(t)
	ctx := context.Background()

	created, err := model.Create(ctx, resources.Values{"title": "Draft", "slug": "draft", "body": "keep me", "views": 7})
	require.NoError(t, err)

	require.NoError(t, created.Update(ctx, resources.Values{"title": "Final", "featured": false, "published_at": ""}))

	var stored models.Post
	require.NoError(t, db.Take(&stored, "id = ?", created.Key()).Error)
	require.Equal(t, "Final", stored.Title)
	require.Equal(t, "keep me", stored.Body)
	require.EqualValues(t, 7, stored.Views)
	require.Nil(t, stored.PublishedAt)
}

func TestDelete(t *testing.T) {
	db, model := newPostModel(t)
	ctx := context.Background()

	created, err := model.Create(ctx, resources.Values{"title": "Bye", "slug": "bye"})
	require.NoError(t, err)
	require.NoError(t, created.Delete(ctx))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestQueryAndCollect(t *testing.T) {
	_, model := newPostModel(t)
	ctx := context.Background()

	for _, slug := range []string{"a", "b", "c"} {
		_, err := model.Create(ctx, resources.Values{"title": slug, "slug": slug})
		require.NoError(t, err)
	}

	rows, err := model.Collect(model.Query(ctx).Where("slug <> ?", "b").Order("slug"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "a", rows[0].Attributes().(*models.Post).Slug)
	require.Equal(t, "c", rows[1].Attributes().(*models.Post).Slug)
}

func TestAssignReachesHiddenColumns(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	ctx := context.Background()

	assign := func(user *models.User, data resources.Values) ([]string, error) {
		if secret, ok := data["password"].(string); ok && secret != "" {
			user.Password = "hashed:" + secret
			return []string{"password"}, nil
		}
		return nil, nil
	}
	model, err := records.NewModel[models.User](db, "User", records.WithAssign(assign))
	require.NoError(t, err)

	created, err := model.Create(ctx, resources.Values{"name": "Ada", "email": "ada@example.com", "password": "one"})
	require.NoError(t, err)
	require.Equal(t, "hashed:one", created.Attributes().(*models.User).Password)

	require.NoError(t, created.Update(ctx, resources.Values{"password": "two"}))

	var stored models.User
	require.NoError(t, db.Take(&stored, "id = ?", created.Key()).Error)
	require.Equal(t, "hashed:two", stored.Password)
	require.Equal(t, "Ada", stored.Name)
}

func TestBlankOptionalAttributesAreCleared(t *testing.T) {
	_, model := newPostModel(t)
	ctx := context.Background()

	record, err := model.Create(ctx, resources.Values{
		"title":        "Blank",
		"slug":         "blank",
		"published_at": "2024-05-01T10:00:00Z",
		"category_id":  "",
	})
	require.NoError(t, err)
	post := record.Attributes().(*models.Post)
	require.Nil(t, post.CategoryID)
	require.NotNil(t, post.PublishedAt)

	require.NoError(t, record.Update(ctx, resources.Values{"published_at": "  "}))
	require.Nil(t, post.PublishedAt)

	found, err := model.Find(ctx, record.Key())
	require.NoError(t, err)
	require.Nil(t, found.Attributes().(*models.Post).PublishedAt)
}

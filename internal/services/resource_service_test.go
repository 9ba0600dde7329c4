package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	testutil "github.com/charlesng35/nebula/internal/database/testutil"
	"github.com/charlesng35/nebula/internal/fields"
	"github.com/charlesng35/nebula/internal/filters"
	"github.com/charlesng35/nebula/internal/metrics"
	"github.com/charlesng35/nebula/internal/models"
	"github.com/charlesng35/nebula/internal/panel"
	"github.com/charlesng35/nebula/internal/realtime"
	"github.com/charlesng35/nebula/internal/records"
	"github.com/charlesng35/nebula/internal/resources"
	"github.com/charlesng35/nebula/pkg/validator"
)

type PostResource struct{}

func (PostResource) Fields() []resources.Field {
	return []resources.Field{
		fields.Text("title").WithRules("required", "min:3"),
		fields.Text("slug").WithRules("required"),
		fields.Textarea("body"),
		fields.Select("status",
			resources.FilterOption{Label: "Draft", Value: models.PostStatusDraft},
			resources.FilterOption{Label: "Published", Value: models.PostStatusPublished},
		),
		fields.Boolean("featured"),
		fields.Number("views"),
	}
}

func (PostResource) Columns() []resources.Column {
	return []resources.Column{
		fields.NewColumn("title").WithSorting(),
		fields.NewColumn("status"),
		fields.NewColumn("views").WithSorting(),
	}
}

func (PostResource) Filters() []resources.Filter {
	return []resources.Filter{
		filters.Select("status", "status",
			resources.FilterOption{Label: "Draft", Value: models.PostStatusDraft},
			resources.FilterOption{Label: "Published", Value: models.PostStatusPublished},
		),
		filters.Boolean("featured", "featured"),
	}
}

func (PostResource) Searchable() []string { return []string{"title", "body"} }

func (PostResource) Metrics() []resources.Metric {
	return []resources.Metric{
		metrics.Count("total"),
		metrics.Sum("views", "views").WithLabel("Total views"),
	}
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []realtime.Message
}

func (p *recordingPublisher) BroadcastStream(stream string, message realtime.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

func (p *recordingPublisher) Messages() []realtime.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Message(nil), p.messages...)
}

type resourceFixture struct {
	db        *gorm.DB
	svc       *ResourceService
	publisher *recordingPublisher
}

func newResourceFixture(t *testing.T, opts ...ResourceServiceOption) resourceFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	catalog := resources.NewCatalog()
	model, err := records.NewModel[models.Post](db, "Post")
	require.NoError(t, err)
	require.NoError(t, catalog.Register("app/models", model))

	p := panel.New(catalog)
	require.NoError(t, p.Register(func() resources.Descriptor { return PostResource{} }))

	audit, err := NewAuditService(db)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	opts = append([]ResourceServiceOption{WithAuditService(audit), WithPublisher(publisher)}, opts...)
	svc, err := NewResourceService(p, opts...)
	require.NoError(t, err)

	return resourceFixture{db: db, svc: svc, publisher: publisher}
}

func (f resourceFixture) seed(t *testing.T) []*models.Post {
	t.Helper()

	inputs := []resources.Values{
		{"title": "Hello Go", "slug": "hello-go", "body": "gophers", "status": "published", "featured": true, "views": 10},
		{"title": "Second post", "slug": "second", "body": "more go", "status": "draft", "views": 5},
		{"title": "Third post", "slug": "third", "body": "rust", "status": "published", "views": 1},
	}
	posts := make([]*models.Post, 0, len(inputs))
	for _, input := range inputs {
		attrs, err := f.svc.Create(context.Background(), "posts", input)
		require.NoError(t, err)
		posts = append(posts, attrs.(*models.Post))
	}
	return posts
}

func TestNewResourceServiceRequiresPanel(t *testing.T) {
	_, err := NewResourceService(nil)
	require.Error(t, err)
}

func TestResourceServiceCreate(t *testing.T) {
	f := newResourceFixture(t)
	ctx := context.Background()

	attrs, err := f.svc.Create(ctx, "posts", resources.Values{
		"title":  "Hello",
		"slug":   "hello",
		"status": "published",
		"author": "ignored",
	})
	require.NoError(t, err)

	post, ok := attrs.(*models.Post)
	require.True(t, ok)
	require.NotEmpty(t, post.ID)
	require.Equal(t, "Hello", post.Title)
	require.Empty(t, post.Author, "undeclared attributes are dropped")

	var logs []models.AuditLog
	require.NoError(t, f.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "posts.create", logs[0].Action)
	require.Equal(t, post.ID, logs[0].RecordID)
	require.Equal(t, AuditResultSuccess, logs[0].Result)

	messages := f.publisher.Messages()
	require.Len(t, messages, 2)
	require.Equal(t, realtime.StreamResources, messages[0].Stream)
	require.Equal(t, "resources.posts", messages[1].Stream)
	require.Equal(t, realtime.EventCreated, messages[0].Event)
	require.Equal(t, post.ID, messages[0].Meta["id"])
}

func TestResourceServiceCreateValidation(t *testing.T) {
	f := newResourceFixture(t)

	_, err := f.svc.Create(context.Background(), "posts", resources.Values{"title": "Hi", "status": "unknown"})
	require.Error(t, err)

	var failures validator.ValidationErrors
	require.True(t, errors.As(err, &failures))

	got := map[string]string{}
	for _, failure := range failures {
		got[failure.Field] = failure.Tag
	}
	require.Equal(t, map[string]string{"title": "min", "slug": "required", "status": "oneof"}, got)
	require.Empty(t, f.publisher.Messages())
}

func TestResourceServiceCreateConflict(t *testing.T) {
	f := newResourceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "posts", resources.Values{"title": "First", "slug": "same"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, "posts", resources.Values{"title": "Second", "slug": "same"})
	require.ErrorIs(t, err, ErrConflict)

	var failed models.AuditLog
	require.NoError(t, f.db.Where("result = ?", AuditResultFailure).First(&failed).Error)
	require.Equal(t, "posts.create", failed.Action)
}

func TestResourceServiceIndex(t *testing.T) {
	f := newResourceFixture(t, WithPagination(2, 50))
	f.seed(t)
	ctx := context.Background()

	page, err := f.svc.Index(ctx, "posts", IndexQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(3), page.Total)
	require.Len(t, page.Data, 2)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 2, page.PerPage)

	page, err = f.svc.Index(ctx, "posts", IndexQuery{Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	page, err = f.svc.Index(ctx, "posts", IndexQuery{Page: math.MaxInt})
	require.NoError(t, err)
	require.Equal(t, math.MaxInt/2, page.Page)
	require.Equal(t, int64(3), page.Total)
	require.Empty(t, page.Data)

	page, err = f.svc.Index(ctx, "posts", IndexQuery{PerPage: 500})
	require.NoError(t, err)
	require.Equal(t, 50, page.PerPage)
	require.Len(t, page.Data, 3)

	page, err = f.svc.Index(ctx, "posts", IndexQuery{Search: "go"})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)

	page, err = f.svc.Index(ctx, "posts", IndexQuery{
		Search:  "post",
		Filters: map[string]string{"status": "published"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	require.Equal(t, "Third post", page.Data[0].(*models.Post).Title)

	page, err = f.svc.Index(ctx, "posts", IndexQuery{Filters: map[string]string{"featured": "true", "status": ""}})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)

	page, err = f.svc.Index(ctx, "posts", IndexQuery{Sort: "-views", PerPage: 10})
	require.NoError(t, err)
	titles := make([]string, 0, len(page.Data))
	for _, item := range page.Data {
		titles = append(titles, item.(*models.Post).Title)
	}
	require.Equal(t, []string{"Hello Go", "Second post", "Third post"}, titles)
}

func TestResourceServiceIndexErrors(t *testing.T) {
	f := newResourceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Index(ctx, "posts", IndexQuery{Filters: map[string]string{"missing": "x"}})
	require.ErrorIs(t, err, resources.ErrFilterNotFound)

	_, err = f.svc.Index(ctx, "posts", IndexQuery{Filters: map[string]string{"status": "deleted"}})
	require.ErrorIs(t, err, filters.ErrInvalidValue)

	_, err = f.svc.Index(ctx, "posts", IndexQuery{Sort: "status"})
	require.ErrorIs(t, err, ErrInvalidSort)

	_, err = f.svc.Index(ctx, "widgets", IndexQuery{})
	require.ErrorIs(t, err, panel.ErrResourceNotFound)
}

func TestResourceServiceShowUpdateDelete(t *testing.T) {
	f := newResourceFixture(t)
	posts := f.seed(t)
	ctx := context.Background()
	id := posts[1].ID

	attrs, err := f.svc.Show(ctx, "posts", id)
	require.NoError(t, err)
	require.Equal(t, "Second post", attrs.(*models.Post).Title)

	_, err = f.svc.Update(ctx, "posts", id, resources.Values{"title": "no"})
	var failures validator.ValidationErrors
	require.True(t, errors.As(err, &failures))
	require.Len(t, failures, 1, "rules of absent fields are skipped")

	attrs, err = f.svc.Update(ctx, "posts", id, resources.Values{"title": "Renamed"})
	require.NoError(t, err)
	updated := attrs.(*models.Post)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, "second", updated.Slug)

	_, err = f.svc.Update(ctx, "posts", "missing", resources.Values{"title": "Renamed"})
	require.ErrorIs(t, err, records.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, "posts", id))
	_, err = f.svc.Show(ctx, "posts", id)
	require.ErrorIs(t, err, records.ErrNotFound)
	require.ErrorIs(t, f.svc.Delete(ctx, "posts", id), records.ErrNotFound)

	var actions []string
	require.NoError(t, f.db.Model(&models.AuditLog{}).Where("record_id = ?", id).Order("action").Pluck("action", &actions).Error)
	require.Equal(t, []string{"posts.create", "posts.delete", "posts.update"}, actions)

	messages := f.publisher.Messages()
	last := messages[len(messages)-1]
	require.Equal(t, realtime.EventDeleted, last.Event)
	require.Equal(t, "resources.posts", last.Stream)
}

func TestResourceServiceMetrics(t *testing.T) {
	f := newResourceFixture(t)
	f.seed(t)

	values, err := f.svc.Metrics(context.Background(), "posts")
	require.NoError(t, err)
	require.Equal(t, []MetricValue{
		{Name: "total", Label: "Total", Value: int64(3)},
		{Name: "views", Label: "Total views", Value: float64(16)},
	}, values)
}

func TestResourceServiceSchema(t *testing.T) {
	f := newResourceFixture(t)

	schema, err := f.svc.Schema("posts")
	require.NoError(t, err)
	require.Equal(t, "posts", schema.Name)
	require.Equal(t, "post", schema.Singular)
	require.Equal(t, "posts", schema.Plural)
	require.Equal(t, resources.DefaultIcon, schema.Icon)
	require.Equal(t, "Post", schema.Model)
	require.Len(t, schema.Fields, 6)
	require.Equal(t, schema.Fields, schema.CreateFields)
	require.Equal(t, schema.Fields, schema.EditFields)
	require.Equal(t, []string{"required", "min:3"}, schema.Fields[0].Rules)
	require.Len(t, schema.Fields[3].Meta["options"], 2)
	require.Equal(t, []string{"title", "body"}, schema.Searchable)
	require.Len(t, schema.Filters, 2)
	require.Len(t, schema.Filters[1].Options, 2)
	require.True(t, schema.Columns[0].Sortable)
	require.False(t, schema.Columns[1].Sortable)
	require.Equal(t, []MetricSchema{{Name: "total", Label: "Total"}, {Name: "views", Label: "Total views"}}, schema.Metrics)

	nav := f.svc.Navigation()
	require.Len(t, nav, 1)
	require.Equal(t, "posts", nav[0].Name)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/nebula/internal/panel"
	"github.com/charlesng35/nebula/internal/realtime"
	"github.com/charlesng35/nebula/internal/resources"
	"github.com/charlesng35/nebula/pkg/metrics"
	"github.com/charlesng35/nebula/pkg/validator"
)

const (
	defaultPerPage    = 15
	defaultMaxPerPage = 100
)

// Publisher delivers change events to realtime subscribers.
type Publisher interface {
	BroadcastStream(stream string, message realtime.Message)
}

// IndexQuery holds listing parameters parsed from the request.
type IndexQuery struct {
	Page    int
	PerPage int
	Search  string
	// Sort names a sortable column; a leading "-" sorts descending.
	Sort    string
	Filters map[string]string
}

// IndexResult is a page of record attributes.
type IndexResult struct {
	Data    []any
	Total   int64
	Page    int
	PerPage int
}

// MetricValue is a calculated metric card.
type MetricValue struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

// ResourceServiceOption customises a ResourceService.
type ResourceServiceOption func(*ResourceService)

// WithAuditService records every mutation in the audit log.
func WithAuditService(audit *AuditService) ResourceServiceOption {
	return func(s *ResourceService) {
		s.audit = audit
	}
}

// WithPublisher broadcasts every mutation.
func WithPublisher(publisher Publisher) ResourceServiceOption {
	return func(s *ResourceService) {
		s.publisher = publisher
	}
}

// WithPagination overrides the default and maximum page sizes.
func WithPagination(perPage, maxPerPage int) ResourceServiceOption {
	return func(s *ResourceService) {
		if perPage > 0 {
			s.perPage = perPage
		}
		if maxPerPage > 0 {
			s.maxPerPage = maxPerPage
		}
	}
}

// ResourceService runs the CRUD operations of registered resources.
type ResourceService struct {
	panel      *panel.Panel
	audit      *AuditService
	publisher  Publisher
	perPage    int
	maxPerPage int
}

// NewResourceService constructs a ResourceService over the resources of p.
func NewResourceService(p *panel.Panel, opts ...ResourceServiceOption) (*ResourceService, error) {
	if p == nil {
		return nil, errors.New("resource service: panel is required")
	}
	svc := &ResourceService{
		panel:      p,
		perPage:    defaultPerPage,
		maxPerPage: defaultMaxPerPage,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.perPage > svc.maxPerPage {
		svc.perPage = svc.maxPerPage
	}
	return svc, nil
}

// Navigation lists the registered resources.
func (s *ResourceService) Navigation() []panel.NavigationItem {
	return s.panel.Navigation()
}

// Schema describes the fields, columns, filters and metrics of a resource.
func (s *ResourceService) Schema(name string) (*ResourceSchema, error) {
	res, model, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	return describeResource(res, model), nil
}

// Index lists records applying search, filters, sorting and pagination.
func (s *ResourceService) Index(ctx context.Context, name string, query IndexQuery) (result *IndexResult, err error) {
	ctx = ensureContext(ctx)
	defer s.observe(name, "index", &err)

	res, model, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	tx := model.Query(ctx)
	tx = applySearch(tx, res.Searchable(), query.Search)
	if tx, err = applyFilters(tx, res, query.Filters); err != nil {
		return nil, err
	}
	if tx, err = applySort(tx, res, query.Sort); err != nil {
		return nil, err
	}
	base := tx.Session(&gorm.Session{})

	page, perPage := s.pagination(query.Page, query.PerPage)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("resource service: count %s: %w", res.Name(), err)
	}

	records, err := model.Collect(base.Offset((page - 1) * perPage).Limit(perPage))
	if err != nil {
		return nil, fmt.Errorf("resource service: list %s: %w", res.Name(), err)
	}

	data := make([]any, 0, len(records))
	for _, record := range records {
		data = append(data, record.Attributes())
	}
	return &IndexResult{Data: data, Total: total, Page: page, PerPage: perPage}, nil
}

// Show loads a single record.
func (s *ResourceService) Show(ctx context.Context, name, id string) (attrs any, err error) {
	ctx = ensureContext(ctx)
	defer s.observe(name, "show", &err)

	_, model, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	record, err := model.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return record.Attributes(), nil
}

// Create validates data against the create fields and stores a new record.
func (s *ResourceService) Create(ctx context.Context, name string, data resources.Values) (attrs any, err error) {
	ctx = ensureContext(ctx)
	defer s.observe(name, "create", &err)

	res, model, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	values, err := s.prepare(res, res.CreateFields(), data, false)
	if err != nil {
		return nil, err
	}

	record, err := res.Store(ctx, model, values)
	if err != nil {
		err = classifyWriteError(err)
		s.recordFailure(ctx, res.Name(), "create", "", err)
		return nil, fmt.Errorf("resource service: create %s: %w", res.Name(), err)
	}

	attrs = record.Attributes()
	s.recordSuccess(ctx, res.Name(), "create", record.Key(), realtime.EventCreated, attrs, fieldNames(values))
	return attrs, nil
}

// Update validates the submitted subset of the edit fields and updates the
// record. Rules of fields absent from data are not enforced.
func (s *ResourceService) Update(ctx context.Context, name, id string, data resources.Values) (attrs any, err error) {
	ctx = ensureContext(ctx)
	defer s.observe(name, "update", &err)

	res, model, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	record, err := model.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	values, err := s.prepare(res, res.EditFields(), data, true)
	if err != nil {
		return nil, err
	}

	if err := res.Update(ctx, record, values); err != nil {
		err = classifyWriteError(err)
		s.recordFailure(ctx, res.Name(), "update", record.Key(), err)
		return nil, fmt.Errorf("resource service: update %s: %w", res.Name(), err)
	}

	attrs = record.Attributes()
	s.recordSuccess(ctx, res.Name(), "update", record.Key(), realtime.EventUpdated, attrs, fieldNames(values))
	return attrs, nil
}

// Delete removes a record.
func (s *ResourceService) Delete(ctx context.Context, name, id string) (err error) {
	ctx = ensureContext(ctx)
	defer s.observe(name, "delete", &err)

	res, model, err := s.resolve(name)
	if err != nil {
		return err
	}

	record, err := model.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := res.Delete(ctx, record); err != nil {
		s.recordFailure(ctx, res.Name(), "delete", record.Key(), err)
		return fmt.Errorf("resource service: delete %s: %w", res.Name(), err)
	}

	s.recordSuccess(ctx, res.Name(), "delete", record.Key(), realtime.EventDeleted, map[string]any{"id": record.Key()}, nil)
	return nil
}

// Metrics calculates every metric declared by the resource.
func (s *ResourceService) Metrics(ctx context.Context, name string) (values []MetricValue, err error) {
	ctx = ensureContext(ctx)
	defer s.observe(name, "metrics", &err)

	res, model, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	declared := res.Metrics()
	values = make([]MetricValue, 0, len(declared))
	for _, metric := range declared {
		if metric == nil {
			continue
		}
		value, err := metric.Calculate(ctx, model.Query(ctx))
		if err != nil {
			return nil, fmt.Errorf("resource service: metric %s of %s: %w", metric.Name(), res.Name(), err)
		}
		values = append(values, MetricValue{Name: metric.Name(), Label: metric.Label(), Value: value})
	}
	return values, nil
}

func (s *ResourceService) resolve(name string) (*resources.Resource, resources.ModelType, error) {
	res, err := s.panel.Resolve(name)
	if err != nil {
		return nil, nil, err
	}
	model, err := res.Model()
	if err != nil {
		return nil, nil, err
	}
	return res, model, nil
}

// prepare validates data against the rules of fields, drops undeclared
// attributes and runs field fillers. When partial is set only the rules of
// submitted attributes apply.
func (s *ResourceService) prepare(res *resources.Resource, fields []resources.Field, data resources.Values, partial bool) (resources.Values, error) {
	rules, err := res.Rules(fields)
	if err != nil {
		return nil, err
	}
	if partial {
		for field := range rules {
			if _, submitted := data[field]; !submitted {
				delete(rules, field)
			}
		}
	}

	if err := validator.ValidateMap(data, rules); err != nil {
		metrics.ValidationFailures.WithLabelValues(res.Name()).Inc()
		return nil, err
	}

	values := make(resources.Values, len(data))
	for _, field := range fields {
		if field == nil {
			continue
		}
		value, submitted := data[field.Name()]
		if !submitted {
			continue
		}
		if filler, ok := field.(resources.Filler); ok {
			filled, err := filler.Fill(value)
			if err != nil {
				return nil, validator.ValidationErrors{{Field: field.Name(), Tag: "fill"}}
			}
			value = filled
		}
		values[field.Name()] = value
	}
	return values, nil
}

func (s *ResourceService) pagination(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	switch {
	case perPage <= 0:
		perPage = s.perPage
	case perPage > s.maxPerPage:
		perPage = s.maxPerPage
	}
	return clampPage(page, perPage), perPage
}

// clampPage bounds page so that the row offset (page-1)*perPage fits an int.
func clampPage(page, perPage int) int {
	return min(max(page, 1), math.MaxInt/perPage)
}

func (s *ResourceService) observe(name, operation string, err *error) {
	metrics.ResourceOperations.WithLabelValues(strings.ToLower(strings.TrimSpace(name)), operation, metrics.Result(*err)).Inc()
}

func (s *ResourceService) recordSuccess(ctx context.Context, name, operation, id, event string, data any, changed []string) {
	metadata := map[string]any{}
	if len(changed) > 0 {
		metadata["fields"] = changed
	}
	s.audit.Record(ctx, AuditEntry{
		Action:   name + "." + operation,
		Resource: name,
		RecordID: id,
		Result:   AuditResultSuccess,
		Metadata: metadata,
	})

	if s.publisher == nil {
		return
	}
	meta := map[string]any{"resource": name, "id": id}
	for _, stream := range []string{realtime.StreamResources, realtime.ResourceStream(name)} {
		s.publisher.BroadcastStream(stream, realtime.Message{
			Stream: stream,
			Event:  event,
			Data:   data,
			Meta:   meta,
		})
	}
}

func (s *ResourceService) recordFailure(ctx context.Context, name, operation, id string, err error) {
	s.audit.Record(ctx, AuditEntry{
		Action:   name + "." + operation,
		Resource: name,
		RecordID: id,
		Result:   AuditResultFailure,
		Metadata: map[string]any{"error": err.Error()},
	})
}

func applySearch(tx *gorm.DB, columns []string, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return tx
	}
	pattern := "%" + term + "%"
	likes := make([]clause.Expression, 0, len(columns))
	for _, column := range columns {
		likes = append(likes, clause.Like{Column: clause.Column{Name: column}, Value: pattern})
	}
	return tx.Where(clause.And(clause.Or(likes...)))
}

func applyFilters(tx *gorm.DB, res *resources.Resource, values map[string]string) (*gorm.DB, error) {
	names := make([]string, 0, len(values))
	for name, value := range values {
		if strings.TrimSpace(value) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		filter, err := res.ResolveFilter(name)
		if err != nil {
			return nil, err
		}
		if tx, err = filter.Apply(tx, values[name]); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

func applySort(tx *gorm.DB, res *resources.Resource, sortBy string) (*gorm.DB, error) {
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		return tx, nil
	}
	column, desc := strings.TrimPrefix(sortBy, "-"), strings.HasPrefix(sortBy, "-")
	for _, col := range res.Columns() {
		if col != nil && col.Sortable() && col.Name() == column {
			return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidSort, column)
}

func fieldNames(values resources.Values) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

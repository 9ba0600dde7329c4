package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/nebula/internal/resources"
	"github.com/charlesng35/nebula/internal/services"
	appErrors "github.com/charlesng35/nebula/pkg/errors"
	"github.com/charlesng35/nebula/pkg/response"
)

// ResourceHandler exposes the registered admin resources over HTTP.
type ResourceHandler struct {
	svc *services.ResourceService
}

func NewResourceHandler(svc *services.ResourceService) *ResourceHandler {
	return &ResourceHandler{svc: svc}
}

// GET /api/resources
func (h *ResourceHandler) Navigation(c *gin.Context) {
	response.Success(c, http.StatusOK, h.svc.Navigation())
}

// GET /api/resources/:resource
//
// Query: page, per_page, search, sort (prefix "-" for descending) and
// filter[<name>]=<value>.
func (h *ResourceHandler) Index(c *gin.Context) {
	query := services.IndexQuery{
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "per_page", 0),
		Search:  strings.TrimSpace(c.Query("search")),
		Sort:    strings.TrimSpace(c.Query("sort")),
		Filters: c.QueryMap("filter"),
	}

	result, err := h.svc.Index(requestContext(c), c.Param("resource"), query)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Data, response.NewMeta(result.Page, result.PerPage, result.Total))
}

// GET /api/resources/:resource/schema
func (h *ResourceHandler) Schema(c *gin.Context) {
	schema, err := h.svc.Schema(c.Param("resource"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, schema)
}

// GET /api/resources/:resource/metrics
func (h *ResourceHandler) Metrics(c *gin.Context) {
	values, err := h.svc.Metrics(requestContext(c), c.Param("resource"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, values)
}

// GET /api/resources/:resource/:id
func (h *ResourceHandler) Show(c *gin.Context) {
	record, err := h.svc.Show(requestContext(c), c.Param("resource"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// POST /api/resources/:resource
func (h *ResourceHandler) Create(c *gin.Context) {
	values, ok := bindValues(c)
	if !ok {
		return
	}

	record, err := h.svc.Create(requestContext(c), c.Param("resource"), values)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, record)
}

// PATCH /api/resources/:resource/:id
func (h *ResourceHandler) Update(c *gin.Context) {
	values, ok := bindValues(c)
	if !ok {
		return
	}
	if len(values) == 0 {
		response.Error(c, appErrors.NewBadRequest("no fields provided for update"))
		return
	}

	record, err := h.svc.Update(requestContext(c), c.Param("resource"), c.Param("id"), values)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// DELETE /api/resources/:resource/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("resource"), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// bindValues decodes a JSON object body. Numbers stay float64 and are
// converted by the model decoder.
func bindValues(c *gin.Context) (resources.Values, bool) {
	var values resources.Values
	if err := c.ShouldBindJSON(&values); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return nil, false
	}
	if values == nil {
		values = resources.Values{}
	}
	return values, true
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/nebula/internal/services"
	"github.com/charlesng35/nebula/pkg/response"
)

// AuditHandler serves the audit trail.
type AuditHandler struct {
	svc *services.AuditService
}

func NewAuditHandler(svc *services.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// auditParams are the query parameters shared by List and Export. Since and
// Until are RFC 3339 timestamps.
type auditParams struct {
	Page     int        `form:"page" json:"page" validate:"omitempty,min=1"`
	PerPage  int        `form:"per_page" json:"per_page" validate:"omitempty,min=1,max=200"`
	Actor    string     `form:"actor" json:"actor"`
	Action   string     `form:"action" json:"action"`
	Result   string     `form:"result" json:"result" validate:"omitempty,oneof=success failure"`
	Resource string     `form:"resource" json:"resource"`
	RecordID string     `form:"record_id" json:"record_id"`
	Since    *time.Time `form:"since" json:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until    *time.Time `form:"until" json:"until" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (p auditParams) query() services.AuditQuery {
	q := services.AuditQuery{
		Page:     p.Page,
		PerPage:  p.PerPage,
		Actor:    p.Actor,
		Action:   p.Action,
		Result:   p.Result,
		Resource: p.Resource,
		RecordID: p.RecordID,
	}
	if p.Since != nil {
		q.Since = *p.Since
	}
	if p.Until != nil {
		q.Until = *p.Until
	}
	return q
}

// GET /api/audit
func (h *AuditHandler) List(c *gin.Context) {
	var params auditParams
	if !bindQuery(c, &params) {
		return
	}

	page, err := h.svc.List(requestContext(c), params.query())
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, page.Entries, response.NewMeta(page.Page, page.PerPage, page.Total))
}

// GET /api/audit/export
func (h *AuditHandler) Export(c *gin.Context) {
	var params auditParams
	if !bindQuery(c, &params) {
		return
	}

	entries, err := h.svc.Export(requestContext(c), params.query())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}

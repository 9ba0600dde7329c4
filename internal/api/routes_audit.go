package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/nebula/internal/handlers"
	"github.com/charlesng35/nebula/internal/services"
)

func registerAuditRoutes(api *gin.RouterGroup, svc *services.AuditService) {
	handler := handlers.NewAuditHandler(svc)

	api.GET("/audit", handler.List)
	api.GET("/audit/export", handler.Export)
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/nebula/internal/handlers"
	"github.com/charlesng35/nebula/internal/services"
)

func registerResourceRoutes(api *gin.RouterGroup, svc *services.ResourceService) {
	handler := handlers.NewResourceHandler(svc)

	api.GET("/resources", handler.Navigation)

	res := api.Group("/resources/:resource")
	{
		res.GET("", handler.Index)
		res.POST("", handler.Create)
		res.GET("/schema", handler.Schema)
		res.GET("/metrics", handler.Metrics)
		res.GET("/:id", handler.Show)
		res.PATCH("/:id", handler.Update)
		res.DELETE("/:id", handler.Delete)
	}
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/nebula/internal/app"
	"github.com/charlesng35/nebula/internal/handlers"
	"github.com/charlesng35/nebula/internal/panel"
	"github.com/charlesng35/nebula/internal/realtime"
)

func registerRealtimeRoutes(r *gin.Engine, cfg *app.Config, hub *realtime.Hub) {
	path := cfg.Realtime.Path
	if path == "" {
		path = "/ws"
	}
	r.GET(path, handlers.NewRealtimeHandler(hub).Stream)
}

// ResourceStreamFilter admits the global resource stream and the streams of
// resources registered on p.
func ResourceStreamFilter(p *panel.Panel) func(stream string) bool {
	return func(stream string) bool {
		if stream == realtime.StreamResources {
			return true
		}
		name, ok := realtime.ResourceFromStream(stream)
		if !ok {
			return false
		}
		_, err := p.Resolve(name)
		return err == nil
	}
}

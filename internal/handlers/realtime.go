package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/nebula/internal/realtime"
	"github.com/charlesng35/nebula/pkg/errors"
	"github.com/charlesng35/nebula/pkg/response"
)

// RealtimeHandler upgrades HTTP connections into resource change streams.
type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// GET /ws?streams=resources,resources.posts
//
// Repeated stream parameters are accepted too. Without any the connection
// follows every resource.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	if h.hub == nil {
		response.Error(c, errors.ErrNotFound)
		return
	}

	streams := requestedStreams(c)
	if len(streams) == 0 {
		streams = []string{realtime.StreamResources}
	}
	for _, stream := range streams {
		if !h.hub.Allowed(stream) {
			response.Error(c, errors.ErrNotFound.WithMessage("unknown stream "+stream))
			return
		}
	}

	h.hub.Serve(streams, c.Writer, c.Request)
}

func requestedStreams(c *gin.Context) []string {
	return realtime.ParseStreams(append(c.QueryArray("stream"), c.QueryArray("streams")...)...)
}

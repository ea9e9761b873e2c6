package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/roomledger/roomledger_backend/internal/platform/broadcast"
)

// eventsHandler streams data-change signals to dashboard clients.
type eventsHandler struct {
	hub *broadcast.Hub
}

// newEventsHandler creates a new eventsHandler.
func newEventsHandler(hub *broadcast.Hub) *eventsHandler {
	return &eventsHandler{hub: hub}
}

// registerEventRoutes registers the server-sent-events route.
func registerEventRoutes(rg *gin.RouterGroup, hub *broadcast.Hub) {
	h := newEventsHandler(hub)
	rg.GET("/events", h.streamEvents)
}

// streamEvents holds the connection open and forwards hub events as SSE
// messages until the client disconnects or the hub closes.
func (h *eventsHandler) streamEvents(c *gin.Context) {
	events, cancel := h.hub.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("message", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

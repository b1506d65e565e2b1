package api

import (
	"io"

	"github.com/gin-gonic/gin"
)

// getEvents streams problem-area updates as server-sent events until the
// client disconnects or the broadcaster shuts down.
func (h *Handler) getEvents(c *gin.Context) {
	id, ch := h.events.Subscribe()
	defer h.events.Unsubscribe(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("areas", update)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

package api

import (
	"io"

	"github.com/gin-gonic/gin"

	"printshop-backend/internal/mw"
	"printshop-backend/internal/realtime"
)

// StreamEvents handles GET /api/events: a server-sent event stream scoped to
// the caller's rooms. Every client gets its own user room and the broadcast
// room; shop admins additionally join their shop's admin room. Delivery is
// best-effort; clients re-fetch state over the pull API after a reconnect.
func (h *Handler) StreamEvents(c *gin.Context) {
	rooms := []string{realtime.UserRoom(mw.UserID(c))}
	if shop := mw.CallerRole(c).AdminShop(); shop != "" {
		rooms = append(rooms, shop.AdminRoom())
	}

	sub := h.hub.Subscribe(rooms...)
	defer h.hub.Unsubscribe(sub)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

package handlers

import (
	"io"
	"log"
	"strings"
	"time"

	"valet_manager/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
)

const defaultKeepAlive = 15 * time.Second

// EventsHandler streams change notifications for one booking as
// server-sent events. Clients re-fetch the booking on each event.
type EventsHandler struct {
	subscriber interfaces.IEventSubscriber
	keepAlive  time.Duration
}

func NewEventsHandler(sub interfaces.IEventSubscriber, keepAlive time.Duration) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &EventsHandler{subscriber: sub, keepAlive: keepAlive}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	events, cancel := h.subscriber.Subscribe(id)
	defer cancel()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	log.Printf("[events][handler] stream opened booking_id=%s", id)

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
	log.Printf("[events][handler] stream closed booking_id=%s", id)
}

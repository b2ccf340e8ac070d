package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"courtbook/internal/domain"
	"courtbook/internal/feed"
	"github.com/gin-gonic/gin"
)

type EventsHandler struct {
	hub *feed.Hub
}

func NewEventsHandler(hub *feed.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

func (h *EventsHandler) Register(router *gin.RouterGroup) {
	router.GET("/courts/:courtID/days/:date/events", h.stream)
}

// stream pushes freed-slot events for one court day as server-sent events
// until the client disconnects.
func (h *EventsHandler) stream(c *gin.Context) {
	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid court id"})
		return
	}
	date := c.Param("date")
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	id, events := h.hub.Subscribe(courtID, date)
	defer h.hub.Unsubscribe(id)

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

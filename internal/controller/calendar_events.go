package controller

import (
	"context"
	"net/http"
	"time"

	"syfw-todo/internal/models"

	"github.com/gin-gonic/gin"
)

// ListCalendarEvents returns events by id. ?title= filters by exact title;
// ?from=&to= (RFC 3339) returns events overlapping that window.
func (h *Handler) ListCalendarEvents(c *gin.Context) {
	ctx := c.Request.Context()
	if title, ok := c.GetQuery("title"); ok {
		events, err := h.store.ListCalendarEventsByTitle(ctx, title)
		if err != nil {
			writeError(c, err, "ListCalendarEventsByTitle")
			return
		}
		c.JSON(http.StatusOK, events)
		return
	}
	fromStr, hasFrom := c.GetQuery("from")
	toStr, hasTo := c.GetQuery("to")
	if hasFrom || hasTo {
		from, err1 := time.Parse(time.RFC3339, fromStr)
		to, err2 := time.Parse(time.RFC3339, toStr)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from and to must both be RFC 3339 timestamps"})
			return
		}
		if from.After(to) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must not be after to"})
			return
		}
		events, err := h.store.ListCalendarEventsBetween(ctx, from, to)
		if err != nil {
			writeError(c, err, "ListCalendarEventsBetween")
			return
		}
		c.JSON(http.StatusOK, events)
		return
	}
	h.serveList(c, models.EntityCalendarEvent, func(ctx context.Context, limit, offset int) (any, error) {
		return h.store.ListCalendarEvents(ctx, limit, offset)
	})
}

func (h *Handler) GetCalendarEvent(c *gin.Context) {
	h.serveRecord(c, models.EntityCalendarEvent, func(ctx context.Context, id int64) (any, error) {
		return h.store.GetCalendarEvent(ctx, id)
	})
}

// CreateCalendarEvent stores the event as sent, including an event_from
// that is later than event_to.
func (h *Handler) CreateCalendarEvent(c *gin.Context) {
	var in models.CalendarEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	e := in.CalendarEvent(0)
	if err := h.store.CreateCalendarEvent(c.Request.Context(), &e); err != nil {
		writeError(c, err, "CreateCalendarEvent")
		return
	}
	h.created(c, models.EntityCalendarEvent, e)
}

func (h *Handler) UpdateCalendarEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.CalendarEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	h.dispatch(c, models.EntityCalendarEvent, models.ActionUpdate, id, in)
}

func (h *Handler) DeleteCalendarEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.dispatch(c, models.EntityCalendarEvent, models.ActionDelete, id, nil)
}

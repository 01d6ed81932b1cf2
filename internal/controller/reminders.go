package controller

import (
	"context"
	"net/http"

	"syfw-todo/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListReminders(c *gin.Context) {
	h.serveList(c, models.EntityReminder, func(ctx context.Context, limit, offset int) (any, error) {
		return h.store.ListReminders(ctx, limit, offset)
	})
}

func (h *Handler) GetReminder(c *gin.Context) {
	h.serveRecord(c, models.EntityReminder, func(ctx context.Context, id int64) (any, error) {
		return h.store.GetReminder(ctx, id)
	})
}

func (h *Handler) CreateReminder(c *gin.Context) {
	var in models.ReminderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	rm := in.Reminder(0)
	if err := h.store.CreateReminder(c.Request.Context(), &rm); err != nil {
		writeError(c, err, "CreateReminder")
		return
	}
	h.created(c, models.EntityReminder, rm)
}

func (h *Handler) UpdateReminder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.ReminderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	h.dispatch(c, models.EntityReminder, models.ActionUpdate, id, in)
}

func (h *Handler) DeleteReminder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.dispatch(c, models.EntityReminder, models.ActionDelete, id, nil)
}

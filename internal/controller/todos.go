package controller

import (
	"context"
	"net/http"

	"syfw-todo/internal/models"

	"github.com/gin-gonic/gin"
)

// ListTodos returns todos by id; ?title= filters by exact title.
func (h *Handler) ListTodos(c *gin.Context) {
	if title, ok := c.GetQuery("title"); ok {
		todos, err := h.store.ListTodosByTitle(c.Request.Context(), title)
		if err != nil {
			writeError(c, err, "ListTodosByTitle")
			return
		}
		c.JSON(http.StatusOK, todos)
		return
	}
	h.serveList(c, models.EntityTodo, func(ctx context.Context, limit, offset int) (any, error) {
		return h.store.ListTodos(ctx, limit, offset)
	})
}

func (h *Handler) GetTodo(c *gin.Context) {
	h.serveRecord(c, models.EntityTodo, func(ctx context.Context, id int64) (any, error) {
		return h.store.GetTodo(ctx, id)
	})
}

// CreateTodo (auth): stores the todo and returns it with its id.
func (h *Handler) CreateTodo(c *gin.Context) {
	var in models.TodoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	todo := in.Todo(0)
	if err := h.store.CreateTodo(c.Request.Context(), &todo); err != nil {
		writeError(c, err, "CreateTodo")
		return
	}
	h.created(c, models.EntityTodo, todo)
}

// UpdateTodo (auth): replaces every field of the todo, returns 202.
func (h *Handler) UpdateTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.TodoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	h.dispatch(c, models.EntityTodo, models.ActionUpdate, id, in)
}

// DeleteTodo (auth): returns 202.
func (h *Handler) DeleteTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.dispatch(c, models.EntityTodo, models.ActionDelete, id, nil)
}

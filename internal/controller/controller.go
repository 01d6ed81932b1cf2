package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"syfw-todo/internal/cache"
	"syfw-todo/internal/middleware"
	"syfw-todo/internal/models"
	"syfw-todo/internal/queue"
	"syfw-todo/internal/repository"
	"syfw-todo/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Dispatcher accepts update and delete commands. worker.Applier applies them
// in-process; queue.Producer hands them to Kafka.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd *models.Command) error
}

// Handler serves the HTTP API over an explicit store, cache and dispatcher.
type Handler struct {
	store      *repository.Store
	cache      *cache.Cache
	dispatcher Dispatcher
	reads      singleflight.Group
}

func New(store *repository.Store, c *cache.Cache, d Dispatcher) *Handler {
	return &Handler{store: store, cache: c, dispatcher: d}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// writeError maps store and queue errors to a JSON response.
func writeError(c *gin.Context, err error, op string) {
	ctx := c.Request.Context()
	switch {
	case ctx.Err() != nil || isContextErr(err):
		return
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, repository.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage unavailable"})
	case errors.Is(err, queue.ErrPublish):
		logger.Error(ctx, op+" publish failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Request queue unavailable"})
	case repository.IsConstraintViolation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
	default:
		logger.Error(ctx, op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func parsePage(c *gin.Context) (limit, offset int, ok bool) {
	limit, err1 := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, err2 := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err1 != nil || err2 != nil || limit < 0 || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit or offset"})
		return 0, 0, false
	}
	return limit, offset, true
}

// loaded is a database read serialized for the response, tagged with the cache
// generation observed before the read started.
type loaded struct {
	body []byte
	gen  int64
}

// serveList answers a page of entity records, cache-first; concurrent misses
// for the same page share one database read.
func (h *Handler) serveList(c *gin.Context, e models.Entity, load func(ctx context.Context, limit, offset int) (any, error)) {
	ctx := c.Request.Context()
	limit, offset, ok := parsePage(c)
	if !ok {
		return
	}
	if b, ok := h.cache.GetList(ctx, e, limit, offset); ok {
		c.Data(http.StatusOK, "application/json", b)
		return
	}
	key := string(e) + ":list:" + strconv.Itoa(limit) + ":" + strconv.Itoa(offset)
	v, err, _ := h.reads.Do(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		gen := h.cache.Generation(lctx, e)
		rows, err := load(lctx, limit, offset)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(rows)
		if err != nil {
			return nil, err
		}
		return loaded{body: b, gen: gen}, nil
	})
	if err != nil {
		writeError(c, err, "List "+string(e))
		return
	}
	l := v.(loaded)
	c.Data(http.StatusOK, "application/json", l.body)
	h.cache.SetList(ctx, e, l.gen, limit, offset, l.body)
}

// serveRecord answers one record by the :id path parameter, cache-first.
func (h *Handler) serveRecord(c *gin.Context, e models.Entity, load func(ctx context.Context, id int64) (any, error)) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		return
	}
	if b, ok := h.cache.GetRecord(ctx, e, id); ok {
		c.Data(http.StatusOK, "application/json", b)
		return
	}
	v, err, _ := h.reads.Do(string(e)+":"+strconv.FormatInt(id, 10), func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		gen := h.cache.Generation(lctx, e)
		rec, err := load(lctx, id)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		return loaded{body: b, gen: gen}, nil
	})
	if err != nil {
		writeError(c, err, "Get "+string(e))
		return
	}
	l := v.(loaded)
	c.Data(http.StatusOK, "application/json", l.body)
	h.cache.SetRecord(ctx, e, l.gen, id, l.body)
}

// created answers 201 with the stored record and drops cached pages.
func (h *Handler) created(c *gin.Context, e models.Entity, rec any) {
	h.cache.Invalidate(c.Request.Context(), e)
	c.JSON(http.StatusCreated, rec)
}

// dispatch sends an update or delete command and answers 202.
func (h *Handler) dispatch(c *gin.Context, e models.Entity, action models.Action, id int64, payload any) {
	ctx := c.Request.Context()
	cmd := &models.Command{
		RequestID:   middleware.RequestID(c),
		Action:      action,
		Entity:      e,
		ID:          id,
		Subject:     middleware.Subject(c),
		RequestedAt: time.Now().UTC(),
	}
	if cmd.RequestID == "" {
		cmd.RequestID = uuid.NewString()
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			writeError(c, err, "Encode "+string(e))
			return
		}
		cmd.Payload = b
	}
	if err := h.dispatcher.Dispatch(ctx, cmd); err != nil {
		writeError(c, err, string(action)+" "+string(e))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"id":         id,
		"request_id": cmd.RequestID,
		"message":    string(e) + " " + string(action) + " accepted",
	})
}

// Health returns 200 if the process is alive. Used by load balancers.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if the database and cache are reachable. Used by K8s readiness probes.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
		return
	}
	if err := h.cache.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
		return
	}
	c.String(http.StatusOK, "OK")
}

package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"syfw-todo/internal/cache"
	"syfw-todo/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCachedHandler(t *testing.T) (*Handler, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(nil, cache.NewWithClient(client, time.Minute), nil), mr
}

func serve(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServeList_WriteDuringLoadIsNotCached(t *testing.T) {
	t.Parallel()

	h, mr := newCachedHandler(t)
	writeDuringLoad := true
	loads := 0
	r := gin.New()
	r.GET("/todos", func(c *gin.Context) {
		h.serveList(c, models.EntityTodo, func(ctx context.Context, limit, offset int) (any, error) {
			loads++
			if writeDuringLoad {
				// a create commits after the read snapshot was taken
				h.cache.Invalidate(ctx, models.EntityTodo)
				return []map[string]any{{"id": 1, "title": "old"}}, nil
			}
			return []map[string]any{{"id": 1, "title": "old"}, {"id": 2, "title": "new"}}, nil
		})
	})

	if w := serve(r, "/todos"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mr.Exists("todo:list:0:0") {
		t.Fatalf("expected stale page not to be cached")
	}

	writeDuringLoad = false
	w := serve(r, "/todos")
	if w.Body.String() != `[{"id":1,"title":"old"},{"id":2,"title":"new"}]` {
		t.Fatalf("expected fresh page from the database, got %s", w.Body.String())
	}
	if loads != 2 {
		t.Fatalf("expected 2 database loads, got %d", loads)
	}
	if !mr.Exists("todo:list:0:0") {
		t.Fatalf("expected quiet read to be cached")
	}
	serve(r, "/todos")
	if loads != 2 {
		t.Fatalf("expected third read from cache, got %d loads", loads)
	}
}

func TestServeRecord_WriteDuringLoadIsNotCached(t *testing.T) {
	t.Parallel()

	h, mr := newCachedHandler(t)
	r := gin.New()
	r.GET("/reminders/:id", func(c *gin.Context) {
		h.serveRecord(c, models.EntityReminder, func(ctx context.Context, id int64) (any, error) {
			// an update for this record is applied by the worker mid-read
			h.cache.Invalidate(ctx, models.EntityReminder, id)
			return models.Reminder{ID: id, ReminderText: "before", Importance: "low"}, nil
		})
	})

	if w := serve(r, "/reminders/4"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mr.Exists("reminder:4") {
		t.Fatalf("expected stale record not to be cached")
	}
}

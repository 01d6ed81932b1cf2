package routes

import (
	"net/http"
	"time"

	"syfw-todo/internal/config"
	"syfw-todo/internal/controller"
	"syfw-todo/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func Router(cfg config.Config, h *controller.Handler) *gin.Engine {
	origins := cfg.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health)
	router.GET("/ready", h.Ready)

	// Public: no auth
	router.GET("/todos", h.ListTodos)
	router.GET("/todos/:id", h.GetTodo)
	router.GET("/reminders", h.ListReminders)
	router.GET("/reminders/:id", h.GetReminder)
	router.GET("/calendar-events", h.ListCalendarEvents)
	router.GET("/calendar-events/:id", h.GetCalendarEvent)

	// Protected: JWT required
	api := router.Group("")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		api.POST("/todos", h.CreateTodo)
		api.PUT("/todos/:id", h.UpdateTodo)
		api.DELETE("/todos/:id", h.DeleteTodo)

		api.POST("/reminders", h.CreateReminder)
		api.PUT("/reminders/:id", h.UpdateReminder)
		api.DELETE("/reminders/:id", h.DeleteReminder)

		api.POST("/calendar-events", h.CreateCalendarEvent)
		api.PUT("/calendar-events/:id", h.UpdateCalendarEvent)
		api.DELETE("/calendar-events/:id", h.DeleteCalendarEvent)
	}

	return router
}

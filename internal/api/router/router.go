package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hoangnd/video-processing-be/internal/api/handler"
	"github.com/hoangnd/video-processing-be/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, app config.AppConfig) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health/check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"version":      app.Version,
			"service_name": app.Name,
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	videoHandler := handler.NewVideoHandler(deps)

	// POST /upload - Submit a video for processing
	r.POST("/upload", videoHandler.Upload)

	// GET /tasks - List tasks for a user (or one task by id)
	r.GET("/tasks", videoHandler.ListTasks)

	// GET /task - Fetch a single detail field for a task
	r.GET("/task", videoHandler.GetTaskDetail)

	return r
}

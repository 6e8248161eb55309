package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gauthierbraillon/rivalfeed/internal/logger"
)

// NewRouter builds a gin engine with recovery, request logging and every
// route registered.
func NewRouter(h *Handler, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(log))
	SetupRoutes(router, h)
	return router
}

// SetupRoutes registers the health check and the /sources group.
func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/health", h.Health)

	src := router.Group("/sources")
	src.GET("/collect", h.Collect)
	src.GET("/linkedin", h.LinkedIn)
	src.GET("/rss", h.RSS)
	src.GET("/youtube", h.YouTube)
}

// LoggerMiddleware logs one entry per request with method, path, status and
// duration. Health checks log at debug level.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, logger.String("query", query))
		}

		switch {
		case strings.HasPrefix(path, "/health"):
			log.Debug("HTTP request", fields...)
		case c.Writer.Status() >= 500:
			log.Error("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

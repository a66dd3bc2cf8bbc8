// Package http assembles the gin route tree and the server lifecycle.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/internal/interfaces/http/handlers"
)

// RouterConfig aggregates the handler dependencies for the route tree.
type RouterConfig struct {
	ScoreHandler  *handlers.ScoreHandler
	RunHandler    *handlers.RunHandler // nil when persistence is disabled
	HealthHandler *handlers.HealthHandler

	Registry *prometheus.Registry // nil disables /metrics
	Logger   logging.Logger
	Mode     string // gin mode: debug, release, test
}

// NewRouter builds the route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(cfg.Logger))

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")
	{
		if cfg.ScoreHandler != nil {
			api.POST("/score", cfg.ScoreHandler.Score)
		}
		if cfg.RunHandler != nil {
			api.GET("/runs", cfg.RunHandler.List)
			api.GET("/runs/:id", cfg.RunHandler.Get)
		}
	}

	return r
}

// requestLogger logs one line per request through the shared logger.
func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("HTTP request",
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("latency", time.Since(start)),
		)
	}
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/suchimauz/hospital-schedule-viewer/internal/config"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

type RouteRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

// NewRouter собирает gin с общими middleware, /health и /metrics.
// gatherer == nil отключает /metrics.
func NewRouter(
	cfg *config.Config,
	logger out.LoggerPort,
	observer RequestObserver,
	gatherer prometheus.Gatherer,
	registrars ...RouteRegistrar,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(logger.WithModule("HttpServer"), observer))

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": cfg.App.Version,
		})
	})

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	for _, registrar := range registrars {
		registrar.RegisterRoutes(router)
	}

	return router
}

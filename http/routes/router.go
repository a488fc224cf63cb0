package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finbox-in/imagegen/http/server"
	"github.com/finbox-in/imagegen/internal/pkg/logger"
	"github.com/finbox-in/imagegen/middleware"
)

// StaticPath is where uploaded documents are served from.
const StaticPath = "/static/generated_images"

type RouterConfig struct {
	MaxBodyBytes int64

	// StaticDir is served under StaticPath when set.
	StaticDir string

	// Gatherer backs /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer
}

func NewRouter(l *logger.Logger, s *server.ServerHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Handlers hand the gin context to the services, so its deadline and
	// cancellation must follow the underlying request.
	router.ContextWithFallback = true

	router.Use(gin.Recovery())
	router.Use(middleware.RequestContext(l))
	router.Use(middleware.AccessLog())
	if cfg.MaxBodyBytes > 0 {
		router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	}

	AddImageRoutes(router, s)
	AddHTMLToPDFRoutes(router, s)
	AddStatusRoutes(router, s)

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	if cfg.StaticDir != "" {
		router.Static(StaticPath, cfg.StaticDir)
	}

	return router
}

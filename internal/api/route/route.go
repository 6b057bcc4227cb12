package route

import (
	"net/http"

	"github.com/bassista/go_notes/internal/api/middleware"
	"github.com/bassista/go_notes/internal/app"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// SetupRoutes builds the main engine: middleware chain, health, metrics, notes API and UI.
func SetupRoutes(appCtx *app.App, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.HoneybadgerMiddleware(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RequestMetrics(appCtx.Metrics))
	r.Use(middleware.CORSMiddleware(appCtx.Config.Server.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	if appCtx.Config.Misc.MetricsEnabled && appCtx.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(appCtx.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	apiRouter := r.Group("/api")
	NewNoteRouter(appCtx.Config.Server.RequestTimeout, apiRouter, appCtx.Store)

	NewUIRouter(r, appCtx.Config.Misc.StaticDir)

	return r
}

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vishwaksen/campus-scheduler/pkg/config"
	"github.com/vishwaksen/campus-scheduler/pkg/logger"
	corsmiddleware "github.com/vishwaksen/campus-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/vishwaksen/campus-scheduler/pkg/middleware/requestid"
)

// NewRouter assembles the Gin engine: middleware chain matches the
// teacher's cmd/api-gateway wiring order (recovery, request ID, request
// logging, CORS), then mounts the scheduler routes under cfg.APIPrefix.
func NewRouter(cfg *config.Config, logr *zap.Logger, scheduleHandler *ScheduleHandler, metrics *Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api := r.Group(cfg.APIPrefix)
	schedules := api.Group("/schedules")
	schedules.POST("/generate", scheduleHandler.Generate)
	schedules.GET("/:id", scheduleHandler.Get)
	schedules.GET("/:id/export", scheduleHandler.Export)

	return r
}

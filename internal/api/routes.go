package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/internal/config"
	"github.com/jakechorley/staff-rota/pkg/db"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(store db.Database, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())

	schedules := NewScheduleHandler(store, cfg, logger)

	router.GET("/healthz", schedules.Health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/schedules", schedules.ListSchedule)
		v1.POST("/schedules/generate", schedules.Generate)
	}

	return router
}

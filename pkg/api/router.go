package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/store"
)

// Setup builds the gin engine with every route
func Setup(cfg *config.ServerConfig, st *store.Store, logger *zap.Logger) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(logger))
	r.Use(CORS(cfg.AllowOrigins))

	h := NewHandler(st, logger)

	r.GET("/health", h.Health)

	r.GET("/fullupdate", h.FullUpdate)
	r.GET("/updateIfStale/:timestamp", h.UpdateIfStale)
	r.POST("/getUniqueCode", h.GetUniqueCode)
	r.GET("/getCourseListByCode/:code", h.GetCourseListByCode)

	r.GET("/catalog", h.Catalog)
	r.GET("/menus", h.Menus)
	r.GET("/locations", h.Locations)
	r.GET("/occupancy", h.Occupancy)

	return r
}

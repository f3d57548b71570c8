package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RegisterRoutes wires the keyword API under rg.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/scopes", h.HandleListScopes)

	scope := rg.Group("/scopes/:scope")
	scope.GET("/index", h.HandleIndex)
	scope.POST("/match", h.HandleMatch)
	scope.POST("/entries", h.HandleAdd)
	scope.GET("/entries/:keyword", h.HandleGet)
	scope.PATCH("/entries/:keyword", h.HandleUpdate)
	scope.DELETE("/entries/:keyword", h.HandleDelete)
}

// NewRouter builds the full HTTP router including health and metrics.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	// Match on the escaped path so scopes and keywords may contain %2F.
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(gin.Recovery(), requestLogger(h.log))

	router.GET("/healthz", h.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	RegisterRoutes(router.Group("/v1"), h)
	return router
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

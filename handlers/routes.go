package handlers

import (
	"net/http"
	"time"

	"spacedock-search/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every endpoint onto a gin engine
func NewRouter(search *SearchHandler, mods *ModHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/api")
	{
		api.GET("/health", HealthCheck)

		api.GET("/search/mod", search.SearchMods)
		api.GET("/search/user", search.SearchUsers)
		api.GET("/typeahead/mod", search.TypeaheadMods)

		api.GET("/browse", search.Browse)
		api.GET("/browse/top", search.BrowseTop)
		api.GET("/browse/new", search.BrowseNew)
		api.GET("/browse/updated", search.BrowseUpdated)
		api.GET("/browse/featured", search.BrowseFeatured)

		mod := api.Group("/mod/:id")
		mod.GET("/similar", mods.GetSimilar)
		mod.GET("/stats", mods.GetStats)
		mod.POST("/download", mods.RecordDownload)
		mod.POST("/download/:version", mods.RecordDownload)
		mod.POST("/follow", mods.Follow)
		mod.POST("/unfollow", mods.Unfollow)
		mod.POST("/referral", mods.RecordReferral)
	}

	return r
}

// HealthCheck reports that the server is up
// GET /api/health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger logs one line per request
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log.Debugw("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

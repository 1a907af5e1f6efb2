package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"spacedock-search/cache"
	"spacedock-search/config"
	"spacedock-search/database"
	"spacedock-search/handlers"
	"spacedock-search/logger"
	"spacedock-search/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the search and activity API on PORT.
Search results are cached for SEARCH_CACHE_TTL seconds and dropped
whenever a download, follow or rescore changes the ranking.`,
	Run: func(_ *cobra.Command, _ []string) {
		runServer(bootstrap())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(cfg *config.Config) {
	gin.SetMode(cfg.GinMode)
	db := database.GetDB()

	results := cache.NewTTLCache[string, *services.SearchResult](cfg.CacheTTL())
	searchService := services.NewSearchService(db, cfg, results)
	scoreService := services.NewScoreService(db)
	similarityService := services.NewSimilarityService(db)
	eventService := services.NewEventService(db, scoreService, searchService)

	router := handlers.NewRouter(
		handlers.NewSearchHandler(searchService, cfg),
		handlers.NewModHandler(similarityService, eventService, cfg),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if ttl := cfg.CacheTTL(); ttl > 0 {
		go purgeLoop(ctx, searchService, ttl)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infow("Server starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalw("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warnw("Server shutdown failed", zap.Error(err))
	}
}

// purgeLoop evicts expired search pages until ctx ends.
func purgeLoop(ctx context.Context, search *services.SearchService, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := search.PurgeCache(); n > 0 {
				logger.Log.Debugw("Purged search cache", zap.Int("entries", n))
			}
		}
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"spacedock-search/config"
	"spacedock-search/models"
	"spacedock-search/services"

	"github.com/gin-gonic/gin"
)

// StatsReferralLimit caps the referrers shown on a mod's stats
const StatsReferralLimit = 10

type ModHandler struct {
	similarityService *services.SimilarityService
	eventService      *services.EventService
	cfg               *config.Config
	now               func() time.Time
}

// NewModHandler creates a new mod handler
func NewModHandler(similarityService *services.SimilarityService, eventService *services.EventService, cfg *config.Config) *ModHandler {
	return &ModHandler{
		similarityService: similarityService,
		eventService:      eventService,
		cfg:               cfg,
		now:               time.Now,
	}
}

// GetSimilar returns the stored similar mods
// GET /api/mod/:id/similar
func (h *ModHandler) GetSimilar(c *gin.Context) {
	modID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.similarityService.LoadMod(ctx, modID); err != nil {
		respondServiceError(c, err)
		return
	}
	similar, err := h.similarityService.SimilarMods(ctx, modID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mod_id":  modID,
		"similar": similarToResponses(similar),
	})
}

// GetStats returns a mod's recent activity buckets
// GET /api/mod/:id/stats
func (h *ModHandler) GetStats(c *gin.Context) {
	modID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.similarityService.LoadMod(ctx, modID); err != nil {
		respondServiceError(c, err)
		return
	}

	since := h.now().Add(-h.cfg.EventTimeframe())
	downloads, err := h.eventService.DownloadEvents(ctx, modID, since)
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}
	follows, err := h.eventService.FollowEvents(ctx, modID, since)
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}
	referrals, err := h.eventService.ReferralEvents(ctx, modID, StatsReferralLimit)
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, models.ModStatsResponse{
		ModID:     modID,
		Downloads: downloads,
		Follows:   follows,
		Referrals: referrals,
	})
}

// RecordDownload counts a download of the default or a given version
// POST /api/mod/:id/download
// POST /api/mod/:id/download/:version
func (h *ModHandler) RecordDownload(c *gin.Context) {
	modID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var versionID uint
	if c.Param("version") != "" {
		if versionID, ok = parseIDParam(c, "version"); !ok {
			return
		}
	}

	event, err := h.eventService.RecordDownload(c.Request.Context(), modID, versionID, h.now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Follow records a new follower
// POST /api/mod/:id/follow
func (h *ModHandler) Follow(c *gin.Context) {
	h.recordFollow(c, h.eventService.RecordFollow)
}

// Unfollow records a lost follower
// POST /api/mod/:id/unfollow
func (h *ModHandler) Unfollow(c *gin.Context) {
	h.recordFollow(c, h.eventService.RecordUnfollow)
}

func (h *ModHandler) recordFollow(c *gin.Context, record func(ctx context.Context, modID uint, now time.Time) (*models.FollowEvent, error)) {
	modID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := record(c.Request.Context(), modID, h.now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// RecordReferral records a visit from another site
// POST /api/mod/:id/referral
// Body: {"host": "reddit.com"}
func (h *ModHandler) RecordReferral(c *gin.Context) {
	modID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.RecordReferral(c.Request.Context(), modID, req.Host, h.now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

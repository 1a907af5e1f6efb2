package handlers

import (
	"net/http"

	"spacedock-search/config"
	"spacedock-search/models"
	"spacedock-search/services"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *services.SearchService
	cfg           *config.Config
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService, cfg *config.Config) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		cfg:           cfg,
	}
}

// SearchMods runs a mod query
// GET /api/search/mod?query=ver:1.12 -user:bob&page=2&game=1
func (h *SearchHandler) SearchMods(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.searchService.SearchMods(c.Request.Context(), req.GameID, req.Query, req.Page, h.cfg.PageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageResponse(result, req.Query, gameFilters(req.GameID)))
}

// TypeaheadMods matches mod names for autocompletion
// GET /api/typeahead/mod?query=mech&game=1
func (h *SearchHandler) TypeaheadMods(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	mods, err := h.searchService.TypeaheadMods(c.Request.Context(), req.GameID, req.Query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(mods, req.Query, gameFilters(req.GameID)))
}

// SearchUsers finds public users and lists their mods
// GET /api/search/user?query=alice&page=0
func (h *SearchHandler) SearchUsers(c *gin.Context) {
	var req models.UserSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	users, err := h.searchService.SearchUsers(ctx, req.Query, req.Page)
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}

	responses := make([]models.UserResponse, len(users))
	for i, u := range users {
		mods, err := h.searchService.UserMods(ctx, u.ID)
		if err != nil {
			respondInternalError(c, err.Error())
			return
		}
		responses[i] = models.UserResponse{
			ID:          u.ID,
			Username:    u.Username,
			Description: u.Description,
			Mods:        models.ModsToResponses(mods),
		}
	}

	c.JSON(http.StatusOK, responses)
}

// Browse lists mods in a chosen order
// GET /api/browse?orderby=name&order=asc&page=1&count=30&game=1
func (h *SearchHandler) Browse(c *gin.Context) {
	var req models.BrowseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.searchService.Browse(c.Request.Context(), services.BrowseParams{
		GameID:  req.GameID,
		OrderBy: req.OrderBy,
		Order:   req.Order,
		Page:    req.Page,
		Count:   req.Count,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filters := gameFilters(req.GameID)
	if filters == nil {
		filters = map[string]string{}
	}
	if req.OrderBy != "" {
		filters["orderby"] = req.OrderBy
	}
	if req.Order != "" {
		filters["order"] = req.Order
	}
	c.JSON(http.StatusOK, pageResponse(result, "", filters))
}

type browseFunc func(s *services.SearchService, c *gin.Context, req models.BrowseRequest) (*services.SearchResult, error)

// browseWith adapts one of the fixed browse listings to a handler
func (h *SearchHandler) browseWith(fetch browseFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BrowseRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}

		result, err := fetch(h.searchService, c, req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, pageResponse(result, "", gameFilters(req.GameID)))
	}
}

// BrowseTop lists the best scoring mods
// GET /api/browse/top?page=1&count=30&game=1
func (h *SearchHandler) BrowseTop(c *gin.Context) {
	h.browseWith(func(s *services.SearchService, c *gin.Context, req models.BrowseRequest) (*services.SearchResult, error) {
		return s.TopMods(c.Request.Context(), req.GameID, req.Page, req.Count)
	})(c)
}

// BrowseNew lists the newest mods
// GET /api/browse/new?page=1&count=30&game=1
func (h *SearchHandler) BrowseNew(c *gin.Context) {
	h.browseWith(func(s *services.SearchService, c *gin.Context, req models.BrowseRequest) (*services.SearchResult, error) {
		return s.NewMods(c.Request.Context(), req.GameID, req.Page, req.Count)
	})(c)
}

// BrowseUpdated lists recently updated mods
// GET /api/browse/updated?page=1&count=30&game=1
func (h *SearchHandler) BrowseUpdated(c *gin.Context) {
	h.browseWith(func(s *services.SearchService, c *gin.Context, req models.BrowseRequest) (*services.SearchResult, error) {
		return s.UpdatedMods(c.Request.Context(), req.GameID, req.Page, req.Count)
	})(c)
}

// BrowseFeatured lists featured mods, newest first
// GET /api/browse/featured?count=10&game=1
func (h *SearchHandler) BrowseFeatured(c *gin.Context) {
	var req models.BrowseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	mods, err := h.searchService.FeaturedMods(c.Request.Context(), req.GameID, req.Count)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(mods, "", gameFilters(req.GameID)))
}

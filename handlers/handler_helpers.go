package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"spacedock-search/models"
	"spacedock-search/query"
	"spacedock-search/services"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Response Helpers
// =============================================================================

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, code int, error, message string) {
	c.JSON(code, models.ErrorResponse{
		Error:   error,
		Message: message,
		Code:    code,
	})
}

// respondBadRequest sends a 400 error response
func respondBadRequest(c *gin.Context, message string) {
	respondWithError(c, http.StatusBadRequest, "Invalid request", message)
}

// respondInternalError sends a 500 error response
func respondInternalError(c *gin.Context, message string) {
	respondWithError(c, http.StatusInternalServerError, "Internal error", message)
}

// respondNotFound sends a 404 error response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, "Not found", message)
}

// respondServiceError maps service errors onto HTTP status codes
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, query.ErrInvalidQuery):
		respondWithError(c, http.StatusBadRequest, "Invalid query", err.Error())
	case errors.Is(err, services.ErrModNotFound), errors.Is(err, services.ErrVersionNotFound):
		respondNotFound(c, err.Error())
	case errors.Is(err, services.ErrEmptyHost):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err.Error())
	}
}

// =============================================================================
// Request Helpers
// =============================================================================

// parseIDParam reads a positive numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// =============================================================================
// Mod Conversion Helpers
// =============================================================================

// gameFilters describes the optional game scope for response metadata
func gameFilters(gameID *uint) map[string]string {
	if gameID == nil {
		return nil
	}
	return map[string]string{"game": strconv.FormatUint(uint64(*gameID), 10)}
}

// pageResponse converts one search page to the list response shape
func pageResponse(result *services.SearchResult, query string, filters map[string]string) models.ModListResponse {
	mods := models.ModsToResponses(result.Mods)
	return models.ModListResponse{
		Mods: mods,
		Metadata: models.NewResponseMetadata(
			len(mods),
			result.Total,
			result.Page,
			result.PageSize,
			result.TotalPages,
			query,
			filters,
		),
	}
}

// listResponse wraps an unpaginated list of mods
func listResponse(mods []models.Mod, query string, filters map[string]string) models.ModListResponse {
	responses := models.ModsToResponses(mods)
	return models.ModListResponse{
		Mods: responses,
		Metadata: models.NewResponseMetadata(
			len(responses),
			int64(len(responses)),
			1,
			len(responses),
			1,
			query,
			filters,
		),
	}
}

// similarToResponses converts ranked mods to their response shape
func similarToResponses(scored []models.ScoredMod) []models.SimilarModResponse {
	responses := make([]models.SimilarModResponse, len(scored))
	for i, sm := range scored {
		responses[i] = models.SimilarModResponse{
			ModResponse: sm.Mod.ToResponse(),
			Similarity:  sm.Similarity,
		}
	}
	return responses
}

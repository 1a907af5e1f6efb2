package models

import (
	"time"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ModResponse is the public shape of a mod in list endpoints
type ModResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	ShortDescription string    `json:"short_description"`
	Author           string    `json:"author"`
	GameID           uint      `json:"game_id"`
	Game             string    `json:"game,omitempty"`
	Downloads        int       `json:"downloads"`
	Followers        int       `json:"followers"`
	Score            float64   `json:"score"`
	SourceLink       string    `json:"source_link,omitempty"`
	DefaultVersion   string    `json:"default_version,omitempty"`
	GameVersion      string    `json:"game_version,omitempty"`
	Created          time.Time `json:"created"`
	Updated          time.Time `json:"updated"`
}

// ToResponse converts a Mod to ModResponse
func (m *Mod) ToResponse() ModResponse {
	resp := ModResponse{
		ID:               m.ID,
		Name:             m.Name,
		ShortDescription: m.ShortDescription,
		Author:           m.User.Username,
		GameID:           m.GameID,
		Game:             m.Game.Name,
		Downloads:        m.DownloadCount,
		Followers:        m.FollowerCount,
		Score:            m.Score,
		SourceLink:       m.SourceLink,
		Created:          m.Created,
		Updated:          m.Updated,
	}
	if v := m.DefaultVersion(); v != nil {
		resp.DefaultVersion = v.FriendlyVersion
		resp.GameVersion = v.GameVersion.FriendlyVersion
	}
	return resp
}

// SimilarModResponse is one entry of a mod's "similar mods" list
type SimilarModResponse struct {
	ModResponse
	Similarity float64 `json:"similarity"`
}

// UserResponse is the public shape of a user in search results
type UserResponse struct {
	ID          uint          `json:"id"`
	Username    string        `json:"username"`
	Description string        `json:"description"`
	Mods        []ModResponse `json:"mods"`
}

// ResponseMetadata contains pagination and query information for API responses
type ResponseMetadata struct {
	Count      int               `json:"count"`             // Number of mods returned
	Total      int64             `json:"total"`             // Total matching mods before paging
	Page       int               `json:"page"`              // Current (clamped) page number
	PageSize   int               `json:"page_size"`         // Items per page
	TotalPages int               `json:"total_pages"`       // Never below 1
	Query      string            `json:"query,omitempty"`   // Original query string
	Filters    map[string]string `json:"filters,omitempty"` // Applied filters (game, order, ...)
}

// NewResponseMetadata creates a new ResponseMetadata
func NewResponseMetadata(count int, total int64, page, pageSize, totalPages int, query string, filters map[string]string) *ResponseMetadata {
	return &ResponseMetadata{
		Count:      count,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Query:      query,
		Filters:    filters,
	}
}

// ModListResponse wraps a page of mods
type ModListResponse struct {
	Mods     []ModResponse     `json:"mods"`
	Metadata *ResponseMetadata `json:"metadata"`
}

// ModStatsResponse holds a mod's aggregated activity
type ModStatsResponse struct {
	ModID     uint            `json:"mod_id"`
	Downloads []DownloadEvent `json:"downloads"`
	Follows   []FollowEvent   `json:"follows"`
	Referrals []ReferralEvent `json:"referrals"`
}

// ModsToResponses converts a slice of Mods to ModResponses
func ModsToResponses(mods []Mod) []ModResponse {
	responses := make([]ModResponse, len(mods))
	for i := range mods {
		responses[i] = mods[i].ToResponse()
	}
	return responses
}

package models

// SearchRequest represents the query string of the mod search endpoints
type SearchRequest struct {
	Query  string `form:"query"`
	Page   int    `form:"page"`
	GameID *uint  `form:"game"`
}

// UserSearchRequest represents the query string of the user search endpoint
type UserSearchRequest struct {
	Query string `form:"query"`
	Page  int    `form:"page"` // 0-based
}

// BrowseRequest represents the query string of the browse endpoints
type BrowseRequest struct {
	GameID  *uint  `form:"game"`
	OrderBy string `form:"orderby"`
	Order   string `form:"order"`
	Page    int    `form:"page"`
	Count   int    `form:"count"`
}

// ReferralRequest is the body of a referral event
type ReferralRequest struct {
	Host string `json:"host" binding:"required"`
}

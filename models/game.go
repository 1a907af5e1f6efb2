package models

import "time"

// Game groups mods and the versions they can target.
type Game struct {
	ID       uint          `gorm:"primaryKey" json:"id"`
	Name     string        `gorm:"size:1024" json:"name"`
	Short    string        `gorm:"size:1024;index" json:"short"`
	Active   bool          `gorm:"default:true" json:"active"`
	Created  time.Time     `gorm:"autoCreateTime" json:"created"`
	Versions []GameVersion `json:"versions,omitempty"`
}

// GameVersion is a compatibility tag such as "1.12.3"; it is free text and may not parse.
type GameVersion struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	GameID          uint   `gorm:"index" json:"game_id"`
	FriendlyVersion string `gorm:"size:128" json:"friendly_version"`
}

// User is the subset of a profile the search engine reads.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:128;uniqueIndex;not null" json:"username"`
	Public      bool      `gorm:"default:false" json:"public"`
	Description string    `json:"description"`
	Created     time.Time `gorm:"autoCreateTime" json:"created"`
}

// ModList is a user-curated pack of mods for a single game.
type ModList struct {
	ID      uint          `gorm:"primaryKey" json:"id"`
	UserID  uint          `gorm:"index" json:"user_id"`
	GameID  uint          `json:"game_id"`
	Name    string        `gorm:"size:1024" json:"name"`
	Created time.Time     `gorm:"autoCreateTime" json:"created"`
	Items   []ModListItem `json:"-"`
}

// ModListItem places a mod in a pack.
type ModListItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ModID     uint    `gorm:"index" json:"mod_id"`
	ModListID uint    `gorm:"index" json:"mod_list_id"`
	ModList   ModList `json:"-"`
	SortIndex int     `gorm:"default:0" json:"sort_index"`
}

package models

import (
	"strings"
	"time"
)

// Mod is a published (or draft) game modification listing.
// Score is derived by the ranking scorer and persisted, never computed while sorting.
type Mod struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Created          time.Time `gorm:"autoCreateTime;index:idx_mod_created" json:"created"`
	Updated          time.Time `gorm:"index:idx_mod_updated" json:"updated"`
	UserID           uint      `gorm:"index:idx_mod_user" json:"user_id"`
	User             User      `json:"-"`
	GameID           uint      `gorm:"index:idx_mod_game" json:"game_id"`
	Game             Game      `json:"-"`
	Name             string    `gorm:"size:100;index:idx_mod_name" json:"name"`
	ShortDescription string    `gorm:"size:1000" json:"short_description"`
	Description      string    `json:"description"`
	Published        bool      `gorm:"index:idx_mod_published" json:"published"`
	SourceLink       string    `gorm:"size:256" json:"source_link"`
	FollowerCount    int       `gorm:"not null;default:0" json:"follower_count"`
	DownloadCount    int       `gorm:"not null;default:0" json:"download_count"`
	Score            float64   `gorm:"index:idx_mod_score" json:"score"`
	DefaultVersionID *uint     `json:"default_version_id"`

	Versions      []ModVersion   `json:"-"`
	Media         []Media        `json:"-"`
	SharedAuthors []SharedAuthor `json:"-"`
	ListItems     []ModListItem  `json:"-"`
}

// ModVersion is one released build of a mod, targeting a single game version.
type ModVersion struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	ModID           uint        `gorm:"index:idx_version_mod" json:"mod_id"`
	FriendlyVersion string      `gorm:"size:64" json:"friendly_version"`
	GameVersionID   uint        `json:"game_version_id"`
	GameVersion     GameVersion `json:"-"`
	Created         time.Time   `gorm:"autoCreateTime" json:"created"`
	SortIndex       int         `gorm:"default:0" json:"sort_index"`
	DownloadCount   int         `gorm:"not null;default:0" json:"download_count"`
}

// Media is a screenshot or video attached to a mod.
type Media struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	ModID uint   `gorm:"index" json:"mod_id"`
	Hash  string `gorm:"size:12" json:"hash"`
	Type  string `gorm:"size:32" json:"type"`
	Data  string `gorm:"size:512" json:"data"`
}

// SharedAuthor invites another user to co-own a mod; only accepted rows count.
type SharedAuthor struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ModID    uint `gorm:"index" json:"mod_id"`
	UserID   uint `json:"user_id"`
	User     User `json:"-"`
	Accepted bool `gorm:"default:false" json:"accepted"`
}

// Featured marks a mod for the front page.
type Featured struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	ModID   uint      `gorm:"index" json:"mod_id"`
	Mod     Mod       `json:"-"`
	Created time.Time `gorm:"autoCreateTime" json:"created"`
}

func (Featured) TableName() string {
	return "featured_mods"
}

// DefaultVersion returns the version considered current, or nil for unscorable mods.
func (m *Mod) DefaultVersion() *ModVersion {
	if m.DefaultVersionID == nil {
		return nil
	}
	for i := range m.Versions {
		if m.Versions[i].ID == *m.DefaultVersionID {
			return &m.Versions[i]
		}
	}
	return nil
}

// Authors returns the owner plus every accepted shared author.
func (m *Mod) Authors() []string {
	authors := make([]string, 0, len(m.SharedAuthors)+1)
	if m.User.Username != "" {
		authors = append(authors, m.User.Username)
	}
	for _, sa := range m.SharedAuthors {
		if sa.Accepted && sa.User.Username != "" {
			authors = append(authors, sa.User.Username)
		}
	}
	return authors
}

// ForeignPackCount counts distinct packs holding this mod that belong to someone else.
func (m *Mod) ForeignPackCount() int {
	seen := make(map[uint]struct{}, len(m.ListItems))
	for _, item := range m.ListItems {
		if item.ModList.UserID == m.UserID {
			continue
		}
		seen[item.ModListID] = struct{}{}
	}
	return len(seen)
}

// HasVersionFor reports whether any version targets gameVersion or a release under it,
// so "1.2" matches "1.2" and "1.2.3" but not "1.20".
func (m *Mod) HasVersionFor(gameVersion string) bool {
	prefix := gameVersion + "."
	for _, v := range m.Versions {
		fv := v.GameVersion.FriendlyVersion
		if fv == gameVersion || strings.HasPrefix(fv, prefix) {
			return true
		}
	}
	return false
}

// GetScore returns the persisted ranking score for sorting
func (m Mod) GetScore() float64 {
	return m.Score
}

// GetID returns the mod ID for stable tie-breaking
func (m Mod) GetID() uint {
	return m.ID
}

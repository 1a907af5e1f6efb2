package services

import (
	"time"
	"unicode/utf8"

	"spacedock-search/models"
	"spacedock-search/utils"
)

// =============================================================================
// Ranking Score
// =============================================================================

// Score weights. Followers and downloads dominate; the rest nudge.
const (
	WeightFollower       = 10
	WeightForeignPack    = 15
	VersionsPerPoint     = 5
	ShortDescriptionLen  = 100
	ShortDescriptionCost = 10
	SourceLinkBonus      = 10
	NewModBonus          = 100
)

// GetModScore computes a mod's popularity score from its loaded state.
// It reads Versions (with GameVersion), Media, ListItems (with ModList) and
// Game.Versions; the caller persists the result.
func GetModScore(mod *models.Mod, now time.Time) float64 {
	current := mod.DefaultVersion()
	if current == nil {
		return 0
	}

	score := float64(mod.DownloadCount)
	score += WeightFollower * float64(mod.FollowerCount)
	score += WeightForeignPack * float64(mod.ForeignPackCount())
	score += float64(len(mod.Versions) / VersionsPerPoint)
	score += float64(len(mod.Media))

	if utf8.RuneCountInString(mod.Description) < ShortDescriptionLen {
		score -= ShortDescriptionCost
	}
	score -= utils.OldnessPenalty(mod.Updated, now)
	if mod.SourceLink != "" {
		score += SourceLinkBonus
	}
	if utils.IsNewMod(mod.Created, now) {
		score += NewModBonus
	}

	behind := utils.VersionsAfter(current.GameVersion.FriendlyVersion, gameVersionStrings(mod.Game))
	return utils.ApplyVersionPenalty(score, behind)
}

func gameVersionStrings(game models.Game) []string {
	versions := make([]string, len(game.Versions))
	for i, gv := range game.Versions {
		versions[i] = gv.FriendlyVersion
	}
	return versions
}

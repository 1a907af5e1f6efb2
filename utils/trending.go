package utils

import (
	"math"
	"time"
)

// =============================================================================
// Ranking Score Utilities
// =============================================================================

const (
	MaxOldnessDays       = 100  // No further penalty past this age
	OldnessDivisor       = 5    // One point per five idle days
	PenaltyPerVersion    = 5    // Percent per game release the mod is behind
	MaxVersionPenalty    = 90   // Never wipe more than 90% of the score
	NewModWindow         = 30 * 24 * time.Hour
	ActivityBucketWindow = time.Hour
)

// WholeDays mirrors calendar-day deltas: floor of the elapsed time in days.
func WholeDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

// OldnessPenalty docks points for every five days since the last update,
// capped so ancient mods don't drift arbitrarily negative.
func OldnessPenalty(updated, now time.Time) float64 {
	if updated.IsZero() {
		return 0
	}
	days := WholeDays(now.Sub(updated))
	if days > MaxOldnessDays {
		days = MaxOldnessDays
	}
	return float64(days) / OldnessDivisor
}

// VersionPenalty is the whole percentage of the score removed for being
// behind the game.
func VersionPenalty(versionsBehind int) int {
	return min(PenaltyPerVersion*versionsBehind, MaxVersionPenalty)
}

// ApplyVersionPenalty floors score after removing the version penalty. The
// arithmetic stays in whole percent so exact results are not lost to
// fractions like 1-0.9.
func ApplyVersionPenalty(score float64, versionsBehind int) float64 {
	return math.Floor(score * float64(100-VersionPenalty(versionsBehind)) / 100)
}

// IsNewMod gives recently created mods a chance against established ones.
func IsNewMod(created, now time.Time) bool {
	return now.Sub(created) < NewModWindow
}

// InBucket reports whether an activity bucket created at created still accepts
// events at now.
func InBucket(created, now time.Time) bool {
	return now.Sub(created) < ActivityBucketWindow
}

package models

// ModSimilarity is one undirected edge between two mods of the same game.
// LowModID < HighModID always holds. Each side keeps its own "listed" flag,
// true while the other mod is in that side's top-k, so both directed views
// read the same Similarity value.
type ModSimilarity struct {
	LowModID   uint    `gorm:"primaryKey;autoIncrement:false" json:"low_mod_id"`
	HighModID  uint    `gorm:"primaryKey;autoIncrement:false;index" json:"high_mod_id"`
	Similarity float64 `json:"similarity"`
	LowListed  bool    `json:"low_listed"`
	HighListed bool    `json:"high_listed"`
}

// NewSimilarityKey orders a pair of mod IDs into edge key form.
func NewSimilarityKey(a, b uint) (low, high uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// Other returns the endpoint that is not modID.
func (s *ModSimilarity) Other(modID uint) uint {
	if s.LowModID == modID {
		return s.HighModID
	}
	return s.LowModID
}

// ListedFor reports whether the edge is in modID's own top-k.
func (s *ModSimilarity) ListedFor(modID uint) bool {
	if s.LowModID == modID {
		return s.LowListed
	}
	return s.HighListed
}

// SetListed sets modID's side of the edge.
func (s *ModSimilarity) SetListed(modID uint, listed bool) {
	if s.LowModID == modID {
		s.LowListed = listed
	} else {
		s.HighListed = listed
	}
}

// Orphaned is true once neither side lists the edge.
func (s *ModSimilarity) Orphaned() bool {
	return !s.LowListed && !s.HighListed
}

// ScoredMod pairs a mod with its similarity to some reference mod.
type ScoredMod struct {
	Mod        *Mod
	Similarity float64
}

// GetScore ranks by similarity
func (s ScoredMod) GetScore() float64 {
	return s.Similarity
}

// GetID returns the candidate mod ID
func (s ScoredMod) GetID() uint {
	if s.Mod == nil {
		return 0
	}
	return s.Mod.ID
}

package services

import (
	"spacedock-search/models"
	"spacedock-search/utils"
)

// =============================================================================
// Mod Similarity
// =============================================================================

// AuthorWeight scales author overlap relative to the three text fields.
const AuthorWeight = 0.1

// modWords is the tokenized form of a mod, computed once per ranking pass.
type modWords struct {
	name        utils.WordSet
	short       utils.WordSet
	description utils.WordSet
	authors     utils.WordSet
}

func wordsOf(m *models.Mod) modWords {
	return modWords{
		name:        utils.MeaningfulWords(m.Name),
		short:       utils.MeaningfulWords(m.ShortDescription),
		description: utils.MeaningfulWords(m.Description),
		authors:     utils.NewWordSet(m.Authors()...),
	}
}

func (w modWords) similarity(o modWords) float64 {
	return utils.WordsSimilarity(w.name, o.name) +
		utils.WordsSimilarity(w.short, o.short) +
		utils.WordsSimilarity(w.description, o.description) +
		AuthorWeight*utils.WordsSimilarity(w.authors, o.authors)
}

// Similarity scores how alike two mods are. It is symmetric and never negative.
func Similarity(a, b *models.Mod) float64 {
	return wordsOf(a).similarity(wordsOf(b))
}

// RankSimilar returns the k candidates most similar to mod, best first.
// The mod itself and candidates with nothing in common are left out.
func RankSimilar(mod *models.Mod, candidates []models.Mod, k int) []models.ScoredMod {
	if k <= 0 || len(candidates) == 0 {
		return []models.ScoredMod{}
	}

	pool := make([]*models.Mod, len(candidates))
	words := make([]modWords, len(candidates))
	for i := range candidates {
		pool[i] = &candidates[i]
		words[i] = wordsOf(&candidates[i])
	}
	return rankPool(mod.ID, wordsOf(mod), pool, words, k)
}

// rankPool ranks a pre-tokenized candidate pool; words[i] belongs to pool[i].
func rankPool(selfID uint, self modWords, pool []*models.Mod, words []modWords, k int) []models.ScoredMod {
	scored := make([]models.ScoredMod, 0, len(pool))
	for i, candidate := range pool {
		if candidate.ID == selfID {
			continue
		}
		sim := self.similarity(words[i])
		if sim <= 0 {
			continue
		}
		scored = append(scored, models.ScoredMod{Mod: candidate, Similarity: sim})
	}
	return utils.TopN(scored, k)
}

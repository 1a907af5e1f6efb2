package services

import (
	"context"
	"errors"
	"fmt"

	"spacedock-search/logger"
	"spacedock-search/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// similarityPreloads are the associations Similarity reads.
var similarityPreloads = []string{"User", "SharedAuthors.User"}

// listingPreloads are the associations ModResponse reads.
var listingPreloads = []string{"User", "Game", "Versions.GameVersion"}

type SimilarityService struct {
	db *gorm.DB
}

// NewSimilarityService creates a similarity service backed by db
func NewSimilarityService(db *gorm.DB) *SimilarityService {
	return &SimilarityService{db: db}
}

// LoadMod fetches a mod with everything needed to compare it.
func (s *SimilarityService) LoadMod(ctx context.Context, modID uint) (*models.Mod, error) {
	var mod models.Mod
	err := withPreloads(s.db.WithContext(ctx), similarityPreloads).First(&mod, modID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mod %d: %w", modID, err)
	}
	return &mod, nil
}

// FindMostSimilar ranks the published mods of the same game against mod.
func (s *SimilarityService) FindMostSimilar(ctx context.Context, mod *models.Mod, k int) ([]models.ScoredMod, error) {
	var candidates []models.Mod
	err := withPreloads(s.db.WithContext(ctx), similarityPreloads).
		Where("published = ? AND game_id = ? AND id <> ?", true, mod.GameID, mod.ID).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates for mod %d: %w", mod.ID, err)
	}
	return RankSimilar(mod, candidates, k), nil
}

// UpdateSimilarMods replaces mod's stored similar set with a fresh top k.
// An unpublished mod loses every edge touching it.
func (s *SimilarityService) UpdateSimilarMods(ctx context.Context, mod *models.Mod, k int) error {
	if !mod.Published {
		return s.removeEdges(ctx, mod.ID)
	}
	top, err := s.FindMostSimilar(ctx, mod, k)
	if err != nil {
		return err
	}
	return s.saveEdges(ctx, mod.ID, top)
}

// saveEdges reconciles the edges touching modID against its new top list.
func (s *SimilarityService) saveEdges(ctx context.Context, modID uint, top []models.ScoredMod) error {
	wanted := make(map[uint]float64, len(top))
	for _, sm := range top {
		wanted[sm.Mod.ID] = sm.Similarity
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.ModSimilarity
		if err := tx.Where("low_mod_id = ? OR high_mod_id = ?", modID, modID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load edges of mod %d: %w", modID, err)
		}

		stored := make(map[uint]bool, len(existing))
		for i := range existing {
			edge := &existing[i]
			other := edge.Other(modID)
			stored[other] = true

			if sim, ok := wanted[other]; ok {
				edge.Similarity = sim
				edge.SetListed(modID, true)
			} else {
				edge.SetListed(modID, false)
			}

			if edge.Orphaned() {
				if err := tx.Delete(edge).Error; err != nil {
					return fmt.Errorf("failed to delete edge %d-%d: %w", edge.LowModID, edge.HighModID, err)
				}
				continue
			}
			if err := tx.Save(edge).Error; err != nil {
				return fmt.Errorf("failed to update edge %d-%d: %w", edge.LowModID, edge.HighModID, err)
			}
		}

		for _, sm := range top {
			if stored[sm.Mod.ID] {
				continue
			}
			low, high := models.NewSimilarityKey(modID, sm.Mod.ID)
			edge := models.ModSimilarity{LowModID: low, HighModID: high, Similarity: sm.Similarity}
			edge.SetListed(modID, true)
			if err := tx.Create(&edge).Error; err != nil {
				return fmt.Errorf("failed to create edge %d-%d: %w", low, high, err)
			}
		}
		return nil
	})
}

func (s *SimilarityService) removeEdges(ctx context.Context, modID uint) error {
	err := s.db.WithContext(ctx).
		Where("low_mod_id = ? OR high_mod_id = ?", modID, modID).
		Delete(&models.ModSimilarity{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove edges of mod %d: %w", modID, err)
	}
	return nil
}

// SimilarMods reads the stored similar set of one mod, most similar first.
func (s *SimilarityService) SimilarMods(ctx context.Context, modID uint) ([]models.ScoredMod, error) {
	var edges []models.ModSimilarity
	err := s.db.WithContext(ctx).
		Where("(low_mod_id = ? AND low_listed = ?) OR (high_mod_id = ? AND high_listed = ?)", modID, true, modID, true).
		Order("similarity DESC").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load similar mods of %d: %w", modID, err)
	}
	if len(edges) == 0 {
		return []models.ScoredMod{}, nil
	}

	ids := make([]uint, len(edges))
	for i := range edges {
		ids[i] = edges[i].Other(modID)
	}
	var mods []models.Mod
	if err := withPreloads(s.db.WithContext(ctx), listingPreloads).Where("id IN ?", ids).Find(&mods).Error; err != nil {
		return nil, fmt.Errorf("failed to load similar mods of %d: %w", modID, err)
	}
	byID := make(map[uint]*models.Mod, len(mods))
	for i := range mods {
		byID[mods[i].ID] = &mods[i]
	}

	result := make([]models.ScoredMod, 0, len(edges))
	for i := range edges {
		if m, ok := byID[ids[i]]; ok {
			result = append(result, models.ScoredMod{Mod: m, Similarity: edges[i].Similarity})
		}
	}
	return result, nil
}

// RefreshAll recomputes the similar set of every mod. Ranking runs on up to
// workers goroutines; writes happen afterwards on the calling goroutine.
func (s *SimilarityService) RefreshAll(ctx context.Context, k, workers int) (int, error) {
	var mods []models.Mod
	if err := withPreloads(s.db.WithContext(ctx), similarityPreloads).Order("id").Find(&mods).Error; err != nil {
		return 0, fmt.Errorf("failed to load mods: %w", err)
	}

	words := make([]modWords, len(mods))
	pools := map[uint][]int{}
	for i := range mods {
		words[i] = wordsOf(&mods[i])
		if mods[i].Published {
			pools[mods[i].GameID] = append(pools[mods[i].GameID], i)
		}
	}

	results := make([][]models.ScoredMod, len(mods))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range mods {
		if !mods[i].Published {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			members := pools[mods[i].GameID]
			pool := make([]*models.Mod, len(members))
			poolWords := make([]modWords, len(members))
			for j, idx := range members {
				pool[j] = &mods[idx]
				poolWords[j] = words[idx]
			}
			results[i] = rankPool(mods[i].ID, words[i], pool, poolWords, k)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for i := range mods {
		var err error
		if mods[i].Published {
			err = s.saveEdges(ctx, mods[i].ID, results[i])
		} else {
			err = s.removeEdges(ctx, mods[i].ID)
		}
		if err != nil {
			return i, err
		}
	}

	logger.Log.Infow("Refreshed similar mods", zap.Int("mods", len(mods)), zap.Int("k", k))
	return len(mods), nil
}

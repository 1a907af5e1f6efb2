package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spacedock-search/logger"
	"spacedock-search/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrModNotFound is returned when a mod id does not exist.
var ErrModNotFound = errors.New("mod not found")

// scoringPreloads are the associations GetModScore reads.
var scoringPreloads = []string{
	"Versions.GameVersion",
	"Media",
	"ListItems.ModList",
	"Game.Versions",
}

type ScoreService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewScoreService creates a score service writing to db
func NewScoreService(db *gorm.DB) *ScoreService {
	return &ScoreService{db: db, now: time.Now}
}

func withPreloads(tx *gorm.DB, preloads []string) *gorm.DB {
	for _, p := range preloads {
		tx = tx.Preload(p)
	}
	return tx
}

// Rescore recomputes and persists one mod's score.
func (s *ScoreService) Rescore(ctx context.Context, modID uint) (float64, error) {
	return s.rescore(s.db.WithContext(ctx), modID)
}

// rescore runs on tx so event recording can rescore inside its transaction.
func (s *ScoreService) rescore(tx *gorm.DB, modID uint) (float64, error) {
	var mod models.Mod
	err := withPreloads(tx, scoringPreloads).First(&mod, modID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrModNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load mod %d: %w", modID, err)
	}

	score := GetModScore(&mod, s.now())
	if err := tx.Model(&models.Mod{}).Where("id = ?", modID).Update("score", score).Error; err != nil {
		return 0, fmt.Errorf("failed to save score for mod %d: %w", modID, err)
	}
	return score, nil
}

// RescoreAll recomputes every mod's score and returns how many were updated.
func (s *ScoreService) RescoreAll(ctx context.Context) (int, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Mod{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to list mods: %w", err)
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := s.Rescore(ctx, id); err != nil {
			return i, err
		}
	}

	logger.Log.Infow("Rescored mods", zap.Int("count", len(ids)))
	return len(ids), nil
}

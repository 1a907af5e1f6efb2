package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spacedock-search/logger"
	"spacedock-search/models"
	"spacedock-search/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrVersionNotFound = errors.New("mod version not found")
	ErrEmptyHost       = errors.New("referral host is required")
)

// EventService folds downloads, follows and referrals into hourly buckets.
// Bucket lookup and update share a transaction, and the database pool has a
// single connection, so concurrent records for one key never split a bucket.
type EventService struct {
	db     *gorm.DB
	scores *ScoreService
	search *SearchService
}

// NewEventService creates an event service. search may be nil.
func NewEventService(db *gorm.DB, scores *ScoreService, search *SearchService) *EventService {
	return &EventService{db: db, scores: scores, search: search}
}

func findMod(tx *gorm.DB, modID uint) (*models.Mod, error) {
	var mod models.Mod
	err := tx.First(&mod, modID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mod %d: %w", modID, err)
	}
	return &mod, nil
}

// latest loads the newest bucket matching the conditions into dest.
// It reports false when there is none.
func latest(tx *gorm.DB, dest interface{}, conds string, args ...interface{}) (bool, error) {
	err := tx.Where(conds, args...).Order("id DESC").First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *EventService) changed(tx *gorm.DB, modID uint) error {
	if s.scores == nil {
		return nil
	}
	_, err := s.scores.rescore(tx, modID)
	return err
}

func (s *EventService) invalidate() {
	if s.search != nil {
		s.search.InvalidateCache()
	}
}

// RecordDownload counts one download of a mod version. A zero versionID
// means the mod's default version.
func (s *EventService) RecordDownload(ctx context.Context, modID, versionID uint, now time.Time) (*models.DownloadEvent, error) {
	var event models.DownloadEvent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mod, err := findMod(tx, modID)
		if err != nil {
			return err
		}
		if versionID == 0 {
			if mod.DefaultVersionID == nil {
				return ErrVersionNotFound
			}
			versionID = *mod.DefaultVersionID
		}
		var version models.ModVersion
		if err := tx.Where("id = ? AND mod_id = ?", versionID, modID).First(&version).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVersionNotFound
			}
			return fmt.Errorf("failed to load version %d: %w", versionID, err)
		}

		found, err := latest(tx, &event, "mod_id = ? AND version_id = ?", modID, versionID)
		if err != nil {
			return fmt.Errorf("failed to load download bucket: %w", err)
		}
		if found && utils.InBucket(event.Created, now) {
			event.Downloads++
			err = tx.Save(&event).Error
		} else {
			event = models.DownloadEvent{ModID: modID, VersionID: versionID, Downloads: 1, Created: now}
			err = tx.Create(&event).Error
		}
		if err != nil {
			return fmt.Errorf("failed to save download bucket: %w", err)
		}

		if err := tx.Model(&models.Mod{}).Where("id = ?", modID).
			Update("download_count", gorm.Expr("download_count + ?", 1)).Error; err != nil {
			return fmt.Errorf("failed to count download: %w", err)
		}
		if err := tx.Model(&models.ModVersion{}).Where("id = ?", versionID).
			Update("download_count", gorm.Expr("download_count + ?", 1)).Error; err != nil {
			return fmt.Errorf("failed to count version download: %w", err)
		}
		return s.changed(tx, modID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate()
	return &event, nil
}

// RecordFollow counts a new follower.
func (s *EventService) RecordFollow(ctx context.Context, modID uint, now time.Time) (*models.FollowEvent, error) {
	return s.recordFollow(ctx, modID, 1, now)
}

// RecordUnfollow counts a lost follower. The follower count never drops below zero.
func (s *EventService) RecordUnfollow(ctx context.Context, modID uint, now time.Time) (*models.FollowEvent, error) {
	return s.recordFollow(ctx, modID, -1, now)
}

func (s *EventService) recordFollow(ctx context.Context, modID uint, delta int, now time.Time) (*models.FollowEvent, error) {
	var event models.FollowEvent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findMod(tx, modID); err != nil {
			return err
		}

		found, err := latest(tx, &event, "mod_id = ?", modID)
		if err != nil {
			return fmt.Errorf("failed to load follow bucket: %w", err)
		}
		if found && utils.InBucket(event.Created, now) {
			event.Events++
			event.Delta += delta
			err = tx.Save(&event).Error
		} else {
			event = models.FollowEvent{ModID: modID, Events: 1, Delta: delta, Created: now}
			err = tx.Create(&event).Error
		}
		if err != nil {
			return fmt.Errorf("failed to save follow bucket: %w", err)
		}

		count := gorm.Expr("follower_count + 1")
		if delta < 0 {
			count = gorm.Expr("CASE WHEN follower_count > 0 THEN follower_count - 1 ELSE 0 END")
		}
		if err := tx.Model(&models.Mod{}).Where("id = ?", modID).Update("follower_count", count).Error; err != nil {
			return fmt.Errorf("failed to update follower count: %w", err)
		}
		return s.changed(tx, modID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate()
	return &event, nil
}

// RecordReferral counts a visit arriving from host.
func (s *EventService) RecordReferral(ctx context.Context, modID uint, host string, now time.Time) (*models.ReferralEvent, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return nil, ErrEmptyHost
	}

	var event models.ReferralEvent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findMod(tx, modID); err != nil {
			return err
		}

		found, err := latest(tx, &event, "mod_id = ? AND host = ?", modID, host)
		if err != nil {
			return fmt.Errorf("failed to load referral bucket: %w", err)
		}
		if found && utils.InBucket(event.Created, now) {
			event.Events++
			err = tx.Save(&event).Error
		} else {
			event = models.ReferralEvent{ModID: modID, Host: host, Events: 1, Created: now}
			err = tx.Create(&event).Error
		}
		if err != nil {
			return fmt.Errorf("failed to save referral bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Debugw("Recorded referral", zap.Uint("mod_id", modID), zap.String("host", host))
	return &event, nil
}

// DownloadEvents returns a mod's download buckets created after since, oldest first.
func (s *EventService) DownloadEvents(ctx context.Context, modID uint, since time.Time) ([]models.DownloadEvent, error) {
	var events []models.DownloadEvent
	err := s.db.WithContext(ctx).
		Where("mod_id = ? AND created > ?", modID, since).
		Order("created ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load download events: %w", err)
	}
	return events, nil
}

// FollowEvents returns a mod's follow buckets created after since, oldest first.
func (s *EventService) FollowEvents(ctx context.Context, modID uint, since time.Time) ([]models.FollowEvent, error) {
	var events []models.FollowEvent
	err := s.db.WithContext(ctx).
		Where("mod_id = ? AND created > ?", modID, since).
		Order("created ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load follow events: %w", err)
	}
	return events, nil
}

// ReferralEvents returns a mod's busiest referral buckets.
func (s *EventService) ReferralEvents(ctx context.Context, modID uint, limit int) ([]models.ReferralEvent, error) {
	var events []models.ReferralEvent
	tx := s.db.WithContext(ctx).Where("mod_id = ?", modID).Order("events DESC, id ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load referral events: %w", err)
	}
	return events, nil
}

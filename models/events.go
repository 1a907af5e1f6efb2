package models

import (
	"time"
)

// Activity rows are hourly buckets: repeated actions inside the window bump the
// counter of the newest row instead of appending one row per click.

// DownloadEvent aggregates downloads of one mod version.
type DownloadEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ModID     uint      `gorm:"index:idx_download_mod" json:"mod_id"`
	VersionID uint      `gorm:"index:idx_download_version" json:"version_id"`
	Downloads int       `gorm:"default:0" json:"downloads"`
	Created   time.Time `gorm:"index:idx_download_created" json:"created"`
}

// FollowEvent aggregates follows and unfollows; Delta is the net change.
type FollowEvent struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	ModID   uint      `gorm:"index:idx_follow_mod" json:"mod_id"`
	Events  int       `json:"events"`
	Delta   int       `gorm:"default:0" json:"delta"`
	Created time.Time `gorm:"index:idx_follow_created" json:"created"`
}

// ReferralEvent aggregates page views arriving from one referring host.
type ReferralEvent struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	ModID   uint      `gorm:"index:idx_referral_mod_host" json:"mod_id"`
	Host    string    `gorm:"index:idx_referral_mod_host" json:"host"`
	Events  int       `gorm:"default:0" json:"events"`
	Created time.Time `gorm:"index:idx_referral_created" json:"created"`
}

// Event kinds accepted by the stats endpoint
const (
	EventKindDownload = "download"
	EventKindFollow   = "follow"
	EventKindReferral = "referral"
)

package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"spacedock-search/config"
	"spacedock-search/database"
	"spacedock-search/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Scores after RescoreAll (every mod is new, has a short description and no
// update date):
//
//	1 Kerbal Engineer   (50 + 90) * 0.90 = 126
//	5 Orbit Tools       (20 + 90)        = 110
//	2 MechJeb Autopilot ( 5 + 90)        =  95
//	3 Scatterer         ( 0 + 90) * 0.95 =  85
//	4 Hidden Draft      unpublished
const fixtureCorpus = `{
  "games": [
    {"id": 1, "name": "Kerbal Space Program", "short": "KSP", "versions": ["1.0", "1.2", "1.2.2", "1.12.5"]},
    {"id": 2, "name": "Kerbal Space Program 2", "short": "KSP2", "versions": ["0.1.0"]}
  ],
  "users": [
    {"username": "Alice", "public": true, "description": "Rocket builder"},
    {"username": "bob", "public": true, "description": "Writes autopilot plugins"},
    {"username": "carol", "public": false, "description": "Rocket tester"}
  ],
  "mods": [
    {"id": 1, "name": "Kerbal Engineer Redux", "user": "Alice", "game_id": 1, "published": true,
     "short_description": "Flight data readouts", "description": "Shows orbital flight data in the editor",
     "downloads": 50, "versions": [{"version": "1.0.0", "game_version": "1.2", "default": true}]},
    {"id": 2, "name": "MechJeb Autopilot", "user": "bob", "game_id": 1, "published": true, "featured": true,
     "short_description": "Autopilot and flight data", "description": "Flies rockets for you",
     "downloads": 5, "versions": [{"version": "2.0", "game_version": "1.12.5", "default": true}]},
    {"id": 3, "name": "Scatterer", "user": "Alice", "game_id": 1, "published": true,
     "short_description": "Atmospheric scattering shader", "description": "Renders atmospheric scattering",
     "downloads": 0, "versions": [{"version": "0.9", "game_version": "1.2.2", "default": true}]},
    {"id": 4, "name": "Hidden Draft", "user": "Alice", "game_id": 1, "published": false,
     "short_description": "Flight data draft", "description": "Unreleased flight data tool",
     "downloads": 1000, "versions": [{"version": "0.1", "game_version": "1.12.5", "default": true}]},
    {"id": 5, "name": "Orbit Tools", "user": "bob", "game_id": 2, "published": true,
     "short_description": "Orbit planning", "description": "Plans transfers",
     "downloads": 20, "versions": [{"version": "1.0", "game_version": "0.1.0", "default": true}]}
  ],
  "packs": [
    {"name": "Alice essentials", "user": "Alice", "game_id": 1, "mods": [1, 3]}
  ]
}`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("file:"+name+"?mode=memory&cache=shared", gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func fixtureDataset(t *testing.T) *database.Dataset {
	t.Helper()
	corpus, err := database.ParseCorpus([]byte(fixtureCorpus))
	require.NoError(t, err)
	ds, err := corpus.Build()
	require.NoError(t, err)
	return ds
}

// seededDB returns a database holding the fixture corpus with scores computed.
func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t)
	require.NoError(t, database.SeedDataset(db, fixtureDataset(t)))
	_, err := NewScoreService(db).RescoreAll(context.Background())
	require.NoError(t, err)
	return db
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.PageSize = 2
	cfg.MaxPageSize = 10
	return cfg
}

func modIDs(mods []models.Mod) []uint {
	ids := make([]uint, len(mods))
	for i, m := range mods {
		ids[i] = m.ID
	}
	return ids
}

func scoredIDs(scored []models.ScoredMod) []uint {
	ids := make([]uint, len(scored))
	for i, s := range scored {
		ids[i] = s.Mod.ID
	}
	return ids
}

func uintPtr(v uint) *uint { return &v }

var fixtureNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

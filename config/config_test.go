package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "spacedock.db", cfg.DatabasePath)
	assert.Equal(t, 30, cfg.PageSize)
	assert.Equal(t, 500, cfg.MaxPageSize)
	assert.Equal(t, 6, cfg.SimilarMods)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, 30*24*time.Hour, cfg.EventTimeframe())
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PAGE_SIZE", "12")
	t.Setenv("SIMILAR_MODS", "3")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, 3, cfg.SimilarMods)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "DB_PATH=/tmp/mods.db\nSEARCH_CACHE_TTL=5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spacedock.env"), []byte(content), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/mods.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, true},
		{"max below page size", func(c *Config) { c.MaxPageSize = 10 }, true},
		{"no similar mods", func(c *Config) { c.SimilarMods = 0 }, true},
		{"no workers", func(c *Config) { c.SimilarityWorkers = 0 }, true},
		{"negative ttl", func(c *Config) { c.SearchCacheTTL = -1 }, true},
		{"empty db path", func(c *Config) { c.DatabasePath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

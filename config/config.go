package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server Configuration
	ServerPort string `mapstructure:"PORT"`
	GinMode    string `mapstructure:"GIN_MODE"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	// Database Configuration
	DatabasePath string `mapstructure:"DB_PATH"`

	// Search Configuration
	PageSize       int `mapstructure:"PAGE_SIZE"`
	MaxPageSize    int `mapstructure:"MAX_PAGE_SIZE"`
	SearchCacheTTL int `mapstructure:"SEARCH_CACHE_TTL"` // seconds

	// Similarity Configuration
	SimilarMods       int `mapstructure:"SIMILAR_MODS"`
	SimilarityWorkers int `mapstructure:"SIMILARITY_WORKERS"`

	// Stats Configuration
	EventTimeframeDays int `mapstructure:"EVENT_TIMEFRAME_DAYS"`
}

var AppConfig *Config

var defaults = map[string]interface{}{
	"PORT":                 "8080",
	"GIN_MODE":             "release",
	"LOG_LEVEL":            "info",
	"DB_PATH":              "spacedock.db",
	"PAGE_SIZE":            30,
	"MAX_PAGE_SIZE":        500,
	"SEARCH_CACHE_TTL":     60,
	"SIMILAR_MODS":         6,
	"SIMILARITY_WORKERS":   4,
	"EVENT_TIMEFRAME_DAYS": 30,
}

// LoadConfig reads spacedock.env from path (if present), then the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("spacedock")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

// Validate rejects sizes the search and similarity services cannot work with.
func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.MaxPageSize < c.PageSize {
		return fmt.Errorf("MAX_PAGE_SIZE (%d) must not be below PAGE_SIZE (%d)", c.MaxPageSize, c.PageSize)
	}
	if c.SimilarMods <= 0 {
		return fmt.Errorf("SIMILAR_MODS must be positive, got %d", c.SimilarMods)
	}
	if c.SimilarityWorkers <= 0 {
		return fmt.Errorf("SIMILARITY_WORKERS must be positive, got %d", c.SimilarityWorkers)
	}
	if c.SearchCacheTTL < 0 {
		return fmt.Errorf("SEARCH_CACHE_TTL must not be negative, got %d", c.SearchCacheTTL)
	}
	if c.DatabasePath == "" {
		return errors.New("DB_PATH is required")
	}
	return nil
}

// CacheTTL returns the search cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.SearchCacheTTL) * time.Second
}

// EventTimeframe is how far back mod stats look.
func (c *Config) EventTimeframe() time.Duration {
	return time.Duration(c.EventTimeframeDays) * 24 * time.Hour
}

// Default returns a validated configuration built only from defaults.
func Default() *Config {
	return &Config{
		ServerPort:         "8080",
		GinMode:            "release",
		LogLevel:           "info",
		DatabasePath:       "spacedock.db",
		PageSize:           30,
		MaxPageSize:        500,
		SearchCacheTTL:     60,
		SimilarMods:        6,
		SimilarityWorkers:  4,
		EventTimeframeDays: 30,
	}
}

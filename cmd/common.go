package cmd

import (
	"fmt"
	"io"
	"strings"

	"spacedock-search/config"
	"spacedock-search/database"
	"spacedock-search/logger"
	"spacedock-search/models"

	"go.uber.org/zap"
)

// bootstrap handles shared initialization logic for commands.
func bootstrap() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}
	logger.InitLogger(cfg.LogLevel)

	if err := database.InitDB(cfg); err != nil {
		logger.Log.Fatalw("Failed to initialize database", zap.Error(err), zap.String("path", cfg.DatabasePath))
	}
	return cfg
}

// printMods writes one line per mod in rank order.
func printMods(w io.Writer, mods []models.Mod) {
	for i := range mods {
		m := &mods[i]
		version := "-"
		if v := m.DefaultVersion(); v != nil {
			version = v.GameVersion.FriendlyVersion
		}
		fmt.Fprintf(w, "%6d  %8.0f  %-40s  %-16s  %s\n", m.ID, m.Score, truncate(m.Name, 40), m.User.Username, version)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

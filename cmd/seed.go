package cmd

import (
	"context"

	"spacedock-search/database"
	"spacedock-search/logger"
	"spacedock-search/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed [corpus.json]",
	Short: "Load a JSON corpus into an empty database",
	Long: `Loads games, users, mods and packs from a JSON corpus, then computes
every mod's score and similar-mod list.
Example: spacedock seed testdata/corpus.json

Nothing is inserted when the database already holds mods.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		cfg := bootstrap()
		ctx := context.Background()

		corpus, err := database.LoadCorpus(args[0])
		if err != nil {
			logger.Log.Fatalw("Failed to load corpus", zap.Error(err))
		}
		ds, err := corpus.Build()
		if err != nil {
			logger.Log.Fatalw("Invalid corpus", zap.Error(err))
		}
		if err := database.SeedDataset(database.GetDB(), ds); err != nil {
			logger.Log.Fatalw("Failed to seed database", zap.Error(err))
		}

		if _, err := services.NewScoreService(database.GetDB()).RescoreAll(ctx); err != nil {
			logger.Log.Fatalw("Failed to score mods", zap.Error(err))
		}
		similarity := services.NewSimilarityService(database.GetDB())
		if _, err := similarity.RefreshAll(ctx, cfg.SimilarMods, cfg.SimilarityWorkers); err != nil {
			logger.Log.Fatalw("Failed to compute similar mods", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

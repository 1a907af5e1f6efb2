package cmd

import (
	"context"

	"spacedock-search/database"
	"spacedock-search/logger"
	"spacedock-search/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rescoreCmd represents the rescore command
var rescoreCmd = &cobra.Command{
	Use:   "rescore [modID]",
	Short: "Recompute mod scores",
	Long: `Recomputes the ranking score of one mod, or of every mod when no id
is given. Scores decay with age, so run this periodically.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap()
		ctx := context.Background()
		scores := services.NewScoreService(database.GetDB())

		if len(args) == 1 {
			modID := parseModID(args[0])
			score, err := scores.Rescore(ctx, modID)
			if err != nil {
				logger.Log.Fatalw("Failed to rescore mod", zap.Uint("mod_id", modID), zap.Error(err))
			}
			logger.Log.Infow("Rescored mod", zap.Uint("mod_id", modID), zap.Float64("score", score))
			return
		}

		if _, err := scores.RescoreAll(ctx); err != nil {
			logger.Log.Fatalw("Failed to rescore mods", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(rescoreCmd)
}

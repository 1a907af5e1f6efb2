package cmd

import (
	"context"
	"fmt"
	"strconv"

	"spacedock-search/database"
	"spacedock-search/logger"
	"spacedock-search/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// similarCmd represents the similar command
var similarCmd = &cobra.Command{
	Use:   "similar [modID]",
	Short: "Recompute similar-mod lists",
	Long: `Recomputes the similar-mod list of one mod and prints it, or of every
mod when no id is given. The full refresh ranks mods on SIMILARITY_WORKERS
goroutines.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := bootstrap()
		ctx := context.Background()
		similarity := services.NewSimilarityService(database.GetDB())

		k, _ := cmd.Flags().GetInt("count")
		if k <= 0 {
			k = cfg.SimilarMods
		}

		if len(args) == 0 {
			if _, err := similarity.RefreshAll(ctx, k, cfg.SimilarityWorkers); err != nil {
				logger.Log.Fatalw("Failed to refresh similar mods", zap.Error(err))
			}
			return
		}

		modID := parseModID(args[0])
		mod, err := similarity.LoadMod(ctx, modID)
		if err != nil {
			logger.Log.Fatalw("Failed to load mod", zap.Uint("mod_id", modID), zap.Error(err))
		}
		if err := similarity.UpdateSimilarMods(ctx, mod, k); err != nil {
			logger.Log.Fatalw("Failed to update similar mods", zap.Uint("mod_id", modID), zap.Error(err))
		}
		similar, err := similarity.SimilarMods(ctx, modID)
		if err != nil {
			logger.Log.Fatalw("Failed to read similar mods", zap.Uint("mod_id", modID), zap.Error(err))
		}
		for _, sm := range similar {
			fmt.Printf("%6d  %.3f  %s\n", sm.Mod.ID, sm.Similarity, sm.Mod.Name)
		}
	},
}

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().IntP("count", "k", 0, "Number of similar mods to keep (default SIMILAR_MODS)")
}

func parseModID(arg string) uint {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		logger.Log.Fatalw("Mod id must be a positive integer", zap.String("arg", arg))
	}
	return uint(id)
}

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spacedock-search/database"
	"spacedock-search/services"

	"github.com/spf13/cobra"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [flags] [--] [query...]",
	Short: "Run a mod search from the command line",
	Long: `Runs a mod search and prints one page of results.
Negated terms start with a dash, so put them after -- or pass the whole
query with --query:

  spacedock search -- ver:1.12 -user:bob fuel
  spacedock search -q "ver:1.12 -user:bob fuel"

With --corpus the query runs in memory against a JSON corpus instead of
the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flagQuery, _ := cmd.Flags().GetString("query")
		text := strings.TrimSpace(flagQuery + " " + strings.Join(args, " "))
		page, _ := cmd.Flags().GetInt("page")
		game, _ := cmd.Flags().GetUint("game")
		corpusPath, _ := cmd.Flags().GetString("corpus")

		var gameID *uint
		if game > 0 {
			gameID = &game
		}

		var (
			result *services.SearchResult
			err    error
		)
		if corpusPath != "" {
			result, err = searchCorpusFile(corpusPath, gameID, text, page)
		} else {
			cfg := bootstrap()
			search := services.NewSearchService(database.GetDB(), cfg, nil)
			result, err = search.SearchMods(context.Background(), gameID, text, page, cfg.PageSize)
		}
		if err != nil {
			return fmt.Errorf("search %q: %w", text, err)
		}

		out := cmd.OutOrStdout()
		printMods(out, result.Mods)
		fmt.Fprintf(out, "page %d of %d, %d mods\n", result.Page, result.TotalPages, result.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("query", "q", "", "Query text; joined before any positional terms")
	searchCmd.Flags().IntP("page", "p", 1, "Page to show")
	searchCmd.Flags().UintP("game", "g", 0, "Only search mods of this game id")
	searchCmd.Flags().String("corpus", "", "Search a JSON corpus in memory instead of the database")
}

// searchCorpusFile scores a corpus as of now and searches it.
func searchCorpusFile(path string, gameID *uint, text string, page int) (*services.SearchResult, error) {
	corpus, err := database.LoadCorpus(path)
	if err != nil {
		return nil, err
	}
	ds, err := corpus.Build()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range ds.Mods {
		ds.Mods[i].Score = services.GetModScore(&ds.Mods[i], now)
	}
	return services.SearchCorpus(ds.Mods, gameID, text, page, services.DefaultPageSize)
}

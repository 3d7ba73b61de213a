package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/animeta/internal/metadata"
	"github.com/vmunix/animeta/internal/resolver"
)

var seasonCmd = &cobra.Command{
	Use:   "season <path>",
	Short: "Resolve a season folder and print its metadata",
	Long: `Resolve a season folder and print its metadata.

Examples:
  animeta season "/media/anime/Bocchi the Rock/Season 1" --index 1
  animeta season "/media/anime/Frieren [bangumi=400602]"`,
	Args: cobra.ExactArgs(1),
	RunE: runSeasonCmd,
}

func init() {
	rootCmd.AddCommand(seasonCmd)
	seasonCmd.Flags().Int("index", -1, "Season index within the series")
	seasonCmd.Flags().String("id", "", "Catalog id already attached to the season")
	seasonCmd.Flags().String("series-name", "", "Parent series name")
	seasonCmd.Flags().String("series-id", "", "Catalog id of the parent series")
	seasonCmd.Flags().Int("year", 0, "Production year, used to filter guesses")
}

func runSeasonCmd(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	index, _ := cmd.Flags().GetInt("index")
	providerID, _ := cmd.Flags().GetString("id")
	seriesName, _ := cmd.Flags().GetString("series-name")
	seriesID, _ := cmd.Flags().GetString("series-id")
	year, _ := cmd.Flags().GetInt("year")

	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	provider := metadata.NewSeasonProvider(s.svc, s.resolver, s.cfg, s.log)
	meta, err := provider.GetMetadata(cmd.Context(), resolver.SeasonInfo{
		Path:             path,
		Index:            index,
		ProviderID:       providerID,
		SeriesName:       seriesName,
		SeriesProviderID: seriesID,
		Year:             year,
	}, nil)
	if err != nil {
		return err
	}
	if meta == nil {
		fmt.Println("No match")
		return nil
	}

	if jsonOutput {
		printJSON(meta)
		return nil
	}
	printSeasonHuman(meta)
	return nil
}

func printSeasonHuman(m *metadata.SeasonMeta) {
	fmt.Printf("Subject:  %d\n", m.ID)
	if m.Name != "" {
		fmt.Printf("Name:     %s\n", m.Name)
	}
	if m.OriginalName != "" {
		fmt.Printf("Original: %s\n", m.OriginalName)
	}
	if m.AirDate != "" {
		fmt.Printf("Aired:    %s", m.AirDate)
		if m.EndDate != "" {
			fmt.Printf(" to %s", m.EndDate)
		}
		fmt.Println()
	}
	if m.Rating > 0 {
		fmt.Printf("Rating:   %.1f\n", m.Rating)
	}
	if len(m.Genres) > 0 {
		fmt.Printf("Genres:   %v\n", m.Genres)
	}
	if m.OfficialRating != "" {
		fmt.Printf("Rated:    %s\n", m.OfficialRating)
	}
	if len(m.Persons) > 0 {
		fmt.Printf("\nCredits (%d):\n", len(m.Persons))
		for _, p := range m.Persons {
			if p.Actor != "" {
				fmt.Printf("  %-20s %s (CV: %s)\n", p.Role, p.Name, p.Actor)
				continue
			}
			fmt.Printf("  %-20s %s\n", p.Role, p.Name)
		}
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

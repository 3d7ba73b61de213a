package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/animeta/internal/metadata"
)

var episodeCmd = &cobra.Command{
	Use:   "episode <file>",
	Short: "Classify an episode file and print its metadata",
	Long: `Classify an episode file and print its metadata.

The parent season's catalog id must already be known; resolve it
with 'animeta season' first.

Examples:
  animeta episode --subject 302286 "Bocchi the Rock - 05.mkv"
  animeta episode --subject 302286 --season 0 "SPs/Bocchi - SP1.mkv"`,
	Args: cobra.ExactArgs(1),
	RunE: runEpisodeCmd,
}

func init() {
	rootCmd.AddCommand(episodeCmd)
	episodeCmd.Flags().Int("subject", 0, "Catalog id of the parent season (required)")
	episodeCmd.Flags().Int("season", -1, "Season number requested by the library")
	episodeCmd.Flags().Int("parent-index", 0, "Index of the containing season folder")
	episodeCmd.MarkFlagRequired("subject")
}

func runEpisodeCmd(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	subjectID, _ := cmd.Flags().GetInt("subject")
	season, _ := cmd.Flags().GetInt("season")
	parentIndex, _ := cmd.Flags().GetInt("parent-index")

	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	provider := metadata.NewEpisodeProvider(s.svc, s.cfg, s.log)
	meta, err := provider.GetMetadata(cmd.Context(), metadata.EpisodeInfo{
		Path:              path,
		SubjectID:         subjectID,
		RequestedSeason:   season,
		ParentIsSeason:    parentIndex > 0,
		ParentSeasonIndex: parentIndex,
	})
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
	printEpisodeHuman(meta)
	return nil
}

func printEpisodeHuman(m *metadata.EpisodeMeta) {
	if m.ID > 0 {
		fmt.Printf("Episode:  %d (subject %d)\n", m.ID, m.SubjectID)
	}
	if m.Name != "" {
		fmt.Printf("Name:     %s\n", m.Name)
	}
	if m.OriginalName != "" {
		fmt.Printf("Original: %s\n", m.OriginalName)
	}
	fmt.Printf("Number:   S%02dE%02d\n", m.SeasonNumber, m.Index)
	if m.AirDate != "" {
		fmt.Printf("Aired:    %s\n", m.AirDate)
	}
	if m.AirsBeforeSeason > 0 {
		fmt.Printf("Airs before season %d\n", m.AirsBeforeSeason)
	}
	if m.AirsAfterSeason > 0 {
		fmt.Printf("Airs after season %d\n", m.AirsAfterSeason)
	}
}

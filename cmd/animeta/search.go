package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/animeta/pkg/bangumi"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the catalog with fuzzy ranking",
	Long: `Search the catalog with fuzzy ranking.

Examples:
  animeta search 孤独摇滚
  animeta search "bocchi the rock" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	candidates, err := s.svc.SearchSubjectsRanked(cmd.Context(), query, bangumi.SubjectTypeAnime)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		printJSON(candidates)
		return nil
	}

	if len(candidates) == 0 {
		fmt.Println("No results")
		return nil
	}

	fmt.Printf("  # │ SCORE │ %-8s │ %s\n", "ID", "NAME")
	fmt.Println("────┼───────┼──────────┼─────────────────────────────")
	for i, c := range candidates {
		name := c.Subject.Name
		if name == "" {
			name = c.Subject.OriginalName
		}
		fmt.Printf(" %2d │ %5d │ %-8d │ %s\n", i+1, c.Score, c.Subject.ID, name)
	}
	return nil
}

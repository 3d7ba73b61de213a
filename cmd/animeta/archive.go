package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/animeta/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect and maintain the local archive",
}

var archiveStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show archive record counts",
	Args:  cobra.NoArgs,
	RunE:  runArchiveStatsCmd,
}

var archiveCompactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Rewrite the archive keeping only the latest record per id",
	Args:  cobra.NoArgs,
	RunE:  runArchiveCompactCmd,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveStatsCmd)
	archiveCmd.AddCommand(archiveCompactCmd)
}

func openArchive() (*archive.Archive, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return archive.Open(cfg.Archive.Path)
}

func runArchiveStatsCmd(cmd *cobra.Command, args []string) error {
	arch, err := openArchive()
	if err != nil {
		return err
	}

	subjects, err := arch.Subjects.LoadAll()
	if err != nil {
		return err
	}
	episodes, err := arch.Episodes.LoadAll()
	if err != nil {
		return err
	}
	persons, err := arch.Persons.LoadAll()
	if err != nil {
		return err
	}
	characters, err := arch.Characters.LoadAll()
	if err != nil {
		return err
	}

	stats := map[string]int{
		"subjects":   len(subjects),
		"episodes":   len(episodes),
		"persons":    len(persons),
		"characters": len(characters),
	}
	if jsonOutput {
		printJSON(stats)
		return nil
	}

	fmt.Printf("Subjects:   %d\n", stats["subjects"])
	fmt.Printf("Episodes:   %d\n", stats["episodes"])
	fmt.Printf("Persons:    %d\n", stats["persons"])
	fmt.Printf("Characters: %d\n", stats["characters"])
	return nil
}

func runArchiveCompactCmd(cmd *cobra.Command, args []string) error {
	arch, err := openArchive()
	if err != nil {
		return err
	}

	if err := arch.Subjects.Compact(); err != nil {
		return fmt.Errorf("compact subjects: %w", err)
	}
	if err := arch.Episodes.Compact(); err != nil {
		return fmt.Errorf("compact episodes: %w", err)
	}
	if err := arch.Persons.Compact(); err != nil {
		return fmt.Errorf("compact persons: %w", err)
	}
	if err := arch.Characters.Compact(); err != nil {
		return fmt.Errorf("compact characters: %w", err)
	}

	fmt.Println("Archive compacted")
	return nil
}

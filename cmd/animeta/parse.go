package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/animeta/internal/resolver"
)

var parseCmd = &cobra.Command{
	Use:   "parse <name>",
	Short: "Parse a folder or file name locally",
	Long: `Parse a folder or file name locally, without touching the catalog.

Shows the extracted series name, any embedded [bangumi=id] attribute,
the detected episode number and whether the name looks like a special.

Examples:
  animeta parse "[Lilith-Raws] 孤独摇滚！ - 05 [1080p].mkv"
  animeta parse "Frieren [bangumi=400602]" --tokenizer`,
	Args: cobra.ExactArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("tokenizer", false, "Use the release-name tokenizer")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	name := args[0]
	useTokenizer, _ := cmd.Flags().GetBool("tokenizer")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	parser := resolver.SelectParser(useTokenizer)
	order, hasOrder := parser.ParseEpisodeNumber(name)
	special := resolver.IsSpecial(name, cfg.Specials, nil)

	type parseResult struct {
		SeriesName string  `json:"series_name"`
		ProviderID string  `json:"provider_id,omitempty"`
		Episode    float64 `json:"episode,omitempty"`
		HasEpisode bool    `json:"has_episode"`
		Special    bool    `json:"special"`
		Parser     string  `json:"parser"`
	}
	result := parseResult{
		SeriesName: resolver.ExtractSeriesName(name),
		ProviderID: resolver.AttributeValue(name, "bangumi"),
		HasEpisode: hasOrder,
		Special:    special,
		Parser:     parser.Name(),
	}
	if hasOrder {
		result.Episode = order
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	fmt.Printf("Series:   %s\n", result.SeriesName)
	if result.ProviderID != "" {
		fmt.Printf("Catalog:  %s\n", result.ProviderID)
	}
	if result.HasEpisode {
		fmt.Printf("Episode:  %g\n", result.Episode)
	}
	fmt.Printf("Special:  %v\n", result.Special)
	fmt.Printf("Parser:   %s\n", result.Parser)
	return nil
}

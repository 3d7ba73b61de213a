// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Translation preferences for titles and person names.
const (
	PreferTranslated = "translated"
	PreferOriginal   = "original"
)

// Config is the root configuration structure.
type Config struct {
	Catalog  CatalogConfig  `toml:"catalog"`
	Metadata MetadataConfig `toml:"metadata"`
	Archive  ArchiveConfig  `toml:"archive"`
	Specials SpecialsConfig `toml:"specials"`
	LogLevel string         `toml:"log_level"`
}

// CatalogConfig configures the remote catalog client.
type CatalogConfig struct {
	BaseURL        string   `toml:"base_url"`
	UserAgent      string   `toml:"user_agent"`
	RequestTimeout duration `toml:"request_timeout"`
}

// MetadataConfig configures how resolved records map to output metadata.
type MetadataConfig struct {
	TranslationPreference       string `toml:"translation_preference"`
	PersonTranslationPreference string `toml:"person_translation_preference"`
	UseCatalogSeasonTitle       bool   `toml:"use_catalog_season_title"`
	SkipNSFW                    bool   `toml:"skip_nsfw"`
	AlwaysUseTokenizer          bool   `toml:"always_use_tokenizer"`
	SeasonGuessMaxSearchCount   int    `toml:"season_guess_max_search_count"`
}

// ArchiveConfig configures the local durable archive and response cache.
type ArchiveConfig struct {
	Path                    string `toml:"path"`
	CachePath               string `toml:"cache_path"`
	DaysBeforeArchiveData   int    `toml:"days_before_archive_data"`
	RatingUpdateMinInterval int    `toml:"rating_update_min_interval"`
}

// SpecialsConfig holds newline-separated regex lists that exclude files from
// special-episode detection. Lists are matched one pattern at a time; an
// invalid pattern is skipped and reported, never fatal.
type SpecialsConfig struct {
	ExcludeFullPath   string `toml:"exclude_full_path"`
	ExcludeFolderName string `toml:"exclude_folder_name"`
	ExcludeFileName   string `toml:"exclude_file_name"`
}

// Default special-exclusion patterns, matching common extras folder layouts.
const (
	DefaultExcludeFolderName = `\b(SPs?|Specials?|PVs?|Previews?|Scans?|menus?|Fonts?|Extras?|CDs?|bonus|Music|Subs?|Subtitles?)\b
(特典|NCOP|NCED)`
	DefaultExcludeFileName = `\b(WEB予告|NCOP\d*|NCED\d*|menu|PV\d+)\b`
)

// duration wraps time.Duration so TOML values like "5s" parse directly.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Timeout returns the catalog request timeout as a time.Duration.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout)
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	cfg := newConfig()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := newConfig()
	cfg.applyDefaults()
	return cfg
}

// newConfig pre-sets the bool fields that default to true. TOML decoding
// cannot tell an absent key from an explicit false, so these must be set
// before decoding rather than in applyDefaults.
func newConfig() *Config {
	return &Config{
		Metadata: MetadataConfig{UseCatalogSeasonTitle: true},
	}
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Catalog.RequestTimeout == 0 {
		c.Catalog.RequestTimeout = duration(5 * time.Second)
	}
	if c.Metadata.TranslationPreference == "" {
		c.Metadata.TranslationPreference = PreferTranslated
	}
	if c.Metadata.PersonTranslationPreference == "" {
		c.Metadata.PersonTranslationPreference = PreferOriginal
	}
	if c.Metadata.SeasonGuessMaxSearchCount == 0 {
		c.Metadata.SeasonGuessMaxSearchCount = 2
	}
	if c.Archive.Path == "" {
		c.Archive.Path = "./data/archive"
	}
	if c.Archive.CachePath == "" {
		c.Archive.CachePath = "./data/cache.db"
	}
	if c.Archive.DaysBeforeArchiveData == 0 {
		c.Archive.DaysBeforeArchiveData = 14
	}
	if c.Archive.RatingUpdateMinInterval == 0 {
		c.Archive.RatingUpdateMinInterval = 14
	}
	if c.Specials.ExcludeFolderName == "" {
		c.Specials.ExcludeFolderName = DefaultExcludeFolderName
	}
	if c.Specials.ExcludeFileName == "" {
		c.Specials.ExcludeFileName = DefaultExcludeFileName
	}
	c.Specials.ExcludeFullPath = NormalizePatterns(c.Specials.ExcludeFullPath)
	c.Specials.ExcludeFolderName = NormalizePatterns(c.Specials.ExcludeFolderName)
	c.Specials.ExcludeFileName = NormalizePatterns(c.Specials.ExcludeFileName)
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/animeta/internal/archive"
	"github.com/vmunix/animeta/internal/config"
	"github.com/vmunix/animeta/internal/metadata"
	"github.com/vmunix/animeta/internal/resolver"
	"github.com/vmunix/animeta/pkg/bangumi"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "animeta",
	Short: "Anime metadata resolution against the Bangumi catalog",
	Long: `animeta - anime metadata resolution against the Bangumi catalog

Resolves season folders and episode files to catalog subjects,
with a local jsonlines archive for offline operation.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (TOML)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("animeta {{.Version}}\n")
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "config: %s\n", p)
		}
		return nil, fmt.Errorf("invalid config %s", configPath)
	}
	return cfg, nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// services bundles everything a resolution command needs.
type services struct {
	cfg      *config.Config
	log      *slog.Logger
	svc      *metadata.Service
	resolver *resolver.Resolver
	cache    *metadata.Cache
}

func openServices() (*services, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := setupLogger(cfg)

	opts := []bangumi.Option{bangumi.WithLogger(log)}
	if cfg.Catalog.BaseURL != "" {
		opts = append(opts, bangumi.WithBaseURL(cfg.Catalog.BaseURL))
	}
	if cfg.Catalog.UserAgent != "" {
		opts = append(opts, bangumi.WithUserAgent(cfg.Catalog.UserAgent))
	}
	if timeout := cfg.Catalog.Timeout(); timeout > 0 {
		opts = append(opts, bangumi.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	client := bangumi.New(opts...)

	arch, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	cache, err := metadata.OpenCache(cfg.Archive.CachePath)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	svc := metadata.NewService(client, arch, cache, cfg.Archive, log)
	res := resolver.New(svc, cfg.Metadata.SeasonGuessMaxSearchCount, log)

	return &services{
		cfg:      cfg,
		log:      log,
		svc:      svc,
		resolver: res,
		cache:    cache,
	}, nil
}

func (s *services) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

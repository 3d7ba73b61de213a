package metadata

import (
	"context"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"

	"github.com/vmunix/animeta/internal/config"
	"github.com/vmunix/animeta/internal/localcfg"
	"github.com/vmunix/animeta/internal/resolver"
	"github.com/vmunix/animeta/pkg/bangumi"
)

// EpisodeInfo describes the episode file being enriched. SubjectID is the
// parent season's resolved catalog id; a season's id is resolved once and
// reused for all of its episodes within a pass.
type EpisodeInfo struct {
	Path      string
	SubjectID int
	// RequestedSeason is the host's season assignment: 0 requests the
	// specials bucket, negative means unknown.
	RequestedSeason int
	// ParentIsSeason is true when the file sits under a season container;
	// ParentSeasonIndex is its index then.
	ParentIsSeason    bool
	ParentSeasonIndex int
}

// EpisodeProvider classifies episode files and assembles their metadata.
type EpisodeProvider struct {
	svc *Service
	cfg *config.Config
	log *slog.Logger
}

// NewEpisodeProvider creates an episode provider.
func NewEpisodeProvider(svc *Service, cfg *config.Config, log *slog.Logger) *EpisodeProvider {
	return &EpisodeProvider{
		svc: svc,
		cfg: cfg,
		log: log.With("component", "episode"),
	}
}

// GetMetadata assembles metadata for one episode file. A nil result with a
// nil error means the file stays unenriched; only cancellation surfaces as
// an error.
func (p *EpisodeProvider) GetMetadata(ctx context.Context, info EpisodeInfo) (*EpisodeMeta, error) {
	if info.Path == "" {
		return nil, nil
	}

	override, err := localcfg.ForPath(info.Path)
	if err != nil {
		p.log.Warn("ignoring unreadable local override", "path", info.Path, "error", err)
		override = localcfg.Override{}
	}

	heuristicSpecial := resolver.IsSpecial(info.Path, p.cfg.Specials, func(pattern string, err error) {
		p.log.Warn("skipping invalid special-exclude pattern", "pattern", pattern, "error", err)
	})
	switch override.Type {
	case "special":
		heuristicSpecial = true
	case "normal":
		heuristicSpecial = false
	}

	episode, subject := p.findEpisode(ctx, info, heuristicSpecial)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if episode == nil {
		// No catalog record; a heuristic special still gets pinned to the
		// specials bucket so the host does not misnumber it.
		if heuristicSpecial {
			return &EpisodeMeta{SeasonNumber: 0}, nil
		}
		return nil, nil
	}

	c := Classify(ClassifyInput{
		Episode:           *episode,
		Subject:           subject,
		HeuristicSpecial:  heuristicSpecial,
		RequestedSeason:   info.RequestedSeason,
		ParentIsSeason:    info.ParentIsSeason,
		ParentSeasonIndex: info.ParentSeasonIndex,
	})

	meta := &EpisodeMeta{
		ID:           episode.ID,
		SubjectID:    episode.SubjectID,
		Name:         episode.Name,
		OriginalName: episode.OriginalName,
		Overview:     episode.Description,
		// Fractional orders truncate toward zero; the override offset is
		// additive.
		Index:            int(episode.Order) + override.Offset,
		SeasonNumber:     c.SeasonNumber,
		AirDate:          episode.AirDate,
		AirsBeforeSeason: c.AirsBeforeSeason,
		AirsAfterSeason:  c.AirsAfterSeason,
	}

	if len(episode.AirDate) >= 4 {
		if year, err := strconv.Atoi(episode.AirDate[:4]); err == nil {
			meta.ProductionYear = year
		}
	}

	if c.EnrichFromSubject && subject != nil {
		if meta.Name == "" {
			meta.Name = subject.Name
		}
		if meta.OriginalName == "" {
			meta.OriginalName = subject.OriginalName
		}
		if meta.Overview == "" {
			meta.Overview = subject.Summary
		}
	}

	return meta, nil
}

// findEpisode parses the file's ordinal and looks up the matching catalog
// episode plus its parent subject. Failures are logged and reported as not
// found, never as errors.
func (p *EpisodeProvider) findEpisode(ctx context.Context, info EpisodeInfo, heuristicSpecial bool) (*bangumi.Episode, *bangumi.Subject) {
	if info.SubjectID <= 0 {
		return nil, nil
	}

	parser := resolver.SelectParser(p.cfg.Metadata.AlwaysUseTokenizer)
	order, ok := parser.ParseEpisodeNumber(filepath.Base(info.Path))
	if !ok {
		p.log.Debug("no episode number in file name", "path", info.Path, "parser", parser.Name())
		return nil, nil
	}

	episodes, err := p.svc.GetEpisodes(ctx, info.SubjectID)
	if err != nil {
		p.log.Warn("episode list fetch failed", "subject_id", info.SubjectID, "error", err)
		return nil, nil
	}

	episode := matchEpisode(episodes, order, heuristicSpecial)
	if episode == nil {
		return nil, nil
	}

	subject, err := p.svc.GetSubject(ctx, episode.SubjectID)
	if err != nil {
		p.log.Warn("subject fetch failed", "id", episode.SubjectID, "error", err)
		subject = nil
	}
	return episode, subject
}

// matchEpisode finds the episode with the parsed ordinal, searching the
// expected type group first so "SP 01" does not collide with episode 1.
func matchEpisode(episodes []bangumi.Episode, order float64, special bool) *bangumi.Episode {
	wantType := bangumi.EpisodeTypeNormal
	if special {
		wantType = bangumi.EpisodeTypeSpecial
	}

	var fallback *bangumi.Episode
	for i := range episodes {
		ep := &episodes[i]
		if math.Abs(ep.Order-order) > 1e-9 {
			continue
		}
		if ep.Type == wantType {
			return ep
		}
		if fallback == nil {
			fallback = ep
		}
	}
	return fallback
}

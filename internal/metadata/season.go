package metadata

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/animeta/internal/config"
	"github.com/vmunix/animeta/internal/localcfg"
	"github.com/vmunix/animeta/internal/resolver"
	"github.com/vmunix/animeta/pkg/bangumi"
)

// SeasonProvider resolves season folders and assembles their metadata.
type SeasonProvider struct {
	svc      *Service
	resolver *resolver.Resolver
	cfg      *config.Config
	log      *slog.Logger
}

// NewSeasonProvider creates a season provider. The resolver must be backed
// by the same service so searches share the cache and archive.
func NewSeasonProvider(svc *Service, res *resolver.Resolver, cfg *config.Config, log *slog.Logger) *SeasonProvider {
	return &SeasonProvider{
		svc:      svc,
		resolver: res,
		cfg:      cfg,
		log:      log.With("component", "season"),
	}
}

// GetMetadata resolves the season and assembles its metadata. A nil result
// with a nil error means the season stays unenriched; only cancellation
// surfaces as an error.
func (p *SeasonProvider) GetMetadata(ctx context.Context, info resolver.SeasonInfo, siblings []resolver.SiblingSeason) (*SeasonMeta, error) {
	if info.Path == "" {
		return nil, nil
	}

	override, err := localcfg.ForPath(info.Path)
	if err != nil {
		p.log.Warn("ignoring unreadable local override", "path", info.Path, "error", err)
		override = localcfg.Override{}
	}

	id, subject, err := p.resolver.ResolveSeasonID(ctx, info, override, siblings)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, nil
	}

	if subject == nil {
		subject, err = p.svc.GetSubject(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			p.log.Warn("subject fetch failed", "id", id, "error", err)
			return nil, nil
		}
	}

	if p.cfg.Metadata.SkipNSFW && subject.NSFW {
		p.log.Info("skipping NSFW subject", "id", subject.ID, "name", subject.Name)
		return nil, nil
	}

	meta := p.assemble(subject)
	meta.Persons = p.fetchPersons(ctx, subject.ID)
	return meta, nil
}

// assemble maps a subject record to the output shape, applying the
// configured field preferences.
func (p *SeasonProvider) assemble(subject *bangumi.Subject) *SeasonMeta {
	meta := &SeasonMeta{
		ID:           subject.ID,
		Overview:     subject.Summary,
		Tags:         subject.Tags,
		Genres:       subject.Genres,
		Rating:       subject.RatingScore,
		AirDate:      subject.AirDate,
		EndDate:      subject.EndDate,
		OfficialSite: subject.OfficialSite,
	}

	if p.cfg.Metadata.UseCatalogSeasonTitle {
		meta.Name = preferredTitle(subject.Name, subject.OriginalName, p.cfg.Metadata.TranslationPreference)
		meta.OriginalName = subject.OriginalName
	}

	if len(subject.AirDate) >= 4 {
		if year, err := strconv.Atoi(subject.AirDate[:4]); err == nil {
			meta.ProductionYear = year
		}
	}
	if len(subject.ProductionYear) == 4 {
		if year, err := strconv.Atoi(subject.ProductionYear); err == nil {
			meta.ProductionYear = year
		}
	}

	if subject.NSFW {
		meta.OfficialRating = "X"
	}

	return meta
}

// fetchPersons collects staff and character credits concurrently. Either
// fetch failing costs only its credits, never the season.
func (p *SeasonProvider) fetchPersons(ctx context.Context, subjectID int) []PersonMeta {
	var persons []bangumi.RelatedPerson
	var characters []bangumi.RelatedCharacter

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if persons, err = p.svc.GetSubjectPersons(gctx, subjectID); err != nil {
			p.log.Warn("person fetch failed", "subject_id", subjectID, "error", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if characters, err = p.svc.GetSubjectCharacters(gctx, subjectID); err != nil {
			p.log.Warn("character fetch failed", "subject_id", subjectID, "error", err)
		}
		return nil
	})
	_ = g.Wait()

	pref := p.cfg.Metadata.PersonTranslationPreference
	credits := make([]PersonMeta, 0, len(persons)+len(characters))
	for _, person := range persons {
		credits = append(credits, PersonMeta{
			ID:   person.ID,
			Name: preferredTitle(person.Name, person.OriginalName, pref),
			Role: person.Relation,
			Kind: PersonKindStaff,
		})
	}
	for _, ch := range characters {
		credits = append(credits, PersonMeta{
			ID:    ch.ID,
			Name:  preferredTitle(ch.Name, ch.OriginalName, pref),
			Role:  ch.Relation,
			Kind:  PersonKindCharacter,
			Actor: ch.ActorName,
		})
	}
	return credits
}

// preferredTitle picks between the translated and original names, falling
// back to whichever is present.
func preferredTitle(translated, original, pref string) string {
	if pref == config.PreferOriginal {
		if original != "" {
			return original
		}
		return translated
	}
	if translated != "" {
		return translated
	}
	return original
}

package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/vmunix/animeta/internal/archive"
	"github.com/vmunix/animeta/internal/config"
	"github.com/vmunix/animeta/pkg/bangumi"
)

const (
	// Cache TTLs
	subjectTTL = 7 * 24 * time.Hour
	episodeTTL = 24 * time.Hour
	searchTTL  = time.Hour

	// Hot in-memory cache: subjects live for the duration of a scan pass.
	hotTTL     = 30 * time.Minute
	hotCleanup = 10 * time.Minute
)

// Cache key prefixes
const (
	keyPrefixSubject  = "bangumi:subject:"
	keyPrefixEpisodes = "bangumi:episodes:"
	keyPrefixSearch   = "bangumi:search:"
	keyPrefixRating   = "bangumi:rating-refreshed:"
)

// CatalogAPI is the remote catalog surface the service wraps.
type CatalogAPI interface {
	GetSubject(ctx context.Context, id int) (*bangumi.Subject, error)
	SearchSubjects(ctx context.Context, keyword string, typ bangumi.SubjectType) ([]bangumi.Subject, error)
	SearchSubjectsRanked(ctx context.Context, keyword string, typ bangumi.SubjectType) ([]bangumi.SearchCandidate, error)
	GetNextSubject(ctx context.Context, previousID int) (*bangumi.Subject, error)
	GetEpisodes(ctx context.Context, subjectID int) ([]bangumi.Episode, error)
	GetSubjectPersons(ctx context.Context, subjectID int) ([]bangumi.RelatedPerson, error)
	GetSubjectCharacters(ctx context.Context, subjectID int) ([]bangumi.RelatedCharacter, error)
}

// Service provides cached access to catalog metadata, writing every
// successful remote fetch through to the archive and reading from the
// archive when the remote is unreachable or the record is old enough that
// archived data is considered final.
type Service struct {
	client  CatalogAPI
	archive *archive.Archive
	cache   *Cache
	hot     *gocache.Cache
	cfg     config.ArchiveConfig
	log     *slog.Logger
}

// NewService creates the cached catalog service.
func NewService(client CatalogAPI, arch *archive.Archive, cache *Cache, cfg config.ArchiveConfig, log *slog.Logger) *Service {
	return &Service{
		client:  client,
		archive: arch,
		cache:   cache,
		hot:     gocache.New(hotTTL, hotCleanup),
		cfg:     cfg,
		log:     log.With("component", "metadata"),
	}
}

// GetSubject fetches a subject by id, preferring, in order: the in-memory
// hot cache, the archive for finished shows past the staleness window, the
// response cache, the remote catalog, and finally the archive again as an
// offline fallback.
func (s *Service) GetSubject(ctx context.Context, id int) (*bangumi.Subject, error) {
	hotKey := "subject:" + strconv.Itoa(id)
	if v, ok := s.hot.Get(hotKey); ok {
		subject := v.(bangumi.Subject)
		return &subject, nil
	}

	if archived, ok := s.archivedFinal(id); ok {
		if s.ratingRefreshDue(ctx, id) {
			if fresh := s.refreshFromRemote(ctx, id); fresh != nil {
				s.hot.SetDefault(hotKey, *fresh)
				return fresh, nil
			}
		}
		s.log.Debug("serving subject from archive", "id", id)
		s.hot.SetDefault(hotKey, archived)
		return &archived, nil
	}

	key := keyPrefixSubject + strconv.Itoa(id)
	if data, ok := s.cache.Get(ctx, key); ok {
		var subject bangumi.Subject
		if err := json.Unmarshal(data, &subject); err == nil {
			s.hot.SetDefault(hotKey, subject)
			return &subject, nil
		}
		s.log.Warn("failed to unmarshal cached subject", "id", id)
	}

	subject, err := s.client.GetSubject(ctx, id)
	if err != nil {
		if errors.Is(err, bangumi.ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		// Transient remote failure: the archive is the offline source of truth.
		if archived, archiveErr := s.archive.Subjects.Get(id); archiveErr == nil {
			s.log.Warn("remote fetch failed, using archive", "id", id, "error", err)
			s.hot.SetDefault(hotKey, archived)
			return &archived, nil
		}
		return nil, fmt.Errorf("get subject %d: %w", id, err)
	}

	s.cacheSet(ctx, key, subject, subjectTTL)
	s.hot.SetDefault(hotKey, *subject)
	if err := s.archive.StoreSubject(*subject); err != nil {
		s.log.Warn("failed to archive subject", "id", id, "error", err)
	}
	return subject, nil
}

// SearchSubjects passes through to the remote catalog. Search has no
// offline fallback; the archive is keyed by id only.
func (s *Service) SearchSubjects(ctx context.Context, keyword string, typ bangumi.SubjectType) ([]bangumi.Subject, error) {
	return s.client.SearchSubjects(ctx, keyword, typ)
}

// SearchSubjectsRanked searches with ranking, caching results briefly since
// library scans repeat the same queries across items.
func (s *Service) SearchSubjectsRanked(ctx context.Context, keyword string, typ bangumi.SubjectType) ([]bangumi.SearchCandidate, error) {
	key := fmt.Sprintf("%s%d:%s", keyPrefixSearch, typ, keyword)

	if data, ok := s.cache.Get(ctx, key); ok {
		var candidates []bangumi.SearchCandidate
		if err := json.Unmarshal(data, &candidates); err == nil {
			s.log.Debug("cache hit for search", "keyword", keyword, "results", len(candidates))
			return candidates, nil
		}
		s.log.Warn("failed to unmarshal cached search results", "keyword", keyword)
	}

	candidates, err := s.client.SearchSubjectsRanked(ctx, keyword, typ)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.cacheSet(ctx, key, candidates, searchTTL)
	return candidates, nil
}

// GetNextSubject resolves the sequel of previousID, recording the relation
// in the archive so future passes can follow it offline.
func (s *Service) GetNextSubject(ctx context.Context, previousID int) (*bangumi.Subject, error) {
	next, err := s.client.GetNextSubject(ctx, previousID)
	if err == nil {
		if linkErr := s.archive.SubjectRelations.Link(previousID, next.ID); linkErr != nil {
			s.log.Warn("failed to archive sequel relation", "previous_id", previousID, "error", linkErr)
		}
		return next, nil
	}
	if errors.Is(err, bangumi.ErrNotFound) || ctx.Err() != nil {
		return nil, err
	}

	nextID, archiveErr := s.archive.NextSubjectID(previousID)
	if archiveErr != nil || nextID == 0 {
		return nil, err
	}
	s.log.Warn("remote sequel lookup failed, using archive", "previous_id", previousID, "error", err)
	return s.GetSubject(ctx, nextID)
}

// GetEpisodes fetches a subject's episodes (cached, archive fallback).
func (s *Service) GetEpisodes(ctx context.Context, subjectID int) ([]bangumi.Episode, error) {
	key := keyPrefixEpisodes + strconv.Itoa(subjectID)

	if data, ok := s.cache.Get(ctx, key); ok {
		var episodes []bangumi.Episode
		if err := json.Unmarshal(data, &episodes); err == nil {
			return episodes, nil
		}
		s.log.Warn("failed to unmarshal cached episodes", "subject_id", subjectID)
	}

	episodes, err := s.client.GetEpisodes(ctx, subjectID)
	if err != nil {
		if errors.Is(err, bangumi.ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		if archived, archiveErr := s.archive.EpisodesOf(subjectID); archiveErr == nil && len(archived) > 0 {
			s.log.Warn("remote episode fetch failed, using archive", "subject_id", subjectID, "error", err)
			return archived, nil
		}
		return nil, fmt.Errorf("get episodes for %d: %w", subjectID, err)
	}

	s.cacheSet(ctx, key, episodes, episodeTTL)
	for _, ep := range episodes {
		if err := s.archive.StoreEpisode(ep); err != nil {
			s.log.Warn("failed to archive episode", "id", ep.ID, "error", err)
			break
		}
	}
	return episodes, nil
}

// GetSubjectPersons fetches a subject's staff (archive fallback).
func (s *Service) GetSubjectPersons(ctx context.Context, subjectID int) ([]bangumi.RelatedPerson, error) {
	persons, err := s.client.GetSubjectPersons(ctx, subjectID)
	if err != nil {
		if errors.Is(err, bangumi.ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		if archived, archiveErr := s.archive.PersonsOf(subjectID); archiveErr == nil && len(archived) > 0 {
			return archived, nil
		}
		return nil, fmt.Errorf("get persons for %d: %w", subjectID, err)
	}

	for _, p := range persons {
		if err := s.archive.StorePerson(p); err != nil {
			s.log.Warn("failed to archive person", "id", p.ID, "error", err)
			break
		}
	}
	return persons, nil
}

// GetSubjectCharacters fetches a subject's characters (archive fallback).
func (s *Service) GetSubjectCharacters(ctx context.Context, subjectID int) ([]bangumi.RelatedCharacter, error) {
	characters, err := s.client.GetSubjectCharacters(ctx, subjectID)
	if err != nil {
		if errors.Is(err, bangumi.ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		if archived, archiveErr := s.archive.CharactersOf(subjectID); archiveErr == nil && len(archived) > 0 {
			return archived, nil
		}
		return nil, fmt.Errorf("get characters for %d: %w", subjectID, err)
	}

	for _, ch := range characters {
		if err := s.archive.StoreCharacter(ch); err != nil {
			s.log.Warn("failed to archive character", "id", ch.ID, "error", err)
			break
		}
	}
	return characters, nil
}

// archivedFinal returns the archived record when the show finished airing
// longer ago than the staleness window, meaning archived data is final and
// the remote call can be skipped entirely.
func (s *Service) archivedFinal(id int) (bangumi.Subject, bool) {
	if s.cfg.DaysBeforeArchiveData <= 0 {
		return bangumi.Subject{}, false
	}

	subject, err := s.archive.Subjects.Get(id)
	if err != nil {
		return bangumi.Subject{}, false
	}

	finished := subject.EndDate
	if finished == "" {
		finished = subject.AirDate
	}
	d, ok := parseLooseDate(finished)
	if !ok {
		return bangumi.Subject{}, false
	}

	cutoff := time.Duration(s.cfg.DaysBeforeArchiveData) * 24 * time.Hour
	if time.Since(d) > cutoff {
		return subject, true
	}
	return bangumi.Subject{}, false
}

// ratingRefreshDue rate-limits rating refreshes for archive-served subjects.
func (s *Service) ratingRefreshDue(ctx context.Context, id int) bool {
	if s.cfg.RatingUpdateMinInterval <= 0 {
		return false
	}
	key := keyPrefixRating + strconv.Itoa(id)
	_, refreshed := s.cache.Get(ctx, key)
	return !refreshed
}

// refreshFromRemote re-fetches an archive-served subject to pick up rating
// drift. Failure is fine; the archived record stands.
func (s *Service) refreshFromRemote(ctx context.Context, id int) *bangumi.Subject {
	subject, err := s.client.GetSubject(ctx, id)
	if err != nil {
		s.log.Debug("rating refresh failed", "id", id, "error", err)
		return nil
	}

	interval := time.Duration(s.cfg.RatingUpdateMinInterval) * 24 * time.Hour
	if err := s.cache.Set(ctx, keyPrefixRating+strconv.Itoa(id), []byte("1"), interval); err != nil {
		s.log.Warn("failed to record rating refresh", "id", id, "error", err)
	}
	if err := s.archive.StoreSubject(*subject); err != nil {
		s.log.Warn("failed to archive subject", "id", id, "error", err)
	}
	return subject
}

// cacheSet marshals and stores a response, logging instead of failing.
func (s *Service) cacheSet(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("failed to marshal for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.log.Warn("failed to cache response", "key", key, "error", err)
	}
}

// parseLooseDate parses catalog dates, which may be full, month-only or
// year-only.
func parseLooseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

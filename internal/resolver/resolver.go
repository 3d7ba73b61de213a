package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/vmunix/animeta/internal/localcfg"
	"github.com/vmunix/animeta/pkg/bangumi"
)

// providerAttribute is the folder-name marker carrying an explicit subject id.
const providerAttribute = "bangumi"

// chineseOrdinals spells season indices for literal "第N季" search queries.
var chineseOrdinals = map[int]string{
	1: "一", 2: "二", 3: "三", 4: "四", 5: "五",
	6: "六", 7: "七", 8: "八", 9: "九", 10: "十",
}

// SeasonInfo describes the season folder being resolved. Index is the
// season number the host assigned: 0 requests the specials bucket, negative
// means unknown.
type SeasonInfo struct {
	Path             string
	Index            int
	ProviderID       string // catalog id already attached to this season
	SeriesName       string
	SeriesProviderID string // catalog id already attached to the parent series
	Year             int    // production year when known, 0 otherwise
}

// SiblingSeason is the already-known state of another season in the same
// series, used for lineage-based guessing.
type SiblingSeason struct {
	Path       string
	Index      int
	ProviderID string
}

// Resolver runs the identity-resolution cascade. It is stateless and safe
// for concurrent use.
type Resolver struct {
	catalog        Catalog
	maxGuessSearch int
	log            *slog.Logger
}

// New creates a Resolver. maxGuessSearch caps how many literal season-name
// queries the lineage guess may issue (0 means all of them).
func New(catalog Catalog, maxGuessSearch int, log *slog.Logger) *Resolver {
	return &Resolver{
		catalog:        catalog,
		maxGuessSearch: maxGuessSearch,
		log:            log.With("component", "resolver"),
	}
}

// ResolveSeasonID tries each resolution signal in order until one yields a
// positive subject id. The returned subject is non-nil when a strategy
// already produced the full record; callers fetch it otherwise. An id <= 0
// with a nil error means the season is unresolved, which is not a failure.
func (r *Resolver) ResolveSeasonID(ctx context.Context, info SeasonInfo, override localcfg.Override, siblings []SiblingSeason) (int, *bangumi.Subject, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	baseName := filepath.Base(info.Path)

	// 1. Explicit local override.
	if override.HasID() {
		r.log.Debug("resolved by local override", "path", baseName, "id", override.ID)
		return override.ID, nil, nil
	}

	// 2. Embedded [bangumi=<id>] attribute in the folder name.
	if id, err := strconv.Atoi(AttributeValue(baseName, providerAttribute)); err == nil && id > 0 {
		r.log.Debug("resolved by folder attribute", "path", baseName, "id", id)
		return id, nil, nil
	}

	// 3. Provider id already attached to the season.
	if id, err := strconv.Atoi(info.ProviderID); err == nil && id > 0 {
		return id, nil, nil
	}

	// 4. Season one inherits the parent series' id.
	if info.Index == 1 {
		if id, err := strconv.Atoi(info.SeriesProviderID); err == nil && id > 0 {
			return id, nil, nil
		}
	}

	// 5. Folder-name search with fuzzy acceptance.
	r.log.Info("guessing season id by folder name", "name", baseName)
	subject, err := r.searchByFolderName(ctx, baseName)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, err
		}
		// Transient search failure counts as not-found for this signal.
		r.log.Warn("folder-name search failed", "name", baseName, "error", err)
	}
	if subject != nil {
		r.log.Info("guessed result", "name", subject.Name, "id", subject.ID)
		return subject.ID, subject, nil
	}

	// 6. Lineage guess from sibling seasons.
	return r.guessFromLineage(ctx, info, siblings)
}

// searchByFolderName extracts the series name from the folder and accepts
// the best ranked result only above the fuzzy threshold.
func (r *Resolver) searchByFolderName(ctx context.Context, folderName string) (*bangumi.Subject, error) {
	keyword := ExtractSeriesName(folderName)
	if keyword == "" {
		return nil, nil
	}

	candidates, err := r.catalog.SearchSubjectsRanked(ctx, keyword, bangumi.SubjectTypeAnime)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}
	return AcceptRanked(candidates), nil
}

// guessFromLineage anchors on the sibling season at index n-1 or n with the
// highest resolved id. An anchor pointing back at this season means every
// earlier season is missing, so literal season-name queries run; whenever
// the anchor itself carries an id the catalog's sequel relation is asked
// too, and a hit there wins.
func (r *Resolver) guessFromLineage(ctx context.Context, info SeasonInfo, siblings []SiblingSeason) (int, *bangumi.Subject, error) {
	anchor, ok := r.findAnchor(info, siblings)
	if !ok {
		return 0, nil, nil
	}

	subjectID := 0
	var subject *bangumi.Subject

	if anchor.Path == info.Path {
		id, err := r.searchBySeasonName(ctx, info)
		if err != nil {
			return 0, nil, err
		}
		if id > 0 {
			subjectID = id
		}
	}

	if anchorID, err := strconv.Atoi(anchor.ProviderID); err == nil && anchorID > 0 {
		r.log.Info("guessing season id from previous season", "previous_id", anchorID)
		next, err := r.catalog.GetNextSubject(ctx, anchorID)
		if err != nil && !errors.Is(err, bangumi.ErrNotFound) {
			if ctx.Err() != nil {
				return 0, nil, err
			}
			r.log.Warn("next-subject lookup failed", "previous_id", anchorID, "error", err)
		}
		if next != nil {
			r.log.Info("guessed result", "name", next.Name, "id", next.ID)
			subjectID = next.ID
			subject = next
		}
	}

	return subjectID, subject, nil
}

// findAnchor picks the sibling at index n-1 or n with the highest resolved
// id. Ties and missing ids resolve to 0, keeping selection deterministic.
func (r *Resolver) findAnchor(info SeasonInfo, siblings []SiblingSeason) (SiblingSeason, bool) {
	var anchor SiblingSeason
	found := false
	bestID := -1

	for _, s := range siblings {
		if s.Index != info.Index-1 && s.Index != info.Index {
			continue
		}
		id, _ := strconv.Atoi(s.ProviderID)
		if id > bestID {
			anchor = s
			bestID = id
			found = true
		}
	}
	return anchor, found
}

// searchBySeasonName issues literal "<series> 第N季" and "<series> Season N"
// queries, filtering out the parent series itself and year mismatches. No
// fuzzy threshold applies; a later query with results overrides an earlier
// one.
func (r *Resolver) searchBySeasonName(ctx context.Context, info SeasonInfo) (int, error) {
	if info.SeriesName == "" || info.Index < 1 {
		return 0, nil
	}

	var queries []string
	if ordinal, ok := chineseOrdinals[info.Index]; ok {
		queries = append(queries, fmt.Sprintf("%s 第%s季", info.SeriesName, ordinal))
	}
	queries = append(queries, fmt.Sprintf("%s Season %d", info.SeriesName, info.Index))
	if r.maxGuessSearch > 0 && len(queries) > r.maxGuessSearch {
		queries = queries[:r.maxGuessSearch]
	}

	parentID, _ := strconv.Atoi(info.SeriesProviderID)

	subjectID := 0
	for _, query := range queries {
		r.log.Info("guessing season id by name", "query", query)
		results, err := r.catalog.SearchSubjects(ctx, query, bangumi.SubjectTypeAnime)
		if err != nil {
			if ctx.Err() != nil {
				return 0, err
			}
			r.log.Warn("season-name search failed", "query", query, "error", err)
			continue
		}

		for _, s := range results {
			if parentID > 0 && s.ID == parentID {
				continue
			}
			if info.Year > 0 && s.ProductionYear != "" && s.ProductionYear != strconv.Itoa(info.Year) {
				continue
			}
			subjectID = s.ID
			break
		}
	}
	return subjectID, nil
}

package metadata

import (
	"strings"

	"github.com/vmunix/animeta/pkg/bangumi"
)

// ClassifyInput carries everything the episode classifier considers.
type ClassifyInput struct {
	Episode bangumi.Episode
	// Subject is the episode's parent catalog record; may be nil when the
	// fetch failed.
	Subject *bangumi.Subject
	// HeuristicSpecial is the folder-layout special detection result.
	HeuristicSpecial bool
	// RequestedSeason is the season the host asked for: 0 requests the
	// specials bucket, negative means unknown.
	RequestedSeason int
	// ParentIsSeason is true when the resolved parent item is a season
	// container; ParentSeasonIndex is its index then.
	ParentIsSeason    bool
	ParentSeasonIndex int
}

// Classification is the classifier's verdict on season placement.
type Classification struct {
	SeasonNumber int
	// Special is set when the episode lands in the specials bucket. Such
	// episodes also carry a before/after placement relative to a season.
	Special          bool
	AirsBeforeSeason int // 0 when unset
	AirsAfterSeason  int // 0 when unset
	// EnrichFromSubject asks the assembler to fill empty title/overview
	// fields from the parent subject, common for extras without dedicated
	// metadata.
	EnrichFromSubject bool
}

// Classify decides an episode's season placement.
func Classify(in ClassifyInput) Classification {
	season := 1
	if in.RequestedSeason >= 0 {
		season = in.RequestedSeason
	}

	switch {
	case in.HeuristicSpecial,
		in.Episode.Type == bangumi.EpisodeTypeSpecial,
		in.RequestedSeason == 0:
		season = 0
	case in.ParentIsSeason:
		season = in.ParentSeasonIndex
	}

	if in.Episode.Type == bangumi.EpisodeTypeNormal && season > 0 {
		return Classification{SeasonNumber: season}
	}

	// Still ambiguous: openings, endings, previews and everything else
	// land in the specials bucket.
	c := Classification{
		SeasonNumber:      0,
		Special:           true,
		EnrichFromSubject: true,
	}

	// Without the subject there is nothing to place the special against.
	if in.Subject == nil {
		return c
	}

	inferred := 1
	if in.ParentIsSeason {
		inferred = in.ParentSeasonIndex
	}

	// Lexical comparison works for the catalog's ISO-ish date strings.
	if in.Episode.AirDate != "" &&
		strings.Compare(in.Episode.AirDate, in.Subject.AirDate) < 0 {
		c.AirsBeforeSeason = inferred
	} else {
		c.AirsAfterSeason = inferred
	}

	return c
}

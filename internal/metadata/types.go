package metadata

// SeasonMeta is the assembled metadata for a resolved season.
type SeasonMeta struct {
	ID             int
	Name           string
	OriginalName   string
	Overview       string
	Tags           []string
	Genres         []string
	Rating         float64
	AirDate        string
	EndDate        string
	ProductionYear int
	OfficialSite   string
	OfficialRating string // "X" for NSFW subjects
	Persons        []PersonMeta
}

// PersonMeta is one staff member or character credit on a season.
type PersonMeta struct {
	ID   int
	Name string
	Role string
	Kind string // "person" or "character"
	// Actor is the voice actor for character credits.
	Actor string
}

// Person kinds.
const (
	PersonKindStaff     = "person"
	PersonKindCharacter = "character"
)

// EpisodeMeta is the assembled metadata for a resolved episode.
type EpisodeMeta struct {
	ID             int
	SubjectID      int
	Name           string
	OriginalName   string
	Overview       string
	Index          int // display ordinal: truncated order plus override offset
	SeasonNumber   int
	AirDate        string
	ProductionYear int

	// Specials placement relative to a season; 0 when unset.
	AirsBeforeSeason int
	AirsAfterSeason  int
}

// Package bangumi provides a client for the Bangumi (bgm.tv) catalog API.
package bangumi

// SubjectType identifies the kind of catalog subject.
type SubjectType int

// Subject types as defined by the catalog API.
const (
	SubjectTypeBook  SubjectType = 1
	SubjectTypeAnime SubjectType = 2
	SubjectTypeMusic SubjectType = 3
	SubjectTypeGame  SubjectType = 4
	SubjectTypeReal  SubjectType = 6
)

// EpisodeType identifies the kind of catalog episode.
type EpisodeType int

const (
	EpisodeTypeNormal  EpisodeType = 0
	EpisodeTypeSpecial EpisodeType = 1
	EpisodeTypeOpening EpisodeType = 2
	EpisodeTypeEnding  EpisodeType = 3
	EpisodeTypePreview EpisodeType = 4
	EpisodeTypeOther   EpisodeType = 6
)

// Subject represents a catalog-level work (series or season).
type Subject struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`          // translated display name
	OriginalName   string   `json:"original_name"` // original-language name
	Summary        string   `json:"summary"`
	AirDate        string   `json:"air_date"` // YYYY-MM-DD, may be year-only
	EndDate        string   `json:"end_date"`
	ProductionYear string   `json:"production_year"`
	Tags           []string `json:"tags"`
	Genres         []string `json:"genres"`
	RatingScore    float64  `json:"rating_score"`
	NSFW           bool     `json:"nsfw"`
	OfficialSite   string   `json:"official_site"`
}

// Episode represents a single catalog episode belonging to a Subject.
// Order may be fractional for extras (e.g. 13.5); display code truncates it.
type Episode struct {
	ID           int         `json:"id"`
	SubjectID    int         `json:"subject_id"`
	Type         EpisodeType `json:"type"`
	Order        float64     `json:"order"`
	Name         string      `json:"name"`
	OriginalName string      `json:"original_name"`
	AirDate      string      `json:"air_date"`
	Description  string      `json:"description"`
}

// RelatedPerson associates a staff member with a subject.
type RelatedPerson struct {
	ID           int    `json:"id"`
	SubjectID    int    `json:"subject_id"`
	Name         string `json:"name"`
	OriginalName string `json:"original_name"`
	Relation     string `json:"relation"` // role, e.g. "导演" / "Director"
}

// RelatedCharacter associates a character (and its voice actor) with a subject.
type RelatedCharacter struct {
	ID           int    `json:"id"`
	SubjectID    int    `json:"subject_id"`
	Name         string `json:"name"`
	OriginalName string `json:"original_name"`
	Relation     string `json:"relation"` // e.g. "主角" / "配角"
	ActorName    string `json:"actor_name"`
}

// SearchCandidate is a search result paired with a 0-100 similarity score.
type SearchCandidate struct {
	Subject Subject `json:"subject"`
	Score   int     `json:"score"`
}

// subjectResponse is the raw subject API response.
type subjectResponse struct {
	ID       int    `json:"id"`
	Type     int    `json:"type"`
	Name     string `json:"name"`
	NameCN   string `json:"name_cn"`
	Summary  string `json:"summary"`
	Date     string `json:"date"`
	Platform string `json:"platform"`
	NSFW     bool   `json:"nsfw"`
	Rating   struct {
		Score float64 `json:"score"`
	} `json:"rating"`
	Tags []struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	} `json:"tags"`
	MetaTags []string `json:"meta_tags"`
	Infobox  []struct {
		Key   string `json:"key"`
		Value any    `json:"value"`
	} `json:"infobox"`
}

// searchResponse is the raw search API response.
type searchResponse struct {
	Total int               `json:"results"`
	List  []subjectResponse `json:"list"`
}

// episodesResponse is the raw paginated episode list response.
type episodesResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Data   []struct {
		ID          int     `json:"id"`
		SubjectID   int     `json:"subject_id"`
		Type        int     `json:"type"`
		Sort        float64 `json:"sort"`
		Name        string  `json:"name"`
		NameCN      string  `json:"name_cn"`
		AirDate     string  `json:"airdate"`
		Description string  `json:"desc"`
	} `json:"data"`
}

// relatedSubjectResponse is one entry of the related-subjects response.
type relatedSubjectResponse struct {
	ID       int    `json:"id"`
	Type     int    `json:"type"`
	Name     string `json:"name"`
	NameCN   string `json:"name_cn"`
	Relation string `json:"relation"`
}

// personsResponse is one entry of the subject-persons response.
type personsResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	NameCN   string `json:"name_cn"`
	Relation string `json:"relation"`
}

// charactersResponse is one entry of the subject-characters response.
type charactersResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	NameCN   string `json:"name_cn"`
	Relation string `json:"relation"`
	Actors   []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"actors"`
}

package bangumi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/width"
)

const defaultBaseURL = "https://api.bgm.tv"

// defaultUserAgent follows the catalog's API guidelines, which require an
// identifying user agent for all clients.
const defaultUserAgent = "vmunix/animeta"

// Sentinel errors for catalog API responses.
var (
	ErrNotFound    = errors.New("subject not found")
	ErrRateLimited = errors.New("rate limited: too many requests")
)

// Client is a Bangumi API client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "bangumi")
	}
}

// WithUserAgent sets the user agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a new Bangumi API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doRequest performs a GET request against the API.
func (c *Client) doRequest(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// checkResponse maps HTTP status codes to sentinel errors.
func (c *Client) checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("bangumi API error: %s", resp.Status)
	}
}

// GetSubject fetches a subject by catalog id.
// Returns ErrNotFound if the subject does not exist.
func (c *Client) GetSubject(ctx context.Context, id int) (*Subject, error) {
	start := time.Now()

	resp, err := c.doRequest(ctx, fmt.Sprintf("/v0/subjects/%d", id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		if c.log != nil && errors.Is(err, ErrNotFound) {
			c.log.Debug("subject not found", "id", id)
		}
		return nil, err
	}

	var raw subjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode subject response: %w", err)
	}

	subject := toSubject(raw)

	if c.log != nil {
		c.log.Debug("fetched subject", "id", id, "name", subject.Name, "duration_ms", time.Since(start).Milliseconds())
	}

	return &subject, nil
}

// SearchSubjects searches the catalog and returns results in the API's order.
func (c *Client) SearchSubjects(ctx context.Context, keyword string, typ SubjectType) ([]Subject, error) {
	start := time.Now()

	endpoint := fmt.Sprintf("/search/subject/%s?type=%d&responseGroup=large&max_results=25",
		url.PathEscape(keyword), typ)
	resp, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The search endpoint reports an empty result set as 404.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	subjects := make([]Subject, 0, len(raw.List))
	for _, item := range raw.List {
		subjects = append(subjects, toSubject(item))
	}

	if c.log != nil {
		c.log.Debug("search completed", "keyword", keyword, "results", len(subjects), "duration_ms", time.Since(start).Milliseconds())
	}

	return subjects, nil
}

// SearchSubjectsRanked searches the catalog and ranks results by similarity
// to the keyword. Scores are 0-100, best first; ties keep the API's order.
func (c *Client) SearchSubjectsRanked(ctx context.Context, keyword string, typ SubjectType) ([]SearchCandidate, error) {
	subjects, err := c.SearchSubjects(ctx, keyword, typ)
	if err != nil {
		return nil, err
	}

	candidates := make([]SearchCandidate, 0, len(subjects))
	for _, s := range subjects {
		candidates = append(candidates, SearchCandidate{
			Subject: s,
			Score:   similarityScore(keyword, s),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// GetNextSubject asks the catalog for the season chronologically following
// the given subject, via the sequel relation.
// Returns ErrNotFound when the subject has no sequel.
func (c *Client) GetNextSubject(ctx context.Context, previousID int) (*Subject, error) {
	resp, err := c.doRequest(ctx, fmt.Sprintf("/v0/subjects/%d/subjects", previousID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var related []relatedSubjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&related); err != nil {
		return nil, fmt.Errorf("decode related subjects response: %w", err)
	}

	for _, r := range related {
		if r.Relation != "续集" {
			continue
		}
		if c.log != nil {
			c.log.Debug("found sequel", "previous_id", previousID, "sequel_id", r.ID)
		}
		return c.GetSubject(ctx, r.ID)
	}
	return nil, ErrNotFound
}

// GetEpisodes fetches all episodes for a subject, handling pagination.
func (c *Client) GetEpisodes(ctx context.Context, subjectID int) ([]Episode, error) {
	start := time.Now()

	const pageSize = 100
	var all []Episode
	offset := 0

	for {
		endpoint := fmt.Sprintf("/v0/episodes?subject_id=%d&limit=%d&offset=%d", subjectID, pageSize, offset)
		resp, err := c.doRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		if err := c.checkResponse(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}

		var raw episodesResponse
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("decode episodes response: %w", err)
		}
		resp.Body.Close()

		for _, ep := range raw.Data {
			all = append(all, Episode{
				ID:           ep.ID,
				SubjectID:    ep.SubjectID,
				Type:         EpisodeType(ep.Type),
				Order:        ep.Sort,
				Name:         ep.NameCN,
				OriginalName: ep.Name,
				AirDate:      ep.AirDate,
				Description:  ep.Description,
			})
		}

		offset += len(raw.Data)
		if len(raw.Data) == 0 || offset >= raw.Total {
			break
		}

		// Safety limit to prevent infinite loops
		if offset > 10000 {
			if c.log != nil {
				c.log.Warn("hit pagination limit", "subject_id", subjectID, "offset", offset)
			}
			break
		}
	}

	if c.log != nil {
		c.log.Debug("fetched episodes", "subject_id", subjectID, "count", len(all), "duration_ms", time.Since(start).Milliseconds())
	}

	return all, nil
}

// GetSubjectPersons fetches staff associated with a subject.
func (c *Client) GetSubjectPersons(ctx context.Context, subjectID int) ([]RelatedPerson, error) {
	resp, err := c.doRequest(ctx, fmt.Sprintf("/v0/subjects/%d/persons", subjectID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var raw []personsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode persons response: %w", err)
	}

	persons := make([]RelatedPerson, 0, len(raw))
	for _, p := range raw {
		persons = append(persons, RelatedPerson{
			ID:           p.ID,
			SubjectID:    subjectID,
			Name:         firstNonEmpty(p.NameCN, p.Name),
			OriginalName: p.Name,
			Relation:     p.Relation,
		})
	}
	return persons, nil
}

// GetSubjectCharacters fetches characters associated with a subject.
func (c *Client) GetSubjectCharacters(ctx context.Context, subjectID int) ([]RelatedCharacter, error) {
	resp, err := c.doRequest(ctx, fmt.Sprintf("/v0/subjects/%d/characters", subjectID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var raw []charactersResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode characters response: %w", err)
	}

	characters := make([]RelatedCharacter, 0, len(raw))
	for _, ch := range raw {
		rc := RelatedCharacter{
			ID:           ch.ID,
			SubjectID:    subjectID,
			Name:         firstNonEmpty(ch.NameCN, ch.Name),
			OriginalName: ch.Name,
			Relation:     ch.Relation,
		}
		if len(ch.Actors) > 0 {
			rc.ActorName = ch.Actors[0].Name
		}
		characters = append(characters, rc)
	}
	return characters, nil
}

// similarityScore computes a 0-100 similarity between the search keyword and
// a subject, taking the best score over both the display and original names.
// Jaro-Winkler favors shared prefixes, which suits series titles.
func similarityScore(keyword string, s Subject) int {
	norm := normalizeForMatch(keyword)
	best := float32(0)
	for _, name := range []string{s.Name, s.OriginalName} {
		if name == "" {
			continue
		}
		if score := edlib.JaroWinklerSimilarity(norm, normalizeForMatch(name)); score > best {
			best = score
		}
	}
	return int(best * 100)
}

// normalizeForMatch folds full-width characters to their narrow forms and
// lowercases, so CJK release names and catalog names compare consistently.
func normalizeForMatch(s string) string {
	return strings.ToLower(strings.TrimSpace(width.Fold.String(s)))
}

func toSubject(raw subjectResponse) Subject {
	s := Subject{
		ID:           raw.ID,
		Name:         firstNonEmpty(raw.NameCN, raw.Name),
		OriginalName: raw.Name,
		Summary:      raw.Summary,
		AirDate:      raw.Date,
		RatingScore:  raw.Rating.Score,
		NSFW:         raw.NSFW,
		Genres:       raw.MetaTags,
	}

	if len(raw.Date) >= 4 {
		s.ProductionYear = raw.Date[:4]
	}

	for _, t := range raw.Tags {
		s.Tags = append(s.Tags, t.Name)
	}

	for _, f := range raw.Infobox {
		v, ok := f.Value.(string)
		if !ok {
			continue
		}
		switch f.Key {
		case "官方网站":
			s.OfficialSite = v
		case "播放结束", "放送结束":
			s.EndDate = v
		}
	}

	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package resolver

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/moistari/rls"
)

// EpisodeParser extracts an episode ordinal from a file name. Variants are
// selected once per request; both are stateless.
type EpisodeParser interface {
	// Name identifies the parser in logs.
	Name() string
	// ParseEpisodeNumber returns the episode ordinal, which may be
	// fractional for extras, and whether one was found.
	ParseEpisodeNumber(fileName string) (float64, bool)
}

// SelectParser picks the parser variant for a request.
func SelectParser(useTokenizer bool) EpisodeParser {
	if useTokenizer {
		return TokenizerParser{}
	}
	return BasicParser{}
}

// BasicParser recognizes the episode-number notations common in anime
// release names, preferring explicit markers over bare numbers.
type BasicParser struct{}

// Ordered by reliability: explicit markers first, bracketed ordinals next,
// a bare number last.
var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:\bS\d{1,2}E|\bEP?\.?\s*|第)(\d{1,4}(?:\.\d)?)(?:[话話集]|\b)`),
	regexp.MustCompile(`\[(\d{1,4}(?:\.\d)?)(?:v\d)?\]`),
	regexp.MustCompile(`(?:\s|_)-(?:\s|_)(\d{1,4}(?:\.\d)?)(?:\s|_|$)`),
	regexp.MustCompile(`\b(\d{1,4}(?:\.\d)?)\b`),
}

func (BasicParser) Name() string { return "basic" }

func (BasicParser) ParseEpisodeNumber(fileName string) (float64, bool) {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	// Strip leading release-group tag so "[Group] 01 ..." doesn't read the
	// group name as an ordinal.
	name = strings.TrimSpace(leadingGroupPattern.ReplaceAllString(name, ""))

	for _, pattern := range episodePatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		order, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		// Bare four-digit numbers are usually years or resolutions.
		if len(m[1]) == 4 && !strings.Contains(m[1], ".") && order >= 1900 {
			continue
		}
		return order, true
	}
	return 0, false
}

var leadingGroupPattern = regexp.MustCompile(`^\s*(\[[^\]]*\]|【[^】]*】)`)

// TokenizerParser delegates to the rls release-name tokenizer, which handles
// scene-style names (S01E05, 1x05) that the basic heuristics may misread.
type TokenizerParser struct{}

func (TokenizerParser) Name() string { return "tokenizer" }

func (TokenizerParser) ParseEpisodeNumber(fileName string) (float64, bool) {
	release := rls.ParseString(fileName)
	if release.Episode > 0 {
		return float64(release.Episode), true
	}
	// The tokenizer does not understand CJK markers; fall back.
	return BasicParser{}.ParseEpisodeNumber(fileName)
}

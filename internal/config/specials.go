package config

import (
	"regexp"
	"strings"
)

// NormalizePatterns trims a newline-separated pattern list, dropping blank lines.
func NormalizePatterns(patterns string) string {
	if strings.TrimSpace(patterns) == "" {
		return ""
	}

	lines := strings.Split(patterns, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// MatchSpecialExcludes reports whether input matches any pattern in the
// newline-separated case-insensitive regex list. A pattern that fails to
// compile is reported through failed (if non-nil) and skipped, so one bad
// user pattern never aborts the whole match pass.
func MatchSpecialExcludes(patterns, input string, failed func(pattern string, err error)) bool {
	for _, pattern := range strings.Split(patterns, "\n") {
		if pattern == "" {
			continue
		}

		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			if failed != nil {
				failed(pattern, err)
			}
			continue
		}
		if re.MatchString(input) {
			return true
		}
	}
	return false
}

// Package resolver turns local folder and file names into catalog subject
// ids, trying successively weaker signals until one sticks.
package resolver

import "strings"

// bracketPairs maps opening brackets to their closing counterpart, covering
// the half- and full-width styles common in release-group folder names.
var bracketPairs = map[rune]rune{
	'[': ']',
	'(': ')',
	'【': '】',
	'（': '）',
}

func isClosingBracket(c rune) bool {
	for _, close := range bracketPairs {
		if c == close {
			return true
		}
	}
	return false
}

// ExtractSeriesName isolates the probable series name from a folder or file
// name. A non-bracketed top-level segment wins immediately ("Name [tags]");
// for fully bracketed names the first group is usually the release-group tag,
// so the second top-level bracket group is preferred. Never fails: degenerate
// input falls back to the trimmed input itself.
func ExtractSeriesName(rawName string) string {
	var groups []string
	var stack []rune
	var buf strings.Builder

	for _, c := range rawName {
		if _, ok := bracketPairs[c]; ok {
			if len(stack) == 0 {
				segment := strings.TrimSpace(buf.String())
				if segment != "" {
					return segment
				}
				buf.Reset()
			}
			stack = append(stack, c)
		} else if isClosingBracket(c) {
			if len(stack) > 0 && c == bracketPairs[stack[len(stack)-1]] {
				stack = stack[:len(stack)-1]

				// Outermost bracket closed: record the whole group.
				if len(stack) == 0 {
					buf.WriteRune(c)
					groups = append(groups, buf.String())
					buf.Reset()
					continue
				}
			}
			// Mismatched closing brackets are folded in as plain text.
		}

		buf.WriteRune(c)
	}

	if len(groups) > 1 {
		return groups[1]
	}
	if len(groups) == 1 {
		return groups[0]
	}
	return strings.TrimSpace(rawName)
}

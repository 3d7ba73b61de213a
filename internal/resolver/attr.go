package resolver

import (
	"regexp"
	"strings"
)

// attrPattern matches one [key=value] attribute group in a folder name.
var attrPattern = regexp.MustCompile(`\[([^\[\]=]+)=([^\[\]]+)\]`)

// AttributeValue extracts the value of a [key=value] marker embedded in a
// folder or file name, e.g. "Show Name [bangumi=123456]". Returns "" when
// the key is absent. Key comparison is case-insensitive.
func AttributeValue(name, key string) string {
	for _, m := range attrPattern.FindAllStringSubmatch(name, -1) {
		if strings.EqualFold(strings.TrimSpace(m[1]), key) {
			return strings.TrimSpace(m[2])
		}
	}
	return ""
}

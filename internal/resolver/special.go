package resolver

import (
	"path/filepath"

	"github.com/vmunix/animeta/internal/config"
)

// IsSpecial reports whether the folder layout marks the file as a special or
// extra rather than a normal episode: the full path, the containing folder
// name, or the file name matches the configured exclusion lists. Invalid
// patterns are reported through failed and skipped.
func IsSpecial(path string, specials config.SpecialsConfig, failed func(pattern string, err error)) bool {
	fileName := filepath.Base(path)
	folderName := filepath.Base(filepath.Dir(path))

	if specials.ExcludeFullPath != "" &&
		config.MatchSpecialExcludes(specials.ExcludeFullPath, path, failed) {
		return true
	}
	if config.MatchSpecialExcludes(specials.ExcludeFolderName, folderName, failed) {
		return true
	}
	return config.MatchSpecialExcludes(specials.ExcludeFileName, fileName, failed)
}

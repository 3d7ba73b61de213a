package config

import (
	"fmt"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validPreferences = map[string]bool{
	PreferTranslated: true, PreferOriginal: true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Sprintf("log_level: must be one of debug, info, warn, error; got %q", c.LogLevel))
	}

	if !validPreferences[c.Metadata.TranslationPreference] {
		errs = append(errs, fmt.Sprintf("metadata.translation_preference: must be %q or %q; got %q",
			PreferTranslated, PreferOriginal, c.Metadata.TranslationPreference))
	}
	if !validPreferences[c.Metadata.PersonTranslationPreference] {
		errs = append(errs, fmt.Sprintf("metadata.person_translation_preference: must be %q or %q; got %q",
			PreferTranslated, PreferOriginal, c.Metadata.PersonTranslationPreference))
	}

	if c.Archive.DaysBeforeArchiveData < 0 {
		errs = append(errs, fmt.Sprintf("archive.days_before_archive_data: must not be negative, got %d", c.Archive.DaysBeforeArchiveData))
	}
	if c.Archive.RatingUpdateMinInterval < 0 {
		errs = append(errs, fmt.Sprintf("archive.rating_update_min_interval: must not be negative, got %d", c.Archive.RatingUpdateMinInterval))
	}
	if c.Catalog.RequestTimeout < 0 {
		errs = append(errs, "catalog.request_timeout: must not be negative")
	}

	return errs
}

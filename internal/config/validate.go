package config

import (
	"fmt"
	"strings"
)

// ValidationError holds details about a configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, "  - "+e.Error())
	}
	return fmt.Sprintf("validation failed with %d error(s):\n%s", len(errs), strings.Join(msgs, "\n"))
}

// HasErrors returns true if there are any validation errors.
func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// Validate checks a config for errors and returns detailed validation
// errors. Paths are assumed to have defaults applied already.
func Validate(cfg *Config) ValidationErrors {
	var errs ValidationErrors

	if cfg.Collector.Interpreter == "" {
		errs = append(errs, ValidationError{
			Field:   "collector.interpreter",
			Message: "interpreter path is required",
		})
	}
	if cfg.Collector.Script == "" {
		errs = append(errs, ValidationError{
			Field:   "collector.script",
			Message: "script path is required",
		})
	}
	if cfg.LockPath == cfg.LogPath {
		errs = append(errs, ValidationError{
			Field:   "lock_path",
			Message: fmt.Sprintf("lock path and log path must differ (both %q)", cfg.LockPath),
		})
	}

	return errs
}

// ValidateConfig is a convenience function returning a single error.
func ValidateConfig(cfg *Config) error {
	errs := Validate(cfg)
	if errs.HasErrors() {
		return errs
	}
	return nil
}

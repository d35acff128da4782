package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// compileOverrides validates and compiles the override patterns. domain is
// the walk root's components below the match base, so overrides are matched
// relative to the walk root. One malformed pattern fails the whole set.
func compileOverrides(domain []string, patterns []string) ([]gitignore.Pattern, error) {
	domain = append([]string(nil), domain...)

	compiled := make([]gitignore.Pattern, 0, len(patterns))
	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}

		if err := validatePattern(strings.TrimPrefix(pattern, "!")); err != nil {
			return nil, &PatternError{Source: "override", Pattern: raw, Err: err}
		}
		compiled = append(compiled, gitignore.ParsePattern(pattern, domain))
	}
	return compiled, nil
}

// validatePattern rejects empty bodies and glob segments filepath.Match
// cannot parse.
func validatePattern(body string) error {
	trimmed := strings.Trim(body, "/")
	if trimmed == "" || strings.HasPrefix(body, "#") {
		return fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if segment == "**" {
			continue
		}
		if _, err := filepath.Match(segment, ""); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
	}
	return nil
}

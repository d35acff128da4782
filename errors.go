package main

import (
	"errors"
	"fmt"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
)

var (
	// ErrInvalidPattern indicates an override pattern that cannot be compiled
	ErrInvalidPattern = errors.New("invalid ignore pattern")

	// ErrUnknownSortAttribute indicates a sort_by value other than modified or created
	ErrUnknownSortAttribute = errors.New("unknown sort attribute")

	// ErrUnknownFallback indicates a stat_fallback value other than epoch or now
	ErrUnknownFallback = errors.New("unknown stat fallback")
)

// PatternError reports a pattern that failed to compile and where it came from.
type PatternError struct {
	Source  string // Where the pattern was read from (flag, config, file path)
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s: pattern %q: %v", e.Source, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// PathError represents an error related to a specific path
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: <nil>", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

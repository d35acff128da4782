package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const defaultIgnoreFileName = ".sortfsignore"

// Options is the decoded configuration of one invocation, after defaults,
// config file, environment and flags have been merged by viper.
type Options struct {
	Target   string // target directory as typed, "." when absent
	Leftover string // literal fragment for completion queries

	DirsOnly     bool
	FullPath     bool
	Color        bool
	PrefixTarget bool
	MaxDepth     int // negative means unbounded
	SortBy       SortAttribute

	NoHidden       bool
	Follow         bool
	NoIgnore       bool
	Excludes       []string
	IgnoreFileName string

	Threads      int
	StatFallback FallbackPolicy

	OutputFile  string
	Clipboard   bool
	Interactive bool

	LogLevel string
}

// optionsFromViper reads every key the root command binds. Lenient keys
// (max_depth, sort_by) degrade with a warning collected in warnings.
func optionsFromViper(v *viper.Viper, args []string) (Options, []string) {
	var warnings []string

	opts := Options{
		Target:         ".",
		DirsOnly:       v.GetBool("dirs_only"),
		FullPath:       v.GetBool("full_path"),
		Color:          v.GetBool("color"),
		PrefixTarget:   v.GetBool("prefix_target"),
		NoHidden:       v.GetBool("no_hidden"),
		Follow:         v.GetBool("follow"),
		NoIgnore:       v.GetBool("no_ignore"),
		Excludes:       v.GetStringSlice("exclude"),
		IgnoreFileName: v.GetString("ignore_file_name"),
		Threads:        v.GetInt("threads"),
		StatFallback:   FallbackPolicy(strings.ToLower(strings.TrimSpace(v.GetString("stat_fallback")))),
		OutputFile:     v.GetString("file"),
		Clipboard:      v.GetBool("clipboard"),
		Interactive:    v.GetBool("interactive"),
		LogLevel:       v.GetString("log_level"),
	}
	if v.GetBool("verbose") {
		opts.LogLevel = "debug"
	}

	if len(args) > 0 && args[0] != "" {
		opts.Target = args[0]
	}
	if len(args) > 1 {
		opts.Leftover = args[1]
	}

	if limit := maxThreads(); opts.Threads > limit {
		warnings = append(warnings, fmt.Sprintf("reducing threads from %d to %d", opts.Threads, limit))
		opts.Threads = limit
	}

	depth, err := parseMaxDepth(v.GetString("max_depth"))
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("ignoring max depth: %v", err))
	}
	opts.MaxDepth = depth

	switch attr := SortAttribute(strings.ToLower(strings.TrimSpace(v.GetString("sort_by")))); attr {
	case SortByModified, SortByCreated:
		opts.SortBy = attr
	case "":
		opts.SortBy = SortByModified
	default:
		warnings = append(warnings, fmt.Sprintf("%v %q, sorting by modified", ErrUnknownSortAttribute, attr))
		opts.SortBy = SortByModified
	}

	return opts, warnings
}

// parseMaxDepth accepts a non-negative integer. Empty means unbounded;
// anything else invalid also means unbounded but is reported.
func parseMaxDepth(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1, fmt.Errorf("invalid value %q", raw)
	}
	if n < 0 {
		return -1, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}

// Validate rejects settings that must abort the run before traversal.
func (o Options) Validate() error {
	switch o.StatFallback {
	case FallbackEpoch, FallbackNow, "":
	default:
		return fmt.Errorf("%w: %q (want epoch or now)", ErrUnknownFallback, o.StatFallback)
	}
	for _, p := range o.Excludes {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := validatePattern(strings.TrimPrefix(strings.TrimSpace(p), "!")); err != nil {
			return &PatternError{Source: "exclude", Pattern: p, Err: err}
		}
	}
	return nil
}

// workers returns the configured pool size, or the default.
func (o Options) workers() int {
	if o.Threads > 0 {
		return o.Threads
	}
	return defaultWorkers()
}

// walkConfig derives the traversal settings for root.
func (o Options) walkConfig(root string) WalkConfig {
	return WalkConfig{
		Root:           root,
		DirsOnly:       o.DirsOnly,
		MaxDepth:       o.MaxDepth,
		HiddenVisible:  !o.NoHidden,
		FollowSymlinks: o.Follow,
		Leftover:       o.Leftover,
		Workers:        o.workers(),
	}
}

// renderConfig derives the output settings for root.
func (o Options) renderConfig(root string, styles StyleLookup) RenderConfig {
	return RenderConfig{
		Root:         root,
		Target:       o.Target,
		FullPath:     o.FullPath,
		PrefixTarget: o.PrefixTarget && !o.FullPath,
		Color:        o.Color,
		Styles:       styles,
	}
}

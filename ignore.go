package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const (
	gitDirName    = ".git"
	vcsIgnoreFile = ".gitignore"
)

// Tier is the precedence class of a rule source. Higher tiers win.
type Tier int

const (
	TierRepoExclude Tier = iota
	TierGlobal
	TierVCS
	TierCustom
	TierOverride
)

func (t Tier) String() string {
	switch t {
	case TierRepoExclude:
		return "repo-exclude"
	case TierGlobal:
		return "global"
	case TierVCS:
		return "vcs"
	case TierCustom:
		return "custom"
	case TierOverride:
		return "override"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// RuleSource is one ignore file or pattern list, tagged with its tier.
type RuleSource struct {
	Tier     Tier
	Origin   string
	Patterns []gitignore.Pattern
}

func (s RuleSource) String() string {
	return fmt.Sprintf("%d %s patterns from %s", len(s.Patterns), s.Tier, s.Origin)
}

// match returns the verdict of the last pattern in the source that matches.
func (s RuleSource) match(path []string, isDir bool) gitignore.MatchResult {
	for i := len(s.Patterns) - 1; i >= 0; i-- {
		if r := s.Patterns[i].Match(path, isDir); r != gitignore.NoMatch {
			return r
		}
	}
	return gitignore.NoMatch
}

// RuleSet is ordered from lowest to highest precedence.
type RuleSet []RuleSource

// mergeTiers orders sources by tier. Sources of the same tier keep their
// input order, so a deeper directory's file listed after its parent's wins.
func mergeTiers(sources ...RuleSource) RuleSet {
	set := make(RuleSet, 0, len(sources))
	for _, s := range sources {
		if len(s.Patterns) > 0 {
			set = append(set, s)
		}
	}
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Tier < set[j].Tier
	})
	return set
}

// Match walks the set from the highest precedence source down and returns
// the first decisive verdict. A re-include in a higher tier therefore beats
// an exclusion in a lower one.
func (rs RuleSet) Match(path []string, isDir bool) gitignore.MatchResult {
	for i := len(rs) - 1; i >= 0; i-- {
		if r := rs[i].match(path, isDir); r != gitignore.NoMatch {
			return r
		}
	}
	return gitignore.NoMatch
}

// DirRules is the merged rule set in effect inside one directory. It is never
// modified after creation and is shared by all descendants without a file of
// their own.
type DirRules struct {
	set RuleSet
}

// IgnoreConfig configures an IgnoreEngine for one walk root.
type IgnoreConfig struct {
	Root           string // walk root as given
	RepoRoot       string // worktree root, empty outside a repository
	FS             billy.Filesystem
	HiddenVisible  bool
	NoIgnore       bool
	CustomFileName string
	Overrides      []string
	Global         []gitignore.Pattern
	Log            *Logger
}

// IgnoreEngine decides whether a candidate is excluded. Match paths are
// relative to the repository root when there is one, else to the walk root.
type IgnoreEngine struct {
	fs             billy.Filesystem
	base           string
	rootAbs        string
	rootRel        []string
	hiddenVisible  bool
	noIgnore       bool
	customFileName string
	rootRules      *DirRules
	log            *Logger
}

// NewIgnoreEngine compiles override patterns and loads every rule source that
// is known before traversal: the repository exclude file, the global
// patterns and the ignore files from the repository root down to the walk root.
func NewIgnoreEngine(cfg IgnoreConfig) (*IgnoreEngine, error) {
	rootAbs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, &PathError{Op: "resolve", Path: cfg.Root, Err: err}
	}

	e := &IgnoreEngine{
		fs:             cfg.FS,
		base:           rootAbs,
		rootAbs:        rootAbs,
		hiddenVisible:  cfg.HiddenVisible,
		noIgnore:       cfg.NoIgnore,
		customFileName: cfg.CustomFileName,
		log:            cfg.Log,
	}

	if cfg.RepoRoot != "" {
		if rel, ok := relComponents(cfg.RepoRoot, rootAbs); ok {
			e.base = filepath.Clean(cfg.RepoRoot)
			e.rootRel = rel
		} else {
			e.log.Debugf("walk root %s is outside repository %s, ignoring repository rules", rootAbs, cfg.RepoRoot)
			cfg.RepoRoot = ""
		}
	}

	overrides, err := compileOverrides(e.rootRel, cfg.Overrides)
	if err != nil {
		return nil, err
	}
	sources := []RuleSource{{Tier: TierOverride, Origin: "override", Patterns: overrides}}

	if !e.noIgnore {
		sources = append(sources, RuleSource{Tier: TierGlobal, Origin: "global", Patterns: cfg.Global})

		if cfg.RepoRoot != "" && e.fs != nil {
			excludePath := filepath.Join(e.base, gitDirName, "info", "exclude")
			ps, err := readPatternFile(e.fs, excludePath, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to read repository exclude file: %w", err)
			}
			sources = append(sources, RuleSource{Tier: TierRepoExclude, Origin: excludePath, Patterns: ps})
		}
	}

	rules := &DirRules{set: mergeTiers(sources...)}
	for _, src := range rules.set {
		e.log.Tracef("%s", src)
	}
	// Ancestors between the repository root and the walk root, then the root itself.
	for i := 0; i <= len(e.rootRel); i++ {
		rules, err = e.load(rules, e.rootRel[:i])
		if err != nil {
			return nil, err
		}
	}
	e.rootRules = rules

	return e, nil
}

// RootRules returns the rules in effect inside the walk root.
func (e *IgnoreEngine) RootRules() *DirRules {
	return e.rootRules
}

// Enter returns the rules for the directory at rel (components below the
// walk root). A broken ignore file is logged and skipped.
func (e *IgnoreEngine) Enter(parent *DirRules, rel []string) *DirRules {
	rules, err := e.load(parent, e.matchPath(rel))
	if err != nil {
		e.log.Debugf("skipping ignore rules: %v", err)
		return parent
	}
	return rules
}

// ShouldExclude reports whether the candidate is excluded under rules, the
// rule set of the directory that contains it.
func (e *IgnoreEngine) ShouldExclude(rules *DirRules, c Candidate) bool {
	if hasGitComponent(c.Path) {
		return true
	}
	if c.Depth == 0 {
		return false
	}
	if !e.hiddenVisible && isHidden(c.Name) {
		return true
	}
	if rules == nil {
		return false
	}
	return rules.set.Match(e.matchPath(c.Rel), c.IsDir()) == gitignore.Exclude
}

// load reads the ignore files of the directory at matchPath and returns the
// rules for it. parent is returned unchanged when the directory has none.
func (e *IgnoreEngine) load(parent *DirRules, matchPath []string) (*DirRules, error) {
	if e.noIgnore || e.fs == nil {
		return parent, nil
	}

	dir := filepath.Join(append([]string{e.base}, matchPath...)...)
	domain := append([]string(nil), matchPath...)

	var added []RuleSource
	files := []struct {
		tier Tier
		name string
	}{
		{TierVCS, vcsIgnoreFile},
		{TierCustom, e.customFileName},
	}
	for _, f := range files {
		if f.name == "" {
			continue
		}
		path := filepath.Join(dir, f.name)
		ps, err := readPatternFile(e.fs, path, domain)
		if err != nil {
			return parent, err
		}
		if len(ps) > 0 {
			src := RuleSource{Tier: f.tier, Origin: path, Patterns: ps}
			e.log.Tracef("%s", src)
			added = append(added, src)
		}
	}
	if len(added) == 0 {
		return parent, nil
	}

	sources := make([]RuleSource, 0, len(parent.set)+len(added))
	sources = append(sources, parent.set...)
	sources = append(sources, added...)
	return &DirRules{set: mergeTiers(sources...)}, nil
}

func (e *IgnoreEngine) matchPath(rel []string) []string {
	if len(e.rootRel) == 0 {
		return rel
	}
	path := make([]string, 0, len(e.rootRel)+len(rel))
	path = append(path, e.rootRel...)
	return append(path, rel...)
}

// readPatternFile parses a gitignore-syntax file. A missing file yields no
// patterns and no error.
func readPatternFile(fs billy.Filesystem, path string, domain []string) ([]gitignore.Pattern, error) {
	f, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &PathError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	var ps []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := trimPatternLine(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, domain))
	}
	if err := scanner.Err(); err != nil {
		return nil, &PathError{Op: "read", Path: path, Err: err}
	}
	return ps, nil
}

// trimPatternLine drops CR and unescaped trailing spaces.
func trimPatternLine(line string) string {
	line = strings.TrimSuffix(line, "\r")
	for strings.HasSuffix(line, " ") && !strings.HasSuffix(line, "\\ ") {
		line = strings.TrimSuffix(line, " ")
	}
	if strings.TrimSpace(line) == "" {
		return ""
	}
	return line
}

// relComponents returns the components of target below base.
func relComponents(base, target string) ([]string, bool) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return nil, false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return nil, true
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, false
	}
	return strings.Split(rel, "/"), true
}

// hasGitComponent reports whether any component of path is exactly ".git".
func hasGitComponent(path string) bool {
	for _, part := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if part == gitDirName {
			return true
		}
	}
	return false
}

// isHidden checks if a file name is hidden (starts with '.').
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return len(name) > 0 && name[0] == '.'
}

package main

import "strings"

// symlinkDepthLimit caps traversal when symlinks are followed without an
// explicit depth cutoff.
const symlinkDepthLimit = 64

// Candidate is a filesystem object the walker is about to emit or descend into.
type Candidate struct {
	Path  string   // display path, prefixed with the walk root as given
	Rel   []string // components below the walk root
	Name  string
	Type  FileType
	Depth int
}

func (c Candidate) IsDir() bool {
	return c.Type == FileTypeDirectory
}

// Excluder is the part of IgnoreEngine the predicate depends on.
type Excluder interface {
	ShouldExclude(rules *DirRules, c Candidate) bool
}

// Predicate combines ignore rules with the structural filters of one run.
type Predicate struct {
	excluder Excluder
	dirsOnly bool
	maxDepth int    // negative means unbounded
	root     string // walk root as given
	prefix   string // root joined with the leftover fragment; empty disables the filter
}

// NewPredicate builds the predicate for cfg. excluder may be nil.
func NewPredicate(cfg WalkConfig, excluder Excluder) *Predicate {
	maxDepth := cfg.MaxDepth
	if cfg.Unbounded() && cfg.FollowSymlinks {
		maxDepth = symlinkDepthLimit
	}
	return &Predicate{
		excluder: excluder,
		dirsOnly: cfg.DirsOnly,
		maxDepth: maxDepth,
		root:     cfg.Root,
		prefix:   leftoverPrefix(cfg.Root, cfg.Leftover),
	}
}

// leftoverPrefix joins root and fragment textually, the same way the walker
// joins root and entry names.
func leftoverPrefix(root, leftover string) string {
	if leftover == "" {
		return ""
	}
	return joinPath(root, leftover)
}

// Accept reports whether c is emitted.
func (p *Predicate) Accept(rules *DirRules, c Candidate) bool {
	if p.maxDepth >= 0 && c.Depth > p.maxDepth {
		return false
	}
	if p.dirsOnly && !c.IsDir() {
		return false
	}
	if p.prefix != "" {
		if c.Path == p.root || trimSeparators(c.Path) == trimSeparators(p.root) {
			return false
		}
		if !strings.HasPrefix(c.Path, p.prefix) {
			return false
		}
	}
	return !p.excluded(rules, c)
}

// Descend reports whether the children of directory c are visited. An
// excluded directory prunes its whole subtree.
func (p *Predicate) Descend(rules *DirRules, c Candidate) bool {
	if !c.IsDir() {
		return false
	}
	if p.maxDepth >= 0 && c.Depth >= p.maxDepth {
		return false
	}
	if p.prefix != "" && c.Depth > 0 {
		// Keep going while either side can still extend into the other.
		if !strings.HasPrefix(c.Path, p.prefix) && !strings.HasPrefix(p.prefix, c.Path+"/") {
			return false
		}
	}
	return !p.excluded(rules, c)
}

func (p *Predicate) excluded(rules *DirRules, c Candidate) bool {
	return p.excluder != nil && p.excluder.ShouldExclude(rules, c)
}

// joinPath appends name to dir without cleaning dir, so "./src" stays "./src/x".
func joinPath(dir, name string) string {
	trimmed := trimSeparators(dir)
	return trimmed + "/" + name
}

// trimSeparators drops trailing separators from a path, keeping "" for "/".
func trimSeparators(path string) string {
	return strings.TrimRight(path, "/")
}

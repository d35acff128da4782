package main

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Processor runs one listing: walk, resolve timestamps, sort, render.
type Processor struct {
	opts   Options
	log    *Logger
	fs     billy.Filesystem
	styles StyleLookup
}

// NewProcessor creates a Processor reading ignore files from the host filesystem.
func NewProcessor(opts Options, log *Logger) *Processor {
	p := &Processor{
		opts: opts,
		log:  log,
		fs:   osfs.New("/"),
	}
	if opts.Color {
		if t := loadStyles(log); !t.Empty() {
			p.styles = t
		}
	}
	return p
}

// Lines returns the rendered, recency-ordered output lines. Errors are
// configuration failures raised before any traversal.
func (p *Processor) Lines() ([]string, error) {
	entries, root, err := p.Collect()
	if err != nil {
		return nil, err
	}

	r := NewRenderer(p.opts.renderConfig(root, p.styles))
	lines := make([]string, 0, len(entries))
	for _, te := range entries {
		if line, ok := r.Render(te.Entry); ok {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Collect walks the target and returns the sorted pairs together with the
// root the entry paths start with.
func (p *Processor) Collect() ([]TimestampedEntry, string, error) {
	if err := p.opts.Validate(); err != nil {
		return nil, "", err
	}

	root, err := p.walkRoot()
	if err != nil {
		return nil, "", err
	}

	resolver, err := NewMetadataResolver(p.opts.SortBy, p.opts.StatFallback, p.opts.Follow)
	if err != nil {
		return nil, "", err
	}
	p.log.Debugf("sorting by %s, unreadable entries get timestamp %d", p.opts.SortBy, resolver.Fallback())

	engine, err := p.ignoreEngine(root)
	if err != nil {
		return nil, "", err
	}

	cfg := p.opts.walkConfig(root)
	walker := NewWalker(cfg, NewPredicate(cfg, engine), engine, p.log)

	var collector Collector
	walker.Walk(func(e Entry) {
		collector.Add(TimestampedEntry{Entry: e, Timestamp: resolver.Resolve(e)})
	})
	p.log.Debugf("collected %d entries under %s", collector.Len(), root)

	return collector.Sorted(cfg.Workers), root, nil
}

// walkRoot is the target as typed, or its canonical form in full-path mode.
func (p *Processor) walkRoot() (string, error) {
	if !p.opts.FullPath {
		return p.opts.Target, nil
	}
	abs, err := filepath.Abs(p.opts.Target)
	if err != nil {
		return "", &PathError{Op: "canonicalize", Path: p.opts.Target, Err: err}
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &PathError{Op: "canonicalize", Path: p.opts.Target, Err: err}
	}
	return canonical, nil
}

func (p *Processor) ignoreEngine(root string) (*IgnoreEngine, error) {
	cfg := IgnoreConfig{
		Root:           root,
		FS:             p.fs,
		HiddenVisible:  !p.opts.NoHidden,
		NoIgnore:       p.opts.NoIgnore,
		CustomFileName: p.opts.IgnoreFileName,
		Overrides:      p.opts.Excludes,
		Log:            p.log,
	}

	if !p.opts.NoIgnore {
		repoRoot, err := findRepository(root)
		if err != nil {
			p.log.Debugf("no repository rules: %v", err)
		}
		cfg.RepoRoot = repoRoot

		var global []gitignore.Pattern
		global, err = loadGlobalPatterns(p.fs)
		if err != nil {
			return nil, fmt.Errorf("failed to build ignore rules: %w", err)
		}
		cfg.Global = global
	}

	engine, err := NewIgnoreEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build ignore rules: %w", err)
	}
	return engine, nil
}

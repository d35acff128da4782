package main

import (
	"strings"

	"github.com/fatih/color"
)

// StyleLookup maps one path component to a display style; nil means unstyled.
type StyleLookup interface {
	Style(name string, typ FileType) *color.Color
}

// RenderConfig selects how entries are printed.
type RenderConfig struct {
	Root         string // walk root the entry paths start with
	Target       string // target directory exactly as the user typed it
	FullPath     bool   // wins over PrefixTarget
	PrefixTarget bool
	Color        bool
	Styles       StyleLookup
}

// Renderer maps entries to output lines.
type Renderer struct {
	cfg  RenderConfig
	root string
}

func NewRenderer(cfg RenderConfig) *Renderer {
	return &Renderer{cfg: cfg, root: trimSeparators(cfg.Root)}
}

// Render returns the output line for e. The walk root itself, and anything
// not longer than it, yields ok == false.
func (r *Renderer) Render(e Entry) (string, bool) {
	if e.Depth == 0 || len(e.Path) <= len(r.root) {
		return "", false
	}

	var path string
	switch {
	case r.cfg.FullPath:
		path = e.Path
	case r.cfg.PrefixTarget:
		path = joinPath(r.cfg.Target, e.Path[len(r.root)+1:])
	default:
		path = e.Path[len(r.root)+1:]
	}

	line := path
	if r.cfg.Color && r.cfg.Styles != nil {
		line = r.colorize(path, e.Type)
	}
	if e.PointsToDir() && path != "/" {
		line += "/"
	}
	return line, true
}

// colorize styles each component; the last one is styled by the entry's
// own type, the ones before it as directories.
func (r *Renderer) colorize(path string, typ FileType) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" || part == "." || part == ".." {
			continue
		}
		partType := FileTypeDirectory
		if i == len(parts)-1 {
			partType = typ
		}
		if style := r.cfg.Styles.Style(part, partType); style != nil {
			parts[i] = style.Sprint(part)
		}
	}
	return strings.Join(parts, "/")
}

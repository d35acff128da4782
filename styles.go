package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// lsColorsEnv names the environment variable holding the color table.
const lsColorsEnv = "LS_COLORS"

// StyleFile is the YAML form of a style table, used when LS_COLORS is unset.
// Values are SGR sequences as in LS_COLORS, e.g. "01;34".
type StyleFile struct {
	Types      map[string]string `yaml:"types"`      // di, ln, fi, pi, so, bd, cd
	Extensions map[string]string `yaml:"extensions"` // ".go" or "go"
	Filenames  map[string]string `yaml:"filenames"`  // exact base names, e.g. "Makefile"
}

// StyleTable maps path components to display styles by type, file name and suffix.
type StyleTable struct {
	types     map[FileType]*color.Color
	filenames map[string]*color.Color
	suffixes  map[string]*color.Color // lowercased
	maxSuffix int
}

func newStyleTable() *StyleTable {
	return &StyleTable{
		types:     make(map[FileType]*color.Color),
		filenames: make(map[string]*color.Color),
		suffixes:  make(map[string]*color.Color),
	}
}

// typeKeys lists the LS_COLORS keys understood for each FileType, in order
// of preference.
var typeKeys = map[string]FileType{
	"di": FileTypeDirectory,
	"ln": FileTypeSymlink,
	"fi": FileTypeFile,
	"pi": FileTypeOther,
	"so": FileTypeOther,
	"bd": FileTypeOther,
	"cd": FileTypeOther,
}

// ParseLSColors parses a dircolors-style table ("di=01;34:*.go=00;32").
// Entries it cannot parse are skipped.
func ParseLSColors(colors string) *StyleTable {
	t := newStyleTable()
	for _, field := range strings.Split(colors, ":") {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			continue
		}
		style := parseSGR(value)
		if style == nil {
			continue
		}
		if strings.HasPrefix(key, "*") {
			t.addSuffix(strings.TrimPrefix(key, "*"), style)
			continue
		}
		t.addType(key, style)
	}
	return t
}

func (t *StyleTable) addType(key string, style *color.Color) {
	ft, ok := typeKeys[key]
	if !ok {
		return
	}
	// The first of pi/so/bd/cd wins for FileTypeOther.
	if _, exists := t.types[ft]; exists && ft == FileTypeOther {
		return
	}
	t.types[ft] = style
}

func (t *StyleTable) addSuffix(suffix string, style *color.Color) {
	if suffix == "" {
		return
	}
	suffix = strings.ToLower(suffix)
	t.suffixes[suffix] = style
	if len(suffix) > t.maxSuffix {
		t.maxSuffix = len(suffix)
	}
}

// parseSGR turns "01;34" into a color. All-zero or malformed sequences yield nil.
func parseSGR(value string) *color.Color {
	var attrs []color.Attribute
	styled := false
	for _, part := range strings.Split(value, ";") {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil
		}
		if n != 0 {
			styled = true
		}
		attrs = append(attrs, color.Attribute(n))
	}
	if !styled {
		return nil
	}
	c := color.New(attrs...)
	// Styling was asked for explicitly; do not let TTY detection undo it.
	c.EnableColor()
	return c
}

// Style returns the style for one path component, or nil for none.
// Directories and symlinks are styled by type; everything else by exact
// name, then longest suffix, then type.
func (t *StyleTable) Style(name string, typ FileType) *color.Color {
	if t == nil {
		return nil
	}
	if typ == FileTypeDirectory || typ == FileTypeSymlink {
		return t.types[typ]
	}
	if c, ok := t.filenames[name]; ok {
		return c
	}
	if c := t.matchSuffix(strings.ToLower(name)); c != nil {
		return c
	}
	return t.types[typ]
}

func (t *StyleTable) matchSuffix(name string) *color.Color {
	limit := t.maxSuffix
	if limit > len(name) {
		limit = len(name)
	}
	for n := limit; n > 0; n-- {
		if c, ok := t.suffixes[name[len(name)-n:]]; ok {
			return c
		}
	}
	return nil
}

// Empty reports whether the table styles nothing.
func (t *StyleTable) Empty() bool {
	return t == nil || (len(t.types) == 0 && len(t.filenames) == 0 && len(t.suffixes) == 0)
}

// fromStyleFile converts the YAML form into a table.
func fromStyleFile(sf StyleFile) *StyleTable {
	t := newStyleTable()
	for key, value := range sf.Types {
		if style := parseSGR(value); style != nil {
			t.addType(key, style)
		}
	}
	for ext, value := range sf.Extensions {
		if style := parseSGR(value); style != nil {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			t.addSuffix(ext, style)
		}
	}
	for name, value := range sf.Filenames {
		if style := parseSGR(value); style != nil {
			t.filenames[name] = style
		}
	}
	return t
}

// styleFilePaths lists where styles.yml is looked up.
func styleFilePaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "sortfs", "styles.yml"))
	}
	return append(paths, "styles.yml")
}

// loadStyleFile reads and parses a styles.yml.
func loadStyleFile(path string) (*StyleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading style file %s: %w", path, err)
	}
	var sf StyleFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("error parsing style file %s: %w", path, err)
	}
	return fromStyleFile(sf), nil
}

// loadStyles builds the style table from LS_COLORS, or from the first
// styles.yml found when the variable is unset. It returns nil when neither
// exists; a broken style file is reported and treated as absent.
func loadStyles(log *Logger) *StyleTable {
	if env, ok := os.LookupEnv(lsColorsEnv); ok {
		return ParseLSColors(env)
	}
	for _, path := range styleFilePaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		t, err := loadStyleFile(path)
		if err != nil {
			log.Warnf("%v", err)
			return nil
		}
		log.Debugf("loaded styles from %s", path)
		return t
	}
	return nil
}

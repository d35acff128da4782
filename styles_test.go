package main

import (
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// styled renders s with c, or returns s unchanged for a nil style.
func styled(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// sgr builds the color a parsed table entry is expected to hold.
func sgr(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

func TestParseLSColors(t *testing.T) {
	table := ParseLSColors("di=01;34:ln=01;36:fi=0:pi=33:so=35:*.go=00;32:*.gz=01;35:*.tar.gz=01;31:bogus:*=1:xx=7:*.bad=1;z")

	tests := []struct {
		name string
		typ  FileType
		want *color.Color
	}{
		{"src", FileTypeDirectory, sgr(color.Bold, color.FgBlue)},
		{"src.go", FileTypeDirectory, sgr(color.Bold, color.FgBlue)},
		{"link", FileTypeSymlink, sgr(color.Bold, color.FgCyan)},
		{"main.go", FileTypeFile, sgr(color.Reset, color.FgGreen)},
		{"a.TAR.GZ", FileTypeFile, sgr(color.Bold, color.FgRed)},
		{"a.gz", FileTypeFile, sgr(color.Bold, color.FgMagenta)},
		{"fifo", FileTypeOther, sgr(color.FgYellow)},
		{"plain", FileTypeFile, nil},
		{"x.bad", FileTypeFile, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, styled(tt.want, tt.name), styled(table.Style(tt.name, tt.typ), tt.name))
		})
	}
}

func TestParseSGR(t *testing.T) {
	assert.Nil(t, parseSGR(""))
	assert.Nil(t, parseSGR("0"))
	assert.Nil(t, parseSGR("00;0"))
	assert.Nil(t, parseSGR("01;x"))
	assert.Nil(t, parseSGR("-1"))
	assert.NotNil(t, parseSGR("38;5;208"))
}

func TestStyleTableEmpty(t *testing.T) {
	var nilTable *StyleTable
	assert.True(t, nilTable.Empty())
	assert.Nil(t, nilTable.Style("a", FileTypeFile))
	assert.True(t, ParseLSColors("").Empty())
	assert.True(t, ParseLSColors("fi=0").Empty())
	assert.False(t, ParseLSColors("di=34").Empty())
}

func TestLoadStyleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yml")
	writeFile(t, path, `types:
  di: "01;34"
extensions:
  go: "32"
  ".md": "33"
filenames:
  Makefile: "31"
`)

	table, err := loadStyleFile(path)
	require.NoError(t, err)

	assert.Equal(t, sgr(color.Bold, color.FgBlue).Sprint("d"), styled(table.Style("d", FileTypeDirectory), "d"))
	assert.Equal(t, sgr(color.FgGreen).Sprint("x.go"), styled(table.Style("x.go", FileTypeFile), "x.go"))
	assert.Equal(t, sgr(color.FgYellow).Sprint("README.md"), styled(table.Style("README.md", FileTypeFile), "README.md"))
	assert.Equal(t, sgr(color.FgRed).Sprint("Makefile"), styled(table.Style("Makefile", FileTypeFile), "Makefile"))
}

func TestLoadStyleFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadStyleFile(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yml")
	writeFile(t, bad, "types: [unclosed")
	_, err = loadStyleFile(bad)
	assert.ErrorContains(t, err, "error parsing style file")
}

func TestLoadStylesPrefersLSColors(t *testing.T) {
	t.Setenv(lsColorsEnv, "di=01;34")
	table := loadStyles(nil)
	require.NotNil(t, table)
	assert.NotNil(t, table.Style("d", FileTypeDirectory))
}

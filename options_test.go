package main

import (
	"io"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseOptions runs flag parsing on a fresh root command and decodes the result.
func parseOptions(t *testing.T, flags []string, args []string) (Options, []string) {
	t.Helper()
	v := viper.New()
	cmd := newRootCmd(v, io.Discard, io.Discard)
	require.NoError(t, cmd.ParseFlags(flags))
	return optionsFromViper(v, args)
}

func TestOptionsDefaults(t *testing.T) {
	opts, warnings := parseOptions(t, nil, nil)

	assert.Empty(t, warnings)
	assert.Equal(t, ".", opts.Target)
	assert.Empty(t, opts.Leftover)
	assert.Equal(t, -1, opts.MaxDepth)
	assert.Equal(t, SortByModified, opts.SortBy)
	assert.Equal(t, FallbackEpoch, opts.StatFallback)
	assert.Equal(t, defaultIgnoreFileName, opts.IgnoreFileName)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.False(t, opts.NoHidden)
	assert.NoError(t, opts.Validate())
}

func TestOptionsFromFlags(t *testing.T) {
	opts, warnings := parseOptions(t, []string{
		"-d", "--max-depth", "3", "-s", "created", "--no-hidden", "-L",
		"-e", "*.tmp,!keep.tmp", "-e", "build/", "--full-path", "-t", "2", "-v",
	}, []string{"src", "ma"})

	assert.Empty(t, warnings)
	assert.Equal(t, "src", opts.Target)
	assert.Equal(t, "ma", opts.Leftover)
	assert.True(t, opts.DirsOnly)
	assert.Equal(t, 3, opts.MaxDepth)
	assert.Equal(t, SortByCreated, opts.SortBy)
	assert.True(t, opts.NoHidden)
	assert.True(t, opts.Follow)
	assert.Equal(t, []string{"*.tmp", "!keep.tmp", "build/"}, opts.Excludes)
	assert.True(t, opts.FullPath)
	assert.Equal(t, 2, opts.workers())
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestOptionsLenientValues(t *testing.T) {
	opts, warnings := parseOptions(t, []string{"--max-depth", "deep", "--sort-by", "size"}, nil)

	assert.Len(t, warnings, 2)
	assert.Equal(t, -1, opts.MaxDepth)
	assert.Equal(t, SortByModified, opts.SortBy)
}

func TestOptionsClampThreads(t *testing.T) {
	opts, warnings := parseOptions(t, []string{"-t", "100000"}, nil)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "reducing threads")
	assert.Equal(t, maxThreads(), opts.Threads)
	assert.Equal(t, maxThreads(), opts.workers())

	opts, warnings = parseOptions(t, []string{"-t", "1"}, nil)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, opts.workers())
}

func TestOptionsFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SORTFS_DIRS_ONLY", "true")
	t.Setenv("SORTFS_SORT_BY", "created")

	v := viper.New()
	cmd := newRootCmd(v, io.Discard, io.Discard)
	require.NoError(t, cmd.ParseFlags(nil))
	_, err := initConfig(v, "")
	require.NoError(t, err)

	opts, _ := optionsFromViper(v, nil)
	assert.True(t, opts.DirsOnly)
	assert.Equal(t, SortByCreated, opts.SortBy)
}

func TestParseMaxDepth(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", -1, false},
		{" 0 ", 0, false},
		{"12", 12, false},
		{"-2", -1, true},
		{"x", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseMaxDepth(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	err := Options{StatFallback: "sometimes"}.Validate()
	assert.ErrorIs(t, err, ErrUnknownFallback)

	err = Options{StatFallback: FallbackNow, Excludes: []string{"ok", "!bad["}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidPattern)

	assert.NoError(t, Options{Excludes: []string{"", "  ", "!*.log"}}.Validate())
}

func TestRenderConfigFullPathWins(t *testing.T) {
	cfg := Options{Target: "x", FullPath: true, PrefixTarget: true}.renderConfig("/abs/x", nil)
	assert.True(t, cfg.FullPath)
	assert.False(t, cfg.PrefixTarget)

	cfg = Options{Target: "x", PrefixTarget: true}.renderConfig("x", nil)
	assert.True(t, cfg.PrefixTarget)
}

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// makeTree creates files and directories (names ending in "/") under root
// and then sets each one's mtime to the given seconds since the epoch.
// Times are applied after everything exists, so creating children does not
// disturb a parent's mtime.
func makeTree(t *testing.T, root string, mtimes map[string]int64) {
	t.Helper()

	for name := range mtimes {
		path := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("test content"), 0644))
	}

	for name, sec := range mtimes {
		path := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(name, "/")))
		ts := time.Unix(sec, 0)
		require.NoError(t, os.Chtimes(path, ts, ts))
	}
}

// writeFile creates a file with content, making parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// candidate builds a Candidate for rel (slash-separated) below root.
func candidate(root, rel string, typ FileType) Candidate {
	if rel == "" {
		return Candidate{Path: root, Name: filepath.Base(root), Type: typ}
	}
	parts := strings.Split(rel, "/")
	return Candidate{
		Path:  joinPath(root, rel),
		Rel:   parts,
		Name:  parts[len(parts)-1],
		Type:  typ,
		Depth: len(parts),
	}
}

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingWriter accepts limit bytes and then fails.
type failingWriter struct {
	limit   int
	written int
}

var errClosedPipe = errors.New("closed pipe")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.limit {
		return 0, errClosedPipe
	}
	w.written += len(p)
	return len(p), nil
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLines(&buf, []string{"y/", "x.txt"}))
	assert.Equal(t, "y/\nx.txt\n", buf.String())

	buf.Reset()
	require.NoError(t, writeLines(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestWriteLinesReportsFailure(t *testing.T) {
	lines := make([]string, 10000)
	for i := range lines {
		lines[i] = "some/long/enough/path"
	}
	err := writeLines(&failingWriter{limit: 100}, lines)
	assert.ErrorIs(t, err, errClosedPipe)
}

func TestDeliverToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	var stdout bytes.Buffer

	require.NoError(t, deliver(Options{OutputFile: path}, []string{"a", "b/"}, &stdout, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb/\n", string(data))
	assert.Empty(t, stdout.String())
}

func TestDeliverToFileFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.txt")
	err := deliver(Options{OutputFile: path}, []string{"a"}, &bytes.Buffer{}, nil)

	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "create", pe.Op)
}

func TestDeliverToStdoutFailure(t *testing.T) {
	err := deliver(Options{}, []string{"a"}, &failingWriter{}, nil)
	assert.ErrorIs(t, err, errClosedPipe)
}

func TestSelectInOrder(t *testing.T) {
	lines := []string{"newest", "middle", "oldest"}
	assert.Equal(t, []string{"newest", "oldest"}, selectInOrder(lines, []int{2, 0}))
	assert.Empty(t, selectInOrder(lines, nil))
}

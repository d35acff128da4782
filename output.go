package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// writeLines writes one line per entry. It stops at the first failed write.
func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// deliver sends the lines to the configured destination: a file, the
// clipboard, or stdout. A failed clipboard copy falls back to stdout.
func deliver(opts Options, lines []string, stdout io.Writer, log *Logger) error {
	switch {
	case opts.OutputFile != "":
		f, err := os.Create(opts.OutputFile)
		if err != nil {
			return &PathError{Op: "create", Path: opts.OutputFile, Err: err}
		}
		if err := writeLines(f, lines); err != nil {
			f.Close()
			return &PathError{Op: "write", Path: opts.OutputFile, Err: err}
		}
		if err := f.Close(); err != nil {
			return &PathError{Op: "close", Path: opts.OutputFile, Err: err}
		}
		log.Infof("output saved to %s", opts.OutputFile)
		return nil

	case opts.Clipboard:
		var b strings.Builder
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		if err := clipboard.WriteAll(b.String()); err != nil {
			log.Warnf("error writing to clipboard: %v", err)
			break
		}
		log.Infof("output copied to clipboard")
		return nil
	}

	if err := writeLines(stdout, lines); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// pickLines lets the user pick lines from the sorted listing. The returned
// lines keep listing order. A nil result with a nil error means the user aborted.
func pickLines(lines []string) ([]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	idx, err := fuzzyfinder.FindMulti(
		lines,
		func(i int) string {
			return lines[i]
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Press Tab to multi-select, Enter to confirm."
			}
			return fmt.Sprintf("#%d by recency\n%s", i+1, lines[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	return selectInOrder(lines, idx), nil
}

// selectInOrder returns lines[i] for every i in idx, ordered by i.
func selectInOrder(lines []string, idx []int) []string {
	chosen := make(map[int]bool, len(idx))
	for _, i := range idx {
		chosen[i] = true
	}
	selected := make([]string, 0, len(idx))
	for i, line := range lines {
		if chosen[i] {
			selected = append(selected, line)
		}
	}
	return selected
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// findRepository returns the worktree root of the repository containing
// path, or "" when path is not inside a non-bare repository.
func findRepository(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open worktree at %s: %w", path, err)
	}
	return wt.Filesystem.Root(), nil
}

// loadGlobalPatterns collects the system and user exclude patterns. When
// core.excludesfile is unset, git's default location under XDG_CONFIG_HOME is
// read instead.
func loadGlobalPatterns(fs billy.Filesystem) ([]gitignore.Pattern, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory means no user config to read.
		return nil, nil
	}

	system, err := gitignore.LoadSystemPatterns(fs)
	if err != nil {
		return nil, fmt.Errorf("failed to load system git excludes: %w", err)
	}

	global, err := gitignore.LoadGlobalPatterns(fs)
	if err != nil {
		return nil, fmt.Errorf("failed to load global git excludes: %w", err)
	}

	if len(global) == 0 {
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			configHome = filepath.Join(home, ".config")
		}
		global, err = readPatternFile(fs, filepath.Join(configHome, "git", "ignore"), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load global git excludes: %w", err)
		}
	}

	return append(system, global...), nil
}

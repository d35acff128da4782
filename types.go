package main

import "io/fs"

// FileType is the resolved kind of a walked entry.
type FileType uint8

const (
	FileTypeUnknown FileType = iota
	FileTypeFile
	FileTypeDirectory
	FileTypeSymlink
	FileTypeOther
)

func (t FileType) String() string {
	switch t {
	case FileTypeFile:
		return "file"
	case FileTypeDirectory:
		return "directory"
	case FileTypeSymlink:
		return "symlink"
	case FileTypeOther:
		return "other"
	default:
		return "unknown"
	}
}

// fileTypeFromMode maps the type bits of a fs.FileMode to a FileType.
func fileTypeFromMode(mode fs.FileMode) FileType {
	switch {
	case mode.IsRegular():
		return FileTypeFile
	case mode.IsDir():
		return FileTypeDirectory
	case mode&fs.ModeSymlink != 0:
		return FileTypeSymlink
	default:
		return FileTypeOther
	}
}

// Entry is one accepted filesystem object. Path is built from the walk root
// as given, so it is absolute only when the root is.
type Entry struct {
	Path    string
	Type    FileType
	Depth   int
	LinkDir bool // unfollowed symlink whose target is a directory
}

// IsDir reports whether the entry resolved to a directory.
func (e Entry) IsDir() bool {
	return e.Type == FileTypeDirectory
}

// PointsToDir reports whether the entry is a directory or a link to one.
func (e Entry) PointsToDir() bool {
	return e.IsDir() || e.LinkDir
}

// TimestampedEntry pairs an entry with the seconds-since-epoch value it is sorted by.
type TimestampedEntry struct {
	Entry     Entry
	Timestamp int64
}

// SortAttribute selects which timestamp the metadata resolver reads.
type SortAttribute string

const (
	SortByModified SortAttribute = "modified"
	SortByCreated  SortAttribute = "created"
)

// FallbackPolicy decides the timestamp used when stat fails.
type FallbackPolicy string

const (
	// FallbackEpoch sorts failures to the very bottom.
	FallbackEpoch FallbackPolicy = "epoch"
	// FallbackNow sorts failures to the top, next to the freshest entries.
	FallbackNow FallbackPolicy = "now"
)

// WalkConfig holds everything the traversal needs. It is read-only once the walk starts.
type WalkConfig struct {
	Root           string
	DirsOnly       bool
	MaxDepth       int // negative means unbounded
	HiddenVisible  bool
	FollowSymlinks bool
	Leftover       string // literal fragment appended to Root for completion queries
	Workers        int
}

// Unbounded reports whether no depth cutoff is configured.
func (c WalkConfig) Unbounded() bool {
	return c.MaxDepth < 0
}

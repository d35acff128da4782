package main

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// errBirthTimeUnsupported is returned where the platform or filesystem does
// not record creation time.
var errBirthTimeUnsupported = errors.New("creation time not supported")

// MetadataResolver turns an entry into the timestamp it is sorted by.
type MetadataResolver struct {
	attr     SortAttribute
	follow   bool
	fallback int64
}

// NewMetadataResolver fixes the fallback value once, so every failure in a
// run gets the same timestamp.
func NewMetadataResolver(attr SortAttribute, policy FallbackPolicy, follow bool) (*MetadataResolver, error) {
	var fallback int64
	switch policy {
	case FallbackEpoch, "":
		fallback = 0
	case FallbackNow:
		fallback = time.Now().Unix()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFallback, policy)
	}

	switch attr {
	case SortByModified, SortByCreated:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortAttribute, attr)
	}

	return &MetadataResolver{attr: attr, follow: follow, fallback: fallback}, nil
}

// Fallback returns the timestamp substituted for failed lookups.
func (r *MetadataResolver) Fallback() int64 {
	return r.fallback
}

// Resolve returns the entry's timestamp in seconds since the epoch, or the
// fallback if it cannot be read.
func (r *MetadataResolver) Resolve(e Entry) int64 {
	ts, err := r.lookup(e)
	if err != nil {
		return r.fallback
	}
	return ts
}

func (r *MetadataResolver) lookup(e Entry) (int64, error) {
	// Follow the root and resolved links the same way the walker typed them.
	follow := r.follow || e.Depth == 0
	if r.attr == SortByCreated {
		return birthTime(e.Path, follow)
	}

	stat := os.Lstat
	if follow {
		stat = os.Stat
	}
	info, err := stat(e.Path)
	if err != nil {
		return 0, err
	}
	return info.ModTime().Unix(), nil
}

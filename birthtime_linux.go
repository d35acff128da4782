//go:build linux

package main

import "golang.org/x/sys/unix"

// birthTime reads btime through statx. Filesystems that do not report it
// leave STATX_BTIME out of the returned mask.
func birthTime(path string, follow bool) (int64, error) {
	flags := unix.AT_STATX_SYNC_AS_STAT
	if !follow {
		flags |= unix.AT_SYMLINK_NOFOLLOW
	}

	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, flags, unix.STATX_BTIME, &stx); err != nil {
		return 0, err
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return 0, errBirthTimeUnsupported
	}
	return stx.Btime.Sec, nil
}

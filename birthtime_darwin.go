//go:build darwin || freebsd || netbsd

package main

import (
	"os"
	"syscall"
)

func birthTime(path string, follow bool) (int64, error) {
	stat := os.Lstat
	if follow {
		stat = os.Stat
	}
	info, err := stat(path)
	if err != nil {
		return 0, err
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, errBirthTimeUnsupported
	}
	return int64(st.Birthtimespec.Sec), nil
}

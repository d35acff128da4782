//go:build windows

package main

import (
	"os"
	"syscall"
	"time"
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
	attr, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return 0, errBirthTimeUnsupported
	}
	return time.Unix(0, attr.CreationTime.Nanoseconds()).Unix(), nil
}

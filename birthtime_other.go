//go:build !linux && !darwin && !freebsd && !netbsd && !windows

package main

func birthTime(path string, follow bool) (int64, error) {
	return 0, errBirthTimeUnsupported
}

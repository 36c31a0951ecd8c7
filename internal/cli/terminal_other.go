//go:build !linux

package cli

import "os"

// IsTerminal reports whether f is a character device, which is the closest
// portable approximation of a terminal.
func IsTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

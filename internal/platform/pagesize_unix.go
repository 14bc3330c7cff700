//go:build unix

package platform

import (
	"golang.org/x/sys/unix"
)

// PageSize returns the host's virtual memory page size.
//
// On Unix systems this is getpagesize(2).
func PageSize() int {
	return unix.Getpagesize()
}

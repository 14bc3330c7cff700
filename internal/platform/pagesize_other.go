//go:build !unix

package platform

import "os"

// PageSize returns the host's virtual memory page size.
func PageSize() int {
	return os.Getpagesize()
}

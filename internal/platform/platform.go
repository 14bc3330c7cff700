// Package platform probes host memory parameters.
package platform

import "github.com/joshuapare/segalloc/internal/layout"

// PageShift returns log2 of the host page size.
func PageShift() int {
	return layout.Log2(PageSize())
}

// CompatiblePageShift reports whether an allocator page of 1<<shift bytes is
// a whole multiple of the host page, so that every allocator page can be
// mapped and released independently.
func CompatiblePageShift(shift int) bool {
	return shift >= PageShift()
}

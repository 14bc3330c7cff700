package sizemap

import "github.com/joshuapare/segalloc/internal/layout"

// Validate checks a size-class list against the geometry. len(infos) is the
// declared class count, class 0 included. With expanded classes only the
// first NumBaseClasses entries are examined.
//
// Returns *ValidationError describing the first violated invariant.
func Validate(g *Geometry, infos []Info) error {
	n := len(infos)
	if n <= 0 {
		return &ValidationError{Reason: ReasonCount, Index: -1, Value: n, Limit: 1}
	}
	if n > g.NumBaseClasses {
		// Only the cold register's classes may follow the base classes
		if !g.ExpandedClasses {
			return &ValidationError{Reason: ReasonCount, Index: -1, Value: n, Limit: g.NumBaseClasses}
		}
		n = g.NumBaseClasses
	}
	if infos[0] != (Info{}) {
		return &ValidationError{Reason: ReasonReserved, Index: 0, Value: infos[0].Size, Limit: 0}
	}

	for c := 1; c < n; c++ {
		size := infos[c].Size
		pages := infos[c].Pages
		toMove := infos[c].NumToMove

		// Each size class must be larger than the previous one
		if size <= infos[c-1].Size {
			return &ValidationError{Reason: ReasonNonIncreasing, Index: c, Value: size, Limit: infos[c-1].Size}
		}
		if size > g.MaxSize {
			return &ValidationError{Reason: ReasonTooBig, Index: c, Value: size, Limit: g.MaxSize}
		}
		if align := g.requiredAlignment(size); !layout.IsAligned(size, align) {
			return &ValidationError{Reason: ReasonMisaligned, Index: c, Value: size, Limit: align}
		}
		if size <= g.MultiPageSize && pages != 1 {
			return &ValidationError{Reason: ReasonMultiPage, Index: c, Value: pages, Limit: 1}
		}
		if pages <= 0 {
			return &ValidationError{Reason: ReasonNoPages, Index: c, Value: pages, Limit: 1}
		}
		if pages >= 256 {
			return &ValidationError{Reason: ReasonTooManyPages, Index: c, Value: pages, Limit: 255}
		}
		if toMove < 0 || toMove > g.MaxObjectsToMove {
			return &ValidationError{Reason: ReasonTooManyToMove, Index: c, Value: toMove, Limit: g.MaxObjectsToMove}
		}
	}

	// Last class must be MaxSize. Variants with fewer populated classes leave
	// a zero tail in the built table, so this checks the list, not the table.
	if last := infos[n-1].Size; last != g.MaxSize {
		return &ValidationError{Reason: ReasonLastNotMax, Index: n - 1, Value: last, Limit: g.MaxSize}
	}
	return nil
}

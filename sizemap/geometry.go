package sizemap

import (
	"fmt"

	"github.com/joshuapare/segalloc/internal/layout"
)

// Geometry holds the allocator constants that shape the size-class tables.
// Different geometries back different page sizes; the zero value is not usable.
type Geometry struct {
	// Name for this geometry (for diagnostics)
	Name string

	PageShift int // log2 of the allocator page size

	// Alignment tiers
	Alignment          int // Base alignment for sizes <= MultiPageSize
	MultiPageSize      int // Classes at or below this must use exactly one page
	MultiPageAlignment int // Alignment for sizes in (MultiPageSize, MaxSmallSize]
	MaxSmallSize       int // Upper bound of the fine-grained lookup tier

	MaxSize int // Largest size served through size classes

	NumBaseClasses  int  // Classes per register, including class 0
	ExpandedClasses bool // Second register for cold memory

	MaxObjectsToMove int // Upper bound for a class's transfer batch
	SpanCacheSize    int // Objects per span above which a class can't go cold
}

// DefaultGeometry returns the 8 KiB-page geometry with cold-memory registers.
func DefaultGeometry() Geometry {
	return Geometry{
		Name:               "8KiB",
		PageShift:          13,
		Alignment:          8,
		MultiPageSize:      512,
		MultiPageAlignment: 64,
		MaxSmallSize:       1024,
		MaxSize:            256 << 10,
		NumBaseClasses:     86,
		ExpandedClasses:    true,
		MaxObjectsToMove:   128,
		SpanCacheSize:      4,
	}
}

// SmallPageGeometry returns the 4 KiB-page geometry. It has no cold register.
func SmallPageGeometry() Geometry {
	return Geometry{
		Name:               "4KiB",
		PageShift:          12,
		Alignment:          8,
		MultiPageSize:      512,
		MultiPageAlignment: 64,
		MaxSmallSize:       1024,
		MaxSize:            8 << 10,
		NumBaseClasses:     46,
		ExpandedClasses:    false,
		MaxObjectsToMove:   128,
		SpanCacheSize:      4,
	}
}

// PageSize returns the allocator page size in bytes.
func (g Geometry) PageSize() int { return 1 << g.PageShift }

// NumRegisters returns how many copies of the class table the tag scheme uses.
func (g Geometry) NumRegisters() int {
	if g.ExpandedClasses {
		return 2
	}
	return 1
}

// NumClasses returns the number of class ids across all registers.
func (g Geometry) NumClasses() int { return g.NumBaseClasses * g.NumRegisters() }

// ExpandedClassesStart returns the first class id of the cold register.
func (g Geometry) ExpandedClassesStart() int { return g.NumBaseClasses }

// largeOffset keeps ClassIndex continuous across the MaxSmallSize boundary.
func (g Geometry) largeOffset() int {
	return (g.MaxSmallSize/g.Alignment - g.MaxSmallSize/layout.LargeAlignment) << layout.LargeAlignmentShift
}

// ClassIndex maps a byte size to its slot in a lookup register.
// Sizes up to MaxSmallSize get one slot per Alignment bytes; larger sizes one
// slot per 128 bytes.
func (g Geometry) ClassIndex(s int) int {
	if s <= g.MaxSmallSize {
		return layout.Quantize(s, g.Alignment)
	}
	return (s + layout.LargeAlignmentMask + g.largeOffset()) >> layout.LargeAlignmentShift
}

// ClassArraySize returns the length of one lookup register.
func (g Geometry) ClassArraySize() int {
	return ((g.MaxSize + layout.LargeAlignmentMask + g.largeOffset()) >> layout.LargeAlignmentShift) + 1
}

// requiredAlignment returns the alignment tier a class of the given size must satisfy.
func (g Geometry) requiredAlignment(size int) int {
	switch {
	case size <= g.MultiPageSize:
		return g.Alignment
	case size <= g.MaxSmallSize:
		return g.MultiPageAlignment
	default:
		return layout.LargeAlignment
	}
}

// Validate checks that the geometry's constants are mutually consistent.
func (g Geometry) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrBadGeometry, g.Name, fmt.Sprintf(format, args...))
	}

	switch {
	case g.PageShift < 12 || g.PageShift > 18:
		return bad("page shift %d outside [12, 18]", g.PageShift)
	case !layout.IsPow2(g.Alignment) || g.Alignment > 16:
		return bad("alignment %d must be a power of two <= 16", g.Alignment)
	case !layout.IsPow2(g.MultiPageAlignment) || g.MultiPageAlignment < g.Alignment:
		return bad("multi-page alignment %d must be a power of two >= %d", g.MultiPageAlignment, g.Alignment)
	case g.MultiPageAlignment > layout.LargeAlignment:
		return bad("multi-page alignment %d exceeds %d", g.MultiPageAlignment, layout.LargeAlignment)
	case g.MaxSmallSize <= 0 || !layout.IsAligned(g.MaxSmallSize, layout.LargeAlignment):
		return bad("max small size %d must be a positive multiple of %d", g.MaxSmallSize, layout.LargeAlignment)
	case g.MultiPageSize <= 0 || g.MultiPageSize > g.MaxSmallSize:
		return bad("multi-page size %d outside (0, %d]", g.MultiPageSize, g.MaxSmallSize)
	case g.MaxSize <= 0 || !layout.IsAligned(g.MaxSize, g.requiredAlignment(g.MaxSize)):
		return bad("max size %d is not aligned to its tier", g.MaxSize)
	case g.NumBaseClasses < 2:
		return bad("need at least 2 base classes, have %d", g.NumBaseClasses)
	case g.NumClasses() > 256:
		return bad("%d classes don't fit a byte-wide class id", g.NumClasses())
	case g.MaxObjectsToMove <= 0 || g.MaxObjectsToMove > 255:
		return bad("max objects to move %d outside [1, 255]", g.MaxObjectsToMove)
	case g.SpanCacheSize <= 0:
		return bad("span cache size %d must be positive", g.SpanCacheSize)
	}
	return nil
}

package sizemap

import (
	"unsafe"

	"github.com/joshuapare/segalloc/internal/layout"
	"github.com/joshuapare/segalloc/internal/logger"
)

// MemoryTag identifies the region an address was carved from. The tag is
// stored in address bits [layout.TagShift, layout.TagShift+2).
type MemoryTag uint8

const (
	TagSampled  MemoryTag = 0x0
	TagNormal   MemoryTag = 0x1
	TagCold     MemoryTag = 0x2
	TagNormalP1 MemoryTag = 0x3
)

// String returns the tag's label. Tags outside the enumeration can't be
// produced by TagOf, so meeting one is an internal error.
func (t MemoryTag) String() string {
	switch t {
	case TagNormal:
		return "NORMAL"
	case TagNormalP1:
		return "NORMAL_P1"
	case TagSampled:
		return "SAMPLED"
	case TagCold:
		return "COLD"
	default:
		crash(logger.L, "unknown memory tag", "tag", uint8(t))
		return ""
	}
}

// TagOf extracts the memory tag from an address.
func TagOf(addr uint64) MemoryTag {
	return MemoryTag((addr & layout.TagMask) >> layout.TagShift)
}

// TagAddress returns addr moved into the region for tag.
func TagAddress(addr uint64, tag MemoryTag) uint64 {
	return (addr &^ layout.TagMask) | (uint64(tag)<<layout.TagShift)&layout.TagMask
}

// IsPossiblyColdAddr reports whether addr carries the cold tag. It is exact
// for addresses handed out by the allocator; foreign addresses may produce
// false positives but cold allocator memory never reports false.
func IsPossiblyColdAddr(addr uint64) bool {
	return TagOf(addr) == TagCold
}

// IsPossiblyColdMemory is IsPossiblyColdAddr for a pointer.
func IsPossiblyColdMemory(p unsafe.Pointer) bool {
	return IsPossiblyColdAddr(uint64(uintptr(p)))
}

package layout

// Coarse tier shared by every geometry: sizes above the small-size limit are
// quantized in 128-byte steps.
const (
	// LargeAlignment is the alignment required of classes above MaxSmallSize.
	LargeAlignment = 128

	// LargeAlignmentShift is log2(LargeAlignment).
	LargeAlignmentShift = 7

	// LargeAlignmentMask masks the low bits of a LargeAlignment multiple.
	LargeAlignmentMask = LargeAlignment - 1
)

// Address tagging. The allocator reserves two bits of each address for the
// memory tag of the region it came from.
const (
	// AddressBits is the width of user-space virtual addresses.
	AddressBits = 48

	// TagShift is the position of the lowest tag bit.
	TagShift = min(AddressBits-4, 42)

	// TagMask selects the tag bits of an address.
	TagMask uint64 = 0x3 << TagShift
)

package sizemap

import "github.com/joshuapare/segalloc/internal/layout"

// Info describes one size class: the object size, the run length used to
// host objects of that size, and the batch moved between cache layers.
type Info struct {
	Size      int // Object size in bytes
	Pages     int // Pages per span
	NumToMove int // Objects per transfer batch
}

// Tables holds the compiled-in size-class variants for one geometry.
// Entry 0 of every variant is the reserved {0, 0, 0} class.
type Tables struct {
	Default     []Info
	Pow2        []Info
	Pow2Below64 []Info
	CFLAware    []Info

	// ColdCandidates lists sizes that may be served from cold memory.
	// Order matters: each accepted candidate claims the sizes between the
	// previous candidate and itself.
	ColdCandidates []int
}

// IsReducedBelow64SizeClass reports whether a class of this size survives the
// reduced-below-64 variant: sizes of 64 and up, plus powers of two below.
func IsReducedBelow64SizeClass(size int) bool {
	return size >= 64 || layout.IsPow2(size)
}

// DefaultTables returns the variants for DefaultGeometry.
func DefaultTables() Tables {
	return Tables{
		Default:     defaultSizeClasses,
		Pow2:        pow2SizeClasses,
		Pow2Below64: pow2Below64SizeClasses,
		CFLAware:    cflAwareSizeClasses,
		ColdCandidates: []int{
			2048, 4096, 6144, 7168, 8192, 16384,
			20480, 32768, 40960, 65536, 131072, 262144,
		},
	}
}

// SmallPageTables returns the variants for SmallPageGeometry.
func SmallPageTables() Tables {
	return Tables{
		Default: smallPageSizeClasses,
	}
}

// tail above 1 KiB shared by the 8 KiB variants.
var largeClasses8K = []Info{
	//  bytes pages batch
	{1152, 2, 32},
	{1280, 2, 32},
	{1408, 2, 32},
	{1536, 2, 32},
	{1792, 2, 32},
	{2048, 2, 32},
	{2304, 2, 28},
	{2688, 2, 24},
	{3200, 2, 20},
	{3456, 3, 18},
	{3584, 4, 18},
	{4096, 1, 16},
	{4736, 3, 13},
	{5376, 2, 12},
	{6144, 3, 10},
	{6528, 4, 10},
	{7168, 7, 9},
	{8192, 1, 8},
	{9472, 5, 6},
	{10240, 4, 6},
	{12288, 3, 5},
	{13568, 5, 4},
	{14336, 7, 4},
	{16384, 2, 4},
	{20480, 5, 3},
	{24576, 3, 2},
	{28672, 7, 2},
	{32768, 4, 2},
	{40960, 5, 2},
	{49152, 6, 2},
	{57344, 7, 2},
	{65536, 8, 2},
	{73728, 9, 2},
	{81920, 10, 2},
	{98304, 12, 2},
	{114688, 14, 2},
	{131072, 16, 2},
	{147456, 18, 2},
	{163840, 20, 2},
	{180224, 22, 2},
	{204800, 25, 2},
	{229376, 28, 2},
	{262144, 32, 2},
}

// withLarge appends the shared 8 KiB tail to a small-size prefix.
func withLarge(small ...Info) []Info {
	out := make([]Info, 0, len(small)+len(largeClasses8K))
	out = append(out, small...)
	return append(out, largeClasses8K...)
}

// one-page classes with the default batch
func onePage(sizes ...int) []Info {
	out := make([]Info, len(sizes))
	for i, s := range sizes {
		out[i] = Info{Size: s, Pages: 1, NumToMove: 32}
	}
	return out
}

var defaultSizeClasses = withLarge(append([]Info{{0, 0, 0}}, onePage(
	8, 16, 24, 32, 40, 48, 56, 64,
	72, 80, 88, 96, 104, 112, 120, 128,
	136, 144, 160, 176, 192, 208, 224, 240,
	256, 272, 288, 312, 336, 352, 384, 408,
	424, 448, 480, 512, 576, 640, 704, 768,
	896, 1024,
)...)...)

var pow2SizeClasses = []Info{
	{0, 0, 0},
	{8, 1, 32},
	{16, 1, 32},
	{32, 1, 32},
	{64, 1, 32},
	{128, 1, 32},
	{256, 1, 32},
	{512, 1, 32},
	{1024, 2, 32},
	{2048, 2, 32},
	{4096, 1, 16},
	{8192, 1, 8},
	{16384, 2, 4},
	{32768, 4, 2},
	{65536, 8, 2},
	{131072, 16, 2},
	{262144, 32, 2},
}

var pow2Below64SizeClasses = withLarge(append([]Info{{0, 0, 0}}, onePage(
	8, 16, 32, 64,
	72, 80, 88, 96, 104, 112, 120, 128,
	136, 144, 160, 176, 192, 208, 224, 240,
	256, 272, 288, 312, 336, 352, 384, 408,
	424, 448, 480, 512, 576, 640, 704, 768,
	896, 1024,
)...)...)

// Cache-line friendly: every class from 64 to 1 KiB is a multiple of 64.
var cflAwareSizeClasses = withLarge(append([]Info{{0, 0, 0}}, onePage(
	8, 16, 24, 32, 40, 48, 56, 64,
	128, 192, 256, 320, 384, 448, 512, 576,
	640, 704, 768, 832, 896, 960, 1024,
)...)...)

var smallPageSizeClasses = []Info{
	{0, 0, 0},
	{8, 1, 32},
	{16, 1, 32},
	{24, 1, 32},
	{32, 1, 32},
	{40, 1, 32},
	{48, 1, 32},
	{56, 1, 32},
	{64, 1, 32},
	{72, 1, 32},
	{80, 1, 32},
	{88, 1, 32},
	{96, 1, 32},
	{104, 1, 32},
	{112, 1, 32},
	{120, 1, 32},
	{128, 1, 32},
	{144, 1, 32},
	{160, 1, 32},
	{176, 1, 32},
	{192, 1, 32},
	{208, 1, 32},
	{224, 1, 32},
	{240, 1, 32},
	{256, 1, 32},
	{288, 1, 32},
	{320, 1, 32},
	{384, 1, 32},
	{448, 1, 32},
	{512, 1, 32},
	{576, 1, 32},
	{640, 1, 32},
	{768, 1, 32},
	{896, 1, 32},
	{1024, 1, 32},
	{1152, 2, 32},
	{1280, 1, 32},
	{1536, 3, 32},
	{1792, 3, 32},
	{2048, 1, 32},
	{2560, 3, 25},
	{3072, 3, 21},
	{4096, 1, 16},
	{5120, 5, 12},
	{6144, 3, 10},
	{8192, 2, 8},
}

package sizemap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	m, err := New(Options{})
	require.NoError(t, err)

	g := m.Geometry()
	assert.Equal(t, "8KiB", g.Name)
	assert.Equal(t, 172, m.NumClasses())
	assert.Equal(t, 86, m.NumPopulatedClasses())
	assert.Empty(t, m.ColdClasses(), "cold classifier is off by default")

	cl, ok := m.SizeClass(g.MaxSize, AccessHot)
	require.True(t, ok)
	assert.Equal(t, g.MaxSize, m.ClassSize(cl))
}

func TestNew_BadGeometry(t *testing.T) {
	g := DefaultGeometry()
	g.Alignment = 12

	_, err := New(Options{Geometry: &g})
	require.ErrorIs(t, err, ErrBadGeometry)
}

func TestNew_SmallPages(t *testing.T) {
	g := SmallPageGeometry()
	tables := SmallPageTables()
	m := newSizeMap(t, Options{Geometry: &g, Tables: &tables, ColdFeatureActive: alwaysCold})

	assert.Equal(t, 46, m.NumClasses())
	assert.Equal(t, 46, m.NumPopulatedClasses())
	assert.Empty(t, m.ColdClasses())

	// No cold register: the hint is ignored
	hot, _ := m.SizeClass(5000, AccessHot)
	cold, _ := m.SizeClass(5000, AccessCold)
	assert.Equal(t, hot, cold)
	assert.Equal(t, 5120, m.ClassSize(hot))
}

func TestNew_DefaultTableTooLong(t *testing.T) {
	g := tinyGeometry()
	tables := Tables{Default: append(tinyClasses(), Info{Size: 40, Pages: 1, NumToMove: 8})}

	ierr := requireInvariantPanic(t, func() {
		_, _ = New(Options{Geometry: &g, Tables: &tables})
	})
	assert.Equal(t, "default table has more classes than the geometry", ierr.Msg)
}

func TestNew_InvalidDefaultIsFatal(t *testing.T) {
	g := tinyGeometry()
	bad := tinyClasses()
	bad[2].Size = 20
	tables := Tables{Default: bad}

	requireInvariantPanic(t, func() {
		_, _ = New(Options{Geometry: &g, Tables: &tables})
	})
}

func TestNew_ExperimentSelection(t *testing.T) {
	tests := []struct {
		name      string
		exps      ExperimentSet
		populated int
		sizes     map[int]int // request -> class size
	}{
		{
			name:      "none",
			populated: 86,
			sizes:     map[int]int{20: 24, 65: 72, 1100: 1152},
		},
		{
			name:      "pow2",
			exps:      ExperimentSet{ExperimentPow2TestOnly: true},
			populated: 17,
			sizes:     map[int]int{5: 8, 9: 16, 17: 32, 65: 128, 3000: 4096},
		},
		{
			name:      "pow2 below 64",
			exps:      ExperimentSet{ExperimentPow2Below64: true},
			populated: len(DefaultTables().Pow2Below64),
			sizes:     map[int]int{20: 32, 40: 64, 65: 72},
		},
		{
			name:      "cfl aware",
			exps:      ExperimentSet{ExperimentCFLAwareTestOnly: true},
			populated: len(DefaultTables().CFLAware),
			sizes:     map[int]int{20: 24, 65: 128, 129: 192},
		},
		{
			name:      "reduced below 64",
			exps:      ExperimentSet{ExperimentReducedBelow64: true},
			populated: 82,
			sizes:     map[int]int{20: 32, 33: 64, 65: 72},
		},
		{
			name:      "pow2 wins over cfl aware",
			exps:      ExperimentSet{ExperimentCFLAware: true, ExperimentPow2TestOnly: true},
			populated: 17,
			sizes:     map[int]int{65: 128, 129: 256},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{}
			if tt.exps != nil {
				opts.Experiments = tt.exps.Active
			}
			m := newSizeMap(t, opts)
			assert.Equal(t, tt.populated, m.NumPopulatedClasses())
			for req, want := range tt.sizes {
				assert.Equal(t, want, m.ClassSize(m.ClassIndexOf(req)), "size %d", req)
			}
		})
	}
}

func TestNew_VariantFallsThrough(t *testing.T) {
	t.Run("not compiled in", func(t *testing.T) {
		log, buf := newTestLogger(t)
		g := tinyGeometry()
		tables := tinyTables()
		m := newSizeMap(t, Options{
			Geometry:    &g,
			Tables:      &tables,
			Experiments: ExperimentSet{ExperimentPow2TestOnly: true}.Active,
			Logger:      log,
		})
		assert.Equal(t, 4, m.NumPopulatedClasses())

		rec := findRecord(t, buf, "size class variant not compiled in")
		assert.Equal(t, "pow2", rec["variant"])
	})

	t.Run("invalid", func(t *testing.T) {
		log, buf := newTestLogger(t)
		tables := DefaultTables()
		bad := cloneInfos(tables.CFLAware)
		bad[len(bad)-1].Size = 262144 - 64
		tables.CFLAware = bad

		m := newSizeMap(t, Options{
			Tables:      &tables,
			Experiments: ExperimentSet{ExperimentCFLAware: true}.Active,
			Logger:      log,
		})
		assert.Equal(t, 86, m.NumPopulatedClasses(), "default table installed")

		rec := findRecord(t, buf, "invalid size classes")
		assert.Equal(t, "misaligned", rec["reason"])
		rec = findRecord(t, buf, "size class variant rejected")
		assert.Equal(t, "cfl-aware", rec["variant"])
	})
}

func TestSizeMap_ClassAccessors(t *testing.T) {
	m := newSizeMap(t, Options{})
	for cl, want := range DefaultTables().Default {
		assert.Equal(t, want, m.ClassInfo(cl))
		assert.Equal(t, want.Size, m.ClassSize(cl))
		assert.Equal(t, want.Pages, m.ClassPages(cl))
		assert.Equal(t, want.NumToMove, m.NumObjectsToMove(cl))
	}
}

func TestSizeMap_ClassIndexOfOutOfRange(t *testing.T) {
	m := newSizeMap(t, Options{})
	ierr := requireInvariantPanic(t, func() { m.ClassIndexOf(m.Geometry().MaxSize + 1) })
	assert.Equal(t, "size outside the size-class range", ierr.Msg)
}

func TestSizeMap_ColdClassesIsCopy(t *testing.T) {
	m := newSizeMap(t, Options{ColdFeatureActive: alwaysCold})
	cold := m.ColdClasses()
	require.NotEmpty(t, cold)
	cold[0] = -1
	assert.NotEqual(t, -1, m.ColdClasses()[0])
}

func TestSizeMap_ConcurrentReaders(t *testing.T) {
	m := newSizeMap(t, Options{ColdFeatureActive: alwaysCold})
	want := takeSnapshot(m)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for size := w; size <= m.Geometry().MaxSize; size += 997 {
				hint := AccessHint(size & 1)
				cl, ok := m.SizeClass(size, hint)
				if !ok || m.ClassSize(cl) < size {
					t.Errorf("size %d: class %d (ok=%v)", size, cl, ok)
					return
				}
				_ = m.IsColdClass(cl)
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, want, takeSnapshot(m))
}

// On a geometry without a cold register a variant longer than the class
// table is rejected rather than truncated.
func TestNew_OverlongVariantRejected(t *testing.T) {
	log, buf := newTestLogger(t)
	g := SmallPageGeometry()
	tables := SmallPageTables()

	long := cloneInfos(tables.Default)
	i := len(long) - 6 // before 2560
	require.Equal(t, 2560, long[i].Size)
	long = append(long[:i], append([]Info{{Size: 2304, Pages: 2, NumToMove: 28}}, long[i:]...)...)
	require.Len(t, long, g.NumBaseClasses+1)
	tables.CFLAware = long

	m := newSizeMap(t, Options{
		Geometry:    &g,
		Tables:      &tables,
		Experiments: ExperimentSet{ExperimentCFLAware: true}.Active,
		Logger:      log,
	})

	rec := findRecord(t, buf, "invalid size classes")
	assert.Equal(t, "count", rec["reason"])
	assert.EqualValues(t, 47, rec["value"])
	assert.EqualValues(t, 46, rec["limit"])

	cl := m.ClassIndexOf(8000)
	assert.Equal(t, 8192, m.ClassSize(cl))
	assert.False(t, m.TryLoadOverride(staticOverride(long)))
}

func TestGeometry_Accessors(t *testing.T) {
	m := newSizeMap(t, Options{})
	assert.Equal(t, 8192, m.Geometry().PageSize())
	assert.Equal(t, 2, m.Geometry().NumRegisters())
	assert.Equal(t, 172, m.Geometry().NumClasses())
	assert.Equal(t, 86, m.Geometry().ExpandedClassesStart())
	assert.Equal(t, 129, m.Geometry().ClassIndex(1025))
	assert.Equal(t, 46, SmallPageGeometry().NumClasses())
}

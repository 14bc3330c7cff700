package sizemap

import (
	"errors"
	"log/slog"

	"github.com/joshuapare/segalloc/internal/layout"
	"github.com/joshuapare/segalloc/internal/logger"
)

// AccessHint tells a lookup which addressing partition the caller wants.
type AccessHint uint8

const (
	AccessHot  AccessHint = iota // normal memory
	AccessCold                   // cold memory, when the geometry has it
)

// Options configures a SizeMap. Zero values select the 8 KiB defaults.
type Options struct {
	// Geometry to build for. Nil means DefaultGeometry().
	Geometry *Geometry

	// Tables holds the compiled-in variants. Nil means DefaultTables().
	Tables *Tables

	// Experiments selects among the compiled-in variants. Nil means none active.
	Experiments ExperimentFunc

	// ColdFeatureActive enables the cold-class classifier. Nil means disabled.
	ColdFeatureActive func() bool

	// Override, if set, may replace the selected variant at build time.
	Override OverrideSource

	// Logger receives rejection records and crash reports. Nil means logger.L.
	Logger *slog.Logger
}

// SizeMap maps request sizes to size classes.
//
// A SizeMap is built by New and is read-only afterwards, so any number of
// goroutines may query it without synchronization. TryLoadOverride is the
// only mutating method and must not race with readers.
type SizeMap struct {
	geom   Geometry
	tables Tables
	log    *slog.Logger

	experiments ExperimentFunc
	coldActive  func() bool

	// Class count every override must match
	expectedCount int

	classes     *classTable
	lookup      *lookupTable
	coldClasses []int
}

// New builds a SizeMap: it picks a compiled-in variant, applies the override
// if one validates, then builds the lookup and cold tables.
//
// The only error is a bad geometry. A corrupt compiled-in default table is an
// internal invariant violation and panics with *InvariantError.
func New(opts Options) (*SizeMap, error) {
	m := &SizeMap{
		geom:        DefaultGeometry(),
		tables:      DefaultTables(),
		log:         opts.Logger,
		experiments: opts.Experiments,
		coldActive:  opts.ColdFeatureActive,
	}
	if opts.Geometry != nil {
		m.geom = *opts.Geometry
	}
	if opts.Tables != nil {
		m.tables = *opts.Tables
	}
	if m.log == nil {
		m.log = logger.L
	}
	if m.experiments == nil {
		m.experiments = noExperiments
	}
	if m.coldActive == nil {
		m.coldActive = func() bool { return false }
	}

	if err := m.geom.Validate(); err != nil {
		return nil, err
	}

	m.expectedCount = len(m.tables.Default)
	if m.expectedCount > m.geom.NumBaseClasses {
		crash(m.log, "default table has more classes than the geometry",
			"count", m.expectedCount, "limit", m.geom.NumBaseClasses)
	}

	m.classes = newClassTable(&m.geom)
	m.selectSizeClasses()
	m.loadOverride(opts.Override)
	m.buildLookup()
	m.classifyCold()

	return m, nil
}

// variant is one compiled-in alternative and the experiments that enable it.
type variant struct {
	name          string
	infos         []Info
	reduceBelow64 bool
	experiments   []Experiment
}

// selectSizeClasses installs the first active variant that validates,
// falling back to the default table.
func (m *SizeMap) selectSizeClasses() {
	variants := []variant{
		{"pow2", m.tables.Pow2, false, []Experiment{ExperimentPow2TestOnly}},
		{"pow2-below-64", m.tables.Pow2Below64, false,
			[]Experiment{ExperimentPow2Below64, ExperimentPow2Below64TestOnly}},
		{"cfl-aware", m.tables.CFLAware, false,
			[]Experiment{ExperimentCFLAware, ExperimentCFLAwareTestOnly}},
		{"reduced-below-64", m.tables.Default, true,
			[]Experiment{ExperimentReducedBelow64, ExperimentReducedBelow64TestOnly}},
	}

	for _, v := range variants {
		if !m.anyActive(v.experiments) {
			continue
		}
		if len(v.infos) == 0 {
			m.log.Warn("size class variant not compiled in", "variant", v.name)
			continue
		}
		if !m.validSizeClasses(v.infos) {
			m.log.Warn("size class variant rejected", "variant", v.name)
			continue
		}
		m.setSizeClasses(v.infos, v.reduceBelow64)
		m.log.Debug("size class variant selected", "variant", v.name)
		return
	}

	m.setSizeClasses(m.tables.Default, false)
}

func (m *SizeMap) anyActive(exps []Experiment) bool {
	for _, e := range exps {
		if m.experiments(e) {
			return true
		}
	}
	return false
}

// validSizeClasses runs Validate and logs the violation, if any.
func (m *SizeMap) validSizeClasses(infos []Info) bool {
	err := Validate(&m.geom, infos)
	if err == nil {
		return true
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		m.log.Warn("invalid size classes", verr.logArgs()...)
	} else {
		m.log.Warn("invalid size classes", "error", err)
	}
	return false
}

// setSizeClasses is the table builder. Its input must already be valid.
func (m *SizeMap) setSizeClasses(infos []Info, reduceBelow64 bool) {
	if err := Validate(&m.geom, infos); err != nil {
		crash(m.log, "building from invalid size classes", "error", err)
	}
	m.classes.fill(&m.geom, infos, reduceBelow64)
}

// Geometry returns the geometry the map was built for.
func (m *SizeMap) Geometry() Geometry { return m.geom }

// NumClasses returns the number of class ids across all registers.
func (m *SizeMap) NumClasses() int { return m.geom.NumClasses() }

// NumPopulatedClasses returns the number of non-empty base classes, class 0 included.
func (m *SizeMap) NumPopulatedClasses() int { return m.classes.populated() }

// ColdClasses returns the class ids eligible for cold memory, in candidate order.
func (m *SizeMap) ColdClasses() []int {
	return append([]int(nil), m.coldClasses...)
}

// SizeClass returns the smallest class that holds size bytes. It returns
// false for sizes above MaxSize or below zero.
func (m *SizeMap) SizeClass(size int, hint AccessHint) (int, bool) {
	if size < 0 || size > m.geom.MaxSize {
		return 0, false
	}
	reg := 0
	if hint == AccessCold && m.geom.ExpandedClasses {
		reg = 1
	}
	return int(m.lookup.regs[reg][m.geom.ClassIndex(size)]), true
}

// ClassIndexOf returns the normal-memory class for size. Callers must reject
// sizes above MaxSize first; anything else is an internal error.
func (m *SizeMap) ClassIndexOf(size int) int {
	cl, ok := m.SizeClass(size, AccessHot)
	if !ok {
		crash(m.log, "size outside the size-class range", "size", size, "limit", m.geom.MaxSize)
	}
	return cl
}

// SizeClassAligned returns the smallest class that holds size bytes and
// whose size is a multiple of align. align must be a power of two no larger
// than a page.
func (m *SizeMap) SizeClassAligned(size, align int, hint AccessHint) (int, bool) {
	if !layout.IsPow2(align) || align > m.geom.PageSize() {
		return 0, false
	}
	cl, ok := m.SizeClass(size, hint)
	if !ok || align <= m.geom.Alignment {
		return cl, ok
	}

	// Stay inside cl's register
	end := (cl/m.geom.NumBaseClasses + 1) * m.geom.NumBaseClasses
	for ; cl < end; cl++ {
		s := m.ClassSize(cl)
		if s == 0 {
			break
		}
		if layout.IsAligned(s, align) {
			return cl, true
		}
	}
	return 0, false
}

func (m *SizeMap) split(cl int) (*register, int) {
	return &m.classes.regs[cl/m.geom.NumBaseClasses], cl % m.geom.NumBaseClasses
}

// ClassSize returns the object size of class cl.
func (m *SizeMap) ClassSize(cl int) int {
	r, i := m.split(cl)
	return int(r.size[i])
}

// ClassPages returns the span length, in pages, of class cl.
func (m *SizeMap) ClassPages(cl int) int {
	r, i := m.split(cl)
	return int(r.pages[i])
}

// NumObjectsToMove returns the transfer batch of class cl.
func (m *SizeMap) NumObjectsToMove(cl int) int {
	r, i := m.split(cl)
	return int(r.numToMove[i])
}

// ClassInfo returns all attributes of class cl.
func (m *SizeMap) ClassInfo(cl int) Info {
	r, i := m.split(cl)
	return r.info(i)
}

// IsColdClass reports whether cl is in the cold-class set.
func (m *SizeMap) IsColdClass(cl int) bool {
	for _, c := range m.coldClasses {
		if c == cl {
			return true
		}
	}
	return false
}

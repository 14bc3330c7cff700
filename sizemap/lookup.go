package sizemap

// lookupTable maps a quantized size (Geometry.ClassIndex) to a class id.
// Register 0 serves normal allocations; register 1, when present, serves
// allocations that asked for cold memory.
type lookupTable struct {
	regs [][]uint8
}

// buildLookup sweeps every quantized size up to MaxSize and assigns it the
// smallest base class that holds it. Upper registers start as copies of
// register 0.
func (m *SizeMap) buildLookup() {
	g := &m.geom

	if idx := g.ClassIndex(0); idx != 0 {
		crash(m.log, "invalid class index for size 0", "index", idx)
	}
	if idx := g.ClassIndex(g.MaxSize); idx >= g.ClassArraySize() {
		crash(m.log, "invalid class index for max size",
			"index", idx, "limit", g.ClassArraySize())
	}

	lt := &lookupTable{regs: make([][]uint8, g.NumRegisters())}
	for i := range lt.regs {
		lt.regs[i] = make([]uint8, g.ClassArraySize())
	}

	lower := lt.regs[0]
	sizes := m.classes.regs[0].size
	next := 0
	for c := 1; c < g.NumBaseClasses; c++ {
		maxSizeInClass := int(sizes[c])
		if maxSizeInClass == 0 {
			break
		}
		for s := next; s <= maxSizeInClass; s += g.Alignment {
			lower[g.ClassIndex(s)] = uint8(c)
		}
		next = maxSizeInClass + g.Alignment
		if next > g.MaxSize {
			break
		}
	}

	for i := 1; i < len(lt.regs); i++ {
		copy(lt.regs[i], lower)
	}
	m.lookup = lt
}

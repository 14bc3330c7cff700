package sizemap

// classifyCold picks the classes that may live in cold memory and points the
// cold lookup register at them. Sizes not claimed by an accepted candidate
// keep the normal-class mapping copied by buildLookup.
func (m *SizeMap) classifyCold() {
	m.coldClasses = nil

	g := &m.geom
	if !g.ExpandedClasses || !m.coldActive() {
		return
	}

	candidates := m.tables.ColdCandidates
	if len(candidates) == 0 {
		return
	}

	upper := m.lookup.regs[1]
	coldReg := &m.classes.regs[1]
	start := g.ExpandedClassesStart()

	// Sizes below the first accepted candidate's normal range are too small
	// for cold spans and stay on normal classes. Zero means unset.
	next := 0
	for _, maxSizeInClass := range candidates {
		if maxSizeInClass <= 0 {
			crash(m.log, "non-positive cold candidate", "size", maxSizeInClass)
		}

		// Some candidates don't exist in the active table
		c := -1
		for i := 1; i < g.NumBaseClasses; i++ {
			if int(coldReg.size[i]) == maxSizeInClass {
				c = start + i
				break
			}
		}
		if c < 0 {
			continue
		}

		// Denser spans need an intrusive free list, which touches the objects
		// themselves.
		spanBytes := int(coldReg.pages[c-start]) << g.PageShift
		if spanBytes/maxSizeInClass > g.SpanCacheSize {
			continue
		}

		m.coldClasses = append(m.coldClasses, c)

		if next == 0 {
			next = int(coldReg.size[c-start-1]) + g.Alignment
		}

		for s := next; s <= maxSizeInClass; s += g.Alignment {
			upper[g.ClassIndex(s)] = uint8(c)
		}
		next = maxSizeInClass + g.Alignment
		if next > g.MaxSize {
			break
		}
	}
}

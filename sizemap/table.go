package sizemap

// register is one addressing partition's view of the class table.
type register struct {
	size      []uint32
	pages     []uint8
	numToMove []uint8
}

func newRegister(n int) register {
	return register{
		size:      make([]uint32, n),
		pages:     make([]uint8, n),
		numToMove: make([]uint8, n),
	}
}

func (r *register) set(idx int, info Info) {
	r.size[idx] = uint32(info.Size)
	r.pages[idx] = uint8(info.Pages)
	r.numToMove[idx] = uint8(info.NumToMove)
}

func (r *register) info(idx int) Info {
	return Info{
		Size:      int(r.size[idx]),
		Pages:     int(r.pages[idx]),
		NumToMove: int(r.numToMove[idx]),
	}
}

func (r *register) copyFrom(src *register) {
	copy(r.size, src.size)
	copy(r.pages, src.pages)
	copy(r.numToMove, src.numToMove)
}

// classTable holds per-class attributes indexed by (register, index).
// Register 0 is the base table; the others start as copies of it.
type classTable struct {
	regs []register
}

func newClassTable(g *Geometry) *classTable {
	t := &classTable{regs: make([]register, g.NumRegisters())}
	for i := range t.regs {
		t.regs[i] = newRegister(g.NumBaseClasses)
	}
	return t
}

// fill populates the base register from a validated list and replicates it
// into every other register. With reduceBelow64, classes rejected by
// IsReducedBelow64SizeClass are dropped and the rest compacted.
func (t *classTable) fill(g *Geometry, infos []Info, reduceBelow64 bool) {
	base := &t.regs[0]
	base.set(0, Info{})

	n := min(len(infos), g.NumBaseClasses)
	curr := 1
	for c := 1; c < n; c++ {
		if reduceBelow64 && !IsReducedBelow64SizeClass(infos[c].Size) {
			continue
		}
		base.set(curr, infos[c])
		curr++
	}

	// Unused tail
	for x := curr; x < g.NumBaseClasses; x++ {
		base.set(x, Info{})
	}

	for i := 1; i < len(t.regs); i++ {
		t.regs[i].copyFrom(base)
	}
}

// populated returns the number of non-zero classes in the base register,
// class 0 included.
func (t *classTable) populated() int {
	n := 1
	for _, s := range t.regs[0].size[1:] {
		if s == 0 {
			break
		}
		n++
	}
	return n
}

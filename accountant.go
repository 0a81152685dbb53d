package pagecache

// accountant tracks running memory and entry-count totals against a
// configurable budget. max_memory is interpreted in the same units as
// every Entry's MemorySize.
type accountant struct {
	currentMemory uint64
	entryCount    uint64
	maxMemory     uint64
}

func (a *accountant) add(size uint32) {
	a.currentMemory += uint64(size)
	a.entryCount++
}

func (a *accountant) sub(size uint32) {
	a.currentMemory -= uint64(size)
	a.entryCount--
}

// overBudget reports whether eviction should run. It never evicts on
// its own: Put (and so Update on a miss) and SetMaxSize check it
// afterwards and call evict.
func (a *accountant) overBudget() bool {
	return a.currentMemory >= a.maxMemory
}

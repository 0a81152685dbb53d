package pagecache

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// propertyEntry is a minimal clean, always-removable Entry. It holds no
// insertion state: the generated operation sequence alternates between
// Put and Remove per position by asking the cache itself (Contains),
// without tracking state outside the cache.
type propertyEntry struct {
	pos  uint32
	size uint32
}

func (e *propertyEntry) Position() uint32   { return e.pos }
func (e *propertyEntry) BlockCount() uint32 { return 1 }
func (e *propertyEntry) MemorySize() uint32 { return e.size }
func (e *propertyEntry) IsDirty() bool      { return false }
func (e *propertyEntry) CanRemove() bool    { return true }

// TestPropertyInvariantsHoldAcrossRandomOperations drives a Cache
// through a random sequence of Put/Remove toggles keyed by position
// and checks, after every single operation, the cross-structure
// invariants from §3: bucket-chain length, LRU length and entry count
// agree, and the live memory total matches the accountant.
func TestPropertyInvariantsHoldAcrossRandomOperations(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("cache invariants hold after every operation", prop.ForAll(
		func(positions []int) bool {
			c, err := New(newMockWriter(), WithMaxMemoryQuanta(200), WithMinRecords(2))
			if err != nil {
				return false
			}
			for _, p := range positions {
				pos := uint32(p)
				if c.Contains(pos) {
					c.Remove(pos)
				} else if err := c.Put(&propertyEntry{pos: pos, size: 10}); err != nil {
					return false
				}
				if !invariantsHold(c) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(60, gen.IntRange(0, 40)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestPropertyTouchMovesEntryToMRUEnd checks the recency-ordering
// invariant from §8 in isolation from eviction arithmetic: whichever
// entry Get last touched is always the MRU end of the LRU list,
// regardless of how many other entries were inserted before it. The
// budget here is large enough that no eviction ever runs, so only the
// touch-moves-to-MRU mechanism is under test.
func TestPropertyTouchMovesEntryToMRUEnd(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("the last-touched entry is the MRU end", prop.ForAll(
		func(positions []int) bool {
			if len(positions) == 0 {
				return true
			}
			c, err := New(newMockWriter(), WithMaxMemoryQuanta(1<<30), WithMinRecords(0))
			if err != nil {
				return false
			}
			seen := make(map[uint32]bool)
			for _, p := range positions {
				pos := uint32(p)
				if seen[pos] {
					continue
				}
				seen[pos] = true
				if err := c.Put(newTestEntry(pos, 10)); err != nil {
					return false
				}
			}
			touched := uint32(positions[len(positions)-1])
			if _, ok := c.Get(touched); !ok {
				return false
			}
			mruEnd := c.lru.sentinel.lruPrev
			return mruEnd != &c.lru.sentinel && mruEnd.entry.Position() == touched
		},
		gen.SliceOfN(20, gen.IntRange(0, 50)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

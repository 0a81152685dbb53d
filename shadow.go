package pagecache

import (
	"weak"

	"github.com/rs/zerolog/log"
)

// shadow is the SecondLevelShadow: on eviction of a clean entry it
// records a weak- or soft-held reference keyed by position; Cache.Get
// consults it after a primary miss and promotes any recovered entry
// back into the primary. Dirty entries are never shadowed — they
// would bypass write-back.
type shadow struct {
	policy RetentionPolicy

	// RetentionWeak: one runtime weak pointer per shadowed position.
	// Go's weak package (stdlib, 1.24+) is the only way to express
	// this in the language; there is no third-party alternative in
	// the ecosystem, so it is used directly rather than hand-rolled.
	weakRefs map[uint32]weak.Pointer[shadowBox]

	// RetentionSoft: a bounded secondary tier reusing the cache's own
	// hash+LRU machinery at a separate, smaller ceiling, per §9's
	// fallback guidance for hosts without a true soft-reference
	// primitive.
	softChain *hashChain
	softLRU   *lruList
	softAcct  accountant
}

// shadowBox is the object a weak.Pointer targets. Boxing the Entry
// lets the shadow hold a weak pointer to something it allocated
// itself, independent of whatever representation the caller's Entry
// implementation uses internally.
type shadowBox struct {
	entry Entry
}

func newShadow(policy RetentionPolicy, softCapacityQuanta uint64) *shadow {
	s := &shadow{policy: policy}
	switch policy {
	case RetentionWeak:
		s.weakRefs = make(map[uint32]weak.Pointer[shadowBox])
	case RetentionSoft:
		s.softChain = newHashChain(softCapacityQuanta)
		s.softLRU = newLRUList()
		s.softAcct.maxMemory = softCapacityQuanta
	}
	return s
}

// remember records e for possible later recovery. Under RetentionWeak,
// the box weak.Make targets is reachable only through the returned
// weak.Pointer itself: unless the host program keeps its own strong
// reference to e elsewhere, the box becomes collectible the instant
// this call returns, and recall will miss on the very next GC. That is
// consistent with §9 treating RetentionWeak as a best-effort upgrade,
// not a guarantee — callers that need reliable recovery after
// eviction should use RetentionSoft instead.
func (s *shadow) remember(e Entry) {
	switch s.policy {
	case RetentionWeak:
		s.weakRefs[e.Position()] = weak.Make(&shadowBox{entry: e})
	case RetentionSoft:
		r := &record{entry: e}
		s.softChain.insert(r)
		s.softLRU.pushFront(r)
		s.softAcct.add(e.MemorySize())
		s.evictSoft()
	}
	log.Debug().
		Uint32("position", e.Position()).
		Str("policy", policyName(s.policy)).
		Msg("pagecache: shadowed evicted entry")
}

// evictSoft trims the secondary tier down to its own 75% threshold,
// the same termination target the primary EvictionEngine uses.
func (s *shadow) evictSoft() {
	for s.softAcct.currentMemory*4 > s.softAcct.maxMemory*3 && s.softAcct.entryCount > 0 {
		victim := s.softLRU.sentinel.lruNext
		if victim == &s.softLRU.sentinel {
			return
		}
		s.softChain.remove(victim.entry.Position())
		s.softLRU.unlink(victim)
		s.softAcct.sub(victim.entry.MemorySize())
	}
}

// recall consults the shadow after a primary miss. A resolved result
// is removed from the shadow unconditionally: once promoted, the
// entry lives in the primary cache, not in both places.
func (s *shadow) recall(pos uint32) Entry {
	switch s.policy {
	case RetentionWeak:
		wp, ok := s.weakRefs[pos]
		if !ok {
			return nil
		}
		delete(s.weakRefs, pos)
		box := wp.Value()
		if box == nil {
			return nil
		}
		return box.entry
	case RetentionSoft:
		r := s.softChain.remove(pos)
		if r == nil {
			return nil
		}
		s.softLRU.unlink(r)
		s.softAcct.sub(r.entry.MemorySize())
		return r.entry
	default:
		return nil
	}
}

// softCapacity reports the budget the secondary tier was constructed
// with, so a caller rebuilding the shadow (e.g. Cache.Clear) can
// preserve it. Meaningless for policies other than RetentionSoft.
func (s *shadow) softCapacity() uint64 {
	return s.softAcct.maxMemory
}

func policyName(p RetentionPolicy) string {
	switch p {
	case RetentionSoft:
		return "soft"
	case RetentionWeak:
		return "weak"
	default:
		return "none"
	}
}

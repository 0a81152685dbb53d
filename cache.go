package pagecache

/*
Cache is the CacheFacade: the operations exposed to callers, coordinating
the HashChain, LRUList, MemoryAccountant, and WriteCoordinator/EvictionEngine
described in doc.go.

OPERATIONS

  - Put    — insert a new entry; rejects an overlapping position.
  - Update — touch an existing entry, or insert if absent.
  - Get    — find plus touch, falling back to the second-level shadow.
  - Find   — a pure read, no LRU mutation.
  - Remove — unlink from both structures; a no-op if absent.
  - Clear  — drop everything and reset counters.
  - SetMaxSize   — change the eviction budget.
  - GetAllDirty  — MRU-to-LRU ordered list of dirty entries, for checkpoints.

None of these take a lock: a Cache is owned by exactly one session (§5).
*/
type Cache struct {
	chain *hashChain
	lru   *lruList
	acct  accountant

	writer Writer
	shadow *shadow

	minRecords int
}

// New constructs a Cache backed by writer, applying any Option
// overrides to the default Config (1MiB budget, 16 minimum resident
// records, shadow disabled).
func New(writer Writer, opts ...Option) (*Cache, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		chain:      newHashChain(cfg.MaxMemoryQuanta),
		lru:        newLRUList(),
		writer:     writer,
		minRecords: cfg.MinRecords,
	}
	c.acct.maxMemory = cfg.MaxMemoryQuanta

	if cfg.RetentionPolicy != RetentionNone {
		c.shadow = newShadow(cfg.RetentionPolicy, cfg.SoftCapacityQuanta)
	}
	return c, nil
}

// Put inserts entry, rejecting it as a KindDuplicatePosition panic if
// any position in [entry.Position(), entry.Position()+entry.BlockCount())
// is the starting position of a resident entry. A resident multi-block
// entry that starts before entry.Position() and extends into that range
// is not detected. Triggers eviction if the budget is now exceeded;
// a write-back failure during that eviction is returned as an error.
func (c *Cache) Put(entry Entry) error {
	pos := entry.Position()
	blocks := entry.BlockCount()
	if blocks == 0 {
		blocks = 1
	}
	for p := pos; p < pos+blocks; p++ {
		if c.chain.find(p) != nil {
			panic(&Error{Kind: KindDuplicatePosition, Position: p})
		}
	}

	r := &record{entry: entry}
	c.chain.insert(r)
	c.lru.pushFront(r)
	c.acct.add(entry.MemorySize())

	return c.maybeEvict()
}

// Update touches pos to the MRU end if entry is the same reference
// already resident there. If pos is absent, Update behaves like Put.
// A different entry at an already-occupied pos is a contract
// violation: the open question in §9 resolves replace-with-different
// as fatal, not a silent overwrite.
func (c *Cache) Update(pos uint32, entry Entry) error {
	existing := c.chain.find(pos)
	if existing == nil {
		return c.Put(entry)
	}
	if existing.entry != entry {
		panic(&Error{Kind: KindDuplicatePosition, Position: pos})
	}
	c.touch(existing)
	return nil
}

// Get finds pos, touching it on a primary hit. On a primary miss it
// consults the second-level shadow (if enabled); a recovered entry is
// promoted back into the primary and returned.
func (c *Cache) Get(pos uint32) (Entry, bool) {
	if r := c.chain.find(pos); r != nil {
		c.touch(r)
		return r.entry, true
	}
	if c.shadow == nil {
		return nil, false
	}
	recovered := c.shadow.recall(pos)
	if recovered == nil {
		return nil, false
	}
	if err := c.Put(recovered); err != nil {
		c.writer.LogInfo(err.Error())
	}
	return recovered, true
}

// Find is a pure read: no LRU mutation, no shadow consultation.
func (c *Cache) Find(pos uint32) (Entry, bool) {
	if r := c.chain.find(pos); r != nil {
		return r.entry, true
	}
	return nil, false
}

// Contains reports whether pos is resident in the primary cache,
// without mutating LRU order.
func (c *Cache) Contains(pos uint32) bool {
	_, ok := c.Find(pos)
	return ok
}

// Remove unlinks pos from both structures and updates counters. A
// no-op if pos is absent.
func (c *Cache) Remove(pos uint32) {
	r := c.chain.remove(pos)
	if r == nil {
		return
	}
	c.lru.unlink(r)
	c.acct.sub(r.entry.MemorySize())
}

// Clear drops every resident entry and resets counters. The bucket
// array is reallocated at the current budget, matching the sizing
// rule New uses. Any entry shadowed by a prior eviction is dropped
// too, so Get cannot recover it after a Clear.
func (c *Cache) Clear() {
	c.chain = newHashChain(c.acct.maxMemory)
	c.lru = newLRUList()
	c.acct.currentMemory = 0
	c.acct.entryCount = 0
	if c.shadow != nil {
		c.shadow = newShadow(c.shadow.policy, c.shadow.softCapacity())
	}
}

// SetMaxSize changes the eviction budget. current_memory is left
// untouched; if the cache is now over budget, eviction runs
// immediately rather than waiting for the next Put.
func (c *Cache) SetMaxSize(n uint64) error {
	c.acct.maxMemory = n
	if c.acct.overBudget() {
		return c.evict()
	}
	return nil
}

// GetAllDirty walks the LRU list from its most-recently-used end to
// its least-recently-used end, collecting every dirty entry in that
// order. Used by the enclosing storage engine to drive checkpoints.
func (c *Cache) GetAllDirty() []Entry {
	var dirty []Entry
	for r := c.lru.sentinel.lruPrev; r != &c.lru.sentinel; r = r.lruPrev {
		if r.entry.IsDirty() {
			dirty = append(dirty, r.entry)
		}
	}
	return dirty
}

// Len reports the number of resident entries.
func (c *Cache) Len() int { return int(c.acct.entryCount) }

// CurrentMemory reports the live memory total across resident entries.
func (c *Cache) CurrentMemory() uint64 { return c.acct.currentMemory }

// MaxMemory reports the current eviction budget.
func (c *Cache) MaxMemory() uint64 { return c.acct.maxMemory }

func (c *Cache) touch(r *record) {
	c.lru.unlink(r)
	c.lru.pushFront(r)
}

func (c *Cache) maybeEvict() error {
	if c.acct.overBudget() {
		return c.evict()
	}
	return nil
}

package pagecache

import "github.com/rs/zerolog/log"

// evict is the EvictionEngine's single pass. It walks the LRU list
// from its least-recently-used end, rotating pinned or log-dependent
// entries to the MRU end instead of removing them, collecting dirty
// entries for a batched write-back, and deleting clean entries
// outright. It proceeds until projected memory drops below 75% of the
// budget or the entry count would fall to minRecords, whichever comes
// first.
//
// If a full traversal plus one flush-log attempt makes no further
// progress, the engine reports CannotEvict and returns — the cache is
// left over budget rather than deadlocked.
func (c *Cache) evict() error {
	cursor := c.lru.sentinel.lruNext
	skipped := 0
	flushed := false
	var deferredDirty []*record

	projectedMem := c.acct.currentMemory
	projectedCnt := c.acct.entryCount

	for projectedMem*4 > c.acct.maxMemory*3 && projectedCnt > uint64(c.minRecords) {
		if cursor == &c.lru.sentinel {
			break
		}
		next := cursor.lruNext
		skipped++

		if skipped >= int(c.acct.entryCount) {
			if !flushed {
				if err := c.writer.FlushLog(); err != nil {
					return &Error{Kind: KindWriteFailed, Position: cursor.entry.Position(), Err: err}
				}
				flushed = true
				skipped = 0
			} else {
				c.reportCannotEvict()
				break
			}
		}

		if !cursor.entry.CanRemove() {
			// Pinned or log-dependent: rotate to the MRU end. This
			// counts toward skipped so a fully-pinned cache still
			// terminates in at most one traversal plus one flush.
			c.lru.unlink(cursor)
			c.lru.pushFront(cursor)
			cursor = next
			continue
		}

		projectedCnt--
		projectedMem -= uint64(cursor.entry.MemorySize())
		if cursor.entry.IsDirty() {
			deferredDirty = append(deferredDirty, cursor)
		} else {
			c.removeClean(cursor)
		}
		cursor = next
	}

	if len(deferredDirty) > 0 {
		return c.flushDirty(deferredDirty)
	}
	return nil
}

func (c *Cache) removeClean(r *record) {
	c.chain.remove(r.entry.Position())
	c.lru.unlink(r)
	c.acct.sub(r.entry.MemorySize())
	if c.shadow != nil {
		c.shadow.remember(r.entry)
	}
}

func (c *Cache) reportCannotEvict() {
	const msg = "pagecache: cannot evict; budget too small"
	c.writer.LogInfo(msg)
	log.Warn().
		Uint64("current_memory", c.acct.currentMemory).
		Uint64("max_memory", c.acct.maxMemory).
		Msg(msg)
}

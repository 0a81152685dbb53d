package pagecache

import (
	"math"
	"sort"
)

// flushDirty is the WriteCoordinator: given a batch of dirty records
// selected for eviction, it sorts them ascending by position (for
// sequential I/O on typical block storage), suppresses recursive
// eviction while the writer runs, drives Writer.WriteBack in order,
// then removes the batch from the primary structures.
//
// The writer may itself call back into the cache (Find/Get/Put) to
// consult neighbouring pages — that is expected and supported by the
// temporary ceiling below, not by any lock.
func (c *Cache) flushDirty(batch []*record) error {
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].entry.Position() < batch[j].entry.Position()
	})

	savedMax := c.acct.maxMemory
	c.acct.maxMemory = math.MaxUint64
	defer func() { c.acct.maxMemory = savedMax }()

	for _, r := range batch {
		if err := c.writer.WriteBack(r.entry); err != nil {
			return &Error{Kind: KindWriteFailed, Position: r.entry.Position(), Err: err}
		}
	}

	for _, r := range batch {
		c.chain.remove(r.entry.Position())
		c.lru.unlink(r)
		c.acct.sub(r.entry.MemorySize())
		if r.linked {
			// The record type is unexported, so a conforming writer
			// cannot reach it to re-link it; this check exists only
			// to document the invariant the original design depends
			// on for hosts where the write-back target is handed the
			// same linked object it is asked to persist.
			panic(&Error{Kind: KindUnlinkViolation, Position: r.entry.Position()})
		}
	}
	return nil
}

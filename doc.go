/*
Package pagecache implements the page-cache and write-back subsystem of
a relational storage engine: an in-memory map from integer page
positions to caller-owned cache entries, backed by a write-through
collaborator (the Writer interface), enforcing a least-recently-used
eviction policy with pin, dirty, and log-dependency semantics.

ARCHITECTURAL OVERVIEW

The cache combines three views of the same set of records:

 1. A HashChain (hashchain.go) — an open-addressed bucket array of
    singly-linked chains, keyed by position & mask, for O(1) expected
    find/insert/remove.
 2. An LRUList (lru.go) — a circular, sentinel-headed doubly linked
    list. The most recently used record sits at sentinel.prev; the
    least recently used sits at sentinel.next.
 3. A MemoryAccountant (accountant.go) — running totals of entry count
    and summed memory size, bounded by a configurable budget.

Eviction (eviction.go) walks the LRU list from its least-recently-used
end, skipping entries that are pinned or log-dependent, batching dirty
entries for ordered write-back (writecoord.go), and deleting clean
entries outright. An optional SecondLevelShadow (shadow.go) retains a
weak or bounded-LRU "soft" reference to clean entries after eviction,
letting a later Get recover them without the caller having to re-read
from storage.

CONCURRENCY MODEL

Unlike a general-purpose cache, this package holds no internal locks.
A Cache instance is owned by exactly one logical session; all
operations are called from that session's single thread of control.
Re-entrant calls from the Writer collaborator back into the cache (to
look up neighbouring pages while persisting a batch) are supported by
temporarily lifting the memory ceiling rather than by locking — see
writecoord.go.

OWNERSHIP

The cache exclusively owns every Entry handed to it via Put. Get and
Find return a borrowed reference valid until the next mutating cache
operation. Under RetentionWeak the shadow never extends an entry's
lifetime beyond whatever strong references the host program already
holds. Under RetentionSoft the shadow holds evicted clean entries
strongly in its bounded secondary tier until that tier trims them or a
Get recovers them.
*/
package pagecache

// Package embedcache provides a content-addressed, two-tier cache for
// embedding vectors.
//
// Entries are keyed by a 64-bit xxhash of the (text, model) pair. Two
// stores hold logically the same entries:
//
//   - HotStore: a bounded in-memory LRU, populated lazily on read.
//   - DurableStore: one JSON file per key under a cache directory. The
//     durable tier is the source of truth.
//
// Get checks the hot tier first, then reads through from disk. Put writes
// both tiers unconditionally. A miss is (nil, nil), never an error.
//
// # Consistency contract
//
// ClearOld prunes the durable tier only. An entry already resident in the
// hot tier can still be served after its file has been deleted, until the
// process restarts. Callers that need the two tiers to agree after a prune
// must construct a fresh cache.
//
// The cache never calls an embedding provider itself; miss handling belongs
// to the caller (see internal/retriever).
package embedcache

// Package cmap provides a concurrent map keyed by string.
//
// Keys are spread over a power-of-two number of shards by their
// MurmurHash3 value. Each shard has its own RWMutex, so operations on
// keys in different shards do not contend.
//
// Usage:
//
//	m := cmap.New[entry]()
//	m.Set("key", e)
//	val, ok := m.Get("key")
//
// Compute is the only way to read and write a key atomically. Range and
// Count lock one shard at a time and therefore do not see a consistent
// snapshot of the whole map.
package cmap

// Package htrie provides a concurrency-safe, in-memory burst hash trie: a
// data structure that maps fixed-width unsigned integer keys (expected to
// be hashes, entropy concentrated in the low bits) to one or more records.
// Duplicate keys are allowed and form a collision chain.
//
// The trie is a tree of index nodes fanning out 16 ways per level (4 key
// bits consumed per level, from least to most significant), with a larger
// root fanout. Leaves are buckets holding a handful of record slots guarded
// by an atomic occupancy bitmap. When a bucket fills, it bursts: a new
// index node is introduced one level deeper and the bucket's records are
// redistributed across it by the next 4 key bits.
//
// Trie mutation is lock-free: published index-node slots and bucket
// occupancy bitmaps are only ever changed with compare-and-swap (growing
// the node and bucket arenas on allocation takes a mutex), and removed buckets are not
// reclaimed until every worker's published epoch has moved past the
// generation in which the removal happened. Each Worker method brackets
// itself with the epoch publish/clear pair a caller would otherwise have
// to remember to pair by hand.
//
// This package implements the index engine only. The underlying slab
// allocator is an external collaborator described by the Allocator
// interface; NewArenaAllocator provides a simple in-memory reference
// implementation for tests and standalone use.
package htrie

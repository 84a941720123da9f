package htrie

import (
	"runtime"
	"sync/atomic"
)

// epochIdle is the published epoch value a worker holds while it is not
// in the middle of an operation - the "MAX" sentinel from spec.md §4.7.
const epochIdle = ^uint64(0)

// workerState is the per-worker mutable state: the published epoch, the
// one field every other worker may read, plus freeBcktH/freeBcktT, which
// are not read or written anywhere (bucket retirement goes through the
// store-wide Store.retireList). Everything except the epoch is
// single-writer (only the owning Worker touches it); see spec.md §9.
type workerState struct {
	epoch     atomic.Uint64
	freeBcktH Offset
	freeBcktT Offset
}

func newWorkerState() *workerState {
	w := &workerState{}
	w.epoch.Store(epochIdle)
	return w
}

// observeGeneration publishes the store's current generation to this
// worker's slot. Every read or write operation calls this before
// touching the trie.
func (w *workerState) observeGeneration(s *Store) {
	w.epoch.Store(s.generation.Load())
}

// freeGeneration un-publishes the worker's epoch, marking it idle. Every
// operation calls this when it is done (deferred in practice).
func (w *workerState) freeGeneration() {
	w.epoch.Store(epochIdle)
}

// synchronizeGeneration increments the global generation and spin-waits
// until every worker's published epoch is either idle or newer than the
// generation just published - meaning no worker can still be
// dereferencing whatever was unlinked just before this call. Bounded by
// however long the slowest in-flight reader takes to finish.
func (s *Store) synchronizeGeneration() {
	gen := s.generation.Add(1)
	for {
		synced := true
		for i := range s.workers {
			if s.workers[i].epoch.Load() <= gen {
				synced = false
				break
			}
		}
		if synced {
			return
		}
		runtime.Gosched()
	}
}

package htrie

import "sync/atomic"

// Store is a concurrent, in-memory key-value index: a burst hash trie
// whose index nodes are fixed-fanout arrays of atomically-updated slots
// and whose leaves (buckets) hold a small collision chain behind an
// atomic occupancy bitmap. All mutation is CAS-driven; descent performs
// only atomic loads. See SPEC_FULL.md for the full design.
type Store struct {
	root     *indexNode
	rootBits uint32
	recLen   int
	flags    Flags
	varlen   bool
	inplace  bool

	nodes   *arena[indexNode]
	buckets *arena[bucket]

	alloc  Allocator
	dcache *dataChunkCache

	generation atomic.Uint64
	workers    []*workerState

	retireList          atomic.Pointer[retiredNode]
	burstAliasFallbacks atomic.Uint64
}

// retiredNode is one bucket offset awaiting epoch-safe reuse, linked into
// a lock-free LIFO (Store.retireList) by whichever worker unlinked it.
type retiredNode struct {
	bucketOff Offset
	gen       uint64
	next      *retiredNode
}

// New constructs a Store from the given configuration. A nil Config
// resolves entirely from environment defaults (see resolveConfig).
func New(c *Config) (*Store, error) {
	return newStore(resolveConfig(c))
}

func newStore(cfg *Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Store{
		rootBits: cfg.RootBits,
		recLen:   cfg.RecLen,
		flags:    cfg.Flags,
		varlen:   cfg.RecLen == 0,
		inplace:  cfg.Flags&FlagInplace != 0,
		nodes:    newArena[indexNode](),
		buckets:  newArena[bucket](),
		dcache:   newDataChunkCache(),
	}

	if cfg.Allocator != nil {
		s.alloc = cfg.Allocator
	} else {
		s.alloc = NewArenaAllocator(cfg.DBSize)
	}

	if _, err := s.alloc.AllocFix(RootSize(cfg.RootBits)); err != nil {
		return nil, err
	}
	s.root = newIndexNode(1 << cfg.RootBits)

	s.workers = make([]*workerState, cfg.Workers)
	for i := range s.workers {
		s.workers[i] = newWorkerState()
	}

	return s, nil
}

// Worker returns a handle bound to worker slot id, used to scope epoch
// publication for every operation that handle issues. id is reduced
// modulo the configured worker count, so callers may use any stable
// per-goroutine identifier (e.g. a shard index) without tracking the
// exact Workers value; ids that reduce to the same slot share one
// published epoch (see Worker).
func (s *Store) Worker(id int) *Worker {
	return &Worker{s: s, id: id % len(s.workers)}
}

// Worker is a handle through which one goroutine (or a set of goroutines
// that serialize among themselves) issues operations against a Store.
// Each id has a single published-epoch slot: when two goroutines issue
// operations on the same id at once, whichever finishes first marks the
// slot idle while the other is still running, so Remove's wait and
// bucket reclamation no longer account for the other one.
type Worker struct {
	s  *Store
	id int
}

// minWorkerEpoch returns the oldest (numerically smallest) epoch
// currently published by any worker, or epochIdle if every worker is
// idle. A retired bucket is safe to reuse once its retirement generation
// is older than this value.
func (s *Store) minWorkerEpoch() uint64 {
	min := epochIdle
	for _, w := range s.workers {
		if e := w.epoch.Load(); e < min {
			min = e
		}
	}
	return min
}

// retireBucket pushes off onto the lock-free retirement stack rather
// than reusing it immediately: some other worker's in-flight Lookup or
// Walk may still hold a pointer obtained before this bucket was unlinked
// from the trie.
func (s *Store) retireBucket(off Offset) {
	n := &retiredNode{bucketOff: off, gen: s.generation.Load()}
	for {
		old := s.retireList.Load()
		n.next = old
		if s.retireList.CompareAndSwap(old, n) {
			return
		}
	}
}

// reclaimBucket opportunistically pops the top (most recently retired)
// entry off the retirement stack if its retirement generation is old enough that every
// worker has since moved past it, resetting it for reuse. Returns a nil
// bucket if nothing is currently safe to reclaim; allocBucket falls back
// to a fresh allocation in that case. This is a best-effort reclaimer,
// not a precise one: the retirement stack is LIFO by unlink order, not
// by generation, so a younger entry ahead of an older one can block
// reclamation of the older one until it is popped in turn.
func (s *Store) reclaimBucket() (Offset, *bucket) {
	min := s.minWorkerEpoch()
	for {
		old := s.retireList.Load()
		if old == nil || old.gen >= min {
			return 0, nil
		}
		if s.retireList.CompareAndSwap(old, old.next) {
			b := s.buckets.get(old.bucketOff)
			b.reset()
			return old.bucketOff, b
		}
	}
}

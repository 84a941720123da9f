package htrie

// descend walks from the root resolving rootBits bits at the first level
// and bits (4) bits per level thereafter, stopping as soon as it reaches a
// data slot or an empty slot. It performs only atomic loads - no node is
// ever locked, so a concurrent insert or burst cannot block a reader or
// another inserter descending the same path (spec.md §4.2: "Descent
// performs only reads; it is wait-free").
//
// It returns the index node holding the terminal slot, the slot index
// within that node, the raw tagged value found there (0 if empty), and
// the number of key bits consumed including the terminal slot's own index
// (the bit position where the next level would start) - the caller needs
// all four to either read the bucket the slot names or to CAS the slot
// itself (insert, burst, remove).
func (s *Store) descend(key uint64) (node *indexNode, slot uint32, val uint32, consumedBits int) {
	node = s.root
	rootMask := uint32(1)<<s.rootBits - 1
	slot = uint32(key) & rootMask
	consumedBits = int(s.rootBits)
	val = node.child(slot)
	for val != 0 && !isData(val) {
		node = s.nodes.get(offsetOf(val))
		slot = idx(key, consumedBits)
		val = node.child(slot)
		consumedBits += bits
	}
	return node, slot, val, consumedBits
}

// bucketAt loads the bucket a data-tagged slot value names.
func (s *Store) bucketAt(val uint32) *bucket {
	return s.buckets.get(offsetOf(val))
}

// Lookup finds the record stored under key, or reports ok == false if no
// such key exists. Lookup clears the worker's published epoch before it
// returns, so in fixed-length-indirect and variable-length modes a
// concurrent Remove is free to reclaim (and a later Insert to reuse) the
// returned Record at any point after Lookup returns.
func (w *Worker) Lookup(key uint64) (rec *Record, ok bool) {
	ws := w.s.workers[w.id]
	ws.observeGeneration(w.s)
	defer ws.freeGeneration()

	_, _, val, _ := w.s.descend(key)
	if val == 0 || !isData(val) {
		return nil, false
	}
	b := w.s.bucketAt(val)
	return w.s.bscanForRec(b, key)
}

// bscanForRec linearly scans a bucket's collision chain for key, following
// the original's "collision chain" terminology: every live slot in a
// bucket is a candidate, regardless of insertion order.
func (s *Store) bscanForRec(b *bucket, key uint64) (*Record, bool) {
	m := b.occupiedBits()
	for slot := 0; slot < bucketSlots; slot++ {
		if !liveBit(m, slot) {
			continue
		}
		sl := &b.slots[slot]
		if sl.key == key {
			return sl.record(s.inplace), true
		}
	}
	return nil, false
}

package htrie

// Remove deletes every record stored under key - the whole collision
// chain at once, not one record at a time (see spec Non-goals: there is
// no per-key delete-of-a-specific-record). It reports ErrNotFound if no
// such key exists.
func (w *Worker) Remove(key uint64) error {
	ws := w.s.workers[w.id]
	ws.observeGeneration(w.s)
	defer ws.freeGeneration()
	return w.s.remove(ws, key)
}

func (s *Store) remove(ws *workerState, key uint64) error {
	for {
		node, slot, val, _ := s.descend(key)
		if val == 0 || !isData(val) {
			return ErrNotFound
		}
		b := s.bucketAt(val)
		m := b.occupiedBits()

		// Copy-on-write replacement holding every live slot whose key
		// does not match, published with a single CAS so a concurrent
		// reader always sees either the full old bucket or the new one
		// with every matching record already gone, never a half-updated
		// bitmap. removed collects the slots to reclaim once published.
		nb := newBucket()
		var nm uint64
		nextSlot := 0
		removed := make([]int, 0, 4)
		found := false
		for i := 0; i < bucketSlots; i++ {
			if !liveBit(m, i) {
				continue
			}
			if b.slots[i].key == key {
				found = true
				removed = append(removed, i)
				continue
			}
			nb.slots[nextSlot] = b.slots[i]
			nm |= bitMask(slotToBit(nextSlot))
			nextSlot++
		}
		if !found {
			return ErrNotFound
		}

		var newVal uint32
		if nm == 0 {
			newVal = 0
		} else {
			off := s.buckets.alloc(nb)
			newVal = encodeData(off)
		}

		if node.casChild(slot, val, newVal) {
			// Every payload release and the bucket's own reuse must wait
			// until no concurrent reader can still hold a pointer it
			// obtained before this CAS unlinked the old bucket. This
			// worker is done reading the trie, so it clears its own
			// published epoch first; the wait would never see it move
			// past the new generation otherwise.
			ws.freeGeneration()
			s.synchronizeGeneration()
			for _, i := range removed {
				s.releasePayload(b, i)
			}
			s.retireBucket(offsetOf(val))
			return nil
		}
	}
}

// releasePayload returns slot's backing storage to the data chunk cache
// (or the block allocator, for payloads too large to be cached), walking
// the full chunk chain in variable-length mode. Must only be called once
// the slot is unreachable from the trie and synchronizeGeneration has
// confirmed no in-flight reader can still be holding a pointer into it.
func (s *Store) releasePayload(b *bucket, slot int) {
	if s.inplace {
		return
	}
	rec := b.slots[slot].rec
	if rec == nil {
		return
	}
	if !s.varlen {
		s.freeChunk(rec)
		return
	}
	for chunk := rec; chunk != nil; {
		next := chunk.ChunkNext()
		s.freeChunk(chunk)
		chunk = next
	}
}

func (s *Store) freeChunk(rec *Record) {
	if !s.dcache.put(s.varlen, len(rec.Data), rec) {
		s.alloc.FreeBlock(rec.handle)
	}
}

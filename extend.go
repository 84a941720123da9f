package htrie

// ExtendRec appends more data onto an existing variable-length record's
// chunk chain in place. Callers must hold the single-writer-per-record
// contract: at most one goroutine may call ExtendRec (or Remove) against
// a given key at a time, though any number may concurrently Lookup it.
// A concurrent reader following ChunkNext always sees either the chain
// as it was before this call or the chain with the new chunk appended,
// never a partially linked chunk.
func (w *Worker) ExtendRec(key uint64, more []byte) error {
	if !w.s.varlen {
		return ErrFixedLenOnly
	}
	ws := w.s.workers[w.id]
	ws.observeGeneration(w.s)
	defer ws.freeGeneration()

	_, _, val, _ := w.s.descend(key)
	if val == 0 || !isData(val) {
		return ErrNotFound
	}
	b := w.s.bucketAt(val)
	rec, found := w.s.bscanForRec(b, key)
	if !found {
		return ErrNotFound
	}

	handle, rollback, err := w.s.accountRecord(len(more))
	if err != nil {
		return err
	}
	chunk := &Record{Key: key, Data: append([]byte(nil), more...), handle: handle}

	tail := rec
	for tail.ChunkNext() != nil {
		tail = tail.ChunkNext()
	}
	if !tail.next.CompareAndSwap(nil, chunk) {
		rollback()
		return ErrConcurrentWrite
	}
	return nil
}

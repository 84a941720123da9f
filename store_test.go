package htrie

import "testing"

func newVarlenStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(&Config{RootBits: 8})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// S1: duplicate keys form a collision chain; distinct keys stay distinct.
func TestInsertLookupVarlen(t *testing.T) {
	s := newVarlenStore(t)
	w := s.Worker(0)

	if _, err := w.Insert(0x1, []byte("abc")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Insert(0x1, []byte("defg")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Insert(0x11, []byte("xy")); err != nil {
		t.Fatal(err)
	}

	rec, ok := w.Lookup(0x1)
	if !ok {
		t.Fatal("expected key 0x1 to be found")
	}
	b := s.buckets.get(mustDescendBucket(t, s, 0x1))
	bodies := map[string]bool{}
	m := b.occupiedBits()
	for i := 0; i < bucketSlots; i++ {
		if !liveBit(m, i) {
			continue
		}
		if b.slots[i].key == 0x1 {
			bodies[string(b.slots[i].record(s.inplace).Data)] = true
		}
	}
	if !bodies["abc"] || !bodies["defg"] || len(bodies) != 2 {
		t.Fatalf("expected exactly {abc, defg} for key 0x1, got %v (rec=%v)", bodies, rec)
	}

	rec2, ok := w.Lookup(0x11)
	if !ok || string(rec2.Data) != "xy" {
		t.Fatalf("expected key 0x11 -> xy, got %v ok=%v", rec2, ok)
	}
}

func mustDescendBucket(t *testing.T, s *Store, key uint64) Offset {
	t.Helper()
	_, _, val, _ := s.descend(key)
	if val == 0 || !isData(val) {
		t.Fatalf("expected a bucket for key %x", key)
	}
	return offsetOf(val)
}

// S3: remove deletes every record sharing a key, not one at a time.
func TestRemoveAllDuplicates(t *testing.T) {
	s := newVarlenStore(t)
	w := s.Worker(0)

	const key = 0xdeadbeef
	for i := 0; i < 5; i++ {
		if _, err := w.Insert(key, []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}

	if err := w.Remove(key); err != nil {
		t.Fatal(err)
	}

	if _, ok := w.Lookup(key); ok {
		t.Fatal("expected key to be gone after Remove")
	}
}

func TestRemoveNotFound(t *testing.T) {
	s := newVarlenStore(t)
	w := s.Worker(0)
	if err := w.Remove(0x42); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertEmptyValueRejected(t *testing.T) {
	s := newVarlenStore(t)
	w := s.Worker(0)
	if _, err := w.Insert(1, nil); err != ErrEmptyValue {
		t.Fatalf("expected ErrEmptyValue, got %v", err)
	}
}

// Property: every inserted record is found by bscanForRec on the bucket
// lookup returns, for a modest pseudo-random key/value set.
func TestInsertThenLookupProperty(t *testing.T) {
	s := newVarlenStore(t)
	w := s.Worker(0)

	want := map[uint64]string{}
	for i := uint64(0); i < 500; i++ {
		key := i * 2654435761 // Knuth multiplicative hash, spreads low bits
		val := string(rune('a' + i%26))
		want[key] = val
		if _, err := w.Insert(key, []byte(val)); err != nil {
			t.Fatalf("insert %x: %v", key, err)
		}
	}

	for key, val := range want {
		_, _, dval, _ := s.descend(key)
		if dval == 0 || !isData(dval) {
			t.Fatalf("key %x: expected a bucket", key)
		}
		b := s.bucketAt(dval)
		rec, found := s.bscanForRec(b, key)
		if !found {
			t.Fatalf("key %x not found via bscanForRec", key)
		}
		if string(rec.Data) != val {
			t.Fatalf("key %x: want %q got %q", key, val, rec.Data)
		}
	}
}

func TestWalkVisitsEveryRecord(t *testing.T) {
	s := newVarlenStore(t)
	w := s.Worker(0)

	n := 200
	for i := 0; i < n; i++ {
		if _, err := w.Insert(uint64(i)*104729, []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}

	seen := 0
	err := w.Walk(func(rec *Record) error {
		seen++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if seen != n {
		t.Fatalf("expected to walk %d records, saw %d", n, seen)
	}
}

func TestExtendRecAppendsChunk(t *testing.T) {
	s := newVarlenStore(t)
	w := s.Worker(0)

	if _, err := w.Insert(7, []byte("head")); err != nil {
		t.Fatal(err)
	}
	if err := w.ExtendRec(7, []byte("tail")); err != nil {
		t.Fatal(err)
	}

	rec, ok := w.Lookup(7)
	if !ok {
		t.Fatal("expected key 7 to be found")
	}
	if string(rec.Data) != "head" {
		t.Fatalf("expected head chunk data %q, got %q", "head", rec.Data)
	}
	next := rec.ChunkNext()
	if next == nil || string(next.Data) != "tail" {
		t.Fatalf("expected tail chunk appended, got %v", next)
	}
}

func TestExtendRecRejectedOnFixedLength(t *testing.T) {
	s, err := New(&Config{RootBits: 4, RecLen: 8})
	if err != nil {
		t.Fatal(err)
	}
	w := s.Worker(0)
	if _, err := w.Insert(1, make([]byte, 8)); err != nil {
		t.Fatal(err)
	}
	if err := w.ExtendRec(1, []byte("x")); err != ErrFixedLenOnly {
		t.Fatalf("expected ErrFixedLenOnly, got %v", err)
	}
}

package htrie

import "errors"

// Sentinel errors returned by Store/Worker operations. Contention retries
// (CAS failures) and the degenerate-burst signal are internal control flow
// and never surface as errors.
var (
	// ErrEmptyValue is returned by Insert when len(data) == 0.
	ErrEmptyValue = errors.New("htrie: empty value")

	// ErrNoSpace is returned by Insert when the key's bits are fully
	// resolved (every trie level has been consumed) and the bucket at
	// that depth is still full: there is no more room to disambiguate
	// the key. Allocator exhaustion is reported as ErrOOM instead.
	ErrNoSpace = errors.New("htrie: key space exhausted, no room to insert")

	// ErrOOM is returned when the Allocator cannot satisfy a request.
	ErrOOM = errors.New("htrie: allocator out of memory")

	// ErrInvalidConfig is returned by New/Init when the configuration is
	// invalid.
	ErrInvalidConfig = errors.New("htrie: invalid configuration")

	// ErrFixedLenOnly is returned by ExtendRec when called against a
	// fixed-length-mode store.
	ErrFixedLenOnly = errors.New("htrie: cannot extend a fixed-length record")

	// ErrNotFound is returned by Remove and ExtendRec when the key is
	// absent.
	ErrNotFound = errors.New("htrie: key not found")

	// ErrConcurrentWrite is returned by ExtendRec when its chunk-chain
	// CAS loses a race, meaning two workers extended the same record at
	// once - a violation of the single-writer-per-record contract.
	ErrConcurrentWrite = errors.New("htrie: concurrent write to the same record")
)

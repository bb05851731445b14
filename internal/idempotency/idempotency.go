// Package idempotency provides an in-memory store that makes retried writes
// safe: the first result produced under a (scope, key) pair is stored and
// every later caller gets those exact bytes back.
package idempotency

import (
	"sync"
	"time"
)

// Record is a stored write result. Once written it is immutable.
type Record struct {
	Result    []byte
	CreatedAt time.Time
}

// Store maps (scope, key) to the result of the first completed write.
// Scope partitions keys by operation type so unrelated endpoints cannot
// collide. Entries live for the process lifetime; there is no eviction.
type Store struct {
	mu      sync.Mutex
	records map[string]map[string]Record
}

// NewStore creates an empty idempotency store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]map[string]Record),
	}
}

// Get returns the stored result for (scope, key), if any.
func (s *Store) Get(scope, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[scope][key]
	if !ok {
		return nil, false
	}
	return rec.Result, true
}

// PutIfAbsent stores result under (scope, key) unless a result already
// exists, and returns whichever result is now stored. Check and insert happen
// under one lock, so concurrent callers racing on the same key all observe
// the single winning result.
func (s *Store) PutIfAbsent(scope, key string, result []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(scope, key, result)
}

// Do runs fn and stores its result under (scope, key), unless a result is
// already present, in which case fn is skipped and the stored bytes are
// returned with replayed=true. The presence check, fn, and the store all
// happen inside one critical section: two concurrent retries can never both
// execute fn for the same key. If fn fails nothing is stored, so a later
// retry re-executes it.
func (s *Store) Do(scope, key string, fn func() ([]byte, error)) (result []byte, replayed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[scope][key]; ok {
		return rec.Result, true, nil
	}

	result, err = fn()
	if err != nil {
		return nil, false, err
	}

	return s.putLocked(scope, key, result), false, nil
}

// putLocked inserts result if absent and returns the stored value.
// Callers must hold s.mu.
func (s *Store) putLocked(scope, key string, result []byte) []byte {
	byKey, ok := s.records[scope]
	if !ok {
		byKey = make(map[string]Record)
		s.records[scope] = byKey
	}
	if rec, ok := byKey[key]; ok {
		return rec.Result
	}
	byKey[key] = Record{Result: result, CreatedAt: time.Now()}
	return result
}

// Len returns the number of records held under scope. Entries are never
// evicted, so this only grows; exposed for observability.
func (s *Store) Len(scope string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records[scope])
}

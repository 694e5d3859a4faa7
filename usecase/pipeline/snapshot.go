package pipeline

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// versions is shared by every store so a version number identifies one snapshot process-wide.
var versions atomic.Uint64

// Snapshot is an immutable delivery of a collection. Items must not be modified.
type Snapshot[T any] struct {
	Version     uint64
	Items       []T
	Fingerprint uint64
	FetchedAt   time.Time

	ticket uint64
}

// SnapshotStore keeps the latest snapshot per collection key.
//
// A fetch takes a Ticket before calling the data layer and publishes with it;
// deliveries older than the stored one are ignored. A delivery with unchanged
// content keeps the stored snapshot so memoized derivations stay valid.
type SnapshotStore[T any] struct {
	mu      sync.Mutex
	tickets atomic.Uint64
	current *lru.Cache[string, *Snapshot[T]]
	retired func(version uint64)
}

// NewSnapshotStore creates a store holding at most size collections.
// retired is called with the version of every snapshot that is replaced or evicted.
func NewSnapshotStore[T any](size int, retired func(version uint64)) (*SnapshotStore[T], error) {
	if size <= 0 {
		size = 256
	}
	if retired == nil {
		retired = func(uint64) {}
	}
	s := &SnapshotStore[T]{retired: retired}
	cache, err := lru.NewWithEvict[string, *Snapshot[T]](size, func(_ string, snap *Snapshot[T]) {
		s.retired(snap.Version)
	})
	if err != nil {
		return nil, err
	}
	s.current = cache
	return s, nil
}

// Ticket orders fetches; take one right before asking the data layer.
func (s *SnapshotStore[T]) Ticket() uint64 {
	return s.tickets.Add(1)
}

// Current returns the latest snapshot of key.
func (s *SnapshotStore[T]) Current(key string) (*Snapshot[T], bool) {
	return s.current.Get(key)
}

// Publish records a delivery of items for key and returns the snapshot callers should derive from.
func (s *SnapshotStore[T]) Publish(key string, ticket uint64, items []T) (*Snapshot[T], error) {
	sum, err := fingerprint(items)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.current.Peek(key)
	if ok && ticket < cur.ticket {
		return cur, nil
	}
	if ok && cur.Fingerprint == sum {
		cur.ticket = ticket
		return cur, nil
	}

	snap := &Snapshot[T]{
		Version:     versions.Add(1),
		Items:       items,
		Fingerprint: sum,
		FetchedAt:   time.Now(),
		ticket:      ticket,
	}
	s.current.Add(key, snap)
	if ok {
		s.retired(cur.Version)
	}
	return snap, nil
}

// Invalidate drops the stored snapshot of key, forcing the next publish to create a new version.
func (s *SnapshotStore[T]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Remove(key)
}

func fingerprint[T any](items []T) (uint64, error) {
	d := xxhash.New()
	if err := json.NewEncoder(d).Encode(items); err != nil {
		return 0, fmt.Errorf("fingerprint snapshot: %w", err)
	}
	return d.Sum64(), nil
}

// InvalidateAll drops every stored snapshot. Each one is reported as retired.
func (s *SnapshotStore[T]) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Purge()
}

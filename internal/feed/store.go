// Package feed is the feed engine: the ordered story list, the pagination
// loader that extends it, the tracker that follows the visible story and the
// end-of-feed banner state machine.
//
// A Session bundles one instance of each component. Sessions share nothing, so
// any number of them can run side by side.
package feed

import (
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by store mutators after the session was torn down.
	ErrClosed = errors.New("feed: session closed")
	// ErrExhausted is returned when a merge is attempted on an exhausted feed.
	ErrExhausted = errors.New("feed: feed exhausted")
)

// Item is one playable story. Slug is its identity within a session.
type Item struct {
	Slug        string
	Title       string
	Description string
	MediaURL    string
	Reporter    string
	Channel     string
	Domain      string
}

// Snapshot is a consistent copy of the store state.
type Snapshot struct {
	Items       []Item
	Cursor      int
	Exhausted   bool
	ActiveIndex int
}

// AtLastItem reports whether the active index points at the final item.
func (s Snapshot) AtLastItem() bool {
	return len(s.Items) > 0 && s.ActiveIndex == len(s.Items)-1
}

// Merge describes what AppendItems did with a batch of candidates.
type Merge struct {
	Added      int
	Duplicates int
	Exhausted  bool
	Cursor     int
}

// Store owns the item list, the page cursor, the exhaustion flag and the
// active index. All reads and writes go through its lock, so readers never see
// a partially applied merge.
type Store struct {
	mu          sync.RWMutex
	items       []Item
	slugs       map[string]struct{}
	cursor      int
	exhausted   bool
	activeIndex int
	closed      bool
}

// NewStore seeds a store with the initial batch. Duplicate slugs in the seed
// keep their first occurrence.
func NewStore(seed []Item) *Store {
	s := &Store{slugs: make(map[string]struct{}, len(seed))}
	s.items, _ = dedupe(seed, s.slugs)
	for _, item := range s.items {
		s.slugs[item.Slug] = struct{}{}
	}
	return s
}

func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Item(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

func (s *Store) Exhausted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exhausted
}

func (s *Store) ActiveIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeIndex
}

// Active returns the currently active item, if any.
func (s *Store) Active() (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.items) == 0 {
		return Item{}, false
	}
	return s.items[s.activeIndex], true
}

// At returns the item at index i.
func (s *Store) At(i int) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return Item{}, false
	}
	return s.items[i], true
}

// IndexOf returns the index of slug or -1.
func (s *Store) IndexOf(slug string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.slugs[slug]; !ok {
		return -1
	}
	for i, item := range s.items {
		if item.Slug == slug {
			return i
		}
	}
	return -1
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Items:       append([]Item(nil), s.items...),
		Cursor:      s.cursor,
		Exhausted:   s.exhausted,
		ActiveIndex: s.activeIndex,
	}
}

// AppendItems merges a fetched page. An empty page, or one made only of slugs
// already present, exhausts the feed. Otherwise the new items are appended in
// received order and the cursor advances by one.
func (s *Store) AppendItems(candidates []Item) (Merge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Merge{}, ErrClosed
	}
	if s.exhausted {
		return Merge{Exhausted: true, Cursor: s.cursor}, ErrExhausted
	}

	fresh, dupes := dedupe(candidates, s.slugs)
	if len(fresh) == 0 {
		s.exhausted = true
		return Merge{Duplicates: dupes, Exhausted: true, Cursor: s.cursor}, nil
	}

	for _, item := range fresh {
		s.slugs[item.Slug] = struct{}{}
	}
	s.items = append(s.items, fresh...)
	s.cursor++
	return Merge{Added: len(fresh), Duplicates: dupes, Cursor: s.cursor}, nil
}

// MarkExhausted flips the one-way exhaustion flag.
func (s *Store) MarkExhausted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.exhausted = true
}

// SetActiveIndex clamps i into the item range and stores it. The stored value
// is returned.
func (s *Store) SetActiveIndex(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.activeIndex
	}
	s.activeIndex = clampIndex(i, len(s.items))
	return s.activeIndex
}

// Close tears the store down. Later mutations are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func clampIndex(i, size int) int {
	if size <= 0 || i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}

package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemStore keeps the catalog in a map keyed by a private slot number, so
// books with equal names or even equal IDs can sit side by side.
type MemStore struct {
	mu    sync.RWMutex
	m     map[uint64]Book
	next  uint64
	newID func() string
}

type MemOption func(*MemStore)

// WithIDGenerator overrides the ID assigned to replacement books.
func WithIDGenerator(fn func() string) MemOption {
	return func(s *MemStore) { s.newID = fn }
}

func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{
		m:     map[uint64]Book{},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Book, 0, len(s.m))
	for _, b := range s.m {
		out = append(out, b)
	}
	return out, nil
}

func (s *MemStore) Insert(ctx context.Context, b Book) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(b)
	return b, nil
}

func (s *MemStore) TakeByName(ctx context.Context, name string) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, b, ok := s.findByName(name)
	if !ok {
		return Book{}, nameNotFound(OpTake, name)
	}
	delete(s.m, slot)
	return b, nil
}

func (s *MemStore) Replace(ctx context.Context, name string, b Book) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, old, ok := s.findByName(name)
	if !ok {
		return Book{}, nameNotFound(OpReplace, name)
	}

	b.ID = s.newID()
	delete(s.m, slot)
	s.put(b)
	return old, nil
}

func (s *MemStore) FilterByAuthor(ctx context.Context, author string) ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Book, 0, MaxAuthorResults)
	for _, b := range s.m {
		if b.Author != author {
			continue
		}
		out = append(out, b)
		if len(out) == MaxAuthorResults {
			break
		}
	}

	if len(out) == 0 {
		return nil, authorNotFound(author)
	}
	return out, nil
}

func (s *MemStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m), nil
}

// put and findByName expect s.mu to be held.

func (s *MemStore) put(b Book) {
	s.next++
	s.m[s.next] = b
}

func (s *MemStore) findByName(name string) (uint64, Book, bool) {
	for slot, b := range s.m {
		if b.Name == name {
			return slot, b, true
		}
	}
	return 0, Book{}, false
}

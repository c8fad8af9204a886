package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryCaseStore is an in-memory implementation of CaseStore.
// Suitable for development and testing.
type MemoryCaseStore struct {
	mu     sync.RWMutex
	cases  map[uint]*FraudCase
	nextID uint
	closed bool
}

// NewMemoryCaseStore creates a new in-memory case store.
func NewMemoryCaseStore() *MemoryCaseStore {
	return &MemoryCaseStore{
		cases:  make(map[uint]*FraudCase),
		nextID: 1,
	}
}

func (s *MemoryCaseStore) Create(ctx context.Context, c *FraudCase) error {
	if c == nil {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if c.ID == 0 {
		c.ID = s.nextID
		s.nextID++
	} else if c.ID >= s.nextID {
		s.nextID = c.ID + 1
	}
	if c.Status == "" {
		c.Status = StatusPendingReview
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	cp := *c
	s.cases[c.ID] = &cp
	return nil
}

func (s *MemoryCaseStore) GetByID(ctx context.Context, id uint) (*FraudCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	c, ok := s.cases[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryCaseStore) FindPendingByName(ctx context.Context, name string) (*FraudCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	want := normalizeName(name)

	// Iterate in primary-key order to match the gorm backend.
	ids := make([]uint, 0, len(s.cases))
	for id := range s.cases {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		c := s.cases[id]
		if c.Status == StatusPendingReview && normalizeName(c.CustomerName) == want {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryCaseStore) SetStatus(ctx context.Context, id uint, status CaseStatus, note string) error {
	if !status.IsTerminal() {
		return ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	c, ok := s.cases[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != StatusPendingReview {
		return ErrCaseResolved
	}

	c.Status = status
	c.OutcomeNote = note
	c.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryCaseStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

func (s *MemoryCaseStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ensure MemoryCaseStore implements CaseStore
var _ CaseStore = (*MemoryCaseStore)(nil)

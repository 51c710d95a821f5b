package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"partnerdesk/internal/tender"
)

// InMemoryStore keeps tenders in a map. It mirrors the PostgreSQL store's
// compare-and-swap semantics so concurrency tests exercise the same
// discipline production runs under.
type InMemoryStore struct {
	mu      sync.RWMutex
	tenders map[uuid.UUID]tender.Tender
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tenders: make(map[uuid.UUID]tender.Tender)}
}

func (s *InMemoryStore) Create(_ context.Context, t *tender.Tender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Version == 0 {
		t.Version = 1
	}
	s.tenders[t.ID] = cloneTender(*t)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id uuid.UUID) (*tender.Tender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tenders[id]; ok {
		out := cloneTender(t)
		return &out, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]tender.Tender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tender.Tender, 0, len(s.tenders))
	for _, t := range s.tenders {
		out = append(out, cloneTender(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, t *tender.Tender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tenders[t.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != t.Version {
		return ErrVersionConflict
	}
	t.Version++
	t.UpdatedAt = time.Now()
	s.tenders[t.ID] = cloneTender(*t)
	return nil
}

// Snapshot and Restore let the in-memory transactor roll back failed
// multi-store operations.
func (s *InMemoryStore) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make(map[uuid.UUID]tender.Tender, len(s.tenders))
	for id, t := range s.tenders {
		copied[id] = cloneTender(t)
	}
	return copied
}

func (s *InMemoryStore) Restore(state any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenders = state.(map[uuid.UUID]tender.Tender)
}

func cloneTender(t tender.Tender) tender.Tender {
	out := t
	out.InvitedPartners = append([]uuid.UUID(nil), t.InvitedPartners...)
	out.RequiredSolutions = append([]string(nil), t.RequiredSolutions...)
	out.Products = append([]string(nil), t.Products...)
	out.Responses = make([]tender.Response, len(t.Responses))
	for i, r := range t.Responses {
		out.Responses[i] = cloneResponse(r)
	}
	return out
}

func cloneResponse(r tender.Response) tender.Response {
	out := r
	out.CommittedTrainingSessions = append([]uuid.UUID(nil), r.CommittedTrainingSessions...)
	if r.FinalCertificationStatus != nil {
		final := *r.FinalCertificationStatus
		out.FinalCertificationStatus = &final
	}
	return out
}

package journey

import (
	"context"
	"sync"

	"driveport/internal/domain"
)

// InMemoryStore keeps journey records per session. Suitable for tests and
// single-process deployments.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string][]domain.JourneyRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string][]domain.JourneyRecord)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string][]domain.JourneyRecord)
}

// Append stores the record and assigns its arrival sequence under the lock,
// so concurrent appends to one session never collide.
func (s *InMemoryStore) Append(_ context.Context, record domain.JourneyRecord) (domain.JourneyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Seq = uint64(len(s.records[record.SessionID]) + 1)
	s.records[record.SessionID] = append(s.records[record.SessionID], record)
	return record, nil
}

func (s *InMemoryStore) ListBySession(_ context.Context, sessionID string) ([]domain.JourneyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.JourneyRecord{}, s.records[sessionID]...), nil
}

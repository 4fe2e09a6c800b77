package outbox

import (
    "context"
    "sync"
    "time"
)

// MemoryStore is an in-process Store used by tests and as a fallback
// when no Redis is configured.  It keeps entries in insertion order.
type MemoryStore struct {
    mu      sync.Mutex
    nextID  uint64
    entries []Entry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) add(e Entry) uint64 {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.nextID++
    e.ID = s.nextID
    e.EnqueuedAt = time.Now().UTC()
    s.entries = append(s.entries, e)
    return e.ID
}

func (s *MemoryStore) AddCleaning(_ context.Context, c PendingCleaning) (uint64, error) {
    return s.add(Entry{Cleaning: &c}), nil
}

func (s *MemoryStore) AddIncident(_ context.Context, i PendingIncident) (uint64, error) {
    return s.add(Entry{Incident: &i}), nil
}

func (s *MemoryStore) Unsynced(_ context.Context) ([]Entry, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make([]Entry, len(s.entries))
    copy(out, s.entries)
    return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    for i, e := range s.entries {
        if e.ID == id {
            s.entries = append(s.entries[:i], s.entries[i+1:]...)
            return nil
        }
    }
    return nil
}

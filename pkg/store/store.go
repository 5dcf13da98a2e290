// Package store defines the persistence boundary for computation
// sessions. The engine is storage-agnostic: it only depends on the Store
// interface, and the orchestration layer decides which implementation
// backs it.
package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/privamed/smpc/pkg/session"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Filter narrows a listing. Zero-value fields match everything.
type Filter struct {
	OrgID  string
	Status session.Status
	Type   session.ComputationType
}

func (f Filter) matches(s *session.Session) bool {
	if f.OrgID != "" && !s.IsParticipant(f.OrgID) {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	return true
}

// Store persists computation sessions. Save must be durable for COMPUTED
// sessions before it returns.
type Store interface {
	Save(s *session.Session) error
	Load(id string) (*session.Session, error)
	List(filter Filter) ([]*session.Session, error)
}

// MemoryStore is an in-process Store for tests and single-node pilots.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*session.Session)}
}

func (ms *MemoryStore) Save(s *session.Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[s.ID] = s.Clone()
	return nil
}

func (ms *MemoryStore) Load(id string) (*session.Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	s, ok := ms.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (ms *MemoryStore) List(filter Filter) ([]*session.Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var result []*session.Session
	for _, s := range ms.sessions {
		if filter.matches(s) {
			result = append(result, s.Clone())
		}
	}

	sortNewestFirst(result)
	return result, nil
}

func sortNewestFirst(sessions []*session.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
}

package sheet

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/wta/internal/game/character"
)

// ErrActorNotFound is returned by MemoryStore when no actor has the ID.
var ErrActorNotFound = errors.New("actor not found")

// MemoryStore is a Store that keeps actors in process memory. Get and Save
// copy, so callers never share an actor with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	actors map[uuid.UUID]*character.Actor
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{actors: make(map[uuid.UUID]*character.Actor)}
}

// Get returns a copy of the actor with id.
//
// Postcondition: Returns ErrActorNotFound if no actor has id.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*character.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actors[id]
	if !ok {
		return nil, ErrActorNotFound
	}
	return a.Clone(), nil
}

// Save stores a copy of a, stamping CreatedAt on first save and UpdatedAt on every save.
func (s *MemoryStore) Save(_ context.Context, a *character.Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if prev, ok := s.actors[a.ID]; ok {
		a.CreatedAt = prev.CreatedAt
	} else if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	s.actors[a.ID] = a.Clone()
	return nil
}

// List returns copies of all stored actors ordered by name.
func (s *MemoryStore) List(_ context.Context) ([]*character.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*character.Actor, 0, len(s.actors))
	for _, a := range s.actors {
		out = append(out, a.Clone())
	}
	slices.SortFunc(out, func(x, y *character.Actor) int {
		return strings.Compare(x.Name, y.Name)
	})
	return out, nil
}

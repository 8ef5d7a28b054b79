package persona

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Lookup for an unknown persona id.
var ErrNotFound = errors.New("persona not found")

// Store exposes persona retrieval for HTTP handlers.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
}

// MemoryStore is a read-only Store built once at startup. List keeps the
// seed order; later duplicates of an id are ignored.
type MemoryStore struct {
	order []string
	byID  map[string]Persona
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
func NewMemoryStore(items []Persona) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]Persona, len(items))}
	for _, item := range items {
		if _, dup := s.byID[item.ID]; dup {
			continue
		}
		s.order = append(s.order, item.ID)
		s.byID[item.ID] = item
	}
	return s
}

// List returns every persona in seed order.
func (s *MemoryStore) List() []Persona {
	out := make([]Persona, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Lookup is FindByID for callers that want an error.
func Lookup(store Store, id string) (Persona, error) {
	p, ok := store.FindByID(id)
	if !ok {
		return Persona{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

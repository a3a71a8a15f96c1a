package creature

import (
	"fmt"
	"sort"
)

// Registry holds loaded species indexed by ID.
type Registry struct {
	species map[string]*Species
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{species: make(map[string]*Species)}
}

// Register adds s to the registry.
//
// Precondition: s must not be nil.
// Postcondition: Species(s.ID) returns s; returns error if s.ID already registered.
func (r *Registry) Register(s *Species) error {
	if _, exists := r.species[s.ID]; exists {
		return fmt.Errorf("creature: Registry.Register: species ID %q already registered", s.ID)
	}
	r.species[s.ID] = s
	return nil
}

// Species returns the Species for the given id and whether it was found.
func (r *Registry) Species(id string) (*Species, bool) {
	s, ok := r.species[id]
	return s, ok
}

// IDs returns all registered species IDs in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.species))
	for id := range r.species {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Roster builds one fresh creature per species ID, in the given order.
//
// Precondition: ids must be non-empty.
// Postcondition: Returns len(ids) creatures at full HP, or an error naming the
// first unknown species.
func (r *Registry) Roster(ids ...string) ([]*Creature, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("creature: roster needs at least one species")
	}
	out := make([]*Creature, 0, len(ids))
	for _, id := range ids {
		s, ok := r.species[id]
		if !ok {
			return nil, fmt.Errorf("creature: unknown species %q", id)
		}
		out = append(out, s.NewCreature())
	}
	return out, nil
}

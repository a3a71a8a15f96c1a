package creature

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Species is a reusable creature template loaded from YAML.
type Species struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	Element Element `yaml:"element"`
	Stats   Stats   `yaml:"stats"`
	Skills  []Skill `yaml:"skills"`
}

// Validate checks that the species satisfies basic invariants.
//
// Precondition: s must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1, all
// other stats are >= 0, there is at least one skill, and skill IDs are non-empty
// and unique; returns an error on the first violation otherwise.
func (s *Species) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("species: id must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("species %q: name must not be empty", s.ID)
	}
	if s.Stats.MaxHP < 1 {
		return fmt.Errorf("species %q: max_hp must be >= 1", s.ID)
	}
	if s.Stats.Attack < 0 || s.Stats.Defense < 0 || s.Stats.SpAttack < 0 || s.Stats.SpDefense < 0 || s.Stats.Speed < 0 {
		return fmt.Errorf("species %q: stats must not be negative", s.ID)
	}
	if len(s.Skills) == 0 {
		return fmt.Errorf("species %q: at least one skill is required", s.ID)
	}
	seen := make(map[string]bool, len(s.Skills))
	for _, sk := range s.Skills {
		if sk.ID == "" {
			return fmt.Errorf("species %q: skill id must not be empty", s.ID)
		}
		if seen[sk.ID] {
			return fmt.Errorf("species %q: duplicate skill id %q", s.ID, sk.ID)
		}
		seen[sk.ID] = true
		if sk.BaseDamage < 0 {
			return fmt.Errorf("species %q: skill %q base_damage must be >= 0", s.ID, sk.ID)
		}
	}
	return nil
}

// NewCreature builds a fresh battle-ready creature from the species.
//
// Precondition: s must have passed Validate.
// Postcondition: the creature has a new unique ID and HP == MaxHP.
func (s *Species) NewCreature() *Creature {
	skills := make([]Skill, len(s.Skills))
	copy(skills, s.Skills)
	return &Creature{
		ID:        uuid.New().String(),
		SpeciesID: s.ID,
		Name:      s.Name,
		Element:   s.Element,
		HP:        s.Stats.MaxHP,
		Stats:     s.Stats,
		Skills:    skills,
	}
}

// LoadSpeciesFromBytes parses a single species from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Species.
// Postcondition: Returns a validated *Species, or an error.
func LoadSpeciesFromBytes(data []byte) (*Species, error) {
	var s Species
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing species YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSpecies reads all *.yaml files in dir and returns the parsed species.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all species or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadSpecies(dir string) ([]*Species, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading species dir %q: %w", dir, err)
	}

	var species []*Species
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		s, err := LoadSpeciesFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		species = append(species, s)
	}
	return species, nil
}

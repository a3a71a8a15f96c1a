package importer

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// TrainerFile is the on-disk layout of a roster seed file.
type TrainerFile struct {
	Trainers []TrainerSpec `yaml:"trainers"`
}

// TrainerSpec describes one trainer and the species of its roster, in slot order.
type TrainerSpec struct {
	// ID defaults to NameToID(Name) when empty.
	ID      string   `yaml:"id,omitempty"`
	Name    string   `yaml:"name"`
	Species []string `yaml:"species"`
}

// LoadTrainerFile parses the seed file at path.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns the parsed file with every empty ID derived from the
// trainer name, or an error.
func LoadTrainerFile(path string) (*TrainerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return ParseTrainerFile(data)
}

// ParseTrainerFile parses seed YAML from raw bytes.
func ParseTrainerFile(data []byte) (*TrainerFile, error) {
	var f TrainerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing trainer YAML: %w", err)
	}
	for i := range f.Trainers {
		if f.Trainers[i].ID == "" {
			f.Trainers[i].ID = NameToID(f.Trainers[i].Name)
		}
	}
	return &f, nil
}

// NameToID derives a trainer id from a display name: lowercase ASCII letters,
// digits and underscores, with spaces becoming underscores.
//
// Postcondition: NameToID(NameToID(s)) == NameToID(s).
func NameToID(name string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		switch {
		case r == ' ':
			return '_'
		case r == '_', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, name)
}

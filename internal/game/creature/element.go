// Package creature defines battle creatures, their skills, and the species
// templates rosters are built from.
package creature

import (
	"fmt"
	"strings"
)

// Element is the elemental type of a creature or skill.
// The zero value (ElementNormal) is neutral against everything.
type Element int

const (
	ElementNormal Element = iota
	ElementFire
	ElementWater
	ElementLeaf
)

// String returns the lowercase name of the Element.
//
// Postcondition: returns "normal", "fire", "water", "leaf", or "unknown".
func (e Element) String() string {
	switch e {
	case ElementNormal:
		return "normal"
	case ElementFire:
		return "fire"
	case ElementWater:
		return "water"
	case ElementLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// ParseElement converts a case-insensitive element name into an Element.
//
// Postcondition: Returns the matching Element, or an error for names outside
// the closed set {normal, fire, water, leaf}.
func ParseElement(s string) (Element, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return ElementNormal, nil
	case "fire":
		return ElementFire, nil
	case "water":
		return ElementWater, nil
	case "leaf":
		return ElementLeaf, nil
	default:
		return ElementNormal, fmt.Errorf("creature: unknown element %q", s)
	}
}

// MarshalYAML encodes the Element as its name.
func (e Element) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

// UnmarshalYAML decodes an element name.
func (e *Element) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseElement(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Attribute bounds.
const (
	MinAttribute = 1
	MaxAttribute = 99
)

// Attribute names one of the six skill dimensions.
type Attribute int

// Attributes in canonical order: pac, sho, pas, dri, def, phy.
const (
	Pace Attribute = iota
	Shooting
	Passing
	Dribbling
	Defending
	Physical

	AttributeCount = 6
)

var attributeKeys = [AttributeCount]string{"pac", "sho", "pas", "dri", "def", "phy"}

// AllAttributes lists the attributes in canonical order.
func AllAttributes() []Attribute {
	return []Attribute{Pace, Shooting, Passing, Dribbling, Defending, Physical}
}

// String returns the short key used on the wire ("pac", "sho", ...).
func (a Attribute) String() string {
	if a < 0 || int(a) >= AttributeCount {
		return fmt.Sprintf("attribute(%d)", int(a))
	}
	return attributeKeys[a]
}

// ParseAttribute maps a short key to an Attribute.
func ParseAttribute(s string) (Attribute, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, k := range attributeKeys {
		if k == key {
			return Attribute(i), true
		}
	}
	return 0, false
}

// AttributeSet is the six-dimensional player skill vector.
type AttributeSet struct {
	Pac int `json:"pac" yaml:"pac"`
	Sho int `json:"sho" yaml:"sho"`
	Pas int `json:"pas" yaml:"pas"`
	Dri int `json:"dri" yaml:"dri"`
	Def int `json:"def" yaml:"def"`
	Phy int `json:"phy" yaml:"phy"`
}

// Get returns the value of a single attribute.
func (s AttributeSet) Get(a Attribute) int {
	switch a {
	case Pace:
		return s.Pac
	case Shooting:
		return s.Sho
	case Passing:
		return s.Pas
	case Dribbling:
		return s.Dri
	case Defending:
		return s.Def
	case Physical:
		return s.Phy
	}
	return 0
}

// Set assigns a single attribute.
func (s *AttributeSet) Set(a Attribute, v int) {
	switch a {
	case Pace:
		s.Pac = v
	case Shooting:
		s.Sho = v
	case Passing:
		s.Pas = v
	case Dribbling:
		s.Dri = v
	case Defending:
		s.Def = v
	case Physical:
		s.Phy = v
	}
}

// Values returns the attributes in canonical order.
func (s AttributeSet) Values() [AttributeCount]int {
	return [AttributeCount]int{s.Pac, s.Sho, s.Pas, s.Dri, s.Def, s.Phy}
}

// Delta holds non-negative attribute growth indexed by Attribute.
type Delta [AttributeCount]int

// Add increments one attribute of the delta.
func (d *Delta) Add(a Attribute, n int) {
	d[a] += n
}

// AddAll increments every attribute by n.
func (d *Delta) AddAll(n int) {
	for i := range d {
		d[i] += n
	}
}

// Total returns the sum of all attribute deltas.
func (d Delta) Total() int {
	total := 0
	for _, v := range d {
		total += v
	}
	return total
}

// Map renders the delta keyed by short attribute name.
func (d Delta) Map() map[string]int {
	out := make(map[string]int, AttributeCount)
	for i, v := range d {
		out[attributeKeys[i]] = v
	}
	return out
}

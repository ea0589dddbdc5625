package evaluation

import (
	"fmt"
	"slices"
)

// MaxTags is the hard cap on tags per player per match.
const MaxTags = 3

// Rating bounds.
const (
	MinRating = 1.0
	MaxRating = 10.0
)

// PerformanceRecord is one player's input for one match. Rating zero means
// no rating was given.
type PerformanceRecord struct {
	PlayerID string   `json:"player_id" yaml:"player_id"`
	Goals    int      `json:"goals" yaml:"goals"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Rating   float64  `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// AddTag attaches a tag. Re-adding a present tag is a no-op; a fourth
// distinct tag fails with ErrTagLimitExceeded and leaves the record as is.
func (r *PerformanceRecord) AddTag(id string) error {
	if slices.Contains(r.Tags, id) {
		return nil
	}
	if len(r.Tags) >= MaxTags {
		return fmt.Errorf("%w: %s already has %d tags, cannot add %q", ErrTagLimitExceeded, r.PlayerID, len(r.Tags), id)
	}
	r.Tags = append(r.Tags, id)
	return nil
}

// RemoveTag detaches a tag if present.
func (r *PerformanceRecord) RemoveTag(id string) {
	r.Tags = slices.DeleteFunc(r.Tags, func(t string) bool { return t == id })
}

// HasRating reports whether a rating was supplied.
func (r PerformanceRecord) HasRating() bool { return r.Rating != 0 }

package model

import "time"

// Player is a rated player as supplied by the persistence collaborator.
// Ovr is always derived from Attributes and Position.
type Player struct {
	ID               string       `json:"id" yaml:"id"`
	Name             string       `json:"name" yaml:"name"`
	Position         Position     `json:"position" yaml:"position"`
	Attributes       AttributeSet `json:"attributes" yaml:"attributes"`
	Ovr              int          `json:"ovr" yaml:"ovr"`
	HasBeenEvaluated bool         `json:"has_been_evaluated" yaml:"has_been_evaluated"`
	OriginalOvr      int          `json:"original_ovr,omitempty" yaml:"original_ovr,omitempty"`
	CreatedAt        time.Time    `json:"created_at" yaml:"-"`
	UpdatedAt        time.Time    `json:"updated_at" yaml:"-"`
}

// Growth is the OVR gained since the first evaluation; zero before it.
func (p Player) Growth() int {
	if !p.HasBeenEvaluated {
		return 0
	}
	return p.Ovr - p.OriginalOvr
}

// Package improvement applies evaluation growth to players.
package improvement

import (
	"fmt"

	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/rating"
)

// Outcome describes what Apply did to a player.
type Outcome struct {
	PlayerID        string
	PreviousOvr     int
	NewOvr          int
	FirstEvaluation bool
}

// Growth reports how much the OVR moved in this application.
func (o Outcome) Growth() int { return o.NewOvr - o.PreviousOvr }

// Apply adds d to p in place. Attributes saturate at 99 and the OVR is
// recomputed. The first successful call snapshots the pre-growth OVR into
// OriginalOvr. On error p is left untouched.
func Apply(p *model.Player, d model.Delta) (Outcome, error) {
	for _, a := range model.AllAttributes() {
		if d[a] < 0 {
			return Outcome{}, fmt.Errorf("%w: %s %d for player %s", ErrNegativeDelta, a, d[a], p.ID)
		}
	}
	if err := rating.Validate(p.Attributes); err != nil {
		return Outcome{}, fmt.Errorf("player %s: %w", p.ID, err)
	}

	out := Outcome{PlayerID: p.ID, PreviousOvr: p.Ovr}
	if !p.HasBeenEvaluated {
		p.OriginalOvr = p.Ovr
		p.HasBeenEvaluated = true
		out.FirstEvaluation = true
	}

	for _, a := range model.AllAttributes() {
		p.Attributes.Set(a, min(model.MaxAttribute, p.Attributes.Get(a)+d[a]))
	}
	p.Ovr = rating.Compute(p.Attributes, p.Position)
	out.NewOvr = p.Ovr
	return out, nil
}

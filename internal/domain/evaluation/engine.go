// Package evaluation turns match performance into attribute growth.
package evaluation

import (
	"fmt"
	"math"

	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/rating"
)

// Scoring constants.
const (
	pointsPerGoal      = 2
	maxGoalBonus       = 8
	standoutRating     = 8.0
	standoutBonus      = 1
	neutralRating      = 5.0
	pointsPerRatingPip = 2
)

// Growth distribution per position, in canonical attribute order. This is
// separate from the OVR weight table even where the numbers coincide.
var growthWeights = map[model.Position][model.AttributeCount]float64{
	model.Goalkeeper: {0, 0, 0.20, 0.10, 0.50, 0.20},
	model.Defender:   {0.15, 0, 0.15, 0, 0.40, 0.30},
	model.Midfielder: {0, 0, 0.35, 0.25, 0.20, 0.20},
	model.Forward:    {0.25, 0.35, 0, 0.25, 0, 0.15},
}

// Result is the growth computed for one player.
type Result struct {
	PlayerID string
	Delta    model.Delta
	// TotalImprovement is informational only.
	TotalImprovement int
}

// Engine evaluates performance records against a tag catalog.
type Engine struct {
	catalog Catalog
}

// NewEngine creates an Engine. A nil catalog falls back to DefaultCatalog.
func NewEngine(catalog Catalog) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Engine{catalog: catalog}
}

// Catalog returns the catalog the engine consults.
func (e *Engine) Catalog() Catalog { return e.catalog }

// Evaluate computes the attribute delta for one record.
func (e *Engine) Evaluate(mode Mode, pos model.Position, rec PerformanceRecord) (Result, error) {
	if err := e.validate(mode, rec); err != nil {
		return Result{}, &RecordError{PlayerID: rec.PlayerID, Err: err}
	}

	res := Result{PlayerID: rec.PlayerID}
	switch mode {
	case ModeTags:
		for _, id := range rec.Tags {
			tag, _ := e.catalog.Lookup(id)
			for a, n := range tag.Points {
				res.Delta.Add(a, n)
				res.TotalImprovement += n
			}
		}
		if rec.HasRating() && rec.Rating >= standoutRating {
			res.Delta.AddAll(standoutBonus)
			res.TotalImprovement += standoutBonus * model.AttributeCount
		}
	case ModeRating:
		base := BasePoints(rec.Rating)
		res.Delta = Distribute(pos, base)
		res.TotalImprovement = base
	}

	if bonus := GoalBonus(rec.Goals); bonus > 0 {
		res.Delta.Add(model.Shooting, bonus)
		res.TotalImprovement += bonus
	}
	return res, nil
}

// EvaluateAll evaluates a whole match. Every record is validated before any
// result is returned, so a single bad record yields no results at all.
// positions maps player id to position; missing ids use PositionUnknown.
func (e *Engine) EvaluateAll(mode Mode, positions map[string]model.Position, records []PerformanceRecord) ([]Result, error) {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.PlayerID]; dup {
			return nil, &RecordError{PlayerID: rec.PlayerID, Err: ErrDuplicateRecord}
		}
		seen[rec.PlayerID] = struct{}{}
		if err := e.validate(mode, rec); err != nil {
			return nil, &RecordError{PlayerID: rec.PlayerID, Err: err}
		}
	}

	results := make([]Result, 0, len(records))
	for _, rec := range records {
		res, err := e.Evaluate(mode, positions[rec.PlayerID], rec)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (e *Engine) validate(mode Mode, rec PerformanceRecord) error {
	if rec.Goals < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGoals, rec.Goals)
	}
	switch mode {
	case ModeTags:
		if len(rec.Tags) > MaxTags {
			return fmt.Errorf("%w: %d tags, at most %d", ErrTagLimitExceeded, len(rec.Tags), MaxTags)
		}
		seen := make(map[string]struct{}, len(rec.Tags))
		for _, id := range rec.Tags {
			if _, ok := e.catalog.Lookup(id); !ok {
				return fmt.Errorf("%w: %q", ErrUnknownTag, id)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateTag, id)
			}
			seen[id] = struct{}{}
		}
		if rec.HasRating() {
			return validRating(rec.Rating)
		}
		return nil
	case ModeRating:
		if len(rec.Tags) > 0 {
			return fmt.Errorf("%w: tags given in rating mode", ErrModeMismatch)
		}
		return validRating(rec.Rating)
	}
	return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

func validRating(r float64) error {
	if math.IsNaN(r) || r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: %v outside [%.1f,%.1f]", ErrInvalidRating, r, MinRating, MaxRating)
	}
	return nil
}

// GoalBonus is +2 shooting per goal, capped at +8.
func GoalBonus(goals int) int {
	if goals <= 0 {
		return 0
	}
	return min(goals*pointsPerGoal, maxGoalBonus)
}

// BasePoints converts a 1-10 rating into improvement points: 5.0 gives
// nothing, 10.0 gives 10.
func BasePoints(r float64) int {
	return max(0, rating.RoundHalfUp((r-neutralRating)*pointsPerRatingPip))
}

// Distribute spreads points over attributes with the position's growth
// weights. Each share is rounded independently.
func Distribute(pos model.Position, points int) model.Delta {
	var d model.Delta
	if points <= 0 {
		return d
	}
	w, ok := growthWeights[pos]
	if !ok {
		d.AddAll(rating.RoundHalfUp(float64(points) / model.AttributeCount))
		return d
	}
	for i, weight := range w {
		if weight > 0 {
			d[i] = rating.RoundHalfUp(float64(points) * weight)
		}
	}
	return d
}

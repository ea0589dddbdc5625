// Package rating derives a player's overall rating (OVR) from attributes.
package rating

import (
	"math"

	"github.com/okian/cancha/internal/domain/model"
)

// Per-position weights in hundredths, canonical attribute order (pac, sho,
// pas, dri, def, phy). Each row sums to 100 so the weighted sum stays exact.
var weights = map[model.Position][model.AttributeCount]int{
	model.Goalkeeper: {0, 0, 20, 10, 50, 20},
	model.Defender:   {15, 0, 15, 0, 40, 30},
	model.Midfielder: {0, 0, 35, 25, 20, 20},
	model.Forward:    {25, 35, 0, 25, 0, 15},
}

// Weights returns the OVR weight vector for pos in hundredths, or false for
// positions that use the plain mean.
func Weights(pos model.Position) ([model.AttributeCount]int, bool) {
	w, ok := weights[pos]
	return w, ok
}

// Compute returns the OVR for attrs at pos, clamped to [1,99]. It assumes
// attrs is already within bounds; use Calculate at trust boundaries.
// Halves round up; the arithmetic is integer so x.5 is never misread.
func Compute(attrs model.AttributeSet, pos model.Position) int {
	values := attrs.Values()

	w, ok := weights[pos]
	if !ok {
		sum := 0
		for _, v := range values {
			sum += v
		}
		// sum/6 + 1/2 == (2*sum + 6) / 12
		return clamp((2*sum + model.AttributeCount) / (2 * model.AttributeCount))
	}
	total := 0
	for i, v := range values {
		total += v * w[i]
	}
	return clamp((total + 50) / 100)
}

// Calculate validates attrs and then computes the OVR.
func Calculate(attrs model.AttributeSet, pos model.Position) (int, error) {
	if err := Validate(attrs); err != nil {
		return 0, err
	}
	return Compute(attrs, pos), nil
}

// Validate checks every attribute is within [1,99].
func Validate(attrs model.AttributeSet) error {
	for _, a := range model.AllAttributes() {
		v := attrs.Get(a)
		if v < model.MinAttribute || v > model.MaxAttribute {
			return &AttributeError{Attribute: a, Value: v}
		}
	}
	return nil
}

// RoundHalfUp rounds x to the nearest integer, halves toward +Inf.
func RoundHalfUp(x float64) int { return roundHalfUp(x) }

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v int) int {
	return max(model.MinAttribute, min(model.MaxAttribute, v))
}

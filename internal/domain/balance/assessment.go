package balance

import (
	"github.com/samber/lo"

	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/rating"
)

type band struct {
	maxDiff int
	label   string
	score   int
}

var bands = []band{
	{1, "perfect", 100},
	{3, "excellent", 90},
	{5, "good", 75},
	{8, "fair", 60},
}

// Assess grades a setup by its OVR gap and reports per-attribute gaps
// between the two team averages.
func Assess(setup model.MatchSetup) model.Balance {
	out := model.Balance{
		Label:         "unbalanced",
		Score:         40,
		OvrDifference: setup.OvrDifference,
		AttributeGaps: make(map[string]int, model.AttributeCount),
	}
	for _, b := range bands {
		if setup.OvrDifference <= b.maxDiff {
			out.Label, out.Score = b.label, b.score
			break
		}
	}
	for _, a := range model.AllAttributes() {
		out.AttributeGaps[a.String()] = abs(attributeAverage(setup.TeamA.Players, a) - attributeAverage(setup.TeamB.Players, a))
	}
	return out
}

func attributeAverage(players []*model.Player, a model.Attribute) int {
	if len(players) == 0 {
		return 0
	}
	sum := lo.SumBy(players, func(p *model.Player) int { return p.Attributes.Get(a) })
	return rating.RoundHalfUp(float64(sum) / float64(len(players)))
}

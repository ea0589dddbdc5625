package repository_test

import (
	"fmt"
	"time"

	"github.com/okian/cancha/internal/domain/model"
)

var epoch = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func player(id, name string, ovr int) *model.Player {
	return &model.Player{
		ID:         id,
		Name:       name,
		Position:   model.Midfielder,
		Attributes: model.AttributeSet{Pac: ovr, Sho: ovr, Pas: ovr, Dri: ovr, Def: ovr, Phy: ovr},
		Ovr:        ovr,
		CreatedAt:  epoch.Add(time.Duration(len(id)) * time.Second),
		UpdatedAt:  epoch,
	}
}

func match(id string, a, b *model.Player) *model.Match {
	score := 2
	return &model.Match{
		ID:             id,
		Format:         "1v1",
		PlayersPerSide: 1,
		TeamA: model.TeamRecord{
			Name:   "Team A",
			Roster: []model.RosterEntry{{PlayerID: a.ID, Name: a.Name, Position: a.Position, Ovr: a.Ovr}},
			Score:  &score,
		},
		TeamB: model.TeamRecord{
			Name:   "Team B",
			Roster: []model.RosterEntry{{PlayerID: b.ID, Name: b.Name, Position: b.Position, Ovr: b.Ovr}},
		},
		OvrDifference: abs(a.Ovr - b.Ovr),
		Balance:       model.Balance{Label: "good", Score: 75, AttributeGaps: map[string]int{"pac": 1}},
		Status:        model.MatchGenerated,
		CreatedAt:     epoch,
	}
}

func evaluated(m *model.Match, at time.Time) *model.Match {
	c := m.Clone()
	c.Status = model.MatchEvaluated
	c.EvaluatedAt = &at
	c.Evaluation = &model.EvaluationSummary{Mode: "rating", Players: []model.PlayerGrowth{
		{PlayerID: m.TeamA.Roster[0].PlayerID, Delta: map[string]int{"pas": 2}, TotalImprovement: 2},
	}}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func ids(players []*model.Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

func name(i int) string { return fmt.Sprintf("player-%02d", i) }

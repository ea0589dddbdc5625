// Package types contains read-side views shared by the service and adapters.
package types

import (
	"cmp"
	"strings"

	"github.com/okian/cancha/internal/domain/model"
)

// Entry is one row of the player ranking.
type Entry struct {
	Rank             int    `json:"rank"`
	PlayerID         string `json:"player_id"`
	Name             string `json:"name"`
	Position         string `json:"position"`
	Ovr              int    `json:"ovr"`
	Growth           int    `json:"growth"`
	HasBeenEvaluated bool   `json:"has_been_evaluated"`
}

// ComparePlayers orders players for the ranking: OVR descending, then name
// (case-insensitive), then id.
func ComparePlayers(a, b *model.Player) int {
	if c := cmp.Compare(b.Ovr, a.Ovr); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Ranking builds entries from players already in ranking order.
func Ranking(players []*model.Player) []Entry {
	out := make([]Entry, 0, len(players))
	for i, p := range players {
		out = append(out, Entry{
			Rank:             i + 1,
			PlayerID:         p.ID,
			Name:             p.Name,
			Position:         p.Position.Code(),
			Ovr:              p.Ovr,
			Growth:           p.Growth(),
			HasBeenEvaluated: p.HasBeenEvaluated,
		})
	}
	return out
}

package model

import (
	"maps"
	"slices"
	"time"

	"github.com/samber/lo"
)

// Team is one side of a MatchSetup. Players are borrowed for one match.
type Team struct {
	Name       string
	Players    []*Player
	AverageOvr int
	TotalOvr   int
}

// Size returns the number of rostered players.
func (t Team) Size() int { return len(t.Players) }

// Record snapshots the team for persistence.
func (t Team) Record() TeamRecord {
	return TeamRecord{
		Name: t.Name,
		Roster: lo.Map(t.Players, func(p *Player, _ int) RosterEntry {
			return RosterEntry{PlayerID: p.ID, Name: p.Name, Position: p.Position, Ovr: p.Ovr}
		}),
		AverageOvr: t.AverageOvr,
		TotalOvr:   t.TotalOvr,
	}
}

// MatchSetup is the output of the team balancer.
type MatchSetup struct {
	PlayersPerSide int
	TeamA          Team
	TeamB          Team
	OvrDifference  int
}

// Match status values.
const (
	MatchGenerated = "generated"
	MatchEvaluated = "evaluated"
)

// RosterEntry is a snapshot of a player at match-setup time.
type RosterEntry struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Ovr      int      `json:"ovr"`
}

// TeamRecord is the persisted form of a Team.
type TeamRecord struct {
	Name       string        `json:"name"`
	Roster     []RosterEntry `json:"roster"`
	AverageOvr int           `json:"average_ovr"`
	TotalOvr   int           `json:"total_ovr"`
	Score      *int          `json:"score,omitempty"`
}

// Has reports whether playerID is on the roster.
func (t TeamRecord) Has(playerID string) bool {
	for _, e := range t.Roster {
		if e.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Balance grades the OVR gap of a match setup.
type Balance struct {
	Label         string         `json:"label"`
	Score         int            `json:"score"`
	OvrDifference int            `json:"ovr_difference"`
	AttributeGaps map[string]int `json:"attribute_gaps"`
}

// PlayerGrowth records what one evaluation did to one player.
type PlayerGrowth struct {
	PlayerID         string         `json:"player_id"`
	Delta            map[string]int `json:"delta"`
	TotalImprovement int            `json:"total_improvement"`
	PreviousOvr      int            `json:"previous_ovr"`
	NewOvr           int            `json:"new_ovr"`
}

// EvaluationSummary is stored on a match once it has been evaluated.
type EvaluationSummary struct {
	Mode    string         `json:"mode"`
	Players []PlayerGrowth `json:"players"`
}

// Match is the persisted record built from a MatchSetup.
type Match struct {
	ID             string             `json:"id"`
	Format         string             `json:"format"`
	PlayersPerSide int                `json:"players_per_side"`
	Strategy       string             `json:"strategy,omitempty"`
	TeamA          TeamRecord         `json:"team_a"`
	TeamB          TeamRecord         `json:"team_b"`
	OvrDifference  int                `json:"ovr_difference"`
	Balance        Balance            `json:"balance"`
	Status         string             `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	EvaluatedAt    *time.Time         `json:"evaluated_at,omitempty"`
	Evaluation     *EvaluationSummary `json:"evaluation,omitempty"`
}

// Rosters reports whether playerID played on either side.
func (m Match) Rosters(playerID string) bool {
	return m.TeamA.Has(playerID) || m.TeamB.Has(playerID)
}

// PlayerIDs lists every rostered player, team A first.
func (m Match) PlayerIDs() []string {
	ids := make([]string, 0, len(m.TeamA.Roster)+len(m.TeamB.Roster))
	for _, e := range m.TeamA.Roster {
		ids = append(ids, e.PlayerID)
	}
	for _, e := range m.TeamB.Roster {
		ids = append(ids, e.PlayerID)
	}
	return ids
}

// Clone returns a deep copy of the match.
func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}
	c := *m
	c.TeamA = m.TeamA.clone()
	c.TeamB = m.TeamB.clone()
	if m.Balance.AttributeGaps != nil {
		c.Balance.AttributeGaps = maps.Clone(m.Balance.AttributeGaps)
	}
	if m.EvaluatedAt != nil {
		at := *m.EvaluatedAt
		c.EvaluatedAt = &at
	}
	if m.Evaluation != nil {
		ev := *m.Evaluation
		ev.Players = make([]PlayerGrowth, len(m.Evaluation.Players))
		for i, g := range m.Evaluation.Players {
			g.Delta = maps.Clone(g.Delta)
			ev.Players[i] = g
		}
		c.Evaluation = &ev
	}
	return &c
}

func (t TeamRecord) clone() TeamRecord {
	t.Roster = slices.Clone(t.Roster)
	if t.Score != nil {
		s := *t.Score
		t.Score = &s
	}
	return t
}

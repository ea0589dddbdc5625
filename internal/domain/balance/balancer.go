// Package balance partitions a player pool into two even teams.
package balance

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/rating"
)

// Side identifies one of the two teams.
type Side int

// Sides.
const (
	SideA Side = iota
	SideB
)

// Option applies a configuration option to the Balancer.
type Option func(*Balancer)

// WithNameProvider sets the provider used for cosmetic team names.
func WithNameProvider(p NameProvider) Option {
	return func(b *Balancer) {
		if p != nil {
			b.names = p
		}
	}
}

// WithStrategy sets the default split strategy.
func WithStrategy(s Strategy) Option {
	return func(b *Balancer) {
		if s != "" {
			b.strategy = s
		}
	}
}

// Balancer builds MatchSetups from an OVR-ordered pool.
type Balancer struct {
	names    NameProvider
	strategy Strategy
}

// NewBalancer creates a Balancer. Without options it drafts alternately and
// teams are named "Team A" and "Team B".
func NewBalancer(opts ...Option) *Balancer {
	b := &Balancer{names: FixedNames{"Team A", "Team B"}, strategy: StrategyDraft}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Strategy returns the default split strategy.
func (b *Balancer) Strategy() Strategy { return b.strategy }

// Balance splits pool into two teams of exactly playersPerSide players using
// the default strategy.
//
// Players are ordered by OVR descending, ties keeping input order. With the
// draft strategy the preferred side alternates A, B, A, B by sorted index; a
// player goes to the other side when the preferred one is full. Players
// beyond 2*playersPerSide are left out. Input players are never modified.
func (b *Balancer) Balance(pool []*model.Player, playersPerSide int) (model.MatchSetup, error) {
	return b.BalanceWith(b.strategy, pool, playersPerSide)
}

// BalanceWith is Balance with an explicit strategy. Every strategy benches
// the same players: those beyond the top 2*playersPerSide by OVR.
func (b *Balancer) BalanceWith(s Strategy, pool []*model.Player, playersPerSide int) (model.MatchSetup, error) {
	if playersPerSide < 1 {
		return model.MatchSetup{}, fmt.Errorf("%w: %d players per side", ErrInvalidFormat, playersPerSide)
	}
	needed := 2 * playersPerSide
	if len(pool) < needed {
		return model.MatchSetup{}, &InsufficientPlayersError{Needed: needed, Available: len(pool)}
	}
	selected := sortByOvr(pool)[:needed]

	var teamA, teamB []*model.Player
	switch s {
	case StrategyDraft, "":
		teamA, teamB = draft(selected, playersPerSide)
	case StrategyPositional:
		teamA, teamB = positional(selected, playersPerSide)
	default:
		return model.MatchSetup{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}

	a := b.team(SideA, teamA)
	bt := b.team(SideB, teamB)
	return model.MatchSetup{
		PlayersPerSide: playersPerSide,
		TeamA:          a,
		TeamB:          bt,
		OvrDifference:  abs(a.AverageOvr - bt.AverageOvr),
	}, nil
}

func (b *Balancer) team(side Side, players []*model.Player) model.Team {
	total := TotalOvr(players)
	return model.Team{
		Name:       b.names.TeamName(side, players),
		Players:    players,
		TotalOvr:   total,
		AverageOvr: AverageOvr(players),
	}
}

// TotalOvr sums the OVR of players.
func TotalOvr(players []*model.Player) int {
	return lo.SumBy(players, func(p *model.Player) int { return p.Ovr })
}

// AverageOvr returns the rounded mean OVR, zero for an empty roster.
func AverageOvr(players []*model.Player) int {
	if len(players) == 0 {
		return 0
	}
	return rating.RoundHalfUp(float64(TotalOvr(players)) / float64(len(players)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

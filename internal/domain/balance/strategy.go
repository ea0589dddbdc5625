package balance

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/okian/cancha/internal/domain/model"
)

// Strategy selects how a selected pool is split into two teams.
type Strategy string

// Strategies.
const (
	// StrategyDraft alternates A, B, A, B over OVR.
	StrategyDraft Strategy = "draft"
	// StrategyPositional splits keepers first, alternates within each
	// outfield line, fills the rest toward the weaker side and then swaps
	// like-for-like players while that narrows the gap.
	StrategyPositional Strategy = "positional"
)

const (
	maxSwapPasses = 10
	maxSwapGap    = 10
)

// Strategies lists the accepted strategy names.
func Strategies() []Strategy { return []Strategy{StrategyDraft, StrategyPositional} }

// ParseStrategy accepts a strategy name case-insensitively. An empty name
// yields StrategyDraft.
func ParseStrategy(s string) (Strategy, error) {
	switch v := Strategy(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return StrategyDraft, nil
	case StrategyDraft, StrategyPositional:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// draft assigns sorted players alternately; a full side passes its turn.
func draft(sorted []*model.Player, k int) (teamA, teamB []*model.Player) {
	teamA = make([]*model.Player, 0, k)
	teamB = make([]*model.Player, 0, k)
	for i, p := range sorted {
		aFull, bFull := len(teamA) == k, len(teamB) == k
		if aFull && bFull {
			break
		}
		preferA := i%2 == 0
		switch {
		case preferA && !aFull, !preferA && bFull:
			teamA = append(teamA, p)
		default:
			teamB = append(teamB, p)
		}
	}
	return teamA, teamB
}

// positional builds teams line by line. sorted holds exactly 2k players
// ordered by OVR descending.
func positional(sorted []*model.Player, k int) (teamA, teamB []*model.Player) {
	teamA = make([]*model.Player, 0, k)
	teamB = make([]*model.Player, 0, k)
	byPos := lo.GroupBy(sorted, func(p *model.Player) model.Position { return p.Position })
	placed := make(map[*model.Player]struct{}, len(sorted))
	put := func(team *[]*model.Player, p *model.Player) {
		*team = append(*team, p)
		placed[p] = struct{}{}
	}

	// One keeper each; a lone keeper joins A.
	if keepers := byPos[model.Goalkeeper]; len(keepers) > 0 {
		put(&teamA, keepers[0])
		if len(keepers) > 1 {
			put(&teamB, keepers[1])
		}
	}

	for _, pos := range []model.Position{model.Defender, model.Midfielder, model.Forward} {
		for i, p := range byPos[pos] {
			aOpen, bOpen := len(teamA) < k, len(teamB) < k
			if !aOpen && !bOpen {
				break
			}
			preferA := i%2 == 0
			switch {
			case preferA && aOpen, !preferA && !bOpen:
				put(&teamA, p)
			default:
				put(&teamB, p)
			}
		}
	}

	// Extra keepers and unknown positions go to the weaker side.
	for _, p := range sorted {
		if _, ok := placed[p]; ok {
			continue
		}
		aOpen, bOpen := len(teamA) < k, len(teamB) < k
		switch {
		case aOpen && bOpen:
			if weaker(teamA, teamB) {
				put(&teamA, p)
			} else {
				put(&teamB, p)
			}
		case aOpen:
			put(&teamA, p)
		case bOpen:
			put(&teamB, p)
		}
	}

	optimize(teamA, teamB)
	return teamA, teamB
}

// weaker reports whether a's mean OVR is at most b's. An empty team has
// mean zero.
func weaker(a, b []*model.Player) bool {
	if len(a) == 0 {
		return true
	}
	if len(b) == 0 {
		return false
	}
	// sumA/len(a) <= sumB/len(b) without division.
	return TotalOvr(a)*len(b) <= TotalOvr(b)*len(a)
}

// optimize swaps the first pair that narrows the OVR gap, repeating until
// no pair helps or maxSwapPasses is reached. Teams have equal size, so
// comparing totals is comparing means.
func optimize(teamA, teamB []*model.Player) {
	for range maxSwapPasses {
		gap := abs(TotalOvr(teamA) - TotalOvr(teamB))
		if !swapOnce(teamA, teamB, gap) {
			return
		}
	}
}

func swapOnce(teamA, teamB []*model.Player, gap int) bool {
	for i, pa := range teamA {
		for j, pb := range teamB {
			if !swappable(pa, pb) {
				continue
			}
			teamA[i], teamB[j] = pb, pa
			if abs(TotalOvr(teamA)-TotalOvr(teamB)) < gap {
				return true
			}
			teamA[i], teamB[j] = pa, pb
		}
	}
	return false
}

// swappable keeps keepers in goal and refuses trades across a wide OVR gap.
func swappable(a, b *model.Player) bool {
	if (a.Position == model.Goalkeeper) != (b.Position == model.Goalkeeper) {
		return false
	}
	return abs(a.Ovr-b.Ovr) <= maxSwapGap
}

func sortByOvr(pool []*model.Player) []*model.Player {
	sorted := slices.Clone(pool)
	slices.SortStableFunc(sorted, func(x, y *model.Player) int {
		return cmp.Compare(y.Ovr, x.Ovr)
	})
	return sorted
}

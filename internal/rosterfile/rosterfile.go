// Package rosterfile reads and writes the YAML files used by the offline
// roster CLI: a player list and a set of post-match performance records.
package rosterfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/cancha/internal/domain/evaluation"
	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/rating"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Errors returned while decoding files.
var (
	ErrInvalidRoster       = errors.New("invalid roster file")
	ErrInvalidPerformances = errors.New("invalid performances file")
)

// Roster is the on-disk player list. Ovr is recomputed on load; a stored
// value is informational.
type Roster struct {
	Players []*model.Player `yaml:"players"`
}

// Performances is the on-disk evaluation input for one match.
type Performances struct {
	Mode    string                         `yaml:"mode,omitempty"`
	ScoreA  *int                           `yaml:"score_a,omitempty"`
	ScoreB  *int                           `yaml:"score_b,omitempty"`
	Records []evaluation.PerformanceRecord `yaml:"records"`
}

// DecodeRoster parses a roster, rejecting unknown keys, missing or repeated
// ids, and attributes outside 1..99. Every player's Ovr is recomputed.
func DecodeRoster(r io.Reader) (*Roster, error) {
	var roster Roster
	if err := decodeStrict(r, &roster); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}
	for i, p := range roster.Players {
		if p == nil || strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("%w: player #%d has no id", ErrInvalidRoster, i+1)
		}
		ovr, err := rating.Calculate(p.Attributes, p.Position)
		if err != nil {
			return nil, fmt.Errorf("%w: player %s: %w", ErrInvalidRoster, p.ID, err)
		}
		p.Ovr = ovr
	}
	ids := lo.Map(roster.Players, func(p *model.Player, _ int) string { return p.ID })
	if dups := lo.FindDuplicates(ids); len(dups) > 0 {
		return nil, fmt.Errorf("%w: duplicate ids %s", ErrInvalidRoster, strings.Join(dups, ", "))
	}
	return &roster, nil
}

// LoadRoster reads and decodes the roster at path.
func LoadRoster(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeRoster(f)
}

// Encode writes the roster as YAML.
func (r *Roster) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// SaveRoster writes the roster to path.
func SaveRoster(path string, r *Roster) error {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Lookup finds a player by id.
func (r *Roster) Lookup(id string) (*model.Player, bool) {
	return lo.Find(r.Players, func(p *model.Player) bool { return p.ID == id })
}

// Select returns the players named by ids in that order, or every player
// when ids is empty.
func (r *Roster) Select(ids []string) ([]*model.Player, error) {
	if len(ids) == 0 {
		return r.Players, nil
	}
	out := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := r.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: unknown player %s", ErrInvalidRoster, id)
		}
		out = append(out, p)
	}
	return out, nil
}

// Positions maps each player id to its position.
func (r *Roster) Positions() map[string]model.Position {
	return lo.Associate(r.Players, func(p *model.Player) (string, model.Position) {
		return p.ID, p.Position
	})
}

// Score formats the final score as "A-B". It reports false unless both
// sides are given.
func (p *Performances) Score() (string, bool) {
	if p.ScoreA == nil || p.ScoreB == nil {
		return "", false
	}
	return fmt.Sprintf("%d-%d", *p.ScoreA, *p.ScoreB), true
}

// DecodePerformances parses a performances file. Scores must not be
// negative.
func DecodePerformances(r io.Reader) (*Performances, error) {
	var perf Performances
	if err := decodeStrict(r, &perf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPerformances, err)
	}
	for _, score := range []*int{perf.ScoreA, perf.ScoreB} {
		if score != nil && *score < 0 {
			return nil, fmt.Errorf("%w: negative score %d", ErrInvalidPerformances, *score)
		}
	}
	for i, rec := range perf.Records {
		if strings.TrimSpace(rec.PlayerID) == "" {
			return nil, fmt.Errorf("%w: record #%d has no player_id", ErrInvalidPerformances, i+1)
		}
	}
	return &perf, nil
}

// LoadPerformances reads and decodes the performances file at path.
func LoadPerformances(path string) (*Performances, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodePerformances(f)
}

func decodeStrict(r io.Reader, dst any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

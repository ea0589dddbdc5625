// Package repository persists players and matches.
package repository

import (
	"context"

	"github.com/okian/cancha/internal/domain/model"
)

// Store provides read/write access to players and matches. Implementations
// hand out copies: mutating a returned value never changes stored state.
type Store interface {
	// PutPlayer inserts or replaces a player.
	PutPlayer(ctx context.Context, p *model.Player) error
	// GetPlayer returns ErrNotFound for unknown ids.
	GetPlayer(ctx context.Context, id string) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	// TopPlayers returns up to n players by OVR desc, name, id.
	// n < 1 fails with ErrInvalidLimit.
	TopPlayers(ctx context.Context, n int) ([]*model.Player, error)
	// Count returns the number of stored players.
	Count(ctx context.Context) int

	PutMatch(ctx context.Context, m *model.Match) error
	GetMatch(ctx context.Context, id string) (*model.Match, error)
	ListMatches(ctx context.Context) ([]*model.Match, error)

	// SaveEvaluation stores the evaluated match together with the grown
	// players, all or nothing. The stored match must still be in the
	// generated state, otherwise ErrConflict is returned.
	SaveEvaluation(ctx context.Context, m *model.Match, players []*model.Player) error

	Close() error
}

// Store kinds accepted by configuration.
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

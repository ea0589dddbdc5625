package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/types"
	"github.com/okian/cancha/pkg/metrics"
)

// MemoryStore keeps everything in maps guarded by a RWMutex.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[string]model.Player
	matches map[string]*model.Match
	closed  bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: make(map[string]model.Player),
		matches: make(map[string]*model.Match),
	}
}

func observeRead(op string, start time.Time) {
	metrics.RecordRepositoryQueryLatency(KindMemory, op, float64(time.Since(start).Microseconds())/1000)
}

func observeWrite(op string, start time.Time) {
	metrics.RecordRepositoryWriteLatency(KindMemory, op, float64(time.Since(start).Microseconds())/1000)
}

func (s *MemoryStore) PutPlayer(ctx context.Context, p *model.Player) error {
	defer observeWrite("put_player", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.players[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	defer observeRead("get_player", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	defer observeRead("list_players", time.Now())
	s.mu.RLock()
	out := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, &p)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *model.Player) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *MemoryStore) TopPlayers(ctx context.Context, n int) ([]*model.Player, error) {
	defer observeRead("top_players", time.Now())
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	out := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, &p)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, types.ComparePlayers)
	return out[:min(n, len(out))], nil
}

func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

func (s *MemoryStore) PutMatch(ctx context.Context, m *model.Match) error {
	defer observeWrite("put_match", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.matches[m.ID] = m.Clone()
	return nil
}

func (s *MemoryStore) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	defer observeRead("get_match", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrNotFound
	}
	return m.Clone(), nil
}

func (s *MemoryStore) ListMatches(ctx context.Context) ([]*model.Match, error) {
	defer observeRead("list_matches", time.Now())
	s.mu.RLock()
	out := make([]*model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m.Clone())
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *model.Match) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *MemoryStore) SaveEvaluation(ctx context.Context, m *model.Match, players []*model.Player) error {
	defer observeWrite("save_evaluation", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	stored, ok := s.matches[m.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Status != model.MatchGenerated {
		return ErrConflict
	}
	for _, p := range players {
		if _, ok := s.players[p.ID]; !ok {
			return ErrNotFound
		}
	}

	for _, p := range players {
		s.players[p.ID] = *p
	}
	s.matches[m.ID] = m.Clone()
	return nil
}

// Close marks the store closed; later writes fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

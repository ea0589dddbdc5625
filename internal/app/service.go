// Package service orchestrates the roster store and the domain core: it
// rates players, balances matches and applies post-match growth.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/okian/cancha/internal/adapters/repository"
	"github.com/okian/cancha/internal/domain/balance"
	"github.com/okian/cancha/internal/domain/dedupe"
	"github.com/okian/cancha/internal/domain/evaluation"
	"github.com/okian/cancha/internal/domain/improvement"
	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/rating"
	"github.com/okian/cancha/internal/domain/types"
	"github.com/okian/cancha/pkg/logger"
	"github.com/okian/cancha/pkg/metrics"
)

// Service implements the API dependencies for the roster system.
type Service struct {
	mu sync.RWMutex
	// writeMu serializes read-modify-write of stored players so two
	// evaluations sharing a player both land.
	writeMu sync.Mutex

	store    repository.Store
	deduper  dedupe.Deduper
	balancer *balance.Balancer
	engine   *evaluation.Engine

	formats         balance.Formats
	names           balance.NameProvider
	strategy        balance.Strategy
	defaultMode     evaluation.Mode
	dedupeSize      int
	maxRankingLimit int
	now             func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the persistence backend. Defaults to a MemoryStore.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog sets the tag catalog used in tags mode.
func WithCatalog(c evaluation.Catalog) Option {
	return func(s *Service) {
		if len(c) > 0 {
			s.engine = evaluation.NewEngine(c)
		}
	}
}

// WithFormats sets the named format table.
func WithFormats(f balance.Formats) Option {
	return func(s *Service) {
		if len(f) > 0 {
			s.formats = f
		}
	}
}

// WithNameProvider sets the team naming strategy.
func WithNameProvider(p balance.NameProvider) Option {
	return func(s *Service) {
		if p != nil {
			s.names = p
		}
	}
}

// WithStrategy sets the balancing strategy used when a request names none.
func WithStrategy(st balance.Strategy) Option {
	return func(s *Service) {
		if st != "" {
			s.strategy = st
		}
	}
}

// WithDefaultMode sets the mode used when a request names none.
func WithDefaultMode(m evaluation.Mode) Option {
	return func(s *Service) {
		if m != "" {
			s.defaultMode = m
		}
	}
}

// WithDedupeSize bounds the in-flight evaluation guard.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithRankingLimit caps the ranking size a caller may ask for.
func WithRankingLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxRankingLimit = limit
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. It is usable right away; Start only logs and
// primes gauges.
func New(opts ...Option) *Service {
	s := &Service{
		engine:          evaluation.NewEngine(nil),
		formats:         balance.DefaultFormats(),
		names:           balance.FixedNames{"Team A", "Team B"},
		strategy:        balance.StrategyDraft,
		defaultMode:     evaluation.ModeTags,
		dedupeSize:      dedupe.DefaultMaxSize,
		maxRankingLimit: 100,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.balancer = balance.NewBalancer(balance.WithNameProvider(s.names), balance.WithStrategy(s.strategy))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

func (s *Service) log() logger.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s.logger
}

// Start marks the service as running.
func (s *Service) Start(ctx context.Context) error {
	log := s.log()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.started = true
	metrics.UpdatePlayersTotal(s.store.Count(ctx))
	log.Info(ctx, "roster service started",
		logger.String("defaultMode", string(s.defaultMode)),
		logger.Int("formats", len(s.formats)),
		logger.Int("tags", len(s.engine.Catalog())),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	log := s.log()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Error(context.Background(), "closing store", logger.Error(err))
	}
	s.started = false
	log.Info(context.Background(), "roster service stopped")
}

// PlayerInput carries the editable fields of a player.
type PlayerInput struct {
	Name       string
	Position   model.Position
	Attributes model.AttributeSet
}

func (s *Service) rate(ctx context.Context, in PlayerInput) (string, int, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		metrics.RecordValidationError(ErrorKind(ErrInvalidPlayer))
		return "", 0, fmt.Errorf("%w: name is required", ErrInvalidPlayer)
	}
	ovr, err := rating.Calculate(in.Attributes, in.Position)
	if err != nil {
		metrics.RecordValidationError(ErrorKind(err))
		s.log().Debug(ctx, "rejected player attributes", logger.String("name", name), logger.Error(err))
		return "", 0, err
	}
	return name, ovr, nil
}

// CreatePlayer validates and stores a new player.
func (s *Service) CreatePlayer(ctx context.Context, in PlayerInput) (*model.Player, error) {
	name, ovr, err := s.rate(ctx, in)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &model.Player{
		ID:         uuid.NewString(),
		Name:       name,
		Position:   in.Position,
		Attributes: in.Attributes,
		Ovr:        ovr,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.PutPlayer(ctx, p); err != nil {
		return nil, fmt.Errorf("store player: %w", err)
	}
	metrics.RecordPlayerCreated()
	metrics.UpdatePlayersTotal(s.store.Count(ctx))
	s.log().Info(ctx, "player created",
		logger.String("id", p.ID),
		logger.String("position", p.Position.Code()),
		logger.Int("ovr", p.Ovr),
	)
	return p, nil
}

// UpdatePlayer replaces a player's name, position and attributes and
// recomputes the OVR. Evaluation history is kept.
func (s *Service) UpdatePlayer(ctx context.Context, id string, in PlayerInput) (*model.Player, error) {
	name, ovr, err := s.rate(ctx, in)
	if err != nil {
		return nil, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Position = in.Position
	p.Attributes = in.Attributes
	p.Ovr = ovr
	p.UpdatedAt = s.now().UTC()
	if err := s.store.PutPlayer(ctx, p); err != nil {
		return nil, fmt.Errorf("store player: %w", err)
	}
	metrics.RecordPlayerUpdated()
	return p, nil
}

// GetPlayer returns one player.
func (s *Service) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	return s.store.GetPlayer(ctx, id)
}

// ListPlayers returns every player in creation order.
func (s *Service) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return s.store.ListPlayers(ctx)
}

// MaxRankingLimit is the largest limit Ranking accepts.
func (s *Service) MaxRankingLimit() int { return s.maxRankingLimit }

// Ranking returns up to limit players ordered by OVR.
func (s *Service) Ranking(ctx context.Context, limit int) ([]types.Entry, error) {
	if limit < 1 || limit > s.maxRankingLimit {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidLimit, limit, s.maxRankingLimit)
	}
	players, err := s.store.TopPlayers(ctx, limit)
	if err != nil {
		return nil, err
	}
	return types.Ranking(players), nil
}

// Formats returns the configured format table.
func (s *Service) Formats() balance.Formats { return s.formats }

// Catalog returns the tag catalog.
func (s *Service) Catalog() evaluation.Catalog { return s.engine.Catalog() }

// DefaultMode returns the evaluation mode used when none is requested.
func (s *Service) DefaultMode() evaluation.Mode { return s.defaultMode }

// MatchRequest names the players and format of a new match.
type MatchRequest struct {
	Format    string
	PlayerIDs []string
	// Strategy overrides the configured strategy when set.
	Strategy string
}

// CreateMatch balances the given players into a match of the named format.
// Players beyond what the format needs are left out.
func (s *Service) CreateMatch(ctx context.Context, req MatchRequest) (*model.Match, error) {
	format, playerIDs := req.Format, req.PlayerIDs
	k, err := s.formats.PlayersPerSide(format)
	if err != nil {
		metrics.RecordValidationError(ErrorKind(err))
		return nil, err
	}
	strategy := s.strategy
	if strings.TrimSpace(req.Strategy) != "" {
		if strategy, err = balance.ParseStrategy(req.Strategy); err != nil {
			metrics.RecordValidationError(ErrorKind(err))
			return nil, err
		}
	}
	if dups := lo.FindDuplicates(playerIDs); len(dups) > 0 {
		metrics.RecordValidationError(ErrorKind(ErrDuplicatePlayer))
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, strings.Join(dups, ", "))
	}

	pool := make([]*model.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, err := s.store.GetPlayer(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", id, err)
		}
		pool = append(pool, p)
	}

	setup, err := s.balancer.BalanceWith(strategy, pool, k)
	if err != nil {
		metrics.RecordValidationError(ErrorKind(err))
		s.log().Warn(ctx, "cannot balance match",
			logger.String("format", format),
			logger.Int("players", len(pool)),
			logger.Error(err),
		)
		return nil, err
	}

	m := &model.Match{
		ID:             uuid.NewString(),
		Format:         strings.ToLower(strings.TrimSpace(format)),
		PlayersPerSide: k,
		Strategy:       string(strategy),
		TeamA:          setup.TeamA.Record(),
		TeamB:          setup.TeamB.Record(),
		OvrDifference:  setup.OvrDifference,
		Balance:        balance.Assess(setup),
		Status:         model.MatchGenerated,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.PutMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("store match: %w", err)
	}

	metrics.RecordMatchBalanced(m.Format, m.OvrDifference)
	s.log().Info(ctx, "match balanced",
		logger.String("id", m.ID),
		logger.String("format", m.Format),
		logger.String("strategy", m.Strategy),
		logger.Int("teamA", m.TeamA.AverageOvr),
		logger.Int("teamB", m.TeamB.AverageOvr),
		logger.Int("ovrDifference", m.OvrDifference),
		logger.String("balance", m.Balance.Label),
		logger.Int("benched", len(pool)-2*k),
	)
	return m, nil
}

// GetMatch returns one match.
func (s *Service) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	return s.store.GetMatch(ctx, id)
}

// ListMatches returns every match in creation order.
func (s *Service) ListMatches(ctx context.Context) ([]*model.Match, error) {
	return s.store.ListMatches(ctx)
}

// EvaluationRequest is the post-match input for one match.
type EvaluationRequest struct {
	MatchID string
	// Mode overrides the default mode when set.
	Mode    string
	ScoreA  *int
	ScoreB  *int
	Records []evaluation.PerformanceRecord
}

// EvaluateMatch grows every player with a performance record and closes the
// match. A match is evaluated at most once. On any error no player and no
// match is changed.
func (s *Service) EvaluateMatch(ctx context.Context, req EvaluationRequest) (_ *model.Match, err error) {
	mode := s.defaultMode
	if strings.TrimSpace(req.Mode) != "" {
		if mode, err = evaluation.ParseMode(req.Mode); err != nil {
			metrics.RecordValidationError(ErrorKind(err))
			return nil, err
		}
	}
	for _, score := range []*int{req.ScoreA, req.ScoreB} {
		if score != nil && *score < 0 {
			metrics.RecordValidationError(ErrorKind(ErrInvalidScore))
			return nil, fmt.Errorf("%w: %d", ErrInvalidScore, *score)
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	m, err := s.store.GetMatch(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	if m.Status != model.MatchGenerated || s.deduper.SeenAndRecord(ctx, m.ID) {
		metrics.RecordEvaluationRejected(ErrorKind(ErrAlreadyEvaluated))
		return nil, fmt.Errorf("%w: %s", ErrAlreadyEvaluated, m.ID)
	}
	defer func() {
		if err != nil {
			s.deduper.Unrecord(ctx, m.ID)
			metrics.RecordEvaluationRejected(ErrorKind(err))
		}
	}()

	players := make(map[string]*model.Player, len(req.Records))
	positions := make(map[string]model.Position, len(req.Records))
	for _, rec := range req.Records {
		if !m.Rosters(rec.PlayerID) {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotInMatch, rec.PlayerID)
		}
		if _, ok := players[rec.PlayerID]; ok {
			continue
		}
		p, err := s.store.GetPlayer(ctx, rec.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", rec.PlayerID, err)
		}
		players[p.ID] = p
		positions[p.ID] = p.Position
	}

	results, err := s.engine.EvaluateAll(mode, positions, req.Records)
	if err != nil {
		metrics.RecordValidationError(ErrorKind(err))
		return nil, err
	}

	now := s.now().UTC()
	grown := make([]*model.Player, 0, len(results))
	summary := &model.EvaluationSummary{Mode: string(mode), Players: make([]model.PlayerGrowth, 0, len(results))}
	for _, res := range results {
		p := players[res.PlayerID]
		out, err := improvement.Apply(p, res.Delta)
		if err != nil {
			return nil, err
		}
		p.UpdatedAt = now
		grown = append(grown, p)
		summary.Players = append(summary.Players, model.PlayerGrowth{
			PlayerID:         p.ID,
			Delta:            res.Delta.Map(),
			TotalImprovement: res.TotalImprovement,
			PreviousOvr:      out.PreviousOvr,
			NewOvr:           out.NewOvr,
		})
	}

	m.Status = model.MatchEvaluated
	m.EvaluatedAt = &now
	m.Evaluation = summary
	m.TeamA.Score = req.ScoreA
	m.TeamB.Score = req.ScoreB

	if err := s.store.SaveEvaluation(ctx, m, grown); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyEvaluated, m.ID)
		}
		return nil, fmt.Errorf("save evaluation: %w", err)
	}

	metrics.RecordEvaluation(string(mode))
	// EvaluateAll keeps record order, so summary rows line up with records.
	for i, g := range summary.Players {
		metrics.RecordPlayerGrowth(g.TotalImprovement, g.NewOvr-g.PreviousOvr)
		s.log().Debug(ctx, "player grew",
			logger.String("match", m.ID),
			logger.String("player", g.PlayerID),
			logger.Int("goals", req.Records[i].Goals),
			logger.Float64("rating", req.Records[i].Rating),
			logger.Int("totalImprovement", g.TotalImprovement),
			logger.Int("previousOvr", g.PreviousOvr),
			logger.Int("newOvr", g.NewOvr),
		)
	}
	s.log().Info(ctx, "match evaluated",
		logger.String("id", m.ID),
		logger.String("mode", string(mode)),
		logger.Int("players", len(summary.Players)),
		logger.Bool("scored", req.ScoreA != nil && req.ScoreB != nil),
	)
	return m, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	players := s.store.Count(ctx)
	metrics.UpdatePlayersTotal(players)

	stats := map[string]any{
		"started":         started,
		"players":         players,
		"defaultMode":     string(s.defaultMode),
		"strategy":        string(s.strategy),
		"formats":         s.formats.Names(),
		"tags":            len(s.engine.Catalog()),
		"dedupeSize":      s.dedupeSize,
		"dedupeEntries":   s.deduper.Size(),
		"maxRankingLimit": s.maxRankingLimit,
	}
	if matches, err := s.store.ListMatches(ctx); err == nil {
		open := lo.CountBy(matches, func(m *model.Match) bool { return m.Status == model.MatchGenerated })
		stats["matches"] = len(matches)
		stats["openMatches"] = open
	}
	return stats
}

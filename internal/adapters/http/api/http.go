// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	service "github.com/okian/cancha/internal/app"
	"github.com/okian/cancha/internal/domain/balance"
	"github.com/okian/cancha/internal/domain/evaluation"
	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/types"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	CreatePlayer(ctx context.Context, in service.PlayerInput) (*model.Player, error)
	UpdatePlayer(ctx context.Context, id string, in service.PlayerInput) (*model.Player, error)
	GetPlayer(ctx context.Context, id string) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	Ranking(ctx context.Context, limit int) ([]types.Entry, error)
	MaxRankingLimit() int

	CreateMatch(ctx context.Context, req service.MatchRequest) (*model.Match, error)
	GetMatch(ctx context.Context, id string) (*model.Match, error)
	ListMatches(ctx context.Context) ([]*model.Match, error)
	EvaluateMatch(ctx context.Context, req service.EvaluationRequest) (*model.Match, error)

	Formats() balance.Formats
	Catalog() evaluation.Catalog
	DefaultMode() evaluation.Mode
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	playersHandler *PlayersHandler
	rankingHandler *RankingHandler
	matchesHandler *MatchesHandler
	catalogHandler *CatalogHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	v := newValidator()
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		playersHandler: NewPlayersHandler(deps, v),
		rankingHandler: NewRankingHandler(deps),
		matchesHandler: NewMatchesHandler(deps, v),
		catalogHandler: NewCatalogHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", instrument("healthz", s.healthHandler.HandleHealth))
	mux.HandleFunc("/stats", instrument("stats", s.statsHandler.HandleStats))
	mux.HandleFunc("/players", instrument("players", s.playersHandler.HandleCollection))
	mux.HandleFunc("/players/", instrument("player", s.playersHandler.HandleItem))
	mux.HandleFunc("/ranking", instrument("ranking", s.rankingHandler.HandleGetRanking))
	mux.HandleFunc("/matches", instrument("matches", s.matchesHandler.HandleCollection))
	mux.HandleFunc("/matches/", instrument("match", s.matchesHandler.HandleItem))
	mux.HandleFunc("/tags", instrument("tags", s.catalogHandler.HandleTags))
	mux.HandleFunc("/formats", instrument("formats", s.catalogHandler.HandleFormats))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	recordErrorCode(w, code)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func methodNotAllowed(w http.ResponseWriter, allow ...string) {
	w.Header().Set("Allow", strings.Join(allow, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
}

// decodeJSON reads one JSON document from r into dst. Unknown fields are
// rejected.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// pathSegments splits the path after prefix, dropping a trailing slash.
func pathSegments(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

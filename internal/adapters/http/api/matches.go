package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	service "github.com/okian/cancha/internal/app"
	"github.com/okian/cancha/internal/domain/evaluation"
	"github.com/samber/lo"
)

// matchRequest mirrors the OpenAPI schema for POST /matches.
type matchRequest struct {
	Format    string   `json:"format" validate:"required"`
	PlayerIDs []string `json:"player_ids" validate:"required,dive,required"`
	Strategy  string   `json:"strategy" validate:"omitempty,oneof=draft positional"`
}

type recordRequest struct {
	PlayerID string   `json:"player_id" validate:"required"`
	Goals    int      `json:"goals"`
	Tags     []string `json:"tags"`
	Rating   float64  `json:"rating"`
}

// evaluationRequest mirrors the OpenAPI schema for POST /matches/{id}/evaluation.
type evaluationRequest struct {
	Mode    string          `json:"mode"`
	ScoreA  *int            `json:"score_a"`
	ScoreB  *int            `json:"score_b"`
	Records []recordRequest `json:"records" validate:"required,dive"`
}

// MatchesHandler serves match creation, lookup and evaluation.
type MatchesHandler struct {
	deps     Dependencies
	validate *validator.Validate
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies, v *validator.Validate) *MatchesHandler {
	return &MatchesHandler{deps: deps, validate: v}
}

// HandleCollection handles GET and POST /matches.
func (h *MatchesHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		matches, err := h.deps.ListMatches(r.Context())
		if err != nil {
			fail(w, Wrap("api.list_matches", err))
			return
		}
		writeJSON(w, http.StatusOK, matches)
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// HandleItem handles GET /matches/{id} and POST /matches/{id}/evaluation.
func (h *MatchesHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	segs := pathSegments(r.URL.Path, "/matches/")
	switch {
	case len(segs) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		m, err := h.deps.GetMatch(r.Context(), segs[0])
		if err != nil {
			fail(w, Wrap("api.get_match", err))
			return
		}
		writeJSON(w, http.StatusOK, m)
	case len(segs) == 2 && segs[1] == "evaluation":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.evaluate(w, r, segs[0])
	default:
		http.NotFound(w, r)
	}
}

func (h *MatchesHandler) create(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_match"
	var req matchRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := checkStruct(h.validate, op, req); err != nil {
		fail(w, err)
		return
	}
	m, err := h.deps.CreateMatch(r.Context(), service.MatchRequest{
		Format:    req.Format,
		PlayerIDs: req.PlayerIDs,
		Strategy:  req.Strategy,
	})
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/matches/"+m.ID)
	writeJSON(w, http.StatusCreated, m)
}

func (h *MatchesHandler) evaluate(w http.ResponseWriter, r *http.Request, matchID string) {
	const op = "api.evaluate_match"
	var req evaluationRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := checkStruct(h.validate, op, req); err != nil {
		fail(w, err)
		return
	}
	m, err := h.deps.EvaluateMatch(r.Context(), service.EvaluationRequest{
		MatchID: matchID,
		Mode:    req.Mode,
		ScoreA:  req.ScoreA,
		ScoreB:  req.ScoreB,
		Records: lo.Map(req.Records, func(rr recordRequest, _ int) evaluation.PerformanceRecord {
			return evaluation.PerformanceRecord{
				PlayerID: rr.PlayerID,
				Goals:    rr.Goals,
				Tags:     rr.Tags,
				Rating:   rr.Rating,
			}
		}),
	})
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

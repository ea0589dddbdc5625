package api

import (
	"net/http"
	"strconv"
)

// defaultRankingLimit applies when the request carries no limit.
const defaultRankingLimit = 10

// RankingHandler handles ranking requests.
type RankingHandler struct {
	deps Dependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps Dependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// HandleGetRanking handles GET /ranking?limit=N requests.
func (h *RankingHandler) HandleGetRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ranking"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	n := min(defaultRankingLimit, h.deps.MaxRankingLimit())
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			fail(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		n = v
	}
	entries, err := h.deps.Ranking(r.Context(), n)
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

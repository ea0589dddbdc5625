package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	service "github.com/okian/cancha/internal/app"
	"github.com/okian/cancha/internal/domain/model"
)

// attributesRequest carries the six attributes; each must sit in 1..99.
type attributesRequest struct {
	Pac int `json:"pac" validate:"min=1,max=99"`
	Sho int `json:"sho" validate:"min=1,max=99"`
	Pas int `json:"pas" validate:"min=1,max=99"`
	Dri int `json:"dri" validate:"min=1,max=99"`
	Def int `json:"def" validate:"min=1,max=99"`
	Phy int `json:"phy" validate:"min=1,max=99"`
}

// playerRequest mirrors the OpenAPI schema for POST /players and PUT /players/{id}.
type playerRequest struct {
	Name       string            `json:"name" validate:"required,max=64"`
	Position   string            `json:"position" validate:"required"`
	Attributes attributesRequest `json:"attributes"`
}

func (p playerRequest) input() service.PlayerInput {
	return service.PlayerInput{
		Name:     p.Name,
		Position: model.ParsePosition(p.Position),
		Attributes: model.AttributeSet{
			Pac: p.Attributes.Pac,
			Sho: p.Attributes.Sho,
			Pas: p.Attributes.Pas,
			Dri: p.Attributes.Dri,
			Def: p.Attributes.Def,
			Phy: p.Attributes.Phy,
		},
	}
}

// PlayersHandler serves player CRUD.
type PlayersHandler struct {
	deps     Dependencies
	validate *validator.Validate
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies, v *validator.Validate) *PlayersHandler {
	return &PlayersHandler{deps: deps, validate: v}
}

// HandleCollection handles GET and POST /players.
func (h *PlayersHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		players, err := h.deps.ListPlayers(r.Context())
		if err != nil {
			fail(w, Wrap("api.list_players", err))
			return
		}
		writeJSON(w, http.StatusOK, players)
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// HandleItem handles GET and PUT /players/{id}.
func (h *PlayersHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	segs := pathSegments(r.URL.Path, "/players/")
	if len(segs) != 1 {
		http.NotFound(w, r)
		return
	}
	id := segs[0]
	switch r.Method {
	case http.MethodGet:
		p, err := h.deps.GetPlayer(r.Context(), id)
		if err != nil {
			fail(w, Wrap("api.get_player", err))
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		h.update(w, r, id)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

func (h *PlayersHandler) create(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_player"
	req, ok := h.decode(w, r, op)
	if !ok {
		return
	}
	p, err := h.deps.CreatePlayer(r.Context(), req.input())
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/players/"+p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (h *PlayersHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.update_player"
	req, ok := h.decode(w, r, op)
	if !ok {
		return
	}
	p, err := h.deps.UpdatePlayer(r.Context(), id, req.input())
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PlayersHandler) decode(w http.ResponseWriter, r *http.Request, op string) (playerRequest, bool) {
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, WrapKind(op, ErrBadRequest, err))
		return req, false
	}
	if err := checkStruct(h.validate, op, req); err != nil {
		fail(w, err)
		return req, false
	}
	return req, true
}

package api

import (
	"net/http"

	"github.com/okian/cancha/internal/domain/evaluation"
	"github.com/samber/lo"
)

type tagResponse struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Points      map[string]int `json:"points"`
}

type tagsResponse struct {
	DefaultMode string        `json:"default_mode"`
	MaxTags     int           `json:"max_tags"`
	Tags        []tagResponse `json:"tags"`
}

type formatResponse struct {
	Name           string `json:"name"`
	PlayersPerSide int    `json:"players_per_side"`
}

// CatalogHandler exposes the tag catalog and the known match formats.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleTags handles GET /tags requests.
func (h *CatalogHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	catalog := h.deps.Catalog()
	tags := lo.Map(catalog.IDs(), func(id string, _ int) tagResponse {
		t, _ := catalog.Lookup(id)
		return tagResponse{ID: t.ID, Label: t.Label, Description: t.Description, Points: t.PointsByKey()}
	})
	writeJSON(w, http.StatusOK, tagsResponse{
		DefaultMode: string(h.deps.DefaultMode()),
		MaxTags:     evaluation.MaxTags,
		Tags:        tags,
	})
}

// HandleFormats handles GET /formats requests.
func (h *CatalogHandler) HandleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	formats := h.deps.Formats()
	writeJSON(w, http.StatusOK, lo.Map(formats.Names(), func(name string, _ int) formatResponse {
		return formatResponse{Name: name, PlayersPerSide: formats[name]}
	}))
}

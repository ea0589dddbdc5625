package evaluation

import (
	"fmt"
	"maps"
	"slices"

	"github.com/okian/cancha/internal/domain/model"
)

// Tag is a catalog entry carrying a sparse attribute bonus.
type Tag struct {
	ID          string                  `json:"id"`
	Label       string                  `json:"label"`
	Description string                  `json:"description"`
	Points      map[model.Attribute]int `json:"-"`
}

// PointsByKey renders Points keyed by short attribute name.
func (t Tag) PointsByKey() map[string]int {
	out := make(map[string]int, len(t.Points))
	for a, n := range t.Points {
		out[a.String()] = n
	}
	return out
}

// Catalog is the tag table consulted by the engine.
type Catalog map[string]Tag

// NewCatalog indexes tags by ID.
func NewCatalog(tags ...Tag) Catalog {
	c := make(Catalog, len(tags))
	for _, t := range tags {
		c[t.ID] = t
	}
	return c
}

// Lookup returns the tag registered under id.
func (c Catalog) Lookup(id string) (Tag, bool) {
	t, ok := c[id]
	return t, ok
}

// IDs returns the tag ids in sorted order.
func (c Catalog) IDs() []string {
	return slices.Sorted(maps.Keys(c))
}

// Validate rejects empty ids and negative points.
func (c Catalog) Validate() error {
	for id, t := range c {
		if id == "" || t.ID != id {
			return fmt.Errorf("%w: tag id %q mismatched with key %q", ErrInvalidCatalog, t.ID, id)
		}
		for a, n := range t.Points {
			if n < 0 {
				return fmt.Errorf("%w: tag %q gives %d %s", ErrInvalidCatalog, id, n, a)
			}
		}
	}
	return nil
}

type points = map[model.Attribute]int

// DefaultCatalog returns the built-in performance tags.
func DefaultCatalog() Catalog {
	const (
		pac = model.Pace
		sho = model.Shooting
		pas = model.Passing
		dri = model.Dribbling
		def = model.Defending
		phy = model.Physical
	)
	return NewCatalog(
		Tag{ID: "goleador_nato", Label: "Goleador nato", Description: "+2 SHO, +1 PAC", Points: points{sho: 2, pac: 1}},
		Tag{ID: "crack_total", Label: "Crack total", Description: "+1 SHO, +2 DRI, +1 PAS", Points: points{sho: 1, dri: 2, pas: 1}},
		Tag{ID: "gambeta_loca", Label: "Gambeta loca", Description: "+2 DRI, +1 PAC", Points: points{dri: 2, pac: 1}},
		Tag{ID: "picante", Label: "Picante", Description: "+2 PAC, +1 DRI", Points: points{pac: 2, dri: 1}},
		Tag{ID: "vision_de_juego", Label: "Visión de juego", Description: "+2 PAS, +1 DRI", Points: points{pas: 2, dri: 1}},
		Tag{ID: "pase_maestro", Label: "Pase maestro", Description: "+3 PAS", Points: points{pas: 3}},
		Tag{ID: "asistidor_serial", Label: "Asistidor serial", Description: "+2 PAS, +1 PAC", Points: points{pas: 2, pac: 1}},
		Tag{ID: "muralla", Label: "Muralla", Description: "+3 DEF", Points: points{def: 3}},
		Tag{ID: "stopper_bravo", Label: "Stopper bravo", Description: "+2 DEF, +1 PHY", Points: points{def: 2, phy: 1}},
		Tag{ID: "tijera_perfecta", Label: "Tijera perfecta", Description: "+2 DEF, +1 PAC", Points: points{def: 2, pac: 1}},
		Tag{ID: "toro", Label: "Toro", Description: "+2 PHY, +1 DEF", Points: points{phy: 2, def: 1}},
		Tag{ID: "bala", Label: "Bala", Description: "+3 PAC", Points: points{pac: 3}},
		Tag{ID: "aguante_total", Label: "Aguante total", Description: "+2 PHY, +1 PAS", Points: points{phy: 2, pas: 1}},
		Tag{ID: "fenomeno", Label: "Fenómeno", Description: "+1 to every attacking attribute", Points: points{sho: 1, pas: 1, dri: 1, pac: 1}},
		Tag{ID: "todoterreno", Label: "Todoterreno", Description: "+1 to every attribute", Points: points{pac: 1, sho: 1, pas: 1, dri: 1, def: 1, phy: 1}},
		Tag{ID: "capo_total", Label: "Capo total", Description: "+2 PAS, +1 DEF, +1 PHY", Points: points{pas: 2, def: 1, phy: 1}},
		Tag{ID: "gato", Label: "Gato", Description: "+2 DEF, +1 PAC", Points: points{def: 2, pac: 1}},
		Tag{ID: "atajadas_locas", Label: "Atajadas locas", Description: "+3 DEF", Points: points{def: 3}},
		Tag{ID: "garra_charrua", Label: "Garra charrúa", Description: "+2 PHY, +1 DEF", Points: points{phy: 2, def: 1}},
	)
}

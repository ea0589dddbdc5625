package balance

import (
	"math/rand/v2"
	"sync"

	"github.com/okian/cancha/internal/domain/model"
)

// NameProvider supplies cosmetic team names. Names carry no meaning for
// balancing.
type NameProvider interface {
	TeamName(side Side, players []*model.Player) string
}

// FixedNames always returns the same two names.
type FixedNames [2]string

// TeamName implements NameProvider.
func (f FixedNames) TeamName(side Side, _ []*model.Player) string {
	if side == SideB {
		return f[1]
	}
	return f[0]
}

// DefaultTeamNames is the pool used by RandomNames when none is given.
var DefaultTeamNames = []string{
	"Los Galácticos", "Atlético Barrio", "Deportivo Potrero", "Real Canchita",
	"Sporting Vermut", "Club Tiki-Taka", "Unión Gambeta", "Racing Asado",
	"Inter de Martes", "Juventud Picante", "Olimpo FC", "La Máquina",
}

// RandomNames picks distinct names for both sides from a pool using a
// seeded source, so a fixed seed yields a fixed sequence.
type RandomNames struct {
	mu   sync.Mutex
	pool []string
	rng  *rand.Rand
	last string
}

// NewRandomNames creates a RandomNames over pool (DefaultTeamNames if empty).
func NewRandomNames(seed uint64, pool []string) *RandomNames {
	if len(pool) == 0 {
		pool = DefaultTeamNames
	}
	return &RandomNames{
		pool: pool,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // cosmetic names
	}
}

// TeamName implements NameProvider. Side B never repeats side A's name
// when the pool has more than one entry.
func (r *RandomNames) TeamName(side Side, _ []*model.Player) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := r.pool[r.rng.IntN(len(r.pool))]
	if side == SideB && len(r.pool) > 1 {
		for i := 0; name == r.last && i < 4*len(r.pool); i++ {
			name = r.pool[r.rng.IntN(len(r.pool))]
		}
	}
	r.last = name
	return name
}

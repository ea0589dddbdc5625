package balance

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for team balancing.
var (
	ErrInsufficientPlayers = errors.New("insufficient players")
	ErrInvalidFormat       = errors.New("invalid format")
	ErrUnknownFormat       = errors.New("unknown format")
	ErrUnknownStrategy     = errors.New("unknown strategy")
)

// InsufficientPlayersError reports how many players were missing.
type InsufficientPlayersError struct {
	Needed    int
	Available int
}

// Shortfall is the number of additional players required.
func (e *InsufficientPlayersError) Shortfall() int { return e.Needed - e.Available }

func (e *InsufficientPlayersError) Error() string {
	return fmt.Sprintf("%s: need %d, have %d (short by %d)",
		ErrInsufficientPlayers, e.Needed, e.Available, e.Shortfall())
}

// Unwrap lets errors.Is match ErrInsufficientPlayers.
func (e *InsufficientPlayersError) Unwrap() error { return ErrInsufficientPlayers }

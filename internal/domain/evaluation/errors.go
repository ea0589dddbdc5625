package evaluation

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for evaluation. These allow errors.Is from callers.
var (
	ErrTagLimitExceeded = errors.New("tag limit exceeded")
	ErrInvalidRating    = errors.New("invalid rating")
	ErrUnknownTag       = errors.New("unknown tag")
	ErrUnknownMode      = errors.New("unknown evaluation mode")
	ErrModeMismatch     = errors.New("record does not match evaluation mode")
	ErrInvalidGoals     = errors.New("invalid goals")
	ErrDuplicateRecord  = errors.New("duplicate performance record")
	ErrDuplicateTag     = errors.New("duplicate tag")
	ErrInvalidCatalog   = errors.New("invalid tag catalog")
)

// RecordError attaches the player id to a validation failure.
type RecordError struct {
	PlayerID string
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("player %s: %v", e.PlayerID, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

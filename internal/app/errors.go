package service

import (
	"errors"

	"github.com/okian/cancha/internal/adapters/repository"
	"github.com/okian/cancha/internal/domain/balance"
	"github.com/okian/cancha/internal/domain/evaluation"
	"github.com/okian/cancha/internal/domain/improvement"
	"github.com/okian/cancha/internal/domain/rating"
)

// Sentinel error kinds raised by the service itself.
var (
	ErrInvalidPlayer    = errors.New("invalid player")
	ErrDuplicatePlayer  = errors.New("player listed more than once")
	ErrAlreadyEvaluated = errors.New("match already evaluated")
	ErrPlayerNotInMatch = errors.New("player not in match")
	ErrInvalidScore     = errors.New("invalid score")
	ErrInvalidLimit     = repository.ErrInvalidLimit
	ErrNotFound         = repository.ErrNotFound
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{balance.ErrInsufficientPlayers, "insufficient_players"},
	{balance.ErrUnknownFormat, "unknown_format"},
	{balance.ErrInvalidFormat, "invalid_format"},
	{balance.ErrUnknownStrategy, "unknown_strategy"},
	{evaluation.ErrTagLimitExceeded, "tag_limit_exceeded"},
	{evaluation.ErrInvalidRating, "invalid_rating"},
	{evaluation.ErrUnknownTag, "unknown_tag"},
	{evaluation.ErrDuplicateTag, "duplicate_tag"},
	{evaluation.ErrUnknownMode, "unknown_mode"},
	{evaluation.ErrModeMismatch, "mode_mismatch"},
	{evaluation.ErrInvalidGoals, "invalid_goals"},
	{evaluation.ErrDuplicateRecord, "duplicate_record"},
	{rating.ErrInvalidAttributeValue, "invalid_attribute_value"},
	{improvement.ErrNegativeDelta, "negative_delta"},
	{ErrInvalidPlayer, "invalid_player"},
	{ErrDuplicatePlayer, "duplicate_player"},
	{ErrAlreadyEvaluated, "already_evaluated"},
	{ErrPlayerNotInMatch, "player_not_in_match"},
	{ErrInvalidScore, "invalid_score"},
	{repository.ErrInvalidLimit, "invalid_limit"},
	{repository.ErrNotFound, "not_found"},
}

// ErrorKind returns a stable snake_case name for err, or "internal".
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}

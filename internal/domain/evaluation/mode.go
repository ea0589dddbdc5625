package evaluation

import (
	"fmt"
	"strings"
)

// Mode selects the evaluation policy for a whole match.
type Mode string

// Evaluation modes.
const (
	ModeTags   Mode = "tags"
	ModeRating Mode = "rating"
)

// ParseMode accepts "tags"/"tag" and "rating"/"ratings".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tags", "tag":
		return ModeTags, nil
	case "rating", "ratings":
		return ModeRating, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

package balance

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Formats maps a format name ("5v5") to players per side.
type Formats map[string]int

// DefaultFormats returns the standard format table.
func DefaultFormats() Formats {
	return Formats{"5v5": 5, "7v7": 7, "11v11": 11}
}

// PlayersPerSide looks up name in the table, falling back to ParseFormat
// for symmetric "NvN" names.
func (f Formats) PlayersPerSide(name string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if n, ok := f[key]; ok {
		if n < 1 {
			return 0, fmt.Errorf("%w: %q has %d players per side", ErrInvalidFormat, name, n)
		}
		return n, nil
	}
	n, err := ParseFormat(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return n, nil
}

// Names returns the configured format names ordered by size.
func (f Formats) Names() []string {
	names := slices.Collect(maps.Keys(f))
	slices.SortFunc(names, func(a, b string) int {
		if f[a] != f[b] {
			return f[a] - f[b]
		}
		return strings.Compare(a, b)
	})
	return names
}

// Validate rejects entries with fewer than one player per side.
func (f Formats) Validate() error {
	for name, n := range f {
		if n < 1 {
			return fmt.Errorf("%w: %q has %d players per side", ErrInvalidFormat, name, n)
		}
	}
	return nil
}

// ParseFormat parses a symmetric "NvN" format.
func ParseFormat(s string) (int, error) {
	left, right, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "v")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	a, errA := strconv.Atoi(left)
	b, errB := strconv.Atoi(right)
	if errA != nil || errB != nil || a != b || a < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return a, nil
}

package model

import "strings"

// Position determines the OVR weight vector and growth distribution.
type Position int

// Positions. PositionUnknown covers any label outside the four known ones.
const (
	PositionUnknown Position = iota
	Goalkeeper
	Defender
	Midfielder
	Forward
)

// Code returns the short source label (POR/DEF/MED/DEL).
func (p Position) Code() string {
	switch p {
	case Goalkeeper:
		return "POR"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MED"
	case Forward:
		return "DEL"
	}
	return "UNK"
}

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "goalkeeper"
	case Defender:
		return "defender"
	case Midfielder:
		return "midfielder"
	case Forward:
		return "forward"
	}
	return "unknown"
}

// ParsePosition accepts POR/DEF/MED/DEL or English names, case-insensitively.
// Anything else maps to PositionUnknown.
func ParsePosition(s string) Position {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "por", "gk", "goalkeeper":
		return Goalkeeper
	case "def", "defender":
		return Defender
	case "med", "mid", "midfielder":
		return Midfielder
	case "del", "fwd", "forward":
		return Forward
	}
	return PositionUnknown
}

// MarshalText encodes the position as its source label.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.Code()), nil
}

// UnmarshalText decodes any label accepted by ParsePosition.
func (p *Position) UnmarshalText(b []byte) error {
	*p = ParsePosition(string(b))
	return nil
}

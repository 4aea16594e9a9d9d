package domain

import "fmt"

// Stat is a countable basketball event.
type Stat uint8

// Stat constants. The order is the canonical key order of every StatsBag.
const (
	TwoPointMakes Stat = iota
	TwoPointAttempts
	ThreePointMakes
	ThreePointAttempts
	FreeThrowsMade
	FreeThrowsAttempted
	OffensiveRebounds
	DefensiveRebounds
	Assists
	Steals
	Blocks
	Deflections
	Turnovers
	FoulsCommitted
	FoulsDrawn
	PlusMinus
	Points

	// NumStats is the number of Stat values.
	NumStats = int(Points) + 1
)

var statNames = [NumStats]string{
	TwoPointMakes:       "TwoPointMakes",
	TwoPointAttempts:    "TwoPointAttempts",
	ThreePointMakes:     "ThreePointMakes",
	ThreePointAttempts:  "ThreePointAttempts",
	FreeThrowsMade:      "FreeThrowsMade",
	FreeThrowsAttempted: "FreeThrowsAttempted",
	OffensiveRebounds:   "OffensiveRebounds",
	DefensiveRebounds:   "DefensiveRebounds",
	Assists:             "Assists",
	Steals:              "Steals",
	Blocks:              "Blocks",
	Deflections:         "Deflections",
	Turnovers:           "Turnovers",
	FoulsCommitted:      "FoulsCommitted",
	FoulsDrawn:          "FoulsDrawn",
	PlusMinus:           "PlusMinus",
	Points:              "Points",
}

var statsByName = func() map[string]Stat {
	m := make(map[string]Stat, NumStats)
	for i, name := range statNames {
		m[name] = Stat(i)
	}
	return m
}()

// AllStats returns every Stat in canonical order.
func AllStats() []Stat {
	all := make([]Stat, NumStats)
	for i := range all {
		all[i] = Stat(i)
	}
	return all
}

// Valid returns true if the stat is a recognized value.
func (s Stat) Valid() bool {
	return int(s) < NumStats
}

// String returns the wire name of the stat.
func (s Stat) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stat(%d)", uint8(s))
	}
	return statNames[s]
}

// ParseStat resolves a wire name to a Stat.
func ParseStat(name string) (Stat, error) {
	s, ok := statsByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown stat %q", name)
	}
	return s, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Stat) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid stat %d", uint8(s))
	}
	return []byte(statNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stat) UnmarshalText(text []byte) error {
	parsed, err := ParseStat(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PointsForAction returns the point value of a recorded action.
// Every component derives points through this function.
func PointsForAction(s Stat) int {
	switch s {
	case ThreePointMakes:
		return 3
	case TwoPointMakes:
		return 2
	case FreeThrowsMade:
		return 1
	default:
		return 0
	}
}

// IsScoringPlay reports whether the action is one of the three make-stats.
func IsScoringPlay(s Stat) bool {
	return PointsForAction(s) > 0
}

// IsRecordable reports whether the stat can be logged as an action. Points
// and PlusMinus are derived by the fold and never recorded directly.
func IsRecordable(s Stat) bool {
	return s.Valid() && s != Points && s != PlusMinus
}

// ImpliedStats returns every Stat counted when the action is recorded.
// A make also counts as an attempt of the same kind.
func ImpliedStats(action Stat) []Stat {
	switch action {
	case TwoPointMakes:
		return []Stat{TwoPointMakes, TwoPointAttempts}
	case ThreePointMakes:
		return []Stat{ThreePointMakes, ThreePointAttempts}
	case FreeThrowsMade:
		return []Stat{FreeThrowsMade, FreeThrowsAttempted}
	default:
		return []Stat{action}
	}
}

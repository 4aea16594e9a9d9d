package domain

// nonPossessionStats are opponent actions that do not change possession.
var nonPossessionStats = map[Stat]bool{
	FoulsCommitted: true,
	FoulsDrawn:     true,
	Deflections:    true,
}

// ShouldResetSet decides whether the active set stops being credited after
// one recorded action.
//
// Our turnovers end the possession. Any opponent action ends it unless every
// stat is contact without a change of ball control (fouls, deflections).
// Everything else we record, offensive rebounds included, keeps the set alive.
func ShouldResetSet(stats []Stat, isOpponent bool) bool {
	if len(stats) == 0 {
		return false
	}

	if !isOpponent {
		for _, s := range stats {
			if s == Turnovers {
				return true
			}
		}
		return false
	}

	for _, s := range stats {
		if !nonPossessionStats[s] {
			return true
		}
	}
	return false
}

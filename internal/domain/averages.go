package domain

// StatAverages holds a per-game rate for every Stat.
type StatAverages [NumStats]float64

// Get returns the rate for a stat.
func (a StatAverages) Get(s Stat) float64 {
	return a[s]
}

// Averages converts cumulative counts into per-game rates. Zero games played
// yields the all-zero rates. No rounding happens here.
func Averages(stats StatsBag, gamesPlayed int) StatAverages {
	var out StatAverages
	if gamesPlayed <= 0 {
		return out
	}
	for i, v := range stats {
		out[i] = float64(v) / float64(gamesPlayed)
	}
	return out
}

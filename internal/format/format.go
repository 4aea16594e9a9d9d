// Package format renders derived numbers for cards and summaries.
package format

import (
	"fmt"
	"math"
	"strconv"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// Trim renders v with at most one decimal place, dropping the decimal
// entirely when the rounded value is integral: 12.0 -> "12", 12.34 -> "12.3".
func Trim(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	rounded := math.Round(v*10) / 10
	if rounded == math.Trunc(rounded) {
		if rounded == 0 {
			return "0"
		}
		return strconv.FormatFloat(rounded, 'f', 0, 64)
	}
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}

// Record renders wins, losses and draws as "W-L-D".
func Record(n domain.GameNumbers) string {
	return fmt.Sprintf("%d-%d-%d", n.Wins, n.Losses, n.Draws)
}

// PerGame renders one stat's per-game rate.
func PerGame(stats domain.StatsBag, stat domain.Stat, gamesPlayed int) string {
	return Trim(domain.Averages(stats, gamesPlayed).Get(stat))
}

// PPG renders points per game.
func PPG(stats domain.StatsBag, gamesPlayed int) string {
	return PerGame(stats, domain.Points, gamesPlayed)
}

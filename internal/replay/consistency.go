package replay

import (
	"fmt"
	"slices"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// CheckConsistency verifies the points invariant of a game: team totals,
// box score and the scoring plays of the log agree for both sides.
// It returns one message per violation.
func CheckConsistency(game *domain.Game) []string {
	var problems []string

	var boxUs, logUs, logThem, periodUs, periodThem int
	for ref, bag := range game.BoxScore {
		if ref.IsIndividual() {
			boxUs += bag.Get(domain.Points)
		}
	}
	boxThem := game.BoxScore[domain.OpponentTeam()].Get(domain.Points)
	if p := game.BoxScore[domain.OurTeam()].Get(domain.Points); p != 0 {
		problems = append(problems, fmt.Sprintf("team entry holds %d points not attributable to a player", p))
	}

	for _, period := range game.Periods {
		if period == nil {
			continue
		}
		periodUs += period.Us
		periodThem += period.Opponent
		for _, entry := range period.PlayByPlay {
			if entry == nil {
				continue
			}
			pts := domain.PointsForAction(entry.Action)
			if entry.PlayerID.IsOpponent() {
				logThem += pts
			} else {
				logUs += pts
			}
		}
	}

	totalUs := game.Points(domain.SideUs)
	totalThem := game.Points(domain.SideOpponent)

	check := func(label string, total int, derived map[string]int) {
		for _, name := range sortedKeys(derived) {
			if derived[name] != total {
				problems = append(problems, fmt.Sprintf("%s points: totals %d, %s %d", label, total, name, derived[name]))
			}
		}
	}
	check(string(domain.SideUs), totalUs, map[string]int{"box score": boxUs, "play log": logUs, "periods": periodUs})
	check(string(domain.SideOpponent), totalThem, map[string]int{"box score": boxThem, "play log": logThem, "periods": periodThem})

	return problems
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

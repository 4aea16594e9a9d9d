package replay

import (
	"fmt"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// MigrateSetStats recomputes every set's stats of one game from its log,
// discarding whatever the stored aggregate holds. Run counts are never
// touched. Running it again yields the same game.
func MigrateSetStats(game *domain.Game) *domain.Game {
	if game == nil || len(game.Sets) == 0 {
		return game
	}

	out := game.Clone()
	zeroSets(out.Sets)

	for _, period := range out.Periods {
		if period == nil {
			continue
		}
		for _, entry := range period.Chronological() {
			if entry.PlayerID.IsZero() {
				continue
			}
			creditSet(out.Sets, entry, domain.ImpliedStats(entry.Action), domain.PointsForAction(entry.Action), 1)
		}
	}
	return out
}

// Failure records one game the migration could not process.
type Failure struct {
	GameID string
	Err    error
}

// Report is the outcome of a bulk migration. Games is index-aligned with
// the input; failed games are passed through as they were.
type Report struct {
	Games    []*domain.Game
	Changed  []string
	Failures []Failure
}

// MigrateAll applies MigrateSetStats to every game. A failure in one game
// never stops the others.
func MigrateAll(games []*domain.Game) Report {
	report := Report{Games: make([]*domain.Game, len(games))}

	for i, game := range games {
		migrated, err := migrateOne(game)
		if err != nil {
			id := ""
			if game != nil {
				id = game.ID
			}
			report.Failures = append(report.Failures, Failure{GameID: id, Err: err})
			report.Games[i] = game
			continue
		}
		report.Games[i] = migrated
		if setStatsChanged(game, migrated) {
			report.Changed = append(report.Changed, game.ID)
		}
	}
	return report
}

func migrateOne(game *domain.Game) (out *domain.Game, err error) {
	if game == nil {
		return nil, fmt.Errorf("nil game")
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("migrate game %s: %v", game.ID, r)
		}
	}()
	return MigrateSetStats(game), nil
}

func setStatsChanged(before, after *domain.Game) bool {
	if before == after {
		return false
	}
	if len(before.Sets) != len(after.Sets) {
		return true
	}
	for id, set := range after.Sets {
		old, ok := before.Sets[id]
		if !ok || old == nil || old.Stats != set.Stats {
			return true
		}
	}
	return false
}

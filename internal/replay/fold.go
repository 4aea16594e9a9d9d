// Package replay derives every game aggregate from the play-by-play log.
//
// The log is the source of truth. Box score, team totals, period scores and
// set stats are views folded from it by Apply, which serves both the live
// path (one entry at a time, sign +1 on record and -1 on delete) and bulk
// repair (Rebuild, MigrateSetStats).
package replay

import (
	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// Apply folds one entry into the game's aggregates. sign is +1 when the
// entry is recorded and -1 when it is removed. period may be nil when the
// caller does not track period scores.
func Apply(game *domain.Game, period *domain.Period, entry *domain.PlayEntry, sign int) {
	if entry == nil || entry.PlayerID.IsZero() {
		return
	}

	implied := domain.ImpliedStats(entry.Action)
	points := domain.PointsForAction(entry.Action)
	side := entry.PlayerID.Side()

	if game.BoxScore == nil {
		game.BoxScore = make(map[domain.PlayerRef]domain.StatsBag)
	}
	bag := game.BoxScore[entry.PlayerID]
	addAction(&bag, implied, points, sign)
	storeBag(game.BoxScore, entry.PlayerID, bag)

	addAction(game.StatTotals.Side(side), implied, points, sign)

	if points > 0 {
		if period != nil {
			*period.Score(side) += sign * points
		}
		applyPlusMinus(game, entry.ActivePlayers, side, points*sign)
	}

	creditSet(game.Sets, entry, implied, points, sign)
}

// addAction adds the implied stats and point value of one action to a bag.
func addAction(bag *domain.StatsBag, implied []domain.Stat, points, sign int) {
	for _, s := range implied {
		bag.Add(s, sign)
	}
	if points > 0 {
		bag.Add(domain.Points, sign*points)
	}
}

// applyPlusMinus moves the on-court players' plus/minus by a scoring play.
func applyPlusMinus(game *domain.Game, onCourt []string, scorer domain.TeamSide, delta int) {
	if scorer == domain.SideOpponent {
		delta = -delta
	}
	for _, id := range onCourt {
		if id == "" {
			continue
		}
		ref := domain.Individual(id)
		bag := game.BoxScore[ref]
		bag.Add(domain.PlusMinus, delta)
		storeBag(game.BoxScore, ref, bag)
	}
}

// creditSet adds an action to the set it was run under. Opponent plays,
// plays outside a set and plays naming a set the game does not carry are
// never credited.
func creditSet(sets map[string]*domain.Set, entry *domain.PlayEntry, implied []domain.Stat, points, sign int) {
	if entry.SetID == "" || entry.PlayerID.IsOpponent() {
		return
	}
	set, ok := sets[entry.SetID]
	if !ok || set == nil {
		return
	}
	addAction(&set.Stats, implied, points, sign)
}

// storeBag writes a box-score line back, dropping lines that fold to zero.
func storeBag(box map[domain.PlayerRef]domain.StatsBag, ref domain.PlayerRef, bag domain.StatsBag) {
	if bag.IsZero() {
		delete(box, ref)
		return
	}
	box[ref] = bag
}

// Rebuild returns a copy of the game with every aggregate recomputed from
// the log. Set identity and run counts are kept; set stats are re-derived.
func Rebuild(game *domain.Game) *domain.Game {
	out := game.Clone()
	out.BoxScore = make(map[domain.PlayerRef]domain.StatsBag)
	out.StatTotals = domain.TeamTotals{}
	zeroSets(out.Sets)

	for _, period := range out.Periods {
		if period == nil {
			continue
		}
		period.Us, period.Opponent = 0, 0
		for _, entry := range period.Chronological() {
			Apply(out, period, entry, 1)
		}
	}
	return out
}

// zeroSets resets every set's stats, keeping id, name, team and run count.
func zeroSets(sets map[string]*domain.Set) {
	for id, set := range sets {
		if set == nil {
			delete(sets, id)
			continue
		}
		set.Stats = domain.NewStatsBag()
	}
}

package replay

import (
	"slices"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// GameContribution is what one finished game adds to cumulative team and
// player aggregates.
type GameContribution struct {
	Result  domain.GameResult
	Totals  domain.TeamTotals
	Players map[string]domain.StatsBag
	// Participants are credited a game played whether or not they recorded a stat.
	Participants []string
}

// Contribution computes a game's contribution from its own aggregates.
// Participants are the played list followed by any active player not yet in
// it, in order of first appearance.
func Contribution(game *domain.Game) GameContribution {
	c := GameContribution{
		Result:  game.Result(),
		Totals:  game.StatTotals,
		Players: make(map[string]domain.StatsBag),
	}

	for ref, bag := range game.BoxScore {
		if id, ok := ref.PlayerID(); ok {
			c.Players[id] = bag
		}
	}

	for _, list := range [][]string{game.GamePlayedList, game.ActivePlayers} {
		for _, id := range list {
			if id == "" || slices.Contains(c.Participants, id) {
				continue
			}
			if !domain.ParsePlayerRef(id).IsIndividual() {
				continue
			}
			c.Participants = append(c.Participants, id)
		}
	}
	return c
}

// AddTo accumulates the contribution into batched updates, with player ids
// passed through remap. A nil remap keeps ids unchanged.
func (c GameContribution) AddTo(teamID string, stats *domain.StatsBatch, numbers *domain.GamesPlayedBatch, remap func(string) string) {
	if remap == nil {
		remap = func(id string) string { return id }
	}

	if numbers != nil {
		numbers.RecordTeam(teamID, c.Result)
		for _, id := range c.Participants {
			numbers.RecordPlayer(remap(id), c.Result)
		}
	}

	if stats != nil {
		stats.AddTeam(teamID, c.Totals)
		for id, bag := range c.Players {
			stats.AddPlayer(remap(id), bag)
		}
	}
}

package domain

import "time"

// GameResult is the outcome of a finished game from our side.
type GameResult string

// Game results.
const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultDraw GameResult = "draw"
)

// GameNumbers counts games and results. GamesPlayed is the sole averaging
// denominator and moves exactly once per finished game.
type GameNumbers struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Draws       int `json:"draws"`
	GamesPlayed int `json:"gamesPlayed"`
}

// Record adds one finished game with the given result.
func (n *GameNumbers) Record(result GameResult) {
	n.GamesPlayed++
	switch result {
	case ResultWin:
		n.Wins++
	case ResultLoss:
		n.Losses++
	case ResultDraw:
		n.Draws++
	}
}

// Add merges another set of counters into n.
func (n *GameNumbers) Add(other GameNumbers) {
	n.Wins += other.Wins
	n.Losses += other.Losses
	n.Draws += other.Draws
	n.GamesPlayed += other.GamesPlayed
}

// Player is a rostered player with cumulative stats.
type Player struct {
	ID          string      `json:"id"`
	TeamID      string      `json:"teamId"`
	Name        string      `json:"name"`
	Number      string      `json:"number"`
	Image       string      `json:"image,omitempty"`
	GameNumbers GameNumbers `json:"gameNumbers"`
	Stats       StatsBag    `json:"stats"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Team is our team with cumulative per-side stats.
type Team struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Image       string      `json:"image,omitempty"`
	GameNumbers GameNumbers `json:"gameNumbers"`
	Stats       TeamTotals  `json:"stats"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// StatsBatch accumulates cumulative stat increments so they can be applied
// in one store mutation.
type StatsBatch struct {
	Teams   map[string]TeamTotals
	Players map[string]StatsBag
}

// NewStatsBatch returns an empty batch.
func NewStatsBatch() *StatsBatch {
	return &StatsBatch{
		Teams:   make(map[string]TeamTotals),
		Players: make(map[string]StatsBag),
	}
}

// AddTeam adds the non-zero counts of totals to a team's increment.
func (b *StatsBatch) AddTeam(teamID string, totals TeamTotals) {
	if totals.Us.IsZero() && totals.Opponent.IsZero() {
		return
	}
	cur := b.Teams[teamID]
	cur.Us.Merge(totals.Us, 1)
	cur.Opponent.Merge(totals.Opponent, 1)
	b.Teams[teamID] = cur
}

// AddPlayer adds the non-zero counts of bag to a player's increment.
func (b *StatsBatch) AddPlayer(playerID string, bag StatsBag) {
	if bag.IsZero() {
		return
	}
	cur := b.Players[playerID]
	cur.Merge(bag, 1)
	b.Players[playerID] = cur
}

// Empty reports whether the batch carries no increments.
func (b *StatsBatch) Empty() bool {
	return len(b.Teams) == 0 && len(b.Players) == 0
}

// GamesPlayedBatch accumulates GameNumbers increments.
type GamesPlayedBatch struct {
	Teams   map[string]GameNumbers
	Players map[string]GameNumbers
}

// NewGamesPlayedBatch returns an empty batch.
func NewGamesPlayedBatch() *GamesPlayedBatch {
	return &GamesPlayedBatch{
		Teams:   make(map[string]GameNumbers),
		Players: make(map[string]GameNumbers),
	}
}

// RecordTeam records one finished game for a team.
func (b *GamesPlayedBatch) RecordTeam(teamID string, result GameResult) {
	n := b.Teams[teamID]
	n.Record(result)
	b.Teams[teamID] = n
}

// RecordPlayer records one finished game for a player.
func (b *GamesPlayedBatch) RecordPlayer(playerID string, result GameResult) {
	n := b.Players[playerID]
	n.Record(result)
	b.Players[playerID] = n
}

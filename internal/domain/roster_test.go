package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameNumbers_Record(t *testing.T) {
	var n GameNumbers
	n.Record(ResultWin)
	n.Record(ResultWin)
	n.Record(ResultLoss)
	n.Record(ResultDraw)

	assert.Equal(t, GameNumbers{Wins: 2, Losses: 1, Draws: 1, GamesPlayed: 4}, n)
}

func TestStatsBatch_SkipsZeroBags(t *testing.T) {
	b := NewStatsBatch()
	b.AddPlayer("p1", StatsBag{})
	b.AddTeam("t1", TeamTotals{})
	assert.True(t, b.Empty())

	var bag StatsBag
	bag.Add(Points, 4)
	b.AddPlayer("p1", bag)
	b.AddPlayer("p1", bag)
	assert.Equal(t, 8, b.Players["p1"].Get(Points))
	assert.False(t, b.Empty())
}

func TestGamesPlayedBatch(t *testing.T) {
	b := NewGamesPlayedBatch()
	b.RecordTeam("t1", ResultWin)
	b.RecordPlayer("p1", ResultWin)
	b.RecordPlayer("p1", ResultLoss)

	assert.Equal(t, GameNumbers{Wins: 1, GamesPlayed: 1}, b.Teams["t1"])
	assert.Equal(t, GameNumbers{Wins: 1, Losses: 1, GamesPlayed: 2}, b.Players["p1"])
}

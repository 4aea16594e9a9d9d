package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	now := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	g := NewGame("game-1", "team-1", "Hawks", PeriodQuarters, now)

	assert.Equal(t, "game-1", g.ID)
	assert.Equal(t, "Hawks", g.OpposingTeamName)
	assert.False(t, g.IsFinished)
	require.Len(t, g.Periods, 1)
	assert.Empty(t, g.Periods[0].PlayByPlay)
	assert.NotNil(t, g.BoxScore)
	assert.Equal(t, now, g.CreatedAt)
}

func TestGame_Result(t *testing.T) {
	tests := []struct {
		name     string
		us, them int
		want     GameResult
	}{
		{"win", 70, 60, ResultWin},
		{"loss", 55, 61, ResultLoss},
		{"draw", 40, 40, ResultDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Game{}
			g.StatTotals.Us.Add(Points, tt.us)
			g.StatTotals.Opponent.Add(Points, tt.them)
			assert.Equal(t, tt.want, g.Result())
		})
	}
}

func TestPeriod_Chronological(t *testing.T) {
	p := &Period{PlayByPlay: []*PlayEntry{{ID: "c"}, nil, {ID: "b"}, {ID: "a"}}}

	var ids []string
	for _, e := range p.Chronological() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestGame_FindPlay(t *testing.T) {
	g := &Game{Periods: []*Period{
		{PlayByPlay: []*PlayEntry{{ID: "p2"}, {ID: "p1"}}},
		nil,
		{PlayByPlay: []*PlayEntry{nil, {ID: "p3"}}},
	}}

	pi, ei, ok := g.FindPlay("p3")
	require.True(t, ok)
	assert.Equal(t, 2, pi)
	assert.Equal(t, 1, ei)

	_, _, ok = g.FindPlay("missing")
	assert.False(t, ok)
}

func TestGame_MarkPlayed(t *testing.T) {
	g := &Game{}
	g.MarkPlayed("p1", "p2", "")
	g.MarkPlayed("p2", "p3")
	assert.Equal(t, []string{"p1", "p2", "p3"}, g.GamePlayedList)
}

func TestGame_CloneIsDeep(t *testing.T) {
	g := NewGame("g", "t", "Owls", PeriodHalves, time.Now())
	g.BoxScore[Individual("p1")] = StatsBag{}
	g.Periods[0].PlayByPlay = []*PlayEntry{{ID: "e1", ActivePlayers: []string{"p1"}}}
	g.Sets["s1"] = &Set{ID: "s1", RunCount: 2}

	c := g.Clone()
	c.Periods[0].Us = 9
	c.Periods[0].PlayByPlay[0].ActivePlayers[0] = "p9"
	c.Sets["s1"].RunCount = 7
	bag := c.BoxScore[Individual("p1")]
	bag.Add(Points, 2)
	c.BoxScore[Individual("p1")] = bag

	assert.Equal(t, 0, g.Periods[0].Us)
	assert.Equal(t, "p1", g.Periods[0].PlayByPlay[0].ActivePlayers[0])
	assert.Equal(t, 2, g.Sets["s1"].RunCount)
	assert.True(t, g.BoxScore[Individual("p1")].IsZero())
}

package backupimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akanel15/StatLine-sub001/internal/backup/statfile"
	"github.com/akanel15/StatLine-sub001/internal/domain"
)

func finishedGame(id, opponent string, us, them int) *domain.Game {
	g := &domain.Game{ID: id, OpposingTeamName: opponent, IsFinished: true}
	g.StatTotals.Us.Add(domain.Points, us)
	g.StatTotals.Opponent.Add(domain.Points, them)
	return g
}

func TestFindDuplicate(t *testing.T) {
	incoming := &samplePackage().Games[0]

	tests := []struct {
		name     string
		existing *domain.Game
		match    bool
	}{
		{"identical", finishedGame("a", "Hawks", 75, 60), true},
		{"opponent case differs", finishedGame("a", "HAWKS", 75, 60), true},
		{"different opponent", finishedGame("a", "Owls", 75, 60), false},
		{"different us points", finishedGame("a", "Hawks", 74, 60), false},
		{"different opponent points", finishedGame("a", "Hawks", 75, 61), false},
		{"unfinished", func() *domain.Game {
			g := finishedGame("a", "Hawks", 75, 60)
			g.IsFinished = false
			return g
		}(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dup := FindDuplicate(incoming, []*domain.Game{tt.existing})
			if tt.match {
				require.NotNil(t, dup)
				assert.Equal(t, "a", dup.ID)
			} else {
				assert.Nil(t, dup)
			}
		})
	}
}

func TestFindDuplicate_FirstMatchWins(t *testing.T) {
	incoming := &samplePackage().Games[0]
	existing := []*domain.Game{
		finishedGame("x", "Owls", 75, 60),
		nil,
		finishedGame("first", "hawks", 75, 60),
		finishedGame("second", "Hawks", 75, 60),
	}

	assert.Equal(t, "first", FindDuplicate(incoming, existing).ID)

	dups := FindDuplicates(samplePackage(), existing)
	assert.Equal(t, []DuplicateMatch{{Index: 0, OriginalID: "g1", ExistingID: "first"}}, dups)
}

func TestMatchPlayers(t *testing.T) {
	existing := []*domain.Player{
		{ID: "a", Name: "Sam Jones", Number: "23"},
		{ID: "b", Name: "Alex Kim", Number: "5"},
		{ID: "c", Name: "alex kim", Number: "12"},
		{ID: "d", Name: "Chris Lee", Number: "1"},
		{ID: "e", Name: "Chris Lee", Number: "2"},
		{ID: "f", Name: "Pat Ray", Number: "9"},
		{ID: "g", Name: "Pat Ray", Number: "9"},
	}
	incoming := []statfile.Player{
		{OriginalID: "1", Name: "SAM JONES", Number: "0"},
		{OriginalID: "2", Name: "Alex Kim", Number: "12"},
		{OriginalID: "3", Name: "Chris Lee", Number: "7"},
		{OriginalID: "4", Name: "Pat Ray", Number: "9"},
		{OriginalID: "5", Name: "Nobody", Number: "3"},
	}

	matches := MatchPlayers(incoming, existing)
	require.Len(t, matches, 5)

	assert.Equal(t, "a", matches[0].Existing.ID)
	assert.Equal(t, MatchUniqueName, matches[0].Reason)

	assert.Equal(t, "c", matches[1].Existing.ID)
	assert.Equal(t, MatchNameAndNumber, matches[1].Reason)

	assert.Equal(t, "d", matches[2].Existing.ID)
	assert.Equal(t, MatchAmbiguousFirst, matches[2].Reason)
	assert.Equal(t, 2, matches[2].Candidates)

	assert.Equal(t, "f", matches[3].Existing.ID)
	assert.Equal(t, MatchAmbiguousFirst, matches[3].Reason)

	assert.Nil(t, matches[4].Existing)
	assert.Equal(t, MatchNone, matches[4].Reason)
}

func TestMatchPlayers_Deterministic(t *testing.T) {
	existing := []*domain.Player{
		{ID: "d", Name: "Chris Lee", Number: "1"},
		{ID: "e", Name: "Chris Lee", Number: "2"},
	}
	incoming := []statfile.Player{{OriginalID: "3", Name: "Chris Lee", Number: "7"}}

	first := MatchPlayers(incoming, existing)
	for range 20 {
		assert.Equal(t, first, MatchPlayers(incoming, existing))
	}
}

func TestDefaultDecisions(t *testing.T) {
	matches := []PlayerMatch{
		{Incoming: statfile.Player{OriginalID: "p1"}, Existing: &domain.Player{ID: "local-1"}, Reason: MatchUniqueName},
		{Incoming: statfile.Player{OriginalID: "p2"}, Reason: MatchNone},
	}
	dups := []DuplicateMatch{{Index: 3, OriginalID: "g4", ExistingID: "x"}}

	d := DefaultDecisions(matches, dups)

	assert.Equal(t, PlayerDecision{Action: PlayerLink, ExistingID: "local-1"}, d.Players["p1"])
	assert.Equal(t, PlayerDecision{Action: PlayerCreate}, d.Players["p2"])
	assert.Equal(t, []string{"g4"}, d.SkipGames)
}

package backupimport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akanel15/StatLine-sub001/internal/backup/statfile"
	"github.com/akanel15/StatLine-sub001/internal/domain"
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
	"github.com/akanel15/StatLine-sub001/internal/id"
)

func newTestEngine(s Store) *Engine {
	e := New(s, id.Sequence(), nil)
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestExecute_FinishedGameAccumulates(t *testing.T) {
	s := newMemStore()
	s.state.teams["team-home"] = &domain.Team{ID: "team-home", Name: "Rockets"}
	s.state.teams["team-home"].Stats.Us.Add(domain.Points, 100)
	s.state.teams["team-home"].GameNumbers = domain.GameNumbers{Wins: 1, GamesPlayed: 1}

	result, err := newTestEngine(s).Execute(context.Background(), samplePackage(), Decisions{TeamID: "team-home"})
	require.NoError(t, err)

	team := s.state.teams["team-home"]
	assert.Equal(t, 175, team.Stats.Us.Get(domain.Points))
	assert.Equal(t, 60, team.Stats.Opponent.Get(domain.Points))
	assert.Equal(t, domain.GameNumbers{Wins: 2, GamesPlayed: 2}, team.GameNumbers)

	assert.Equal(t, "team-home", result.TeamID)
	assert.False(t, result.TeamCreated)
	assert.Equal(t, 2, result.PlayersCreated)
	assert.Equal(t, 1, result.GamesImported)
	assert.Equal(t, 1, result.FinishedGames)
	assert.NotEmpty(t, result.ImportID)

	p1 := s.state.players[result.PlayerIDs["p1"]]
	require.NotNil(t, p1)
	assert.Equal(t, "Sam Jones", p1.Name)
	assert.Equal(t, "team-home", p1.TeamID)
	assert.Equal(t, 50, p1.Stats.Get(domain.Points))
	assert.Equal(t, domain.GameNumbers{Wins: 1, GamesPlayed: 1}, p1.GameNumbers)
}

func TestExecute_RemapsEveryPlayerOccurrence(t *testing.T) {
	s := newMemStore()
	result, err := newTestEngine(s).Execute(context.Background(), samplePackage(), Decisions{})
	require.NoError(t, err)

	p1, p2 := result.PlayerIDs["p1"], result.PlayerIDs["p2"]
	game := s.state.games[result.GameIDs["g1"]]
	require.NotNil(t, game)

	assert.Equal(t, result.TeamID, game.TeamID)
	assert.Contains(t, game.BoxScore, domain.Individual(p1))
	assert.Contains(t, game.BoxScore, domain.Individual(p2))
	assert.Contains(t, game.BoxScore, domain.OpponentTeam())
	assert.NotContains(t, game.BoxScore, domain.Individual("p1"))
	assert.Equal(t, []string{p1, p2}, game.GamePlayedList)
	assert.Equal(t, []string{p1}, game.ActivePlayers)

	plays := game.Periods[0].PlayByPlay
	assert.Equal(t, domain.OpponentTeam(), plays[0].PlayerID)
	assert.Equal(t, domain.Individual(p1), plays[1].PlayerID)
	assert.Equal(t, []string{p1, p2}, plays[0].ActivePlayers)
	assert.Equal(t, []string{p1, p2}, plays[1].ActivePlayers)
}

func TestExecute_CreatesTeamByName(t *testing.T) {
	s := newMemStore()
	s.state.teams["team-x"] = &domain.Team{ID: "team-x", Name: "rockets"}

	result, err := newTestEngine(s).Execute(context.Background(), samplePackage(), Decisions{})
	require.NoError(t, err)
	assert.Equal(t, "team-x", result.TeamID)
	assert.False(t, result.TeamCreated)

	pkg := samplePackage()
	pkg.Team.Name = ""
	result, err = newTestEngine(s).Execute(context.Background(), pkg, Decisions{TeamID: "team-missing"})
	require.NoError(t, err)
	assert.True(t, result.TeamCreated)
	assert.Equal(t, DefaultTeamName, s.state.teams[result.TeamID].Name)
	assert.NotEmpty(t, result.Warnings)
}

func TestExecute_UnfinishedGameLeavesCumulativeDataAlone(t *testing.T) {
	s := newMemStore()
	pkg := samplePackage()
	pkg.Games[0].IsFinished = false

	result, err := newTestEngine(s).Execute(context.Background(), pkg, Decisions{})
	require.NoError(t, err)

	team := s.state.teams[result.TeamID]
	assert.True(t, team.Stats.Us.IsZero())
	assert.Equal(t, domain.GameNumbers{}, team.GameNumbers)
	assert.Equal(t, domain.GameNumbers{}, s.state.players[result.PlayerIDs["p1"]].GameNumbers)
	assert.Equal(t, 1, result.GamesImported)
	assert.Equal(t, 0, result.FinishedGames)
	assert.Len(t, s.state.games, 1)
}

func TestExecute_LinkAndFallback(t *testing.T) {
	s := newMemStore()
	s.state.players["plr-local"] = &domain.Player{ID: "plr-local", Name: "Sam Jones", Number: "23"}

	result, err := newTestEngine(s).Execute(context.Background(), samplePackage(), Decisions{
		Players: map[string]PlayerDecision{
			"p1": {Action: PlayerLink, ExistingID: "plr-local"},
			"p2": {Action: PlayerLink, ExistingID: "plr-deleted"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "plr-local", result.PlayerIDs["p1"])
	assert.Equal(t, 1, result.PlayersLinked)
	assert.Equal(t, 1, result.PlayersCreated)
	assert.NotEqual(t, "plr-deleted", result.PlayerIDs["p2"])
	assert.Contains(t, s.state.players, result.PlayerIDs["p2"])
	assert.Equal(t, 50, s.state.players["plr-local"].Stats.Get(domain.Points))
	assert.NotEmpty(t, result.Warnings)
}

func TestExecute_UnlistedPlayerBecomesUnknown(t *testing.T) {
	s := newMemStore()
	pkg := samplePackage()
	pkg.Games[0].GamePlayedList = append(pkg.Games[0].GamePlayedList, "p9")

	result, err := newTestEngine(s).Execute(context.Background(), pkg, Decisions{})
	require.NoError(t, err)

	p9 := s.state.players[result.PlayerIDs["p9"]]
	require.NotNil(t, p9)
	assert.Equal(t, statfile.UnknownPlayerName, p9.Name)
	assert.Equal(t, 1, p9.GameNumbers.GamesPlayed)
}

func TestExecute_SkipsDuplicates(t *testing.T) {
	s := newMemStore()
	result, err := newTestEngine(s).Execute(context.Background(), samplePackage(), Decisions{SkipGames: []string{"g1"}})
	require.NoError(t, err)

	assert.Equal(t, 0, result.GamesImported)
	assert.Equal(t, 1, result.GamesSkipped)
	assert.Empty(t, s.state.games)
	assert.True(t, s.state.teams[result.TeamID].Stats.Us.IsZero())
}

func TestExecute_FailureWritesNothing(t *testing.T) {
	for _, op := range []string{"CreatePlayer", "InsertGame", "UpdateGamesPlayed", "BatchUpdateStats"} {
		t.Run(op, func(t *testing.T) {
			s := newMemStore()
			s.failOn = op

			_, err := newTestEngine(s).Execute(context.Background(), samplePackage(), Decisions{})
			require.Error(t, err)
			assert.Empty(t, s.state.teams)
			assert.Empty(t, s.state.players)
			assert.Empty(t, s.state.games)
		})
	}
}

func TestExecute_RejectsWrongVersion(t *testing.T) {
	pkg := samplePackage()
	pkg.Version = 2

	_, err := newTestEngine(newMemStore()).Execute(context.Background(), pkg, Decisions{})
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedVersion)
}

func TestAnalyze(t *testing.T) {
	s := newMemStore()
	existing := finishedGame("game-old", "hawks", 75, 60)
	s.state.games[existing.ID] = existing
	s.state.order = []string{existing.ID}
	s.state.players["plr-a"] = &domain.Player{ID: "plr-a", Name: "Alex Kim", Number: "5"}

	data, err := statfile.Marshal(samplePackage())
	require.NoError(t, err)

	preview, err := Analyze(context.Background(), s, data)
	require.NoError(t, err)
	require.True(t, preview.Validation.Valid)
	assert.Equal(t, []DuplicateMatch{{Index: 0, OriginalID: "g1", ExistingID: "game-old"}}, preview.Duplicates)
	require.Len(t, preview.Matches, 2)
	assert.Nil(t, preview.Matches[0].Existing)
	assert.Equal(t, "plr-a", preview.Matches[1].Existing.ID)
}

package service

import (
	"context"
	"encoding/json/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	backupimport "github.com/akanel15/StatLine-sub001/internal/backup/import"
	"github.com/akanel15/StatLine-sub001/internal/domain"
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
	"github.com/akanel15/StatLine-sub001/internal/store"
)

// playedGame records and finishes a 5-2 win with one set credited.
func playedGame(t *testing.T, f *fixture) *domain.Game {
	t.Helper()
	ctx := context.Background()
	game := f.startGame(t)
	sam := domain.Individual(f.players[0].ID)

	_, err := f.games.SelectSet(ctx, game.ID, f.set.ID)
	require.NoError(t, err)
	f.record(t, game.ID, sam, domain.ThreePointMakes)
	f.record(t, game.ID, domain.Individual(f.players[1].ID), domain.TwoPointMakes)
	f.record(t, game.ID, domain.OpponentTeam(), domain.TwoPointMakes)
	game, err = f.games.Finish(ctx, game.ID)
	require.NoError(t, err)
	return game
}

func TestExport_ThenImportIntoFreshStore(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	game := playedGame(t, f)

	exporter := NewExportService(f.store, nil)
	exporter.now = func() time.Time { return fixedNow }
	out, err := exporter.Export(ctx, ExportRequest{TeamID: f.team.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Summary.Games)
	assert.Equal(t, 2, out.Summary.Players)
	assert.Equal(t, "Rockets", out.Package.Team.Name)
	assert.Equal(t, "2025-03-02T09:00:00Z", out.Package.ExportDate)

	// Images and sets never travel.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(out.Data, &raw))
	exported := raw["games"].([]any)[0].(map[string]any)
	assert.NotContains(t, exported, "image")
	assert.NotContains(t, exported, "sets")
	assert.Equal(t, game.ID, exported["originalId"])

	other, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })

	importer := NewImportService(other, nil)
	result, err := importer.AutoImport(ctx, out.Data)
	require.NoError(t, err)
	assert.True(t, result.TeamCreated)
	assert.Equal(t, 2, result.PlayersCreated)
	assert.Equal(t, 1, result.GamesImported)

	team, err := other.GetTeam(ctx, result.TeamID)
	require.NoError(t, err)
	assert.Equal(t, "Rockets", team.Name)
	assert.Equal(t, 5, team.Stats.Us.Get(domain.Points))
	assert.Equal(t, domain.GameNumbers{Wins: 1, GamesPlayed: 1}, team.GameNumbers)

	// A second auto-import skips the duplicate and links the players.
	again, err := importer.AutoImport(ctx, out.Data)
	require.NoError(t, err)
	assert.Equal(t, 0, again.GamesImported)
	assert.Equal(t, 1, again.GamesSkipped)
	assert.Equal(t, 2, again.PlayersLinked)
	assert.Equal(t, 0, again.PlayersCreated)

	team, err = other.GetTeam(ctx, result.TeamID)
	require.NoError(t, err)
	assert.Equal(t, 1, team.GameNumbers.GamesPlayed)
}

func TestExport_NoGames(t *testing.T) {
	f := setupFixture(t)

	_, err := NewExportService(f.store, nil).Export(context.Background(), ExportRequest{TeamID: f.team.ID})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestExport_FinishedOnly(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	playedGame(t, f)
	f.startGame(t)

	out, err := NewExportService(f.store, nil).Export(ctx, ExportRequest{TeamID: f.team.ID, FinishedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Summary.Games)
	assert.Equal(t, 1, out.Summary.FinishedGames)
}

func TestImport_RejectsBadFiles(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	importer := NewImportService(f.store, nil)

	_, err := importer.Execute(ctx, []byte(`{"version": 2, "games": []}`), backupimport.Decisions{})
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedVersion)

	_, err = importer.Execute(ctx, []byte(`{"version": 1, "games": []}`), backupimport.Decisions{})
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Details, "games: must contain at least 1 item(s)")

	preview, err := importer.Preview(ctx, []byte(`not json`))
	require.NoError(t, err)
	assert.False(t, preview.Validation.Valid)
}

func TestMigrateSetStats_RepairsAndIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		svc  func(f *fixture) *MigrationService
	}{
		{"live", func(f *fixture) *MigrationService { return NewMigrationService(f.store, f.games, nil) }},
		{"offline", func(f *fixture) *MigrationService { return NewOfflineMigrationService(f.store, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupFixture(t)
			ctx := context.Background()
			game := playedGame(t, f)

			// Corrupt the stored set aggregate.
			corrupt := game.Clone()
			corrupt.Sets[f.set.ID].Stats.Add(domain.Points, 40)
			require.NoError(t, f.store.Games.Put(ctx, corrupt))

			svc := tt.svc(f)

			dry, err := svc.MigrateSetStats(ctx, true)
			require.NoError(t, err)
			assert.Equal(t, []string{game.ID}, dry.Changed)
			stored, err := f.store.GetGame(ctx, game.ID)
			require.NoError(t, err)
			assert.Equal(t, 45, stored.Sets[f.set.ID].Stats.Get(domain.Points))

			report, err := svc.MigrateSetStats(ctx, false)
			require.NoError(t, err)
			assert.Equal(t, 1, report.Games)
			assert.Equal(t, []string{game.ID}, report.Changed)
			assert.Empty(t, report.Failures)

			stored, err = f.store.GetGame(ctx, game.ID)
			require.NoError(t, err)
			set := stored.Sets[f.set.ID]
			assert.Equal(t, 5, set.Stats.Get(domain.Points))
			assert.Equal(t, 1, set.RunCount)

			report, err = svc.MigrateSetStats(ctx, false)
			require.NoError(t, err)
			assert.Empty(t, report.Changed)
		})
	}
}

func TestMigrateSetStats_KeepsConcurrentPlays(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	game := f.startGame(t)
	sam := domain.Individual(f.players[0].ID)

	_, err := f.games.SelectSet(ctx, game.ID, f.set.ID)
	require.NoError(t, err)
	f.record(t, game.ID, sam, domain.TwoPointMakes)

	svc := NewMigrationService(f.store, f.games, nil)
	var recorded atomic.Int64

	for range 20 {
		stored, err := f.store.GetGame(ctx, game.ID)
		require.NoError(t, err)
		stored.Sets[f.set.ID].Stats.Add(domain.Assists, 7)
		require.NoError(t, f.store.Games.Put(ctx, stored))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.MigrateSetStats(ctx, false)
			assert.NoError(t, err)
		}()
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := f.games.RecordAction(ctx, game.ID, sam, []domain.Stat{domain.Assists}); err == nil {
					recorded.Add(1)
				}
			}()
		}
		wg.Wait()
	}

	stored, err := f.store.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), recorded.Load())
	assert.Len(t, stored.Periods[0].PlayByPlay, 1+int(recorded.Load()))
	assert.Equal(t, int(recorded.Load()), stored.BoxScore[sam].Get(domain.Assists))
	assert.Equal(t, int(recorded.Load()), stored.Sets[f.set.ID].Stats.Get(domain.Assists))
}

func TestCards(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	playedGame(t, f)
	cards := NewCardService(f.store)

	tc, err := cards.TeamCard(ctx, f.team.ID)
	require.NoError(t, err)
	assert.Equal(t, "1-0-0", tc.Record)
	assert.Equal(t, "5", tc.PPG)
	assert.Equal(t, "2", tc.OpponentPPG)

	pc, err := cards.PlayerCard(ctx, f.players[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "3", pc.PPG)
	assert.Equal(t, "1", pc.PerGame[domain.ThreePointAttempts.String()])
	assert.Equal(t, 1, pc.GamesPlayed)

	_, err = cards.PlayerCard(ctx, "plr-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBuildPlayerCard_NoGames(t *testing.T) {
	card := BuildPlayerCard(&domain.Player{ID: "plr-1", Name: "Sam"})
	assert.Equal(t, "0", card.PPG)
	assert.Equal(t, "0-0-0", card.Record)
	assert.Len(t, card.PerGame, domain.NumStats)
}

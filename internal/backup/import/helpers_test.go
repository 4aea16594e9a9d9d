package backupimport

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"maps"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akanel15/StatLine-sub001/internal/backup/statfile"
	"github.com/akanel15/StatLine-sub001/internal/domain"
)

func bag(pairs ...any) domain.StatsBag {
	var b domain.StatsBag
	for i := 0; i < len(pairs); i += 2 {
		b.Add(pairs[i].(domain.Stat), pairs[i+1].(int))
	}
	return b
}

// samplePackage is a one-game export: we beat the Hawks 75-60.
func samplePackage() *statfile.Package {
	return &statfile.Package{
		Version:    statfile.FormatVersion,
		ExportDate: "2025-03-01T18:00:00Z",
		Team:       statfile.Team{Name: "Rockets"},
		Players: []statfile.Player{
			{OriginalID: "p1", Name: "Sam Jones", Number: "23"},
			{OriginalID: "p2", Name: "Alex Kim", Number: "5"},
		},
		Games: []statfile.Game{{
			OriginalID:       "g1",
			OpposingTeamName: "Hawks",
			PeriodType:       domain.PeriodQuarters,
			IsFinished:       true,
			StatTotals: domain.TeamTotals{
				Us:       bag(domain.Points, 75, domain.Assists, 12),
				Opponent: bag(domain.Points, 60),
			},
			BoxScore: map[domain.PlayerRef]domain.StatsBag{
				domain.Individual("p1"): bag(domain.Points, 50, domain.Assists, 4),
				domain.Individual("p2"): bag(domain.Points, 25, domain.Assists, 8),
				domain.OpponentTeam():   bag(domain.Points, 60),
			},
			Periods: []*domain.Period{{
				Us:       2,
				Opponent: 3,
				PlayByPlay: []*domain.PlayEntry{
					{ID: "e2", PlayerID: domain.OpponentTeam(), Action: domain.ThreePointMakes, ActivePlayers: []string{"p1", "p2"}},
					{ID: "e1", PlayerID: domain.Individual("p1"), Action: domain.TwoPointMakes, SetID: "s1", ActivePlayers: []string{"p1", "p2"}},
				},
			}},
			GamePlayedList: []string{"p1", "p2"},
			ActivePlayers:  []string{"p1"},
		}},
	}
}

// rawOf returns the generic JSON tree of a package.
func rawOf(t *testing.T, pkg *statfile.Package) map[string]any {
	t.Helper()
	data, err := statfile.Marshal(pkg)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	return raw
}

func obj(v any, path ...any) map[string]any {
	for _, p := range path {
		switch k := p.(type) {
		case string:
			v = v.(map[string]any)[k]
		case int:
			v = v.([]any)[k]
		}
	}
	return v.(map[string]any)
}

// memStore is an in-memory Store whose transactions work on a copy that is
// only swapped in when fn succeeds.
type memStore struct {
	state  memState
	failOn string
}

type memState struct {
	teams   map[string]*domain.Team
	players map[string]*domain.Player
	games   map[string]*domain.Game
	order   []string
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		teams:   make(map[string]*domain.Team),
		players: make(map[string]*domain.Player),
		games:   make(map[string]*domain.Game),
	}}
}

func (s memState) copy() memState {
	c := memState{
		teams:   make(map[string]*domain.Team),
		players: make(map[string]*domain.Player),
		games:   maps.Clone(s.games),
		order:   append([]string(nil), s.order...),
	}
	for k, v := range s.teams {
		t := *v
		c.teams[k] = &t
	}
	for k, v := range s.players {
		p := *v
		c.players[k] = &p
	}
	return c
}

func (s *memStore) ListTeams(context.Context) ([]*domain.Team, error) {
	return memTx{st: &s.state}.ListTeams(context.Background())
}

func (s *memStore) ListPlayers(context.Context) ([]*domain.Player, error) {
	var out []*domain.Player
	for _, p := range s.state.players {
		out = append(out, p)
	}
	return out, nil
}

func (s *memStore) ListGames(context.Context) ([]*domain.Game, error) {
	var out []*domain.Game
	for _, id := range s.state.order {
		out = append(out, s.state.games[id])
	}
	return out, nil
}

func (s *memStore) WithTx(ctx context.Context, fn func(Tx) error) error {
	work := s.state.copy()
	if err := fn(memTx{st: &work, failOn: s.failOn}); err != nil {
		return err
	}
	s.state = work
	return nil
}

type memTx struct {
	st     *memState
	failOn string
}

func (tx memTx) fail(op string) error {
	if tx.failOn == op {
		return fmt.Errorf("%s: simulated failure", op)
	}
	return nil
}

func (tx memTx) ListTeams(context.Context) ([]*domain.Team, error) {
	var out []*domain.Team
	for _, t := range tx.st.teams {
		out = append(out, t)
	}
	return out, nil
}

func (tx memTx) TeamExists(_ context.Context, id string) (bool, error) {
	_, ok := tx.st.teams[id]
	return ok, nil
}

func (tx memTx) PlayerExists(_ context.Context, id string) (bool, error) {
	_, ok := tx.st.players[id]
	return ok, nil
}

func (tx memTx) CreateTeam(_ context.Context, team *domain.Team) error {
	tx.st.teams[team.ID] = team
	return tx.fail("CreateTeam")
}

func (tx memTx) CreatePlayer(_ context.Context, player *domain.Player) error {
	tx.st.players[player.ID] = player
	return tx.fail("CreatePlayer")
}

func (tx memTx) InsertGame(_ context.Context, game *domain.Game) error {
	tx.st.games[game.ID] = game
	tx.st.order = append(tx.st.order, game.ID)
	return tx.fail("InsertGame")
}

func (tx memTx) UpdateGamesPlayed(_ context.Context, batch *domain.GamesPlayedBatch) error {
	for id, n := range batch.Teams {
		if t, ok := tx.st.teams[id]; ok {
			t.GameNumbers.Add(n)
		}
	}
	for id, n := range batch.Players {
		if p, ok := tx.st.players[id]; ok {
			p.GameNumbers.Add(n)
		}
	}
	return tx.fail("UpdateGamesPlayed")
}

func (tx memTx) BatchUpdateStats(_ context.Context, batch *domain.StatsBatch) error {
	for id, totals := range batch.Teams {
		if t, ok := tx.st.teams[id]; ok {
			t.Stats.Us.Merge(totals.Us, 1)
			t.Stats.Opponent.Merge(totals.Opponent, 1)
		}
	}
	for id, b := range batch.Players {
		if p, ok := tx.st.players[id]; ok {
			p.Stats.Merge(b, 1)
		}
	}
	return tx.fail("BatchUpdateStats")
}

var fixedNow = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

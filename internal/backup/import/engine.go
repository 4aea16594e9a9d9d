package backupimport

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/akanel15/StatLine-sub001/internal/backup/export"
	"github.com/akanel15/StatLine-sub001/internal/backup/statfile"
	"github.com/akanel15/StatLine-sub001/internal/domain"
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
	"github.com/akanel15/StatLine-sub001/internal/id"
	"github.com/akanel15/StatLine-sub001/internal/normalize"
	"github.com/akanel15/StatLine-sub001/internal/replay"
)

// DefaultTeamName names a created team when neither the file nor the
// caller supplies one.
const DefaultTeamName = "Imported Team"

// Engine executes approved imports.
type Engine struct {
	store  Store
	ids    id.Generator
	now    func() time.Time
	logger *slog.Logger
}

// New creates an Engine. A nil ids uses random prefixed ids.
func New(s Store, ids id.Generator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if ids == nil {
		ids = id.Generate
	}
	return &Engine{store: s, ids: ids, now: time.Now, logger: logger}
}

// execution carries the state of one import run.
type execution struct {
	tx      Tx
	result  *Result
	teamID  string
	now     time.Time
	stats   *domain.StatsBatch
	numbers *domain.GamesPlayedBatch
}

// Execute writes a validated package according to decisions. All writes
// happen in one store transaction: on any error nothing is kept.
func (e *Engine) Execute(ctx context.Context, pkg *statfile.Package, decisions Decisions) (*Result, error) {
	if pkg == nil {
		return nil, domainerrors.Validation("no import package")
	}
	if pkg.Version != statfile.FormatVersion {
		return nil, domainerrors.UnsupportedVersion(fmt.Sprintf("file version %d is not supported", pkg.Version))
	}

	start := time.Now()
	importID := uuid.NewString()
	log := e.logger.With("import_id", importID)

	var result *Result
	err := e.store.WithTx(ctx, func(tx Tx) error {
		run := &execution{
			tx: tx,
			result: &Result{
				ImportID:  importID,
				PlayerIDs: make(map[string]string),
				GameIDs:   make(map[string]string),
			},
			now:     e.now(),
			stats:   domain.NewStatsBatch(),
			numbers: domain.NewGamesPlayedBatch(),
		}
		if err := e.run(ctx, run, pkg, decisions); err != nil {
			return err
		}
		result = run.result
		return nil
	})
	if err != nil {
		log.Error("import failed, nothing written", "error", err)
		return nil, fmt.Errorf("execute import: %w", err)
	}

	result.Duration = time.Since(start)
	for _, w := range result.Warnings {
		log.Warn("import warning", "warning", w)
	}
	log.Info("import complete",
		"team_id", result.TeamID,
		"team_created", result.TeamCreated,
		"players_created", result.PlayersCreated,
		"players_linked", result.PlayersLinked,
		"games_imported", result.GamesImported,
		"games_skipped", result.GamesSkipped,
		"finished_games", result.FinishedGames,
		"duration", result.Duration)
	return result, nil
}

func (e *Engine) run(ctx context.Context, run *execution, pkg *statfile.Package, decisions Decisions) error {
	if err := e.resolveTeam(ctx, run, pkg, decisions); err != nil {
		return err
	}
	if err := e.resolvePlayers(ctx, run, pkg.Players, decisions.Players); err != nil {
		return err
	}

	for i := range pkg.Games {
		src := &pkg.Games[i]
		if slices.Contains(decisions.SkipGames, src.OriginalID) {
			run.result.GamesSkipped++
			continue
		}
		if err := e.importGame(ctx, run, src); err != nil {
			return fmt.Errorf("game %d (%s): %w", i, src.OriginalID, err)
		}
	}

	if len(run.numbers.Teams) > 0 || len(run.numbers.Players) > 0 {
		if err := run.tx.UpdateGamesPlayed(ctx, run.numbers); err != nil {
			return fmt.Errorf("update games played: %w", err)
		}
	}
	if !run.stats.Empty() {
		if err := run.tx.BatchUpdateStats(ctx, run.stats); err != nil {
			return fmt.Errorf("update cumulative stats: %w", err)
		}
	}
	return nil
}

// resolveTeam picks the destination team: the requested id if it exists,
// otherwise a team with the same name, otherwise a new team.
func (e *Engine) resolveTeam(ctx context.Context, run *execution, pkg *statfile.Package, decisions Decisions) error {
	if decisions.TeamID != "" {
		ok, err := run.tx.TeamExists(ctx, decisions.TeamID)
		if err != nil {
			return fmt.Errorf("look up team: %w", err)
		}
		if ok {
			run.teamID = decisions.TeamID
			run.result.TeamID = decisions.TeamID
			return nil
		}
		run.warn("team %s not found, resolving by name", decisions.TeamID)
	}

	name := decisions.TeamName
	if name == "" {
		name = pkg.Team.Name
	}
	if normalize.Name(name) == "" {
		name = DefaultTeamName
	}

	teams, err := run.tx.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	for _, t := range teams {
		if t != nil && normalize.EqualNames(t.Name, name) {
			run.teamID = t.ID
			run.result.TeamID = t.ID
			return nil
		}
	}

	teamID, err := e.ids(id.PrefixTeam)
	if err != nil {
		return err
	}
	team := &domain.Team{ID: teamID, Name: name, CreatedAt: run.now}
	if err := run.tx.CreateTeam(ctx, team); err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	run.teamID = teamID
	run.result.TeamID = teamID
	run.result.TeamCreated = true
	return nil
}

func (e *Engine) resolvePlayers(ctx context.Context, run *execution, players []statfile.Player, decisions map[string]PlayerDecision) error {
	for _, p := range players {
		if _, done := run.result.PlayerIDs[p.OriginalID]; done {
			run.warn("player %s listed twice, keeping the first entry", p.OriginalID)
			continue
		}

		d, ok := decisions[p.OriginalID]
		if ok && d.Action == PlayerLink {
			exists := false
			if d.ExistingID != "" {
				var err error
				if exists, err = run.tx.PlayerExists(ctx, d.ExistingID); err != nil {
					return fmt.Errorf("look up player: %w", err)
				}
			}
			if exists {
				run.result.PlayerIDs[p.OriginalID] = d.ExistingID
				run.result.PlayersLinked++
				continue
			}
			run.warn("player %s: link target %q not found, creating", p.OriginalID, d.ExistingID)
		}

		if err := e.createPlayer(ctx, run, p); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) createPlayer(ctx context.Context, run *execution, p statfile.Player) error {
	playerID, err := e.ids(id.PrefixPlayer)
	if err != nil {
		return err
	}
	player := &domain.Player{
		ID:        playerID,
		TeamID:    run.teamID,
		Name:      p.Name,
		Number:    p.Number,
		CreatedAt: run.now,
	}
	if err := run.tx.CreatePlayer(ctx, player); err != nil {
		return fmt.Errorf("create player %s: %w", p.OriginalID, err)
	}
	run.result.PlayerIDs[p.OriginalID] = playerID
	run.result.PlayersCreated++
	return nil
}

func (e *Engine) importGame(ctx context.Context, run *execution, src *statfile.Game) error {
	foreign := toGame(src)

	for _, orig := range export.CollectPlayerIDs([]*domain.Game{foreign}) {
		if _, ok := run.result.PlayerIDs[orig]; ok {
			continue
		}
		run.warn("player %s is referenced by game %s but not listed, creating %q", orig, src.OriginalID, statfile.UnknownPlayerName)
		if err := e.createPlayer(ctx, run, statfile.Player{OriginalID: orig, Name: statfile.UnknownPlayerName}); err != nil {
			return err
		}
	}

	gameID, err := e.ids(id.PrefixGame)
	if err != nil {
		return err
	}
	game := remapGame(foreign, func(orig string) string {
		if local, ok := run.result.PlayerIDs[orig]; ok {
			return local
		}
		return orig
	})
	game.ID = gameID
	game.TeamID = run.teamID
	game.CreatedAt = run.now
	game.UpdatedAt = run.now

	if err := run.tx.InsertGame(ctx, game); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	run.result.GameIDs[src.OriginalID] = gameID
	run.result.GamesImported++

	if game.IsFinished {
		replay.Contribution(game).AddTo(run.teamID, run.stats, run.numbers, nil)
		run.result.FinishedGames++
	}
	return nil
}

func (run *execution) warn(format string, args ...any) {
	run.result.Warnings = append(run.result.Warnings, fmt.Sprintf(format, args...))
}

// toGame copies a wire game into a domain game with foreign ids intact.
func toGame(src *statfile.Game) *domain.Game {
	g := &domain.Game{
		OpposingTeamName: src.OpposingTeamName,
		PeriodType:       src.PeriodType,
		IsFinished:       src.IsFinished,
		StatTotals:       src.StatTotals,
		BoxScore:         src.BoxScore,
		Periods:          src.Periods,
		GamePlayedList:   src.GamePlayedList,
		ActivePlayers:    src.ActivePlayers,
	}
	return g.Clone()
}

// remapGame returns a copy of g with every individual player id passed
// through remap. Team and opponent references are untouched. Box-score
// lines that collapse onto one local player are merged.
func remapGame(g *domain.Game, remap func(string) string) *domain.Game {
	out := g.Clone()

	out.BoxScore = make(map[domain.PlayerRef]domain.StatsBag, len(g.BoxScore))
	for ref, bag := range g.BoxScore {
		local := ref.RemapIndividual(remap)
		merged := out.BoxScore[local]
		merged.Merge(bag, 1)
		out.BoxScore[local] = merged
	}

	out.GamePlayedList = remapList(g.GamePlayedList, remap)
	out.ActivePlayers = remapList(g.ActivePlayers, remap)

	for _, period := range out.Periods {
		if period == nil {
			continue
		}
		for _, entry := range period.PlayByPlay {
			if entry == nil {
				continue
			}
			entry.PlayerID = entry.PlayerID.RemapIndividual(remap)
			entry.ActivePlayers = remapList(entry.ActivePlayers, remap)
		}
	}

	out.Sets = make(map[string]*domain.Set)
	return out
}

func remapList(ids []string, remap func(string) string) []string {
	if ids == nil {
		return []string{}
	}
	out := make([]string, len(ids))
	for i, s := range ids {
		out[i] = domain.ParsePlayerRef(s).RemapIndividual(remap).String()
	}
	return out
}

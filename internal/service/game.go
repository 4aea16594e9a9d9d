package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/akanel15/StatLine-sub001/internal/domain"
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
	"github.com/akanel15/StatLine-sub001/internal/id"
	"github.com/akanel15/StatLine-sub001/internal/replay"
	"github.com/akanel15/StatLine-sub001/internal/store"
	"github.com/akanel15/StatLine-sub001/internal/validation"
)

// GameService drives live games. Every mutation of one game runs under
// that game's lock inside one store transaction, and every aggregate change
// goes through replay.Apply.
type GameService struct {
	store     GameStore
	logger    *slog.Logger
	validator *validation.Validator
	ids       id.Generator
	now       func() time.Time
	locks     *keyedMutex
}

// NewGameService creates a new game service.
func NewGameService(store GameStore, logger *slog.Logger) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
		ids:       id.Generate,
		now:       time.Now,
		locks:     newKeyedMutex(),
	}
}

// CreateGameRequest contains fields for starting a game.
type CreateGameRequest struct {
	TeamID           string            `json:"teamId" validate:"required"`
	OpposingTeamName string            `json:"opposingTeamName" validate:"required,max=100"`
	PeriodType       domain.PeriodType `json:"periodType" validate:"required,oneof=quarters halves"`
}

// CreateGame starts an unfinished game with one empty period.
func (s *GameService) CreateGame(ctx context.Context, req CreateGameRequest) (*domain.Game, error) {
	req.OpposingTeamName = strings.TrimSpace(req.OpposingTeamName)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	gameID, err := s.ids(id.PrefixGame)
	if err != nil {
		return nil, err
	}
	game := domain.NewGame(gameID, req.TeamID, req.OpposingTeamName, req.PeriodType, s.now())

	err = s.store.WithTx(ctx, func(tx GameTx) error {
		ok, err := tx.TeamExists(ctx, req.TeamID)
		if err != nil {
			return err
		}
		if !ok {
			return domainerrors.NotFoundf("team %s not found", req.TeamID)
		}
		return tx.InsertGame(ctx, game)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("game created", "game_id", game.ID, "team_id", game.TeamID, "opponent", game.OpposingTeamName)
	return game, nil
}

// GetGame returns a game by id.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.store.GetGame(ctx, gameID)
}

// LineupRequest lists the players on court.
type LineupRequest struct {
	PlayerIDs []string `json:"playerIds" validate:"max=5,unique,dive,required"`
}

// SetLineup replaces the players on court. Everyone put on court is
// credited with played status for the game.
func (s *GameService) SetLineup(ctx context.Context, gameID string, req LineupRequest) (*domain.Game, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	return s.mutate(ctx, gameID, func(tx GameTx, game *domain.Game) error {
		if err := requireLive(game); err != nil {
			return err
		}
		for _, playerID := range req.PlayerIDs {
			if err := s.checkRostered(ctx, tx, game, playerID); err != nil {
				return err
			}
		}
		game.ActivePlayers = slices.Clone(req.PlayerIDs)
		game.MarkPlayed(req.PlayerIDs...)
		return nil
	})
}

// StartPeriod appends the next period. Periods past the regulation count
// are overtime.
func (s *GameService) StartPeriod(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(_ GameTx, game *domain.Game) error {
		if err := requireLive(game); err != nil {
			return err
		}
		game.Periods = append(game.Periods, &domain.Period{PlayByPlay: []*domain.PlayEntry{}})
		return nil
	})
}

// SelectSet makes setID the active play call and counts one run of it on
// both the game copy and the team set. An empty setID clears the active
// set. Selecting the set that is already active is a no-op.
func (s *GameService) SelectSet(ctx context.Context, gameID, setID string) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(tx GameTx, game *domain.Game) error {
		if err := requireLive(game); err != nil {
			return err
		}
		if setID == "" {
			game.ActiveSetID = ""
			return nil
		}
		if setID == game.ActiveSetID {
			return nil
		}

		teamSet, err := tx.GetSet(ctx, setID)
		if err != nil {
			return err
		}
		if teamSet.TeamID != game.TeamID {
			return domainerrors.Validationf("set %s belongs to another team", setID)
		}

		if game.Sets == nil {
			game.Sets = make(map[string]*domain.Set)
		}
		gameSet := game.Sets[setID]
		if gameSet == nil {
			gameSet = &domain.Set{ID: teamSet.ID, Name: teamSet.Name, TeamID: teamSet.TeamID}
			game.Sets[setID] = gameSet
		}
		gameSet.RunCount++

		teamSet.RunCount++
		if err := tx.SaveSet(ctx, teamSet); err != nil {
			return fmt.Errorf("save set: %w", err)
		}

		game.ActiveSetID = setID
		return nil
	})
}

// RecordResult is the outcome of one recorded action.
type RecordResult struct {
	Game  *domain.Game        `json:"game"`
	Plays []*domain.PlayEntry `json:"plays"`
	// SetReset is true when the action ended the active set's possession.
	SetReset bool `json:"setReset"`
}

// RecordAction appends one log entry per stat of an action, credited to
// player, and folds each into the game's aggregates. Entries carry the
// active set and a snapshot of the players on court. A make counts its own
// attempt, so actions list a make without that attempt; a missed shot is
// the attempt alone.
func (s *GameService) RecordAction(ctx context.Context, gameID string, player domain.PlayerRef, actions []domain.Stat) (*RecordResult, error) {
	if err := checkAction(player, actions); err != nil {
		return nil, err
	}

	result := &RecordResult{}
	game, err := s.mutate(ctx, gameID, func(tx GameTx, game *domain.Game) error {
		if err := requireLive(game); err != nil {
			return err
		}
		if playerID, ok := player.PlayerID(); ok {
			if err := s.checkRostered(ctx, tx, game, playerID); err != nil {
				return err
			}
		}

		period := game.CurrentPeriod()
		for _, action := range actions {
			playID, err := s.ids(id.PrefixPlay)
			if err != nil {
				return err
			}
			entry := &domain.PlayEntry{
				ID:            playID,
				PlayerID:      player,
				Action:        action,
				SetID:         game.ActiveSetID,
				ActivePlayers: slices.Clone(game.ActivePlayers),
			}
			period.PlayByPlay = slices.Insert(period.PlayByPlay, 0, entry)
			replay.Apply(game, period, entry, 1)
			result.Plays = append(result.Plays, entry)
		}

		if game.ActiveSetID != "" && domain.ShouldResetSet(actions, player.IsOpponent()) {
			game.ActiveSetID = ""
			result.SetReset = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Game = game
	s.logger.Debug("action recorded", "game_id", gameID, "player", player.String(), "plays", len(result.Plays), "set_reset", result.SetReset)
	return result, nil
}

// DeletePlay removes one log entry and reverses its effect on every
// aggregate, using the on-court snapshot stored with the entry.
func (s *GameService) DeletePlay(ctx context.Context, gameID, playID string) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(_ GameTx, game *domain.Game) error {
		if err := requireLive(game); err != nil {
			return err
		}
		pi, ei, ok := game.FindPlay(playID)
		if !ok {
			return domainerrors.NotFoundf("play %s not found", playID)
		}
		period := game.Periods[pi]
		replay.Apply(game, period, period.PlayByPlay[ei], -1)
		period.PlayByPlay = slices.Delete(period.PlayByPlay, ei, ei+1)
		return nil
	})
}

// Finish closes a game and rolls its aggregates into the team, its
// players and the team sets, all in the same transaction.
func (s *GameService) Finish(ctx context.Context, gameID string) (*domain.Game, error) {
	game, err := s.mutate(ctx, gameID, func(tx GameTx, game *domain.Game) error {
		if err := requireLive(game); err != nil {
			return err
		}
		game.IsFinished = true
		game.ActiveSetID = ""

		stats := domain.NewStatsBatch()
		numbers := domain.NewGamesPlayedBatch()
		replay.Contribution(game).AddTo(game.TeamID, stats, numbers, nil)

		if err := tx.UpdateGamesPlayed(ctx, numbers); err != nil {
			return fmt.Errorf("update games played: %w", err)
		}
		if err := tx.BatchUpdateStats(ctx, stats); err != nil {
			return fmt.Errorf("update stats: %w", err)
		}
		return s.rollUpSets(ctx, tx, game)
	})
	if err != nil {
		return nil, err
	}

	if problems := replay.CheckConsistency(game); len(problems) > 0 {
		s.logger.Warn("finished game is inconsistent", "game_id", game.ID, "problems", problems)
	}
	s.logger.Info("game finished",
		"game_id", game.ID,
		"result", game.Result(),
		"us", game.Points(domain.SideUs),
		"opponent", game.Points(domain.SideOpponent),
	)
	return game, nil
}

// rollUpSets adds each game set's stats to its team set. Team sets deleted
// since the game started are skipped.
func (s *GameService) rollUpSets(ctx context.Context, tx GameTx, game *domain.Game) error {
	for setID, gameSet := range game.Sets {
		if gameSet == nil || gameSet.Stats.IsZero() {
			continue
		}
		teamSet, err := tx.GetSet(ctx, setID)
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("skipping roll-up of missing set", "game_id", game.ID, "set_id", setID)
			continue
		}
		if err != nil {
			return err
		}
		teamSet.Stats.Merge(gameSet.Stats, 1)
		if err := tx.SaveSet(ctx, teamSet); err != nil {
			return fmt.Errorf("save set: %w", err)
		}
	}
	return nil
}

// RebuildResult is a game rebuilt from its log with any problems the
// rebuilt aggregates still show.
type RebuildResult struct {
	Game     *domain.Game `json:"game"`
	Problems []string     `json:"problems"`
}

// Rebuild re-derives every aggregate of a game from its play log.
// Cumulative team and player stats of finished games are left alone.
func (s *GameService) Rebuild(ctx context.Context, gameID string) (*RebuildResult, error) {
	game, err := s.mutate(ctx, gameID, func(_ GameTx, game *domain.Game) error {
		*game = *replay.Rebuild(game)
		return nil
	})
	if err != nil {
		return nil, err
	}

	problems := replay.CheckConsistency(game)
	if problems == nil {
		problems = []string{}
	}
	s.logger.Info("game rebuilt", "game_id", game.ID, "problems", len(problems))
	return &RebuildResult{Game: game, Problems: problems}, nil
}

// MigrateSetStats recomputes one game's set stats from its log under the
// game's lock, reading the current copy inside the write transaction. The
// game is saved only when its set stats changed.
func (s *GameService) MigrateSetStats(ctx context.Context, gameID string) (bool, error) {
	unlock := s.locks.lock(gameID)
	defer unlock()

	changed := false
	err := s.store.WithTx(ctx, func(tx GameTx) error {
		game, err := tx.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		report := replay.MigrateAll([]*domain.Game{game})
		if len(report.Failures) > 0 {
			return report.Failures[0].Err
		}
		if len(report.Changed) == 0 {
			return nil
		}
		if err := tx.SaveGame(ctx, report.Games[0]); err != nil {
			return fmt.Errorf("save game: %w", err)
		}
		changed = true
		return nil
	})
	return changed, err
}

// mutate loads a game under its lock, applies fn and saves the result in
// one transaction.
func (s *GameService) mutate(ctx context.Context, gameID string, fn func(GameTx, *domain.Game) error) (*domain.Game, error) {
	unlock := s.locks.lock(gameID)
	defer unlock()

	var out *domain.Game
	err := s.store.WithTx(ctx, func(tx GameTx) error {
		game, err := tx.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		if err := fn(tx, game); err != nil {
			return err
		}
		game.UpdatedAt = s.now()
		if err := tx.SaveGame(ctx, game); err != nil {
			return fmt.Errorf("save game: %w", err)
		}
		out = game
		return nil
	})
	return out, err
}

func (s *GameService) checkRostered(ctx context.Context, tx GameTx, game *domain.Game, playerID string) error {
	p, err := tx.GetPlayer(ctx, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.Validationf("player %s not found", playerID)
	}
	if err != nil {
		return err
	}
	if p.TeamID != game.TeamID {
		return domainerrors.Validationf("player %s is not on team %s", playerID, game.TeamID)
	}
	return nil
}

func requireLive(game *domain.Game) error {
	if game.IsFinished {
		return domainerrors.Conflictf("game %s is finished", game.ID)
	}
	return nil
}

// checkAction rejects empty actions, stats the fold derives, a make listed
// together with the attempt it already implies, and points credited to the
// generic team entry, which no box-score line would account for.
func checkAction(player domain.PlayerRef, actions []domain.Stat) error {
	if player.IsZero() {
		return domainerrors.Validation("playerId is required")
	}
	if len(actions) == 0 {
		return domainerrors.Validation("at least one action is required")
	}
	for _, a := range actions {
		if !a.Valid() {
			return domainerrors.Validationf("unknown action %d", a)
		}
		if !domain.IsRecordable(a) {
			return domainerrors.Validationf("%s is derived and cannot be recorded", a)
		}
		for _, implied := range domain.ImpliedStats(a) {
			if implied != a && slices.Contains(actions, implied) {
				return domainerrors.Validationf("%s already counts %s", a, implied)
			}
		}
		if player == domain.OurTeam() && domain.IsScoringPlay(a) {
			return domainerrors.Validationf("%s must be credited to a player", a)
		}
	}
	return nil
}

package domain

import (
	"slices"
	"time"
)

// TeamSide tags team-scoped aggregates.
type TeamSide string

// Team sides.
const (
	SideUs       TeamSide = "Us"
	SideOpponent TeamSide = "Opponent"
)

// TeamTotals holds one bag per side.
type TeamTotals struct {
	Us       StatsBag `json:"Us"`
	Opponent StatsBag `json:"Opponent"`
}

// Side returns the bag for a side.
func (t *TeamTotals) Side(side TeamSide) *StatsBag {
	if side == SideOpponent {
		return &t.Opponent
	}
	return &t.Us
}

// PeriodType is how a game is divided.
type PeriodType string

// Period types.
const (
	PeriodQuarters PeriodType = "quarters"
	PeriodHalves   PeriodType = "halves"
)

// Valid returns true if the period type is recognized.
func (p PeriodType) Valid() bool {
	switch p {
	case PeriodQuarters, PeriodHalves:
		return true
	default:
		return false
	}
}

// PlayEntry is one record of the play-by-play log.
type PlayEntry struct {
	ID       string    `json:"id"`
	PlayerID PlayerRef `json:"playerId"`
	Action   Stat      `json:"action"`
	SetID    string    `json:"setId,omitempty"`
	// ActivePlayers is who was on court when the play was recorded.
	ActivePlayers []string `json:"activePlayers,omitempty"`
}

// Period is one quarter or half. PlayByPlay is stored newest-first.
type Period struct {
	Us         int          `json:"Us"`
	Opponent   int          `json:"Opponent"`
	PlayByPlay []*PlayEntry `json:"playByPlay"`
}

// Score returns the period score for a side.
func (p *Period) Score(side TeamSide) *int {
	if side == SideOpponent {
		return &p.Opponent
	}
	return &p.Us
}

// Chronological returns the entries oldest-first, skipping nil entries.
func (p *Period) Chronological() []*PlayEntry {
	out := make([]*PlayEntry, 0, len(p.PlayByPlay))
	for i := len(p.PlayByPlay) - 1; i >= 0; i-- {
		if e := p.PlayByPlay[i]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Set is a named lineup or play call.
type Set struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	TeamID   string   `json:"teamId"`
	RunCount int      `json:"runCount"`
	Stats    StatsBag `json:"stats"`
}

// Game is one game with its play log and derived aggregates.
type Game struct {
	ID               string                 `json:"id"`
	TeamID           string                 `json:"teamId"`
	OpposingTeamName string                 `json:"opposingTeamName"`
	PeriodType       PeriodType             `json:"periodType"`
	IsFinished       bool                   `json:"isFinished"`
	StatTotals       TeamTotals             `json:"statTotals"`
	BoxScore         map[PlayerRef]StatsBag `json:"boxScore"`
	Periods          []*Period              `json:"periods"`
	GamePlayedList   []string               `json:"gamePlayedList"`
	ActivePlayers    []string               `json:"activePlayers"`
	ActiveSetID      string                 `json:"activeSetId,omitempty"`
	Sets             map[string]*Set        `json:"sets,omitempty"`
	Image            string                 `json:"image,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

// NewGame creates an unfinished game with one empty period.
func NewGame(id, teamID, opponent string, periodType PeriodType, now time.Time) *Game {
	return &Game{
		ID:               id,
		TeamID:           teamID,
		OpposingTeamName: opponent,
		PeriodType:       periodType,
		BoxScore:         make(map[PlayerRef]StatsBag),
		Periods:          []*Period{{}},
		GamePlayedList:   []string{},
		ActivePlayers:    []string{},
		Sets:             make(map[string]*Set),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Points returns the final or running points for a side.
func (g *Game) Points(side TeamSide) int {
	return g.StatTotals.Side(side).Get(Points)
}

// Result computes the outcome from the game's own totals.
func (g *Game) Result() GameResult {
	us, them := g.Points(SideUs), g.Points(SideOpponent)
	switch {
	case us > them:
		return ResultWin
	case us < them:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// CurrentPeriod returns the last period, creating one if none exists.
func (g *Game) CurrentPeriod() *Period {
	if n := len(g.Periods); n > 0 && g.Periods[n-1] != nil {
		return g.Periods[n-1]
	}
	p := &Period{}
	g.Periods = append(g.Periods, p)
	return p
}

// FindPlay locates an entry by id.
func (g *Game) FindPlay(playID string) (periodIndex, entryIndex int, ok bool) {
	for pi, p := range g.Periods {
		if p == nil {
			continue
		}
		for ei, e := range p.PlayByPlay {
			if e != nil && e.ID == playID {
				return pi, ei, true
			}
		}
	}
	return 0, 0, false
}

// MarkPlayed credits players with played status for this game.
func (g *Game) MarkPlayed(ids ...string) {
	for _, id := range ids {
		if id != "" && !slices.Contains(g.GamePlayedList, id) {
			g.GamePlayedList = append(g.GamePlayedList, id)
		}
	}
}

// Clone returns a deep copy.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.BoxScore = make(map[PlayerRef]StatsBag, len(g.BoxScore))
	for k, v := range g.BoxScore {
		c.BoxScore[k] = v
	}
	if g.Periods != nil {
		c.Periods = make([]*Period, len(g.Periods))
		for i, p := range g.Periods {
			if p == nil {
				continue
			}
			cp := *p
			if p.PlayByPlay != nil {
				cp.PlayByPlay = make([]*PlayEntry, len(p.PlayByPlay))
				for j, e := range p.PlayByPlay {
					if e == nil {
						continue
					}
					ce := *e
					ce.ActivePlayers = slices.Clone(e.ActivePlayers)
					cp.PlayByPlay[j] = &ce
				}
			}
			c.Periods[i] = &cp
		}
	}
	c.GamePlayedList = slices.Clone(g.GamePlayedList)
	c.ActivePlayers = slices.Clone(g.ActivePlayers)
	if g.Sets != nil {
		c.Sets = make(map[string]*Set, len(g.Sets))
		for k, s := range g.Sets {
			if s == nil {
				continue
			}
			cs := *s
			c.Sets[k] = &cs
		}
	}
	return &c
}

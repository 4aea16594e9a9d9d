// Package export builds portable export files from a team's games.
package export

import (
	"slices"
	"time"

	"github.com/akanel15/StatLine-sub001/internal/backup/statfile"
	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// PlayerLookup resolves a player id against the local roster.
type PlayerLookup interface {
	LookupPlayer(id string) (*domain.Player, bool)
}

// PlayerMap is a PlayerLookup over an in-memory roster.
type PlayerMap map[string]*domain.Player

// LookupPlayer implements PlayerLookup.
func (m PlayerMap) LookupPlayer(id string) (*domain.Player, bool) {
	p, ok := m[id]
	return p, ok && p != nil
}

// Summary counts what a package carries.
type Summary struct {
	Games          int `json:"games"`
	FinishedGames  int `json:"finishedGames"`
	Players        int `json:"players"`
	UnknownPlayers int `json:"unknownPlayers"`
	Plays          int `json:"plays"`
}

// BuildPackage snapshots games into an export package. Every individual
// player id the games mention is exported, in order of first discovery; ids
// the lookup cannot resolve are exported as unknown players rather than
// dropped.
func BuildPackage(teamName string, games []*domain.Game, lookup PlayerLookup, now time.Time) *statfile.Package {
	pkg := &statfile.Package{
		Version:    statfile.FormatVersion,
		ExportDate: now.UTC().Format(time.RFC3339),
		Team:       statfile.Team{Name: teamName},
		Players:    []statfile.Player{},
		Games:      make([]statfile.Game, 0, len(games)),
	}

	for _, id := range CollectPlayerIDs(games) {
		player := statfile.Player{OriginalID: id, Name: statfile.UnknownPlayerName}
		if lookup != nil {
			if p, ok := lookup.LookupPlayer(id); ok {
				player.Name = p.Name
				player.Number = p.Number
			}
		}
		pkg.Players = append(pkg.Players, player)
	}

	for _, g := range games {
		if g == nil {
			continue
		}
		pkg.Games = append(pkg.Games, exportGame(g))
	}
	return pkg
}

func exportGame(g *domain.Game) statfile.Game {
	c := g.Clone()
	return statfile.Game{
		OriginalID:       c.ID,
		OpposingTeamName: c.OpposingTeamName,
		PeriodType:       c.PeriodType,
		IsFinished:       c.IsFinished,
		StatTotals:       c.StatTotals,
		BoxScore:         c.BoxScore,
		Periods:          c.Periods,
		GamePlayedList:   c.GamePlayedList,
		ActivePlayers:    c.ActivePlayers,
	}
}

// CollectPlayerIDs returns the union of individual player ids across box
// scores, played lists, active players, play authors and play snapshots.
// Box-score keys are visited in sorted order so the result is stable.
func CollectPlayerIDs(games []*domain.Game) []string {
	var ids []string
	seen := make(map[string]bool)

	add := func(ref domain.PlayerRef) {
		id, ok := ref.PlayerID()
		if !ok || id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	addRaw := func(list []string) {
		for _, s := range list {
			add(domain.ParsePlayerRef(s))
		}
	}

	for _, g := range games {
		if g == nil {
			continue
		}

		keys := make([]string, 0, len(g.BoxScore))
		for ref := range g.BoxScore {
			keys = append(keys, ref.String())
		}
		slices.Sort(keys)
		addRaw(keys)

		addRaw(g.GamePlayedList)
		addRaw(g.ActivePlayers)

		for _, period := range g.Periods {
			if period == nil {
				continue
			}
			for _, entry := range period.Chronological() {
				add(entry.PlayerID)
				addRaw(entry.ActivePlayers)
			}
		}
	}
	return ids
}

// Summarize counts the contents of a package.
func Summarize(pkg *statfile.Package) Summary {
	s := Summary{Games: len(pkg.Games), Players: len(pkg.Players)}
	for _, p := range pkg.Players {
		if p.Name == statfile.UnknownPlayerName && p.Number == "" {
			s.UnknownPlayers++
		}
	}
	for _, g := range pkg.Games {
		if g.IsFinished {
			s.FinishedGames++
		}
		for _, period := range g.Periods {
			if period != nil {
				s.Plays += len(period.PlayByPlay)
			}
		}
	}
	return s
}

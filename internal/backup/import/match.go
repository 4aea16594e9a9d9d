package backupimport

import (
	"github.com/akanel15/StatLine-sub001/internal/backup/statfile"
	"github.com/akanel15/StatLine-sub001/internal/domain"
	"github.com/akanel15/StatLine-sub001/internal/normalize"
)

// DuplicateMatch pairs an incoming game with a local game it duplicates.
type DuplicateMatch struct {
	Index      int    `json:"index"`
	OriginalID string `json:"originalId"`
	ExistingID string `json:"existingId"`
}

// FindDuplicate returns the first existing game with the same opponent
// (case-insensitive), the same points for both sides and the same finished
// flag, or nil.
func FindDuplicate(game *statfile.Game, existing []*domain.Game) *domain.Game {
	opponent := normalize.Name(game.OpposingTeamName)
	us := game.Points(domain.SideUs)
	them := game.Points(domain.SideOpponent)

	for _, e := range existing {
		if e == nil {
			continue
		}
		if e.IsFinished == game.IsFinished &&
			e.Points(domain.SideUs) == us &&
			e.Points(domain.SideOpponent) == them &&
			normalize.Name(e.OpposingTeamName) == opponent {
			return e
		}
	}
	return nil
}

// FindDuplicates runs FindDuplicate for every game of a package.
func FindDuplicates(pkg *statfile.Package, existing []*domain.Game) []DuplicateMatch {
	var out []DuplicateMatch
	for i := range pkg.Games {
		g := &pkg.Games[i]
		if dup := FindDuplicate(g, existing); dup != nil {
			out = append(out, DuplicateMatch{Index: i, OriginalID: g.OriginalID, ExistingID: dup.ID})
		}
	}
	return out
}

// MatchReason explains how an incoming player was matched.
type MatchReason string

// Match reasons.
const (
	MatchNone           MatchReason = "none"
	MatchUniqueName     MatchReason = "unique_name"
	MatchNameAndNumber  MatchReason = "name_and_number"
	MatchAmbiguousFirst MatchReason = "ambiguous_first"
)

// PlayerMatch is the automatic match proposal for one incoming player.
// Existing is nil when no local player has the same name.
type PlayerMatch struct {
	Incoming   statfile.Player `json:"incoming"`
	Existing   *domain.Player  `json:"existing,omitempty"`
	Reason     MatchReason     `json:"reason"`
	Candidates int             `json:"candidates"`
}

// MatchPlayers proposes a local player for every incoming player.
//
// A unique name match wins. Several players sharing the name are narrowed
// by jersey number; if that still leaves more than one, or none, the first
// candidate in the order existing was given is taken and the match is
// flagged MatchAmbiguousFirst.
func MatchPlayers(incoming []statfile.Player, existing []*domain.Player) []PlayerMatch {
	byName := make(map[string][]*domain.Player)
	for _, p := range existing {
		if p == nil {
			continue
		}
		key := normalize.Name(p.Name)
		byName[key] = append(byName[key], p)
	}

	out := make([]PlayerMatch, 0, len(incoming))
	for _, in := range incoming {
		candidates := byName[normalize.Name(in.Name)]
		m := PlayerMatch{Incoming: in, Reason: MatchNone, Candidates: len(candidates)}

		switch len(candidates) {
		case 0:
		case 1:
			m.Existing = candidates[0]
			m.Reason = MatchUniqueName
		default:
			var numbered []*domain.Player
			for _, c := range candidates {
				if normalize.Number(c.Number) == normalize.Number(in.Number) {
					numbered = append(numbered, c)
				}
			}
			switch len(numbered) {
			case 1:
				m.Existing = numbered[0]
				m.Reason = MatchNameAndNumber
			case 0:
				m.Existing = candidates[0]
				m.Reason = MatchAmbiguousFirst
			default:
				m.Existing = numbered[0]
				m.Reason = MatchAmbiguousFirst
			}
		}
		out = append(out, m)
	}
	return out
}

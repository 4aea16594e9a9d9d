package domain

import "errors"

// Wire names of the two non-individual player references.
const (
	OpponentRefName = "Opponent"
	TeamRefName     = "Team"
)

// PlayerRefKind discriminates PlayerRef.
type PlayerRefKind uint8

// PlayerRef kinds.
const (
	RefIndividual PlayerRefKind = iota + 1
	RefOpponent
	RefOurTeam
)

// PlayerRef identifies who a play or box-score line belongs to: one of our
// players, the opposing team as a whole, or our team without an individual.
// The zero value is invalid.
type PlayerRef struct {
	kind PlayerRefKind
	id   string
}

// Individual references one of our players.
func Individual(id string) PlayerRef {
	return PlayerRef{kind: RefIndividual, id: id}
}

// OpponentTeam references the opposing team.
func OpponentTeam() PlayerRef {
	return PlayerRef{kind: RefOpponent}
}

// OurTeam references our team without attributing an individual.
func OurTeam() PlayerRef {
	return PlayerRef{kind: RefOurTeam}
}

// ParsePlayerRef decodes a wire identifier.
func ParsePlayerRef(s string) PlayerRef {
	switch s {
	case OpponentRefName:
		return OpponentTeam()
	case TeamRefName:
		return OurTeam()
	default:
		return Individual(s)
	}
}

// Kind returns the discriminator.
func (r PlayerRef) Kind() PlayerRefKind { return r.kind }

// IsIndividual reports whether the ref names a real player.
func (r PlayerRef) IsIndividual() bool { return r.kind == RefIndividual }

// IsOpponent reports whether the ref is the opposing team.
func (r PlayerRef) IsOpponent() bool { return r.kind == RefOpponent }

// IsZero reports whether the ref was never set.
func (r PlayerRef) IsZero() bool { return r.kind == 0 }

// PlayerID returns the player id and true for individual refs.
func (r PlayerRef) PlayerID() (string, bool) {
	if r.kind != RefIndividual {
		return "", false
	}
	return r.id, true
}

// Side returns the team side the ref plays for.
func (r PlayerRef) Side() TeamSide {
	if r.kind == RefOpponent {
		return SideOpponent
	}
	return SideUs
}

// String returns the wire identifier.
func (r PlayerRef) String() string {
	switch r.kind {
	case RefOpponent:
		return OpponentRefName
	case RefOurTeam:
		return TeamRefName
	default:
		return r.id
	}
}

// MarshalText implements encoding.TextMarshaler so refs work as JSON map keys.
func (r PlayerRef) MarshalText() ([]byte, error) {
	if r.kind == 0 || (r.kind == RefIndividual && r.id == "") {
		return nil, errors.New("empty player reference")
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *PlayerRef) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return errors.New("empty player reference")
	}
	*r = ParsePlayerRef(string(text))
	return nil
}

// RemapIndividual returns the ref with its player id passed through fn.
// Team and opponent refs are returned unchanged.
func (r PlayerRef) RemapIndividual(fn func(string) string) PlayerRef {
	if r.kind != RefIndividual {
		return r
	}
	return Individual(fn(r.id))
}

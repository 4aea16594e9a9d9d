package backupimport

import (
	"encoding/json/v2"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/akanel15/StatLine-sub001/internal/backup/statfile"
	"github.com/akanel15/StatLine-sub001/internal/domain"
	"github.com/akanel15/StatLine-sub001/internal/validation"
)

// ValidationResult is the outcome of validating an untrusted file. Errors
// lists every problem found as "field.path: message"; Package is set only
// when the file is valid.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Errors  []string          `json:"errors"`
	Package *statfile.Package `json:"-"`
}

var rules = validation.New()

// ValidateBytes parses and validates a raw export file.
func ValidateBytes(data []byte) ValidationResult {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ValidationResult{Errors: []string{"file: invalid JSON: " + err.Error()}}
	}
	return Validate(raw)
}

// Validate checks a decoded JSON document against the export file contract.
// It never stops at the first problem.
func Validate(raw any) ValidationResult {
	w := &walker{}
	w.root(raw)
	if len(w.errs) > 0 {
		return ValidationResult{Errors: w.errs}
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return ValidationResult{Errors: []string{"file: " + err.Error()}}
	}
	pkg, err := statfile.Decode(data)
	if err != nil {
		return ValidationResult{Errors: []string{"file: " + err.Error()}}
	}
	return ValidationResult{Valid: true, Package: pkg}
}

// walker accumulates field-path errors over a generic JSON tree.
type walker struct {
	errs []string
}

func (w *walker) fail(path, msg string) {
	w.errs = append(w.errs, path+": "+msg)
}

func (w *walker) check(path string, value any, tag string) {
	if msg, ok := rules.Check(value, tag); !ok {
		w.fail(path, msg)
	}
}

func (w *walker) object(path string, v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		w.fail(path, "must be an object")
	}
	return m, ok
}

func (w *walker) array(path string, v any) ([]any, bool) {
	a, ok := v.([]any)
	if !ok {
		w.fail(path, "must be an array")
	}
	return a, ok
}

func (w *walker) str(path string, v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		w.fail(path, "must be a string")
	}
	return s, ok
}

func (w *walker) boolean(path string, v any) {
	if _, ok := v.(bool); !ok {
		w.fail(path, "must be a boolean")
	}
}

func (w *walker) integer(path string, v any) (float64, bool) {
	n, ok := v.(float64)
	if !ok {
		w.fail(path, "must be a number")
		return 0, false
	}
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		w.fail(path, "must be a whole number")
		return 0, false
	}
	return n, true
}

// optional runs fn when key is present and not null.
func optional(m map[string]any, key string, fn func(any)) {
	if v, ok := m[key]; ok && v != nil {
		fn(v)
	}
}

// required runs fn when key is present, otherwise records it as missing.
func (w *walker) required(m map[string]any, path, key string, fn func(string, any)) {
	p := join(path, key)
	v, ok := m[key]
	if !ok || v == nil {
		w.fail(p, "is required")
		return
	}
	fn(p, v)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func (w *walker) root(raw any) {
	doc, ok := w.object("file", raw)
	if !ok {
		return
	}

	w.required(doc, "", "version", func(p string, v any) {
		if n, ok := w.integer(p, v); ok {
			w.check(p, n, fmt.Sprintf("eq=%d", statfile.FormatVersion))
		}
	})
	optional(doc, "exportDate", func(v any) { w.str("exportDate", v) })
	optional(doc, "team", func(v any) {
		if team, ok := w.object("team", v); ok {
			optional(team, "name", func(v any) { w.str("team.name", v) })
		}
	})
	optional(doc, "players", func(v any) {
		if players, ok := w.array("players", v); ok {
			for i, p := range players {
				w.player(index("players", i), p)
			}
		}
	})
	w.required(doc, "", "games", func(p string, v any) {
		games, ok := w.array(p, v)
		if !ok {
			return
		}
		w.check(p, games, "min=1")
		for i, g := range games {
			w.game(index(p, i), g)
		}
	})
}

func (w *walker) player(path string, v any) {
	p, ok := w.object(path, v)
	if !ok {
		return
	}
	w.required(p, path, "originalId", func(fp string, v any) {
		if s, ok := w.str(fp, v); ok {
			w.check(fp, s, "required")
		}
	})
	w.required(p, path, "name", func(fp string, v any) { w.str(fp, v) })
	w.required(p, path, "number", func(fp string, v any) { w.str(fp, v) })
}

func (w *walker) game(path string, v any) {
	g, ok := w.object(path, v)
	if !ok {
		return
	}

	w.required(g, path, "originalId", func(p string, v any) { w.str(p, v) })
	w.required(g, path, "opposingTeamName", func(p string, v any) { w.str(p, v) })
	w.required(g, path, "periodType", func(p string, v any) {
		if s, ok := w.str(p, v); ok {
			w.check(p, s, "oneof="+string(domain.PeriodQuarters)+" "+string(domain.PeriodHalves))
		}
	})
	w.required(g, path, "isFinished", func(p string, v any) { w.boolean(p, v) })

	w.required(g, path, "statTotals", func(p string, v any) {
		totals, ok := w.object(p, v)
		if !ok {
			return
		}
		for _, side := range []domain.TeamSide{domain.SideUs, domain.SideOpponent} {
			w.required(totals, p, string(side), w.statsBag)
		}
	})

	w.required(g, path, "boxScore", func(p string, v any) {
		box, ok := w.object(p, v)
		if !ok {
			return
		}
		for _, key := range slices.Sorted(maps.Keys(box)) {
			bag := box[key]
			kp := join(p, key)
			if key == "" {
				w.fail(kp, "player id must not be empty")
				continue
			}
			w.statsBag(kp, bag)
		}
	})

	optional(g, "periods", func(v any) {
		p := join(path, "periods")
		periods, ok := w.array(p, v)
		if !ok {
			return
		}
		for i, period := range periods {
			if period != nil {
				w.period(index(p, i), period)
			}
		}
	})

	optional(g, "gamePlayedList", func(v any) { w.stringList(join(path, "gamePlayedList"), v) })
	optional(g, "activePlayers", func(v any) { w.stringList(join(path, "activePlayers"), v) })
}

// statsBag requires every stat key to be present as a whole number and
// rejects keys outside the vocabulary.
func (w *walker) statsBag(path string, v any) {
	bag, ok := w.object(path, v)
	if !ok {
		return
	}
	for _, s := range domain.AllStats() {
		w.required(bag, path, s.String(), func(p string, v any) { w.integer(p, v) })
	}
	for _, key := range slices.Sorted(maps.Keys(bag)) {
		if _, err := domain.ParseStat(key); err != nil {
			w.fail(join(path, key), "is not a recognized stat")
		}
	}
}

func (w *walker) period(path string, v any) {
	p, ok := w.object(path, v)
	if !ok {
		return
	}
	w.required(p, path, string(domain.SideUs), func(fp string, v any) { w.integer(fp, v) })
	w.required(p, path, string(domain.SideOpponent), func(fp string, v any) { w.integer(fp, v) })
	optional(p, "playByPlay", func(v any) {
		fp := join(path, "playByPlay")
		entries, ok := w.array(fp, v)
		if !ok {
			return
		}
		for i, e := range entries {
			if e != nil {
				w.entry(index(fp, i), e)
			}
		}
	})
}

func (w *walker) entry(path string, v any) {
	e, ok := w.object(path, v)
	if !ok {
		return
	}
	w.required(e, path, "id", func(p string, v any) { w.str(p, v) })
	w.required(e, path, "playerId", func(p string, v any) {
		if s, ok := w.str(p, v); ok {
			w.check(p, s, "required")
		}
	})
	w.required(e, path, "action", func(p string, v any) {
		if s, ok := w.str(p, v); ok {
			if _, err := domain.ParseStat(s); err != nil {
				w.fail(p, "is not a recognized stat")
			}
		}
	})
	optional(e, "setId", func(v any) { w.str(join(path, "setId"), v) })
	optional(e, "activePlayers", func(v any) { w.stringList(join(path, "activePlayers"), v) })
}

func (w *walker) stringList(path string, v any) {
	list, ok := w.array(path, v)
	if !ok {
		return
	}
	for i, item := range list {
		w.str(index(path, i), item)
	}
}

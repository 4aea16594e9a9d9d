package domain

import (
	"encoding/json/v2"
	"fmt"
	"strconv"
)

// StatsBag holds a count for every Stat. Being an array, every key is always
// present and copies never alias.
type StatsBag [NumStats]int

// NewStatsBag returns an all-zero bag.
func NewStatsBag() StatsBag {
	return StatsBag{}
}

// Get returns the count for a stat.
func (b StatsBag) Get(s Stat) int {
	return b[s]
}

// Add adds n to the count for a stat.
func (b *StatsBag) Add(s Stat, n int) {
	b[s] += n
}

// Merge adds every count of other into b, scaled by sign.
func (b *StatsBag) Merge(other StatsBag, sign int) {
	for i := range b {
		b[i] += other[i] * sign
	}
}

// IsZero reports whether every count is zero.
func (b StatsBag) IsZero() bool {
	return b == StatsBag{}
}

// NonZero calls fn for every stat with a non-zero count, in canonical order.
func (b StatsBag) NonZero(fn func(Stat, int)) {
	for i, v := range b {
		if v != 0 {
			fn(Stat(i), v)
		}
	}
}

// MarshalJSON encodes the bag as an object carrying every stat key.
func (b StatsBag) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, NumStats*24)
	buf = append(buf, '{')
	for i, v := range b {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendQuote(buf, statNames[i])
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON decodes an object of stat counts. Unknown keys are rejected;
// absent keys stay zero. Completeness of foreign input is checked by import
// validation before decoding.
func (b *StatsBag) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode stats bag: %w", err)
	}
	var out StatsBag
	for name, v := range raw {
		s, err := ParseStat(name)
		if err != nil {
			return err
		}
		out[s] = v
	}
	*b = out
	return nil
}

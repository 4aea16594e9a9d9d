package domain

import (
	"encoding/json/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatsBag_FreshValues(t *testing.T) {
	a := NewStatsBag()
	b := NewStatsBag()
	a.Add(Points, 5)

	assert.Equal(t, 5, a.Get(Points))
	assert.Equal(t, 0, b.Get(Points))
	assert.True(t, b.IsZero())
}

func TestStatsBag_Merge(t *testing.T) {
	var a, b StatsBag
	a.Add(Points, 10)
	a.Add(Assists, 2)
	b.Add(Points, 4)
	b.Add(Steals, 1)

	a.Merge(b, 1)
	assert.Equal(t, 14, a.Get(Points))
	assert.Equal(t, 1, a.Get(Steals))

	a.Merge(b, -1)
	assert.Equal(t, 10, a.Get(Points))
	assert.Equal(t, 0, a.Get(Steals))
	assert.Equal(t, 2, a.Get(Assists))
}

func TestStatsBag_NonZero(t *testing.T) {
	var b StatsBag
	b.Add(Turnovers, 3)
	b.Add(TwoPointMakes, 1)
	b.Add(PlusMinus, -4)

	var got []Stat
	b.NonZero(func(s Stat, _ int) { got = append(got, s) })
	assert.Equal(t, []Stat{TwoPointMakes, Turnovers, PlusMinus}, got)
}

func TestStatsBag_MarshalJSON_EveryKey(t *testing.T) {
	var b StatsBag
	b.Add(Points, 7)
	b.Add(PlusMinus, -3)

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var raw map[string]int
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, NumStats)
	assert.Equal(t, 7, raw["Points"])
	assert.Equal(t, -3, raw["PlusMinus"])
	assert.Equal(t, 0, raw["Blocks"])
}

func TestStatsBag_UnmarshalJSON(t *testing.T) {
	t.Run("partial object leaves other keys zero", func(t *testing.T) {
		var b StatsBag
		b.Add(Blocks, 9)
		require.NoError(t, json.Unmarshal([]byte(`{"Points": 12, "Assists": 3}`), &b))
		assert.Equal(t, 12, b.Get(Points))
		assert.Equal(t, 3, b.Get(Assists))
		assert.Equal(t, 0, b.Get(Blocks))
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		var b StatsBag
		assert.Error(t, json.Unmarshal([]byte(`{"Dunks": 1}`), &b))
	})

	t.Run("round trip", func(t *testing.T) {
		var in StatsBag
		for i, s := range AllStats() {
			in.Add(s, i)
		}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out StatsBag
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})
}

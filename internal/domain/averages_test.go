package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverages(t *testing.T) {
	var bag StatsBag
	bag.Add(Points, 45)
	bag.Add(Assists, 7)
	bag.Add(PlusMinus, -6)

	t.Run("divides every key", func(t *testing.T) {
		avg := Averages(bag, 3)
		for _, s := range AllStats() {
			assert.InDelta(t, float64(bag.Get(s))/3, avg.Get(s), 1e-9, s.String())
		}
		assert.InDelta(t, 15.0, avg.Get(Points), 1e-9)
		assert.InDelta(t, -2.0, avg.Get(PlusMinus), 1e-9)
	})

	t.Run("zero games returns zero bag", func(t *testing.T) {
		assert.Equal(t, StatAverages{}, Averages(bag, 0))
	})

	t.Run("input not mutated", func(t *testing.T) {
		before := bag
		_ = Averages(bag, 2)
		assert.Equal(t, before, bag)
	})

	t.Run("no rounding", func(t *testing.T) {
		avg := Averages(bag, 2)
		assert.InDelta(t, 3.5, avg.Get(Assists), 1e-9)
	})
}

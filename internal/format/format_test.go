package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

func TestTrim(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{12, "12"},
		{12.0, "12"},
		{12.34, "12.3"},
		{0.04, "0"},
		{-0.04, "0"},
		{-2.5, "-2.5"},
		{9.96, "10"},
		{0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Trim(tt.input))
		})
	}
}

func TestRecord(t *testing.T) {
	assert.Equal(t, "12-4-2", Record(domain.GameNumbers{Wins: 12, Losses: 4, Draws: 2}))
	assert.Equal(t, "0-0-0", Record(domain.GameNumbers{}))
}

func TestPPG(t *testing.T) {
	var stats domain.StatsBag
	stats.Add(domain.Points, 47)
	stats.Add(domain.Assists, 9)

	assert.Equal(t, "15.7", PPG(stats, 3))
	assert.Equal(t, "0", PPG(stats, 0))
	assert.Equal(t, "3", PerGame(stats, domain.Assists, 3))
}

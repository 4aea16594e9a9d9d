package logger

import (
	"bytes"
	"encoding/json/v2"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
)

func newPretty(buf *bytes.Buffer, level slog.Level) *Logger {
	return New(Config{Writer: buf, Format: formatPretty, Level: level})
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		environment string
		wantJSON    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			New(Config{Writer: &buf, Environment: tt.environment}).Info("game finished")

			var decoded map[string]any
			isJSON := json.Unmarshal(buf.Bytes(), &decoded) == nil
			assert.Equal(t, tt.wantJSON, isJSON)
			assert.Contains(t, buf.String(), "game finished")
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	newPretty(&buf, slog.LevelInfo).Info("play recorded", "game_id", "game-1", "points", 3)

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "play recorded")
	assert.Contains(t, out, "game_id=game-1")
	assert.Contains(t, out, "points=3")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newPretty(&buf, slog.LevelWarn)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown")
	log.Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "ERR")
}

func TestPrettyHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	log := newPretty(&buf, slog.LevelInfo)

	log.With("component", "inbox").WithGroup("import").Info("done",
		"games", 2,
		slog.Group("players", "created", 1, "linked", 3),
	)

	out := buf.String()
	assert.Contains(t, out, "component=inbox")
	assert.Contains(t, out, "import.games=2")
	assert.Contains(t, out, "import.players.created=1")
	assert.Contains(t, out, "import.players.linked=3")
}

func TestPrettyHandler_WithAttrsAfterGroup(t *testing.T) {
	var buf bytes.Buffer
	newPretty(&buf, slog.LevelInfo).WithGroup("store").With("path", "/data").Info("opened")
	assert.Contains(t, buf.String(), "store.path=/data")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Writer: &buf, Format: formatPretty, AddSource: true}).Info("with source")
	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "Bulls", formatValue(slog.StringValue("Bulls")))
	assert.Equal(t, `"Chicago Bulls"`, formatValue(slog.StringValue("Chicago Bulls")))
	assert.Equal(t, "2025-03-02T09:00:00Z", formatValue(slog.TimeValue(ts)))
	assert.Equal(t, "1.5s", formatValue(slog.DurationValue(1500*time.Millisecond)))
	assert.Equal(t, "true", formatValue(slog.BoolValue(true)))
	assert.Equal(t, "42", formatValue(slog.IntValue(42)))
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: formatJSON})

	log.WithError(domainerrors.NotFoundf("game %s not found", "game-1")).Warn("lookup failed")
	log.WithError(errors.New("disk full")).Error("write failed")
	log.WithError(nil).Info("nothing wrong")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var first, second, third map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))

	assert.Equal(t, "game game-1 not found", first["error"])
	assert.Equal(t, "NOT_FOUND", first["error_code"])
	assert.Equal(t, "disk full", second["error"])
	assert.NotContains(t, second, "error_code")
	assert.NotContains(t, third, "error")
}

func TestLogger_WithField(t *testing.T) {
	var buf bytes.Buffer
	newPretty(&buf, slog.LevelInfo).WithField("team_id", "team-1").WithField("game_id", "game-2").Info("chained")

	out := buf.String()
	assert.Contains(t, out, "team_id=team-1")
	assert.Contains(t, out, "game_id=game-2")
}

func TestNewPrettyHandler_NilOptions(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, nil)
	assert.True(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
}

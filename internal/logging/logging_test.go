package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelWarn, FormatJSON)

	logger.Info("dropped")
	logger.Warn("catalog reloaded", "books", 66)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "catalog reloaded", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, 66, entry["books"])

	ts, ok := entry["time"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, LevelDebug, FormatText).Debug("scanning", "file", "notes.txt")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "file=notes.txt")
}

func TestInitLogger(t *testing.T) {
	old := GetLogger()
	oldDefault := slog.Default()
	t.Cleanup(func() {
		mu.Lock()
		defaultLogger = old
		mu.Unlock()
		slog.SetDefault(oldDefault)
	})

	var buf bytes.Buffer
	logger := InitLogger(&buf, LevelInfo, FormatText)
	assert.Same(t, logger, GetLogger())

	slog.Info("via default")
	assert.Contains(t, buf.String(), "via default")
}

func TestFlagsInit(t *testing.T) {
	old := GetLogger()
	oldDefault := slog.Default()
	t.Cleanup(func() {
		mu.Lock()
		defaultLogger = old
		mu.Unlock()
		slog.SetDefault(oldDefault)
	})

	var buf bytes.Buffer
	logger, err := Flags{LogLevel: "error", LogFormat: "json"}.Init(&buf)
	require.NoError(t, err)
	logger.Warn("hidden")
	assert.Empty(t, buf.String())

	_, err = Flags{LogLevel: "verbose"}.Init(&buf)
	assert.Error(t, err)
	_, err = Flags{LogFormat: "yaml"}.Init(&buf)
	assert.Error(t, err)
}

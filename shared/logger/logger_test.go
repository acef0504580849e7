package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, "production", false))

	log.Debug("hidden")
	log.Info("movie added", "imdb_id", "tt1375666")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "movie added", record["msg"])
	assert.Equal(t, "tt1375666", record["imdb_id"])
}

func TestNewHandlerDevelopmentIncludesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, "development", false))

	log.Debug("verbose detail")

	assert.Contains(t, buf.String(), "verbose detail")
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marquee.log")

	log := Init(Options{Environment: "production", File: path})
	log.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Same(t, log, Default())
}

package zerolog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/raykavin/roadrisk/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", JSON: true, Out: &buf})
	require.NoError(t, err)

	log.WithField("mode", "overview").WithError(errors.New("boom")).Warn("trendline disabled")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "overview", line["mode"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "trendline disabled", line["message"])
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Out: &buf})
	require.NoError(t, err)

	log.Infof("serving on %d", 8080)
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "[INF]")
	assert.Contains(t, out, "> serving on 8080")
	assert.NotContains(t, out, "hidden")
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", JSON: true, Out: &buf})
	require.NoError(t, err)
	assert.Equal(t, logger.InfoLevel, log.GetLevel())

	log.SetLevel(logger.ErrorLevel)
	assert.Equal(t, logger.ErrorLevel, log.GetLevel())
	log.Warn("dropped")
	assert.Zero(t, buf.Len())

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	log := Nop()
	log.WithFields(map[string]any{"a": 1}).Error("nothing")
	assert.Equal(t, logger.Disabled, log.GetLevel())
}

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Output: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.WithField("difficulty", "easy").Info("new game")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "new game", entry["msg"])
	assert.Equal(t, "easy", entry["difficulty"])
}

func TestDevelopmentLoggerIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Development: true, Output: &buf})
	require.NoError(t, err)

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	log.Debug("tick")
	assert.Contains(t, buf.String(), "tick")
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.log")
	var buf bytes.Buffer
	log, err := New(Options{File: path, Output: &buf})
	require.NoError(t, err)

	log.Warn("unable to record game start")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "unable to record game start"))
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celsoprodesp/Antigravity/internal/infrastructure/config"
)

func TestNewWithOutput(t *testing.T) {
	t.Run("正常系: json with fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

		logger.WithField("profile_id", "2").Warn("navigation blocked")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "navigation blocked", entry["msg"])
		assert.Equal(t, "2", entry["profile_id"])
		assert.Equal(t, "warning", entry["level"])
	})

	t.Run("正常系: defaults to text at info", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewWithOutput(config.LogConfig{}, &buf)
		require.NoError(t, err)
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

		logger.Debug("hidden")
		assert.Empty(t, buf.String())
		logger.Info("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("異常系: bad level", func(t *testing.T) {
		_, err := NewWithOutput(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("異常系: bad format", func(t *testing.T) {
		_, err := NewWithOutput(config.LogConfig{Format: "xml"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

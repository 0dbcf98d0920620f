package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Divas-Gupta30/docchat/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docchat.log")

	log := New(config.LogConfig{Level: "info", File: path, Environment: "production"})
	log.Info("retrieval unavailable", zap.String("query", "refund policy"))
	log.Debug("hidden at info level")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"message":"retrieval unavailable"`)
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"query":"refund policy"`)
	assert.False(t, strings.Contains(out, "hidden at info level"))
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	log := New(config.LogConfig{Level: "chatty"})
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}

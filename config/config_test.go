package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
store_path = "/tmp/board"
models = ["gpt-4o", "gpt-4o-mini"]
request_timeout = "45s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/board", cfg.StorePath)
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, cfg.Models)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout.Duration)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `models = ["gpt-4o"]`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o"}, cfg.Models)
	assert.Equal(t, Default().StorePath, cfg.StorePath)
	assert.Equal(t, Default().RequestTimeout, cfg.RequestTimeout)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "models = [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `request_timeout = "not a duration"`))
	assert.Error(t, err)
}

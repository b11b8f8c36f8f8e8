package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voyager.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
model:
  name: gpt-4o
keys:
  tavily: file-tavily-key
engine:
  max_steps: 100
  checkpoint_path: /tmp/checkpoints.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, "file-tavily-key", cfg.Keys.Tavily)
	assert.Equal(t, 100, cfg.Engine.MaxSteps)
	assert.Equal(t, "/tmp/checkpoints.db", cfg.Engine.CheckpointPath)
	assert.Zero(t, cfg.Engine.MaxToolIterations, "unset values keep engine defaults")
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "env-tavily-key")
	t.Setenv("OPENAI_API_KEY", "env-openai-key")

	path := writeConfig(t, `
keys:
  tavily: file-tavily-key
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-tavily-key", cfg.Keys.Tavily)
	assert.Equal(t, "env-openai-key", cfg.Model.APIKey)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := writeConfig(t, "model: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

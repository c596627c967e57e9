package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"

	"github.com/ironsheep/ui-locator-mcp/internal/feedback"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gpt-4o-mini", cfg.Vision.Model)
	assert.Equal(t, "${OPENAI_API_KEY}", cfg.Vision.APIKey)
	assert.Equal(t, 100, cfg.Locate.MaxElements)
	assert.Equal(t, 200, cfg.Locate.RegionSize)
	assert.Equal(t, 100, cfg.Locate.MaxCorrection)
	assert.Empty(t, cfg.Locate.MarkerColor)
	assert.Equal(t, 30.0, cfg.OCR.MinConfidence)
	assert.Equal(t, feedback.StoreJSONL, cfg.Feedback.Type)
	assert.NoError(t, cfg.Validate())
}

func TestNewManager(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		mgr, err := NewManager("")
		require.NoError(t, err)
		assert.Empty(t, mgr.ConfigFile())
		assert.Equal(t, *DefaultConfig(), *mgr.Get())
	})

	t.Run("loads from config file", func(t *testing.T) {
		path := writeConfig(t, `
vision:
  model: gpt-4o
  base_url: http://localhost:8080/v1
locate:
  region_size: 300
feedback:
  type: sqlite
  path: /tmp/ui-locator-test.db
`)
		mgr, err := NewManager(path)
		require.NoError(t, err)

		cfg := mgr.Get()
		assert.Equal(t, path, mgr.ConfigFile())
		assert.Equal(t, "gpt-4o", cfg.Vision.Model)
		assert.Equal(t, "http://localhost:8080/v1", cfg.Vision.BaseURL)
		assert.Equal(t, 300, cfg.Locate.RegionSize)
		assert.Equal(t, 100, cfg.Locate.MaxCorrection, "unset keys keep defaults")
		assert.Equal(t, feedback.StoreSQLite, cfg.Feedback.Type)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "vision:\n  model: gpt-4o\n")
		t.Setenv("UI_LOCATOR_VISION_MODEL", "llava")
		t.Setenv("UI_LOCATOR_LOCATE_MAX_CORRECTION", "50")
		t.Setenv("UI_LOCATOR_LOG_LEVEL", "debug")

		mgr, err := NewManager(path)
		require.NoError(t, err)

		cfg := mgr.Get()
		assert.Equal(t, "llava", cfg.Vision.Model)
		assert.Equal(t, 50, cfg.Locate.MaxCorrection)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "vision: [unterminated")
		_, err := NewManager(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfig(t, "feedback:\n  type: postgres\n")
		_, err := NewManager(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "feedback.type")
	})

	t.Run("marker colour", func(t *testing.T) {
		t.Setenv("UI_LOCATOR_LOCATE_MARKER_COLOR", "#FF00FF")
		mgr, err := NewManager("")
		require.NoError(t, err)
		assert.Equal(t, "#FF00FF", mgr.Get().Locate.MarkerColor)

		path := writeConfig(t, "locate:\n  marker_color: magenta\n")
		t.Setenv("UI_LOCATOR_LOCATE_MARKER_COLOR", "")
		_, err = NewManager(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "locate.marker_color")
	})
}

func TestVisionConfig(t *testing.T) {
	t.Setenv("TEST_VISION_KEY", "sk-test")
	cfg := VisionConfig{
		APIKey:         "${TEST_VISION_KEY}",
		Provider:       "openai",
		Model:          "gpt-4o",
		Temperature:    0.2,
		TimeoutSeconds: 30,
		MaxRetries:     5,
	}

	client := cfg.ClientConfig()
	assert.Equal(t, "sk-test", client.APIKey)
	assert.Equal(t, 30*time.Second, client.Timeout)
	assert.Equal(t, 5, client.MaxRetries)

	model := cfg.ModelConfig()
	assert.Equal(t, "openai/gpt-4o", model.QualifiedName())
	assert.Equal(t, 500, model.MaxTokens, "zero max tokens takes the default")
}

func TestScreenFallback(t *testing.T) {
	info := ScreenConfig{DefaultWidth: 2560, DefaultHeight: 1440, DefaultScale: 2}.Fallback()
	assert.True(t, info.Fallback)
	assert.Equal(t, 2560, info.PhysicalWidth)
	assert.Equal(t, 1280, info.LogicalWidth)
	assert.Equal(t, 2.0, info.ScaleX)
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("TEST_API_KEY", "secret123")

	assert.Equal(t, "secret123", ResolveEnvVars("${TEST_API_KEY}"))
	assert.Equal(t, "", ResolveEnvVars("${DEFINITELY_NOT_SET_12345}"))
	assert.Equal(t, "literal-value", ResolveEnvVars("literal-value"))
	assert.Equal(t, "", ResolveEnvVars(""))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("UI_LOCATOR_DOTENV_A=from-file\nUI_LOCATOR_DOTENV_B=from-file\n"), 0644))

	t.Setenv("UI_LOCATOR_DOTENV_B", "from-env")
	// Registers cleanup for the variable the file introduces.
	t.Setenv("UI_LOCATOR_DOTENV_A", "")
	require.NoError(t, os.Unsetenv("UI_LOCATOR_DOTENV_A"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("UI_LOCATOR_DOTENV_A"))
	assert.Equal(t, "from-env", os.Getenv("UI_LOCATOR_DOTENV_B"), "existing variables win")
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefault(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# ui-locator configuration")
	assert.Contains(t, string(data), "max_correction: 100")

	err = WriteDefault(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, WriteDefault(path, true))

	mgr, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, *DefaultConfig(), *mgr.Get())
}

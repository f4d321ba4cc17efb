package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reader-helper/internal/models"
)

func TestDefaultExtractConfig(t *testing.T) {
	t.Setenv("READER_MIN_BLOCK_LENGTH", "")
	t.Setenv("READER_DEFAULT_TITLE", "")
	t.Setenv("READER_ENGINE", "")

	cfg := DefaultExtractConfig()
	assert.Equal(t, 10, cfg.MinBlockLength)
	assert.Equal(t, "Untitled", cfg.DefaultTitle)
	assert.Equal(t, EngineHeuristic, cfg.Engine)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultExtractConfig_EnvOverrides(t *testing.T) {
	t.Setenv("READER_MIN_BLOCK_LENGTH", "25")
	t.Setenv("READER_DEFAULT_TITLE", "Reader")
	t.Setenv("READER_ENGINE", "Readability")

	cfg := DefaultExtractConfig()
	assert.Equal(t, 25, cfg.MinBlockLength)
	assert.Equal(t, "Reader", cfg.DefaultTitle)
	assert.Equal(t, EngineReadability, cfg.Engine)
}

func TestExtractConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   ExtractConfig
		field string
	}{
		{"negative min length", ExtractConfig{MinBlockLength: -1, DefaultTitle: "t", Engine: EngineHeuristic}, "minBlockLength"},
		{"blank title", ExtractConfig{MinBlockLength: 10, DefaultTitle: "  ", Engine: EngineHeuristic}, "defaultTitle"},
		{"unknown engine", ExtractConfig{MinBlockLength: 10, DefaultTitle: "t", Engine: "magic"}, "engine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			var cfgErr *models.ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	zero := ExtractConfig{MinBlockLength: 0, DefaultTitle: "t", Engine: EngineReadability}
	assert.NoError(t, zero.Validate())
}

func TestScrapeConfig_Validate(t *testing.T) {
	cfg := DefaultScrapeConfig()
	require.NoError(t, cfg.Validate())

	cfg.MaxRetries = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultScrapeConfig()
	cfg.TimeoutMs = 0
	assert.Error(t, cfg.Validate())
}

func TestDefaultScrapeConfig_UserAgent(t *testing.T) {
	t.Setenv("SCRAPE_USER_AGENT", "")
	t.Setenv("CHROME_MAJOR", "120")
	t.Setenv("SCRAPE_BROWSER_FALLBACK", "false")

	cfg := DefaultScrapeConfig()
	assert.Equal(t, 120, cfg.ChromeMajor)
	assert.Contains(t, cfg.UserAgent, "Chrome/120.")
	assert.False(t, cfg.BrowserFallback)
}

func TestLoadFile_YAMLAndApply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reader.yaml")
	content := `extract:
  minBlockLength: 0
  engine: readability
scrape:
  timeoutMs: 5000
  maxRetries: 0
  browserFallback: false
panel:
  fontSizePx: 20
  darkMode: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20, fc.Panel.FontSizePx)
	assert.True(t, fc.Panel.DarkMode)

	ec := ExtractConfig{MinBlockLength: 10, DefaultTitle: "Untitled", Engine: EngineHeuristic}
	sc := ScrapeConfig{TimeoutMs: 15000, SizeLimitBytes: 100, MaxRetries: 2, BrowserFallback: true}
	fc.Apply(&ec, &sc)

	assert.Equal(t, 0, ec.MinBlockLength)
	assert.Equal(t, "Untitled", ec.DefaultTitle)
	assert.Equal(t, EngineReadability, ec.Engine)
	assert.Equal(t, 5000, sc.TimeoutMs)
	assert.Equal(t, 100, sc.SizeLimitBytes)
	assert.Equal(t, 0, sc.MaxRetries)
	assert.False(t, sc.BrowserFallback)

	panel := fc.ApplyPanel(models.DefaultPanelState())
	assert.Equal(t, 20, panel.FontSizePx)
	assert.True(t, panel.DarkMode)
}

func TestApplyPanel_ClampsAndKeepsUnset(t *testing.T) {
	var fc FileConfig
	assert.Equal(t, models.DefaultPanelState(), fc.ApplyPanel(models.DefaultPanelState()))

	fc.Panel.FontSizePx = 200
	assert.Equal(t, models.MaxFontSizePx, fc.ApplyPanel(models.DefaultPanelState()).FontSizePx)
}

func TestLoadFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reader.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"extract":{"minBlockLength":-3}}`), 0o644))

	fc, err := LoadFile(path)
	require.NoError(t, err)

	ec := DefaultExtractConfig()
	fc.Apply(&ec, nil)
	assert.Equal(t, -3, ec.MinBlockLength)
	assert.Error(t, ec.Validate())
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reader.conf")
	require.NoError(t, os.WriteFile(path, []byte("extract: [unclosed"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad(t *testing.T) {
	t.Setenv("READER_MIN_BLOCK_LENGTH", "")
	t.Setenv("READER_ENGINE", "")

	ec, sc, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultExtractConfig(), ec)
	assert.Equal(t, DefaultScrapeConfig(), sc)

	path := filepath.Join(t.TempDir(), "reader.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extract:\n  engine: Readability\nscrape:\n  maxRetries: 0\n"), 0o644))
	ec, sc, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, EngineReadability, ec.Engine)
	assert.Equal(t, 0, sc.MaxRetries)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "missing.yaml")
}

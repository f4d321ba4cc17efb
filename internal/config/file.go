package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reader-helper/internal/models"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the optional configuration file.
// Pointer fields distinguish "unset" from an explicit zero.
type FileConfig struct {
	Extract struct {
		MinBlockLength *int   `yaml:"minBlockLength" json:"minBlockLength"`
		DefaultTitle   string `yaml:"defaultTitle" json:"defaultTitle"`
		Engine         string `yaml:"engine" json:"engine"`
	} `yaml:"extract" json:"extract"`

	Scrape struct {
		UserAgent       string `yaml:"userAgent" json:"userAgent"`
		TimeoutMs       int    `yaml:"timeoutMs" json:"timeoutMs"`
		SizeLimitBytes  int    `yaml:"sizeLimitBytes" json:"sizeLimitBytes"`
		MaxRetries      *int   `yaml:"maxRetries" json:"maxRetries"`
		BrowserFallback *bool  `yaml:"browserFallback" json:"browserFallback"`
	} `yaml:"scrape" json:"scrape"`

	Panel struct {
		FontSizePx int  `yaml:"fontSizePx" json:"fontSizePx"`
		DarkMode   bool `yaml:"darkMode" json:"darkMode"`
	} `yaml:"panel" json:"panel"`
}

// LoadFile reads YAML or JSON into FileConfig.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// Apply overlays every value set in the file onto the given configs.
// Nil targets are skipped.
func (fc FileConfig) Apply(ec *ExtractConfig, sc *ScrapeConfig) {
	if ec != nil {
		if fc.Extract.MinBlockLength != nil {
			ec.MinBlockLength = *fc.Extract.MinBlockLength
		}
		if fc.Extract.DefaultTitle != "" {
			ec.DefaultTitle = fc.Extract.DefaultTitle
		}
		if fc.Extract.Engine != "" {
			ec.Engine = strings.ToLower(fc.Extract.Engine)
		}
	}
	if sc != nil {
		if fc.Scrape.UserAgent != "" {
			sc.UserAgent = fc.Scrape.UserAgent
		}
		if fc.Scrape.TimeoutMs > 0 {
			sc.TimeoutMs = fc.Scrape.TimeoutMs
		}
		if fc.Scrape.SizeLimitBytes > 0 {
			sc.SizeLimitBytes = fc.Scrape.SizeLimitBytes
		}
		if fc.Scrape.MaxRetries != nil {
			sc.MaxRetries = *fc.Scrape.MaxRetries
		}
		if fc.Scrape.BrowserFallback != nil {
			sc.BrowserFallback = *fc.Scrape.BrowserFallback
		}
	}
}

// ApplyPanel returns p with the file's panel settings applied
func (fc FileConfig) ApplyPanel(p models.PanelState) models.PanelState {
	if fc.Panel.FontSizePx != 0 {
		p = p.WithFontDelta(fc.Panel.FontSizePx - p.FontSizePx)
	}
	if fc.Panel.DarkMode {
		p.DarkMode = true
	}
	return p
}

// Load returns the env-derived defaults with the file at path applied on
// top. An empty path skips the file.
func Load(path string) (ExtractConfig, ScrapeConfig, error) {
	extractCfg := DefaultExtractConfig()
	scrapeCfg := DefaultScrapeConfig()
	if path == "" {
		return extractCfg, scrapeCfg, nil
	}

	fc, err := LoadFile(path)
	if err != nil {
		return extractCfg, scrapeCfg, fmt.Errorf("loading config file %s: %w", path, err)
	}
	fc.Apply(&extractCfg, &scrapeCfg)
	return extractCfg, scrapeCfg, nil
}

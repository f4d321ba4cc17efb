package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"reader-helper/internal/models"
)

// Extraction engines
const (
	EngineHeuristic   = "heuristic"
	EngineReadability = "readability"
)

// ExtractConfig contains configuration for readable-content extraction
type ExtractConfig struct {
	MinBlockLength int
	DefaultTitle   string
	Engine         string
}

// ScrapeConfig contains general scraping configuration
type ScrapeConfig struct {
	UserAgent       string
	TimeoutMs       int
	SizeLimitBytes  int
	MaxRetries      int
	ChromeMajor     int
	BrowserFallback bool
}

// DefaultExtractConfig returns the default extraction configuration
func DefaultExtractConfig() ExtractConfig {
	cfg := ExtractConfig{
		MinBlockLength: 10,
		DefaultTitle:   "Untitled",
		Engine:         EngineHeuristic,
	}

	if env := os.Getenv("READER_MIN_BLOCK_LENGTH"); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil {
			cfg.MinBlockLength = parsed
		}
	}
	if env := os.Getenv("READER_DEFAULT_TITLE"); env != "" {
		cfg.DefaultTitle = env
	}
	if env := os.Getenv("READER_ENGINE"); env != "" {
		cfg.Engine = strings.ToLower(env)
	}

	return cfg
}

// Validate fails fast on values the extractor cannot work with
func (c ExtractConfig) Validate() error {
	if c.MinBlockLength < 0 {
		return &models.ConfigError{Field: "minBlockLength", Value: c.MinBlockLength, Err: errors.New("must not be negative")}
	}
	if strings.TrimSpace(c.DefaultTitle) == "" {
		return &models.ConfigError{Field: "defaultTitle", Value: c.DefaultTitle, Err: errors.New("must not be empty")}
	}
	switch c.Engine {
	case EngineHeuristic, EngineReadability:
	default:
		return &models.ConfigError{Field: "engine", Value: c.Engine, Err: fmt.Errorf("want %q or %q", EngineHeuristic, EngineReadability)}
	}
	return nil
}

// DefaultScrapeConfig returns the default scraping configuration
func DefaultScrapeConfig() ScrapeConfig {
	chromeMajor := 133
	if env := os.Getenv("CHROME_MAJOR"); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil {
			chromeMajor = parsed
		}
	}

	userAgent := os.Getenv("SCRAPE_USER_AGENT")
	if userAgent == "" {
		userAgent = fmt.Sprintf("Mozilla/5.0 (Windows NT 10; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.6943.126 Safari/537.36", chromeMajor)
	}

	browserFallback := true
	if env := os.Getenv("SCRAPE_BROWSER_FALLBACK"); env != "" {
		if parsed, err := strconv.ParseBool(env); err == nil {
			browserFallback = parsed
		}
	}

	return ScrapeConfig{
		UserAgent:       userAgent,
		TimeoutMs:       15000,
		SizeLimitBytes:  6_000_000,
		MaxRetries:      2,
		ChromeMajor:     chromeMajor,
		BrowserFallback: browserFallback,
	}
}

// Validate checks the scrape limits
func (c ScrapeConfig) Validate() error {
	if c.TimeoutMs <= 0 {
		return &models.ConfigError{Field: "timeoutMs", Value: c.TimeoutMs, Err: errors.New("must be positive")}
	}
	if c.SizeLimitBytes <= 0 {
		return &models.ConfigError{Field: "sizeLimitBytes", Value: c.SizeLimitBytes, Err: errors.New("must be positive")}
	}
	if c.MaxRetries < 0 {
		return &models.ConfigError{Field: "maxRetries", Value: c.MaxRetries, Err: errors.New("must not be negative")}
	}
	return nil
}

// CompileRegexes pre-compiles regex patterns for better performance
func CompileRegexes() map[string]*regexp.Regexp {
	return map[string]*regexp.Regexp{
		"cfBlock":   regexp.MustCompile(`(attention required|cloudflare ray id|what can i do to resolve this\?|why have i been blocked\?|performance & security by cloudflare)`),
		"htmlMedia": regexp.MustCompile(`(?i)^(text/html|application/xhtml\+xml)`),
	}
}

// Package api serves readable-content extraction over HTTP.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reader-helper/internal/models"
	"reader-helper/internal/render"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Timeout bounds for a single scrape, in milliseconds
const (
	MaxTimeoutMs     = 240000
	DefaultTimeoutMs = MaxTimeoutMs
	MinTimeoutMs     = 1000
)

// Scraper is the part of scraper.Scraper the server needs
type Scraper interface {
	ScrapeSmartWithTimeout(ctx context.Context, targetURL string, timeoutMs int) (models.ScrapeResponse, error)
	ScrapeHTML(html string, pageURL string) (models.ScrapeResponse, error)
}

// Server is the HTTP API server for the reader.
type Server struct {
	router       chi.Router
	scraper      Scraper
	log          zerolog.Logger
	maxBodyBytes int64
}

// NewServer creates and configures the HTTP server. maxBodyBytes caps the
// markup accepted by POST /extract.
func NewServer(s Scraper, log zerolog.Logger, maxBodyBytes int64) *Server {
	srv := &Server{
		scraper:      s,
		log:          log,
		maxBodyBytes: maxBodyBytes,
	}
	srv.setupRoutes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(CORS)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleScrape)
	r.Get("/extract", s.handleScrape)
	r.Post("/extract", s.handleExtractBody)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleScrape fetches ?url= and returns the readable content
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	targetURL := r.URL.Query().Get("url")
	if targetURL == "" {
		jsonError(w, `Missing "url" query parameter`, http.StatusBadRequest)
		return
	}

	timeoutMs := ClampTimeout(r.URL.Query().Get("timeout"), DefaultTimeoutMs)
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	start := time.Now()
	resp, err := s.scraper.ScrapeSmartWithTimeout(ctx, targetURL, timeoutMs)
	if err != nil {
		s.log.Warn().Err(err).Str("url", targetURL).Str("requestId", middleware.GetReqID(r.Context())).Msg("scrape failed")
		status, body := ErrorResponse(err, targetURL, time.Since(start))
		writeJSON(w, status, body)
		return
	}

	s.log.Info().Str("url", targetURL).Int("blocks", len(resp.Blocks)).Int64("durationMs", resp.Metadata.DurationMs).Msg("scraped")
	s.respond(w, r, resp)
}

// handleExtractBody extracts markup posted by the caller
func (s *Server) handleExtractBody(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		jsonError(w, "Request body too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		jsonError(w, "Empty request body", http.StatusBadRequest)
		return
	}

	pageURL := r.URL.Query().Get("url")
	start := time.Now()
	resp, err := s.scraper.ScrapeHTML(string(body), pageURL)
	if err != nil {
		status, payload := ErrorResponse(err, pageURL, time.Since(start))
		writeJSON(w, status, payload)
		return
	}
	s.respond(w, r, resp)
}

// respond writes resp as JSON, or through a renderer when ?format= asks
// for one
func (s *Server) respond(w http.ResponseWriter, r *http.Request, resp models.ScrapeResponse) {
	format := r.URL.Query().Get("format")
	if format == "" || format == render.FormatJSON {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	renderer, err := render.ForFormat(format, PanelStateFromQuery(r))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, err := renderer.Render(resp.Result())
	if err != nil {
		s.log.Error().Err(err).Str("format", format).Msg("render failed")
		jsonError(w, "Failed to render", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// PanelStateFromQuery reads ?fontSize= and ?dark= into a panel state
func PanelStateFromQuery(r *http.Request) models.PanelState {
	state := models.DefaultPanelState()
	state.Enabled = true
	state.Open = true

	q := r.URL.Query()
	if size, err := strconv.Atoi(q.Get("fontSize")); err == nil {
		state = state.WithFontDelta(size - state.FontSizePx)
	}
	if dark, err := strconv.ParseBool(q.Get("dark")); err == nil {
		state.DarkMode = dark
	}
	return state
}

// ClampTimeout parses a millisecond timeout and keeps it within the
// service limits
func ClampTimeout(raw string, fallback int) int {
	timeoutMs := fallback
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			timeoutMs = parsed
		}
	}
	if timeoutMs > MaxTimeoutMs {
		timeoutMs = MaxTimeoutMs
	}
	if timeoutMs < MinTimeoutMs {
		timeoutMs = MinTimeoutMs
	}
	return timeoutMs
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}

package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"reader-helper/internal/api"
	"reader-helper/internal/config"
	"reader-helper/internal/models"
	"reader-helper/internal/scraper"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
)

// Soft timeout bounds, in milliseconds
const (
	safetyMarginMs     = 3000
	maxSoftTimeoutMs   = 70000
	defaultRemainingMs = 90000
)

// LambdaHandler handles AWS Lambda events
type LambdaHandler struct {
	scraper api.Scraper
	apiKey  string
	log     zerolog.Logger
}

func NewLambdaHandler(s api.Scraper, apiKey string, log zerolog.Logger) *LambdaHandler {
	return &LambdaHandler{
		scraper: s,
		apiKey:  apiKey,
		log:     log,
	}
}

var baseHeaders = map[string]string{
	"Content-Type":                 "application/json; charset=utf-8",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Api-Key,x-api-key",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
}

// Handler is the main Lambda handler function
func (h *LambdaHandler) Handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if event.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent, Headers: baseHeaders}, nil
	}

	if h.apiKey == "" {
		h.log.Error().Msg("SCRAPE_API_KEY environment variable not set")
		return h.respond(http.StatusInternalServerError, models.ErrorResponse{Error: "Server misconfiguration"}), nil
	}
	if !h.authorized(event) {
		return h.respond(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid or missing API key"}), nil
	}

	targetURL := event.QueryStringParameters["url"]
	if targetURL == "" && event.Body != "" {
		var req models.ScrapeRequest
		if err := json.Unmarshal([]byte(event.Body), &req); err == nil {
			targetURL = req.URL
		}
	}
	if targetURL == "" {
		return h.respond(http.StatusBadRequest, models.ErrorResponse{Error: `Missing "url" query parameter`}), nil
	}

	softTimeoutMs := softTimeout(ctx)
	h.log.Info().Str("url", targetURL).Int("timeoutMs", softTimeoutMs).Msg("starting scrape")

	start := time.Now()
	result, err := h.scraper.ScrapeSmartWithTimeout(ctx, targetURL, softTimeoutMs)
	if err != nil {
		h.log.Warn().Err(err).Str("url", targetURL).Msg("scrape failed")
		status, body := api.ErrorResponse(err, targetURL, time.Since(start))
		return h.respond(status, body), nil
	}

	h.log.Info().Str("url", targetURL).Int64("durationMs", result.Metadata.DurationMs).Msg("scraped")
	return h.respond(http.StatusOK, result), nil
}

// authorized accepts the key from either header casing or ?key=
func (h *LambdaHandler) authorized(event events.APIGatewayProxyRequest) bool {
	key := event.Headers["x-api-key"]
	if key == "" {
		key = event.Headers["X-Api-Key"]
	}
	if key == "" {
		key = event.QueryStringParameters["key"]
	}
	return key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) == 1
}

// softTimeout leaves a safety margin before the Lambda deadline
func softTimeout(ctx context.Context) int {
	remaining := defaultRemainingMs
	if deadline, ok := ctx.Deadline(); ok {
		remaining = int(time.Until(deadline).Milliseconds())
	}

	softTimeoutMs := remaining - safetyMarginMs
	if softTimeoutMs < api.MinTimeoutMs {
		softTimeoutMs = api.MinTimeoutMs
	}
	if softTimeoutMs > maxSoftTimeoutMs {
		softTimeoutMs = maxSoftTimeoutMs
	}
	return softTimeoutMs
}

func (h *LambdaHandler) respond(status int, v interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Failed to serialize response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    baseHeaders,
		Body:       string(body),
	}
}

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	extractCfg, scrapeCfg, err := config.Load(os.Getenv("READER_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("loading config file")
	}

	s, err := scraper.NewScraper(extractCfg, scrapeCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	handler := NewLambdaHandler(s, os.Getenv("SCRAPE_API_KEY"), log)
	lambda.Start(handler.Handler)
}

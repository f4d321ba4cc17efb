package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"reader-helper/internal/models"
)

// ErrorResponse maps a scrape error to a status code and response body.
// Shared by the HTTP server and the Lambda handler.
func ErrorResponse(err error, targetURL string, duration time.Duration) (int, interface{}) {
	var (
		urlErr     *models.InvalidURLError
		cfErr      *models.CloudflareBlockError
		timeoutErr *models.TimeoutError
		extractErr *models.ContentExtractionError
	)

	switch {
	case errors.As(err, &urlErr):
		return http.StatusBadRequest, models.ErrorResponse{Error: "Invalid URL format", Details: urlErr.Err.Error()}
	case errors.As(err, &cfErr):
		return http.StatusUnavailableForLegalReasons, models.BlockedResponse{
			Error:    "Blocked by site protection",
			Provider: "cloudflare",
			Domain:   cfErr.Domain,
			Metadata: models.Metadata{
				URL:        targetURL,
				ScrapedAt:  time.Now().UTC(),
				DurationMs: duration.Milliseconds(),
			},
		}
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, models.ErrorResponse{Error: "Scrape took too long"}
	case errors.As(err, &extractErr):
		return http.StatusUnprocessableEntity, models.ErrorResponse{Error: "Failed to extract content", Details: extractErr.Step}
	}
	return http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to scrape"}
}

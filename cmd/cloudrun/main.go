package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reader-helper/internal/api"
	"reader-helper/internal/config"
	"reader-helper/internal/scraper"

	"github.com/rs/zerolog"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "reader").Logger()

	extractCfg, scrapeCfg, err := config.Load(os.Getenv("READER_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("loading config file")
	}

	s, err := scraper.NewScraper(extractCfg, scrapeCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      api.NewServer(s, log, int64(scrapeCfg.SizeLimitBytes)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", port).Str("engine", extractCfg.Engine).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"reader-helper/internal/config"
	"reader-helper/internal/models"
	"reader-helper/internal/render"
	"reader-helper/internal/scraper"

	"github.com/spf13/cobra"
)

type extractFlags struct {
	format    string
	minLength int
	engine    string
	output    string
	fontSize  int
	dark      bool
}

func newExtractCmd(global *globalFlags) *cobra.Command {
	flags := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract <url|file|->",
		Short: "Extract readable content from a URL, a local file or stdin",
		Long: `Extract fetches a page (or reads local markup), finds its main content and
writes the title and blocks in the requested format.

Examples:
  reader extract https://example.com/post
  reader extract page.html --format markdown
  curl -s https://example.com | reader extract - --format json
  reader extract https://example.com/post --format pdf --output post.pdf --dark`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, global, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", render.FormatText, "Output format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().IntVar(&flags.minLength, "min-length", 10, "Minimum characters for a block to be kept")
	cmd.Flags().StringVar(&flags.engine, "engine", config.EngineHeuristic, "Extraction engine: heuristic or readability")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().IntVar(&flags.fontSize, "font-size", models.DefaultFontSizePx, "Panel font size in px (html, pdf)")
	cmd.Flags().BoolVar(&flags.dark, "dark", false, "Dark panel (html, pdf)")

	return cmd
}

func runExtract(cmd *cobra.Command, global *globalFlags, flags *extractFlags, input string) error {
	log := newLogger(cmd.ErrOrStderr(), global.verbose)

	extractCfg := config.DefaultExtractConfig()
	scrapeCfg := config.DefaultScrapeConfig()
	state := models.DefaultPanelState()
	state.Enabled = true
	state.Open = true

	if global.configPath != "" {
		fc, err := config.LoadFile(global.configPath)
		if err != nil {
			return err
		}
		fc.Apply(&extractCfg, &scrapeCfg)
		state = fc.ApplyPanel(state)
	}

	// Explicit flags win over the environment and the config file.
	if cmd.Flags().Changed("min-length") {
		extractCfg.MinBlockLength = flags.minLength
	}
	if cmd.Flags().Changed("engine") {
		extractCfg.Engine = strings.ToLower(flags.engine)
	}
	if cmd.Flags().Changed("font-size") {
		state = state.WithFontDelta(flags.fontSize - state.FontSizePx)
	}
	if cmd.Flags().Changed("dark") {
		state.DarkMode = flags.dark
	}

	renderer, err := render.ForFormat(flags.format, state)
	if err != nil {
		return err
	}

	s, err := scraper.NewScraper(extractCfg, scrapeCfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	resp, err := load(ctx, s, cmd.InOrStdin(), input)
	if err != nil {
		return err
	}
	log.Debug().
		Str("source", resp.Metadata.Source).
		Int("blocks", len(resp.Blocks)).
		Int("quality", resp.Quality.Score).
		Msg("extracted")

	out, err := renderer.Render(resp.Result())
	if err != nil {
		return fmt.Errorf("rendering %s: %w", flags.format, err)
	}

	if flags.output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(flags.output, out, 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", flags.output, err)
	}
	log.Info().Str("path", flags.output).Msg("wrote output")
	return nil
}

// load fetches http(s) inputs and reads everything else as local markup
func load(ctx context.Context, s *scraper.Scraper, stdin io.Reader, input string) (models.ScrapeResponse, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return s.ScrapeSmart(ctx, input)
	}

	var raw []byte
	var err error
	if input == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(input)
	}
	if err != nil {
		return models.ScrapeResponse{}, fmt.Errorf("reading %s: %w", input, err)
	}
	return s.ScrapeHTML(string(raw), "")
}

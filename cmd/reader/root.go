package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	verbose    bool
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "reader",
		Short: "reader extracts the readable part of web pages",
		Long: `reader strips navigation, scripts and other page furniture and keeps the
headings, paragraphs and list items a person actually wants to read.

Usage:
  reader extract <url|file|-> [flags]`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML or JSON config file")

	root.AddCommand(newExtractCmd(flags))
	return root
}

// newLogger writes human-readable logs to w
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

package main

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"
)

type options struct {
	verbose bool
	json    bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "photoshrink",
		Short:         "Measure and compress photos to a byte budget",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every compression pass")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print results as JSON")

	rootCmd.AddCommand(newCompressCommand(opts))
	rootCmd.AddCommand(newMeasureCommand(opts))

	return rootCmd
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

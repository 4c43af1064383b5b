package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/msomdec/tasktrack/internal/imaging"
	"github.com/spf13/cobra"
)

type compressOutput struct {
	Input        string  `json:"input"`
	Output       string  `json:"output"`
	Size         int64   `json:"size"`
	OriginalSize int64   `json:"originalSize,omitempty"`
	Compressed   bool    `json:"compressed"`
	Quality      float64 `json:"quality"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	BudgetMet    bool    `json:"budgetMet"`
}

func newCompressCommand(opts *options) *cobra.Command {
	var (
		maxBytes int64
		quality  float64
		out      string
	)

	cmd := &cobra.Command{
		Use:   "compress <file>",
		Short: "Compress a photo until it fits the byte budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxBytes <= 0 {
				return fmt.Errorf("--max-bytes must be positive")
			}
			input := args[0]
			if out == "" {
				out = defaultOutputPath(input)
			}
			return runCompress(cmd.Context(), cmd, opts, input, out, maxBytes, quality)
		},
	}

	cmd.Flags().Int64Var(&maxBytes, "max-bytes", imaging.DefaultMaxSizeBytes, "Byte budget for the encoded photo")
	cmd.Flags().Float64Var(&quality, "quality", imaging.DefaultInitialQuality, "Starting JPEG quality in (0, 1]")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default <name>.compressed.jpg)")

	return cmd
}

func runCompress(ctx context.Context, cmd *cobra.Command, opts *options, input, out string, maxBytes int64, quality float64) error {
	if ctx == nil {
		ctx = context.Background()
	}
	stderr := cmd.ErrOrStderr()

	processor := imaging.NewProcessor(imaging.NewJPEGEncoder(imaging.DefaultLimits()), imaging.ProcessorOptions{
		InitialQuality: quality,
		Logger:         opts.logger(cmd),
		Advise: func(_ context.Context, originalSize, maxSizeBytes int64) {
			if !opts.json {
				fmt.Fprintln(stderr, imaging.AdvisoryMessage(originalSize, maxSizeBytes))
			}
		},
	})

	result, err := processor.Process(ctx, imaging.Asset{URI: input}, maxBytes)
	if err != nil {
		return fmt.Errorf("compress %s: %w", input, err)
	}

	data, err := base64.StdEncoding.DecodeString(result.Payload)
	if err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	if opts.json {
		return writeJSON(cmd, compressOutput{
			Input:        input,
			Output:       out,
			Size:         result.Size,
			OriginalSize: result.OriginalSize,
			Compressed:   result.Compressed,
			Quality:      result.Quality,
			Width:        result.Width,
			Height:       result.Height,
			BudgetMet:    result.BudgetMet(),
		})
	}

	stdout := cmd.OutOrStdout()
	if result.Compressed {
		fmt.Fprintf(stdout, "%s: %s (was %s), quality %.2f, %dx%d\n", out,
			imaging.FormatFileSize(result.Size), imaging.FormatFileSize(result.OriginalSize),
			result.Quality, result.Width, result.Height)
	} else {
		fmt.Fprintf(stdout, "%s: %s, already within %s\n", out,
			imaging.FormatFileSize(result.Size), imaging.FormatFileSize(maxBytes))
	}
	if !result.BudgetMet() {
		fmt.Fprintf(stderr, "warning: %s is still over the %s budget\n", out, humanize.IBytes(uint64(maxBytes)))
	}
	return nil
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".compressed.jpg"
}

package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/msomdec/tasktrack/internal/imaging"
	"github.com/spf13/cobra"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

type measureOutput struct {
	Input         string `json:"input"`
	Size          int64  `json:"size"`
	FormattedSize string `json:"formattedSize"`
	Base64Length  int    `json:"base64Length"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	Format        string `json:"format,omitempty"`
}

func newMeasureCommand(opts *options) *cobra.Command {
	var asText bool

	cmd := &cobra.Command{
		Use:   "measure <file>",
		Short: "Report the decoded size of a photo as the app measures it",
		Long: "Measure base64-encodes the file and reports its decoded byte size. " +
			"With --base64 the file is read as a data URI or base64 payload instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			var payload string
			if asText {
				payload = strings.TrimSpace(string(raw))
			} else {
				payload = base64.StdEncoding.EncodeToString(raw)
			}

			res := measureOutput{
				Input:        args[0],
				Size:         imaging.MeasureBase64Size(payload),
				Base64Length: len(imaging.StripDataURI(payload)),
			}
			res.FormattedSize = imaging.FormatFileSize(res.Size)

			if decoded, err := base64.StdEncoding.DecodeString(imaging.StripDataURI(payload)); err == nil {
				if cfg, format, err := image.DecodeConfig(bytes.NewReader(decoded)); err == nil {
					res.Width, res.Height, res.Format = cfg.Width, cfg.Height, format
				}
			}

			if opts.json {
				return writeJSON(cmd, res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s (%s bytes)\n", res.Input, res.FormattedSize, humanize.Comma(res.Size))
			if res.Format != "" {
				fmt.Fprintf(out, "  %s %dx%d\n", res.Format, res.Width, res.Height)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asText, "base64", false, "Treat the file as base64 text or a data URI")

	return cmd
}

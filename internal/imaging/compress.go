package imaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
)

const (
	// DefaultMaxSizeBytes is the usual upload budget for profile photos (1 MiB).
	DefaultMaxSizeBytes int64 = 1024 * 1024
	// DefaultInitialQuality is the quality of the first compression pass.
	DefaultInitialQuality = 0.8

	maxAttempts   = 8
	baseDimension = 800
	minDimension  = 400
	dimensionStep = 100
	qualityStep   = 0.1
	minQuality    = 0.1
)

// Compressor re-encodes an asset at falling quality and dimensions until it
// fits a byte budget or the attempt limit is reached.
type Compressor struct {
	encoder Encoder
	logger  *slog.Logger
}

// NewCompressor creates a Compressor. A nil logger uses slog.Default().
func NewCompressor(encoder Encoder, logger *slog.Logger) *Compressor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compressor{encoder: encoder, logger: logger}
}

// Compress returns the first encoding whose measured size is within
// maxSizeBytes. When the budget cannot be met after the last attempt, the
// final encoding is returned with its true size and a nil error; callers
// compare Size against the budget to detect that case.
//
// Every pass encodes the original asset, never the previous pass's output.
func (c *Compressor) Compress(ctx context.Context, asset Asset, maxSizeBytes int64, initialQuality float64) (*EncodedImage, error) {
	if !asset.Valid() {
		return nil, ErrInvalidAsset
	}
	asset, err := prepare(ctx, c.encoder, asset)
	if err != nil {
		return nil, err
	}
	return c.compress(ctx, asset, maxSizeBytes, initialQuality)
}

func (c *Compressor) compress(ctx context.Context, asset Asset, maxSizeBytes int64, initialQuality float64) (*EncodedImage, error) {
	quality := initialQuality
	if quality <= 0 || quality > 1 {
		quality = DefaultInitialQuality
	}
	dim := baseDimension

	enc, err := c.encode(ctx, asset, dim, quality)
	if err != nil {
		return nil, err
	}

	attempt := 0
	for attempt < maxAttempts {
		c.logger.DebugContext(ctx, "compression attempt",
			"attempt", attempt+1,
			"size", FormatFileSize(enc.Size),
			"quality", quality,
			"dimension", dim,
		)
		if enc.Size <= maxSizeBytes {
			c.logger.InfoContext(ctx, "image compressed", "size", FormatFileSize(enc.Size), "attempts", attempt+1)
			return enc, nil
		}

		quality = stepQuality(quality)
		attempt++
		dim = max(minDimension, baseDimension-attempt*dimensionStep)

		enc, err = c.encode(ctx, asset, dim, quality)
		if err != nil {
			return nil, err
		}
	}

	if enc.Size <= maxSizeBytes {
		c.logger.InfoContext(ctx, "image compressed", "size", FormatFileSize(enc.Size), "attempts", attempt+1)
		return enc, nil
	}
	c.logger.WarnContext(ctx, "could not compress image within budget",
		"budget", FormatFileSize(maxSizeBytes),
		"size", FormatFileSize(enc.Size),
		"quality", quality,
	)
	return enc, nil
}

func (c *Compressor) encode(ctx context.Context, asset Asset, dim int, quality float64) (*EncodedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}
	enc, err := c.encoder.Encode(ctx, asset, EncodeOptions{MaxWidth: dim, MaxHeight: dim, Quality: quality})
	if err != nil {
		return nil, fmt.Errorf("%w: encode at %dpx q=%.2f: %w", ErrEncodingFailure, dim, quality, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: encoder returned no image", ErrEncodingFailure)
	}
	enc.Quality = quality
	enc.Size = MeasureBase64Size(enc.Base64)
	return enc, nil
}

// prepare lets a Preparer decode the asset once. Limit violations pass
// through as ErrImageTooLarge; other failures are encoding failures.
func prepare(ctx context.Context, encoder Encoder, asset Asset) (Asset, error) {
	p, ok := encoder.(Preparer)
	if !ok {
		return asset, nil
	}
	prepared, err := p.Prepare(ctx, asset)
	switch {
	case err == nil:
		return prepared, nil
	case errors.Is(err, ErrImageTooLarge):
		return Asset{}, err
	default:
		return Asset{}, fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}
}

// stepQuality lowers q by one step, floored at minQuality. Rounding keeps
// repeated subtraction from drifting (0.8 -> 0.7, not 0.7000000000000001).
func stepQuality(q float64) float64 {
	next := math.Round((q-qualityStep)*1e6) / 1e6
	return math.Max(minQuality, next)
}

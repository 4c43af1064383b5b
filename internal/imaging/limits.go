package imaging

import (
	"bytes"
	"fmt"
	"image"
)

const (
	DefaultMaxWidth  = 4096
	DefaultMaxHeight = 4096
	DefaultMaxPixels = 4096 * 4096
)

// Limits bounds the dimensions of a source image before its pixels are
// decoded. Zero fields take the package defaults.
type Limits struct {
	MaxWidth  int
	MaxHeight int
	MaxPixels int64
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxWidth: DefaultMaxWidth, MaxHeight: DefaultMaxHeight, MaxPixels: DefaultMaxPixels}
}

func (l Limits) withDefaults() Limits {
	if l.MaxWidth <= 0 {
		l.MaxWidth = DefaultMaxWidth
	}
	if l.MaxHeight <= 0 {
		l.MaxHeight = DefaultMaxHeight
	}
	if l.MaxPixels <= 0 {
		l.MaxPixels = DefaultMaxPixels
	}
	return l
}

// CheckDimensions reads only the image header in data and reports
// ErrImageTooLarge when its width, height or pixel count exceeds l.
func CheckDimensions(data []byte, l Limits) error {
	l = l.withDefaults()

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width > l.MaxWidth || cfg.Height > l.MaxHeight {
		return fmt.Errorf("%w: %dx%d exceeds the %dx%d limit",
			ErrImageTooLarge, cfg.Width, cfg.Height, l.MaxWidth, l.MaxHeight)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > l.MaxPixels {
		return fmt.Errorf("%w: %d pixels exceeds the %d pixel limit", ErrImageTooLarge, pixels, l.MaxPixels)
	}
	return nil
}

package imaging

import (
	"context"
	"fmt"
	"log/slog"
)

// Advisory is told that an image is about to be compressed. It is a notice
// for the user, not an error path.
type Advisory func(ctx context.Context, originalSize, maxSizeBytes int64)

// ProcessorOptions configures a Processor.
type ProcessorOptions struct {
	InitialQuality float64 // defaults to DefaultInitialQuality
	Advise         Advisory
	Logger         *slog.Logger
}

// Processor measures an asset and compresses it only when it exceeds the
// byte budget.
type Processor struct {
	encoder        Encoder
	compressor     *Compressor
	initialQuality float64
	advise         Advisory
	logger         *slog.Logger
}

// NewProcessor creates a Processor around the given encoder.
func NewProcessor(encoder Encoder, opts ProcessorOptions) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	quality := opts.InitialQuality
	if quality <= 0 || quality > 1 {
		quality = DefaultInitialQuality
	}
	return &Processor{
		encoder:        encoder,
		compressor:     NewCompressor(encoder, logger),
		initialQuality: quality,
		advise:         opts.Advise,
		logger:         logger,
	}
}

// Process encodes the asset once at full quality and returns it as is when
// it fits maxSizeBytes. Otherwise it advises the caller and runs the
// compression loop. Encoder failures are reported as ErrEncodingFailure;
// sources over a Preparer's limits fail with ErrImageTooLarge.
func (p *Processor) Process(ctx context.Context, asset Asset, maxSizeBytes int64) (*Result, error) {
	if !asset.Valid() {
		return nil, ErrInvalidAsset
	}
	asset, err := prepare(ctx, p.encoder, asset)
	if err != nil {
		return nil, err
	}

	original, err := p.encoder.Encode(ctx, asset, EncodeOptions{Quality: 1.0})
	if err != nil {
		return nil, fmt.Errorf("%w: encode original: %w", ErrEncodingFailure, err)
	}
	if original == nil {
		return nil, fmt.Errorf("%w: encoder returned no image", ErrEncodingFailure)
	}
	originalSize := MeasureBase64Size(original.Base64)
	p.logger.DebugContext(ctx, "original image size", "size", FormatFileSize(originalSize))

	if originalSize <= maxSizeBytes {
		return &Result{
			Payload: original.Base64,
			Size:    originalSize,
			Quality: 1.0,
			Width:   original.Width,
			Height:  original.Height,
			MaxSize: maxSizeBytes,
		}, nil
	}

	if p.advise != nil {
		p.advise(ctx, originalSize, maxSizeBytes)
	}

	enc, err := p.compressor.compress(ctx, asset, maxSizeBytes, p.initialQuality)
	if err != nil {
		return nil, err
	}

	return &Result{
		Payload:      enc.Base64,
		Size:         enc.Size,
		Compressed:   true,
		OriginalSize: originalSize,
		Quality:      enc.Quality,
		Width:        enc.Width,
		Height:       enc.Height,
		MaxSize:      maxSizeBytes,
	}, nil
}

// AdvisoryMessage is the user-facing notice shown before compression.
func AdvisoryMessage(originalSize, maxSizeBytes int64) string {
	return fmt.Sprintf("The selected image is %s. It will be compressed to under %s.",
		FormatFileSize(originalSize), FormatFileSize(maxSizeBytes))
}

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/msomdec/tasktrack/internal/domain"
	"github.com/msomdec/tasktrack/internal/imaging"
)

// PhotoOptions configures a PhotoService.
type PhotoOptions struct {
	MaxBytes       int64
	InitialQuality float64
	Limits         imaging.Limits
}

// PhotoService turns client-supplied image text into bytes that fit the
// profile photo budget.
type PhotoService struct {
	processor *imaging.Processor
	maxBytes  int64
	limits    imaging.Limits
	logger    *slog.Logger
}

// NewPhotoService creates a PhotoService that compresses oversized photos
// with the given encoder.
func NewPhotoService(encoder imaging.Encoder, opts PhotoOptions, logger *slog.Logger) *PhotoService {
	if logger == nil {
		logger = slog.Default()
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = imaging.DefaultMaxSizeBytes
	}
	s := &PhotoService{maxBytes: maxBytes, limits: opts.Limits, logger: logger}
	s.processor = imaging.NewProcessor(encoder, imaging.ProcessorOptions{
		InitialQuality: opts.InitialQuality,
		Advise:         s.advise,
		Logger:         logger,
	})
	return s
}

// MaxBytes returns the configured photo budget.
func (s *PhotoService) MaxBytes() int64 {
	return s.maxBytes
}

// Normalize decodes a data URI or bare base64 photo and returns the bytes to
// store. Photos within budget are stored as sent; larger ones are
// recompressed. Photos whose header exceeds the dimension limits are
// rejected with imaging.ErrImageTooLarge. An empty input yields nil.
func (s *PhotoService) Normalize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, nil
	}

	data, err := decodePhoto(text)
	if err != nil {
		return nil, err
	}
	if err := imaging.CheckDimensions(data, s.limits); errors.Is(err, imaging.ErrImageTooLarge) {
		return nil, err
	}
	if int64(len(data)) <= s.maxBytes {
		return data, nil
	}

	result, err := s.processor.Process(ctx, imaging.Asset{Data: data}, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("process photo: %w", err)
	}
	if !result.BudgetMet() {
		return nil, fmt.Errorf("%w: compressed photo is %s, limit is %s", imaging.ErrImageTooLarge,
			imaging.FormatFileSize(result.Size), imaging.FormatFileSize(s.maxBytes))
	}

	out, err := base64.StdEncoding.DecodeString(result.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode compressed photo: %w", err)
	}
	s.logger.InfoContext(ctx, "profile photo compressed",
		"original", imaging.FormatFileSize(result.OriginalSize),
		"stored", imaging.FormatFileSize(int64(len(out))),
		"quality", result.Quality,
	)
	return out, nil
}

// Compress runs the intake pipeline on image text and returns the result.
// A non-positive maxBytes selects the configured budget.
func (s *PhotoService) Compress(ctx context.Context, text string, maxBytes int64) (*imaging.Result, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: image is required", domain.ErrInvalidInput)
	}
	if maxBytes <= 0 {
		maxBytes = s.maxBytes
	}

	data, err := decodePhoto(text)
	if err != nil {
		return nil, err
	}
	return s.processor.Process(ctx, imaging.Asset{Data: data}, maxBytes)
}

// EncodePhoto renders stored photo bytes as a JPEG data URI, or "" when no
// photo is stored.
func EncodePhoto(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return imaging.DataURI(base64.StdEncoding.EncodeToString(data))
}

func (s *PhotoService) advise(ctx context.Context, originalSize, maxSizeBytes int64) {
	s.logger.InfoContext(ctx, imaging.AdvisoryMessage(originalSize, maxSizeBytes))
}

func decodePhoto(text string) ([]byte, error) {
	payload := strings.TrimSpace(imaging.StripDataURI(text))
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some pickers drop the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil || len(data) == 0 {
		return nil, fmt.Errorf("%w: Invalid profile photo format", domain.ErrInvalidInput)
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: profile photo must be an image, got %s", domain.ErrInvalidInput, mt.String())
	}
	return data, nil
}

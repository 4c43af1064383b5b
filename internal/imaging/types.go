package imaging

import (
	"context"
	"image"
)

// Asset is a raw image as supplied by a picker, camera or upload. Either URI
// or Data must be set; the remaining fields are informational.
type Asset struct {
	URI    string // file path, optionally with a file:// scheme
	Data   []byte // in-memory source, takes precedence over URI
	Base64 string // optional pre-encoded form supplied by the picker
	Width  int
	Height int

	decoded image.Image // set by Preparer implementations in this package
}

// Valid reports whether the asset has a usable source reference.
func (a Asset) Valid() bool {
	return len(a.Data) > 0 || a.URI != "" || a.decoded != nil
}

// EncodeOptions controls a single encoding pass. Zero MaxWidth/MaxHeight
// means the source dimensions are kept.
type EncodeOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   float64
}

// EncodedImage is the output of one encoding pass.
type EncodedImage struct {
	Base64  string
	Width   int
	Height  int
	Quality float64
	Size    int64
}

// DataURI returns the payload wrapped as a JPEG data URI.
func (e *EncodedImage) DataURI() string {
	return DataURI(e.Base64)
}

// Encoder produces a JPEG encoding of an asset. Implementations must read
// the asset's original source on every call.
type Encoder interface {
	Encode(ctx context.Context, asset Asset, opts EncodeOptions) (*EncodedImage, error)
}

// Preparer is implemented by encoders that can decode an asset once ahead of
// a run of passes. The prepared asset still encodes its original source.
type Preparer interface {
	Prepare(ctx context.Context, asset Asset) (Asset, error)
}

// Result is the final answer of the intake pipeline.
type Result struct {
	Payload      string // base64, no data URI prefix
	Size         int64
	Compressed   bool
	OriginalSize int64 // set only when Compressed is true
	Quality      float64
	Width        int
	Height       int
	MaxSize      int64
}

// BudgetMet reports whether the payload fits the byte budget it was
// processed against.
func (r *Result) BudgetMet() bool {
	return r.Size <= r.MaxSize
}

// DataURI returns the payload wrapped as a JPEG data URI.
func (r *Result) DataURI() string {
	return DataURI(r.Payload)
}

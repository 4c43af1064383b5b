package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// JPEGEncoder decodes JPEG, PNG, GIF, WebP and BMP sources and re-encodes
// them as baseline JPEG. Sources larger than its Limits are rejected before
// their pixels are decoded. It holds no mutable state and is safe for
// concurrent use.
type JPEGEncoder struct {
	limits Limits
}

// NewJPEGEncoder creates a JPEGEncoder. Zero fields of limits take the
// package defaults.
func NewJPEGEncoder(limits Limits) *JPEGEncoder {
	return &JPEGEncoder{limits: limits.withDefaults()}
}

// Prepare checks the asset's dimensions, decodes its original source once
// and applies EXIF orientation. Encoding the returned asset skips the decode.
func (e *JPEGEncoder) Prepare(ctx context.Context, asset Asset) (Asset, error) {
	if asset.decoded != nil {
		return asset, nil
	}
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}

	data, err := readSource(asset)
	if err != nil {
		return Asset{}, err
	}
	if err := CheckDimensions(data, e.limits); err != nil {
		return Asset{}, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Asset{}, fmt.Errorf("decode image: %w", err)
	}
	if format == "jpeg" {
		img = applyOrientation(img, readOrientation(data))
	}
	asset.decoded = img
	return asset, nil
}

// Encode fits the asset's original image within the requested box and
// encodes it at the given quality.
func (e *JPEGEncoder) Encode(ctx context.Context, asset Asset, opts EncodeOptions) (*EncodedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	asset, err := e.Prepare(ctx, asset)
	if err != nil {
		return nil, err
	}
	img := asset.decoded
	if opts.MaxWidth > 0 && opts.MaxHeight > 0 {
		img = fitWithin(img, opts.MaxWidth, opts.MaxHeight)
	}
	img = flatten(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(opts.Quality)}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	b := img.Bounds()
	return &EncodedImage{
		Base64:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:   b.Dx(),
		Height:  b.Dy(),
		Quality: opts.Quality,
	}, nil
}

func readSource(asset Asset) ([]byte, error) {
	if len(asset.Data) > 0 {
		return asset.Data, nil
	}
	path := strings.TrimPrefix(asset.URI, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return data, nil
}

// jpegQuality maps a (0,1] quality fraction onto the encoder's 1-100 scale.
func jpegQuality(q float64) int {
	v := int(math.Round(q * 100))
	return min(max(v, 1), 100)
}

// fitWithin scales img down to fit a maxW x maxH box, preserving aspect
// ratio. Images already inside the box are returned unchanged.
func fitWithin(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return img
	}

	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// flatten composites images with an alpha channel onto white so transparent
// regions do not come out black in the JPEG.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func readOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// applyOrientation returns img transformed so that it displays upright for
// the given EXIF orientation value (1-8).
func applyOrientation(img image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch orientation {
			case 2:
				dx, dy = w-1-x, y
			case 3:
				dx, dy = w-1-x, h-1-y
			case 4:
				dx, dy = x, h-1-y
			case 5:
				dx, dy = y, x
			case 6:
				dx, dy = h-1-y, x
			case 7:
				dx, dy = h-1-y, w-1-x
			case 8:
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

package imaging_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/msomdec/tasktrack/internal/imaging"
)

// noiseImage returns a w x h image of random pixels, which compresses poorly.
func noiseImage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rng.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, payload string) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	return img
}

func TestJPEGEncoder_FitsWithinBox(t *testing.T) {
	data := encodePNG(t, noiseImage(1600, 1200, 1))
	enc := imaging.NewJPEGEncoder(imaging.Limits{})

	out, err := enc.Encode(context.Background(), imaging.Asset{Data: data}, imaging.EncodeOptions{MaxWidth: 800, MaxHeight: 800, Quality: 0.8})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if out.Width != 800 || out.Height != 600 {
		t.Fatalf("expected 800x600, got %dx%d", out.Width, out.Height)
	}

	img := decodeJPEG(t, out.Base64)
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("decoded jpeg is %dx%d", b.Dx(), b.Dy())
	}
}

func TestJPEGEncoder_NoResizeKeepsDimensions(t *testing.T) {
	data := encodePNG(t, noiseImage(300, 200, 2))
	enc := imaging.NewJPEGEncoder(imaging.Limits{})

	out, err := enc.Encode(context.Background(), imaging.Asset{Data: data}, imaging.EncodeOptions{Quality: 1.0})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if out.Width != 300 || out.Height != 200 {
		t.Fatalf("expected 300x200, got %dx%d", out.Width, out.Height)
	}
}

func TestJPEGEncoder_DoesNotUpscale(t *testing.T) {
	data := encodePNG(t, noiseImage(120, 90, 3))
	enc := imaging.NewJPEGEncoder(imaging.Limits{})

	out, err := enc.Encode(context.Background(), imaging.Asset{Data: data}, imaging.EncodeOptions{MaxWidth: 800, MaxHeight: 800, Quality: 0.8})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if out.Width != 120 || out.Height != 90 {
		t.Fatalf("expected 120x90, got %dx%d", out.Width, out.Height)
	}
}

func TestJPEGEncoder_LowerQualityIsSmaller(t *testing.T) {
	data := encodePNG(t, noiseImage(400, 400, 4))
	enc := imaging.NewJPEGEncoder(imaging.Limits{})
	ctx := context.Background()

	high, err := enc.Encode(ctx, imaging.Asset{Data: data}, imaging.EncodeOptions{Quality: 0.9})
	if err != nil {
		t.Fatalf("Encode high: %v", err)
	}
	low, err := enc.Encode(ctx, imaging.Asset{Data: data}, imaging.EncodeOptions{Quality: 0.1})
	if err != nil {
		t.Fatalf("Encode low: %v", err)
	}
	if len(low.Base64) >= len(high.Base64) {
		t.Fatalf("expected q=0.1 (%d) smaller than q=0.9 (%d)", len(low.Base64), len(high.Base64))
	}
}

func TestJPEGEncoder_ReadsFileURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, encodePNG(t, noiseImage(64, 32, 5)), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	enc := imaging.NewJPEGEncoder(imaging.Limits{})

	for _, uri := range []string{path, "file://" + path} {
		out, err := enc.Encode(context.Background(), imaging.Asset{URI: uri}, imaging.EncodeOptions{Quality: 0.8})
		if err != nil {
			t.Fatalf("Encode(%q): %v", uri, err)
		}
		if out.Width != 64 || out.Height != 32 {
			t.Fatalf("expected 64x32, got %dx%d", out.Width, out.Height)
		}
	}
}

func TestJPEGEncoder_MissingFile(t *testing.T) {
	enc := imaging.NewJPEGEncoder(imaging.Limits{})
	_, err := enc.Encode(context.Background(), imaging.Asset{URI: filepath.Join(t.TempDir(), "missing.jpg")}, imaging.EncodeOptions{Quality: 0.8})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestJPEGEncoder_RejectsNonImage(t *testing.T) {
	enc := imaging.NewJPEGEncoder(imaging.Limits{})
	_, err := enc.Encode(context.Background(), imaging.Asset{Data: []byte("definitely not an image")}, imaging.EncodeOptions{Quality: 0.8})
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestJPEGEncoder_TransparentBecomesWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	data := encodePNG(t, img)
	enc := imaging.NewJPEGEncoder(imaging.Limits{})

	out, err := enc.Encode(context.Background(), imaging.Asset{Data: data}, imaging.EncodeOptions{Quality: 1.0})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	r, g, b, _ := decodeJPEG(t, out.Base64).At(8, 8).RGBA()
	if r>>8 < 0xf0 || g>>8 < 0xf0 || b>>8 < 0xf0 {
		t.Fatalf("expected white pixel, got %v", color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xff})
	}
}

func TestProcessor_WithJPEGEncoder(t *testing.T) {
	data := encodePNG(t, noiseImage(1200, 1200, 6))
	p := imaging.NewProcessor(imaging.NewJPEGEncoder(imaging.Limits{}), imaging.ProcessorOptions{})

	res, err := p.Process(context.Background(), imaging.Asset{Data: data}, 64*1024)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !res.Compressed {
		t.Fatal("expected noise image to need compression")
	}
	if res.Size >= res.OriginalSize {
		t.Fatalf("expected size %d below original %d", res.Size, res.OriginalSize)
	}
	if res.Width > 800 || res.Height > 800 {
		t.Fatalf("expected result within 800x800, got %dx%d", res.Width, res.Height)
	}
	if got := imaging.MeasureBase64Size(res.DataURI()); got != res.Size {
		t.Fatalf("reported size %d does not match payload %d", res.Size, got)
	}
}

func grayPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	return encodePNG(t, image.NewGray(image.Rect(0, 0, w, h)))
}

func TestCheckDimensions(t *testing.T) {
	limits := imaging.Limits{MaxWidth: 100, MaxHeight: 80, MaxPixels: 5000}

	tests := []struct {
		name   string
		w, h   int
		tooBig bool
	}{
		{"within limits", 50, 50, false},
		{"width over", 101, 10, true},
		{"height over", 10, 81, true},
		{"pixel count over", 90, 70, true},
		{"exactly at pixel limit", 100, 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := imaging.CheckDimensions(grayPNG(t, tt.w, tt.h), limits)
			if tt.tooBig && !errors.Is(err, imaging.ErrImageTooLarge) {
				t.Fatalf("expected ErrImageTooLarge, got %v", err)
			}
			if !tt.tooBig && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestCheckDimensions_NotAnImage(t *testing.T) {
	err := imaging.CheckDimensions([]byte("plain text"), imaging.Limits{})
	if err == nil || errors.Is(err, imaging.ErrImageTooLarge) {
		t.Fatalf("expected a header decode error, got %v", err)
	}
}

func TestJPEGEncoder_RejectsOversizedSource(t *testing.T) {
	// Highly compressible: a few KB of PNG for a source wider than the default limit.
	data := grayPNG(t, imaging.DefaultMaxWidth+1, 2)
	enc := imaging.NewJPEGEncoder(imaging.Limits{})

	_, err := enc.Encode(context.Background(), imaging.Asset{Data: data}, imaging.EncodeOptions{Quality: 1})
	if !errors.Is(err, imaging.ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestProcessor_RejectsPixelFloodBeforeDecoding(t *testing.T) {
	data := grayPNG(t, 2000, 2000)
	p := imaging.NewProcessor(imaging.NewJPEGEncoder(imaging.Limits{MaxPixels: 1000 * 1000}), imaging.ProcessorOptions{})

	res, err := p.Process(context.Background(), imaging.Asset{Data: data}, 1)
	if !errors.Is(err, imaging.ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got res=%+v err=%v", res, err)
	}
	if errors.Is(err, imaging.ErrEncodingFailure) {
		t.Fatalf("limit violation should not be reported as an encoding failure: %v", err)
	}
}

func TestJPEGEncoder_PreparedAssetSkipsDecode(t *testing.T) {
	data := encodePNG(t, noiseImage(300, 200, 8))
	enc := imaging.NewJPEGEncoder(imaging.Limits{})
	ctx := context.Background()

	prepared, err := enc.Prepare(ctx, imaging.Asset{Data: data})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	want, err := enc.Encode(ctx, imaging.Asset{Data: data}, imaging.EncodeOptions{MaxWidth: 150, MaxHeight: 150, Quality: 0.7})
	if err != nil {
		t.Fatalf("Encode original: %v", err)
	}

	// The source bytes are gone; only the decoded image remains.
	prepared.Data = nil
	if !prepared.Valid() {
		t.Fatal("expected prepared asset to be valid without its source bytes")
	}
	for i := 0; i < 2; i++ {
		got, err := enc.Encode(ctx, prepared, imaging.EncodeOptions{MaxWidth: 150, MaxHeight: 150, Quality: 0.7})
		if err != nil {
			t.Fatalf("Encode prepared: %v", err)
		}
		if got.Base64 != want.Base64 {
			t.Fatalf("pass %d: prepared encoding differs from encoding the original source", i)
		}
	}
}

func TestProcessor_ConcurrentWithJPEGEncoder(t *testing.T) {
	inputs := [][]byte{
		encodePNG(t, noiseImage(600, 600, 9)),
		encodePNG(t, noiseImage(200, 150, 10)),
	}
	const budget = 64 * 1024
	p := imaging.NewProcessor(imaging.NewJPEGEncoder(imaging.Limits{}), imaging.ProcessorOptions{})
	ctx := context.Background()

	want := make([]*imaging.Result, len(inputs))
	for i, data := range inputs {
		res, err := p.Process(ctx, imaging.Asset{Data: data}, budget)
		if err != nil {
			t.Fatalf("baseline %d: %v", i, err)
		}
		want[i] = res
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			i := g % len(inputs)
			got, err := p.Process(ctx, imaging.Asset{Data: inputs[i]}, budget)
			if err != nil {
				t.Errorf("goroutine %d: %v", g, err)
				return
			}
			if got.Payload != want[i].Payload || got.Size != want[i].Size || got.Quality != want[i].Quality {
				t.Errorf("goroutine %d: result differs from sequential run: size %d q %v, want size %d q %v",
					g, got.Size, got.Quality, want[i].Size, want[i].Quality)
			}
		}(g)
	}
	wg.Wait()
}

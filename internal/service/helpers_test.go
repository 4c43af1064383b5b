package service_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/msomdec/tasktrack/internal/imaging"
	"github.com/msomdec/tasktrack/internal/repository/sqlite"
	"github.com/msomdec/tasktrack/internal/service"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testCost      = 4 // fast bcrypt for tests
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestPhotos(maxBytes int64) *service.PhotoService {
	return service.NewPhotoService(imaging.NewJPEGEncoder(imaging.Limits{}),
		service.PhotoOptions{MaxBytes: maxBytes}, slog.New(slog.DiscardHandler))
}

// noisePNG returns a PNG of random pixels, which compresses poorly.
func noisePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	r := rand.New(rand.NewPCG(1, 2))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(r.IntN(256)), uint8(r.IntN(256)), uint8(r.IntN(256)), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(noisePNG(t, w, h))
}

package photos

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"rpkg/config"
	"rpkg/content"
)

const testSVG = `<svg viewBox="0 0 40 30" xmlns="http://www.w3.org/2000/svg"><rect x="0" y="0" width="40" height="30" fill="#3498db"/></svg>`

func testConfig(src string, count int) *config.PhotosConfig {
	return &config.PhotosConfig{SourceDir: src, Count: count, JPEGQuality: 85, Placeholders: true}
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(&buf, img)
	case ".gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func decodeConfig(t *testing.T, path string) image.Config {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("photo is missing: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format != "jpeg" {
		t.Fatalf("photo %s is not jpeg: %q %v", path, format, err)
	}
	return cfg
}

func TestPrepare_Placeholders(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")

	res, err := Prepare(context.Background(), testConfig("", 3), dir, []byte(testSVG), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if res.Placeholders != 3 || res.Converted != 0 || len(res.Missing) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	want := []string{content.PhotoPath(1), content.PhotoPath(2), content.PhotoPath(3)}
	if !slices.Equal(res.Files, want) {
		t.Errorf("Files = %v, want %v", res.Files, want)
	}
	for n := 1; n <= 3; n++ {
		cfg := decodeConfig(t, filepath.Join(dir, content.PhotoName(n)))
		if cfg.Width != placeholderWidth || cfg.Height != placeholderWidth*3/4 {
			t.Errorf("placeholder %d is %dx%d", n, cfg.Width, cfg.Height)
		}
	}
}

func TestPrepare_SourceOrder(t *testing.T) {
	src := t.TempDir()
	writeImage(t, filepath.Join(src, "p10.jpg"), solid(30, 10, color.RGBA{R: 255, A: 255}))
	writeImage(t, filepath.Join(src, "p2.png"), solid(20, 10, color.RGBA{G: 255, A: 255}))
	writeImage(t, filepath.Join(src, "p1.gif"), solid(10, 10, color.RGBA{B: 255, A: 255}))
	if err := os.WriteFile(filepath.Join(src, "notes.txt"), []byte("not a photo"), 0644); err != nil {
		t.Fatal(err)
	}
	// sniffs as jpeg but does not decode
	if err := os.WriteFile(filepath.Join(src, "p3.jpg"), []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0, 1}, 0644); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "images")
	res, err := Prepare(context.Background(), testConfig(src, 4), dir, []byte(testSVG), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if res.Converted != 3 || res.Placeholders != 1 {
		t.Errorf("unexpected result %+v", res)
	}

	// p1, p2, p10 by width, broken p3 skipped, last slot gets placeholder
	for n, width := range []int{10, 20, 30, placeholderWidth} {
		if cfg := decodeConfig(t, filepath.Join(dir, content.PhotoName(n+1))); cfg.Width != width {
			t.Errorf("photo %d width = %d, want %d", n+1, cfg.Width, width)
		}
	}
}

func TestPrepare_Resize(t *testing.T) {
	src := t.TempDir()
	writeImage(t, filepath.Join(src, "big.png"), solid(400, 300, color.RGBA{R: 10, G: 120, B: 200, A: 255}))
	writeImage(t, filepath.Join(src, "small.png"), solid(50, 40, color.RGBA{R: 10, G: 120, B: 200, A: 255}))

	cfg := testConfig(src, 2)
	cfg.Width = 100
	dir := t.TempDir()
	if _, err := Prepare(context.Background(), cfg, dir, nil, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if c := decodeConfig(t, filepath.Join(dir, content.PhotoName(1))); c.Width != 100 || c.Height != 75 {
		t.Errorf("resized photo is %dx%d, want 100x75", c.Width, c.Height)
	}
	if c := decodeConfig(t, filepath.Join(dir, content.PhotoName(2))); c.Width != 50 || c.Height != 40 {
		t.Errorf("small photo is %dx%d, must not be enlarged", c.Width, c.Height)
	}
}

func TestPrepare_Grayscale(t *testing.T) {
	src := t.TempDir()
	writeImage(t, filepath.Join(src, "gray.png"), solid(16, 16, color.RGBA{R: 90, G: 90, B: 90, A: 255}))

	dir := t.TempDir()
	if _, err := Prepare(context.Background(), testConfig(src, 1), dir, nil, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if c := decodeConfig(t, filepath.Join(dir, content.PhotoName(1))); c.ColorModel != color.GrayModel {
		t.Error("grayscale photo must be stored with single component")
	}
}

func TestPrepare_KeepExisting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, content.PhotoName(1))
	writeImage(t, existing, solid(12, 12, color.RGBA{R: 255, G: 128, A: 255}))
	before, _ := os.ReadFile(existing)

	cfg := testConfig(filepath.Join(dir, "absent"), 3)
	cfg.Placeholders = false
	res, err := Prepare(context.Background(), cfg, dir, []byte(testSVG), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if res.Kept != 1 || !slices.Equal(res.Missing, []string{content.PhotoName(2), content.PhotoName(3)}) {
		t.Errorf("unexpected result %+v", res)
	}
	if after, _ := os.ReadFile(existing); !bytes.Equal(before, after) {
		t.Error("existing photo was modified")
	}
}

func TestPrepare_BrokenPlaceholder(t *testing.T) {
	for _, svg := range []string{"<svg", "plain notes, not an image"} {
		dir := t.TempDir()
		res, err := Prepare(context.Background(), testConfig("", 2), dir, []byte(svg), zaptest.NewLogger(t))
		if err != nil {
			t.Fatalf("Prepare(%q) error = %v", svg, err)
		}
		if len(res.Missing) != 2 || len(res.Files) != 0 || res.Placeholders != 0 {
			t.Errorf("Prepare(%q) unexpected result %+v", svg, res)
		}
		if _, err := os.Stat(filepath.Join(dir, content.PhotoName(1))); !os.IsNotExist(err) {
			t.Errorf("Prepare(%q) wrote placeholder photo", svg)
		}
	}
}

func TestPrepare_Errors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Prepare(context.Background(), testConfig("", 1), filepath.Join(file, "images"), nil, zaptest.NewLogger(t)); err == nil {
		t.Error("expected error when directory can not be created")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Prepare(ctx, testConfig("", 1), t.TempDir(), []byte(testSVG), zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for canceled context")
	}
}

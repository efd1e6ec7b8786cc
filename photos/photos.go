// Package photos fills package image directory with activity photos the
// report refers to.
package photos

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"rpkg/config"
	"rpkg/content"
	"rpkg/utils/images"
)

const (
	dpi              = 96
	placeholderWidth = 800
)

// Result describes prepared photo directory.
type Result struct {
	// Files are package relative paths of photos present after preparation,
	// in slot order.
	Files        []string
	Converted    int
	Kept         int
	Placeholders int
	// Missing lists slots left empty.
	Missing []string
}

// Prepare fills dir with cfg.Count photos named image_<n>.jpg. Slots are
// taken in order by decodable source photos, then by photos already present
// in dir, then by placeholders rasterized from placeholderSVG. Problems with
// individual photos are logged and never fail the run, inability to create
// dir or write into it does.
func Prepare(ctx context.Context, cfg *config.PhotosConfig, dir string, placeholderSVG []byte, log *zap.Logger) (*Result, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create photo directory: %w", err)
	}

	sources := listSources(cfg.SourceDir, log)
	res := &Result{}

	var placeholder []byte
	placeholders := cfg.Placeholders && len(placeholderSVG) > 0

	next := 0
	for n := 1; n <= cfg.Count; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := content.PhotoName(n)
		target := filepath.Join(dir, name)

		var data []byte
		for data == nil && next < len(sources) {
			src := sources[next]
			next++
			d, err := normalize(src, cfg)
			if err != nil {
				log.Warn("Unable to use photo, skipping", zap.String("file", src), zap.Error(err))
				continue
			}
			log.Debug("Photo prepared", zap.String("from", src), zap.String("to", name), zap.Int("size", len(d)))
			data = d
		}

		switch {
		case data != nil:
			res.Converted++
		case isJPEG(target):
			log.Debug("Keeping existing photo", zap.String("photo", name))
			res.Kept++
			res.Files = append(res.Files, content.PhotoPath(n))
			continue
		case placeholders:
			if placeholder == nil {
				p, err := rasterize(placeholderSVG, cfg)
				if err != nil {
					log.Warn("Unable to prepare placeholder photo", zap.Error(err))
					placeholders = false
					res.Missing = append(res.Missing, name)
					continue
				}
				placeholder = p
			}
			data = placeholder
			res.Placeholders++
		default:
			log.Warn("No photo available", zap.String("photo", name))
			res.Missing = append(res.Missing, name)
			continue
		}

		if err := os.WriteFile(target, data, 0644); err != nil {
			return nil, fmt.Errorf("unable to write photo %s: %w", name, err)
		}
		res.Files = append(res.Files, content.PhotoPath(n))
	}

	if rest := len(sources) - next; rest > 0 {
		log.Info("More source photos than report uses, ignoring the rest", zap.Int("ignored", rest))
	}
	log.Debug("Photos prepared",
		zap.Int("converted", res.Converted), zap.Int("kept", res.Kept), zap.Int("placeholders", res.Placeholders), zap.Strings("missing", res.Missing))
	return res, nil
}

// listSources returns image files in dir in natural name order.
func listSources(dir string, log *zap.Logger) []string {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("Unable to read photo source directory, using placeholders", zap.String("dir", dir), zap.Error(err))
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(natural.StringSlice(names))

	res := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		kind, err := filetype.MatchFile(path)
		if err != nil || kind == filetype.Unknown || kind.MIME.Type != "image" {
			log.Debug("Skipping file, not recognized as image", zap.String("file", path), zap.Error(err))
			continue
		}
		res = append(res, path)
	}
	return res
}

func isJPEG(path string) bool {
	kind, err := filetype.MatchFile(path)
	return err == nil && kind.Extension == "jpg"
}

func normalize(path string, cfg *config.PhotosConfig) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("unable to decode: %w", err)
	}
	if cfg.Width > 0 && img.Bounds().Dx() > cfg.Width {
		img = imaging.Resize(img, cfg.Width, 0, imaging.Lanczos)
	}
	return encode(img, cfg)
}

func rasterize(svg []byte, cfg *config.PhotosConfig) ([]byte, error) {
	width := cfg.Width
	if width == 0 {
		width = placeholderWidth
	}
	img, err := images.RasterizeSVG(svg, width)
	if err != nil {
		return nil, fmt.Errorf("unable to rasterize placeholder: %w", err)
	}
	return encode(img, cfg)
}

func encode(img image.Image, cfg *config.PhotosConfig) ([]byte, error) {
	if images.IsGrayscale(img) {
		img = images.ToGray(img)
	}
	data, err := images.EncodeJPEG(img, cfg.JPEGQuality, dpi)
	if err != nil {
		return nil, fmt.Errorf("unable to encode: %w", err)
	}
	return data, nil
}

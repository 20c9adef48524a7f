// Package stitch composes one image per monitor into a single canvas shaped
// like the virtual desktop, so a multi-monitor wallpaper lines up with the
// physical layout.
package stitch

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/wallpaper-agent/internal/monitor"
)

// DefaultJPEGQuality is the encoding quality for stitched output.
const DefaultJPEGQuality = 95

// decodeConcurrency bounds parallel image decoding during a stitch.
const decodeConcurrency = 4

// GeometryError reports a precondition violation: mismatched input lengths
// or a topology with no monitors. These are caller bugs, not runtime
// conditions, and are never retried.
type GeometryError struct {
	Message string
}

func (e *GeometryError) Error() string {
	return "stitch geometry error: " + e.Message
}

// Options configures stitching.
type Options struct {
	// Quality is the JPEG encoding quality, 1-100. Zero means
	// DefaultJPEGQuality.
	Quality int
}

// Compose builds the stitched canvas from decoded images. Images and
// monitors pair by position and must have equal non-zero length. Each image
// is resized (Lanczos) when its pixel size differs from its monitor, then
// placed at the monitor's offset within the virtual-desktop bounding box.
// The background is black.
func Compose(images []image.Image, monitors []monitor.Monitor) (*image.NRGBA, error) {
	if len(images) != len(monitors) {
		return nil, &GeometryError{Message: fmt.Sprintf("%d images for %d monitors", len(images), len(monitors))}
	}
	box, err := monitor.BoundingBox(monitors)
	if err != nil {
		return nil, &GeometryError{Message: err.Error()}
	}

	canvas := imaging.New(box.Dx(), box.Dy(), color.Black)
	for i, img := range images {
		m := monitors[i]
		if img.Bounds().Dx() != m.Width || img.Bounds().Dy() != m.Height {
			img = imaging.Resize(img, m.Width, m.Height, imaging.Lanczos)
		}
		canvas = imaging.Paste(canvas, img, image.Pt(m.X-box.Min.X, m.Y-box.Min.Y))
	}
	return canvas, nil
}

// Stitch reads one image file per monitor, composes the canvas, and saves it
// to outPath. Any unreadable input fails the whole operation before a canvas
// is allocated; a partial composite is never written. The output format
// follows the extension, JPEG at Options.Quality being the expected case.
func Stitch(ctx context.Context, imagePaths []string, monitors []monitor.Monitor, outPath string, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	quality := opts.Quality
	if quality == 0 {
		quality = DefaultJPEGQuality
	}

	if len(imagePaths) != len(monitors) {
		return &GeometryError{Message: fmt.Sprintf("%d image paths for %d monitors", len(imagePaths), len(monitors))}
	}
	if len(monitors) == 0 {
		return &GeometryError{Message: "no monitors"}
	}

	// Decode everything up front. Loads are independent, so they run in
	// parallel; results slot by index to keep composition order
	// deterministic.
	images := make([]image.Image, len(imagePaths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(decodeConcurrency)
	for i, path := range imagePaths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := imaging.Open(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	canvas, err := Compose(images, monitors)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	if err := imaging.Save(canvas, outPath, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("save stitched wallpaper %s: %w", outPath, err)
	}

	log.With("component", "stitch").Info("stitched wallpaper saved",
		"path", outPath, "size", fmt.Sprintf("%dx%d", canvas.Bounds().Dx(), canvas.Bounds().Dy()), "monitors", len(monitors))
	return nil
}

// Package imgproc validates and transforms individual wallpaper images:
// mean-brightness classification and centered aspect-ratio cropping.
package imgproc

import (
	"image"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

// DefaultBrightnessThreshold is the mean-luminance cutoff on a 0-255 scale.
// Images at or above it are classified as too bright.
const DefaultBrightnessThreshold = 200.0

// DefaultBrightnessSample caps how many pixels the brightness check reads.
const DefaultBrightnessSample = 10000

// BrightnessOptions configures the brightness classification.
type BrightnessOptions struct {
	// Threshold is the mean-luminance cutoff. Zero means
	// DefaultBrightnessThreshold.
	Threshold float64
	// SampleSize caps the pixels sampled; 0 reads every pixel.
	SampleSize int
	// Seed fixes the sampling sequence for reproducible runs. Zero seeds
	// from the clock.
	Seed int64
}

// DefaultBrightnessOptions returns the standard classification settings.
func DefaultBrightnessOptions() *BrightnessOptions {
	return &BrightnessOptions{
		Threshold:  DefaultBrightnessThreshold,
		SampleSize: DefaultBrightnessSample,
	}
}

// MeanLuminance computes the arithmetic mean luminance of img on a 0-255
// scale. When sampleSize is positive and smaller than the pixel count, a
// uniform random sample of that many pixels is read instead of the whole
// image.
func MeanLuminance(img image.Image, sampleSize int, rng *rand.Rand) float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	total := width * height
	if total == 0 {
		return 0
	}

	if sampleSize > 0 && sampleSize < total {
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		var sum float64
		for i := 0; i < sampleSize; i++ {
			x := bounds.Min.X + rng.Intn(width)
			y := bounds.Min.Y + rng.Intn(height)
			sum += luminanceAt(img, x, y)
		}
		return sum / float64(sampleSize)
	}

	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += luminanceAt(img, x, y)
		}
	}
	return sum / float64(total)
}

// luminanceAt is the ITU-R BT.601 luma of the pixel, matching a grayscale
// conversion.
func luminanceAt(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
}

// TooBrightImage classifies an already-decoded image.
func TooBrightImage(img image.Image, opts *BrightnessOptions) bool {
	if opts == nil {
		opts = DefaultBrightnessOptions()
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultBrightnessThreshold
	}
	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	}
	return MeanLuminance(img, opts.SampleSize, rng) >= threshold
}

// TooBright reports whether the image file's mean luminance reaches the
// threshold. An unreadable or undecodable file classifies as not too bright,
// so one broken download never blocks the pipeline.
func TooBright(path string, opts *BrightnessOptions) bool {
	img, err := imaging.Open(path)
	if err != nil {
		log.With("component", "imgproc").Warn("brightness check could not read image, assuming acceptable", "path", path, "err", err)
		return false
	}
	return TooBrightImage(img, opts)
}

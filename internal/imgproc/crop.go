package imgproc

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/disintegration/imaging"
)

// aspectEpsilon is the ratio difference below which an image counts as
// already conforming, so near-misses are not resampled.
const aspectEpsilon = 1e-4

// AspectRect computes the centered crop rectangle that brings a width×height
// image to the aspectW:aspectH ratio. The second return value is false when
// the image already conforms within epsilon. Non-positive aspect components
// are a usage error and rejected immediately; a zero image height has no
// valid crop.
func AspectRect(width, height, aspectW, aspectH int) (image.Rectangle, bool, error) {
	if aspectW <= 0 || aspectH <= 0 {
		return image.Rectangle{}, false, fmt.Errorf("aspect components must be positive, got %d:%d", aspectW, aspectH)
	}
	if height == 0 {
		return image.Rectangle{}, false, fmt.Errorf("cannot crop an image with zero height")
	}

	target := float64(aspectW) / float64(aspectH)
	current := float64(width) / float64(height)

	if math.Abs(current-target) < aspectEpsilon {
		return image.Rect(0, 0, width, height), false, nil
	}

	if current > target {
		// Wider than the target: keep full height, trim the sides.
		newWidth := int(math.Round(float64(height) * target))
		left := (width - newWidth) / 2
		return image.Rect(left, 0, left+newWidth, height), true, nil
	}

	// Taller than the target: keep full width, trim top and bottom.
	newHeight := int(math.Round(float64(width) / target))
	top := (height - newHeight) / 2
	return image.Rect(0, top, width, top+newHeight), true, nil
}

// CropToAspect crops the image at srcPath to the aspectW:aspectH ratio,
// centered, and writes the result to dstPath. An empty dstPath overwrites
// the source. When the image already conforms it is passed through verbatim
// so no resampling artifacts are introduced. Unlike the brightness check,
// an unreadable image here is a hard failure.
func CropToAspect(srcPath, dstPath string, aspectW, aspectH int) error {
	if aspectW <= 0 || aspectH <= 0 {
		return fmt.Errorf("crop %s: aspect components must be positive, got %d:%d", srcPath, aspectW, aspectH)
	}
	if dstPath == "" {
		dstPath = srcPath
	}

	img, err := imaging.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s for cropping: %w", srcPath, err)
	}

	bounds := img.Bounds()
	rect, changed, err := AspectRect(bounds.Dx(), bounds.Dy(), aspectW, aspectH)
	if err != nil {
		return fmt.Errorf("crop %s: %w", srcPath, err)
	}

	if !changed {
		if dstPath != srcPath {
			// Byte copy preserves the original encoding exactly.
			return copyFile(srcPath, dstPath)
		}
		return nil
	}

	cropped := imaging.Crop(img, rect)
	if err := imaging.Save(cropped, dstPath); err != nil {
		return fmt.Errorf("save cropped image %s: %w", dstPath, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}

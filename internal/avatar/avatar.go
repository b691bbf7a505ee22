// Package avatar cuts face thumbnails out of memory photos.
package avatar

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

// BoxScale is the coordinate range of detected bounding boxes.
const BoxScale = 1000.0

var ErrEmptyBox = errors.New("bounding box is empty")

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Crop decodes the image at src, cuts out box ([ymin, xmin, ymax, xmax] on a
// 0-1000 scale) and writes it as PNG to dst, creating parent directories.
func Crop(src string, box []float64, dst string) error {
	if len(box) != 4 {
		return fmt.Errorf("bounding box needs 4 values, got %d", len(box))
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	rect := Rect(img.Bounds(), box)
	if rect.Empty() {
		return ErrEmptyBox
	}

	si, ok := img.(subImager)
	if !ok {
		return fmt.Errorf("image type %T cannot be cropped", img)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create avatar dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create avatar: %w", err)
	}
	if err := png.Encode(out, si.SubImage(rect)); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode avatar: %w", err)
	}
	return out.Close()
}

// Rect maps a normalised box onto bounds, clamped to the image.
func Rect(bounds image.Rectangle, box []float64) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	ymin, xmin, ymax, xmax := box[0], box[1], box[2], box[3]

	r := image.Rect(
		bounds.Min.X+int(xmin/BoxScale*w),
		bounds.Min.Y+int(ymin/BoxScale*h),
		bounds.Min.X+int(xmax/BoxScale*w),
		bounds.Min.Y+int(ymax/BoxScale*h),
	)
	return r.Intersect(bounds)
}

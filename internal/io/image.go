package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for cover art.
//
// Embedded artwork is often 1000px or larger, which makes the terminal image
// protocol slow to transmit on every track change. ImageService shrinks it
// to a bounded square while preserving the aspect ratio.
//
// Example usage:
//
//	svc := NewImageService()
//	data, resized, err := svc.Fit(ctx, artwork, 600)
//	if resized {
//	    // data is now JPEG encoded
//	}
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Fit shrinks data so neither side exceeds maxSize pixels.
//
// Images already within bounds are returned untouched with resized=false,
// keeping their original encoding. Downscaled images are re-encoded as JPEG.
// A maxSize of zero or less disables resizing.
func (s *ImageService) Fit(ctx context.Context, data []byte, maxSize int) ([]byte, bool, error) {
	if maxSize <= 0 {
		return data, false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	if cfg.Width <= maxSize && cfg.Height <= maxSize {
		return data, false, nil
	}

	resized, err := s.ResizeImage(ctx, data, maxSize, maxSize)
	if err != nil {
		return nil, false, err
	}
	return resized, true, nil
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. Returns the resized image as JPEG-encoded
// bytes. The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 1500x1000 image becomes 600x400
//	resized, err := svc.ResizeImage(ctx, imageData, 600, 600)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Calculate new dimensions maintaining aspect ratio
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

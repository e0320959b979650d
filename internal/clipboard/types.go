// Package clipboard reads pasted images from and writes message text to the
// system clipboard.
package clipboard

import "fmt"

// MaxImageSize is the largest image the upload endpoint accepts (10MB).
const MaxImageSize = 10 * 1024 * 1024

// MaxImageDimension is the maximum allowed width or height in pixels.
const MaxImageDimension = 8000

// ImageData represents clipboard image data, re-encoded to PNG.
type ImageData struct {
	Data      []byte
	MediaType string // always "image/png"
	Width     int
	Height    int
}

// Validate checks the image against the upload endpoint's limits.
func (img *ImageData) Validate() error {
	if len(img.Data) > MaxImageSize {
		return fmt.Errorf("image too large: %d bytes (max %d bytes / %dMB)",
			len(img.Data), MaxImageSize, MaxImageSize/(1024*1024))
	}

	if img.Width > MaxImageDimension || img.Height > MaxImageDimension {
		return fmt.Errorf("image dimensions too large: %dx%d (max %dx%d)",
			img.Width, img.Height, MaxImageDimension, MaxImageDimension)
	}

	return nil
}

// SizeKB returns the image size in kilobytes.
func (img *ImageData) SizeKB() int {
	return len(img.Data) / 1024
}

package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"regexp"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// MaxWidth bounds the compressed image width in pixels.
	MaxWidth = 1024
	// JPEGQuality is the fixed re-encode quality.
	JPEGQuality = 70
)

var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// CompressedImage is the bounded-size derivative of an uploaded image.
type CompressedImage struct {
	JPEG   []byte
	Width  int
	Height int
}

// Compress decodes an image, downscales it so width is at most MaxWidth
// preserving aspect ratio, and re-encodes it as JPEG. Images already within
// the bound are re-encoded without resizing; nothing is ever upscaled.
func Compress(data []byte) (*CompressedImage, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > MaxWidth {
		scale := float64(MaxWidth) / float64(width)
		height = int(float64(height) * scale)
		if height < 1 {
			height = 1
		}
		width = MaxWidth

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg (source format %s): %w", format, err)
	}

	return &CompressedImage{
		JPEG:   buf.Bytes(),
		Width:  width,
		Height: height,
	}, nil
}

// DataURL returns the image as a self-describing data URL.
func (c *CompressedImage) DataURL() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(c.JPEG)
}

// StripDataURLPrefix removes a data:image/*;base64, prefix if present,
// leaving the raw base64 payload.
func StripDataURLPrefix(s string) string {
	return dataURLPrefix.ReplaceAllString(strings.TrimSpace(s), "")
}

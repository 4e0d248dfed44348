package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodeTestImage(t *testing.T, width, height int, asPNG bool) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	if asPNG {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestCompressBoundsWidth(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{name: "wide image downscaled", width: 2048, height: 1024, wantWidth: 1024, wantHeight: 512},
		{name: "exactly at bound untouched", width: 1024, height: 768, wantWidth: 1024, wantHeight: 768},
		{name: "small image never upscaled", width: 640, height: 480, wantWidth: 640, wantHeight: 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeTestImage(t, tt.width, tt.height, false)

			result, err := Compress(data)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			if result.Width != tt.wantWidth || result.Height != tt.wantHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantWidth, tt.wantHeight, result.Width, result.Height)
			}
			if result.Width > MaxWidth {
				t.Errorf("Width %d exceeds bound %d", result.Width, MaxWidth)
			}

			// Output must round-trip as a JPEG with the reported dimensions
			decoded, format, err := image.Decode(bytes.NewReader(result.JPEG))
			if err != nil {
				t.Fatalf("Compressed output does not decode: %v", err)
			}
			if format != "jpeg" {
				t.Errorf("Expected jpeg output, got %s", format)
			}
			if decoded.Bounds().Dx() != tt.wantWidth {
				t.Errorf("Decoded width %d, expected %d", decoded.Bounds().Dx(), tt.wantWidth)
			}
		})
	}
}

func TestCompressAcceptsPNG(t *testing.T) {
	data := encodeTestImage(t, 1600, 900, true)

	result, err := Compress(data)
	if err != nil {
		t.Fatalf("Compress failed on PNG input: %v", err)
	}
	if result.Width != 1024 {
		t.Errorf("Expected width 1024, got %d", result.Width)
	}
}

func TestCompressRejectsGarbage(t *testing.T) {
	if _, err := Compress([]byte("not an image")); err == nil {
		t.Error("Expected error for undecodable input")
	}
}

func TestDataURL(t *testing.T) {
	data := encodeTestImage(t, 100, 100, false)

	result, err := Compress(data)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	dataURL := result.DataURL()
	if !strings.HasPrefix(dataURL, "data:image/jpeg;base64,") {
		t.Fatalf("Unexpected data URL prefix: %.40s", dataURL)
	}

	payload := strings.TrimPrefix(dataURL, "data:image/jpeg;base64,")
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("Data URL payload is not valid base64: %v", err)
	}
	if _, _, err := image.Decode(bytes.NewReader(raw)); err != nil {
		t.Fatalf("Data URL payload does not decode as an image: %v", err)
	}
}

func TestStripDataURLPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "jpeg prefix", input: "data:image/jpeg;base64,abc123", expected: "abc123"},
		{name: "png prefix", input: "data:image/png;base64,xyz", expected: "xyz"},
		{name: "no prefix untouched", input: "abc123", expected: "abc123"},
		{name: "whitespace trimmed", input: "  data:image/jpeg;base64,abc  ", expected: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripDataURLPrefix(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

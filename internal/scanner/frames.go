package scanner

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension bounds the width and height of frames handed to the decoder.
const DefaultMaxDimension = 800

// MaxFrameBytes is the largest encoded frame accepted from clients.
const MaxFrameBytes = 4 << 20

var allowedFrameMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// DecodeFrame decodes an encoded JPEG or PNG frame. The format is sniffed
// from the bytes.
func DecodeFrame(data []byte) (image.Image, error) {
	if len(data) > MaxFrameBytes {
		return nil, fmt.Errorf("frame too large: %d bytes", len(data))
	}

	detected := http.DetectContentType(data)
	if !allowedFrameMIME[detected] {
		return nil, fmt.Errorf("unsupported frame format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	return img, nil
}

// PrepareFrame decodes data and bounds its size for the decoder.
func PrepareFrame(data []byte, maxDim int) (image.Image, error) {
	img, err := DecodeFrame(data)
	if err != nil {
		return nil, err
	}
	return downscale(img, maxDim), nil
}

// downscale resizes img so neither dimension exceeds maxDim, keeping the
// aspect ratio. Smaller images are returned unchanged.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}

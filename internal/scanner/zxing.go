package scanner

import (
	"fmt"
	"image"
	"sync"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

// ZXingDecoder decodes 1D product barcodes (EAN-13, EAN-8, UPC-A, UPC-E,
// Code 128 and Code 39). It is safe for concurrent use.
type ZXingDecoder struct {
	mu      sync.Mutex
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

// NewZXingDecoder creates a decoder trying the supported formats in turn.
func NewZXingDecoder() *ZXingDecoder {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &ZXingDecoder{
		readers: []gozxing.Reader{
			oned.NewMultiFormatUPCEANReader(hints),
			oned.NewCode128Reader(),
			oned.NewCode39Reader(),
		},
		hints: hints,
	}
}

// Decode returns the text of the first barcode found in img, or ErrNoBarcode.
func (d *ZXingDecoder) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to binarize frame: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, r := range d.readers {
		result, err := r.Decode(bmp, d.hints)
		if err == nil {
			return result.GetText(), nil
		}
	}
	return "", ErrNoBarcode
}

// Reset clears reader state between scans.
func (d *ZXingDecoder) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.readers {
		r.Reset()
	}
}

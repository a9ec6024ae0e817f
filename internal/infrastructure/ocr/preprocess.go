package ocr

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// maxWidth - изображения шире этого значения уменьшаются перед распознаванием
const maxWidth = 1600

// Preprocess готовит изображение для OCR: оттенки серого, контраст, резкость.
// Результат всегда кодируется в PNG.
func Preprocess(image []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	processed := imaging.Grayscale(img)
	processed = imaging.AdjustContrast(processed, 20)
	processed = imaging.Sharpen(processed, 0.5)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, processed, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode processed image: %w", err)
	}
	return buf.Bytes(), nil
}

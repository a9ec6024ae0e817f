//go:build !ocr

package ocr

import "context"

// EngineTesseract - имя встроенного движка Tesseract
const EngineTesseract = "tesseract"

// TesseractEngine - заглушка для сборки без тега ocr.
// Для встроенного распознавания соберите с -tags ocr (нужен libtesseract).
type TesseractEngine struct{}

// NewTesseractEngine возвращает ErrEngineUnavailable без тега ocr
func NewTesseractEngine(languages []string, preprocess bool) (*TesseractEngine, error) {
	return nil, ErrEngineUnavailable
}

func (e *TesseractEngine) Name() string {
	return EngineTesseract
}

func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (*Result, error) {
	return nil, ErrEngineUnavailable
}

func (e *TesseractEngine) Health(ctx context.Context) error {
	return ErrEngineUnavailable
}

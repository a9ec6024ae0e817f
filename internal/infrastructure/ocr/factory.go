package ocr

import (
	"fmt"

	"github.com/frontandrew/platescan/internal/pkg/config"
)

// NewEngine создает движок по конфигурации
func NewEngine(cfg *config.OCRConfig) (Engine, error) {
	switch cfg.Engine {
	case config.OCREngineHTTP:
		return NewHTTPEngine(cfg.ServiceURL, cfg.Timeout, cfg.MaxRetries), nil
	case config.OCREngineTesseract:
		engine, err := NewTesseractEngine(cfg.Languages, cfg.Preprocess)
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("unsupported ocr engine %q", cfg.Engine)
	}
}

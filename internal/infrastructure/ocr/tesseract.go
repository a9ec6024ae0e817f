//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// EngineTesseract - имя встроенного движка Tesseract
const EngineTesseract = "tesseract"

const plateWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-"

// TesseractEngine распознает текст локально через libtesseract
type TesseractEngine struct {
	languages  []string
	preprocess bool
}

// NewTesseractEngine создает движок Tesseract
func NewTesseractEngine(languages []string, preprocess bool) (*TesseractEngine, error) {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractEngine{languages: languages, preprocess: preprocess}, nil
}

func (e *TesseractEngine) Name() string {
	return EngineTesseract
}

// Recognize возвращает по одному блоку на каждую распознанную строку
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	if e.preprocess {
		processed, err := Preprocess(image)
		if err != nil {
			return nil, err
		}
		image = processed
	}

	// gosseract.Client не потокобезопасен, поэтому клиент создается на каждый вызов
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("%w: set language: %v", ErrRecognitionFailed, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("%w: set page segmentation mode: %v", ErrRecognitionFailed, err)
	}
	if err := client.SetWhitelist(plateWhitelist); err != nil {
		return nil, fmt.Errorf("%w: set whitelist: %v", ErrRecognitionFailed, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("%w: set image: %v", ErrRecognitionFailed, err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}

	result := &Result{Blocks: make([]TextBlock, 0, len(boxes))}
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		result.Blocks = append(result.Blocks, TextBlock{Text: text, Confidence: box.Confidence / 100})
	}
	result.ProcessingTime = time.Since(start)

	return result, nil
}

// Health проверяет, что libtesseract загружается
func (e *TesseractEngine) Health(ctx context.Context) error {
	client := gosseract.NewClient()
	defer client.Close()
	if v := client.Version(); v == "" {
		return ErrEngineUnavailable
	}
	return nil
}

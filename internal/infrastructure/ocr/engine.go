package ocr

import (
	"context"
	"errors"
	"time"
)

// Ошибки OCR адаптера
var (
	ErrEngineUnavailable = errors.New("ocr engine is not available")
	ErrRecognitionFailed = errors.New("ocr recognition failed")
	ErrUndecodableImage  = errors.New("image cannot be decoded")
)

// TextBlock - фрагмент текста, найденный движком на изображении
type TextBlock struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Result - результат распознавания одного изображения
type Result struct {
	Blocks         []TextBlock   `json:"blocks"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// Texts возвращает тексты блоков в порядке, в котором их вернул движок
func (r *Result) Texts() []string {
	if r == nil {
		return nil
	}
	texts := make([]string, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		texts = append(texts, b.Text)
	}
	return texts
}

// Engine - OCR движок. Один вызов Recognize на изображение, без частичных результатов.
type Engine interface {
	// Name возвращает имя движка (используется в метриках и истории)
	Name() string

	// Recognize распознает текст на изображении
	Recognize(ctx context.Context, image []byte) (*Result, error)

	// Health проверяет доступность движка
	Health(ctx context.Context) error
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImageSource представляет способ получения изображения
type ImageSource string

const (
	SourceCamera  ImageSource = "camera"  // Снимок с камеры устройства
	SourceGallery ImageSource = "gallery" // Выбор из галереи
	SourceUpload  ImageSource = "upload"  // Загрузка через API
)

// Scan - запись о распознавании номеров на изображении
type Scan struct {
	ID                uuid.UUID      `json:"id"`
	UserID            *uuid.UUID     `json:"user_id,omitempty"` // Кто отправил изображение
	Source            ImageSource    `json:"source"`
	Engine            string         `json:"engine"`   // Имя OCR движка
	RawText           string         `json:"raw_text"` // Склеенный текст OCR (после коррекции, если она была)
	Plates            []LicensePlate `json:"plates"`   // Только валидные номера
	ImageURL          string         `json:"image_url,omitempty"`
	OCRFailed         bool           `json:"ocr_failed"`
	CorrectionApplied bool           `json:"correction_applied"`
	CreatedAt         time.Time      `json:"created_at"`
}

// Validate проверяет корректность данных записи
func (s *Scan) Validate() error {
	if s.Source == "" {
		s.Source = SourceUpload
	}

	if s.Source != SourceCamera && s.Source != SourceGallery && s.Source != SourceUpload {
		return ErrInvalidSource
	}

	if s.Engine == "" {
		return ErrInvalidScanData
	}

	for _, p := range s.Plates {
		if !p.IsValid {
			return ErrInvalidScanData
		}
	}

	if s.Plates == nil {
		s.Plates = []LicensePlate{}
	}

	return nil
}

// HasPlates сообщает, найден ли хотя бы один номер
func (s *Scan) HasPlates() bool {
	return len(s.Plates) > 0
}
